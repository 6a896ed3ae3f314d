package buffer

import "fmt"

// Edit represents a text edit operation as seen by the position engine:
// a range that was erased and the length of the text inserted in its place.
// The engine never needs the inserted bytes themselves.
type Edit struct {
	Range  Range      // The range that was erased
	NewLen ByteOffset // Length of the inserted text
}

// NewEdit creates a new Edit.
func NewEdit(r Range, newLen ByteOffset) Edit {
	return Edit{Range: r, NewLen: newLen}
}

// NewInsert creates an Edit that inserts newLen units at a position.
func NewInsert(offset, newLen ByteOffset) Edit {
	return Edit{
		Range:  Range{Start: offset, End: offset},
		NewLen: newLen,
	}
}

// NewDelete creates an Edit that deletes a range of text.
func NewDelete(start, end ByteOffset) Edit {
	return Edit{
		Range: Range{Start: start, End: end},
	}
}

// NewModification creates an Edit from the (position, erased length,
// inserted length) triple the document owner forwards to each registry.
func NewModification(pos, erased, inserted ByteOffset) Edit {
	return Edit{
		Range:  Range{Start: pos, End: pos + erased},
		NewLen: inserted,
	}
}

// String returns a human-readable representation of the edit.
func (e Edit) String() string {
	if e.Range.IsEmpty() {
		return fmt.Sprintf("Insert(%d, +%d)", e.Range.Start, e.NewLen)
	}
	if e.NewLen == 0 {
		return fmt.Sprintf("Delete%s", e.Range.String())
	}
	return fmt.Sprintf("Replace%s with %d", e.Range.String(), e.NewLen)
}

// Pos returns the position of the edit.
func (e Edit) Pos() ByteOffset {
	return e.Range.Start
}

// ErasedLen returns the number of units erased by the edit.
func (e Edit) ErasedLen() ByteOffset {
	return e.Range.Len()
}

// InsertedLen returns the number of units inserted by the edit.
func (e Edit) InsertedLen() ByteOffset {
	return e.NewLen
}

// IsInsert returns true if this is a pure insertion (empty range).
func (e Edit) IsInsert() bool {
	return e.Range.IsEmpty() && e.NewLen != 0
}

// IsDelete returns true if this is a pure deletion (nothing inserted).
func (e Edit) IsDelete() bool {
	return !e.Range.IsEmpty() && e.NewLen == 0
}

// IsNoOp returns true if this edit does nothing.
func (e Edit) IsNoOp() bool {
	return e.Range.IsEmpty() && e.NewLen == 0
}

// Delta returns the change in document length caused by this edit.
func (e Edit) Delta() ByteOffset {
	return e.NewLen - e.Range.Len()
}
