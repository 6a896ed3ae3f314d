package caret

import (
	"fmt"

	"github.com/dshills/spantrack/internal/engine/augtree"
	"github.com/dshills/spantrack/internal/engine/buffer"
)

// Selection is a caret with an optional surrounding selection.
// Caret is the caret's offset within the selection, in [0, Length].
// A Length of zero is a pure caret with no selected text.
type Selection struct {
	Start  buffer.ByteOffset
	Length buffer.ByteOffset
	Caret  buffer.ByteOffset
}

// NewCaret creates a zero-length selection (a pure caret) at offset.
func NewCaret(offset buffer.ByteOffset) Selection {
	return Selection{Start: offset}
}

// NewSelection creates a selection with the caret at its end.
func NewSelection(start, length buffer.ByteOffset) Selection {
	return Selection{Start: start, Length: length, Caret: length}
}

// String returns a human-readable representation of the selection.
func (s Selection) String() string {
	return fmt.Sprintf("(%d,%d,%d)", s.Start, s.Length, s.Caret)
}

// End returns the selection's end offset (Start + Length).
func (s Selection) End() buffer.ByteOffset {
	return s.Start + s.Length
}

// Range returns the selection's span as a Range.
func (s Selection) Range() buffer.Range {
	return buffer.Range{Start: s.Start, End: s.End()}
}

// CaretOffset returns the caret's absolute document offset.
func (s Selection) CaretOffset() buffer.ByteOffset {
	return s.Start + s.Caret
}

// IsCaret returns true if the selection has zero length.
func (s Selection) IsCaret() bool {
	return s.Length == 0
}

// Entry is a selection plus the owner's opaque payload.
type Entry struct {
	Selection
	Payload any
}

// summary is the per-subtree synthesis: the maximum end and start offsets
// below a node. MaxEnd drives "first entry ending at or after P" descents;
// MaxStart drives sorted-position descents.
type summary struct {
	MaxEnd   buffer.ByteOffset
	MaxStart buffer.ByteOffset
}

type summarizer struct{}

func (summarizer) Summarize(e Entry, left, right *summary) summary {
	s := summary{MaxEnd: e.End(), MaxStart: e.Start}
	if left != nil {
		if left.MaxEnd > s.MaxEnd {
			s.MaxEnd = left.MaxEnd
		}
		if left.MaxStart > s.MaxStart {
			s.MaxStart = left.MaxStart
		}
	}
	if right != nil {
		if right.MaxEnd > s.MaxEnd {
			s.MaxEnd = right.MaxEnd
		}
		if right.MaxStart > s.MaxStart {
			s.MaxStart = right.MaxStart
		}
	}
	return s
}

// Iterator points at an entry in a Set.
type Iterator = augtree.Iterator[Entry, summary, summarizer]

// Set is the caret/selection set. After every mutating call the entries form
// a sorted partition in which no two spans overlap or touch.
type Set struct {
	tree *augtree.Tree[Entry, summary, summarizer]
}

// New creates a set holding a single zero-length caret at offset 0.
func New() *Set {
	s := NewEmpty()
	s.Reset()
	return s
}

// NewEmpty creates a set with no entries.
func NewEmpty() *Set {
	return &Set{tree: augtree.New[Entry, summary](summarizer{})}
}

// Reset clears the set back to a single zero-length caret at offset 0.
func (s *Set) Reset() {
	s.tree.EraseRange(s.tree.Begin(), s.tree.End())
	s.tree.InsertBefore(s.tree.End(), Entry{Selection: NewCaret(0)})
}

// Len returns the number of entries.
func (s *Set) Len() int {
	return s.tree.Len()
}

// Begin returns an iterator at the first entry.
func (s *Set) Begin() Iterator {
	return s.tree.Begin()
}

// End returns the past-the-end iterator.
func (s *Set) End() Iterator {
	return s.tree.End()
}

// All returns every entry in sorted order.
func (s *Set) All() []Entry {
	return s.tree.Items()
}

// Selections returns every selection in sorted order, without payloads.
func (s *Set) Selections() []Selection {
	entries := s.tree.Items()
	sels := make([]Selection, len(entries))
	for i, e := range entries {
		sels[i] = e.Selection
	}
	return sels
}

// Add inserts a selection, absorbing every existing entry whose span
// overlaps or touches it. The merged entry spans the union of all absorbed
// spans, keeps the new payload, and carries the added selection's caret
// recomputed relative to the merged start. Returns an iterator at the
// inserted entry. Cost is O(log n + k) for k absorbed entries.
func (s *Set) Add(sel Selection, payload any) Iterator {
	if sel.Length < 0 {
		panic("caret: negative selection length")
	}
	if sel.Caret < 0 {
		sel.Caret = 0
	}
	if sel.Caret > sel.Length {
		sel.Caret = sel.Length
	}

	caretAbs := sel.CaretOffset()
	start := sel.Start
	end := sel.End()

	// Entries ending before our start cannot touch us; begin the absorb
	// scan at the first entry whose end reaches our start.
	it := s.findFirstEndingAtOrAfter(start)
	for it.Valid() && it.Item().Start <= end {
		e := it.Item()
		if e.Start < start {
			start = e.Start
		}
		if e.End() > end {
			end = e.End()
		}
		it = s.tree.Erase(it)
	}

	merged := Entry{
		Selection: Selection{Start: start, Length: end - start, Caret: caretAbs - start},
		Payload:   payload,
	}
	return s.tree.InsertBefore(it, merged)
}

// Remove deletes one entry. The set may become empty; use Reset to restore
// the default caret.
func (s *Set) Remove(it Iterator) Iterator {
	return s.tree.Erase(it)
}

// FindFirstEndingAtOrAfter returns the first entry (in sorted order) whose
// end is >= pos, or the end iterator if none. A zero-length caret exactly
// at pos is included.
func (s *Set) FindFirstEndingAtOrAfter(pos buffer.ByteOffset) Iterator {
	return s.findFirstEndingAtOrAfter(pos)
}

func (s *Set) findFirstEndingAtOrAfter(pos buffer.ByteOffset) Iterator {
	return s.tree.Find(func(e Entry, left *summary) augtree.Dir {
		if left != nil && left.MaxEnd >= pos {
			return augtree.DirLeft
		}
		if e.End() >= pos {
			return augtree.DirHere
		}
		return augtree.DirRight
	})
}

// Contains returns the entry whose span contains pos (closed interval:
// a selection's boundary offsets count, as does a caret exactly at pos).
func (s *Set) Contains(pos buffer.ByteOffset) (Entry, bool) {
	it := s.findFirstEndingAtOrAfter(pos)
	if !it.Valid() {
		return Entry{}, false
	}
	e := it.Item()
	if e.Start > pos {
		return Entry{}, false
	}
	return e, true
}

// CheckInvariants verifies the sorted, non-overlapping, non-touching
// partition. Debug support.
func (s *Set) CheckInvariants() bool {
	if !s.tree.CheckIntegrity() {
		return false
	}
	prevEnd := buffer.ByteOffset(-1)
	first := true
	for it := s.tree.Begin(); it.Valid(); it = it.Next() {
		e := it.Item()
		if e.Length < 0 || e.Caret < 0 || e.Caret > e.Length {
			return false
		}
		if !first && e.Start <= prevEnd {
			return false
		}
		prevEnd = e.End()
		first = false
	}
	return true
}
