package caret

import "github.com/dshills/spantrack/internal/engine/buffer"

// TransformOffset updates an offset after an edit.
//
// Transformation rules:
//   - If the edit is entirely before the offset: adjust by the edit's delta
//   - If the edit starts at or after the offset: offset unchanged
//   - If the edit spans the offset: move to the end of the inserted text
func TransformOffset(offset buffer.ByteOffset, edit buffer.Edit) buffer.ByteOffset {
	if edit.Range.End <= offset {
		return offset + edit.Delta()
	}
	if edit.Range.Start >= offset {
		return offset
	}
	return edit.Range.Start + edit.NewLen
}

// TransformOffsetSticky is like TransformOffset but with a "sticky" behavior
// for an insertion exactly at the offset. If sticky is true the offset stays
// at the insertion point; otherwise it moves past the inserted text.
func TransformOffsetSticky(offset buffer.ByteOffset, edit buffer.Edit, sticky bool) buffer.ByteOffset {
	if edit.Range.Start == offset && edit.Range.IsEmpty() {
		if sticky {
			return offset
		}
		return offset + edit.NewLen
	}
	return TransformOffset(offset, edit)
}

// TransformSelection updates a selection after an edit. Start and end are
// transformed independently; the caret follows its absolute position,
// clamped into the resulting span.
func TransformSelection(sel Selection, edit buffer.Edit) Selection {
	start := TransformOffset(sel.Start, edit)
	end := TransformOffset(sel.End(), edit)
	if end < start {
		end = start
	}
	caretAbs := TransformOffset(sel.CaretOffset(), edit)
	return remakeSelection(start, end, caretAbs)
}

// TransformSelectionWithBias transforms a selection with separate sticky
// flags for its start (anchor side) and end (head side).
func TransformSelectionWithBias(sel Selection, edit buffer.Edit, startSticky, endSticky bool) Selection {
	start := TransformOffsetSticky(sel.Start, edit, startSticky)
	end := TransformOffsetSticky(sel.End(), edit, endSticky)
	if end < start {
		end = start
	}
	caretAbs := TransformOffsetSticky(sel.CaretOffset(), edit, endSticky)
	return remakeSelection(start, end, caretAbs)
}

func remakeSelection(start, end, caretAbs buffer.ByteOffset) Selection {
	if caretAbs < start {
		caretAbs = start
	}
	if caretAbs > end {
		caretAbs = end
	}
	return Selection{Start: start, Length: end - start, Caret: caretAbs - start}
}

// Transform repositions every entry after an edit and re-normalizes the
// set. Entries that collapse onto one another merge; carets typically end
// up past inserted text and at the start of deleted spans.
func (s *Set) Transform(edit buffer.Edit) {
	if edit.IsNoOp() {
		return
	}
	entries := s.tree.Items()
	s.tree.EraseRange(s.tree.Begin(), s.tree.End())
	for _, e := range entries {
		s.Add(TransformSelection(e.Selection, edit), e.Payload)
	}
}
