package span

import "github.com/dshills/spantrack/internal/engine/buffer"

// OnModification adjusts every range for an edit that erased `erased` units
// at pos and inserted `inserted` units in their place.
//
// Relative to the edit window [pos, pos+erased):
//   - ranges entirely before it are untouched
//   - ranges entirely after it shift by inserted-erased
//   - a range starting inside it moves its start to pos+inserted and loses
//     the erased overlap from its length
//   - a range reaching into it from before loses the erased overlap
//   - a range spanning it changes length by inserted-erased
//
// Only ranges touching the window are visited: the first is found by a
// summary-guided descent, and the uniform shift of everything after the
// window is applied to a single relative offset, which propagates through
// the untouched offsets that follow.
func (r *Registry) OnModification(pos, erased, inserted buffer.ByteOffset) {
	if pos < 0 || erased < 0 || inserted < 0 {
		panic("span: negative edit component")
	}
	if erased == 0 && inserted == 0 {
		return
	}

	winEnd := pos + erased
	delta := inserted - erased

	it, abs := r.findFirstEndingAtOrAfter(pos)
	if !it.Valid() {
		return
	}

	prevOld := abs - it.Item().rel
	prevNew := prevOld

	for it.Valid() {
		e := it.Item()
		oldAbs := prevOld + e.rel
		oldEnd := oldAbs + e.length

		if oldAbs >= winEnd {
			// Entirely after the window: re-encode this one relative start
			// and stop; the shift rides the remaining relative offsets.
			if shifted := oldAbs + delta - prevNew; shifted != e.rel {
				e.rel = shifted
				it.SetItem(e)
			}
			return
		}

		var newAbs, newLen buffer.ByteOffset
		switch {
		case oldEnd <= pos:
			// Ends at or before the window start: untouched.
			newAbs, newLen = oldAbs, e.length
		case oldAbs >= pos:
			// Starts inside the window: the erased prefix is consumed.
			consumed := min(oldEnd, winEnd) - oldAbs
			newAbs = pos + inserted
			newLen = e.length - consumed
		case oldEnd <= winEnd:
			// Reaches into the window from before: truncated at pos.
			newAbs = oldAbs
			newLen = pos - oldAbs
		default:
			// Spans the whole window.
			newAbs = oldAbs
			newLen = e.length + delta
		}

		if rel := newAbs - prevNew; rel != e.rel || newLen != e.length {
			e.rel = rel
			e.length = newLen
			it.SetItem(e)
		}
		prevOld = oldAbs
		prevNew = newAbs
		it = it.Next()
	}
}
