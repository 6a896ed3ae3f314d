package span

import (
	"github.com/dshills/spantrack/internal/engine/augtree"
	"github.com/dshills/spantrack/internal/engine/buffer"
)

// Span is an absolute-position snapshot of one registry entry.
type Span struct {
	Range buffer.Range
	Value any
}

// entry is the stored form: the start is relative to the previous entry's
// start in sorted order (or to 0 for the first entry).
type entry struct {
	rel    buffer.ByteOffset
	length buffer.ByteOffset
	value  any
}

// summary synthesizes, per subtree: the sum of relative starts (the last
// element's absolute start relative to the subtree's base) and the maximum
// end offset relative to the same base.
type summary struct {
	SumRel    buffer.ByteOffset
	MaxEndRel buffer.ByteOffset
}

type summarizer struct{}

func (summarizer) Summarize(e entry, left, right *summary) summary {
	var leftSum buffer.ByteOffset
	s := summary{}
	if left != nil {
		leftSum = left.SumRel
		s.MaxEndRel = left.MaxEndRel
	}
	nodeStart := leftSum + e.rel
	s.SumRel = nodeStart

	if end := nodeStart + e.length; left == nil || end > s.MaxEndRel {
		s.MaxEndRel = end
	}
	if right != nil {
		s.SumRel += right.SumRel
		if end := nodeStart + right.MaxEndRel; end > s.MaxEndRel {
			s.MaxEndRel = end
		}
	}
	return s
}

type iterator = augtree.Iterator[entry, summary, summarizer]

// Registry holds possibly-overlapping ranges sorted by absolute start.
type Registry struct {
	tree *augtree.Tree[entry, summary, summarizer]
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{tree: augtree.New[entry, summary](summarizer{})}
}

// Len returns the number of ranges.
func (r *Registry) Len() int {
	return r.tree.Len()
}

// Insert adds a range with the given absolute start, length, and value.
// The new entry's relative start is encoded against its predecessor and the
// successor's relative start is re-encoded against the new entry. O(log n).
func (r *Registry) Insert(start, length buffer.ByteOffset, value any) Cursor {
	if length < 0 {
		panic("span: negative length")
	}
	if start < 0 {
		panic("span: negative start")
	}

	pos, posAbs := r.lowerBound(start)
	var predAbs buffer.ByteOffset
	if pos.Valid() {
		predAbs = posAbs - pos.Item().rel
	} else if total, ok := r.tree.Summary(); ok {
		predAbs = total.SumRel
	}

	it := r.tree.InsertBefore(pos, entry{rel: start - predAbs, length: length, value: value})

	if succ := it.Next(); succ.Valid() {
		e := succ.Item()
		e.rel = posAbs - start
		succ.SetItem(e)
	}
	return Cursor{it: it, abs: start, limit: maxOffset, minEnd: 0}
}

// Erase removes the range at the cursor. The successor's relative start is
// re-derived from the removed entry's predecessor. O(log n).
func (r *Registry) Erase(c Cursor) {
	if !c.it.Valid() {
		panic("span: Erase on invalid cursor")
	}
	predAbs := c.abs - c.it.Item().rel

	var succAbs buffer.ByteOffset
	if succ := c.it.Next(); succ.Valid() {
		succAbs = c.abs + succ.Item().rel
	}

	next := r.tree.Erase(c.it)
	if next.Valid() {
		e := next.Item()
		e.rel = succAbs - predAbs
		next.SetItem(e)
	}
}

// All returns absolute-position snapshots of every range in sorted order.
// Test and export support.
func (r *Registry) All() []Span {
	spans := make([]Span, 0, r.tree.Len())
	abs := buffer.ByteOffset(0)
	for it := r.tree.Begin(); it.Valid(); it = it.Next() {
		e := it.Item()
		abs += e.rel
		spans = append(spans, Span{
			Range: buffer.Range{Start: abs, End: abs + e.length},
			Value: e.value,
		})
	}
	return spans
}

// lowerBound returns the first entry whose absolute start is >= start,
// along with that entry's absolute start. Sorted order makes a subtree's
// maximum absolute start its base plus its relative-start sum, which guides
// the descent.
func (r *Registry) lowerBound(start buffer.ByteOffset) (iterator, buffer.ByteOffset) {
	base := buffer.ByteOffset(0)
	var found buffer.ByteOffset
	it := r.tree.Find(func(e entry, left *summary) augtree.Dir {
		var leftSum buffer.ByteOffset
		if left != nil {
			if base+left.SumRel >= start {
				return augtree.DirLeft
			}
			leftSum = left.SumRel
		}
		abs := base + leftSum + e.rel
		if abs >= start {
			found = abs
			return augtree.DirHere
		}
		base = abs
		return augtree.DirRight
	})
	return it, found
}

// findFirstEndingAtOrAfter returns the first entry in start order whose end
// is >= pos, along with its absolute start.
func (r *Registry) findFirstEndingAtOrAfter(pos buffer.ByteOffset) (iterator, buffer.ByteOffset) {
	base := buffer.ByteOffset(0)
	var found buffer.ByteOffset
	it := r.tree.Find(func(e entry, left *summary) augtree.Dir {
		var leftSum buffer.ByteOffset
		if left != nil {
			if base+left.MaxEndRel >= pos {
				return augtree.DirLeft
			}
			leftSum = left.SumRel
		}
		abs := base + leftSum + e.rel
		if abs+e.length >= pos {
			found = abs
			return augtree.DirHere
		}
		base = abs
		return augtree.DirRight
	})
	return it, found
}

// CheckInvariants verifies relative starts are non-negative and summaries
// reconstruct. Debug support.
func (r *Registry) CheckInvariants() bool {
	if !r.tree.CheckIntegrity() {
		return false
	}
	for it := r.tree.Begin(); it.Valid(); it = it.Next() {
		e := it.Item()
		if e.rel < 0 || e.length < 0 {
			return false
		}
	}
	return true
}
