package segment

import (
	"fmt"

	"github.com/dshills/spantrack/internal/engine/augtree"
	"github.com/dshills/spantrack/internal/engine/buffer"
)

// Class is a classification value (a syntax scope, a theme slot).
// The zero Class is the default covering the implicit tail.
type Class int

// DefaultClass covers every position not explicitly classified.
const DefaultClass Class = 0

// Run is one maximal span of consecutive positions sharing a class.
type Run struct {
	Class  Class
	Length buffer.ByteOffset
}

// String returns a human-readable representation of the run.
func (r Run) String() string {
	return fmt.Sprintf("(%d,%d)", r.Class, r.Length)
}

// summary is the per-subtree synthesis: total covered length.
type summary struct {
	Total buffer.ByteOffset
}

type summarizer struct{}

func (summarizer) Summarize(r Run, left, right *summary) summary {
	s := summary{Total: r.Length}
	if left != nil {
		s.Total += left.Total
	}
	if right != nil {
		s.Total += right.Total
	}
	return s
}

type iterator = augtree.Iterator[Run, summary, summarizer]

// Map is the run-length segment map.
type Map struct {
	tree *augtree.Tree[Run, summary, summarizer]
}

// New creates an empty map: every position is the default class.
func New() *Map {
	return &Map{tree: augtree.New[Run, summary](summarizer{})}
}

// CoveredLen returns the length materialized by explicit runs. Positions at
// or past it are the implicit default tail.
func (m *Map) CoveredLen() buffer.ByteOffset {
	s, ok := m.tree.Summary()
	if !ok {
		return 0
	}
	return s.Total
}

// Runs returns the materialized (class, length) runs in order. The implicit
// default tail that follows is not materialized; callers may treat it as a
// terminal zero-length default run.
func (m *Map) Runs() []Run {
	return m.tree.Items()
}

// ClassAt returns the class covering pos.
func (m *Map) ClassAt(pos buffer.ByteOffset) Class {
	if pos < 0 {
		panic("segment: negative position")
	}
	if pos >= m.CoveredLen() {
		return DefaultClass
	}
	it, _ := m.findAt(pos)
	return it.Item().Class
}

// SetRange overwrites positions [begin, end) with class, splitting straddled
// runs and coalescing equal neighbors. Writing past the covered length first
// extends the map with default filler up to begin; writing the default class
// past the covered length is a no-op (the implicit tail already has it).
// A zero-length write is a no-op.
func (m *Map) SetRange(begin, end buffer.ByteOffset, class Class) {
	if begin < 0 || begin > end {
		panic("segment: invalid range")
	}
	if begin == end {
		return
	}

	covered := m.CoveredLen()
	if class == DefaultClass {
		// The implicit tail is already default: only the covered prefix of
		// the write can change anything.
		if end > covered {
			end = covered
		}
		if begin >= end {
			return
		}
	} else if end > covered {
		// Materialize the default gap up to begin, but nothing past end.
		if begin > covered {
			m.appendRun(Run{Class: DefaultClass, Length: begin - covered})
		}
		m.appendRun(Run{Class: class, Length: end - max(begin, covered)})
		end = min(end, max(begin, covered))
		if begin >= end {
			m.coalesceAround(begin)
			return
		}
	}

	itEnd := m.splitAt(end)
	itBegin := m.splitAt(begin)
	m.tree.EraseRange(itBegin, itEnd)
	newIt := m.tree.InsertBefore(itEnd, Run{Class: class, Length: end - begin})
	m.coalesce(newIt)
}

// appendRun appends a run at the tail, merging with the last run when the
// classes match.
func (m *Map) appendRun(r Run) {
	if r.Length == 0 {
		return
	}
	if !m.tree.Empty() {
		last := m.tree.End().Prev()
		if lr := last.Item(); lr.Class == r.Class {
			lr.Length += r.Length
			last.SetItem(lr)
			return
		}
	}
	m.tree.InsertBefore(m.tree.End(), r)
}

// findAt returns the run containing pos (pos must be < CoveredLen) and the
// offset of pos within that run.
func (m *Map) findAt(pos buffer.ByteOffset) (iterator, buffer.ByteOffset) {
	rem := pos
	it := m.tree.Find(func(r Run, left *summary) augtree.Dir {
		if left != nil {
			if rem < left.Total {
				return augtree.DirLeft
			}
			rem -= left.Total
		}
		if rem < r.Length {
			return augtree.DirHere
		}
		rem -= r.Length
		return augtree.DirRight
	})
	return it, rem
}

// splitAt ensures a run boundary exists at pos (pos <= CoveredLen) and
// returns an iterator at the run starting there (the end iterator when pos
// equals the covered length).
func (m *Map) splitAt(pos buffer.ByteOffset) iterator {
	if pos >= m.CoveredLen() {
		return m.tree.End()
	}
	it, off := m.findAt(pos)
	if off == 0 {
		return it
	}
	r := it.Item()
	head := Run{Class: r.Class, Length: off}
	tail := Run{Class: r.Class, Length: r.Length - off}
	it.SetItem(tail)
	m.tree.InsertBefore(it, head)
	return it
}

// coalesce merges the run at it with equal-class neighbors and returns an
// iterator at the surviving run.
func (m *Map) coalesce(it iterator) iterator {
	r := it.Item()

	if next := it.Next(); next.Valid() && next.Item().Class == r.Class {
		r.Length += next.Item().Length
		it.SetItem(r)
		m.tree.Erase(next)
	}
	if it != m.tree.Begin() {
		prev := it.Prev()
		if pr := prev.Item(); pr.Class == r.Class {
			pr.Length += r.Length
			prev.SetItem(pr)
			m.tree.Erase(it)
			return prev
		}
	}
	return it
}

// coalesceAround merges equal-class runs meeting at the boundary pos.
func (m *Map) coalesceAround(pos buffer.ByteOffset) {
	if pos <= 0 || pos >= m.CoveredLen() {
		return
	}
	it, off := m.findAt(pos)
	if off != 0 || it == m.tree.Begin() {
		return
	}
	prev := it.Prev()
	if prev.Item().Class == it.Item().Class {
		r := prev.Item()
		r.Length += it.Item().Length
		prev.SetItem(r)
		m.tree.Erase(it)
	}
}

// CheckInvariants verifies no adjacent runs share a class and no run has
// non-positive length. Debug support.
func (m *Map) CheckInvariants() bool {
	if !m.tree.CheckIntegrity() {
		return false
	}
	prevClass := Class(-1)
	first := true
	for it := m.tree.Begin(); it.Valid(); it = it.Next() {
		r := it.Item()
		if r.Length <= 0 {
			return false
		}
		if !first && r.Class == prevClass {
			return false
		}
		prevClass = r.Class
		first = false
	}
	return true
}
