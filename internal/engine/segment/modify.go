package segment

import "github.com/dshills/spantrack/internal/engine/buffer"

// OnModification adjusts the map for an edit that erased `erased` units at
// pos and inserted `inserted` units in their place.
//
// Runs before pos are untouched. Runs inside the erased window are deleted
// and straddling runs are shortened. The inserted text takes the class that
// originally covered pos, then coalesces with its neighbors. Runs after the
// window keep their lengths; their positions shift implicitly because run
// positions are the sum of the lengths before them.
func (m *Map) OnModification(pos, erased, inserted buffer.ByteOffset) {
	if pos < 0 || erased < 0 || inserted < 0 {
		panic("segment: negative edit component")
	}

	covered := m.CoveredLen()
	if pos >= covered {
		// The edit lands in the implicit default tail; inserted text would
		// inherit the default class, which needs no materialized run.
		return
	}
	inherit := m.ClassAt(pos)

	if eraseEnd := min(pos+erased, covered); eraseEnd > pos {
		itEnd := m.splitAt(eraseEnd)
		itBegin := m.splitAt(pos)
		m.tree.EraseRange(itBegin, itEnd)
	}

	if inserted > 0 {
		at := m.splitAt(pos)
		newIt := m.tree.InsertBefore(at, Run{Class: inherit, Length: inserted})
		m.coalesce(newIt)
		return
	}
	// Deletion may leave equal-class runs meeting at the seam.
	m.coalesceAround(pos)
}
