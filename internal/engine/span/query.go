package span

import (
	"math"

	"github.com/dshills/spantrack/internal/engine/buffer"
)

const maxOffset = buffer.ByteOffset(math.MaxInt64)

// Cursor enumerates ranges with reconstructed absolute starts. It is bound
// to a query window and yields, in start order, every range intersecting it.
// Any mutation of the registry invalidates the cursor.
type Cursor struct {
	it     iterator
	abs    buffer.ByteOffset // absolute start of the current entry
	limit  buffer.ByteOffset // maximum start still inside the query window
	minEnd buffer.ByteOffset // minimum end required to intersect the window
}

// Valid returns true if the cursor points at a range inside its window.
func (c *Cursor) Valid() bool {
	return c.it.Valid() && c.abs <= c.limit
}

// Span returns the current range with its absolute position.
func (c *Cursor) Span() Span {
	e := c.it.Item()
	return Span{
		Range: buffer.Range{Start: c.abs, End: c.abs + e.length},
		Value: e.value,
	}
}

// Next advances to the next range intersecting the window, skipping ranges
// that start inside it but end before it.
func (c *Cursor) Next() {
	c.advance()
	c.skip()
}

func (c *Cursor) advance() {
	next := c.it.Next()
	if next.Valid() {
		c.abs += next.Item().rel
	}
	c.it = next
}

func (c *Cursor) skip() {
	for c.it.Valid() && c.abs <= c.limit && c.abs+c.it.Item().length < c.minEnd {
		c.advance()
	}
}

// FindFirstEndingAtOrAfter returns a cursor at the first range (in start
// order) whose end is >= pos. The cursor is unbounded above; callers stop
// when they choose.
func (r *Registry) FindFirstEndingAtOrAfter(pos buffer.ByteOffset) Cursor {
	it, abs := r.findFirstEndingAtOrAfter(pos)
	return Cursor{it: it, abs: abs, limit: maxOffset, minEnd: pos}
}

// FindIntersecting returns a cursor over every range whose closed span
// contains pos: ranges starting or ending exactly at pos are included.
func (r *Registry) FindIntersecting(pos buffer.ByteOffset) Cursor {
	return r.FindIntersectingRange(pos, pos)
}

// FindIntersectingRange returns a cursor over every range intersecting the
// closed window [begin, end]: ranges with start <= end and end >= begin.
// This includes ranges that start before the window but reach into it.
// Panics when begin > end.
func (r *Registry) FindIntersectingRange(begin, end buffer.ByteOffset) Cursor {
	if begin > end {
		panic("span: query begin > end")
	}
	it, abs := r.findFirstEndingAtOrAfter(begin)
	c := Cursor{it: it, abs: abs, limit: end, minEnd: begin}
	c.skip()
	return c
}

// CollectIntersecting returns snapshots of every range intersecting the
// closed window [begin, end].
func (r *Registry) CollectIntersecting(begin, end buffer.ByteOffset) []Span {
	var spans []Span
	for c := r.FindIntersectingRange(begin, end); c.Valid(); c.Next() {
		spans = append(spans, c.Span())
	}
	return spans
}
