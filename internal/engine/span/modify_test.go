package span

import (
	"math/rand"
	"testing"

	"github.com/dshills/spantrack/internal/engine/buffer"
)

func TestOnModificationCases(t *testing.T) {
	tests := []struct {
		name     string
		in       Span
		pos      buffer.ByteOffset
		erased   buffer.ByteOffset
		inserted buffer.ByteOffset
		want     Span
	}{
		{"entirely before", mkSpan(0, 5, 1), 10, 5, 2, mkSpan(0, 5, 1)},
		{"ends at window start", mkSpan(0, 10, 1), 10, 5, 2, mkSpan(0, 10, 1)},
		{"entirely after", mkSpan(30, 5, 1), 10, 5, 2, mkSpan(27, 5, 1)},
		{"starts at window end", mkSpan(15, 5, 1), 10, 5, 2, mkSpan(12, 5, 1)},
		{"starts inside, ends after", mkSpan(12, 10, 1), 10, 5, 3, mkSpan(13, 7, 1)},
		{"fully inside", mkSpan(11, 2, 1), 10, 5, 3, mkSpan(13, 0, 1)},
		{"reaches in from before", mkSpan(5, 8, 1), 10, 5, 3, mkSpan(5, 5, 1)},
		{"spans whole window", mkSpan(5, 20, 1), 10, 5, 3, mkSpan(5, 18, 1)},
		{"pure insert before range", mkSpan(10, 5, 1), 10, 0, 4, mkSpan(14, 5, 1)},
		{"pure insert inside range", mkSpan(10, 5, 1), 12, 0, 4, mkSpan(10, 9, 1)},
		{"pure insert at range end", mkSpan(10, 5, 1), 15, 0, 4, mkSpan(10, 5, 1)},
		{"pure delete of whole range", mkSpan(10, 5, 1), 10, 5, 0, mkSpan(10, 0, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New()
			r.Insert(tt.in.Range.Start, tt.in.Range.Len(), tt.in.Value)
			r.OnModification(tt.pos, tt.erased, tt.inserted)
			checkSpans(t, r, []Span{tt.want})
		})
	}
}

func TestOnModificationShiftsMany(t *testing.T) {
	r := New()
	for i := buffer.ByteOffset(0); i < 50; i++ {
		r.Insert(100+i*10, 5, int(i))
	}

	// Insert 7 units at 0: every range shifts right by 7 via one re-encoded
	// relative offset.
	r.OnModification(0, 0, 7)

	want := make([]Span, 0, 50)
	for i := buffer.ByteOffset(0); i < 50; i++ {
		want = append(want, mkSpan(107+i*10, 5, int(i)))
	}
	checkSpans(t, r, want)
}

func TestOnModificationNoOp(t *testing.T) {
	r := New()
	r.Insert(10, 5, 1)
	r.Insert(20, 5, 2)
	before := r.All()

	r.OnModification(12, 0, 0)

	got := r.All()
	if !equalSpans(got, before) {
		t.Errorf("no-op edit changed contents: %v, want %v", got, before)
	}
}

// modelSpan mirrors the documented adjustment rules on absolute positions.
func modelAdjust(spans []Span, pos, erased, inserted buffer.ByteOffset) []Span {
	winEnd := pos + erased
	delta := inserted - erased
	out := make([]Span, 0, len(spans))
	for _, sp := range spans {
		s, e := sp.Range.Start, sp.Range.End
		switch {
		case s >= winEnd:
			s += delta
			e += delta
		case e <= pos:
			// untouched
		case s >= pos:
			consumed := min(e, winEnd) - s
			length := (e - s) - consumed
			s = pos + inserted
			e = s + length
		case e <= winEnd:
			e = pos
		default:
			e += delta
		}
		out = append(out, Span{Range: buffer.Range{Start: s, End: e}, Value: sp.Value})
	}
	return out
}

// TestRandomizedAgainstModel drives the registry with a seeded random stream
// of inserts, erases, edits, and queries, comparing everything against a
// plain-slice reference.
func TestRandomizedAgainstModel(t *testing.T) {
	rng := rand.New(rand.NewSource(1234))
	r := New()
	var model []Span
	nextVal := 0

	queryModel := func(begin, end buffer.ByteOffset) []Span {
		var out []Span
		for _, sp := range model {
			if sp.Range.Start <= end && sp.Range.End >= begin {
				out = append(out, sp)
			}
		}
		return out
	}

	for op := 0; op < 1500; op++ {
		switch action := rng.Intn(10); {
		case action < 4 || len(model) == 0:
			start := buffer.ByteOffset(rng.Intn(500))
			length := buffer.ByteOffset(rng.Intn(60))
			r.Insert(start, length, nextVal)
			model = append(model, mkSpan(start, length, nextVal))
			nextVal++
		case action < 6:
			idx := rng.Intn(len(model))
			victim := model[idx]
			c := r.FindFirstEndingAtOrAfter(0)
			for c.Span() != victim {
				c.Next()
			}
			r.Erase(c)
			model = append(model[:idx], model[idx+1:]...)
		case action < 9:
			pos := buffer.ByteOffset(rng.Intn(500))
			erased := buffer.ByteOffset(rng.Intn(30))
			inserted := buffer.ByteOffset(rng.Intn(30))
			r.OnModification(pos, erased, inserted)
			model = modelAdjust(model, pos, erased, inserted)
		default:
			p := buffer.ByteOffset(rng.Intn(550))
			q := p + buffer.ByteOffset(rng.Intn(100))
			got := r.CollectIntersecting(p, q)
			want := queryModel(p, q)
			sortSpans(got)
			sortSpans(want)
			if !equalSpans(got, want) {
				t.Fatalf("op %d: query [%d,%d] = %v, want %v", op, p, q, got, want)
			}
		}

		if op%100 == 0 {
			if !r.CheckInvariants() {
				t.Fatalf("op %d: invariant check failed", op)
			}
			got := r.All()
			want := append([]Span(nil), model...)
			sortSpans(got)
			sortSpans(want)
			if !equalSpans(got, want) {
				t.Fatalf("op %d: contents %v, want %v", op, got, want)
			}
		}
	}
}
