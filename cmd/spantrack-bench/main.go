// spantrack-bench is a soak test and benchmark for the position registries.
// It drives each registry with a seeded random edit script, cross-checks the
// results against naive reference models, and reports operation timings.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/spantrack/internal/engine/buffer"
	"github.com/dshills/spantrack/internal/engine/caret"
	"github.com/dshills/spantrack/internal/engine/segment"
	"github.com/dshills/spantrack/internal/engine/span"
)

type options struct {
	seed    int64
	ops     int
	docSize int64
	verify  int
}

type benchResult struct {
	name     string
	duration time.Duration
	ops      int
}

func (r benchResult) String() string {
	opsPerSec := float64(r.ops) / r.duration.Seconds()
	return fmt.Sprintf("%-32s %12v  (%d ops, %.0f ops/sec)",
		r.name, r.duration.Round(time.Millisecond), r.ops, opsPerSec)
}

func main() {
	os.Exit(run())
}

func run() int {
	var opts options
	flag.Int64Var(&opts.seed, "seed", 1, "random seed")
	flag.IntVar(&opts.ops, "ops", 100000, "operations per phase")
	flag.Int64Var(&opts.docSize, "doc", 1<<20, "simulated document size")
	flag.IntVar(&opts.verify, "verify", 1000, "full model comparison every N ops")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer logger.Sync()

	fmt.Println("spantrack soak test")
	fmt.Printf("seed=%d ops=%d doc=%d go=%s\n\n",
		opts.seed, opts.ops, opts.docSize, runtime.Version())

	phases := []struct {
		name string
		fn   func(*rand.Rand, options, *zap.Logger) (int, error)
	}{
		{"caret set", caretSoak},
		{"span registry", spanSoak},
		{"segment map", segmentSoak},
	}

	var results []benchResult
	for _, phase := range phases {
		logger.Info("starting phase", zap.String("phase", phase.name))
		rng := rand.New(rand.NewSource(opts.seed))
		start := time.Now()
		ops, err := phase.fn(rng, opts, logger)
		if err != nil {
			logger.Error("phase failed", zap.String("phase", phase.name), zap.Error(err))
			return 1
		}
		results = append(results, benchResult{phase.name, time.Since(start), ops})
	}

	fmt.Println()
	for _, r := range results {
		fmt.Println(r)
	}
	return 0
}

// randEdit produces an edit triple somewhere in the document.
func randEdit(rng *rand.Rand, docSize int64) buffer.Edit {
	pos := rng.Int63n(docSize)
	erased := rng.Int63n(min(64, docSize-pos) + 1)
	inserted := rng.Int63n(65)
	return buffer.NewModification(pos, erased, inserted)
}

// caretSoak interleaves random Add calls and edits, checking the set against
// a merged-interval reference after every verification window.
func caretSoak(rng *rand.Rand, opts options, logger *zap.Logger) (int, error) {
	set := caret.NewEmpty()
	var model []caret.Selection

	ops := 0
	for i := 0; i < opts.ops; i++ {
		if rng.Intn(4) != 0 {
			start := rng.Int63n(opts.docSize)
			length := rng.Int63n(min(128, opts.docSize-start) + 1)
			sel := caret.NewSelection(start, length)
			set.Add(sel, nil)
			model = mergeInto(model, sel)
		} else {
			edit := randEdit(rng, opts.docSize)
			set.Transform(edit)
			next := model[:0:0]
			for _, sel := range model {
				next = mergeInto(next, caret.TransformSelection(sel, edit))
			}
			model = next
		}
		ops++

		if ops%opts.verify == 0 {
			if !set.CheckInvariants() {
				return ops, fmt.Errorf("caret invariants broken after %d ops", ops)
			}
			if err := compareSelections(set.Selections(), model); err != nil {
				return ops, fmt.Errorf("after %d ops: %w", ops, err)
			}
		}
	}
	logger.Info("caret phase verified", zap.Int("entries", set.Len()))
	return ops, nil
}

// mergeInto adds sel to a sorted merged-interval list, absorbing everything
// it overlaps or touches.
func mergeInto(list []caret.Selection, sel caret.Selection) []caret.Selection {
	out := list[:0:0]
	for _, s := range list {
		if s.End() < sel.Start || s.Start > sel.End() {
			out = append(out, s)
			continue
		}
		start := min(s.Start, sel.Start)
		end := max(s.End(), sel.End())
		sel = caret.Selection{Start: start, Length: end - start, Caret: end - start}
	}
	out = append(out, sel)
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

func compareSelections(got, want []caret.Selection) error {
	if len(got) != len(want) {
		return fmt.Errorf("caret count mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		if got[i].Start != want[i].Start || got[i].Length != want[i].Length {
			return fmt.Errorf("caret %d: got %v, want %v", i, got[i], want[i])
		}
	}
	return nil
}

type modelSpan struct {
	start, end buffer.ByteOffset
	id         int
}

// adjustSpan mirrors the registry's edit semantics on an absolute pair.
func adjustSpan(s modelSpan, pos, erased, inserted buffer.ByteOffset) modelSpan {
	winEnd := pos + erased
	delta := inserted - erased
	switch {
	case s.start >= winEnd:
		s.start += delta
		s.end += delta
	case s.end <= pos:
	case s.start >= pos:
		consumed := min(s.end, winEnd) - s.start
		length := s.end - s.start - consumed
		s.start = pos + inserted
		s.end = s.start + length
	case s.end <= winEnd:
		s.end = pos
	default:
		s.end += delta
	}
	return s
}

// spanSoak interleaves random inserts, edits, and window queries, checking
// the registry against an absolute-position reference.
func spanSoak(rng *rand.Rand, opts options, logger *zap.Logger) (int, error) {
	reg := span.New()
	var model []modelSpan
	nextID := 0

	ops := 0
	for i := 0; i < opts.ops; i++ {
		switch rng.Intn(4) {
		case 0, 1:
			start := rng.Int63n(opts.docSize)
			length := rng.Int63n(min(256, opts.docSize-start) + 1)
			reg.Insert(start, length, nextID)
			model = append(model, modelSpan{start, start + length, nextID})
			nextID++
		case 2:
			edit := randEdit(rng, opts.docSize)
			reg.OnModification(edit.Pos(), edit.ErasedLen(), edit.InsertedLen())
			for j := range model {
				model[j] = adjustSpan(model[j], edit.Pos(), edit.ErasedLen(), edit.InsertedLen())
			}
		default:
			begin := rng.Int63n(opts.docSize)
			end := begin + rng.Int63n(min(512, opts.docSize-begin)+1)
			got := reg.CollectIntersecting(begin, end)
			want := 0
			for _, s := range model {
				if s.start <= end && s.end >= begin {
					want++
				}
			}
			if len(got) != want {
				return ops, fmt.Errorf("window [%d,%d]: got %d spans, want %d", begin, end, len(got), want)
			}
		}
		ops++

		if ops%opts.verify == 0 {
			if !reg.CheckInvariants() {
				return ops, fmt.Errorf("span invariants broken after %d ops", ops)
			}
			if err := compareSpans(reg.All(), model); err != nil {
				return ops, fmt.Errorf("after %d ops: %w", ops, err)
			}
		}
	}
	logger.Info("span phase verified", zap.Int("spans", reg.Len()))
	return ops, nil
}

// compareSpans treats both sides as multisets: the registry keeps equal
// starts in insertion order, the model does not track that.
func compareSpans(got []span.Span, model []modelSpan) error {
	if len(got) != len(model) {
		return fmt.Errorf("span count mismatch: got %d, want %d", len(got), len(model))
	}
	norm := make([]modelSpan, len(got))
	for i, sp := range got {
		norm[i] = modelSpan{sp.Range.Start, sp.Range.End, sp.Value.(int)}
	}
	want := append([]modelSpan(nil), model...)
	byID := func(s []modelSpan) func(i, j int) bool {
		return func(i, j int) bool { return s[i].id < s[j].id }
	}
	sort.Slice(norm, byID(norm))
	sort.Slice(want, byID(want))
	for i := range norm {
		if norm[i] != want[i] {
			return fmt.Errorf("span id %d: got [%d:%d), want [%d:%d)",
				norm[i].id, norm[i].start, norm[i].end, want[i].start, want[i].end)
		}
	}
	return nil
}

// segmentSoak interleaves random classifications and edits, checking class
// lookups against a position-indexed reference.
func segmentSoak(rng *rand.Rand, opts options, logger *zap.Logger) (int, error) {
	m := segment.New()
	var model []segment.Class

	ops := 0
	for i := 0; i < opts.ops; i++ {
		if rng.Intn(3) != 0 {
			begin := rng.Int63n(opts.docSize)
			end := begin + rng.Int63n(min(256, opts.docSize-begin)+1)
			class := segment.Class(rng.Intn(8))
			m.SetRange(begin, end, class)
			model = setModel(model, begin, end, class)
		} else {
			edit := randEdit(rng, opts.docSize)
			m.OnModification(edit.Pos(), edit.ErasedLen(), edit.InsertedLen())
			model = spliceModel(model, edit)
		}
		ops++

		if ops%opts.verify == 0 {
			if !m.CheckInvariants() {
				return ops, fmt.Errorf("segment invariants broken after %d ops", ops)
			}
			for j := 0; j < 64; j++ {
				pos := rng.Int63n(opts.docSize)
				if got, want := m.ClassAt(pos), modelClassAt(model, pos); got != want {
					return ops, fmt.Errorf("after %d ops: ClassAt(%d) = %d, want %d", ops, pos, got, want)
				}
			}
		}
	}
	logger.Info("segment phase verified", zap.Int("runs", len(m.Runs())))
	return ops, nil
}

func setModel(model []segment.Class, begin, end buffer.ByteOffset, class segment.Class) []segment.Class {
	if class == segment.DefaultClass {
		// The implicit tail is already default.
		end = min(end, buffer.ByteOffset(len(model)))
	}
	for buffer.ByteOffset(len(model)) < end {
		model = append(model, segment.DefaultClass)
	}
	for p := begin; p < end; p++ {
		model[p] = class
	}
	return model
}

func spliceModel(model []segment.Class, edit buffer.Edit) []segment.Class {
	pos, erased, inserted := edit.Pos(), edit.ErasedLen(), edit.InsertedLen()
	if pos >= buffer.ByteOffset(len(model)) {
		return model
	}
	inherit := model[pos]
	eraseEnd := min(pos+erased, buffer.ByteOffset(len(model)))
	out := append([]segment.Class(nil), model[:pos]...)
	for j := buffer.ByteOffset(0); j < inserted; j++ {
		out = append(out, inherit)
	}
	return append(out, model[eraseEnd:]...)
}

func modelClassAt(model []segment.Class, pos buffer.ByteOffset) segment.Class {
	if pos < buffer.ByteOffset(len(model)) {
		return model[pos]
	}
	return segment.DefaultClass
}
