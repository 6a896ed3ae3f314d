package engine

import (
	"errors"
	"testing"

	"github.com/dshills/spantrack/internal/engine/buffer"
	"github.com/dshills/spantrack/internal/engine/caret"
)

func TestNewDefaults(t *testing.T) {
	e := New()

	sels := e.Selections()
	if len(sels) != 1 || sels[0].Start != 0 || sels[0].Length != 0 {
		t.Errorf("Selections = %v, want single caret at 0", sels)
	}
	if layers := e.Layers(); len(layers) != 0 {
		t.Errorf("Layers = %v, want none", layers)
	}
	if e.ClassAt(100) != 0 {
		t.Errorf("ClassAt(100) = %d, want default", e.ClassAt(100))
	}
}

func TestOptions(t *testing.T) {
	e := New(
		WithLayers("diagnostics", "references"),
		WithSelections(caret.NewSelection(5, 3), caret.NewCaret(20)),
	)

	layers := e.Layers()
	if len(layers) != 2 || layers[0] != "diagnostics" || layers[1] != "references" {
		t.Errorf("Layers = %v", layers)
	}
	sels := e.Selections()
	if len(sels) != 2 || sels[0].Start != 5 || sels[1].Start != 20 {
		t.Errorf("Selections = %v", sels)
	}
}

func TestApplyFansOut(t *testing.T) {
	e := New(WithLayers("diagnostics"))
	if err := e.AddSelection(caret.NewSelection(10, 5)); err != nil {
		t.Fatal(err)
	}
	if err := e.AddSpan("diagnostics", 20, 4, "unused"); err != nil {
		t.Fatal(err)
	}
	if err := e.Classify(0, 30, 2); err != nil {
		t.Fatal(err)
	}

	before := e.Revision()
	rev, err := e.Apply(buffer.NewInsert(0, 7))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if rev == before {
		t.Error("revision should change after an effective edit")
	}

	sels := e.Selections()
	// The initial caret at 0 merged into the set too; find the moved
	// selection.
	found := false
	for _, sel := range sels {
		if sel.Start == 17 && sel.Length == 5 {
			found = true
		}
	}
	if !found {
		t.Errorf("selection did not shift: %v", sels)
	}

	spans, err := e.SpansAt("diagnostics", 27)
	if err != nil {
		t.Fatal(err)
	}
	if len(spans) != 1 || spans[0].Range != buffer.NewRange(27, 31) {
		t.Errorf("span did not shift: %v", spans)
	}

	if got := e.ClassAt(3); got != 2 {
		t.Errorf("ClassAt(3) = %d, want 2 (insert inherits)", got)
	}
	if got := e.ClassAt(36); got != 2 {
		t.Errorf("ClassAt(36) = %d, want 2", got)
	}
	if got := e.ClassAt(37); got != 0 {
		t.Errorf("ClassAt(37) = %d, want default", got)
	}
}

func TestApplyNoOpKeepsRevision(t *testing.T) {
	e := New()
	before := e.Revision()
	rev, err := e.Apply(buffer.NewModification(5, 0, 0))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if rev != before {
		t.Error("no-op edit should not change the revision")
	}
}

func TestApplyInvalidEdit(t *testing.T) {
	e := New()
	if _, err := e.Apply(buffer.Edit{Range: buffer.NewRange(5, 2)}); !errors.Is(err, ErrRangeInvalid) {
		t.Errorf("inverted range: %v", err)
	}
	if _, err := e.Apply(buffer.NewInsert(-1, 3)); !errors.Is(err, ErrRangeInvalid) {
		t.Errorf("negative position: %v", err)
	}
}

func TestLayerErrors(t *testing.T) {
	e := New(WithLayers("diagnostics"))

	if err := e.AddLayer("diagnostics"); !errors.Is(err, ErrLayerExists) {
		t.Errorf("duplicate AddLayer: %v", err)
	}
	if err := e.AddSpan("nope", 0, 1, nil); !errors.Is(err, ErrUnknownLayer) {
		t.Errorf("AddSpan unknown layer: %v", err)
	}
	if _, err := e.SpansAt("nope", 0); !errors.Is(err, ErrUnknownLayer) {
		t.Errorf("SpansAt unknown layer: %v", err)
	}
	if err := e.AddSpan("diagnostics", -1, 5, nil); !errors.Is(err, ErrRangeInvalid) {
		t.Errorf("AddSpan negative start: %v", err)
	}
	if _, err := e.SpansBetween("diagnostics", 10, 5); !errors.Is(err, ErrRangeInvalid) {
		t.Errorf("SpansBetween inverted window: %v", err)
	}
}

func TestReadOnly(t *testing.T) {
	e := New(WithReadOnly(), WithLayers("diagnostics"))

	if _, err := e.Apply(buffer.NewInsert(0, 1)); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Apply: %v", err)
	}
	if err := e.AddSelection(caret.NewCaret(5)); !errors.Is(err, ErrReadOnly) {
		t.Errorf("AddSelection: %v", err)
	}
	if err := e.AddSpan("diagnostics", 0, 1, nil); !errors.Is(err, ErrReadOnly) {
		t.Errorf("AddSpan: %v", err)
	}
	if err := e.Classify(0, 10, 1); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Classify: %v", err)
	}
	if err := e.AddLayer("more"); !errors.Is(err, ErrReadOnly) {
		t.Errorf("AddLayer: %v", err)
	}

	// Queries still work.
	if _, err := e.SpansAt("diagnostics", 0); err != nil {
		t.Errorf("SpansAt: %v", err)
	}
}

func TestSelectionAt(t *testing.T) {
	e := New(WithSelections(caret.NewSelection(10, 5)))

	sel, ok := e.SelectionAt(15)
	if !ok || sel.Start != 10 {
		t.Errorf("SelectionAt(15) = %v, %v", sel, ok)
	}
	if _, ok := e.SelectionAt(16); ok {
		t.Error("SelectionAt(16) should miss")
	}
}

func TestCollapseSelections(t *testing.T) {
	e := New(WithSelections(caret.NewSelection(10, 5), caret.NewCaret(30)))
	if err := e.CollapseSelections(); err != nil {
		t.Fatal(err)
	}

	sels := e.Selections()
	if len(sels) != 1 || sels[0].Start != 0 || sels[0].Length != 0 {
		t.Errorf("Selections after collapse = %v", sels)
	}
}
