package engine

import (
	"sort"
	"sync"

	"github.com/dshills/spantrack/internal/engine/buffer"
	"github.com/dshills/spantrack/internal/engine/caret"
	"github.com/dshills/spantrack/internal/engine/segment"
	"github.com/dshills/spantrack/internal/engine/span"
)

// Re-export commonly used types for convenience.
type (
	// ByteOffset is a byte position in the document.
	ByteOffset = buffer.ByteOffset

	// Range represents a byte range in the document.
	Range = buffer.Range

	// Edit represents an edit operation.
	Edit = buffer.Edit

	// RevisionID uniquely identifies a document revision.
	RevisionID = buffer.RevisionID

	// Selection represents a caret or selected region.
	Selection = caret.Selection

	// Span is a positioned value in a span layer.
	Span = span.Span

	// Class identifies a segment classification.
	Class = segment.Class

	// Run is one maximal span of consecutive positions sharing a class.
	Run = segment.Run
)

// Engine is the facade over one document's position trackers: the caret
// set, named span layers, and the segment map.
type Engine struct {
	mu sync.RWMutex

	revision RevisionID
	carets   *caret.Set
	layers   map[string]*span.Registry
	segments *segment.Map

	readOnly bool
}

// New creates an engine with a single caret at offset 0 and the layers
// named by options.
func New(opts ...Option) *Engine {
	e := &Engine{
		revision: buffer.NewRevisionID(),
		carets:   caret.New(),
		layers:   make(map[string]*span.Registry),
		segments: segment.New(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Revision returns the current revision. It changes after every effective
// Apply.
func (e *Engine) Revision() RevisionID {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.revision
}

func validEdit(edit Edit) bool {
	return edit.Pos() >= 0 && edit.ErasedLen() >= 0 && edit.InsertedLen() >= 0
}

// Apply fans one edit out to every tracker and returns the new revision.
// A no-op edit leaves the revision unchanged.
func (e *Engine) Apply(edit Edit) (RevisionID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return e.revision, ErrReadOnly
	}
	if !validEdit(edit) {
		return e.revision, ErrRangeInvalid
	}
	if edit.IsNoOp() {
		return e.revision, nil
	}

	e.carets.Transform(edit)
	for _, reg := range e.layers {
		reg.OnModification(edit.Pos(), edit.ErasedLen(), edit.InsertedLen())
	}
	e.segments.OnModification(edit.Pos(), edit.ErasedLen(), edit.InsertedLen())

	e.revision = buffer.NewRevisionID()
	return e.revision, nil
}

// AddSelection merges a selection into the caret set.
func (e *Engine) AddSelection(sel Selection) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return ErrReadOnly
	}
	if sel.Start < 0 || sel.Length < 0 {
		return ErrRangeInvalid
	}
	e.carets.Add(sel, nil)
	return nil
}

// Selections returns every selection in start order.
func (e *Engine) Selections() []Selection {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.carets.Selections()
}

// CollapseSelections resets the caret set to a single caret at offset 0.
func (e *Engine) CollapseSelections() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return ErrReadOnly
	}
	e.carets.Reset()
	return nil
}

// SelectionAt reports the selection containing pos, if any. Boundaries
// count as inside.
func (e *Engine) SelectionAt(pos ByteOffset) (Selection, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	entry, ok := e.carets.Contains(pos)
	return entry.Selection, ok
}

// AddLayer registers a new empty span layer.
func (e *Engine) AddLayer(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return ErrReadOnly
	}
	if _, ok := e.layers[name]; ok {
		return ErrLayerExists
	}
	e.layers[name] = span.New()
	return nil
}

// Layers returns the registered layer names in sorted order.
func (e *Engine) Layers() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.layers))
	for name := range e.layers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AddSpan adds a value covering [start, start+length) to a layer.
func (e *Engine) AddSpan(layer string, start, length ByteOffset, value any) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return ErrReadOnly
	}
	if start < 0 || length < 0 {
		return ErrRangeInvalid
	}
	reg, ok := e.layers[layer]
	if !ok {
		return ErrUnknownLayer
	}
	reg.Insert(start, length, value)
	return nil
}

// SpansAt returns a layer's spans containing pos (closed interval).
func (e *Engine) SpansAt(layer string, pos ByteOffset) ([]Span, error) {
	return e.SpansBetween(layer, pos, pos)
}

// SpansBetween returns a layer's spans intersecting the closed window
// [begin, end], in start order.
func (e *Engine) SpansBetween(layer string, begin, end ByteOffset) ([]Span, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	reg, ok := e.layers[layer]
	if !ok {
		return nil, ErrUnknownLayer
	}
	if begin < 0 || end < begin {
		return nil, ErrRangeInvalid
	}
	return reg.CollectIntersecting(begin, end), nil
}

// Classify assigns a class to [begin, end) in the segment map.
func (e *Engine) Classify(begin, end ByteOffset, class Class) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return ErrReadOnly
	}
	if begin < 0 || end < begin {
		return ErrRangeInvalid
	}
	e.segments.SetRange(begin, end, class)
	return nil
}

// ClassAt returns the class covering pos.
func (e *Engine) ClassAt(pos ByteOffset) Class {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.segments.ClassAt(pos)
}

// Runs returns the explicit segment runs in order.
func (e *Engine) Runs() []Run {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.segments.Runs()
}
