package engine

import (
	"github.com/dshills/spantrack/internal/engine/caret"
	"github.com/dshills/spantrack/internal/engine/span"
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithLayers registers empty span layers at creation.
func WithLayers(names ...string) Option {
	return func(e *Engine) {
		for _, name := range names {
			if _, ok := e.layers[name]; !ok {
				e.layers[name] = span.New()
			}
		}
	}
}

// WithSelections replaces the initial caret with the given selections.
// Invalid selections are skipped.
func WithSelections(sels ...Selection) Option {
	return func(e *Engine) {
		e.carets = caret.NewEmpty()
		for _, sel := range sels {
			if sel.Start < 0 || sel.Length < 0 {
				continue
			}
			e.carets.Add(sel, nil)
		}
	}
}

// WithReadOnly creates a read-only engine. Mutations return ErrReadOnly.
func WithReadOnly() Option {
	return func(e *Engine) {
		e.readOnly = true
	}
}
