package engine

import "errors"

// Errors returned by engine operations.
var (
	// ErrRangeInvalid indicates an invalid range or edit (negative
	// components, or end < start).
	ErrRangeInvalid = errors.New("invalid range")

	// ErrUnknownLayer indicates a span layer that was never registered.
	ErrUnknownLayer = errors.New("unknown layer")

	// ErrLayerExists indicates an attempt to register a layer twice.
	ErrLayerExists = errors.New("layer already exists")

	// ErrReadOnly indicates a mutation was attempted on a read-only engine.
	ErrReadOnly = errors.New("engine is read-only")
)
