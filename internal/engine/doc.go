// Package engine ties one document's position state together.
//
// The engine owns a caret set, any number of named overlapping span layers,
// and a segment map, and keeps all of them consistent with the document by
// fanning each edit out through a single Apply call. It stores no document
// text: edits arrive as (position, erased, inserted) triples and only
// positions are maintained.
//
// # Thread Safety
//
// All Engine operations are thread-safe. A read-write mutex allows
// concurrent queries while serializing Apply and other mutations. The
// underlying packages (caret, span, segment) are not safe for concurrent
// use on their own; the engine is the synchronization boundary.
//
// # Basic Usage
//
//	e := engine.New(engine.WithLayers("diagnostics"))
//	e.AddSelection(caret.NewSelection(5, 10))
//	e.AddSpan("diagnostics", 20, 4, "unused variable")
//	e.Classify(0, 30, 2)
//
//	// An edit inserts 3 units at offset 10; everything follows.
//	e.Apply(buffer.NewInsert(10, 3))
package engine
