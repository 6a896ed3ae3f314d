// Package caret maintains the set of active carets and selections as a
// minimal, sorted, non-overlapping partition of the document.
//
// Adding a selection absorbs every existing entry its span overlaps or
// touches, so the set never holds two entries that could be expressed as
// one. A zero-length selection is a valid entry (a pure caret). The caret
// position is stored relative to the selection start and is recomputed
// against the merged start whenever entries are absorbed.
//
// Entries are held in an augmented tree keyed by start offset with a
// max-end summary, so point containment and merge scans run in
// O(log n + k) where k is the number of entries absorbed.
package caret
