package buffer

import "sync/atomic"

// ByteOffset represents a position in the document, in whatever unit the
// owning document uses (bytes or codepoints). It is the fundamental position
// type for every registry.
type ByteOffset = int64

// RevisionID uniquely identifies a document revision.
// Each accepted edit creates a new revision.
type RevisionID uint64

// revisionCounter is used to generate unique revision IDs.
var revisionCounter uint64

// NewRevisionID generates a new unique revision ID.
// This is thread-safe using atomic operations.
func NewRevisionID() RevisionID {
	return RevisionID(atomic.AddUint64(&revisionCounter, 1))
}
