// Package buffer defines the position vocabulary shared by the tracking
// registries: byte offsets, half-open ranges, and length-based edits.
//
// The registries never see document text. An [Edit] describes a change as
// (position, erased length, inserted length), which is all the position
// engine needs to stay consistent with the document it shadows. The unit of
// ByteOffset is a caller choice (bytes or codepoints) but must be used
// consistently for any one registry instance.
package buffer
