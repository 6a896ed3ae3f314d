// Package span is the overlapping range registry used for decorations and
// diagnostics. Unlike the caret set, entries may overlap arbitrarily and are
// never merged.
//
// Each entry stores its start as an offset relative to the previous entry's
// start rather than as an absolute position. An edit that shifts everything
// after it then only needs to re-encode the single entry whose relative
// offset crosses the edit, instead of rewriting every absolute position; the
// shift propagates through the untouched relative offsets for free. The
// per-subtree summary (relative-start sum plus subtree-relative maximum end)
// lets queries reconstruct absolute positions along a single descent.
//
// Point intersection queries use closed-interval semantics: a range starting
// or ending exactly at the query position is included.
package span
