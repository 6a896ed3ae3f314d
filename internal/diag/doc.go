// Package diag keeps diagnostics positioned correctly across edits. It
// holds one overlapping span registry per document, fed by LSP-style
// publishDiagnostics payloads and re-projected through the same edit triples
// the document owner applies to its buffer.
//
// Payloads carry diagnostic ranges already converted to document offsets by
// the caller's position mapper; this package never touches lines, columns,
// or encodings. Queries return diagnostics at their current positions, which
// may differ from the published ones once edits have been applied.
package diag
