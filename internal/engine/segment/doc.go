// Package segment is the run-length map used for syntax and theme
// classification. It covers the index space from zero upward with
// consecutive (class, length) runs; everything past the last materialized
// run is an implicit infinite tail of the default class.
//
// Writes split straddled runs, delete covered ones, and coalesce with equal
// neighbors, so adjacent runs never share a class. Edits delete classified
// spans inside the erased window and give inserted text the classification
// of its insertion point.
//
// Runs are held in an augmented tree summarized by subtree length, so the
// run covering a position is found by an order-statistic descent instead of
// a scan.
package segment
