// Package augtree provides a generic augmented red-black tree, the core
// engine behind the position-tracking registries.
//
// Each node carries an owner-supplied item plus a summary synthesized
// bottom-up from the item and its children's summaries. The summary type and
// its synthesis strategy are compile-time type parameters, so summarization
// is dispatched statically even though it runs on every mutation.
//
// Beyond ordered insertion and removal, the tree supports the structural
// operations the registries are built on:
//
//   - InsertBefore: sequence-order insertion at an iterator position
//   - SplitAt: partition into (before, pivot item, after) in O(log n)
//   - Join: concatenate two trees around a pivot by black-height merge
//   - InsertTree: splice a whole tree in as a contiguous block
//   - Find: summary-guided descent for order-statistic queries
//
// Iterators are invalidated by any structural mutation of their tree.
// Caller-contract violations (dereferencing the end iterator, passing an
// iterator from another tree) panic; degenerate inputs are total.
// The tree is not safe for concurrent use.
package augtree
