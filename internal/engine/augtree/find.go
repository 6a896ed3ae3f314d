package augtree

// Dir tells a Find descent where the sought item lies relative to the
// current node.
type Dir int

const (
	// DirLeft descends into the left subtree.
	DirLeft Dir = iota
	// DirHere stops at the current node.
	DirHere
	// DirRight descends into the right subtree.
	DirRight
)

// Find descends from the root guided by choose, which inspects the current
// node's item and the summary of its left subtree (nil when absent). It
// answers order-statistic queries in O(log n): a chooser typically carries
// an accumulator in its closure and narrows it as the descent commits to a
// subtree. Returns the end iterator when the descent runs off the tree
// (nothing satisfied the chooser).
func (t *Tree[T, A, S]) Find(choose func(item T, left *A) Dir) Iterator[T, A, S] {
	n := t.root
	for n != nil {
		var lp *A
		if n.left != nil {
			lp = &n.left.summary
		}
		switch choose(n.item, lp) {
		case DirLeft:
			n = n.left
		case DirHere:
			return Iterator[T, A, S]{tree: t, n: n}
		default:
			n = n.right
		}
	}
	return t.End()
}

// At returns an iterator at the item with the given in-order index.
// Panics when the index is out of range.
func (t *Tree[T, A, S]) At(index int) Iterator[T, A, S] {
	if index < 0 || index >= t.Len() {
		panic("augtree: index out of range")
	}
	n := t.root
	for {
		leftSize := 0
		if n.left != nil {
			leftSize = n.left.size
		}
		switch {
		case index < leftSize:
			n = n.left
		case index == leftSize:
			return Iterator[T, A, S]{tree: t, n: n}
		default:
			index -= leftSize + 1
			n = n.right
		}
	}
}
