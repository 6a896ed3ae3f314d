package augtree

import "reflect"

// CheckIntegrity recomputes black heights, sizes, and summaries
// independently of the cached values and verifies every red-black and
// summary invariant. Intended for tests only; it visits every node.
func (t *Tree[T, A, S]) CheckIntegrity() bool {
	if t.root == nil {
		return true
	}
	if t.root.color != black || t.root.parent != nil {
		return false
	}
	_, ok := t.checkNode(t.root)
	return ok
}

// checkNode returns the black height of the subtree and whether every
// invariant holds below (and at) n.
func (t *Tree[T, A, S]) checkNode(n *node[T, A]) (int, bool) {
	if n == nil {
		return 0, true
	}

	if n.color == red {
		if !isBlack(n.left) || !isBlack(n.right) {
			return 0, false
		}
	}
	if n.left != nil && n.left.parent != n {
		return 0, false
	}
	if n.right != nil && n.right.parent != n {
		return 0, false
	}

	lh, ok := t.checkNode(n.left)
	if !ok {
		return 0, false
	}
	rh, ok := t.checkNode(n.right)
	if !ok {
		return 0, false
	}
	if lh != rh {
		return 0, false
	}

	size := 1
	var lp, rp *A
	if n.left != nil {
		size += n.left.size
		lp = &n.left.summary
	}
	if n.right != nil {
		size += n.right.size
		rp = &n.right.summary
	}
	if n.size != size {
		return 0, false
	}
	if want := t.sum.Summarize(n.item, lp, rp); !reflect.DeepEqual(n.summary, want) {
		return 0, false
	}

	h := lh
	if n.color == black {
		h++
	}
	return h, true
}
