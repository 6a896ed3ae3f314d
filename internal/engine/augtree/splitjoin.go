package augtree

// blackHeight returns the number of black nodes on the path from n to a
// leaf position, counting n itself.
func blackHeight[T, A any](n *node[T, A]) int {
	h := 0
	for ; n != nil; n = n.left {
		if n.color == black {
			h++
		}
	}
	return h
}

// detach lifts a subtree out into an independent tree. The subtree's
// summaries are already valid; only the root link and color change.
func (t *Tree[T, A, S]) detach(sub *node[T, A]) *Tree[T, A, S] {
	nt := &Tree[T, A, S]{sum: t.sum}
	if sub != nil {
		sub.parent = nil
		sub.color = black
		nt.root = sub
	}
	return nt
}

// Join produces one tree containing every item of left, then middle, then
// every item of right, consuming both inputs. Runs in O(|bh(left)-bh(right)|)
// by attaching the shorter tree along the taller tree's spine at matching
// black height and rebalancing from the pivot.
func Join[T, A any, S Summarizer[T, A]](left, right *Tree[T, A, S], middle T) *Tree[T, A, S] {
	if left.root == nil {
		right.InsertBefore(right.Begin(), middle)
		return right
	}
	if right.root == nil {
		left.InsertBefore(left.End(), middle)
		return left
	}

	bhL := blackHeight(left.root)
	bhR := blackHeight(right.root)

	m := &node[T, A]{item: middle, size: 1, color: red}

	if bhL >= bhR {
		// Walk left's right spine down to a black node of right's height.
		x := left.root
		bh := bhL
		for !(x.color == black && bh == bhR) {
			if x.color == black {
				bh--
			}
			x = x.right
		}
		p := x.parent
		m.left = x
		x.parent = m
		m.right = right.root
		right.root.parent = m
		if p == nil {
			left.root = m
		} else {
			p.right = m
			m.parent = p
		}
		right.root = nil
		left.updateUp(m)
		left.fixInsert(m)
		return left
	}

	x := right.root
	bh := bhR
	for !(x.color == black && bh == bhL) {
		if x.color == black {
			bh--
		}
		x = x.left
	}
	p := x.parent
	m.right = x
	x.parent = m
	m.left = left.root
	left.root.parent = m
	if p == nil {
		right.root = m
	} else {
		p.left = m
		m.parent = p
	}
	left.root = nil
	right.updateUp(m)
	right.fixInsert(m)
	return right
}

// Concat concatenates a and b (all of a's items before all of b's),
// consuming both. The pivot for the underlying Join is taken from b.
func Concat[T, A any, S Summarizer[T, A]](a, b *Tree[T, A, S]) *Tree[T, A, S] {
	if a.root == nil {
		return b
	}
	if b.root == nil {
		return a
	}
	first := b.Begin()
	m := first.Item()
	b.Erase(first)
	return Join(a, b, m)
}

// SplitAt partitions the tree into the items before pos, the item at pos
// (returned by value, removed from any tree), and the items after pos.
// The receiver is left empty. Runs in O(log n) by rejoining the severed
// subtrees along pos's ancestor path, not by rebuilding.
func (t *Tree[T, A, S]) SplitAt(pos Iterator[T, A, S]) (*Tree[T, A, S], T, *Tree[T, A, S]) {
	if pos.tree != t {
		panic("augtree: iterator from another tree")
	}
	if pos.n == nil {
		panic("augtree: SplitAt on end iterator")
	}

	x := pos.n
	left := t.detach(x.left)
	right := t.detach(x.right)

	cur := x
	for p := x.parent; p != nil; {
		gp := p.parent
		if p.right == cur {
			left = Join(t.detach(p.left), left, p.item)
		} else {
			right = Join(right, t.detach(p.right), p.item)
		}
		cur = p
		p = gp
	}

	t.root = nil
	return left, x.item, right
}

// InsertTree splices every item of other into t as a contiguous block
// immediately before pos, consuming other.
func (t *Tree[T, A, S]) InsertTree(other *Tree[T, A, S], pos Iterator[T, A, S]) {
	if pos.tree != t {
		panic("augtree: iterator from another tree")
	}
	if other == nil || other.root == nil {
		return
	}

	if pos.n == nil {
		res := Concat(t, other)
		if res != t {
			t.root = res.root
			res.root = nil
		}
		return
	}

	l, m, r := t.SplitAt(pos)
	res := Join(Concat(l, other), r, m)
	t.root = res.root
	res.root = nil
}
