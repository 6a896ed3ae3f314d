package augtree

// Summarizer synthesizes a subtree summary from a node's item and the
// summaries of its children. Absent children are passed as nil. The strategy
// is a type parameter so the call is devirtualized at compile time.
type Summarizer[T, A any] interface {
	Summarize(item T, left, right *A) A
}

// color represents the red-black tree node color.
type color bool

const (
	red   color = false
	black color = true
)

// node is a tree node. Children are exclusively owned; the parent link is
// non-owning and used only during rebalancing and iteration.
type node[T, A any] struct {
	item    T
	summary A
	left    *node[T, A]
	right   *node[T, A]
	parent  *node[T, A]
	size    int
	color   color
}

// Tree is an ordered container of items with per-subtree summaries.
type Tree[T, A any, S Summarizer[T, A]] struct {
	sum  S
	root *node[T, A]
}

// New creates an empty tree using the given summarizer.
func New[T, A any, S Summarizer[T, A]](sum S) *Tree[T, A, S] {
	return &Tree[T, A, S]{sum: sum}
}

// Len returns the number of items in the tree.
func (t *Tree[T, A, S]) Len() int {
	if t.root == nil {
		return 0
	}
	return t.root.size
}

// Empty returns true if the tree holds no items.
func (t *Tree[T, A, S]) Empty() bool {
	return t.root == nil
}

// Summary returns the summary of the whole tree.
// The second result is false if the tree is empty.
func (t *Tree[T, A, S]) Summary() (A, bool) {
	if t.root == nil {
		var zero A
		return zero, false
	}
	return t.root.summary, true
}

// Items returns all items in sequence order.
func (t *Tree[T, A, S]) Items() []T {
	items := make([]T, 0, t.Len())
	for it := t.Begin(); it.Valid(); it = it.Next() {
		items = append(items, it.Item())
	}
	return items
}

// Iterator points at an item in a tree, or past the last item (the end
// iterator). Any structural mutation of the tree invalidates it.
type Iterator[T, A any, S Summarizer[T, A]] struct {
	tree *Tree[T, A, S]
	n    *node[T, A]
}

// Begin returns an iterator at the first item, or the end iterator if empty.
func (t *Tree[T, A, S]) Begin() Iterator[T, A, S] {
	return Iterator[T, A, S]{tree: t, n: minimum(t.root)}
}

// End returns the past-the-end iterator.
func (t *Tree[T, A, S]) End() Iterator[T, A, S] {
	return Iterator[T, A, S]{tree: t}
}

// Valid returns true if the iterator points at an item (is not the end).
func (it Iterator[T, A, S]) Valid() bool {
	return it.n != nil
}

// Item returns the item the iterator points at.
// Panics on the end iterator.
func (it Iterator[T, A, S]) Item() T {
	if it.n == nil {
		panic("augtree: Item on end iterator")
	}
	return it.n.item
}

// Summary returns the summary of the subtree rooted at the iterator's node.
// Panics on the end iterator.
func (it Iterator[T, A, S]) Summary() A {
	if it.n == nil {
		panic("augtree: Summary on end iterator")
	}
	return it.n.summary
}

// SetItem replaces the item at the iterator and resummarizes the path to the
// root. The tree's order is the caller's responsibility; replacing an item in
// a way that changes its sort position is a contract violation.
func (it Iterator[T, A, S]) SetItem(item T) {
	if it.n == nil {
		panic("augtree: SetItem on end iterator")
	}
	it.n.item = item
	it.tree.updateUp(it.n)
}

// Next returns an iterator at the following item, or the end iterator.
// Panics on the end iterator.
func (it Iterator[T, A, S]) Next() Iterator[T, A, S] {
	if it.n == nil {
		panic("augtree: Next on end iterator")
	}
	return Iterator[T, A, S]{tree: it.tree, n: successor(it.n)}
}

// Prev returns an iterator at the preceding item. From the end iterator it
// returns the last item. Panics when already at the first item.
func (it Iterator[T, A, S]) Prev() Iterator[T, A, S] {
	if it.n == nil {
		last := maximum(it.tree.root)
		if last == nil {
			panic("augtree: Prev on empty tree")
		}
		return Iterator[T, A, S]{tree: it.tree, n: last}
	}
	p := predecessor(it.n)
	if p == nil {
		panic("augtree: Prev on begin iterator")
	}
	return Iterator[T, A, S]{tree: it.tree, n: p}
}

// InsertBefore inserts item immediately before pos in sequence order, or at
// the end when pos is the end iterator. Returns an iterator at the new item.
func (t *Tree[T, A, S]) InsertBefore(pos Iterator[T, A, S], item T) Iterator[T, A, S] {
	if pos.tree != t {
		panic("augtree: iterator from another tree")
	}

	n := &node[T, A]{item: item, size: 1, color: red}
	n.summary = t.sum.Summarize(item, nil, nil)

	switch {
	case t.root == nil:
		n.color = black
		t.root = n
		return Iterator[T, A, S]{tree: t, n: n}
	case pos.n == nil:
		p := maximum(t.root)
		p.right = n
		n.parent = p
	case pos.n.left == nil:
		pos.n.left = n
		n.parent = pos.n
	default:
		p := maximum(pos.n.left)
		p.right = n
		n.parent = p
	}

	t.updateUp(n.parent)
	t.fixInsert(n)
	return Iterator[T, A, S]{tree: t, n: n}
}

// Erase removes the item at it and returns an iterator at the following
// item (or the end iterator). Panics on the end iterator or an iterator
// from another tree.
func (t *Tree[T, A, S]) Erase(it Iterator[T, A, S]) Iterator[T, A, S] {
	if it.tree != t {
		panic("augtree: iterator from another tree")
	}
	if it.n == nil {
		panic("augtree: Erase on end iterator")
	}

	z := it.n
	next := successor(z)

	var x, xParent *node[T, A]
	removed := z.color

	switch {
	case z.left == nil:
		x = z.right
		xParent = z.parent
		t.transplant(z, z.right)
	case z.right == nil:
		x = z.left
		xParent = z.parent
		t.transplant(z, z.left)
	default:
		// Relink the successor into z's position rather than copying its
		// item, so the successor node (and the returned iterator) survives.
		y := minimum(z.right)
		removed = y.color
		x = y.right
		if y.parent == z {
			xParent = y
		} else {
			xParent = y.parent
			t.transplant(y, y.right)
			y.right = z.right
			y.right.parent = y
		}
		t.transplant(z, y)
		y.left = z.left
		y.left.parent = y
		y.color = z.color
	}

	t.updateUp(xParent)
	if removed == black {
		t.fixDelete(x, xParent)
	}
	return Iterator[T, A, S]{tree: t, n: next}
}

// EraseRange removes every item in [begin, end).
func (t *Tree[T, A, S]) EraseRange(begin, end Iterator[T, A, S]) {
	for it := begin; it.n != end.n; {
		it = t.Erase(it)
	}
}

// transplant replaces the subtree rooted at u with the subtree rooted at v.
func (t *Tree[T, A, S]) transplant(u, v *node[T, A]) {
	switch {
	case u.parent == nil:
		t.root = v
	case u == u.parent.left:
		u.parent.left = v
	default:
		u.parent.right = v
	}
	if v != nil {
		v.parent = u.parent
	}
}

// update recomputes n's size and summary from its children.
func (t *Tree[T, A, S]) update(n *node[T, A]) {
	n.size = 1
	var lp, rp *A
	if n.left != nil {
		n.size += n.left.size
		lp = &n.left.summary
	}
	if n.right != nil {
		n.size += n.right.size
		rp = &n.right.summary
	}
	n.summary = t.sum.Summarize(n.item, lp, rp)
}

// updateUp recomputes sizes and summaries from n to the root.
func (t *Tree[T, A, S]) updateUp(n *node[T, A]) {
	for ; n != nil; n = n.parent {
		t.update(n)
	}
}

func (t *Tree[T, A, S]) rotateLeft(x *node[T, A]) {
	y := x.right
	x.right = y.left
	if y.left != nil {
		y.left.parent = x
	}
	y.parent = x.parent
	switch {
	case x.parent == nil:
		t.root = y
	case x == x.parent.left:
		x.parent.left = y
	default:
		x.parent.right = y
	}
	y.left = x
	x.parent = y
	t.update(x)
	t.update(y)
}

func (t *Tree[T, A, S]) rotateRight(x *node[T, A]) {
	y := x.left
	x.left = y.right
	if y.right != nil {
		y.right.parent = x
	}
	y.parent = x.parent
	switch {
	case x.parent == nil:
		t.root = y
	case x == x.parent.right:
		x.parent.right = y
	default:
		x.parent.left = y
	}
	y.right = x
	x.parent = y
	t.update(x)
	t.update(y)
}

// fixInsert restores red-black invariants after attaching the red node z.
// Summaries along rotation sites are maintained by the rotate helpers;
// recolorings do not affect summaries.
func (t *Tree[T, A, S]) fixInsert(z *node[T, A]) {
	for z.parent != nil && z.parent.color == red {
		gp := z.parent.parent
		if z.parent == gp.left {
			uncle := gp.right
			if uncle != nil && uncle.color == red {
				z.parent.color = black
				uncle.color = black
				gp.color = red
				z = gp
				continue
			}
			if z == z.parent.right {
				z = z.parent
				t.rotateLeft(z)
			}
			z.parent.color = black
			gp.color = red
			t.rotateRight(gp)
		} else {
			uncle := gp.left
			if uncle != nil && uncle.color == red {
				z.parent.color = black
				uncle.color = black
				gp.color = red
				z = gp
				continue
			}
			if z == z.parent.left {
				z = z.parent
				t.rotateRight(z)
			}
			z.parent.color = black
			gp.color = red
			t.rotateLeft(gp)
		}
	}
	t.root.color = black
}

// fixDelete restores red-black invariants after removing a black node.
// x is the child that took the removed node's place (possibly nil), with
// parent xParent.
func (t *Tree[T, A, S]) fixDelete(x, xParent *node[T, A]) {
	for x != t.root && isBlack(x) {
		if x == xParent.left {
			sib := xParent.right
			if sib.color == red {
				sib.color = black
				xParent.color = red
				t.rotateLeft(xParent)
				sib = xParent.right
			}
			if isBlack(sib.left) && isBlack(sib.right) {
				sib.color = red
				x = xParent
				xParent = x.parent
				continue
			}
			if isBlack(sib.right) {
				sib.left.color = black
				sib.color = red
				t.rotateRight(sib)
				sib = xParent.right
			}
			sib.color = xParent.color
			xParent.color = black
			sib.right.color = black
			t.rotateLeft(xParent)
			x = t.root
		} else {
			sib := xParent.left
			if sib.color == red {
				sib.color = black
				xParent.color = red
				t.rotateRight(xParent)
				sib = xParent.left
			}
			if isBlack(sib.right) && isBlack(sib.left) {
				sib.color = red
				x = xParent
				xParent = x.parent
				continue
			}
			if isBlack(sib.left) {
				sib.right.color = black
				sib.color = red
				t.rotateLeft(sib)
				sib = xParent.left
			}
			sib.color = xParent.color
			xParent.color = black
			sib.left.color = black
			t.rotateRight(xParent)
			x = t.root
		}
	}
	if x != nil {
		x.color = black
	}
}

func isBlack[T, A any](n *node[T, A]) bool {
	return n == nil || n.color == black
}

func minimum[T, A any](n *node[T, A]) *node[T, A] {
	if n == nil {
		return nil
	}
	for n.left != nil {
		n = n.left
	}
	return n
}

func maximum[T, A any](n *node[T, A]) *node[T, A] {
	if n == nil {
		return nil
	}
	for n.right != nil {
		n = n.right
	}
	return n
}

func successor[T, A any](n *node[T, A]) *node[T, A] {
	if n.right != nil {
		return minimum(n.right)
	}
	for n.parent != nil && n == n.parent.right {
		n = n.parent
	}
	return n.parent
}

func predecessor[T, A any](n *node[T, A]) *node[T, A] {
	if n.left != nil {
		return maximum(n.left)
	}
	for n.parent != nil && n == n.parent.left {
		n = n.parent
	}
	return n.parent
}
