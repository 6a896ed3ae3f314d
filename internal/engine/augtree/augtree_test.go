package augtree

import (
	"math/rand"
	"testing"
)

// countSum is the test summary: subtree element count and value sum.
type countSum struct {
	Count int
	Sum   int
}

type countSummarizer struct{}

func (countSummarizer) Summarize(item int, left, right *countSum) countSum {
	s := countSum{Count: 1, Sum: item}
	if left != nil {
		s.Count += left.Count
		s.Sum += left.Sum
	}
	if right != nil {
		s.Count += right.Count
		s.Sum += right.Sum
	}
	return s
}

func newIntTree() *Tree[int, countSum, countSummarizer] {
	return New[int, countSum](countSummarizer{})
}

func buildTree(items []int) *Tree[int, countSum, countSummarizer] {
	t := newIntTree()
	for _, v := range items {
		t.InsertBefore(t.End(), v)
	}
	return t
}

func equalItems(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestInsertAppend(t *testing.T) {
	tree := buildTree([]int{1, 2, 3, 4, 5})

	if tree.Len() != 5 {
		t.Fatalf("Len = %d, want 5", tree.Len())
	}
	if got := tree.Items(); !equalItems(got, []int{1, 2, 3, 4, 5}) {
		t.Errorf("Items = %v", got)
	}
	if !tree.CheckIntegrity() {
		t.Error("integrity check failed")
	}

	sum, ok := tree.Summary()
	if !ok || sum.Count != 5 || sum.Sum != 15 {
		t.Errorf("Summary = %+v, %v", sum, ok)
	}
}

func TestInsertBeforePositions(t *testing.T) {
	tree := buildTree([]int{10, 30})

	// Before the first element.
	tree.InsertBefore(tree.Begin(), 5)
	// Before an interior element.
	tree.InsertBefore(tree.At(2), 20)

	if got := tree.Items(); !equalItems(got, []int{5, 10, 20, 30}) {
		t.Errorf("Items = %v", got)
	}
	if !tree.CheckIntegrity() {
		t.Error("integrity check failed")
	}
}

func TestEraseReturnsNext(t *testing.T) {
	tree := buildTree([]int{1, 2, 3})

	it := tree.Erase(tree.At(1))
	if !it.Valid() || it.Item() != 3 {
		t.Errorf("Erase should return iterator at the next element")
	}
	if got := tree.Items(); !equalItems(got, []int{1, 3}) {
		t.Errorf("Items = %v", got)
	}

	it = tree.Erase(tree.At(1))
	if it.Valid() {
		t.Error("erasing the last element should return the end iterator")
	}
	if !tree.CheckIntegrity() {
		t.Error("integrity check failed")
	}
}

func TestEraseRange(t *testing.T) {
	tree := buildTree([]int{1, 2, 3, 4, 5, 6})

	tree.EraseRange(tree.At(1), tree.At(4))
	if got := tree.Items(); !equalItems(got, []int{1, 5, 6}) {
		t.Errorf("Items = %v", got)
	}

	tree.EraseRange(tree.Begin(), tree.End())
	if !tree.Empty() {
		t.Error("tree should be empty after erasing everything")
	}
}

func TestSetItemResummarizes(t *testing.T) {
	tree := buildTree([]int{1, 2, 3})

	tree.At(1).SetItem(20)
	if got := tree.Items(); !equalItems(got, []int{1, 20, 3}) {
		t.Errorf("Items = %v", got)
	}
	sum, _ := tree.Summary()
	if sum.Sum != 24 {
		t.Errorf("Sum = %d, want 24", sum.Sum)
	}
	if !tree.CheckIntegrity() {
		t.Error("integrity check failed")
	}
}

func TestIteration(t *testing.T) {
	tree := buildTree([]int{1, 2, 3, 4})

	var forward []int
	for it := tree.Begin(); it.Valid(); it = it.Next() {
		forward = append(forward, it.Item())
	}
	if !equalItems(forward, []int{1, 2, 3, 4}) {
		t.Errorf("forward = %v", forward)
	}

	var backward []int
	it := tree.End()
	for i := 0; i < tree.Len(); i++ {
		it = it.Prev()
		backward = append(backward, it.Item())
	}
	if !equalItems(backward, []int{4, 3, 2, 1}) {
		t.Errorf("backward = %v", backward)
	}
}

func TestFindOrderStatistic(t *testing.T) {
	tree := buildTree([]int{10, 20, 30, 40, 50})

	// Find the element at rank k using the count summary.
	for k := 0; k < tree.Len(); k++ {
		want := (k + 1) * 10
		remaining := k
		it := tree.Find(func(_ int, left *countSum) Dir {
			leftCount := 0
			if left != nil {
				leftCount = left.Count
			}
			switch {
			case remaining < leftCount:
				return DirLeft
			case remaining == leftCount:
				return DirHere
			default:
				remaining -= leftCount + 1
				return DirRight
			}
		})
		if !it.Valid() || it.Item() != want {
			t.Errorf("rank %d: got %v, want %d", k, it, want)
		}
	}
}

func TestFindMiss(t *testing.T) {
	tree := buildTree([]int{1, 2, 3})

	it := tree.Find(func(int, *countSum) Dir { return DirRight })
	if it.Valid() {
		t.Error("descent running off the tree should return the end iterator")
	}
}

func TestForeignIteratorPanics(t *testing.T) {
	a := buildTree([]int{1})
	b := buildTree([]int{2})

	defer func() {
		if recover() == nil {
			t.Error("expected panic for iterator from another tree")
		}
	}()
	a.Erase(b.Begin())
}

// TestRandomizedAgainstModel drives the tree with a seeded random operation
// stream and compares against a plain slice model after every operation.
func TestRandomizedAgainstModel(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	tree := newIntTree()
	var model []int

	for op := 0; op < 2000; op++ {
		switch {
		case len(model) == 0 || rng.Intn(3) != 0:
			idx := rng.Intn(len(model) + 1)
			val := rng.Intn(1000)
			pos := tree.End()
			if idx < len(model) {
				pos = tree.At(idx)
			}
			tree.InsertBefore(pos, val)
			model = append(model, 0)
			copy(model[idx+1:], model[idx:])
			model[idx] = val
		default:
			idx := rng.Intn(len(model))
			tree.Erase(tree.At(idx))
			model = append(model[:idx], model[idx+1:]...)
		}

		if tree.Len() != len(model) {
			t.Fatalf("op %d: Len = %d, model %d", op, tree.Len(), len(model))
		}
		if op%100 == 0 {
			if !tree.CheckIntegrity() {
				t.Fatalf("op %d: integrity check failed", op)
			}
			if got := tree.Items(); !equalItems(got, model) {
				t.Fatalf("op %d: items %v, model %v", op, got, model)
			}
		}
	}

	if !tree.CheckIntegrity() {
		t.Fatal("final integrity check failed")
	}
	if got := tree.Items(); !equalItems(got, model) {
		t.Fatalf("final items %v, model %v", got, model)
	}
}
