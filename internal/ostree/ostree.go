// Package ostree implements an order statistics tree over integer weights.
//
// The tree is stored implicitly in a slice: slot 1 is the root, the children
// of slot p are 2p and 2p+1, and leaf i lives at slot Capacity()+i. Every
// internal slot holds the sum of its subtree.
package ostree

import "fmt"

// Tree is a fixed-capacity weighted index tree
type Tree struct {
	arr []int64
}

// New creates a tree able to hold at least n weights, all set to zero
func New(n int) *Tree {
	c := 1
	for c < n {
		c *= 2
	}
	return &Tree{arr: make([]int64, c*2)}
}

// Capacity returns the number of leaves
func (t *Tree) Capacity() int {
	return len(t.arr) / 2
}

// Sum returns the total weight
func (t *Tree) Sum() int64 {
	return t.arr[1]
}

// ValueAt returns the weight stored at index
func (t *Tree) ValueAt(index int) int64 {
	t.check(index)
	return t.arr[index+t.Capacity()]
}

// Assign replaces the weight at index and updates its ancestors
func (t *Tree) Assign(index int, weight int64) {
	t.add(index, weight-t.ValueAt(index))
}

func (t *Tree) add(index int, delta int64) {
	for p := index + t.Capacity(); p > 0; p /= 2 {
		t.arr[p] += delta
	}
}

// Rank returns the leaf whose cumulative weight interval contains target.
// target must satisfy 0 <= target < Sum(); leaves of zero weight are never returned.
func (t *Tree) Rank(target int64) int {
	c := len(t.arr)
	p := 2
	for p < c {
		if t.arr[p] <= target {
			target -= t.arr[p]
			p++
		}
		p *= 2
	}
	return (p - c) / 2
}

// Multiply scales every weight, sums included, by coef
func (t *Tree) Multiply(coef int64) {
	for i := range t.arr {
		t.arr[i] *= coef
	}
}

func (t *Tree) check(index int) {
	if index < 0 || index >= t.Capacity() {
		panic(fmt.Sprintf("ostree: index %d out of range [0, %d)", index, t.Capacity()))
	}
}
