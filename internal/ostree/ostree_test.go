package ostree

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRoundsUpToPowerOfTwo(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 4},
		{5, 8},
		{8, 8},
		{9, 16},
	}
	for _, tt := range tests {
		tree := New(tt.n)
		assert.Equal(t, tt.want, tree.Capacity(), "New(%d)", tt.n)
		assert.Zero(t, tree.Sum())
	}
}

func TestAssignKeepsSum(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tree := New(13)
	for step := 0; step < 500; step++ {
		tree.Assign(rng.Intn(13), rng.Int63n(1000))

		var total int64
		for i := 0; i < tree.Capacity(); i++ {
			total += tree.ValueAt(i)
		}
		require.Equal(t, total, tree.Sum(), "step %d", step)
	}
}

func TestInternalNodesHoldChildSums(t *testing.T) {
	tree := New(6)
	for i, w := range []int64{3, 0, 7, 1, 0, 9} {
		tree.Assign(i, w)
	}
	for p := 1; p < tree.Capacity(); p++ {
		assert.Equal(t, tree.arr[2*p]+tree.arr[2*p+1], tree.arr[p], "slot %d", p)
	}
}

func TestRankPartitionsCumulativeWeight(t *testing.T) {
	weights := []int64{2, 0, 3, 0, 0, 1, 4}
	tree := New(len(weights))
	for i, w := range weights {
		tree.Assign(i, w)
	}

	// Every target lands in the half-open interval of exactly one leaf.
	var lower int64
	for i, w := range weights {
		for target := lower; target < lower+w; target++ {
			assert.Equal(t, i, tree.Rank(target), "target %d", target)
		}
		lower += w
	}
	assert.Equal(t, tree.Sum(), lower)
}

func TestRankNeverReturnsZeroWeight(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	tree := New(31)
	for i := 0; i < 31; i++ {
		if rng.Intn(3) > 0 {
			tree.Assign(i, rng.Int63n(50)+1)
		}
	}
	for target := int64(0); target < tree.Sum(); target++ {
		idx := tree.Rank(target)
		assert.Positive(t, tree.ValueAt(idx), "target %d -> %d", target, idx)
	}
}

func TestRankSingleLeaf(t *testing.T) {
	tree := New(1)
	tree.Assign(0, 5)
	for target := int64(0); target < 5; target++ {
		assert.Equal(t, 0, tree.Rank(target))
	}
}

func TestRankZeroPicksLowestNonEmptyLeaf(t *testing.T) {
	tree := New(4)
	tree.Assign(2, 10)
	tree.Assign(3, 10)
	assert.Equal(t, 2, tree.Rank(0))
}

func TestMultiply(t *testing.T) {
	tree := New(3)
	tree.Assign(0, 1)
	tree.Assign(2, 4)
	tree.Multiply(100)

	assert.Equal(t, int64(500), tree.Sum())
	assert.Equal(t, int64(100), tree.ValueAt(0))
	assert.Equal(t, int64(400), tree.ValueAt(2))

	tree.Assign(0, 0)
	assert.Equal(t, int64(400), tree.Sum())
}

func TestOutOfRangePanics(t *testing.T) {
	tree := New(4)
	assert.Panics(t, func() { tree.Assign(4, 1) })
	assert.Panics(t, func() { tree.ValueAt(-1) })
}
