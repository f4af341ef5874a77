package progress

import (
	"math/rand"

	"github.com/example/mintin/internal/ostree"
)

// Draw returns a uniform number in [0, 1)
type Draw func() float64

// UniformDraw draws from rng
func UniformDraw(rng *rand.Rand) Draw {
	return rng.Float64
}

// ZeroDraw always selects the start of the pool, which makes sampling
// deterministic.
func ZeroDraw() float64 {
	return 0
}

// borrow zeroes drawn leaves for the duration of a batch and remembers their weights
type borrow struct {
	tree  *ostree.Tree
	taken []taken
}

type taken struct {
	index  int
	weight int64
}

func (b *borrow) take(index int) {
	b.taken = append(b.taken, taken{index: index, weight: b.tree.ValueAt(index)})
	b.tree.Assign(index, 0)
}

func (b *borrow) restore() {
	for i := len(b.taken) - 1; i >= 0; i-- {
		b.tree.Assign(b.taken[i].index, b.taken[i].weight)
	}
}

// SelectRandomEntries draws up to n distinct indices from the passed or failed
// pool, each with probability proportional to its distrust. Fewer indices are
// returned once the pool runs dry. The pool weights are left untouched.
func (t *Table) SelectRandomEntries(n int, pass bool, draw Draw) []int {
	b := &borrow{tree: t.pool(pass)}
	defer b.restore()

	result := make([]int, 0, n)
	for len(result) < n {
		sum := b.tree.Sum()
		if sum == 0 {
			break
		}
		target := int64(float64(sum) * draw())
		if target >= sum {
			target = sum - 1
		} else if target < 0 {
			target = 0
		}
		idx := b.tree.Rank(target)
		b.take(idx)
		result = append(result, idx)
	}
	return result
}
