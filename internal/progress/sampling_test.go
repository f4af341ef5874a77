package progress

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mixedTable(t *testing.T, n int, seed int64) *Table {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	table := New(n, args)
	for i := 0; i < n*4; i++ {
		table.Set(rng.Intn(n), rng.Intn(2) == 0)
		table.Step()
	}
	require.NoError(t, table.Verify())
	return table
}

func TestSelectRandomEntriesDistinctAndRestored(t *testing.T) {
	table := mixedTable(t, 40, 3)
	rng := rand.New(rand.NewSource(9))

	for _, pass := range []bool{true, false} {
		before := table.PoolSum(pass)
		for round := 0; round < 50; round++ {
			got := table.SelectRandomEntries(10, pass, UniformDraw(rng))

			seen := map[int]bool{}
			for _, idx := range got {
				assert.False(t, seen[idx], "duplicate index %d", idx)
				seen[idx] = true
				assert.Equal(t, pass, table.Entry(idx).Pass)
				assert.Positive(t, table.Entry(idx).Distrust)
			}
			assert.Equal(t, before, table.PoolSum(pass))
		}
	}
	require.NoError(t, table.Verify())
}

func TestSelectRandomEntriesExhaustsPool(t *testing.T) {
	table := New(3, args)
	table.Set(1, true)

	got := table.SelectRandomEntries(10, false, UniformDraw(rand.New(rand.NewSource(5))))

	assert.ElementsMatch(t, []int{0, 2}, got)
	assert.Equal(t, []int{1}, table.SelectRandomEntries(10, true, ZeroDraw))
}

func TestSelectRandomEntriesEmptyPool(t *testing.T) {
	table := New(5, args)

	assert.Empty(t, table.SelectRandomEntries(3, true, ZeroDraw))
	assert.Empty(t, New(0, args).SelectRandomEntries(3, false, ZeroDraw))
}

func TestZeroDrawIsDeterministic(t *testing.T) {
	table := New(5, args)

	assert.Equal(t, []int{0, 1, 2, 3, 4}, table.SelectRandomEntries(10, false, ZeroDraw))
	assert.Equal(t, []int{0, 1}, table.SelectRandomEntries(2, false, ZeroDraw))
}

func TestSelectRandomEntriesClampsDraw(t *testing.T) {
	table := New(4, args)
	almostOne := func() float64 { return 0.9999999999999999 }

	got := table.SelectRandomEntries(4, false, almostOne)

	assert.Equal(t, []int{3, 2, 1, 0}, got)
	assert.Equal(t, int64(4)*10000, table.PoolSum(false))
}

func TestSelectRandomEntriesFollowsWeights(t *testing.T) {
	table := New(2, args)
	// index 1 ends at 5000 after two passes and a failure
	table.Set(1, true)
	table.Set(1, true)
	table.Set(1, false)
	require.False(t, table.Entry(1).Pass)

	rng := rand.New(rand.NewSource(11))
	counts := [2]int{}
	for i := 0; i < 20000; i++ {
		counts[table.SelectRandomEntries(1, false, UniformDraw(rng))[0]]++
	}
	share := float64(counts[0]) / 20000
	want := float64(table.Entry(0).Distrust) / float64(table.PoolSum(false))
	assert.InDelta(t, want, share, 0.02)
}
