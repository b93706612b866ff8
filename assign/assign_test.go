package assign_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janosh/matterviz-sub000/assign"
	"github.com/janosh/matterviz-sub000/internal/fixture"
)

var inf = math.Inf(1)

// bruteMin enumerates every injective row→column map.
func bruteMin(cost [][]float64) float64 {
	n := len(cost)
	if n == 0 {
		return 0
	}
	m := len(cost[0])
	used := make([]bool, m)
	best := inf
	var rec func(i int, acc float64)
	rec = func(i int, acc float64) {
		if i == n {
			best = math.Min(best, acc)

			return
		}
		for j := 0; j < m; j++ {
			if !used[j] {
				used[j] = true
				rec(i+1, acc+cost[i][j])
				used[j] = false
			}
		}
	}
	rec(0, 0)

	return best
}

func assertValid(t *testing.T, cost [][]float64, cols []int, total float64) {
	t.Helper()
	require.Len(t, cols, len(cost))
	seen := map[int]bool{}
	sum := 0.0
	for i, j := range cols {
		assert.False(t, seen[j], "column %d used twice", j)
		seen[j] = true
		sum += cost[i][j]
	}
	assert.InDelta(t, sum, total, 1e-9)
}

func TestHungarian_MatchesBruteForce(t *testing.T) {
	rng := fixture.RNG(11)
	for trial := 0; trial < 200; trial++ {
		n := 1 + rng.Intn(6)
		m := n + rng.Intn(3)
		cost := make([][]float64, n)
		for i := range cost {
			cost[i] = make([]float64, m)
			for j := range cost[i] {
				cost[i][j] = float64(rng.Intn(20))
				if rng.Intn(6) == 0 {
					cost[i][j] = inf
				}
			}
		}

		cols, total, err := assign.Hungarian(cost)
		want := bruteMin(cost)
		if math.IsInf(want, 1) {
			assert.ErrorIs(t, err, assign.ErrInfeasible, "trial %d", trial)

			continue
		}
		require.NoError(t, err, "trial %d", trial)
		assertValid(t, cost, cols, total)
		assert.InDelta(t, want, total, 1e-9, "trial %d", trial)
	}
}

func TestOptimal_MatchesHungarian(t *testing.T) {
	rng := fixture.RNG(12)
	for trial := 0; trial < 200; trial++ {
		n := 1 + rng.Intn(6)
		m := n + rng.Intn(3)
		cost := make([][]float64, n)
		for i := range cost {
			cost[i] = make([]float64, m)
			for j := range cost[i] {
				cost[i][j] = float64(rng.Intn(20))
				if rng.Intn(6) == 0 {
					cost[i][j] = inf
				}
			}
		}

		cols, total, err := assign.Optimal(cost)
		want := bruteMin(cost)
		if math.IsInf(want, 1) {
			assert.ErrorIs(t, err, assign.ErrInfeasible, "trial %d", trial)

			continue
		}
		require.NoError(t, err, "trial %d", trial)
		assertValid(t, cost, cols, total)
		assert.InDelta(t, want, total, 1e-9, "trial %d", trial)
	}
}

func TestOptimal_GreedyShortcut(t *testing.T) {
	// Row minima on distinct columns: Greedy's answer is already optimal.
	cost := [][]float64{
		{0.1, 4, 4},
		{4, 4, 0.2},
		{4, 0.3, 4},
	}
	cols, total, err := assign.Optimal(cost)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 1}, cols)
	assert.InDelta(t, 0.6, total, 1e-12)

	// Crossed pairs: Greedy pays 101, Optimal must fall through.
	cols, total, err = assign.Optimal([][]float64{
		{1, 2},
		{1, 100},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, cols)
	assert.InDelta(t, 3.0, total, 1e-12)

	// Greedy infeasible, Hungarian not.
	cols, _, err = assign.Optimal([][]float64{
		{1, 2},
		{3, inf},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, cols)

	cols, total, err = assign.Optimal(nil)
	require.NoError(t, err)
	assert.Empty(t, cols)
	assert.Zero(t, total)

	_, _, err = assign.Optimal([][]float64{{1, 2}, {3}})
	assert.ErrorIs(t, err, assign.ErrBadShape)
}

func TestHungarian_BeatsGreedyOnCrossedPairs(t *testing.T) {
	cost := [][]float64{
		{1, 2},
		{1, 100},
	}
	g, gt, err := assign.Greedy(cost)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, g)
	assert.InDelta(t, 101.0, gt, 1e-12)

	h, ht, err := assign.Hungarian(cost)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, h)
	assert.InDelta(t, 3.0, ht, 1e-12)
}

func TestGreedy_TiesLowestIndex(t *testing.T) {
	cols, _, err := assign.Greedy([][]float64{
		{5, 1, 1, 1},
		{1, 1, 1, 5},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, cols)
}

func TestGreedy_Infeasible(t *testing.T) {
	_, _, err := assign.Greedy([][]float64{
		{1, inf},
		{2, inf},
	})
	assert.ErrorIs(t, err, assign.ErrInfeasible)
}

func TestShapeErrors(t *testing.T) {
	for _, solve := range []assign.Solver{assign.Greedy, assign.Hungarian} {
		_, _, err := solve([][]float64{{1}, {2}})
		assert.ErrorIs(t, err, assign.ErrBadShape)
		_, _, err = solve([][]float64{{1, 2}, {3}})
		assert.ErrorIs(t, err, assign.ErrBadShape)
		_, _, err = solve([][]float64{{math.NaN(), 1}})
		assert.ErrorIs(t, err, assign.ErrBadShape)

		cols, total, err := solve(nil)
		assert.NoError(t, err)
		assert.Empty(t, cols)
		assert.Zero(t, total)
	}
}

func TestFeasible(t *testing.T) {
	assert.True(t, assign.Feasible(nil))
	assert.True(t, assign.Feasible([][]bool{
		{true, true, false},
		{true, false, false},
		{false, true, true},
	}))
	assert.False(t, assign.Feasible([][]bool{
		{true, false},
		{true, false},
	}))
	assert.False(t, assign.Feasible([][]bool{{true}, {true}}))
}
