// SPDX-License-Identifier: MIT
// Package: matterviz/assign
//
// assign.go: Greedy, Hungarian, Optimal and Feasible.

package assign

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Solver is the signature shared by Greedy, Hungarian and Optimal: the chosen
// column per row and the total cost.
type Solver func(cost [][]float64) ([]int, float64, error)

// shape validates cost and returns (rows, cols).
func shape(cost [][]float64) (int, int, error) {
	n := len(cost)
	if n == 0 {
		return 0, 0, nil
	}
	m := len(cost[0])
	if n > m {
		return 0, 0, fmt.Errorf("%d rows > %d columns: %w", n, m, ErrBadShape)
	}
	for i, row := range cost {
		if len(row) != m {
			return 0, 0, fmt.Errorf("row %d has %d entries, want %d: %w", i, len(row), m, ErrBadShape)
		}
		if floats.HasNaN(row) {
			return 0, 0, fmt.Errorf("row %d: NaN: %w", i, ErrBadShape)
		}
	}

	return n, m, nil
}

// Greedy gives each row, in index order, its cheapest free column.
// Ties are broken by the lowest column index.
//
// Errors: ErrBadShape, or ErrInfeasible when a row finds no finite free
// column. Greedy may report ErrInfeasible on matrices that Hungarian can
// still assign.
//
// Complexity: O(n·m).
func Greedy(cost [][]float64) ([]int, float64, error) {
	n, m, err := shape(cost)
	if err != nil {
		return nil, 0, fmt.Errorf("Greedy: %w", err)
	}

	var (
		out   = make([]int, n)
		taken = make([]bool, m)
		total float64
	)
	for i := 0; i < n; i++ {
		best, bestD := -1, math.Inf(1)
		for j := 0; j < m; j++ {
			if !taken[j] && cost[i][j] < bestD {
				best, bestD = j, cost[i][j]
			}
		}
		if best < 0 {
			return nil, 0, fmt.Errorf("Greedy: row %d: %w", i, ErrInfeasible)
		}
		taken[best] = true
		out[i] = best
		total += bestD
	}

	return out, total, nil
}

// Hungarian returns an assignment of minimum total cost.
//
// Algorithm: rows are inserted one at a time; each insertion grows a
// shortest augmenting path over reduced costs cost[i][j] − u[i] − v[j] ≥ 0
// and then flips it. Row potentials start at the row minima.
//
// Errors: ErrBadShape, or ErrInfeasible when every complete assignment
// uses a +Inf entry.
//
// Complexity: O(n²·m) time, O(m) extra space per row.
func Hungarian(cost [][]float64) ([]int, float64, error) {
	n, m, err := shape(cost)
	if err != nil {
		return nil, 0, fmt.Errorf("Hungarian: %w", err)
	}
	if n == 0 {
		return nil, 0, nil
	}

	// 1-based: column 0 and p[0] are the virtual root of each search.
	var (
		u    = make([]float64, n+1)
		v    = make([]float64, m+1)
		p    = make([]int, m+1) // p[j]: row assigned to column j
		way  = make([]int, m+1)
		minv = make([]float64, m+1)
		used = make([]bool, m+1)
	)
	for i := 1; i <= n; i++ {
		u[i] = floats.Min(cost[i-1])
		if math.IsInf(u[i], 1) {
			return nil, 0, fmt.Errorf("Hungarian: row %d: %w", i-1, ErrInfeasible)
		}
	}

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		for j := range minv {
			minv[j] = math.Inf(1)
			used[j] = false
		}

		// Stage 1: grow the alternating tree until a free column is reached.
		for {
			used[j0] = true
			i0, delta, j1 := p[j0], math.Inf(1), 0
			for j := 1; j <= m; j++ {
				if used[j] {
					continue
				}
				if cur := cost[i0-1][j-1] - u[i0] - v[j]; cur < minv[j] {
					minv[j], way[j] = cur, j0
				}
				if minv[j] < delta {
					delta, j1 = minv[j], j
				}
			}
			if math.IsInf(delta, 1) {
				return nil, 0, fmt.Errorf("Hungarian: row %d: %w", i-1, ErrInfeasible)
			}
			for j := 0; j <= m; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}

		// Stage 2: flip the augmenting path.
		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	out := make([]int, n)
	var total float64
	for j := 1; j <= m; j++ {
		if p[j] != 0 {
			out[p[j]-1] = j - 1
			total += cost[p[j]-1][j-1]
		}
	}

	return out, total, nil
}

// Optimal returns a minimum-cost assignment like Hungarian, but skips
// the O(n²·m) search when Greedy already attains the sum of row minima,
// a lower bound on every assignment.
//
// Errors: as Hungarian.
func Optimal(cost [][]float64) ([]int, float64, error) {
	n, _, err := shape(cost)
	if err != nil {
		return nil, 0, fmt.Errorf("Optimal: %w", err)
	}
	if n == 0 {
		return nil, 0, nil
	}

	var bound float64
	for _, row := range cost {
		bound += floats.Min(row)
	}
	if cols, total, err := Greedy(cost); err == nil && total <= bound {
		return cols, total, nil
	}

	return Hungarian(cost)
}

// Feasible reports whether every row of allowed can be matched to a
// distinct allowed column (Kuhn's augmenting paths, O(n·E)).
func Feasible(allowed [][]bool) bool {
	if len(allowed) == 0 {
		return true
	}
	m := len(allowed[0])
	if len(allowed) > m {
		return false
	}
	owner := make([]int, m)
	for j := range owner {
		owner[j] = -1
	}

	var try func(i int, seen []bool) bool
	try = func(i int, seen []bool) bool {
		for j, ok := range allowed[i] {
			if !ok || seen[j] {
				continue
			}
			seen[j] = true
			if owner[j] < 0 || try(owner[j], seen) {
				owner[j] = i

				return true
			}
		}

		return false
	}

	for i := range allowed {
		if len(allowed[i]) != m || !try(i, make([]bool, m)) {
			return false
		}
	}

	return true
}
