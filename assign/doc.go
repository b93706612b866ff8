// Package assign solves the site-correspondence step of structure matching:
// given an n×m cost matrix (n ≤ m) of squared displacements between the
// sites of two structures, pick one distinct column per row.
//
// Two solvers are provided:
//
//   - Greedy walks the rows in index order and gives each the cheapest
//     column not yet taken; ties go to the lowest column index. O(n·m).
//     When two structures truly match, every site has a unique nearest
//     partner under the site tolerance and Greedy finds the optimum.
//   - Hungarian returns a minimum-total-cost assignment (Kuhn–Munkres with
//     row/column potentials, shortest augmenting paths). O(n²·m).
//
// Forbidden pairs (different species) are +Inf. A row with no finite
// column, or a matrix without a finite complete assignment, yields
// ErrInfeasible. Feasible answers the same question on a boolean mask
// without costs.
package assign
