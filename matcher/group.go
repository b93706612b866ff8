package matcher

import (
	"fmt"
	"slices"

	"github.com/janosh/matterviz-sub000/structure"
)

// Group partitions xs into classes of matching structures.
//
// Structures are bucketed by reduced composition key; within a bucket they
// are scanned in input order and each joins the first group whose
// representative (its first member) it fits, or opens a new group. Groups
// are returned ordered by their first index, members ascending.
//
// Errors: the first invalid input, wrapped with its index.
//
// Complexity: O(N·G) fits for N structures and G groups per bucket.
func (m *Matcher) Group(xs []structure.Structure) ([][]int, error) {
	prepared := make([]Prepared, len(xs))
	for i, s := range xs {
		p, err := m.Prepare(s)
		if err != nil {
			return nil, fmt.Errorf("Group: structure %d: %w", i, err)
		}
		prepared[i] = p
	}

	var groups [][]int
	for _, bucket := range Buckets(prepared) {
		groups = append(groups, m.GroupBucket(prepared, bucket)...)
	}
	SortGroups(groups)

	return groups, nil
}

// Buckets splits indices of ps by composition key, in order of first
// appearance. Structures in different buckets never match.
func Buckets(ps []Prepared) [][]int {
	var (
		order []string
		byKey = make(map[string][]int)
	)
	for i, p := range ps {
		if _, ok := byKey[p.key]; !ok {
			order = append(order, p.key)
		}
		byKey[p.key] = append(byKey[p.key], i)
	}
	out := make([][]int, len(order))
	for i, k := range order {
		out[i] = byKey[k]
	}

	return out
}

// GroupBucket runs the sequential representative scan over the indices of
// one bucket.
func (m *Matcher) GroupBucket(ps []Prepared, bucket []int) [][]int {
	var groups [][]int
	for _, i := range bucket {
		placed := false
		for g := range groups {
			if m.FitPrepared(ps[groups[g][0]], ps[i]) {
				groups[g] = append(groups[g], i)
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, []int{i})
		}
	}

	return groups
}

// SortGroups orders groups by their first member.
func SortGroups(groups [][]int) {
	slices.SortFunc(groups, func(a, b []int) int { return a[0] - b[0] })
}
