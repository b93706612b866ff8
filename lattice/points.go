// SPDX-License-Identifier: MIT
// Package: matterviz/lattice
//
// points.go: lattice points inside a sphere.

package lattice

import (
	"math"
	"sort"
)

// Point is one lattice point n·L returned by PointsInSphere.
type Point struct {
	Coeffs [3]int // integer coordinates n
	Cart   Vec3   // Cartesian position n·L
	Dist   float64
}

// PointsInSphere returns every non-zero lattice point within distance r of
// the origin, sorted by distance; ties keep the lexicographic order of the
// integer coefficients.
//
// The search box is bounded per axis: |nᵢ| ≤ ⌈r·|b*ᵢ| + 0.01⌉. A needle or
// pancake cell therefore gets a long box only along the axis that needs it.
//
// Complexity: O(∏ᵢ (2nᵢ+1)) time and output size.
func (l Lattice) PointsInSphere(r float64) []Point {
	if !(r > 0) {
		return nil
	}
	var (
		rec = l.ReciprocalLengths()
		n   [3]int
		i   int
	)
	for i = 0; i < 3; i++ {
		n[i] = int(math.Ceil(r*rec[i] + 0.01))
	}

	var (
		out      []Point
		r2       = r * r
		a, b, c  int
		cart     Vec3
		dist2    float64
		rowA     = l.m.Row(0)
		rowB     = l.m.Row(1)
		rowC     = l.m.Row(2)
		partialA Vec3
		partialB Vec3
	)
	for a = -n[0]; a <= n[0]; a++ {
		partialA = rowA.Scale(float64(a))
		for b = -n[1]; b <= n[1]; b++ {
			partialB = partialA.Add(rowB.Scale(float64(b)))
			for c = -n[2]; c <= n[2]; c++ {
				if a == 0 && b == 0 && c == 0 {
					continue
				}
				cart = partialB.Add(rowC.Scale(float64(c)))
				dist2 = cart.Norm2()
				if dist2 > r2 {
					continue
				}
				out = append(out, Point{Coeffs: [3]int{a, b, c}, Cart: cart, Dist: math.Sqrt(dist2)})
			}
		}
	}

	sort.SliceStable(out, func(x, y int) bool { return out[x].Dist < out[y].Dist })

	return out
}

// SupercellPoints returns the fractional coordinates (in the supercell
// basis M·L) of the |det M| lattice points of L that fall inside the
// supercell, each in [0, 1)³.
//
// Errors: ErrBadSupercell if det M = 0.
func SupercellPoints(m IntMat3) ([]Vec3, error) {
	det := m.Det()
	if det == 0 {
		return nil, ErrBadSupercell
	}
	inv, err := m.Float().Inverse()
	if err != nil {
		return nil, ErrBadSupercell
	}

	// Bounding box of the supercell corners in the original basis.
	var lo, hi, corner [3]int
	for mask := 0; mask < 8; mask++ {
		for k := 0; k < 3; k++ {
			corner[k] = 0
		}
		for r := 0; r < 3; r++ {
			if mask&(1<<r) == 0 {
				continue
			}
			for k := 0; k < 3; k++ {
				corner[k] += m[r][k]
			}
		}
		for k := 0; k < 3; k++ {
			lo[k] = min(lo[k], corner[k])
			hi[k] = max(hi[k], corner[k])
		}
	}

	const eps = 1e-10
	want := det
	if want < 0 {
		want = -want
	}
	out := make([]Vec3, 0, want)
	var a, b, c int
	for a = lo[0]; a <= hi[0]; a++ {
		for b = lo[1]; b <= hi[1]; b++ {
			for c = lo[2]; c <= hi[2]; c++ {
				f := Vec3{float64(a), float64(b), float64(c)}.MulMat(inv)
				if !inUnitCell(f, eps) {
					continue
				}
				for k := 0; k < 3; k++ {
					if math.Abs(f[k]) < eps {
						f[k] = 0
					}
				}
				out = append(out, f)
			}
		}
	}
	if len(out) != want {
		return nil, ErrBadSupercell
	}

	return out, nil
}

// inUnitCell reports whether every component of f is in [−eps, 1−eps).
func inUnitCell(f Vec3, eps float64) bool {
	for k := 0; k < 3; k++ {
		if f[k] < -eps || f[k] >= 1-eps {
			return false
		}
	}

	return true
}
