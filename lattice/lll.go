// SPDX-License-Identifier: MIT
// Package: matterviz/lattice
//
// lll.go: LLL basis reduction.

package lattice

import "math"

// lllDelta is the Lovász constant.
const lllDelta = 0.75

// maxLLLSteps bounds the swap/size-reduce loop. Three-dimensional LLL
// terminates in a handful of steps for any physical cell.
const maxLLLSteps = 1000

// LLL returns the LLL-reduced basis of l together with the unimodular
// integer matrix T such that reduced = T·L.
//
// Algorithm: textbook LLL over the rows with δ = 0.75; Gram–Schmidt data is
// recomputed after every basis update (three vectors, so this stays O(1)).
//
// Errors: ErrSingular if the reduced basis cannot be inverted, which only
// happens for numerically degenerate inputs.
func (l Lattice) LLL() (Lattice, IntMat3, error) {
	var (
		b    = [3]Vec3{l.m.Row(0), l.m.Row(1), l.m.Row(2)}
		t    = IdentityInt()
		k    = 1
		step int
		j    int
		q    float64
		gs   [3]Vec3
		mu   [3][3]float64
	)

	gs, mu = gramSchmidt(b)
	for k < 3 && step < maxLLLSteps {
		step++

		// Size reduction of b[k] against b[k-1], …, b[0].
		for j = k - 1; j >= 0; j-- {
			q = math.Round(mu[k][j])
			if q == 0 {
				continue
			}
			b[k] = b[k].Sub(b[j].Scale(q))
			for c := 0; c < 3; c++ {
				t[k][c] -= int(q) * t[j][c]
			}
			gs, mu = gramSchmidt(b)
		}

		// Lovász condition.
		if gs[k].Norm2() >= (lllDelta-mu[k][k-1]*mu[k][k-1])*gs[k-1].Norm2() {
			k++
			continue
		}
		b[k], b[k-1] = b[k-1], b[k]
		t[k], t[k-1] = t[k-1], t[k]
		gs, mu = gramSchmidt(b)
		if k > 1 {
			k--
		}
	}

	red, err := New(Mat3{b[0], b[1], b[2]})
	if err != nil {
		return Lattice{}, IntMat3{}, err
	}

	return red, t, nil
}

// gramSchmidt returns the orthogonalised vectors b*ᵢ and coefficients
// μᵢⱼ = ⟨bᵢ, b*ⱼ⟩ / ⟨b*ⱼ, b*ⱼ⟩ for j < i.
func gramSchmidt(b [3]Vec3) ([3]Vec3, [3][3]float64) {
	var (
		gs [3]Vec3
		mu [3][3]float64
	)
	for i := 0; i < 3; i++ {
		gs[i] = b[i]
		for j := 0; j < i; j++ {
			n2 := gs[j].Norm2()
			if n2 == 0 {
				continue
			}
			mu[i][j] = b[i].Dot(gs[j]) / n2
			gs[i] = gs[i].Sub(gs[j].Scale(mu[i][j]))
		}
	}

	return gs, mu
}
