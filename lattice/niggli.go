// SPDX-License-Identifier: MIT
// Package: matterviz/lattice
//
// niggli.go: Niggli reduction on top of LLL.

package lattice

import (
	"fmt"
	"math"
)

// DefaultNiggliTol is the relative tolerance of the Niggli comparisons;
// the absolute epsilon is DefaultNiggliTol·V^(1/3).
const DefaultNiggliTol = 1e-5

// maxNiggliSteps bounds the Křivý–Gruber loop.
var maxNiggliSteps = 300

// Niggli returns the Niggli-reduced basis of l and the unimodular integer
// matrix T with reduced = T·L.
//
// Implementation:
//   - Stage 1: LLL-reduce first; the Křivý–Gruber steps are far more stable
//     on a nearly orthogonal start.
//   - Stage 2: run steps A1–A8 on the metric tensor G while accumulating the
//     integer transform P (G' = Pᵀ·G·P, basis' = Pᵀ·basis).
//   - Stage 3: flip to a right-handed basis if needed (−L spans the same
//     points).
//
// Termination:
//   - Every visited transform is remembered; revisiting one means the steps
//     are cycling on a tolerance boundary, and the shortest basis seen so far
//     is returned.
//   - Exhausting maxNiggliSteps without convergence or a cycle returns
//     ErrReductionFailed.
//
// The result preserves |det| exactly (unimodular T) and is idempotent:
// reducing a reduced basis returns it unchanged up to rounding.
func (l Lattice) Niggli(tol float64) (Lattice, IntMat3, error) {
	if tol <= 0 {
		tol = DefaultNiggliTol
	}
	lll, t0, err := l.LLL()
	if err != nil {
		return Lattice{}, IntMat3{}, err
	}

	var (
		w    = newNiggliWalk(lll.Metric(), tol*math.Cbrt(l.Volume()))
		e    = w.e
		done bool
	)
	for step := 0; step < maxNiggliSteps; step++ {
		A, B, C := w.g[0][0], w.g[1][1], w.g[2][2]
		E, N, Y := 2*w.g[1][2], 2*w.g[0][2], 2*w.g[0][1]

		// A1
		if B+e < A || (math.Abs(A-B) < e && math.Abs(E) > math.Abs(N)+e) {
			if w.apply(IntMat3{{0, -1, 0}, {-1, 0, 0}, {0, 0, -1}}) {
				done = w.rewind()
				break
			}
			A, B, C = w.g[0][0], w.g[1][1], w.g[2][2]
			E, N, Y = 2*w.g[1][2], 2*w.g[0][2], 2*w.g[0][1]
		}

		// A2
		if C+e < B || (math.Abs(B-C) < e && math.Abs(N) > math.Abs(Y)+e) {
			if w.apply(IntMat3{{-1, 0, 0}, {0, 0, -1}, {0, -1, 0}}) {
				done = w.rewind()
				break
			}
			continue
		}

		sl, sm, sn := signTol(E, e), signTol(N, e), signTol(Y, e)
		switch sl * sm * sn {
		case 1:
			// A3
			if w.apply(Diag(nonNeg(sl), nonNeg(sm), nonNeg(sn))) {
				done = w.rewind()
			}
		default:
			// A4 (product 0 or −1)
			i, j, k := 1, 1, 1
			if sl == 1 {
				i = -1
			}
			if sm == 1 {
				j = -1
			}
			if sn == 1 {
				k = -1
			}
			if i*j*k == -1 {
				switch {
				case sn == 0:
					k = -1
				case sm == 0:
					j = -1
				case sl == 0:
					i = -1
				}
			}
			if w.apply(Diag(i, j, k)) {
				done = w.rewind()
			}
		}
		if done {
			break
		}

		A, B = w.g[0][0], w.g[1][1]
		E, N, Y = 2*w.g[1][2], 2*w.g[0][2], 2*w.g[0][1]

		var (
			m     IntMat3
			moved bool
		)
		switch {
		// A5
		case math.Abs(E) > B+e || (math.Abs(E-B) < e && 2*N < Y-e) || (math.Abs(E+B) < e && Y < -e):
			m, moved = IntMat3{{1, 0, 0}, {0, 1, -sign(E)}, {0, 0, 1}}, true
		// A6
		case math.Abs(N) > A+e || (math.Abs(A-N) < e && 2*E < Y-e) || (math.Abs(A+N) < e && Y < -e):
			m, moved = IntMat3{{1, 0, -sign(N)}, {0, 1, 0}, {0, 0, 1}}, true
		// A7
		case math.Abs(Y) > A+e || (math.Abs(A-Y) < e && 2*E < N-e) || (math.Abs(A+Y) < e && N < -e):
			m, moved = IntMat3{{1, -sign(Y), 0}, {0, 1, 0}, {0, 0, 1}}, true
		// A8
		case E+N+Y+A+B < -e || (math.Abs(E+N+Y+A+B) < e && e < Y+(A+N)*2):
			m, moved = IntMat3{{1, 0, 1}, {0, 1, 1}, {0, 0, 1}}, true
		}
		if !moved {
			done = true
			break
		}
		if w.apply(m) {
			done = w.rewind()
			break
		}
	}
	if !done {
		return Lattice{}, IntMat3{}, fmt.Errorf("Niggli: %d steps: %w", maxNiggliSteps, ErrReductionFailed)
	}

	// basis' = Pᵀ·(T0·L)
	t := w.p.T().Mul(t0)
	red, err := l.Transformed(t)
	if err != nil {
		return Lattice{}, IntMat3{}, err
	}
	if red.Det() < 0 {
		t = t.Neg()
		red = red.Negated()
	}

	return red, t, nil
}

// niggliWalk carries the metric tensor G and the accumulated integer
// transform P through the reduction steps, remembering every visited P and
// the one with the smallest trace.
type niggliWalk struct {
	g    Mat3
	p    IntMat3
	e    float64
	seen map[IntMat3]struct{}
	best IntMat3
	bTr  float64
}

func newNiggliWalk(g Mat3, e float64) *niggliWalk {
	p := IdentityInt()

	return &niggliWalk{g: g, p: p, e: e, seen: map[IntMat3]struct{}{p: {}}, best: p, bTr: trace(g)}
}

// apply performs G ← Mᵀ·G·M and P ← P·M, and reports whether the
// resulting transform was already visited. Identity steps are no-ops.
func (w *niggliWalk) apply(m IntMat3) bool {
	if m == IdentityInt() {
		return false
	}
	mf := m.Float()
	w.g = mf.T().Mul(w.g).Mul(mf)
	w.p = w.p.Mul(m)
	if tr := trace(w.g); tr < w.bTr-w.e {
		w.best, w.bTr = w.p, tr
	}
	if _, ok := w.seen[w.p]; ok {
		return true
	}
	w.seen[w.p] = struct{}{}

	return false
}

// rewind falls back to the shortest basis seen and reports true; it is the
// exit taken when the steps start cycling.
func (w *niggliWalk) rewind() bool {
	w.p = w.best

	return true
}

// trace returns G₀₀ + G₁₁ + G₂₂, i.e. a² + b² + c².
func trace(g Mat3) float64 { return g[0][0] + g[1][1] + g[2][2] }

// signTol returns the sign of x, or 0 when |x| < e.
func signTol(x, e float64) int {
	if math.Abs(x) < e {
		return 0
	}

	return sign(x)
}

// sign returns ±1 for non-zero x and 0 for x == 0.
func sign(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}

	return 0
}

// nonNeg maps −1 to −1 and everything else to +1.
func nonNeg(s int) int {
	if s == -1 {
		return -1
	}

	return 1
}
