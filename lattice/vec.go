// SPDX-License-Identifier: MIT
// Package: matterviz/lattice
//
// vec.go: Vec3, Mat3 and IntMat3 value types.

package lattice

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Vec3 is a row vector, fractional or Cartesian depending on context.
type Vec3 [3]float64

// Add returns v + w.
func (v Vec3) Add(w Vec3) Vec3 { return Vec3{v[0] + w[0], v[1] + w[1], v[2] + w[2]} }

// Sub returns v − w.
func (v Vec3) Sub(w Vec3) Vec3 { return Vec3{v[0] - w[0], v[1] - w[1], v[2] - w[2]} }

// Scale returns s·v.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v[0] * s, v[1] * s, v[2] * s} }

// Dot returns the inner product v·w.
func (v Vec3) Dot(w Vec3) float64 { return v[0]*w[0] + v[1]*w[1] + v[2]*w[2] }

// Norm2 returns |v|².
func (v Vec3) Norm2() float64 { return v.Dot(v) }

// Norm returns |v|.
func (v Vec3) Norm() float64 { return math.Sqrt(v.Dot(v)) }

// Cross returns v × w.
func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		v[1]*w[2] - v[2]*w[1],
		v[2]*w[0] - v[0]*w[2],
		v[0]*w[1] - v[1]*w[0],
	}
}

// Round returns v with every component rounded half away from zero.
func (v Vec3) Round() Vec3 {
	return Vec3{math.Round(v[0]), math.Round(v[1]), math.Round(v[2])}
}

// Wrap maps every component into [0, 1).
func (v Vec3) Wrap() Vec3 {
	var out Vec3
	for i := 0; i < 3; i++ {
		out[i] = wrapUnit(v[i])
	}

	return out
}

// WrapCentered maps every component into [−0.5, 0.5). Rounding in
// x + 0.5 can land just outside the interval; such results are folded back.
func (v Vec3) WrapCentered() Vec3 {
	var out Vec3
	for i := 0; i < 3; i++ {
		x := v[i] - math.Floor(v[i]+0.5)
		switch {
		case x < -0.5:
			x++
		case x >= 0.5:
			x--
		}
		out[i] = x
	}

	return out
}

// IsFinite reports whether no component is NaN or ±Inf.
func (v Vec3) IsFinite() bool {
	for i := 0; i < 3; i++ {
		if math.IsNaN(v[i]) || math.IsInf(v[i], 0) {
			return false
		}
	}

	return true
}

// MulMat returns the row-vector product v·m.
func (v Vec3) MulMat(m Mat3) Vec3 {
	return Vec3{
		v[0]*m[0][0] + v[1]*m[1][0] + v[2]*m[2][0],
		v[0]*m[0][1] + v[1]*m[1][1] + v[2]*m[2][1],
		v[0]*m[0][2] + v[1]*m[1][2] + v[2]*m[2][2],
	}
}

// wrapUnit maps x into [0, 1). x − floor(x) can round up to exactly 1 for
// tiny negative x; that case folds back to 0.
func wrapUnit(x float64) float64 {
	y := x - math.Floor(x)
	if y >= 1 {
		return 0
	}

	return y
}

// Mat3 is a 3×3 real matrix stored row-major.
type Mat3 [3][3]float64

// Identity returns the 3×3 identity matrix.
func Identity() Mat3 { return Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}} }

// Row returns row i as a vector.
func (m Mat3) Row(i int) Vec3 { return Vec3(m[i]) }

// Col returns column j as a vector.
func (m Mat3) Col(j int) Vec3 { return Vec3{m[0][j], m[1][j], m[2][j]} }

// Mul returns the matrix product m·n.
func (m Mat3) Mul(n Mat3) Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		out[i] = [3]float64(Vec3(m[i]).MulMat(n))
	}

	return out
}

// T returns the transpose of m.
func (m Mat3) T() Mat3 {
	return Mat3{
		{m[0][0], m[1][0], m[2][0]},
		{m[0][1], m[1][1], m[2][1]},
		{m[0][2], m[1][2], m[2][2]},
	}
}

// Scale returns s·m.
func (m Mat3) Scale(s float64) Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		out[i] = [3]float64(Vec3(m[i]).Scale(s))
	}

	return out
}

// Det returns the determinant by cofactor expansion.
func (m Mat3) Det() float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// IsFinite reports whether no entry is NaN or ±Inf.
func (m Mat3) IsFinite() bool {
	for i := 0; i < 3; i++ {
		if !Vec3(m[i]).IsFinite() {
			return false
		}
	}

	return true
}

// Inverse returns m⁻¹ computed with gonum's LU-based inverse.
//
// Errors:
//   - ErrNaNInf if m has a non-finite entry.
//   - ErrSingular if m is singular or too ill-conditioned to invert.
func (m Mat3) Inverse() (Mat3, error) {
	if !m.IsFinite() {
		return Mat3{}, ErrNaNInf
	}
	a := mat.NewDense(3, 3, m.flat())
	if mat.Det(a) == 0 {
		return Mat3{}, ErrSingular
	}

	var inv mat.Dense
	if err := inv.Inverse(a); err != nil {
		return Mat3{}, fmt.Errorf("Inverse: %v: %w", err, ErrSingular)
	}

	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = inv.At(i, j)
		}
	}

	return out, nil
}

// flat returns the row-major backing slice gonum expects.
func (m Mat3) flat() []float64 {
	return []float64{
		m[0][0], m[0][1], m[0][2],
		m[1][0], m[1][1], m[1][2],
		m[2][0], m[2][1], m[2][2],
	}
}

// IntMat3 is a 3×3 integer matrix, used for basis changes and supercells.
type IntMat3 [3][3]int

// IdentityInt returns the 3×3 integer identity.
func IdentityInt() IntMat3 { return IntMat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}} }

// Diag returns diag(a, b, c).
func Diag(a, b, c int) IntMat3 { return IntMat3{{a, 0, 0}, {0, b, 0}, {0, 0, c}} }

// Det returns the integer determinant.
func (m IntMat3) Det() int {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// Mul returns the integer product m·n.
func (m IntMat3) Mul(n IntMat3) IntMat3 {
	var out IntMat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[i][0]*n[0][j] + m[i][1]*n[1][j] + m[i][2]*n[2][j]
		}
	}

	return out
}

// T returns the transpose of m.
func (m IntMat3) T() IntMat3 {
	return IntMat3{
		{m[0][0], m[1][0], m[2][0]},
		{m[0][1], m[1][1], m[2][1]},
		{m[0][2], m[1][2], m[2][2]},
	}
}

// Neg returns −m.
func (m IntMat3) Neg() IntMat3 {
	var out IntMat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = -m[i][j]
		}
	}

	return out
}

// Float converts m to a real matrix.
func (m IntMat3) Float() Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = float64(m[i][j])
		}
	}

	return out
}
