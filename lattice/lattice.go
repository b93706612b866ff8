// SPDX-License-Identifier: MIT
// Package: matterviz/lattice
//
// lattice.go: Lattice construction, parameters and conversions.

package lattice

import (
	"fmt"
	"math"
)

// Lattice is an immutable periodic basis. The zero value is not usable;
// construct one with New, Cubic or FromParameters.
type Lattice struct {
	m   Mat3 // rows are the lattice vectors
	inv Mat3 // m⁻¹, cached for Fractional
}

// Parameters holds the conventional cell description (Å, degrees).
type Parameters struct {
	A, B, C            float64
	Alpha, Beta, Gamma float64
}

// New validates m and returns the lattice whose rows are m's rows.
//
// Errors:
//   - ErrNaNInf if any entry is non-finite.
//   - ErrSingular if the three rows are (numerically) coplanar.
//
// Complexity: O(1).
func New(m Mat3) (Lattice, error) {
	inv, err := m.Inverse()
	if err != nil {
		return Lattice{}, err
	}

	return Lattice{m: m, inv: inv}, nil
}

// MustNew is New for static fixtures; it panics on invalid input.
func MustNew(m Mat3) Lattice {
	l, err := New(m)
	if err != nil {
		panic(fmt.Sprintf("lattice: MustNew: %v", err))
	}

	return l
}

// Cubic returns the simple cubic lattice with edge a.
func Cubic(a float64) Lattice {
	return MustNew(Mat3{{a, 0, 0}, {0, a, 0}, {0, 0, a}})
}

// FromParameters builds a lattice from (a, b, c, α, β, γ) in the standard
// orientation: c along z, a in the xz plane.
func FromParameters(a, b, c, alpha, beta, gamma float64) (Lattice, error) {
	ar, br, gr := alpha*math.Pi/180, beta*math.Pi/180, gamma*math.Pi/180
	cosA, cosB, cosG := math.Cos(ar), math.Cos(br), math.Cos(gr)
	sinA, sinB := math.Sin(ar), math.Sin(br)

	val := clampUnit((cosA*cosB - cosG) / (sinA * sinB))
	gammaStar := math.Acos(val)

	m := Mat3{
		{a * sinB, 0, a * cosB},
		{-b * sinA * math.Cos(gammaStar), b * sinA * math.Sin(gammaStar), b * cosA},
		{0, 0, c},
	}

	return New(m)
}

// Average returns the lattice whose parameters are the arithmetic mean of
// the parameters of l1 and l2. Orientation is the FromParameters standard.
func Average(l1, l2 Lattice) (Lattice, error) {
	p, q := l1.Parameters(), l2.Parameters()

	return FromParameters(
		(p.A+q.A)/2, (p.B+q.B)/2, (p.C+q.C)/2,
		(p.Alpha+q.Alpha)/2, (p.Beta+q.Beta)/2, (p.Gamma+q.Gamma)/2,
	)
}

// Matrix returns a copy of the basis matrix (rows are lattice vectors).
func (l Lattice) Matrix() Mat3 { return l.m }

// Inverse returns the cached inverse of the basis matrix.
func (l Lattice) Inverse() Mat3 { return l.inv }

// Vector returns lattice vector i (0, 1 or 2).
func (l Lattice) Vector(i int) Vec3 { return l.m.Row(i) }

// Det returns the signed determinant; negative for left-handed bases.
func (l Lattice) Det() float64 { return l.m.Det() }

// Volume returns the cell volume |det L|.
func (l Lattice) Volume() float64 { return math.Abs(l.m.Det()) }

// IsRightHanded reports whether det L > 0.
func (l Lattice) IsRightHanded() bool { return l.m.Det() > 0 }

// Metric returns the metric tensor G = L·Lᵀ.
func (l Lattice) Metric() Mat3 { return l.m.Mul(l.m.T()) }

// Abc returns the lengths of the three lattice vectors.
func (l Lattice) Abc() Vec3 {
	return Vec3{l.m.Row(0).Norm(), l.m.Row(1).Norm(), l.m.Row(2).Norm()}
}

// Angles returns (α, β, γ) in degrees: α = ∠(b, c), β = ∠(a, c), γ = ∠(a, b).
func (l Lattice) Angles() Vec3 {
	a, b, c := l.m.Row(0), l.m.Row(1), l.m.Row(2)

	return Vec3{AngleBetween(b, c), AngleBetween(a, c), AngleBetween(a, b)}
}

// Parameters returns (a, b, c, α, β, γ).
func (l Lattice) Parameters() Parameters {
	abc, ang := l.Abc(), l.Angles()

	return Parameters{A: abc[0], B: abc[1], C: abc[2], Alpha: ang[0], Beta: ang[1], Gamma: ang[2]}
}

// ReciprocalLengths returns |b*ᵢ| for the reciprocal basis without the 2π
// factor, i.e. the column norms of L⁻¹. The number of lattice planes of
// family i crossed by a segment of length r is at most r·|b*ᵢ|.
func (l Lattice) ReciprocalLengths() Vec3 {
	return Vec3{l.inv.Col(0).Norm(), l.inv.Col(1).Norm(), l.inv.Col(2).Norm()}
}

// Cartesian converts fractional f to Cartesian f·L.
func (l Lattice) Cartesian(f Vec3) Vec3 { return f.MulMat(l.m) }

// Fractional converts Cartesian c to fractional c·L⁻¹.
func (l Lattice) Fractional(c Vec3) Vec3 { return c.MulMat(l.inv) }

// ScaledBy returns the lattice with every vector multiplied by s (s ≠ 0).
func (l Lattice) ScaledBy(s float64) (Lattice, error) {
	if s == 0 || math.IsNaN(s) || math.IsInf(s, 0) {
		return Lattice{}, ErrSingular
	}

	return New(l.m.Scale(s))
}

// Scaled returns the isotropically scaled lattice enclosing volume v.
func (l Lattice) Scaled(v float64) (Lattice, error) {
	if !(v > 0) || math.IsInf(v, 0) {
		return Lattice{}, fmt.Errorf("Scaled: volume %v: %w", v, ErrSingular)
	}

	return l.ScaledBy(math.Cbrt(v / l.Volume()))
}

// Transformed returns the lattice with basis M·L, where M is an integer
// change of basis or supercell matrix.
func (l Lattice) Transformed(m IntMat3) (Lattice, error) {
	if m.Det() == 0 {
		return Lattice{}, ErrBadSupercell
	}

	return New(m.Float().Mul(l.m))
}

// Negated returns the lattice with basis −L. It spans the same points and
// flips the sign of the determinant.
func (l Lattice) Negated() Lattice {
	return Lattice{m: l.m.Scale(-1), inv: l.inv.Scale(-1)}
}

// AngleBetween returns the angle between u and v in degrees.
func AngleBetween(u, v Vec3) float64 {
	return math.Acos(clampUnit(u.Dot(v)/(u.Norm()*v.Norm()))) * 180 / math.Pi
}

// clampUnit confines x to [−1, 1] before acos.
func clampUnit(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}

	return x
}
