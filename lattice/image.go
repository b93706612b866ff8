// SPDX-License-Identifier: MIT
// Package: matterviz/lattice
//
// image.go: minimum-image search under periodic boundaries.

package lattice

import "math"

// PBC flags periodicity per axis.
type PBC [3]bool

// Periodic is the fully periodic default.
var Periodic = PBC{true, true, true}

// All reports whether every axis is periodic.
func (p PBC) All() bool { return p[0] && p[1] && p[2] }

// ImageFinder answers minimum-image queries for one lattice. Build it once
// per lattice with Images and reuse it; it is read-only and safe for
// concurrent use.
//
// For fully periodic lattices the search runs in the LLL-reduced basis.
// The ±1 neighbour shell is scanned first; if the best candidate is long
// enough that a farther image could still be shorter (|nᵢ| ≤ r·|b*ᵢ| + ½),
// the box is widened to that bound. The result is therefore exact for any
// cell shape, not only for well-reduced ones.
type ImageFinder struct {
	basis Lattice // search basis (LLL-reduced when fully periodic)
	toRed Mat3    // fractional change of basis: f_red = f·toRed
	pbc   PBC
	rec   Vec3   // reciprocal lengths of basis
	shell []Vec3 // Cartesian offsets of the ±1 shell on periodic axes
}

// Images prepares minimum-image queries on l with periodicity pbc.
func (l Lattice) Images(pbc PBC) ImageFinder {
	f := ImageFinder{basis: l, toRed: Identity(), pbc: pbc}
	if pbc.All() {
		if red, t, err := l.LLL(); err == nil {
			// cart = f·L = f·T⁻¹·(T·L)  ⇒  f_red = f·T⁻¹
			if inv, err := t.Float().Inverse(); err == nil {
				f.basis, f.toRed = red, inv
			}
		}
	}
	f.rec = f.basis.ReciprocalLengths()
	f.shell = f.offsets([3]int{1, 1, 1})

	return f
}

// Lattice returns the lattice queries are answered for, in its search basis.
func (f ImageFinder) Lattice() Lattice { return f.basis }

// Shortest returns the shortest Cartesian vector from fractional point
// `from` to any periodic image of fractional point `to`.
func (f ImageFinder) Shortest(from, to Vec3) Vec3 {
	d := f.reduced(to.Sub(from))
	base := f.basis.Cartesian(d)

	best, bestN2 := base, base.Norm2()
	for _, off := range f.shell {
		if v := base.Add(off); v.Norm2() < bestN2 {
			best, bestN2 = v, v.Norm2()
		}
	}

	// Widen the box when the ±1 shell cannot be proven sufficient.
	r := math.Sqrt(bestN2)
	var n [3]int
	wide := false
	for i := 0; i < 3; i++ {
		if !f.pbc[i] {
			continue
		}
		n[i] = int(math.Floor(r*f.rec[i] + 0.5 + 1e-9))
		if n[i] > 1 {
			wide = true
		}
	}
	if wide {
		for _, off := range f.offsets(n) {
			if v := base.Add(off); v.Norm2() < bestN2 {
				best, bestN2 = v, v.Norm2()
			}
		}
	}

	return best
}

// Distance returns |Shortest(from, to)|.
func (f ImageFinder) Distance(from, to Vec3) float64 { return f.Shortest(from, to).Norm() }

// Within reports whether the centred fractional difference to − from,
// expressed in the search basis, is at most tol on every periodic axis and
// the raw difference is at most tol on non-periodic ones.
func (f ImageFinder) Within(from, to, tol Vec3) bool {
	d := f.reduced(to.Sub(from))
	for i := 0; i < 3; i++ {
		if math.Abs(d[i]) > tol[i] {
			return false
		}
	}

	return true
}

// reduced converts a fractional difference into the search basis and
// centres its periodic components in [−0.5, 0.5).
func (f ImageFinder) reduced(d Vec3) Vec3 {
	d = d.MulMat(f.toRed)
	for i := 0; i < 3; i++ {
		if f.pbc[i] {
			d[i] -= math.Floor(d[i] + 0.5)
		}
	}

	return d
}

// offsets returns the Cartesian offsets of every non-zero integer vector
// with |nᵢ| ≤ bound[i] on periodic axes (0 elsewhere).
func (f ImageFinder) offsets(bound [3]int) []Vec3 {
	var n [3]int
	for i := 0; i < 3; i++ {
		if f.pbc[i] {
			n[i] = bound[i]
		}
	}
	out := make([]Vec3, 0, (2*n[0]+1)*(2*n[1]+1)*(2*n[2]+1))
	for a := -n[0]; a <= n[0]; a++ {
		for b := -n[1]; b <= n[1]; b++ {
			for c := -n[2]; c <= n[2]; c++ {
				if a == 0 && b == 0 && c == 0 {
					continue
				}
				out = append(out, f.basis.Cartesian(Vec3{float64(a), float64(b), float64(c)}))
			}
		}
	}

	return out
}

// MinimumImage returns the shortest Cartesian displacement from fractional
// point a to fractional point b in l under pbc. For repeated queries on one
// lattice build an ImageFinder with Images instead.
func MinimumImage(l Lattice, a, b Vec3, pbc PBC) Vec3 {
	return l.Images(pbc).Shortest(a, b)
}
