package mapping

import (
	"fmt"
	"iter"
	"math"

	"github.com/janosh/matterviz-sub000/lattice"
)

// Options bounds the mapping search.
type Options struct {
	LTol     float64 // fractional length tolerance; ratio interval is (1/(1+LTol), 1+LTol)
	AngleTol float64 // angle tolerance in degrees
}

// DefaultOptions returns LTol 0.2 and AngleTol 5°.
func DefaultOptions() Options { return Options{LTol: 0.2, AngleTol: 5} }

// Validate checks that both tolerances are finite and positive.
func (o Options) Validate() error {
	if !(o.LTol > 0) || math.IsInf(o.LTol, 0) {
		return fmt.Errorf("LTol=%v: %w", o.LTol, ErrBadTolerance)
	}
	if !(o.AngleTol > 0) || math.IsInf(o.AngleTol, 0) {
		return fmt.Errorf("AngleTol=%v: %w", o.AngleTol, ErrBadTolerance)
	}

	return nil
}

// WithinRatio reports whether ratio lies strictly inside
// (1/(1+ltol), 1+ltol). Both endpoints are excluded.
func WithinRatio(ratio, ltol float64) bool {
	return ratio < 1+ltol && ratio > 1/(1+ltol)
}

// Mapping is one candidate: Lattice = Scale·source, with the lengths and
// angles of the target.
type Mapping struct {
	Lattice lattice.Lattice
	Scale   lattice.IntMat3
}

// All enumerates every mapping of source onto target. The returned
// sequence is safe to range over more than once.
//
// Errors: ErrBadTolerance if opts is invalid.
//
// Complexity: O(P) to collect P points in the sphere, then
// O(|A|·|B|·|C|) candidate checks in the worst case.
func All(source, target lattice.Lattice, opts Options) (iter.Seq[Mapping], error) {
	return Supercells(source, target, opts, 0)
}

// Supercells is All restricted to mappings with |det Scale| = size. A size
// of 0 disables the restriction.
func Supercells(source, target lattice.Lattice, opts Options, size int) (iter.Seq[Mapping], error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if size < 0 {
		return nil, fmt.Errorf("Supercells: size %d: %w", size, ErrBadTolerance)
	}
	c := newCandidates(source, target, opts)

	return func(yield func(Mapping) bool) { c.each(size, yield) }, nil
}

// candidates holds the per-axis point lists and pairwise angle tables.
type candidates struct {
	axis  [3][]lattice.Point // points whose length suits target axis i
	alpha [][]bool           // ∠(b, c) ok, indexed [j][k]
	beta  [][]bool           // ∠(a, c) ok, indexed [i][k]
	gamma [][]bool           // ∠(a, b) ok, indexed [i][j]
}

func newCandidates(source, target lattice.Lattice, opts Options) candidates {
	var (
		c       candidates
		lengths = target.Abc()
		angles  = target.Angles()
		maxLen  = math.Max(lengths[0], math.Max(lengths[1], lengths[2]))
		pts     = source.PointsInSphere(maxLen * (1 + opts.LTol))
	)

	// Stage 1: length filter per target axis.
	for i := 0; i < 3; i++ {
		for _, p := range pts {
			if WithinRatio(p.Dist/lengths[i], opts.LTol) {
				c.axis[i] = append(c.axis[i], p)
			}
		}
	}

	// Stage 2: pairwise angle tables.
	c.alpha = angleTable(c.axis[1], c.axis[2], angles[0], opts.AngleTol)
	c.beta = angleTable(c.axis[0], c.axis[2], angles[1], opts.AngleTol)
	c.gamma = angleTable(c.axis[0], c.axis[1], angles[2], opts.AngleTol)

	return c
}

// angleTable marks the pairs (u, v) whose angle is within tol of want.
func angleTable(us, vs []lattice.Point, want, tol float64) [][]bool {
	out := make([][]bool, len(us))
	for i, u := range us {
		out[i] = make([]bool, len(vs))
		for j, v := range vs {
			out[i][j] = math.Abs(lattice.AngleBetween(u.Cart, v.Cart)-want) < tol
		}
	}

	return out
}

// each yields every admissible (a, b, c) triple in index order.
func (c candidates) each(size int, yield func(Mapping) bool) {
	for i, a := range c.axis[0] {
		for j, b := range c.axis[1] {
			if !c.gamma[i][j] {
				continue
			}
			for k, cc := range c.axis[2] {
				if !c.alpha[j][k] || !c.beta[i][k] {
					continue
				}
				scale := lattice.IntMat3{a.Coeffs, b.Coeffs, cc.Coeffs}
				det := scale.Det()
				if det == 0 {
					continue
				}
				if size > 0 && det != size && det != -size {
					continue
				}
				l, err := lattice.New(lattice.Mat3{a.Cart, b.Cart, cc.Cart})
				if err != nil {
					continue
				}
				if !yield(Mapping{Lattice: l, Scale: scale}) {
					return
				}
			}
		}
	}
}
