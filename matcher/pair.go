package matcher

import (
	"cmp"
	"math"

	"github.com/janosh/matterviz-sub000/structure"
)

// mode selects what the strict search optimizes.
type mode int

const (
	modeFit mode = iota // stop at the first accepted candidate
	modeRMS             // keep the smallest RMS, stop early on an exact match
)

// pair runs steps 2–6 of the pipeline on two prepared structures.
func (m *Matcher) pair(a, b Prepared, md mode) (Result, bool) {
	if a.key != b.key {
		return Result{}, false
	}
	swapped := compareStructures(a.s, b.s) > 0
	if swapped {
		a, b = b, a
	}
	s1, s2 := a.s, b.s

	fu, s1Super, ok := m.supercellSize(s1.Len(), s2.Len())
	if !ok {
		return Result{}, false
	}

	if m.opts.Scale {
		mult := float64(fu)
		if !s1Super {
			mult = 1 / float64(fu)
		}
		ratio := math.Pow(s2.Volume()/(s1.Volume()*mult), 1.0/6)
		l1, err := s1.Lattice.ScaledBy(ratio)
		if err != nil {
			return Result{}, false
		}
		l2, err := s2.Lattice.ScaledBy(1 / ratio)
		if err != nil {
			return Result{}, false
		}
		s1, s2 = s1.WithLattice(l1), s2.WithLattice(l2)
	}

	res, ok := m.strict(s1, s2, fu, s1Super, md)
	res.Swapped = swapped

	return res, ok
}

// supercellSize returns the supercell multiplicity fu, whether the first
// structure is the one expanded, and whether the site counts are
// compatible at all. Without AttemptSupercell the counts must be equal.
func (m *Matcher) supercellSize(n1, n2 int) (int, bool, bool) {
	if !m.opts.AttemptSupercell {
		return 1, true, n1 == n2
	}
	r := float64(n2) / float64(n1)
	if r < 2.0/3 {
		fu := int(math.Round(1 / r))

		return fu, false, n2*fu == n1
	}
	fu := int(math.Round(r))

	return fu, true, fu >= 1 && n1*fu == n2
}

// compareStructures is a total order on prepared structures: site count,
// volume, lattice matrix, then sites. Identical structures compare equal.
func compareStructures(a, b structure.Structure) int {
	if c := cmp.Compare(a.Len(), b.Len()); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Volume(), b.Volume()); c != 0 {
		return c
	}
	ma, mb := a.Lattice.Matrix(), b.Lattice.Matrix()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if c := cmp.Compare(ma[i][j], mb[i][j]); c != 0 {
				return c
			}
		}
	}
	for i := range a.Sites {
		sa, sb := a.Sites[i], b.Sites[i]
		if c := cmp.Compare(sa.Species().String(), sb.Species().String()); c != 0 {
			return c
		}
		for k := 0; k < 3; k++ {
			if c := cmp.Compare(sa.Frac[k], sb.Frac[k]); c != 0 {
				return c
			}
		}
	}

	return 0
}
