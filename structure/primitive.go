package structure

import (
	"fmt"
	"math"
	"sort"

	"github.com/janosh/matterviz-sub000/lattice"
)

// DefaultPrimitiveTol is the Cartesian tolerance (Å) for treating two sites
// as images of each other under a candidate self-translation.
const DefaultPrimitiveTol = 0.25

// Primitive returns the primitive cell of s, Niggli-reduced with tolerance
// niggliTol.
//
// Algorithm:
//  1. Anchor on the first site of the rarest species key.
//  2. Every vector from the anchor to a same-species site is a candidate
//     translation; keep those that map every site onto a same-species site
//     within tol.
//  3. With k−1 surviving translations the primitive cell has volume V/k.
//     Sort the translation vectors and a, b, c by length and take the first
//     triple spanning exactly that volume as the new basis.
//  4. Re-express the sites in that basis, drop images within tol of a kept
//     site, and reduce.
//
// When s is already primitive, is not fully periodic, or any step fails to
// produce a consistent cell, Primitive returns s.Reduced(niggliTol): the
// fallback never loses a site.
//
// Complexity: O(N²·T) for N sites and T candidate translations.
func (s Structure) Primitive(tol, niggliTol float64) (Structure, error) {
	if err := s.Validate(); err != nil {
		return Structure{}, fmt.Errorf("Primitive: %w", err)
	}
	if !s.PBC.All() || len(s.Sites) == 1 {
		return s.Reduced(niggliTol)
	}

	ws := s.Wrapped()
	trans := ws.selfTranslations(tol)
	k := len(trans) + 1
	if k == 1 || len(ws.Sites)%k != 0 {
		return s.Reduced(niggliTol)
	}

	prim, ok := ws.primitiveLattice(trans, k)
	if !ok {
		return s.Reduced(niggliTol)
	}
	out, ok := ws.foldInto(prim, tol, len(ws.Sites)/k)
	if !ok {
		return s.Reduced(niggliTol)
	}

	return out.Reduced(niggliTol)
}

// selfTranslations returns the non-zero fractional translations (wrapped to
// [0, 1)) that map every site of s onto a site of the same species.
func (s Structure) selfTranslations(tol float64) []lattice.Vec3 {
	var (
		cmp    = SpeciesComparator{}
		comp   = s.Composition(cmp)
		rarest string
		finder = s.Lattice.Images(s.PBC)
	)
	for _, key := range comp.Keys() {
		if rarest == "" || comp[key] < comp[rarest] {
			rarest = key
		}
	}

	anchor := -1
	for i, site := range s.Sites {
		if cmp.Key(site.Species()) == rarest {
			anchor = i
			break
		}
	}

	// Group site indices by species once.
	byKey := make(map[string][]int, len(comp))
	for i, site := range s.Sites {
		key := cmp.Key(site.Species())
		byKey[key] = append(byKey[key], i)
	}

	var out []lattice.Vec3
	for _, j := range byKey[rarest] {
		if j == anchor {
			continue
		}
		t := s.Sites[j].Frac.Sub(s.Sites[anchor].Frac).Wrap()
		if finder.Distance(lattice.Vec3{}, t) < tol {
			continue
		}
		if s.invariantUnder(t, tol, finder, byKey) {
			out = append(out, t)
		}
	}

	return out
}

// invariantUnder reports whether translating every site by t lands within
// tol of a same-species site.
func (s Structure) invariantUnder(t lattice.Vec3, tol float64, finder lattice.ImageFinder, byKey map[string][]int) bool {
	for _, site := range s.Sites {
		moved := site.Frac.Add(t)
		found := false
		for _, j := range byKey[SpeciesComparator{}.Key(site.Species())] {
			if finder.Distance(moved, s.Sites[j].Frac) < tol {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

// primitiveLattice picks three vectors from the translations and the
// current basis that span volume V/k.
func (s Structure) primitiveLattice(trans []lattice.Vec3, k int) (lattice.Lattice, bool) {
	finder := s.Lattice.Images(s.PBC)
	cands := make([]lattice.Vec3, 0, len(trans)+3)
	for _, t := range trans {
		cands = append(cands, finder.Shortest(lattice.Vec3{}, t))
	}
	for i := 0; i < 3; i++ {
		cands = append(cands, s.Lattice.Vector(i))
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].Norm2() < cands[j].Norm2() })

	target := s.Lattice.Volume() / float64(k)
	for i := 0; i < len(cands); i++ {
		for j := i + 1; j < len(cands); j++ {
			for l := j + 1; l < len(cands); l++ {
				m := lattice.Mat3{cands[i], cands[j], cands[l]}
				if math.Abs(math.Abs(m.Det())-target) > 1e-3*target {
					continue
				}
				if m.Det() < 0 {
					m[2] = cands[l].Scale(-1)
				}
				pl, err := lattice.New(m)
				if err != nil {
					continue
				}

				return pl, true
			}
		}
	}

	return lattice.Lattice{}, false
}

// foldInto re-expresses s in lattice p, keeps one site per image class and
// reports whether exactly want sites remain.
func (s Structure) foldInto(p lattice.Lattice, tol float64, want int) (Structure, bool) {
	out := Structure{Lattice: p, PBC: s.PBC, Sites: make([]Site, 0, want)}
	finder := p.Images(s.PBC)
	for _, site := range s.Sites {
		f := p.Fractional(s.Lattice.Cartesian(site.Frac)).Wrap()
		dup := false
		for _, kept := range out.Sites {
			if kept.Species() == site.Species() && finder.Distance(kept.Frac, f) < tol {
				dup = true
				break
			}
		}
		if !dup {
			out.Sites = append(out.Sites, site.withFrac(f))
		}
	}

	return out, len(out.Sites) == want
}
