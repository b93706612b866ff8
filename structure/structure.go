package structure

import (
	"fmt"
	"math"
	"sort"

	"github.com/janosh/matterviz-sub000/lattice"
)

// occupancyTol is how far an occupancy may stray from 1 and still count as
// fully ordered.
const occupancyTol = 1e-8

// Occupant is one species on a site with its fractional occupancy.
type Occupant struct {
	Species   Species
	Occupancy float64
}

// Site is a fractional position and its occupants. Only single-occupant,
// fully occupied sites pass Validate.
type Site struct {
	Occupants []Occupant
	Frac      lattice.Vec3
	Label     string
}

// Atom returns the ordered site of species sp at fractional position f.
func Atom(sp Species, f lattice.Vec3) Site {
	return Site{Occupants: []Occupant{{Species: sp, Occupancy: 1}}, Frac: f}
}

// NewSite returns a site with the given occupants; it is validated with the
// structure that holds it.
func NewSite(occ []Occupant, f lattice.Vec3) Site {
	return Site{Occupants: append([]Occupant(nil), occ...), Frac: f}
}

// Species returns the site's species. For a site that has not passed
// Validate it returns the first occupant, or the zero Species.
func (s Site) Species() Species {
	if len(s.Occupants) == 0 {
		return Species{}
	}

	return s.Occupants[0].Species
}

// IsOrdered reports whether the site has one occupant with occupancy 1.
func (s Site) IsOrdered() bool {
	return len(s.Occupants) == 1 && math.Abs(s.Occupants[0].Occupancy-1) <= occupancyTol
}

// withFrac returns a copy of s at fractional position f.
func (s Site) withFrac(f lattice.Vec3) Site {
	s.Frac = f

	return s
}

// Structure is a periodic arrangement of sites. Construct with New or
// NewWithPBC; literal values must pass Validate before use.
type Structure struct {
	Lattice lattice.Lattice
	PBC     lattice.PBC
	Sites   []Site
}

// New returns a fully periodic structure after validating it.
func New(l lattice.Lattice, sites []Site) (Structure, error) {
	return NewWithPBC(l, lattice.Periodic, sites)
}

// NewWithPBC returns a structure with explicit periodicity after
// validating it. The site slice is copied.
func NewWithPBC(l lattice.Lattice, pbc lattice.PBC, sites []Site) (Structure, error) {
	s := Structure{Lattice: l, PBC: pbc, Sites: append([]Site(nil), sites...)}
	if err := s.Validate(); err != nil {
		return Structure{}, err
	}

	return s, nil
}

// MustNew is New for fixtures; it panics on invalid input.
func MustNew(l lattice.Lattice, sites []Site) Structure {
	s, err := New(l, sites)
	if err != nil {
		panic(fmt.Sprintf("structure: MustNew: %v", err))
	}

	return s
}

// Validate checks the structure at the boundary of the matcher.
//
// Errors:
//   - ErrEmpty if there are no sites.
//   - ErrInvalidStructure for a non-finite or degenerate lattice, or a
//     non-finite coordinate.
//   - ErrUnsupportedDisorder for a site that is not fully ordered.
//   - ErrBadSpecies for a malformed element symbol.
func (s Structure) Validate() error {
	m := s.Lattice.Matrix()
	if !m.IsFinite() || !(s.Lattice.Volume() > 0) || math.IsInf(s.Lattice.Volume(), 0) {
		return fmt.Errorf("Validate: lattice: %w", ErrInvalidStructure)
	}
	if len(s.Sites) == 0 {
		return ErrEmpty
	}
	for i, site := range s.Sites {
		if !site.Frac.IsFinite() {
			return fmt.Errorf("Validate: site %d: coordinates %v: %w", i, site.Frac, ErrInvalidStructure)
		}
		if !site.IsOrdered() {
			return fmt.Errorf("Validate: site %d: %w", i, ErrUnsupportedDisorder)
		}
		if !site.Species().valid() {
			return fmt.Errorf("Validate: site %d: %q: %w", i, site.Species().Element, ErrBadSpecies)
		}
	}

	return nil
}

// Len returns the number of sites.
func (s Structure) Len() int { return len(s.Sites) }

// Volume returns the cell volume.
func (s Structure) Volume() float64 { return s.Lattice.Volume() }

// SpeciesList returns the species of every site in order.
func (s Structure) SpeciesList() []Species {
	out := make([]Species, len(s.Sites))
	for i, site := range s.Sites {
		out[i] = site.Species()
	}

	return out
}

// FracCoords returns the fractional coordinates of every site in order.
func (s Structure) FracCoords() []lattice.Vec3 {
	out := make([]lattice.Vec3, len(s.Sites))
	for i, site := range s.Sites {
		out[i] = site.Frac
	}

	return out
}

// CartesianCoords returns the Cartesian coordinates of every site in order.
func (s Structure) CartesianCoords() []lattice.Vec3 {
	out := make([]lattice.Vec3, len(s.Sites))
	for i, site := range s.Sites {
		out[i] = s.Lattice.Cartesian(site.Frac)
	}

	return out
}

// clone copies the site slice so the result can be modified in place.
func (s Structure) clone() Structure {
	s.Sites = append([]Site(nil), s.Sites...)

	return s
}

// wrap folds the periodic components of f into [0, 1).
func (s Structure) wrap(f lattice.Vec3) lattice.Vec3 {
	w := f.Wrap()
	for i := 0; i < 3; i++ {
		if !s.PBC[i] {
			w[i] = f[i]
		}
	}

	return w
}

// Wrapped returns s with every periodic fractional coordinate in [0, 1).
func (s Structure) Wrapped() Structure {
	out := s.clone()
	for i := range out.Sites {
		out.Sites[i] = out.Sites[i].withFrac(s.wrap(out.Sites[i].Frac))
	}

	return out
}

// Sorted returns s with sites ordered by (cmp key, x, y, z). The sort is
// stable, so exactly coincident sites keep their input order.
func (s Structure) Sorted(cmp Comparator) Structure {
	out := s.clone()
	keys := make(map[Species]string)
	key := func(sp Species) string {
		k, ok := keys[sp]
		if !ok {
			k = cmp.Key(sp)
			keys[sp] = k
		}

		return k
	}
	sort.SliceStable(out.Sites, func(i, j int) bool {
		a, b := out.Sites[i], out.Sites[j]
		if ka, kb := key(a.Species()), key(b.Species()); ka != kb {
			return ka < kb
		}
		for k := 0; k < 3; k++ {
			if a.Frac[k] != b.Frac[k] {
				return a.Frac[k] < b.Frac[k]
			}
		}

		return false
	})

	return out
}

// Translated returns s with every site shifted by fractional vector t and
// wrapped back into the cell.
func (s Structure) Translated(t lattice.Vec3) Structure {
	out := s.clone()
	for i := range out.Sites {
		out.Sites[i] = out.Sites[i].withFrac(s.wrap(out.Sites[i].Frac.Add(t)))
	}

	return out
}

// Permuted returns the structure whose site i is s's site perm[i].
//
// Errors: ErrBadPermutation unless perm is a permutation of 0..Len()-1.
func (s Structure) Permuted(perm []int) (Structure, error) {
	if len(perm) != len(s.Sites) {
		return Structure{}, fmt.Errorf("Permuted: %d indices for %d sites: %w", len(perm), len(s.Sites), ErrBadPermutation)
	}
	seen := make([]bool, len(perm))
	out := s.clone()
	for i, p := range perm {
		if p < 0 || p >= len(perm) || seen[p] {
			return Structure{}, fmt.Errorf("Permuted: index %d: %w", p, ErrBadPermutation)
		}
		seen[p] = true
		out.Sites[i] = s.Sites[p]
	}

	return out, nil
}

// Supercell returns the structure on lattice M·L with every site replicated
// over the |det M| lattice points of M. Site j's k-th copy lands at index
// j·|det M| + k.
//
// Errors: lattice.ErrBadSupercell if det M = 0.
func (s Structure) Supercell(m lattice.IntMat3) (Structure, error) {
	sc, err := s.Lattice.Transformed(m)
	if err != nil {
		return Structure{}, fmt.Errorf("Supercell: %w", err)
	}
	pts, err := lattice.SupercellPoints(m)
	if err != nil {
		return Structure{}, fmt.Errorf("Supercell: %w", err)
	}
	minv, err := m.Float().Inverse()
	if err != nil {
		return Structure{}, fmt.Errorf("Supercell: %w", err)
	}

	out := Structure{Lattice: sc, PBC: s.PBC, Sites: make([]Site, 0, len(s.Sites)*len(pts))}
	for _, site := range s.Sites {
		base := site.Frac.MulMat(minv)
		for _, p := range pts {
			out.Sites = append(out.Sites, site.withFrac(out.wrap(base.Add(p))))
		}
	}

	return out, nil
}

// Scaled returns s on its lattice isotropically scaled to volume v, with
// fractional coordinates unchanged.
func (s Structure) Scaled(v float64) (Structure, error) {
	l, err := s.Lattice.Scaled(v)
	if err != nil {
		return Structure{}, fmt.Errorf("Scaled: %w", err)
	}

	return s.WithLattice(l), nil
}

// WithLattice returns s with its lattice replaced and fractional
// coordinates kept.
func (s Structure) WithLattice(l lattice.Lattice) Structure {
	out := s.clone()
	out.Lattice = l

	return out
}

// Reduced returns s on its Niggli-reduced lattice with Cartesian positions
// preserved and fractional coordinates wrapped. Structures that are not
// periodic on every axis are only wrapped: a change of basis would mix
// periodic and open axes.
//
// Errors: lattice.ErrReductionFailed from the Niggli step.
func (s Structure) Reduced(tol float64) (Structure, error) {
	if !s.PBC.All() {
		return s.Wrapped(), nil
	}
	red, _, err := s.Lattice.Niggli(tol)
	if err != nil {
		return Structure{}, fmt.Errorf("Reduced: %w", err)
	}

	return s.rebased(red), nil
}

// rebased re-expresses every site in lattice l (same Cartesian positions)
// and wraps the result.
func (s Structure) rebased(l lattice.Lattice) Structure {
	out := s.clone()
	out.Lattice = l
	for i, site := range s.Sites {
		out.Sites[i] = site.withFrac(out.wrap(l.Fractional(s.Lattice.Cartesian(site.Frac))))
	}

	return out
}
