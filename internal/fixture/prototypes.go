package fixture

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/janosh/matterviz-sub000/lattice"
	"github.com/janosh/matterviz-sub000/structure"
)

// Placed is one species at a fractional position.
type Placed struct {
	Species string
	Frac    lattice.Vec3
}

// Basis is the site list of a prototype cell.
type Basis []Placed

// Build places basis on l. It panics on malformed input: fixtures are
// static.
func Build(l lattice.Lattice, basis Basis) structure.Structure {
	sites := make([]structure.Site, len(basis))
	for i, b := range basis {
		sites[i] = structure.Atom(structure.MustParseSpecies(b.Species), b.Frac)
	}

	return structure.MustNew(l, sites)
}

// FCC returns the 4-site conventional face-centred cubic cell.
func FCC(el string, a float64) structure.Structure {
	return Build(lattice.Cubic(a), Basis{
		{el, lattice.Vec3{0, 0, 0}},
		{el, lattice.Vec3{0.5, 0.5, 0}},
		{el, lattice.Vec3{0.5, 0, 0.5}},
		{el, lattice.Vec3{0, 0.5, 0.5}},
	})
}

// FCCPrimitive returns the 1-site rhombohedral primitive cell of FCC.
func FCCPrimitive(el string, a float64) structure.Structure {
	h := a / 2
	l := lattice.MustNew(lattice.Mat3{{0, h, h}, {h, 0, h}, {h, h, 0}})

	return Build(l, Basis{{el, lattice.Vec3{}}})
}

// BCC returns the 2-site conventional body-centred cubic cell.
func BCC(el string, a float64) structure.Structure {
	return Build(lattice.Cubic(a), Basis{
		{el, lattice.Vec3{0, 0, 0}},
		{el, lattice.Vec3{0.5, 0.5, 0.5}},
	})
}

// HCP returns the 2-site hexagonal close-packed cell.
func HCP(el string, a, c float64) structure.Structure {
	l, err := lattice.FromParameters(a, a, c, 90, 90, 120)
	if err != nil {
		panic(err)
	}

	return Build(l, Basis{
		{el, lattice.Vec3{1.0 / 3, 2.0 / 3, 0.25}},
		{el, lattice.Vec3{2.0 / 3, 1.0 / 3, 0.75}},
	})
}

// RockSalt returns the 8-site conventional rocksalt cell.
func RockSalt(cation, anion string, a float64) structure.Structure {
	fcc := []lattice.Vec3{{0, 0, 0}, {0.5, 0.5, 0}, {0.5, 0, 0.5}, {0, 0.5, 0.5}}
	basis := make(Basis, 0, 8)
	for _, f := range fcc {
		basis = append(basis, Placed{cation, f})
	}
	for _, f := range fcc {
		basis = append(basis, Placed{anion, f.Add(lattice.Vec3{0.5, 0, 0}).Wrap()})
	}

	return Build(lattice.Cubic(a), basis)
}

// Diamond returns the 8-site conventional diamond cell.
func Diamond(el string, a float64) structure.Structure {
	fcc := []lattice.Vec3{{0, 0, 0}, {0.5, 0.5, 0}, {0.5, 0, 0.5}, {0, 0.5, 0.5}}
	basis := make(Basis, 0, 8)
	for _, f := range fcc {
		basis = append(basis,
			Placed{el, f},
			Placed{el, f.Add(lattice.Vec3{0.25, 0.25, 0.25})},
		)
	}

	return Build(lattice.Cubic(a), basis)
}

// Perovskite returns the 5-site cubic ABX3 cell.
func Perovskite(a, b, x string, edge float64) structure.Structure {
	return Build(lattice.Cubic(edge), Basis{
		{a, lattice.Vec3{0, 0, 0}},
		{b, lattice.Vec3{0.5, 0.5, 0.5}},
		{x, lattice.Vec3{0.5, 0.5, 0}},
		{x, lattice.Vec3{0.5, 0, 0.5}},
		{x, lattice.Vec3{0, 0.5, 0.5}},
	})
}

// Random returns a triclinic cell of n sites drawn round-robin from
// species, at roughly volPerAtom Å³ per site. Sites closer than 1 Å to an
// earlier site are redrawn so that the structure has no near-coincident
// atoms.
func Random(rng *rand.Rand, n int, species []string, volPerAtom float64) structure.Structure {
	if rng == nil {
		rng = RNG(0)
	}
	var l lattice.Lattice
	for {
		a, b, c := 1+rng.Float64(), 1+rng.Float64(), 1+rng.Float64()
		al, be, ga := 70+40*rng.Float64(), 70+40*rng.Float64(), 70+40*rng.Float64()
		cand, err := lattice.FromParameters(a, b, c, al, be, ga)
		if err != nil || cand.Volume() < 0.3*a*b*c {
			continue
		}
		if l, err = cand.Scaled(volPerAtom * float64(n)); err == nil {
			break
		}
	}

	finder := l.Images(lattice.Periodic)
	sites := make([]structure.Site, 0, n)
	for i := 0; i < n; i++ {
		sp := structure.MustParseSpecies(species[i%len(species)])
		for attempt := 0; ; attempt++ {
			f := lattice.Vec3{rng.Float64(), rng.Float64(), rng.Float64()}
			ok := true
			for _, s := range sites {
				if finder.Distance(s.Frac, f) < 1 {
					ok = false
					break
				}
			}
			if ok || attempt > 1000 {
				sites = append(sites, structure.Atom(sp, f))
				break
			}
		}
	}

	return structure.MustNew(l, sites)
}

// Shuffled returns s with its sites permuted by a permutation drawn from rng.
func Shuffled(s structure.Structure, rng *rand.Rand) structure.Structure {
	out, err := s.Permuted(Perm(s.Len(), rng))
	if err != nil {
		panic(fmt.Sprintf("fixture: Shuffled: %v", err))
	}

	return out
}

// Jittered returns s with every fractional coordinate displaced by a
// uniform value in [−amp, amp] per axis.
func Jittered(s structure.Structure, rng *rand.Rand, amp float64) structure.Structure {
	sites := make([]structure.Site, s.Len())
	for i, site := range s.Sites {
		d := lattice.Vec3{
			(2*rng.Float64() - 1) * amp,
			(2*rng.Float64() - 1) * amp,
			(2*rng.Float64() - 1) * amp,
		}
		sites[i] = structure.Atom(site.Species(), site.Frac.Add(d))
	}

	return structure.MustNew(s.Lattice, sites)
}

// RotatedZ returns s with its lattice rotated by deg degrees about z.
// Fractional coordinates are unchanged, so the crystal is the same.
func RotatedZ(s structure.Structure, deg float64) structure.Structure {
	r := deg * math.Pi / 180
	c, sn := math.Cos(r), math.Sin(r)
	rot := lattice.Mat3{{c, sn, 0}, {-sn, c, 0}, {0, 0, 1}}

	return s.WithLattice(lattice.MustNew(s.Lattice.Matrix().Mul(rot)))
}
