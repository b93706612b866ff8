package matcher

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/janosh/matterviz-sub000/assign"
	"github.com/janosh/matterviz-sub000/lattice"
	"github.com/janosh/matterviz-sub000/mapping"
	"github.com/janosh/matterviz-sub000/structure"
)

// exactRMS ends an RMS search early: nothing can beat a perfect overlay.
const exactRMS = 1e-5

// strict searches lattice mappings, translations and site assignments for
// the pair (s1, s2) with supercell multiplicity fu. When s1Super, s1 is
// expanded fu-fold; otherwise s2 is. After expansion both sides have the
// same number of sites.
func (m *Matcher) strict(s1, s2 structure.Structure, fu int, s1Super bool, md mode) (Result, bool) {
	var (
		sup, other = s1, s2
		rep1, rep2 = fu, 1
	)
	if !s1Super {
		sup, other = s2, s1
		rep1, rep2 = 1, fu
	}

	// Stage 1: species mask and translation anchors.
	sp1 := expandSpecies(s1, rep1)
	sp2 := expandSpecies(s2, rep2)
	allowed := speciesMask(sp2, sp1, m.opts.Comparator)
	if !assign.Feasible(allowed) {
		return Result{}, false
	}
	row, anchors := translationAnchors(allowed, rep1)
	if len(anchors) == 0 {
		return Result{}, false
	}

	seq, err := mapping.Supercells(sup.Lattice, other.Lattice, m.opts.mappingOptions(), fu)
	if err != nil {
		return Result{}, false
	}

	// Stage 2: every lattice mapping, every anchored translation.
	var (
		best  Result
		found bool
	)
	for mp := range seq {
		expanded, err := sup.Supercell(mp.Scale)
		if err != nil {
			continue
		}
		avg, err := lattice.Average(mp.Lattice, other.Lattice)
		if err != nil {
			continue
		}
		f1, f2 := expanded.FracCoords(), other.FracCoords()
		if !s1Super {
			f1, f2 = f2, f1
		}
		sc := m.newScorer(avg, f1, f2, allowed, md)

		for _, j := range anchors {
			t := f1[j].Sub(f2[row])
			res, ok := sc.try(t)
			if !ok {
				continue
			}
			if !found || res.RMS.RMS < best.RMS.RMS {
				res.Supercell = mp.Scale
				best, found = res, true
			}
			if md == modeFit || best.RMS.RMS < exactRMS {
				return best, true
			}
		}
	}

	return best, found
}

// expandSpecies lists the species of s with every site repeated rep times
// consecutively, the site order of Structure.Supercell.
func expandSpecies(s structure.Structure, rep int) []structure.Species {
	out := make([]structure.Species, 0, s.Len()*rep)
	for _, site := range s.Sites {
		for k := 0; k < rep; k++ {
			out = append(out, site.Species())
		}
	}

	return out
}

// speciesMask returns allowed[i][j] = rows[i] ≡ cols[j] under c.
func speciesMask(rows, cols []structure.Species, c structure.Comparator) [][]bool {
	out := make([][]bool, len(rows))
	for i, a := range rows {
		out[i] = make([]bool, len(cols))
		for j, b := range cols {
			out[i][j] = c.Equal(a, b)
		}
	}

	return out
}

// translationAnchors picks the row with the fewest compatible columns (the
// rarest species) and returns its compatible columns. When the columns are
// an fu-fold expansion only the first copy of each site is kept: the
// expanded structure is invariant under the original lattice translations,
// so the other copies give equivalent alignments.
func translationAnchors(allowed [][]bool, rep int) (int, []int) {
	if len(allowed) == 0 {
		return 0, nil
	}
	row, fewest := 0, math.MaxInt
	for i, r := range allowed {
		n := 0
		for _, ok := range r {
			if ok {
				n++
			}
		}
		if n < fewest {
			row, fewest = i, n
		}
	}

	var cols []int
	for j, ok := range allowed[row] {
		if ok && j%rep == 0 {
			cols = append(cols, j)
		}
	}

	return row, cols
}

// scorer evaluates translations for one lattice mapping.
type scorer struct {
	avg      lattice.Lattice
	images   lattice.ImageFinder
	f1, f2   []lattice.Vec3
	allowed  [][]bool
	fracTol  lattice.Vec3 // per-axis prefilter in the averaged basis
	lllTol   lattice.Vec3 // per-axis pair cutoff in the reduced basis
	spacing  float64      // (V/N)^(1/3) of the averaged lattice
	stol     float64
	strategy Assignment
	md       mode
}

func (m *Matcher) newScorer(avg lattice.Lattice, f1, f2 []lattice.Vec3, allowed [][]bool, md mode) scorer {
	sc := scorer{
		avg:      avg,
		images:   avg.Images(lattice.Periodic),
		f1:       f1,
		f2:       f2,
		allowed:  allowed,
		spacing:  math.Cbrt(avg.Volume() / float64(len(f1))),
		stol:     m.opts.STol,
		strategy: m.opts.Assignment,
		md:       md,
	}
	k := 2 * sc.stol * sc.spacing
	sc.fracTol = avg.ReciprocalLengths().Scale(k)
	sc.lllTol = sc.images.Lattice().ReciprocalLengths().Scale(k)

	return sc
}

// try scores translation t (applied to f2) and reports whether the
// resulting correspondence is accepted.
func (sc scorer) try(t lattice.Vec3) (Result, bool) {
	moved := make([]lattice.Vec3, len(sc.f2))
	for i, f := range sc.f2 {
		moved[i] = f.Add(t)
	}
	if !sc.coordSubset(moved) {
		return Result{}, false
	}

	// Shortest vectors from moved f2 sites to f1 sites; +Inf where the
	// pair is forbidden or clearly too far apart.
	var (
		n    = len(moved)
		vecs = make([][]lattice.Vec3, n)
		cost = make([][]float64, n)
	)
	for i, f := range moved {
		vecs[i] = make([]lattice.Vec3, len(sc.f1))
		cost[i] = make([]float64, len(sc.f1))
		for j, g := range sc.f1 {
			if !sc.allowed[i][j] || !sc.images.Within(f, g, sc.lllTol) {
				cost[i][j] = math.Inf(1)
				continue
			}
			v := sc.images.Shortest(f, g)
			vecs[i][j], cost[i][j] = v, v.Norm2()
		}
	}

	solvers := []assign.Solver{assign.Optimal}
	switch {
	case sc.strategy == AssignGreedy:
		solvers = []assign.Solver{assign.Greedy}
	case sc.strategy == AssignHungarian:
		solvers = []assign.Solver{assign.Hungarian}
	case sc.md == modeFit:
		solvers = []assign.Solver{assign.Greedy, assign.Optimal}
	}
	for _, solve := range solvers {
		cols, _, err := solve(cost)
		if errors.Is(err, assign.ErrInfeasible) {
			continue
		}
		if err != nil {
			return Result{}, false
		}
		if res, ok := sc.score(t, vecs, cols); ok {
			return res, true
		}
	}

	return Result{}, false
}

// coordSubset reports whether every moved site has a compatible f1 site
// within fracTol on every axis of the averaged basis.
func (sc scorer) coordSubset(moved []lattice.Vec3) bool {
	for i, f := range moved {
		hit := false
		for j, g := range sc.f1 {
			if !sc.allowed[i][j] {
				continue
			}
			d := g.Sub(f)
			if math.Abs(d[0]-math.Round(d[0])) <= sc.fracTol[0] &&
				math.Abs(d[1]-math.Round(d[1])) <= sc.fracTol[1] &&
				math.Abs(d[2]-math.Round(d[2])) <= sc.fracTol[2] {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}

	return true
}

// score removes the mean displacement of the assignment cols and measures
// the rest in units of the site spacing.
func (sc scorer) score(t lattice.Vec3, vecs [][]lattice.Vec3, cols []int) (Result, bool) {
	var (
		n     = len(cols)
		short = make([]lattice.Vec3, n)
		mean  lattice.Vec3
		dist  = make([]float64, n)
	)
	for i, j := range cols {
		short[i] = vecs[i][j]
		mean = mean.Add(short[i])
	}
	mean = mean.Scale(1 / float64(n))
	for i := range short {
		dist[i] = short[i].Sub(mean).Norm() / sc.spacing
	}

	maxD := floats.Max(dist)
	if !(maxD < sc.stol) {
		return Result{}, false
	}

	total := t.Add(sc.avg.Fractional(mean)).WrapCentered()

	return Result{
		RMS:         RMS{RMS: math.Sqrt(floats.Dot(dist, dist) / float64(n)), Max: maxD},
		Translation: total,
		Mapping:     append([]int(nil), cols...),
	}, true
}
