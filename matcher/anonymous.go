package matcher

import (
	"fmt"
	"slices"

	"github.com/janosh/matterviz-sub000/structure"
)

// FitAnonymous reports whether a and b match after some one-to-one
// relabelling of b's species onto a's (e.g. NaCl and MgO both fit the
// rocksalt pattern). Only relabellings that preserve reduced amounts are
// tried, in lexicographic order of b's species keys.
func (m *Matcher) FitAnonymous(a, b structure.Structure) (bool, error) {
	pa, pb, err := m.prepare2(a, b)
	if err != nil {
		return false, fmt.Errorf("FitAnonymous: %w", err)
	}

	ca := pa.s.Composition(m.opts.Comparator)
	cb := pb.s.Composition(m.opts.Comparator)
	if !slices.Equal(ca.Signature(), cb.Signature()) {
		return false, nil
	}
	ra, _ := ca.Reduced()
	rb, _ := cb.Reduced()
	ka, kb := ca.Keys(), cb.Keys()

	// Representative species of every key of a.
	rep := make(map[string]structure.Species, len(ka))
	for _, site := range pa.s.Sites {
		k := m.opts.Comparator.Key(site.Species())
		if _, ok := rep[k]; !ok {
			rep[k] = site.Species()
		}
	}

	var (
		used  = make([]bool, len(ka))
		relab = make(map[string]structure.Species, len(kb))
		found bool
	)
	var rec func(i int)
	rec = func(i int) {
		if found {
			return
		}
		if i == len(kb) {
			pr := m.relabel(pb, relab)
			found = m.FitPrepared(pa, pr)

			return
		}
		for j, k := range ka {
			if used[j] || ra[k] != rb[kb[i]] {
				continue
			}
			used[j] = true
			relab[kb[i]] = rep[k]
			rec(i + 1)
			used[j] = false
		}
	}
	rec(0)

	return found, nil
}

// relabel replaces every species of p by relab[key] and re-prepares the
// ordering and key.
func (m *Matcher) relabel(p Prepared, relab map[string]structure.Species) Prepared {
	s := p.s.WithLattice(p.s.Lattice)
	for i, site := range s.Sites {
		sp := relab[m.opts.Comparator.Key(site.Species())]
		s.Sites[i] = structure.Atom(sp, site.Frac)
	}
	s = s.Sorted(m.opts.Comparator)

	return Prepared{s: s, key: s.CompositionKey(m.opts.Comparator)}
}
