package matcher

import (
	"fmt"

	"github.com/janosh/matterviz-sub000/lattice"
	"github.com/janosh/matterviz-sub000/structure"
)

// Matcher compares structures under one immutable Options value.
type Matcher struct {
	opts Options
}

// New validates opts and returns a Matcher.
//
// Errors: ErrInvalidOptions.
func New(opts Options) (*Matcher, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("New: %w", err)
	}

	return &Matcher{opts: opts}, nil
}

// Must is New for static configuration; it panics on invalid options.
func Must(opts Options) *Matcher {
	m, err := New(opts)
	if err != nil {
		panic(err)
	}

	return m
}

// Options returns the matcher's configuration.
func (m *Matcher) Options() Options { return m.opts }

// RMS holds the scores of an accepted alignment, both in units of the mean
// site spacing.
type RMS struct {
	RMS float64 // root mean square displacement
	Max float64 // largest single-site displacement
}

// Result is an accepted alignment of two prepared structures.
//
// The search runs on a canonically ordered pair (first, second); Swapped
// reports whether first is the b argument. Supercell is the integer matrix
// applied to the expanded side's reduced lattice, Translation the
// fractional shift (in [−0.5, 0.5)) carrying second onto first, and
// Mapping[i] the index in first's (possibly expanded) site list matched to
// site i of second.
type Result struct {
	RMS
	Supercell   lattice.IntMat3
	Translation lattice.Vec3
	Mapping     []int
	Swapped     bool
}

// Prepared is a structure normalized for matching: wrapped, reduced,
// optionally primitive, and sorted. Prepare once and compare many times.
type Prepared struct {
	s   structure.Structure
	key string
}

// Structure returns the normalized structure.
func (p Prepared) Structure() structure.Structure { return p.s }

// Key returns the reduced composition key under the matcher's comparator.
// Prepared structures with different keys never match.
func (p Prepared) Key() string { return p.key }

// Prepare validates and normalizes s.
//
// Errors: structure.ErrInvalidStructure, structure.ErrEmpty,
// structure.ErrUnsupportedDisorder, structure.ErrBadSpecies and
// lattice.ErrReductionFailed, each wrapped.
func (m *Matcher) Prepare(s structure.Structure) (Prepared, error) {
	if err := s.Validate(); err != nil {
		return Prepared{}, fmt.Errorf("Prepare: %w", err)
	}

	red, err := s.Wrapped().Reduced(m.opts.NiggliTol)
	if err != nil {
		return Prepared{}, fmt.Errorf("Prepare: %w", err)
	}
	if m.opts.PrimitiveCell {
		if red, err = red.Primitive(m.opts.PrimitiveTol, m.opts.NiggliTol); err != nil {
			return Prepared{}, fmt.Errorf("Prepare: %w", err)
		}
	}
	red = red.Sorted(m.opts.Comparator)

	return Prepared{s: red, key: red.CompositionKey(m.opts.Comparator)}, nil
}

// prepare2 prepares both structures of a pair.
func (m *Matcher) prepare2(a, b structure.Structure) (Prepared, Prepared, error) {
	pa, err := m.Prepare(a)
	if err != nil {
		return Prepared{}, Prepared{}, err
	}
	pb, err := m.Prepare(b)
	if err != nil {
		return Prepared{}, Prepared{}, err
	}

	return pa, pb, nil
}

// Fit reports whether a and b are the same structure.
//
// Errors: invalid or disordered input, or a failed reduction (see
// Prepare). A mismatch is not an error.
func (m *Matcher) Fit(a, b structure.Structure) (bool, error) {
	pa, pb, err := m.prepare2(a, b)
	if err != nil {
		return false, fmt.Errorf("Fit: %w", err)
	}

	return m.FitPrepared(pa, pb), nil
}

// FitPrepared is Fit on structures already normalized by Prepare.
func (m *Matcher) FitPrepared(a, b Prepared) bool {
	_, ok := m.pair(a, b, modeFit)

	return ok
}

// RMSDist returns the normalized RMS and maximum displacement of the best
// accepted alignment. ok is false exactly when Fit would report false.
func (m *Matcher) RMSDist(a, b structure.Structure) (RMS, bool, error) {
	pa, pb, err := m.prepare2(a, b)
	if err != nil {
		return RMS{}, false, fmt.Errorf("RMSDist: %w", err)
	}
	res, ok := m.pair(pa, pb, modeRMS)

	return res.RMS, ok, nil
}

// Match returns the best accepted alignment of a and b with its
// transformation.
func (m *Matcher) Match(a, b structure.Structure) (Result, bool, error) {
	pa, pb, err := m.prepare2(a, b)
	if err != nil {
		return Result{}, false, fmt.Errorf("Match: %w", err)
	}
	res, ok := m.pair(pa, pb, modeRMS)

	return res, ok, nil
}
