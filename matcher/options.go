package matcher

import (
	"fmt"
	"math"
	"strings"

	"github.com/janosh/matterviz-sub000/lattice"
	"github.com/janosh/matterviz-sub000/mapping"
	"github.com/janosh/matterviz-sub000/structure"
)

// Assignment selects the site-assignment solver.
type Assignment int

const (
	// AssignAuto tries the greedy solver first and falls back to an optimal
	// one when the greedy correspondence is rejected. RMS scoring uses
	// assign.Optimal, which runs Hungarian only when Greedy is not provably
	// optimal.
	AssignAuto Assignment = iota
	// AssignGreedy uses only the greedy nearest-site solver.
	AssignGreedy
	// AssignHungarian uses only the optimal solver.
	AssignHungarian
)

// String returns "auto", "greedy" or "hungarian".
func (a Assignment) String() string {
	switch a {
	case AssignAuto:
		return "auto"
	case AssignGreedy:
		return "greedy"
	case AssignHungarian:
		return "hungarian"
	default:
		return fmt.Sprintf("Assignment(%d)", int(a))
	}
}

// ParseAssignment is the inverse of Assignment.String (case-insensitive).
func ParseAssignment(s string) (Assignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto", "":
		return AssignAuto, nil
	case "greedy":
		return AssignGreedy, nil
	case "hungarian":
		return AssignHungarian, nil
	default:
		return 0, fmt.Errorf("ParseAssignment(%q): %w", s, ErrInvalidOptions)
	}
}

// Options configures a Matcher. Obtain defaults with DefaultOptions and
// override fields; New validates the result.
type Options struct {
	LTol     float64 // fractional lattice length tolerance
	STol     float64 // site tolerance, fraction of the mean site spacing
	AngleTol float64 // lattice angle tolerance, degrees

	Scale            bool                 // volume-normalize before matching
	Comparator       structure.Comparator // site equivalence; nil means species
	PrimitiveCell    bool                 // reduce both inputs to primitive cells
	AttemptSupercell bool                 // allow integer supercell relationships
	Assignment       Assignment

	PrimitiveTol float64 // Å, self-translation tolerance for PrimitiveCell
	NiggliTol    float64 // Niggli comparison tolerance
}

// DefaultOptions returns the reference defaults: LTol 0.2, STol 0.3,
// AngleTol 5°, Scale on, species comparator, no primitive reduction, no
// supercells, automatic assignment.
func DefaultOptions() Options {
	return Options{
		LTol:         0.2,
		STol:         0.3,
		AngleTol:     5,
		Scale:        true,
		Comparator:   structure.SpeciesComparator{},
		Assignment:   AssignAuto,
		PrimitiveTol: structure.DefaultPrimitiveTol,
		NiggliTol:    lattice.DefaultNiggliTol,
	}
}

// Validate checks every field and fills a nil Comparator with the species
// comparator.
//
// Errors: ErrInvalidOptions wrapping the offending field.
func (o *Options) Validate() error {
	positive := func(name string, v float64) error {
		if !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("%s=%v must be positive and finite: %w", name, v, ErrInvalidOptions)
		}

		return nil
	}
	if err := positive("LTol", o.LTol); err != nil {
		return err
	}
	if err := positive("STol", o.STol); err != nil {
		return err
	}
	if err := positive("AngleTol", o.AngleTol); err != nil {
		return err
	}
	if o.PrimitiveCell {
		if err := positive("PrimitiveTol", o.PrimitiveTol); err != nil {
			return err
		}
	}
	if o.NiggliTol < 0 || math.IsNaN(o.NiggliTol) || math.IsInf(o.NiggliTol, 0) {
		return fmt.Errorf("NiggliTol=%v: %w", o.NiggliTol, ErrInvalidOptions)
	}
	if o.Assignment < AssignAuto || o.Assignment > AssignHungarian {
		return fmt.Errorf("Assignment=%v: %w", o.Assignment, ErrInvalidOptions)
	}
	if o.Comparator == nil {
		o.Comparator = structure.SpeciesComparator{}
	}

	return nil
}

// mappingOptions projects the lattice tolerances.
func (o Options) mappingOptions() mapping.Options {
	return mapping.Options{LTol: o.LTol, AngleTol: o.AngleTol}
}
