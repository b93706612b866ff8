package structure

import "fmt"

// Comparator decides when two species occupy equivalent sites. Key must be
// consistent with Equal: Equal(a, b) ⇔ Key(a) == Key(b).
type Comparator interface {
	Equal(a, b Species) bool
	Key(s Species) string
	Name() string
}

// SpeciesComparator compares element and oxidation state.
type SpeciesComparator struct{}

// Equal reports whether a and b have the same element and oxidation state.
func (SpeciesComparator) Equal(a, b Species) bool { return a == b }

// Key returns the species string, e.g. "Fe2+".
func (SpeciesComparator) Key(s Species) string { return s.String() }

// Name returns "species".
func (SpeciesComparator) Name() string { return "species" }

// ElementComparator ignores oxidation states.
type ElementComparator struct{}

// Equal reports whether a and b are the same element.
func (ElementComparator) Equal(a, b Species) bool { return a.Element == b.Element }

// Key returns the element symbol.
func (ElementComparator) Key(s Species) string { return s.Element }

// Name returns "element".
func (ElementComparator) Name() string { return "element" }

// ComparatorByName maps "species" and "element" to their comparators.
func ComparatorByName(name string) (Comparator, error) {
	switch name {
	case "species", "":
		return SpeciesComparator{}, nil
	case "element":
		return ElementComparator{}, nil
	default:
		return nil, fmt.Errorf("ComparatorByName(%q): unknown comparator", name)
	}
}
