// Package structure is the data model of the matcher: species, sites and
// periodic structures, plus the pure transformations the matching pipeline
// is built from.
//
// A Structure is a lattice, per-axis periodicity flags and an ordered list
// of sites. Every site is fully ordered: exactly one occupant with
// occupancy 1. Disordered input is rejected by Validate with
// ErrUnsupportedDisorder; the matcher never tries to compare it.
//
// Every method returns a fresh value and leaves its receiver untouched, so a
// Structure may be shared between goroutines without locking.
//
// Features:
//   - ParseSpecies / Species.String for "Fe", "Fe2+", "O2-", "Na+".
//   - Comparator: species (element + oxidation) or element-only equality.
//   - Composition and reduced composition keys.
//   - Wrapped, Sorted, Translated, Permuted, Supercell, Scaled, WithLattice.
//   - Reduced: Niggli-reduced lattice with coordinates re-expressed and wrapped.
//   - Primitive: detection of pure self-translations and reduction to the
//     primitive cell, with a pass-through fallback.
package structure
