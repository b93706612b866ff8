// SPDX-License-Identifier: MIT
// Package: matterviz/structure
//
// errors.go: sentinel errors for the structure package.

package structure

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidStructure indicates a malformed structure: non-finite
	// lattice or coordinates, or an unusable lattice.
	ErrInvalidStructure = errors.New("structure: invalid structure")

	// ErrEmpty indicates a structure without sites.
	ErrEmpty = fmt.Errorf("structure: empty site list: %w", ErrInvalidStructure)

	// ErrUnsupportedDisorder indicates a site with partial occupancy or more
	// than one occupant.
	ErrUnsupportedDisorder = errors.New("structure: disordered sites are not supported")

	// ErrBadSpecies indicates a species symbol that cannot be parsed.
	ErrBadSpecies = errors.New("structure: bad species")

	// ErrBadPermutation indicates a permutation that is not a bijection on
	// the site indices.
	ErrBadPermutation = errors.New("structure: invalid permutation")
)
