// SPDX-License-Identifier: MIT
// Package: matterviz/lattice
//
// errors.go: sentinel errors for the lattice package.

package lattice

import "errors"

// Sentinel errors. Callers match them with errors.Is.
var (
	// ErrNaNInf is returned when a lattice or vector carries NaN or ±Inf.
	ErrNaNInf = errors.New("lattice: NaN or Inf encountered")

	// ErrSingular is returned for a basis with (numerically) zero volume.
	ErrSingular = errors.New("lattice: singular lattice matrix")

	// ErrReductionFailed is returned when Niggli reduction exhausts its
	// iteration bound without converging or cycling.
	ErrReductionFailed = errors.New("lattice: reduction failed to converge")

	// ErrBadSupercell is returned for a supercell matrix with zero determinant.
	ErrBadSupercell = errors.New("lattice: supercell matrix is singular")
)
