// SPDX-License-Identifier: MIT
// Package: matterviz/assign
//
// errors.go: sentinel errors for the assign package.

package assign

import "errors"

var (
	// ErrBadShape indicates a ragged matrix, more rows than columns, or a
	// NaN entry.
	ErrBadShape = errors.New("assign: malformed cost matrix")

	// ErrInfeasible indicates that no complete assignment avoids +Inf
	// entries.
	ErrInfeasible = errors.New("assign: no feasible assignment")
)
