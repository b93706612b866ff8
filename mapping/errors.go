// SPDX-License-Identifier: MIT
// Package: matterviz/mapping
//
// errors.go: sentinel errors for the mapping package.

package mapping

import "errors"

// ErrBadTolerance indicates a negative, zero or non-finite tolerance.
var ErrBadTolerance = errors.New("mapping: invalid tolerance")
