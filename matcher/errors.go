// SPDX-License-Identifier: MIT
// Package: matterviz/matcher
//
// errors.go: sentinel errors for the matcher package.

package matcher

import "errors"

// ErrInvalidOptions indicates a tolerance or setting outside its domain.
var ErrInvalidOptions = errors.New("matcher: invalid options")
