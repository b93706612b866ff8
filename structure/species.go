package structure

import (
	"fmt"
	"strconv"
	"strings"
)

// Species is a chemical element with an optional integer oxidation state.
// Oxidation 0 means "unspecified" and compares equal to a bare element.
type Species struct {
	Element   string
	Oxidation int
}

// Element returns the species of a bare element symbol.
func Element(symbol string) Species { return Species{Element: symbol} }

// ParseSpecies parses "Fe", "Fe2+", "Fe+2", "O2-", "Na+" and "Cl-".
//
// Errors: ErrBadSpecies for anything else (including fractional
// oxidation states, which the matcher does not model).
func ParseSpecies(s string) (Species, error) {
	s = strings.TrimSpace(s)
	el, rest := splitElement(s)
	if el == "" {
		return Species{}, fmt.Errorf("ParseSpecies(%q): %w", s, ErrBadSpecies)
	}
	if rest == "" {
		return Species{Element: el}, nil
	}

	var sign byte
	var digits string
	switch {
	case rest[len(rest)-1] == '+' || rest[len(rest)-1] == '-':
		sign, digits = rest[len(rest)-1], rest[:len(rest)-1]
	case rest[0] == '+' || rest[0] == '-':
		sign, digits = rest[0], rest[1:]
	default:
		return Species{}, fmt.Errorf("ParseSpecies(%q): %w", s, ErrBadSpecies)
	}

	n := 1
	if digits != "" {
		v, err := strconv.Atoi(digits)
		if err != nil || v < 0 {
			return Species{}, fmt.Errorf("ParseSpecies(%q): %w", s, ErrBadSpecies)
		}
		n = v
	}
	if sign == '-' {
		n = -n
	}

	return Species{Element: el, Oxidation: n}, nil
}

// MustParseSpecies is ParseSpecies for fixtures; it panics on error.
func MustParseSpecies(s string) Species {
	sp, err := ParseSpecies(s)
	if err != nil {
		panic(err)
	}

	return sp
}

// String renders the species the way ParseSpecies reads it: "Fe", "Fe2+",
// "Na+", "O2-".
func (s Species) String() string {
	switch {
	case s.Oxidation == 0:
		return s.Element
	case s.Oxidation == 1:
		return s.Element + "+"
	case s.Oxidation == -1:
		return s.Element + "-"
	case s.Oxidation > 0:
		return s.Element + strconv.Itoa(s.Oxidation) + "+"
	default:
		return s.Element + strconv.Itoa(-s.Oxidation) + "-"
	}
}

// Key is the species-equality key; equal to String.
func (s Species) Key() string { return s.String() }

// valid reports whether the element symbol is well formed.
func (s Species) valid() bool {
	el, rest := splitElement(s.Element)

	return el != "" && rest == ""
}

// splitElement splits a leading element symbol (one upper-case letter and
// up to two lower-case letters) from the rest of s.
func splitElement(s string) (string, string) {
	if s == "" || s[0] < 'A' || s[0] > 'Z' {
		return "", s
	}
	i := 1
	for i < len(s) && i < 3 && s[i] >= 'a' && s[i] <= 'z' {
		i++
	}

	return s[:i], s[i:]
}
