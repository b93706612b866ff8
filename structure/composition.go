package structure

import (
	"sort"
	"strconv"
	"strings"
)

// Composition counts sites per comparator key.
type Composition map[string]int

// Composition returns the site counts of s keyed by cmp.
func (s Structure) Composition(cmp Comparator) Composition {
	c := make(Composition)
	for _, site := range s.Sites {
		c[cmp.Key(site.Species())]++
	}

	return c
}

// Keys returns the keys of c in ascending order.
func (c Composition) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

// Total returns the number of sites counted by c.
func (c Composition) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}

	return n
}

// Reduced divides every count by their greatest common divisor and returns
// the reduced composition with that divisor (the formula-unit count).
func (c Composition) Reduced() (Composition, int) {
	g := 0
	for _, v := range c {
		g = gcd(g, v)
	}
	if g == 0 {
		return Composition{}, 0
	}
	out := make(Composition, len(c))
	for k, v := range c {
		out[k] = v / g
	}

	return out, g
}

// Key renders the reduced composition as "Cl1 Na1", keys ascending. Two
// structures can only match when their keys are equal.
func (c Composition) Key() string {
	red, _ := c.Reduced()
	var b strings.Builder
	for i, k := range red.Keys() {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(k)
		b.WriteString(strconv.Itoa(red[k]))
	}

	return b.String()
}

// Signature returns the sorted multiset of reduced amounts, ignoring which
// key carries which amount. Structures that may match after relabelling
// species share a signature.
func (c Composition) Signature() []int {
	red, _ := c.Reduced()
	out := make([]int, 0, len(red))
	for _, v := range red {
		out = append(out, v)
	}
	sort.Ints(out)

	return out
}

// CompositionKey is shorthand for s.Composition(cmp).Key().
func (s Structure) CompositionKey(cmp Comparator) string {
	return s.Composition(cmp).Key()
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}

	return a
}
