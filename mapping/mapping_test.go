package mapping_test

import (
	"iter"
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janosh/matterviz-sub000/lattice"
	"github.com/janosh/matterviz-sub000/mapping"
)

func collect(t *testing.T, seq iter.Seq[mapping.Mapping], err error) []mapping.Mapping {
	t.Helper()
	require.NoError(t, err)

	return slices.Collect(seq)
}

func TestWithinRatio_OpenInterval(t *testing.T) {
	const ltol = 0.2
	assert.False(t, mapping.WithinRatio(1+ltol, ltol))
	assert.False(t, mapping.WithinRatio(1/(1+ltol), ltol))
	assert.True(t, mapping.WithinRatio(1.19999, ltol))
	assert.True(t, mapping.WithinRatio(0.8334, ltol))
	assert.True(t, mapping.WithinRatio(1, ltol))
	assert.False(t, mapping.WithinRatio(0.8, ltol), "symmetric 1−ltol bound is outside")
}

func TestOptions_Validate(t *testing.T) {
	assert.NoError(t, mapping.DefaultOptions().Validate())
	for _, o := range []mapping.Options{
		{LTol: 0, AngleTol: 5},
		{LTol: 0.2, AngleTol: -1},
		{LTol: math.NaN(), AngleTol: 5},
		{LTol: 0.2, AngleTol: math.Inf(1)},
	} {
		_, err := mapping.All(lattice.Cubic(1), lattice.Cubic(1), o)
		assert.ErrorIs(t, err, mapping.ErrBadTolerance)
	}
	_, err := mapping.Supercells(lattice.Cubic(1), lattice.Cubic(1), mapping.DefaultOptions(), -1)
	assert.ErrorIs(t, err, mapping.ErrBadTolerance)
}

func TestAll_CubicPointGroup(t *testing.T) {
	seq, err := mapping.All(lattice.Cubic(3), lattice.Cubic(3), mapping.DefaultOptions())
	ms := collect(t, seq, err)
	require.Len(t, ms, 48, "six axis permutations times eight sign patterns")

	pos := 0
	for _, m := range ms {
		if m.Scale.Det() > 0 {
			pos++
		}
		assertConsistent(t, lattice.Cubic(3), m)
	}
	assert.Equal(t, 24, pos)
}

func TestAll_LengthBoundaryExcluded(t *testing.T) {
	seq, err := mapping.All(lattice.Cubic(3.0), lattice.Cubic(3.6), mapping.DefaultOptions())
	assert.Empty(t, collect(t, seq, err))

	seq, err = mapping.All(lattice.Cubic(3.6), lattice.Cubic(3.0), mapping.DefaultOptions())
	assert.Empty(t, collect(t, seq, err))

	seq, err = mapping.Supercells(lattice.Cubic(3.0), lattice.Cubic(3.59), mapping.DefaultOptions(), 1)
	assert.Len(t, collect(t, seq, err), 48)
}

func TestSupercells_DeterminantFilter(t *testing.T) {
	target := lattice.MustNew(lattice.Mat3{{2, 0, 0}, {0, 2, 0}, {0, 0, 2}})
	seq, err := mapping.Supercells(lattice.Cubic(1), target, mapping.DefaultOptions(), 8)
	ms := collect(t, seq, err)
	require.NotEmpty(t, ms)
	for _, m := range ms {
		assert.Equal(t, 8, abs(m.Scale.Det()))
		assertConsistent(t, lattice.Cubic(1), m)
	}

	seq, err = mapping.Supercells(lattice.Cubic(1), target, mapping.DefaultOptions(), 1)
	assert.Empty(t, collect(t, seq, err))
}

func TestAll_LeftHandedTarget(t *testing.T) {
	left := lattice.MustNew(lattice.Mat3{{0, 3, 0}, {3, 0, 0}, {0, 0, 4}})
	right, err := lattice.FromParameters(3, 3, 4, 90, 90, 90)
	require.NoError(t, err)

	seq, err := mapping.All(right, left, mapping.DefaultOptions())
	ms := collect(t, seq, err)
	require.NotEmpty(t, ms)
	for _, m := range ms {
		assertConsistent(t, right, m)
		assert.InDelta(t, 4.0, m.Lattice.Abc()[2], 1e-9)
	}
	assert.True(t, slices.ContainsFunc(ms, func(m mapping.Mapping) bool { return m.Scale.Det() < 0 }))
}

func TestAll_FindsReducedBasisOfObliqueCells(t *testing.T) {
	cells := []struct {
		name                        string
		a, b, c, alpha, beta, gamma float64
	}{
		{"acute28", 4, 4, 4, 28, 28, 28},
		{"acute56", 3, 3.5, 4, 56, 56, 56},
		{"obtuse103", 3, 4, 5, 103, 103, 103},
		{"obtuse116", 5, 5, 5, 116, 116, 116},
		{"obtuse132", 4, 5, 6, 132, 100, 95},
	}
	for _, tc := range cells {
		t.Run(tc.name, func(t *testing.T) {
			l, err := lattice.FromParameters(tc.a, tc.b, tc.c, tc.alpha, tc.beta, tc.gamma)
			require.NoError(t, err)
			red, _, err := l.Niggli(lattice.DefaultNiggliTol)
			require.NoError(t, err)

			// Both directions: reduced onto raw and raw onto reduced.
			for _, pair := range [][2]lattice.Lattice{{red, red}, {red, l}} {
				seq, err := mapping.Supercells(pair[0], pair[1], mapping.DefaultOptions(), 1)
				ms := collect(t, seq, err)
				require.NotEmpty(t, ms)
				for _, m := range ms {
					assertConsistent(t, pair[0], m)
				}
			}
		})
	}
}

func TestAll_NeedleCell(t *testing.T) {
	needle := lattice.MustNew(lattice.Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 20}})
	seq, err := mapping.All(needle, needle, mapping.DefaultOptions())
	ms := collect(t, seq, err)
	assert.True(t, slices.ContainsFunc(ms, func(m mapping.Mapping) bool {
		return m.Scale == lattice.IdentityInt()
	}))
}

func TestAll_LazyAndDeterministic(t *testing.T) {
	seq, err := mapping.All(lattice.Cubic(2), lattice.Cubic(2), mapping.DefaultOptions())
	require.NoError(t, err)

	n := 0
	for range seq {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)

	first := slices.Collect(seq)
	second := slices.Collect(seq)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Scale, second[i].Scale)
	}
}

// assertConsistent checks Lattice = Scale·source.
func assertConsistent(t *testing.T, source lattice.Lattice, m mapping.Mapping) {
	t.Helper()
	want := m.Scale.Float().Mul(source.Matrix())
	got := m.Lattice.Matrix()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			assert.InDelta(t, want[i][j], got[i][j], 1e-9)
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}

	return x
}
