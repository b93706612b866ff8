package structure_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janosh/matterviz-sub000/structure"
)

func TestParseSpecies(t *testing.T) {
	cases := []struct {
		in   string
		want structure.Species
		str  string
	}{
		{"Fe", structure.Species{Element: "Fe"}, "Fe"},
		{"Fe2+", structure.Species{Element: "Fe", Oxidation: 2}, "Fe2+"},
		{"Fe+2", structure.Species{Element: "Fe", Oxidation: 2}, "Fe2+"},
		{"O2-", structure.Species{Element: "O", Oxidation: -2}, "O2-"},
		{"Na+", structure.Species{Element: "Na", Oxidation: 1}, "Na+"},
		{"Cl-", structure.Species{Element: "Cl", Oxidation: -1}, "Cl-"},
		{" Uuo ", structure.Species{Element: "Uuo"}, "Uuo"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := structure.ParseSpecies(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.str, got.String())
		})
	}
}

func TestParseSpecies_Rejects(t *testing.T) {
	for _, in := range []string{"", "fe", "2+", "Fe2", "Fe2.5+", "Fe++", "Fe-x"} {
		_, err := structure.ParseSpecies(in)
		assert.ErrorIs(t, err, structure.ErrBadSpecies, in)
	}
}

func TestComparators(t *testing.T) {
	fe2 := structure.MustParseSpecies("Fe2+")
	fe3 := structure.MustParseSpecies("Fe3+")

	assert.False(t, structure.SpeciesComparator{}.Equal(fe2, fe3))
	assert.True(t, structure.ElementComparator{}.Equal(fe2, fe3))
	assert.Equal(t, "Fe", structure.ElementComparator{}.Key(fe3))
	assert.Equal(t, "Fe3+", structure.SpeciesComparator{}.Key(fe3))

	c, err := structure.ComparatorByName("element")
	require.NoError(t, err)
	assert.Equal(t, "element", c.Name())
	_, err = structure.ComparatorByName("isotope")
	assert.Error(t, err)
}
