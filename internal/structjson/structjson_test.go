package structjson_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janosh/matterviz-sub000/internal/fixture"
	"github.com/janosh/matterviz-sub000/internal/structjson"
	"github.com/janosh/matterviz-sub000/lattice"
	"github.com/janosh/matterviz-sub000/structure"
)

// pymatgenNaCl is trimmed output of Structure.as_dict() for a 2-site NaCl
// primitive cell with oxidation states.
const pymatgenNaCl = `{
  "@module": "pymatgen.core.structure",
  "@class": "Structure",
  "charge": 0,
  "lattice": {
    "matrix": [[0.0, 2.82, 2.82], [2.82, 0.0, 2.82], [2.82, 2.82, 0.0]],
    "pbc": [true, true, true],
    "a": 3.988, "b": 3.988, "c": 3.988,
    "alpha": 60.0, "beta": 60.0, "gamma": 60.0,
    "volume": 44.85
  },
  "properties": {},
  "sites": [
    {"species": [{"element": "Na", "oxidation_state": 1.0, "occu": 1}],
     "abc": [0.0, 0.0, 0.0], "xyz": [0.0, 0.0, 0.0], "label": "Na+", "properties": {}},
    {"species": [{"element": "Cl", "oxidation_state": -1.0, "occu": 1}],
     "abc": [0.5, 0.5, 0.5], "xyz": [2.82, 2.82, 2.82], "label": "Cl-", "properties": {}}
  ]
}`

func TestUnmarshal_Pymatgen(t *testing.T) {
	s, err := structjson.Unmarshal([]byte(pymatgenNaCl))
	require.NoError(t, err)

	require.Equal(t, 2, s.Len())
	assert.Equal(t, "Na+", s.Sites[0].Species().String())
	assert.Equal(t, "Cl-", s.Sites[1].Species().String())
	assert.Equal(t, "Cl-", s.Sites[1].Label)
	assert.InDelta(t, 0.5, s.Sites[1].Frac[2], 1e-12)
	assert.InDelta(t, 2*2.82*2.82*2.82, s.Volume(), 1e-9)
	assert.Equal(t, lattice.Periodic, s.PBC)
}

func TestUnmarshal_XyzOnly(t *testing.T) {
	doc := `{"lattice": {"matrix": [[4,0,0],[0,4,0],[0,0,4]]},
	  "sites": [{"species": [{"element": "Fe2+", "occu": 1}], "xyz": [1, 2, 3]}]}`
	s, err := structjson.Unmarshal([]byte(doc))
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{0.25, 0.5, 0.75}, s.Sites[0].Frac[:], 1e-12)
	assert.Equal(t, structure.Species{Element: "Fe", Oxidation: 2}, s.Sites[0].Species())
}

func TestUnmarshal_Errors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want error
	}{
		{"not json", `{"lattice":`, structjson.ErrBadDocument},
		{"no lattice", `{"sites": []}`, structjson.ErrBadDocument},
		{"no position", `{"lattice": {"matrix": [[1,0,0],[0,1,0],[0,0,1]]},
		  "sites": [{"species": [{"element": "Fe", "occu": 1}]}]}`, structjson.ErrBadDocument},
		{"no species", `{"lattice": {"matrix": [[1,0,0],[0,1,0],[0,0,1]]},
		  "sites": [{"species": [], "abc": [0,0,0]}]}`, structjson.ErrBadDocument},
		{"singular", `{"lattice": {"matrix": [[1,0,0],[2,0,0],[0,0,1]]},
		  "sites": [{"species": [{"element": "Fe", "occu": 1}], "abc": [0,0,0]}]}`, lattice.ErrSingular},
		{"bad element", `{"lattice": {"matrix": [[1,0,0],[0,1,0],[0,0,1]]},
		  "sites": [{"species": [{"element": "fe", "occu": 1}], "abc": [0,0,0]}]}`, structure.ErrBadSpecies},
		{"fractional oxidation", `{"lattice": {"matrix": [[1,0,0],[0,1,0],[0,0,1]]},
		  "sites": [{"species": [{"element": "Fe", "occu": 1, "oxidation_state": 2.5}], "abc": [0,0,0]}]}`, structure.ErrBadSpecies},
		{"disordered", `{"lattice": {"matrix": [[1,0,0],[0,1,0],[0,0,1]]},
		  "sites": [{"species": [{"element": "Fe", "occu": 0.5}, {"element": "Ni", "occu": 0.5}], "abc": [0,0,0]}]}`, structure.ErrUnsupportedDisorder},
		{"empty array", `[]`, structjson.ErrBadDocument},
		{"empty", `{"lattice": {"matrix": [[1,0,0],[0,1,0],[0,0,1]]}, "sites": []}`, structure.ErrInvalidStructure},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := structjson.UnmarshalAll([]byte(tc.doc))
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	s := fixture.Perovskite("Sr", "Ti", "O", 3.9)
	s.Sites[1].Occupants[0].Species.Oxidation = 4

	data, err := structjson.Marshal(s)
	require.NoError(t, err)
	back, err := structjson.Unmarshal(data)
	require.NoError(t, err)

	require.Equal(t, s.Len(), back.Len())
	assert.Equal(t, s.SpeciesList(), back.SpeciesList())
	for i := range s.Sites {
		assert.InDeltaSlice(t, s.Sites[i].Frac[:], back.Sites[i].Frac[:], 1e-12)
	}
	assert.Equal(t, s.Lattice.Matrix(), back.Lattice.Matrix())
}

func TestReadFile_Array(t *testing.T) {
	a, err := structjson.Marshal(fixture.FCC("Cu", 3.6))
	require.NoError(t, err)
	b, err := structjson.Marshal(fixture.BCC("Fe", 2.87))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "list.json")
	require.NoError(t, os.WriteFile(path, []byte("["+string(a)+",\n"+string(b)+"]"), 0o600))

	xs, err := structjson.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, xs, 2)
	assert.Equal(t, 4, xs[0].Len())
	assert.Equal(t, 2, xs[1].Len())

	xs, err = structjson.Decode(strings.NewReader(string(a)))
	require.NoError(t, err)
	assert.Len(t, xs, 1)

	_, err = structjson.ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
