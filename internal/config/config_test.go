package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janosh/matterviz-sub000/internal/config"
	"github.com/janosh/matterviz-sub000/matcher"
)

func TestLoad_Defaults(t *testing.T) {
	c, err := config.Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), c)

	o, err := c.MatcherOptions()
	require.NoError(t, err)
	d := matcher.DefaultOptions()
	assert.Equal(t, d.LTol, o.LTol)
	assert.Equal(t, d.STol, o.STol)
	assert.Equal(t, d.AngleTol, o.AngleTol)
	assert.Equal(t, "species", o.Comparator.Name())
	assert.Equal(t, matcher.AssignAuto, o.Assignment)
}

func TestLoad_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "structmatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
ltol: 0.3
stol: 0.4
angle-tol: 7
comparator: element
attempt-supercell: true
`), 0o600))
	t.Setenv("STRUCTMATCH_STOL", "0.5")
	t.Setenv("STRUCTMATCH_ANGLE_TOL", "8")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--angle-tol=9", "--assignment", "hungarian"}))

	c, err := config.Load(path, fs)
	require.NoError(t, err)
	assert.Equal(t, 0.3, c.LTol, "file")
	assert.Equal(t, 0.5, c.STol, "env beats file")
	assert.Equal(t, 9.0, c.AngleTol, "flag beats env")
	assert.Equal(t, "element", c.Comparator)
	assert.True(t, c.AttemptSupercell)
	assert.Equal(t, "hungarian", c.Assignment)
	assert.True(t, c.Scale, "unset flag keeps default")

	o, err := c.MatcherOptions()
	require.NoError(t, err)
	assert.Equal(t, "element", o.Comparator.Name())
	assert.Equal(t, matcher.AssignHungarian, o.Assignment)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "none.yaml"), nil)
	assert.Error(t, err)
}

func TestMatcherOptions_Invalid(t *testing.T) {
	c := config.Default()
	c.Comparator = "mass"
	_, err := c.MatcherOptions()
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	c = config.Default()
	c.Assignment = "simplex"
	_, err = c.MatcherOptions()
	assert.ErrorIs(t, err, matcher.ErrInvalidOptions)

	c = config.Default()
	c.STol = 0
	_, err = c.MatcherOptions()
	assert.ErrorIs(t, err, matcher.ErrInvalidOptions)
}
