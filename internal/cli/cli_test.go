package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janosh/matterviz-sub000/internal/cli"
	"github.com/janosh/matterviz-sub000/internal/config"
	"github.com/janosh/matterviz-sub000/internal/fixture"
	"github.com/janosh/matterviz-sub000/internal/structjson"
	"github.com/janosh/matterviz-sub000/lattice"
	"github.com/janosh/matterviz-sub000/structure"
)

// writeStructures writes xs into dir/name, as an array when len(xs) > 1.
func writeStructures(t *testing.T, dir, name string, xs ...structure.Structure) string {
	t.Helper()
	parts := make([]string, len(xs))
	for i, s := range xs {
		data, err := structjson.Marshal(s)
		require.NoError(t, err)
		parts[i] = string(data)
	}
	body := parts[0]
	if len(parts) > 1 {
		body = "[" + strings.Join(parts, ",") + "]"
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.Execute()

	return out.String(), err
}

func TestFitAndRMS(t *testing.T) {
	dir := t.TempDir()
	nacl := fixture.RockSalt("Na", "Cl", 5.64)
	a := writeStructures(t, dir, "a.json", nacl)
	b := writeStructures(t, dir, "b.json", fixture.Shuffled(nacl.Translated(lattice.Vec3{0.1, 0.2, 0.3}), fixture.RNG(1)))
	c := writeStructures(t, dir, "c.json", fixture.FCC("Cu", 3.6))

	out, err := run(t, "fit", a, b)
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)

	out, err = run(t, "fit", a, c)
	require.NoError(t, err)
	assert.Equal(t, "false\n", out)

	out, err = run(t, "rms", a, b)
	require.NoError(t, err)
	assert.Equal(t, "rms=0.000000 max=0.000000\n", out)

	out, err = run(t, "rms", "-o", "json", a, c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"match": false, "rms": null, "max": null}`, out)
}

func TestMatchJSON(t *testing.T) {
	dir := t.TempDir()
	cu := fixture.FCC("Cu", 3.6)
	a := writeStructures(t, dir, "a.json", cu)
	b := writeStructures(t, dir, "b.json", fixture.RotatedZ(cu, 30))

	out, err := run(t, "match", "--output=json", a, b)
	require.NoError(t, err)

	var got struct {
		Match   bool  `json:"match"`
		Mapping []int `json:"mapping"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, got.Match)
	assert.ElementsMatch(t, []int{0, 1, 2, 3}, got.Mapping)
}

func TestAnonymous(t *testing.T) {
	dir := t.TempDir()
	a := writeStructures(t, dir, "nacl.json", fixture.RockSalt("Na", "Cl", 5.64))
	b := writeStructures(t, dir, "mgo.json", fixture.RockSalt("Mg", "O", 4.21))

	out, err := run(t, "fit", a, b)
	require.NoError(t, err)
	assert.Equal(t, "false\n", out)

	out, err = run(t, "anonymous", a, b)
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)
}

func TestGroup(t *testing.T) {
	dir := t.TempDir()
	cu := fixture.FCC("Cu", 3.6)
	fe := fixture.BCC("Fe", 2.87)
	list := writeStructures(t, dir, "list.json", cu, fe, fixture.RotatedZ(cu, 45))
	one := writeStructures(t, dir, "one.json", fixture.Shuffled(fe, fixture.RNG(3)))

	out, err := run(t, "group", "--workers", "2", list, one)
	require.NoError(t, err)
	assert.Equal(t, list+"#0 "+list+"#2\n"+list+"#1 "+one+"#0\n", out)

	out, err = run(t, "group", "-o", "json", list, one)
	require.NoError(t, err)
	var got struct {
		Labels []string `json:"labels"`
		Groups [][]int  `json:"groups"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, [][]int{{0, 2}, {1, 3}}, got.Groups)
	assert.Len(t, got.Labels, 4)
}

func TestConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	nacl := fixture.RockSalt("Na", "Cl", 5.64)
	a := writeStructures(t, dir, "a.json", nacl)
	b := writeStructures(t, dir, "b.json", nacl.WithLattice(lattice.Cubic(5.64*1.3)))

	cfgPath := filepath.Join(dir, "structmatch.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("scale: false\n"), 0o600))

	out, err := run(t, "fit", a, b)
	require.NoError(t, err)
	assert.Equal(t, "true\n", out, "scaled by default")

	out, err = run(t, "--config", cfgPath, "fit", a, b)
	require.NoError(t, err)
	assert.Equal(t, "false\n", out, "30% longer axes exceed ltol without scaling")

	t.Setenv("STRUCTMATCH_SCALE", "true")
	out, err = run(t, "--config", cfgPath, "fit", a, b)
	require.NoError(t, err)
	assert.Equal(t, "true\n", out, "env beats file")
}

func TestErrors(t *testing.T) {
	dir := t.TempDir()
	a := writeStructures(t, dir, "a.json", fixture.FCC("Cu", 3.6))

	_, err := run(t, "fit", a)
	assert.Error(t, err)

	_, err = run(t, "fit", a, filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = run(t, "-o", "yaml", "fit", a, a)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"lattice": {}}`), 0o600))
	_, err = run(t, "fit", a, bad)
	assert.ErrorIs(t, err, structjson.ErrBadDocument)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte("[]"), 0o600))
	for _, args := range [][]string{{"fit", empty, empty}, {"rms", a, empty}, {"group", empty}} {
		_, err = run(t, args...)
		assert.ErrorIs(t, err, structjson.ErrBadDocument, args[0])
	}
}
