package logging_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/janosh/matterviz-sub000/internal/logging"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]zapcore.Level{
		"":      zapcore.InfoLevel,
		"debug": zapcore.DebugLevel,
		"WARN":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
	} {
		got, err := logging.ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := logging.ParseLevel("loud")
	assert.Error(t, err)
}

func TestNew_JSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.json")
	z, err := logging.New(logging.Config{Level: "warn", Format: "json", Output: []string{path}})
	require.NoError(t, err)

	z.Info("dropped")
	z.Warn("kept", zap.Int("groups", 3))
	_ = z.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.EqualValues(t, 3, entry["groups"])
	assert.Contains(t, entry, "ts")
}

func TestNew_Errors(t *testing.T) {
	_, err := logging.New(logging.Config{Format: "xml"})
	assert.ErrorIs(t, err, logging.ErrBadFormat)
	_, err = logging.New(logging.Config{Level: "chatty"})
	assert.Error(t, err)
}
