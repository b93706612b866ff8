// Package logging builds the zap logger used by the structmatch command.
package logging

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ErrBadFormat indicates a log format other than "json" or "console".
var ErrBadFormat = errors.New("logging: unknown format")

// Config selects level and encoding.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json or console
	Output []string
}

// ParseLevel maps a level name to a zapcore.Level. The empty string is
// info.
func ParseLevel(s string) (zapcore.Level, error) {
	if s == "" {
		return zapcore.InfoLevel, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return 0, fmt.Errorf("ParseLevel(%q): %w", s, err)
	}

	return lvl, nil
}

// New builds a logger writing to cfg.Output (stderr when empty) so that
// command results on stdout stay machine-readable.
func New(cfg Config) (*zap.Logger, error) {
	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if len(cfg.Output) == 0 {
		cfg.Output = []string{"stderr"}
	}

	var (
		enc      zapcore.EncoderConfig
		encoding string
	)
	switch cfg.Format {
	case "", "console":
		enc, encoding = zap.NewDevelopmentEncoderConfig(), "console"
	case "json":
		enc, encoding = zap.NewProductionEncoderConfig(), "json"
	default:
		return nil, fmt.Errorf("New: %q: %w", cfg.Format, ErrBadFormat)
	}
	enc.TimeKey = "ts"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder

	zc := zap.Config{
		Level:            zap.NewAtomicLevelAt(lvl),
		Encoding:         encoding,
		EncoderConfig:    enc,
		OutputPaths:      cfg.Output,
		ErrorOutputPaths: []string{"stderr"},
	}
	z, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("New: %w", err)
	}

	return z, nil
}
