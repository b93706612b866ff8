package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/janosh/matterviz-sub000/internal/logging"
	"github.com/janosh/matterviz-sub000/matcher"
	"github.com/janosh/matterviz-sub000/structure"
)

// envPrefix prefixes every environment override.
const envPrefix = "STRUCTMATCH"

// ErrInvalidConfig indicates a setting that cannot be turned into matcher
// options.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the flat structmatch configuration.
type Config struct {
	LTol             float64 `mapstructure:"ltol"`
	STol             float64 `mapstructure:"stol"`
	AngleTol         float64 `mapstructure:"angle-tol"`
	Scale            bool    `mapstructure:"scale"`
	Comparator       string  `mapstructure:"comparator"`
	PrimitiveCell    bool    `mapstructure:"primitive-cell"`
	AttemptSupercell bool    `mapstructure:"attempt-supercell"`
	Assignment       string  `mapstructure:"assignment"`
	PrimitiveTol     float64 `mapstructure:"primitive-tol"`
	NiggliTol        float64 `mapstructure:"niggli-tol"`

	Workers   int    `mapstructure:"workers"`
	Output    string `mapstructure:"output"`
	LogLevel  string `mapstructure:"log-level"`
	LogFormat string `mapstructure:"log-format"`
}

// Default mirrors matcher.DefaultOptions.
func Default() Config {
	o := matcher.DefaultOptions()

	return Config{
		LTol:         o.LTol,
		STol:         o.STol,
		AngleTol:     o.AngleTol,
		Scale:        o.Scale,
		Comparator:   o.Comparator.Name(),
		Assignment:   o.Assignment.String(),
		PrimitiveTol: o.PrimitiveTol,
		NiggliTol:    o.NiggliTol,
		Output:       "text",
		LogLevel:     "warn",
		LogFormat:    "console",
	}
}

// RegisterFlags adds one flag per key to fs, defaulting to Default().
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.Float64("ltol", d.LTol, "fractional lattice length tolerance")
	fs.Float64("stol", d.STol, "site tolerance as a fraction of the mean site spacing")
	fs.Float64("angle-tol", d.AngleTol, "lattice angle tolerance in degrees")
	fs.Bool("scale", d.Scale, "normalize volumes before matching")
	fs.String("comparator", d.Comparator, "site comparator: species or element")
	fs.Bool("primitive-cell", d.PrimitiveCell, "reduce inputs to primitive cells")
	fs.Bool("attempt-supercell", d.AttemptSupercell, "match structures related by an integer supercell")
	fs.String("assignment", d.Assignment, "site assignment: auto, greedy or hungarian")
	fs.Float64("primitive-tol", d.PrimitiveTol, "primitive cell translation tolerance in Å")
	fs.Float64("niggli-tol", d.NiggliTol, "Niggli reduction tolerance")
	fs.Int("workers", d.Workers, "parallel workers for group (0 means GOMAXPROCS)")
	fs.StringP("output", "o", d.Output, "output format: text or json")
	fs.String("log-level", d.LogLevel, "log level: debug, info, warn or error")
	fs.String("log-format", d.LogFormat, "log format: console or json")
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	d := Default()
	for k, val := range map[string]any{
		"ltol":              d.LTol,
		"stol":              d.STol,
		"angle-tol":         d.AngleTol,
		"scale":             d.Scale,
		"comparator":        d.Comparator,
		"primitive-cell":    d.PrimitiveCell,
		"attempt-supercell": d.AttemptSupercell,
		"assignment":        d.Assignment,
		"primitive-tol":     d.PrimitiveTol,
		"niggli-tol":        d.NiggliTol,
		"workers":           d.Workers,
		"output":            d.Output,
		"log-level":         d.LogLevel,
		"log-format":        d.LogFormat,
	} {
		v.SetDefault(k, val)
	}

	return v
}

// Load merges the YAML file at path (skipped when empty), the environment
// and the flags in fs that were set explicitly. fs may be nil.
func Load(path string, fs *pflag.FlagSet) (Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("Load: read %q: %w", path, err)
		}
	}
	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return Config{}, fmt.Errorf("Load: bind flags: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("Load: %v: %w", err, ErrInvalidConfig)
	}

	return c, nil
}

// MatcherOptions converts c into validated matcher options.
func (c Config) MatcherOptions() (matcher.Options, error) {
	cmp, err := structure.ComparatorByName(c.Comparator)
	if err != nil {
		return matcher.Options{}, fmt.Errorf("MatcherOptions: %v: %w", err, ErrInvalidConfig)
	}
	asg, err := matcher.ParseAssignment(c.Assignment)
	if err != nil {
		return matcher.Options{}, fmt.Errorf("MatcherOptions: %w", err)
	}

	o := matcher.Options{
		LTol:             c.LTol,
		STol:             c.STol,
		AngleTol:         c.AngleTol,
		Scale:            c.Scale,
		Comparator:       cmp,
		PrimitiveCell:    c.PrimitiveCell,
		AttemptSupercell: c.AttemptSupercell,
		Assignment:       asg,
		PrimitiveTol:     c.PrimitiveTol,
		NiggliTol:        c.NiggliTol,
	}
	if err := o.Validate(); err != nil {
		return matcher.Options{}, fmt.Errorf("MatcherOptions: %w", err)
	}

	return o, nil
}

// Logging returns the logger settings.
func (c Config) Logging() logging.Config {
	return logging.Config{Level: c.LogLevel, Format: c.LogFormat}
}
