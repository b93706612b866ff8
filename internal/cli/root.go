// Package cli implements the structmatch command tree.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/janosh/matterviz-sub000/internal/config"
	"github.com/janosh/matterviz-sub000/internal/logging"
	"github.com/janosh/matterviz-sub000/internal/structjson"
	"github.com/janosh/matterviz-sub000/matcher"
	"github.com/janosh/matterviz-sub000/structure"
)

// Version is set at build time with -ldflags "-X ...cli.Version=...".
var Version = "dev"

// app carries what PersistentPreRunE initializes for the subcommands.
type app struct {
	configPath string
	cfg        config.Config
	log        *zap.Logger
	m          *matcher.Matcher
}

// NewRootCommand returns the structmatch root command with all
// subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "structmatch",
		Short: "Compare periodic crystal structures",
		Long: "structmatch decides whether crystal structures given as pymatgen JSON\n" +
			"dictionaries are the same up to lattice choice, origin shift, site order\n" +
			"and (optionally) isotropic scaling or supercell expansion.",
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.init,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "YAML config file")
	config.RegisterFlags(pf)

	cmd.AddCommand(
		newFitCmd(a),
		newRMSCmd(a),
		newMatchCmd(a),
		newAnonymousCmd(a),
		newGroupCmd(a),
	)

	return cmd
}

func (a *app) init(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath, cmd.Flags())
	if err != nil {
		return err
	}
	if cfg.Output != "text" && cfg.Output != "json" {
		return fmt.Errorf("unknown output format %q: %w", cfg.Output, config.ErrInvalidConfig)
	}
	log, err := logging.New(cfg.Logging())
	if err != nil {
		return err
	}
	opts, err := cfg.MatcherOptions()
	if err != nil {
		return err
	}
	m, err := matcher.New(opts)
	if err != nil {
		return err
	}

	a.cfg, a.log, a.m = cfg, log, m
	a.log.Debug("configured",
		zap.String("command", cmd.Name()),
		zap.Float64("ltol", opts.LTol),
		zap.Float64("stol", opts.STol),
		zap.Float64("angle_tol", opts.AngleTol),
		zap.String("comparator", opts.Comparator.Name()),
		zap.Stringer("assignment", opts.Assignment))

	return nil
}

// readOne returns the first structure in path.
func (a *app) readOne(path string) (structure.Structure, error) {
	xs, err := structjson.ReadFile(path)
	if err != nil {
		return structure.Structure{}, err
	}
	if len(xs) == 0 {
		return structure.Structure{}, fmt.Errorf("%s: no structures: %w", path, structjson.ErrBadDocument)
	}
	if len(xs) > 1 {
		a.log.Warn("using first structure of file", zap.String("path", path), zap.Int("structures", len(xs)))
	}

	return xs[0], nil
}

func (a *app) readPair(args []string) (structure.Structure, structure.Structure, error) {
	s1, err := a.readOne(args[0])
	if err != nil {
		return structure.Structure{}, structure.Structure{}, err
	}
	s2, err := a.readOne(args[1])
	if err != nil {
		return structure.Structure{}, structure.Structure{}, err
	}

	return s1, s2, nil
}

// emit writes v as indented JSON in json mode, or calls text otherwise.
func (a *app) emit(w io.Writer, v any, text func(io.Writer) error) error {
	if a.cfg.Output == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(v)
	}

	return text(w)
}
