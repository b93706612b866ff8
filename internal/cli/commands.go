package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/janosh/matterviz-sub000/batch"
	"github.com/janosh/matterviz-sub000/internal/structjson"
	"github.com/janosh/matterviz-sub000/structure"
)

type fitOutput struct {
	Match bool `json:"match"`
}

func newFitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fit A.json B.json",
		Short: "Report whether two structures match",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s1, s2, err := a.readPair(args)
			if err != nil {
				return err
			}
			ok, err := a.m.Fit(s1, s2)
			if err != nil {
				return err
			}

			return a.emit(cmd.OutOrStdout(), fitOutput{Match: ok}, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, ok)
				return err
			})
		},
	}
}

type rmsOutput struct {
	Match bool     `json:"match"`
	RMS   *float64 `json:"rms"`
	Max   *float64 `json:"max"`
}

func newRMSCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rms A.json B.json",
		Short: "Print the normalized RMS and maximum site displacement",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s1, s2, err := a.readPair(args)
			if err != nil {
				return err
			}
			d, ok, err := a.m.RMSDist(s1, s2)
			if err != nil {
				return err
			}

			out := rmsOutput{Match: ok}
			if ok {
				out.RMS, out.Max = &d.RMS, &d.Max
			}

			return a.emit(cmd.OutOrStdout(), out, func(w io.Writer) error {
				if !ok {
					_, err := fmt.Fprintln(w, "no match")
					return err
				}
				_, err := fmt.Fprintf(w, "rms=%.6f max=%.6f\n", d.RMS, d.Max)
				return err
			})
		},
	}
}

type matchOutput struct {
	Match       bool       `json:"match"`
	RMS         float64    `json:"rms,omitempty"`
	Max         float64    `json:"max,omitempty"`
	Supercell   [3][3]int  `json:"supercell"`
	Translation [3]float64 `json:"translation"`
	Mapping     []int      `json:"mapping,omitempty"`
	Swapped     bool       `json:"swapped"`
}

func newMatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "match A.json B.json",
		Short: "Print the best alignment: scores, supercell, translation and site mapping",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s1, s2, err := a.readPair(args)
			if err != nil {
				return err
			}
			res, ok, err := a.m.Match(s1, s2)
			if err != nil {
				return err
			}

			out := matchOutput{Match: ok}
			if ok {
				out.RMS, out.Max = res.RMS.RMS, res.Max
				out.Supercell = [3][3]int(res.Supercell)
				out.Translation = [3]float64(res.Translation)
				out.Mapping = res.Mapping
				out.Swapped = res.Swapped
			}

			return a.emit(cmd.OutOrStdout(), out, func(w io.Writer) error {
				if !ok {
					_, err := fmt.Fprintln(w, "no match")
					return err
				}
				_, err := fmt.Fprintf(w, "rms=%.6f max=%.6f\nsupercell=%v\ntranslation=[%.4f %.4f %.4f]\nmapping=%v\nswapped=%v\n",
					res.RMS.RMS, res.Max, out.Supercell,
					res.Translation[0], res.Translation[1], res.Translation[2],
					res.Mapping, res.Swapped)
				return err
			})
		},
	}
}

func newAnonymousCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "anonymous A.json B.json",
		Short: "Report whether two structures match under some relabelling of species",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s1, s2, err := a.readPair(args)
			if err != nil {
				return err
			}
			ok, err := a.m.FitAnonymous(s1, s2)
			if err != nil {
				return err
			}

			return a.emit(cmd.OutOrStdout(), fitOutput{Match: ok}, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, ok)
				return err
			})
		},
	}
}

type groupOutput struct {
	Labels []string `json:"labels"`
	Groups [][]int  `json:"groups"`
}

func newGroupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "group FILE...",
		Short: "Partition the structures of all files into matching groups",
		Long: "group reads every structure of every file (a file may hold one\n" +
			"structure or a JSON array of them) and prints one group per line.\n" +
			"Structures are labelled path#index.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				xs     []structure.Structure
				labels []string
			)
			for _, path := range args {
				got, err := structjson.ReadFile(path)
				if err != nil {
					return err
				}
				for i := range got {
					labels = append(labels, fmt.Sprintf("%s#%d", path, i))
				}
				xs = append(xs, got...)
			}

			start := time.Now()
			r := batch.New(a.m, batch.Options{Workers: a.cfg.Workers, Logger: a.log})
			groups, err := r.Group(cmd.Context(), xs)
			if err != nil {
				return err
			}
			a.log.Info("grouped",
				zap.Int("files", len(args)),
				zap.Int("structures", len(xs)),
				zap.Int("groups", len(groups)),
				zap.Duration("elapsed", time.Since(start)))

			return a.emit(cmd.OutOrStdout(), groupOutput{Labels: labels, Groups: groups}, func(w io.Writer) error {
				for _, g := range groups {
					names := make([]string, len(g))
					for k, i := range g {
						names[k] = labels[i]
					}
					if _, err := fmt.Fprintln(w, strings.Join(names, " ")); err != nil {
						return err
					}
				}

				return nil
			})
		},
	}
}
