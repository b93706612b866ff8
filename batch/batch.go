package batch

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/janosh/matterviz-sub000/matcher"
	"github.com/janosh/matterviz-sub000/structure"
)

// Options configures a Runner.
type Options struct {
	Workers int         // concurrent tasks; ≤ 0 means GOMAXPROCS
	Logger  *zap.Logger // nil means zap.NewNop()
}

// DefaultOptions uses GOMAXPROCS workers and a no-op logger.
func DefaultOptions() Options {
	return Options{Workers: runtime.GOMAXPROCS(0), Logger: zap.NewNop()}
}

// Runner evaluates one Matcher over batches of structures.
type Runner struct {
	m       *matcher.Matcher
	workers int
	log     *zap.Logger
}

// New returns a Runner for m.
func New(m *matcher.Matcher, opts Options) *Runner {
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Runner{m: m, workers: opts.Workers, log: opts.Logger.Named("batch")}
}

// Prepare normalizes every structure in parallel.
//
// Errors: the first invalid structure (wrapped with its index), or
// ctx.Err().
func (r *Runner) Prepare(ctx context.Context, xs []structure.Structure) ([]matcher.Prepared, error) {
	out := make([]matcher.Prepared, len(xs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i := range xs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p, err := r.m.Prepare(xs[i])
			if err != nil {
				return fmt.Errorf("structure %d: %w", i, err)
			}
			out[i] = p

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("Prepare: %w", err)
	}

	return out, nil
}

// Pairwise returns the symmetric fit matrix of xs: fits[i][j] reports
// whether xs[i] and xs[j] match. The diagonal is true.
//
// Complexity: N(N−1)/2 fits spread over the worker pool.
func (r *Runner) Pairwise(ctx context.Context, xs []structure.Structure) ([][]bool, error) {
	start := time.Now()
	ps, err := r.Prepare(ctx, xs)
	if err != nil {
		return nil, fmt.Errorf("Pairwise: %w", err)
	}

	n := len(ps)
	fits := make([][]bool, n)
	for i := range fits {
		fits[i] = make([]bool, n)
		fits[i][i] = true
	}

	// One task per row of the upper triangle; rows write disjoint cells
	// fits[i][j] and fits[j][i] for j > i.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			for j := i + 1; j < n; j++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				ok := r.m.FitPrepared(ps[i], ps[j])
				fits[i][j], fits[j][i] = ok, ok
			}

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("Pairwise: %w", err)
	}

	r.log.Info("pairwise done",
		zap.Int("structures", n),
		zap.Int("pairs", n*(n-1)/2),
		zap.Duration("elapsed", time.Since(start)))

	return fits, nil
}

// Group partitions xs exactly like matcher.Matcher.Group, processing
// composition buckets in parallel.
func (r *Runner) Group(ctx context.Context, xs []structure.Structure) ([][]int, error) {
	start := time.Now()
	ps, err := r.Prepare(ctx, xs)
	if err != nil {
		return nil, fmt.Errorf("Group: %w", err)
	}

	buckets := matcher.Buckets(ps)
	results := make([][][]int, len(buckets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for b, bucket := range buckets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[b] = r.m.GroupBucket(ps, bucket)
			r.log.Debug("bucket grouped",
				zap.String("composition", ps[bucket[0]].Key()),
				zap.Int("structures", len(bucket)),
				zap.Int("groups", len(results[b])))

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("Group: %w", err)
	}

	var groups [][]int
	for _, gs := range results {
		groups = append(groups, gs...)
	}
	matcher.SortGroups(groups)

	r.log.Info("group done",
		zap.Int("structures", len(xs)),
		zap.Int("buckets", len(buckets)),
		zap.Int("groups", len(groups)),
		zap.Duration("elapsed", time.Since(start)))

	return groups, nil
}
