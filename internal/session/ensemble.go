package session

import (
	"context"
	"fmt"

	"github.com/dmfiel/game-of-life/internal/config"
	"golang.org/x/sync/errgroup"
)

// Ensemble runs independent sessions with consecutive seeds in parallel.
// Each session is confined to its own goroutine.
type Ensemble struct {
	cfg       config.Config
	numRuns   int
	seedStart int64
	opts      []Option

	// Metrics, when set, builds fresh metrics for every run.
	Metrics func() []Metric
}

func NewEnsemble(cfg config.Config, numRuns int, seedStart int64, opts ...Option) *Ensemble {
	return &Ensemble{cfg: cfg, numRuns: numRuns, seedStart: seedStart, opts: opts}
}

// Run seeds every session with the configured pattern and runs it. The first
// failure cancels the rest.
func (e *Ensemble) Run(ctx context.Context, rc RunConfig) ([]*Result, error) {
	if err := validateRun(rc); err != nil {
		return nil, err
	}

	results := make([]*Result, e.numRuns)
	g, ctx := errgroup.WithContext(ctx)

	for i := 0; i < e.numRuns; i++ {
		g.Go(func() error {
			cfg := e.cfg
			cfg.Seed = e.seedStart + int64(i)

			s := New(cfg, e.opts...)
			defer s.Close()
			if err := s.Seed(cfg.Pattern); err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}

			runner := NewRunner(s)
			if e.Metrics != nil {
				for _, m := range e.Metrics() {
					runner.AddMetric(m)
				}
			}

			res, err := runner.Run(ctx, rc)
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
