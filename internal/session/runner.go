package session

import (
	"context"
	"fmt"
	"time"
)

// Runner drives a session on a fixed cadence. Each Step finishes before the
// next tick is consumed, so generations never overlap; ticks that arrive
// while a step is running are dropped by the ticker.
type Runner struct {
	s       *Session
	metrics []Metric
}

func NewRunner(s *Session) *Runner {
	return &Runner{s: s, metrics: make([]Metric, 0)}
}

func (r *Runner) AddMetric(m Metric) { r.metrics = append(r.metrics, m) }

// Run steps the session until cfg.Generations have elapsed, the first stable
// generation when cfg.StopWhenStable is set, or ctx is done. A zero interval
// steps as fast as possible. On cancellation the partial result is returned
// with ctx.Err().
func (r *Runner) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if err := validateRun(cfg); err != nil {
		return nil, err
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	result := &Result{
		Numbers:     make([]int, 0, cfg.Generations),
		Populations: make([]int, 0, cfg.Generations),
		Changed:     make([]int, 0, cfg.Generations),
		Stable:      make([]bool, 0, cfg.Generations),
		Checksums:   make([]uint32, 0, cfg.Generations),
		FirstStable: -1,
		Metrics:     make(map[string]float64),
	}
	startReseeds := r.s.Reseeds()

	var tick <-chan time.Time
	if cfg.Interval > 0 {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	var err error
loop:
	for i := 0; i < cfg.Generations; i++ {
		if tick != nil {
			select {
			case <-ctx.Done():
				err = ctx.Err()
				break loop
			case <-tick:
			}
		} else {
			select {
			case <-ctx.Done():
				err = ctx.Err()
				break loop
			default:
			}
		}

		f := r.s.Step()
		for _, m := range r.metrics {
			m.Observe(f)
		}

		result.Generations++
		result.Numbers = append(result.Numbers, f.Generation)
		result.Populations = append(result.Populations, f.Population)
		result.Changed = append(result.Changed, len(f.Changed))
		result.Stable = append(result.Stable, f.Stable)
		result.Checksums = append(result.Checksums, f.Checksum)

		if f.Stable && result.FirstStable < 0 {
			result.FirstStable = f.Generation
		}
		if f.Stable && cfg.StopWhenStable {
			break
		}
	}

	result.Reseeds = r.s.Reseeds() - startReseeds
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, err
}

func validateRun(cfg RunConfig) error {
	if cfg.Generations <= 0 {
		return fmt.Errorf("%w, got %d", ErrInvalidRun, cfg.Generations)
	}
	if cfg.Interval < 0 {
		return fmt.Errorf("session: interval must not be negative, got %v", cfg.Interval)
	}
	return nil
}
