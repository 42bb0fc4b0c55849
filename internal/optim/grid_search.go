package optim

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"

	"github.com/dmfiel/game-of-life/internal/config"
	"github.com/dmfiel/game-of-life/internal/session"
)

var ErrUnknownParam = errors.New("optim: unknown parameter")

// Params names the config fields a search may vary.
var Params = []string{"density", "size", "window"}

// Point is one evaluated parameter combination.
type Point struct {
	Params map[string]float64
	Value  float64
}

// GridSearch evaluates every combination of the given ranges and keeps the
// lowest value, or the highest when Maximize is set.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	Maximize   bool
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search stops at the first evaluation error. Points are returned in
// evaluation order.
func (g *GridSearch) Search(
	ctx context.Context,
	eval func(ctx context.Context, params map[string]float64) (float64, error),
) (map[string]float64, float64, []Point, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, nil, fmt.Errorf("optim: %d names for %d ranges", len(g.paramNames), len(g.ranges))
	}

	best := math.Inf(1)
	if g.Maximize {
		best = math.Inf(-1)
	}
	var bestParams map[string]float64
	var points []Point

	var search func(depth int, current map[string]float64) error
	search = func(depth int, current map[string]float64) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if depth == len(g.paramNames) {
			val, err := eval(ctx, current)
			if err != nil {
				return err
			}
			points = append(points, Point{Params: current, Value: val})
			if (!g.Maximize && val < best) || (g.Maximize && val > best) {
				best = val
				bestParams = maps.Clone(current)
			}
			return nil
		}

		for _, val := range g.ranges[depth] {
			next := maps.Clone(current)
			next[g.paramNames[depth]] = val
			if err := search(depth+1, next); err != nil {
				return err
			}
		}
		return nil
	}

	if err := search(0, make(map[string]float64)); err != nil {
		return nil, 0, points, err
	}
	return bestParams, best, points, nil
}

// Apply returns cfg with params written over it, normalized.
func Apply(cfg config.Config, params map[string]float64) (config.Config, error) {
	for name, v := range params {
		switch name {
		case "density":
			cfg.Density = v
		case "size":
			cfg.GridSize = int(v)
		case "window":
			cfg.Window = int(v)
		default:
			return cfg, fmt.Errorf("%w: %q", ErrUnknownParam, name)
		}
	}
	cfg.Normalize()
	return cfg, nil
}

// StabilityTime runs an ensemble and returns the mean generation at which
// each run first repeated itself. Runs that never stabilize count as
// rc.Generations+1.
func StabilityTime(ctx context.Context, cfg config.Config, runs int, rc session.RunConfig) (float64, error) {
	if runs <= 0 {
		return 0, fmt.Errorf("optim: runs must be positive, got %d", runs)
	}
	cfg.AutoReset = false
	rc.StopWhenStable = true

	results, err := session.NewEnsemble(cfg, runs, cfg.Seed).Run(ctx, rc)
	if err != nil {
		return 0, err
	}

	var sum int
	for _, r := range results {
		if r.FirstStable > 0 {
			sum += r.FirstStable
		} else {
			sum += rc.Generations + 1
		}
	}
	return float64(sum) / float64(len(results)), nil
}
