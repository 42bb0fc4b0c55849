package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dmfiel/game-of-life/internal/config"
	"github.com/dmfiel/game-of-life/internal/metrics"
	"github.com/dmfiel/game-of-life/internal/session"
	"github.com/dmfiel/game-of-life/internal/storage"
	"gopkg.in/yaml.v3"
)

var ErrEmptyScenario = errors.New("automation: scenario has no steps")

// Scenario defines a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep overrides the base config for one run. Unset fields keep the
// base value.
type ScenarioStep struct {
	Pattern     string  `yaml:"pattern"`
	GridSize    int     `yaml:"grid_size"`
	Wrap        *bool   `yaml:"wrap"`
	Density     float64 `yaml:"density"`
	Window      int     `yaml:"window"`
	Seed        int64   `yaml:"seed"`
	Generations int     `yaml:"generations"`
	StopStable  bool    `yaml:"stop_stable"`
	Save        bool    `yaml:"save"`
}

// StepResult pairs a step's run with its stored ID, empty when not saved.
type StepResult struct {
	Config config.Config
	Result *session.Result
	RunID  string
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, ErrEmptyScenario
	}
	return &scenario, nil
}

func (s ScenarioStep) apply(base config.Config) config.Config {
	cfg := base
	if s.Pattern != "" {
		cfg.Pattern = s.Pattern
	}
	if s.GridSize != 0 {
		cfg.GridSize = s.GridSize
	}
	if s.Wrap != nil {
		cfg.Wrap = *s.Wrap
	}
	if s.Density != 0 {
		cfg.Density = s.Density
	}
	if s.Window != 0 {
		cfg.Window = s.Window
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	if s.Generations != 0 {
		cfg.Generations = s.Generations
	}
	// a scripted run never reseeds itself
	cfg.AutoReset = false
	cfg.Normalize()
	return cfg
}

// RunScenario executes every step in order on top of base. st may be nil,
// in which case Save is ignored. Results gathered before a failure are
// returned with the error.
func RunScenario(ctx context.Context, scenario *Scenario, base config.Config, st *storage.Store, log *slog.Logger) ([]StepResult, error) {
	if len(scenario.Steps) == 0 {
		return nil, ErrEmptyScenario
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg := step.apply(base)
		log.Info("scenario step", "scenario", scenario.Name, "step", i+1, "of", len(scenario.Steps), "pattern", cfg.Pattern)

		s := session.New(cfg, session.WithLogger(log))
		if err := s.Seed(cfg.Pattern); err != nil {
			s.Close()
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		runner := session.NewRunner(s)
		for _, m := range metrics.Defaults() {
			runner.AddMetric(m)
		}
		result, err := runner.Run(ctx, session.RunConfig{
			Generations:    cfg.Generations,
			StopWhenStable: step.StopStable,
		})
		s.Close()
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Config: cfg, Result: result}
		if step.Save && st != nil {
			if sr.RunID, err = st.Save(&cfg, result); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}
