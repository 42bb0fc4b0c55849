package automation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmfiel/game-of-life/internal/config"
	"github.com/dmfiel/game-of-life/internal/storage"
)

const scenarioYAML = `
name: still lifes
description: block then blinker
steps:
  - pattern: block
    grid_size: 12
    generations: 20
    stop_stable: true
    save: true
  - pattern: blinker
    wrap: false
    generations: 6
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	if sc.Name != "still lifes" || len(sc.Steps) != 2 {
		t.Fatalf("unexpected scenario %+v", sc)
	}
	if sc.Steps[0].Wrap != nil {
		t.Error("unset wrap should stay nil")
	}
	if sc.Steps[1].Wrap == nil || *sc.Steps[1].Wrap {
		t.Error("second step should disable wrap")
	}
}

func TestLoadScenarioEmpty(t *testing.T) {
	if _, err := LoadScenario(writeScenario(t, "name: nothing\n")); !errors.Is(err, ErrEmptyScenario) {
		t.Errorf("expected ErrEmptyScenario, got %v", err)
	}
}

func TestRunScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	st := storage.New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	base := config.DefaultConfig()
	base.Seed = 7
	base.AutoReset = true

	results, err := RunScenario(context.Background(), sc, *base, st, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	block := results[0]
	if block.Result.Generations != 2 || block.Result.FirstStable != 2 {
		t.Errorf("block: unexpected result %+v", block.Result)
	}
	if block.RunID == "" {
		t.Error("block run should have been saved")
	}
	if block.Config.AutoReset {
		t.Error("scenario runs must not auto reset")
	}

	blinker := results[1]
	if blinker.Config.Wrap || blinker.Config.GridSize != config.DefaultSize {
		t.Errorf("blinker: unexpected config %+v", blinker.Config)
	}
	if blinker.Result.Generations != 6 {
		t.Errorf("blinker: expected 6 generations, got %d", blinker.Result.Generations)
	}
	// period two: generation 3 repeats generation 1
	if blinker.Result.FirstStable != 3 {
		t.Errorf("blinker: expected first stable 3, got %d", blinker.Result.FirstStable)
	}
	if blinker.RunID != "" {
		t.Error("blinker was not asked to save")
	}

	stored, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 1 || stored[0].Pattern != "block" {
		t.Errorf("expected one stored block run, got %+v", stored)
	}
}

func TestRunScenarioUnknownPattern(t *testing.T) {
	sc := &Scenario{Steps: []ScenarioStep{{Pattern: "block", Generations: 1}, {Pattern: "nope"}}}
	results, err := RunScenario(context.Background(), sc, *config.DefaultConfig(), nil, nil)
	if !errors.Is(err, config.ErrUnknownPattern) {
		t.Errorf("expected ErrUnknownPattern, got %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected the first step's result, got %d", len(results))
	}
}
