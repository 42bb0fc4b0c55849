package config

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmfiel/game-of-life/internal/life"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.GridSize != 50 {
		t.Errorf("expected grid size 50, got %d", cfg.GridSize)
	}
	if cfg.Interval() != 10*time.Millisecond {
		t.Errorf("expected 10ms interval, got %v", cfg.Interval())
	}
	if cfg.ResetDelay() != 500*time.Millisecond {
		t.Errorf("expected 500ms reset delay, got %v", cfg.ResetDelay())
	}
	if cfg.Density != 0.2 {
		t.Errorf("expected density 0.2, got %f", cfg.Density)
	}
	if cfg.Window != 8 {
		t.Errorf("expected window 8, got %d", cfg.Window)
	}
	if cfg.Topology() != life.Wrap {
		t.Error("default topology should wrap")
	}
}

func TestClampSize(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 50},
		{3, 10},
		{10, 10},
		{64, 64},
		{200, 200},
		{1000, 200},
		{-30, 30},
	}
	for _, tt := range tests {
		if got := ClampSize(tt.in); got != tt.want {
			t.Errorf("ClampSize(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestClampInterval(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 10},
		{1, 1},
		{250, 250},
		{5000, 1000},
		{-20, 20},
	}
	for _, tt := range tests {
		if got := ClampInterval(tt.in); got != tt.want {
			t.Errorf("ClampInterval(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	cfg := &Config{GridSize: 999, IntervalMs: -1, Density: 3, Window: 500, ResetDelayMs: -5}
	cfg.Normalize()

	if cfg.GridSize != MaxSize {
		t.Errorf("grid size: got %d", cfg.GridSize)
	}
	if cfg.IntervalMs != 1 {
		t.Errorf("interval: got %d", cfg.IntervalMs)
	}
	if cfg.Density != DefaultDensity {
		t.Errorf("density: got %f", cfg.Density)
	}
	if cfg.Window != MaxWindow {
		t.Errorf("window: got %d", cfg.Window)
	}
	if cfg.ResetDelayMs != DefaultResetDelay {
		t.Errorf("reset delay: got %d", cfg.ResetDelayMs)
	}
	if cfg.Pattern != RandomPattern {
		t.Errorf("pattern: got %q", cfg.Pattern)
	}
	if cfg.Generations != DefaultGenerations {
		t.Errorf("generations: got %d", cfg.Generations)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "life.yaml")

	cfg := DefaultConfig()
	cfg.GridSize = 80
	cfg.Wrap = false
	cfg.AutoReset = true
	cfg.Seed = 42
	cfg.Pattern = "glider"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("expected %+v, got %+v", *cfg, *loaded)
	}
}

func TestGetPreset(t *testing.T) {
	p := GetPreset("glider")
	if p == nil {
		t.Fatal("expected preset, got nil")
	}
	if rows, cols := p.Size(); rows != 3 || cols != 3 {
		t.Errorf("expected 3x3 glider, got %dx%d", rows, cols)
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets)+1 {
		t.Fatalf("expected %d names, got %d", len(Presets)+1, len(names))
	}
	found := false
	for _, n := range names {
		if n == RandomPattern {
			found = true
		}
	}
	if !found {
		t.Error("random should be listed")
	}
}

func TestPatternApply(t *testing.T) {
	g := life.NewGrid(Bounds(), 10)
	g.Fill(life.Live)

	if err := GetPreset("block").Apply(g); err != nil {
		t.Fatal(err)
	}
	if g.Population() != 4 {
		t.Errorf("expected 4 live cells, got %d", g.Population())
	}
	for _, rc := range [][2]int{{4, 4}, {4, 5}, {5, 4}, {5, 5}} {
		if v, _ := g.At(rc[0], rc[1]); v != life.Live {
			t.Errorf("expected (%d,%d) live", rc[0], rc[1])
		}
	}

	g2 := life.NewGrid(life.Bounds{Min: 1, Max: 20}, 5)
	err := GetPreset("pulsar").Apply(g2)
	if !errors.Is(err, ErrPatternTooLarge) {
		t.Errorf("expected ErrPatternTooLarge, got %v", err)
	}
}
