package session

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/dmfiel/game-of-life/internal/config"
	"github.com/dmfiel/game-of-life/internal/life"
)

func newTestSession(t *testing.T, mutate func(*config.Config), opts ...Option) *Session {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.GridSize = 10
	cfg.Seed = 1
	if mutate != nil {
		mutate(cfg)
	}
	s := New(*cfg, append([]Option{WithClock(&manualClock{})}, opts...)...)
	t.Cleanup(s.Close)
	return s
}

func TestSessionBlinker(t *testing.T) {
	s := newTestSession(t, func(c *config.Config) {
		c.GridSize = 3
		c.Wrap = false
	}, WithBounds(life.Bounds{Min: 1, Max: 10}))

	if err := s.Load([]uint8{0, 0, 0, 1, 1, 1, 0, 0, 0}); err != nil {
		t.Fatal(err)
	}

	f := s.Step()
	if !slices.Equal(s.Cells(), []uint8{0, 1, 0, 0, 1, 0, 0, 1, 0}) {
		t.Errorf("unexpected cells %v", s.Cells())
	}
	if !slices.Equal(f.Changed, []int{1, 3, 5, 7}) {
		t.Errorf("unexpected changed %v", f.Changed)
	}
	if f.Generation != 1 || f.Population != 3 {
		t.Errorf("unexpected frame %+v", f)
	}
}

func TestSessionLoadSizeMismatch(t *testing.T) {
	s := newTestSession(t, nil)
	if err := s.Load([]uint8{1, 0}); !errors.Is(err, life.ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestSessionLoadInvalidCellKeepsState(t *testing.T) {
	s := newTestSession(t, func(c *config.Config) {
		c.GridSize = 3
		c.Wrap = false
	}, WithBounds(life.Bounds{Min: 1, Max: 10}))
	if err := s.Load([]uint8{0, 0, 0, 1, 1, 1, 0, 0, 0}); err != nil {
		t.Fatal(err)
	}
	s.Step()
	s.Step()

	cells := s.Cells()
	history := s.Checksums()
	gen := s.Generation()

	err := s.Load([]uint8{1, 1, 1, 2, 0, 0, 0, 0, 0})
	if !errors.Is(err, life.ErrInvalidCell) {
		t.Fatalf("expected ErrInvalidCell, got %v", err)
	}
	if !slices.Equal(s.Cells(), cells) {
		t.Errorf("cells changed to %v, want %v", s.Cells(), cells)
	}
	if s.Generation() != gen {
		t.Errorf("generation changed to %d, want %d", s.Generation(), gen)
	}
	if !slices.Equal(s.Checksums(), history) {
		t.Errorf("history changed to %v, want %v", s.Checksums(), history)
	}
}

func TestSessionLoadPublishesFrame(t *testing.T) {
	s := newTestSession(t, func(c *config.Config) { c.GridSize = 3 }, WithBounds(life.Bounds{Min: 1, Max: 10}))
	s.Step()

	var frames []Frame
	s.AddObserver(ObserverFunc(func(f Frame) { frames = append(frames, f) }))
	if err := s.Load([]uint8{1, 1, 0, 1, 1, 0, 0, 0, 0}); err != nil {
		t.Fatal(err)
	}

	if len(frames) != 1 || !frames[0].Reseeded {
		t.Fatalf("expected one reseed frame, got %+v", frames)
	}
	if frames[0].Generation != 0 || frames[0].Population != 4 {
		t.Errorf("unexpected frame %+v", frames[0])
	}
	if len(s.Checksums()) != 0 {
		t.Errorf("expected empty history, got %v", s.Checksums())
	}
}

func TestSessionSizeRule(t *testing.T) {
	tests := []struct {
		name string
		size int
		want int
	}{
		{"zero is default", 0, config.DefaultSize},
		{"negative uses magnitude", -60, 60},
		{"below minimum", 3, config.MinSize},
		{"above maximum", -500, config.MaxSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t, func(c *config.Config) { c.GridSize = tt.size })
			if s.Size() != tt.want {
				t.Errorf("New: expected %d, got %d", tt.want, s.Size())
			}
			if got := s.Resize(tt.size); got != tt.want {
				t.Errorf("Resize: expected %d, got %d", tt.want, got)
			}
			if got := config.ClampSize(tt.size); got != tt.want {
				t.Errorf("ClampSize: expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestSessionResizeResets(t *testing.T) {
	s := newTestSession(t, nil)
	s.Randomize()
	for i := 0; i < 5; i++ {
		s.Step()
	}
	if len(s.Checksums()) != 5 {
		t.Fatalf("expected 5 checksums, got %d", len(s.Checksums()))
	}

	if got := s.Resize(500); got != config.MaxSize {
		t.Errorf("expected size clamped to %d, got %d", config.MaxSize, got)
	}
	if s.Generation() != 0 {
		t.Errorf("expected generation 0, got %d", s.Generation())
	}
	if len(s.Checksums()) != 0 {
		t.Errorf("expected empty history, got %v", s.Checksums())
	}
	if s.Population() != 0 {
		t.Errorf("expected dead grid, got population %d", s.Population())
	}
	if got := s.Resize(1); got != config.MinSize {
		t.Errorf("expected size clamped to %d, got %d", config.MinSize, got)
	}
}

func TestSessionHistoryBounded(t *testing.T) {
	s := newTestSession(t, func(c *config.Config) { c.Window = 4 })
	if err := s.Seed("glider"); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 30; i++ {
		s.Step()
		if n := len(s.Checksums()); n > 4 {
			t.Fatalf("history grew to %d", n)
		}
	}
}

func TestSessionToggle(t *testing.T) {
	s := newTestSession(t, nil)
	v, err := s.Toggle(5)
	if err != nil || v != life.Live {
		t.Fatalf("toggle: %d, %v", v, err)
	}
	if s.Population() != 1 {
		t.Errorf("expected 1 live cell, got %d", s.Population())
	}
	if _, err := s.Toggle(100); !errors.Is(err, life.ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestSessionSettings(t *testing.T) {
	s := newTestSession(t, nil)

	if got := s.SetInterval(5000); got != time.Second {
		t.Errorf("expected 1s, got %v", got)
	}
	if got := s.SetInterval(0); got != 10*time.Millisecond {
		t.Errorf("expected default 10ms, got %v", got)
	}
	if !s.Wrap() {
		t.Error("default session should wrap")
	}
	s.SetWrap(false)
	if s.Wrap() {
		t.Error("wrap should be off")
	}
	if s.AutoReset() {
		t.Error("auto reset should default off")
	}
}

func TestSessionSeedUnknown(t *testing.T) {
	s := newTestSession(t, nil)
	if err := s.Seed("nope"); !errors.Is(err, config.ErrUnknownPattern) {
		t.Errorf("expected ErrUnknownPattern, got %v", err)
	}
}

func TestSessionDeterministicSeed(t *testing.T) {
	a := newTestSession(t, func(c *config.Config) { c.Seed = 99 })
	b := newTestSession(t, func(c *config.Config) { c.Seed = 99 })
	a.Randomize()
	b.Randomize()
	if !slices.Equal(a.Cells(), b.Cells()) {
		t.Error("same seed should give the same grid")
	}
}

func TestSessionObservers(t *testing.T) {
	s := newTestSession(t, nil)
	var gens []int
	s.AddObserver(ObserverFunc(func(f Frame) { gens = append(gens, f.Generation) }))

	s.Step()
	s.Step()
	s.Clear()

	if !slices.Equal(gens, []int{1, 2, 0}) {
		t.Errorf("unexpected generations %v", gens)
	}
}

func TestRunnerStopWhenStable(t *testing.T) {
	s := newTestSession(t, nil)
	if err := s.Seed("block"); err != nil {
		t.Fatal(err)
	}

	res, err := NewRunner(s).Run(context.Background(), RunConfig{Generations: 50, StopWhenStable: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.Generations != 2 || res.FirstStable != 2 {
		t.Errorf("expected stop at generation 2, got %d (first stable %d)", res.Generations, res.FirstStable)
	}
	if !slices.Equal(res.Stable, []bool{false, true}) {
		t.Errorf("unexpected stable flags %v", res.Stable)
	}
	if !slices.Equal(res.Populations, []int{4, 4}) {
		t.Errorf("unexpected populations %v", res.Populations)
	}
}

func TestRunnerRecordsGenerationAcrossReseed(t *testing.T) {
	clock := &manualClock{}
	s := newTestSession(t, func(c *config.Config) { c.AutoReset = true }, WithClock(clock))
	if err := s.Seed("block"); err != nil {
		t.Fatal(err)
	}
	fired := false
	s.AddObserver(ObserverFunc(func(f Frame) {
		if f.ResetArmed && !fired {
			fired = true
			clock.FireAll()
		}
	}))

	res, err := NewRunner(s).Run(context.Background(), RunConfig{Generations: 4})
	if err != nil {
		t.Fatal(err)
	}
	if res.Reseeds != 1 {
		t.Fatalf("expected 1 reseed, got %d", res.Reseeds)
	}
	if !slices.Equal(res.Numbers, []int{1, 2, 1, 2}) {
		t.Errorf("unexpected generation numbers %v", res.Numbers)
	}
}

func TestRunnerInterval(t *testing.T) {
	s := newTestSession(t, nil)
	res, err := NewRunner(s).Run(context.Background(), RunConfig{Generations: 5, Interval: time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}
	if res.Generations != 5 || s.Generation() != 5 {
		t.Errorf("expected 5 generations, got %d", res.Generations)
	}
	if res.FirstStable != 2 {
		t.Errorf("empty grid should be stable from generation 2, got %d", res.FirstStable)
	}
}

func TestRunnerCancelled(t *testing.T) {
	s := newTestSession(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := NewRunner(s).Run(ctx, RunConfig{Generations: 10})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if res == nil || res.Generations != 0 {
		t.Errorf("expected empty partial result, got %+v", res)
	}
}

func TestRunnerInvalidConfig(t *testing.T) {
	s := newTestSession(t, nil)
	if _, err := NewRunner(s).Run(context.Background(), RunConfig{}); !errors.Is(err, ErrInvalidRun) {
		t.Errorf("expected ErrInvalidRun, got %v", err)
	}
}

type countMetric struct{ n int }

func (c *countMetric) Name() string   { return "count" }
func (c *countMetric) Observe(Frame)  { c.n++ }
func (c *countMetric) Value() float64 { return float64(c.n) }
func (c *countMetric) Reset()         { c.n = 0 }

func TestEnsemble(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.GridSize = 12
	cfg.Pattern = "block"

	e := NewEnsemble(*cfg, 4, 10, WithClock(&manualClock{}))
	e.Metrics = func() []Metric { return []Metric{&countMetric{}} }

	results, err := e.Run(context.Background(), RunConfig{Generations: 20, StopWhenStable: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, r := range results {
		if r.FirstStable != 2 {
			t.Errorf("run %d: expected stable at 2, got %d", i, r.FirstStable)
		}
		if r.Metrics["count"] != 2 {
			t.Errorf("run %d: expected metric 2, got %f", i, r.Metrics["count"])
		}
	}
}

func TestEnsembleBadPattern(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Pattern = "missing"
	_, err := NewEnsemble(*cfg, 2, 0, WithClock(&manualClock{})).Run(context.Background(), RunConfig{Generations: 1})
	if !errors.Is(err, config.ErrUnknownPattern) {
		t.Errorf("expected ErrUnknownPattern, got %v", err)
	}
}
