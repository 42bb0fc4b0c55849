package session

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/dmfiel/game-of-life/internal/config"
	"github.com/dmfiel/game-of-life/internal/life"
)

// Session owns one running simulation: the grid, its topology, the
// stability window and the auto-reset scheduler. A single mutex guards all
// of it, so the deferred reseed never overlaps a Step.
type Session struct {
	mu        sync.Mutex
	grid      *life.Grid
	topology  life.Topology
	detector  *life.Detector
	reset     *AutoReset
	rng       *rand.Rand
	density   float64
	interval  time.Duration
	reseeds   int
	observers []Observer

	bounds life.Bounds
	clock  Clock
	log    *slog.Logger
}

type Option func(*Session)

func WithClock(c Clock) Option { return func(s *Session) { s.clock = c } }

func WithLogger(l *slog.Logger) Option { return func(s *Session) { s.log = l } }

// WithBounds overrides the resize limits, mainly so tests can use tiny grids.
func WithBounds(b life.Bounds) Option { return func(s *Session) { s.bounds = b } }

func WithRand(r *rand.Rand) Option { return func(s *Session) { s.rng = r } }

// New builds an all-dead session from cfg. Out-of-range settings are clamped.
func New(cfg config.Config, opts ...Option) *Session {
	size := cfg.GridSize
	cfg.Normalize()

	s := &Session{
		topology: cfg.Topology(),
		detector: life.NewDetector(cfg.Window),
		density:  cfg.Density,
		interval: cfg.Interval(),
		bounds:   config.Bounds(),
		clock:    SystemClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = slog.New(slog.DiscardHandler)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(uint64(cfg.Seed), uint64(cfg.Seed)>>1))
	}
	s.grid = life.NewGrid(s.bounds, s.sideFor(size))
	s.reset = NewAutoReset(s.clock, cfg.ResetDelay(), s.fireReset)
	s.reset.SetEnabled(cfg.AutoReset)
	return s
}

// AddObserver registers o for every subsequent frame.
func (s *Session) AddObserver(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// Step advances one generation, updates the stability window and, when
// auto-reset is on, arms the deferred reseed. Callers must not overlap Steps
// from different goroutines if they care about frame order.
func (s *Session) Step() Frame {
	s.mu.Lock()
	changed := life.Step(s.grid, s.topology)
	stable := s.detector.Observe(s.grid.Cells())
	armed := s.reset.Observe(stable)
	f := Frame{
		Generation: s.grid.Generation(),
		Changed:    changed,
		Stable:     stable,
		Checksum:   s.detector.Last(),
		Population: s.grid.Population(),
		ResetArmed: armed,
	}
	delay := s.reset.Delay()
	s.mu.Unlock()

	if armed {
		s.log.Debug("auto reset armed", "generation", f.Generation, "delay", delay)
	}
	s.notify(f)
	return f
}

func (s *Session) fireReset(token uint64) {
	s.mu.Lock()
	if !s.reset.Complete(token) {
		s.mu.Unlock()
		return
	}
	f := s.reseedLocked()
	s.reseeds++
	s.mu.Unlock()

	s.log.Info("auto reset", "population", f.Population)
	s.notify(f)
}

func (s *Session) reseedLocked() Frame {
	s.grid.Randomize(s.rng, s.density)
	return s.restartLocked()
}

// restartLocked drops history that no longer describes the grid and returns
// the full-redraw frame for it.
func (s *Session) restartLocked() Frame {
	s.detector.Reset()
	return Frame{
		Generation: s.grid.Generation(),
		Population: s.grid.Population(),
		Reseeded:   true,
	}
}

func (s *Session) cancelLocked(reason string) {
	if s.reset.Cancel() {
		s.log.Debug("auto reset cancelled", "reason", reason)
	}
}

func (s *Session) notify(f Frame) {
	s.mu.Lock()
	obs := slices.Clone(s.observers)
	s.mu.Unlock()
	for _, o := range obs {
		o.OnFrame(f)
	}
}

// Randomize reseeds the grid at the session density and cancels any pending
// automatic reseed.
func (s *Session) Randomize() {
	s.mu.Lock()
	s.cancelLocked("randomize")
	f := s.reseedLocked()
	s.mu.Unlock()
	s.notify(f)
}

// Clear kills every cell.
func (s *Session) Clear() {
	s.mu.Lock()
	s.cancelLocked("clear")
	s.grid.Fill(life.Dead)
	f := s.restartLocked()
	s.mu.Unlock()
	s.notify(f)
}

// Resize clamps n to the session bounds and starts over with an all-dead
// grid. It returns the size applied.
func (s *Session) Resize(n int) int {
	s.mu.Lock()
	s.cancelLocked("resize")
	old := s.grid.Size()
	size := s.grid.Resize(s.sideFor(n))
	f := s.restartLocked()
	s.mu.Unlock()

	s.log.Debug("resize", "from", old, "to", size, "requested", n)
	s.notify(f)
	return size
}

// sideFor applies the config size rule within the session bounds: zero means
// the default side, a negative side uses its magnitude.
func (s *Session) sideFor(n int) int {
	if n == 0 {
		n = config.DefaultSize
	}
	if n < 0 {
		n = -n
	}
	return s.bounds.Clamp(n)
}

// Seed loads a named preset, or random cells for config.RandomPattern.
func (s *Session) Seed(pattern string) error {
	if pattern == config.RandomPattern || pattern == "" {
		s.Randomize()
		return nil
	}
	p := config.GetPreset(pattern)
	if p == nil {
		return fmt.Errorf("%w: %q", config.ErrUnknownPattern, pattern)
	}

	s.mu.Lock()
	s.cancelLocked("seed")
	if err := p.Apply(s.grid); err != nil {
		s.mu.Unlock()
		return err
	}
	f := s.restartLocked()
	s.mu.Unlock()
	s.notify(f)
	return nil
}

// Load replaces the logical cells with cells, which must hold Size()²
// values of 0 or 1. A rejected load leaves the session untouched.
func (s *Session) Load(cells []uint8) error {
	s.mu.Lock()
	if len(cells) != s.grid.Len() {
		s.mu.Unlock()
		return fmt.Errorf("%w: got %d cells for a %d grid", life.ErrIndexOutOfRange, len(cells), s.grid.Size())
	}
	for i, c := range cells {
		if c > life.Live {
			s.mu.Unlock()
			return fmt.Errorf("%w: %d at index %d", life.ErrInvalidCell, c, i)
		}
	}

	s.cancelLocked("load")
	s.grid.Fill(life.Dead)
	copy(s.grid.Cells(), cells)
	f := s.restartLocked()
	s.mu.Unlock()
	s.notify(f)
	return nil
}

// Toggle flips one cell. The stability window is kept, as in an interactive
// edit the next generation decides whether the pattern is still stable.
func (s *Session) Toggle(i int) (uint8, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Toggle(i)
}

// SetWrap switches topology. A change cancels any pending reseed and clears
// the stability window.
func (s *Session) SetWrap(wrap bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	topo := life.TopologyOf(wrap)
	if topo == s.topology {
		return
	}
	s.topology = topo
	s.cancelLocked("topology")
	s.detector.Reset()
}

// SetAutoReset enables or disables automatic reseeding. Disabling cancels a
// pending reseed.
func (s *Session) SetAutoReset(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset.SetEnabled(on)
	if !on {
		s.cancelLocked("auto reset disabled")
	}
}

// SetInterval clamps ms to the allowed step interval and returns it.
func (s *Session) SetInterval(ms int) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interval = time.Duration(config.ClampInterval(ms)) * time.Millisecond
	return s.interval
}

// Close cancels any pending reseed.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked("close")
}

// Cells returns a copy of the logical grid in row-major order.
func (s *Session) Cells() []uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Snapshot()
}

// Checksums returns the stability window, oldest first.
func (s *Session) Checksums() []uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detector.History()
}

func (s *Session) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Size()
}

func (s *Session) Generation() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Generation()
}

func (s *Session) Population() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Population()
}

func (s *Session) Stable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detector.Stable()
}

func (s *Session) Wrap() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.topology == life.Wrap
}

func (s *Session) AutoReset() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reset.Enabled()
}

func (s *Session) ResetPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reset.Pending()
}

func (s *Session) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// Reseeds counts automatic reseeds that actually fired.
func (s *Session) Reseeds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reseeds
}

func (s *Session) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.String()
}
