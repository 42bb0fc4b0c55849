package session

import (
	"errors"
	"time"
)

// ErrInvalidRun indicates a RunConfig that can never finish.
var ErrInvalidRun = errors.New("session: generations must be positive")

// Frame is what a session publishes after each generation or reseed.
type Frame struct {
	Generation int
	Changed    []int
	Stable     bool
	Checksum   uint32
	Population int
	// Reseeded marks a frame produced by the deferred reseed rather than a
	// step; consumers should redraw everything.
	Reseeded bool
	// ResetArmed is set on the step that armed an automatic reseed.
	ResetArmed bool
}

// Observer receives every frame a session publishes, outside the session lock.
type Observer interface {
	OnFrame(f Frame)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Frame)

func (fn ObserverFunc) OnFrame(f Frame) { fn(f) }

// Metric accumulates a scalar over the frames of a run.
type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type RunConfig struct {
	Generations    int
	Interval       time.Duration
	StopWhenStable bool
}

type Result struct {
	Generations int
	// Numbers holds each recorded frame's generation counter, which
	// restarts from 1 after a reseed.
	Numbers     []int
	Populations []int
	Changed     []int
	Stable      []bool
	Checksums   []uint32
	// FirstStable is the generation at which stability was first seen, or -1.
	FirstStable int
	Reseeds     int
	Metrics     map[string]float64
}
