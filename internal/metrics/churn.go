package metrics

import "github.com/dmfiel/game-of-life/internal/session"

// Churn averages the number of cells that flip per generation. Reseed frames
// carry no diff and are skipped.
type Churn struct {
	name    string
	samples int
	flips   int
}

func NewChurn() *Churn {
	return &Churn{name: "churn"}
}

func (c *Churn) Name() string { return c.name }

func (c *Churn) Observe(f session.Frame) {
	if f.Reseeded {
		return
	}
	c.samples++
	c.flips += len(f.Changed)
}

func (c *Churn) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return float64(c.flips) / float64(c.samples)
}

func (c *Churn) Reset() {
	c.samples = 0
	c.flips = 0
}
