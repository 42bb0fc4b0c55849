package metrics

import "github.com/dmfiel/game-of-life/internal/session"

// Stability is the fraction of generations that repeated a recent one.
type Stability struct {
	name    string
	stable  int
	samples int
}

func NewStability() *Stability {
	return &Stability{name: "stability"}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(f session.Frame) {
	if f.Reseeded {
		return
	}
	s.samples++
	if f.Stable {
		s.stable++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return float64(s.stable) / float64(s.samples)
}

func (s *Stability) Reset() {
	s.stable = 0
	s.samples = 0
}

// Defaults returns one of each metric, in display order.
func Defaults() []session.Metric {
	return []session.Metric{NewPopulation(), NewChurn(), NewStability()}
}
