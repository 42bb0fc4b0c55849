package metrics

import "github.com/dmfiel/game-of-life/internal/session"

// Population averages the number of live cells per generation.
type Population struct {
	name    string
	samples int
	total   int
	peak    int
}

func NewPopulation() *Population {
	return &Population{name: "population"}
}

func (p *Population) Name() string { return p.name }

func (p *Population) Observe(f session.Frame) {
	p.samples++
	p.total += f.Population
	p.peak = max(p.peak, f.Population)
}

func (p *Population) Value() float64 {
	if p.samples == 0 {
		return 0
	}
	return float64(p.total) / float64(p.samples)
}

// Peak returns the largest population seen.
func (p *Population) Peak() int { return p.peak }

func (p *Population) Reset() {
	p.samples = 0
	p.total = 0
	p.peak = 0
}
