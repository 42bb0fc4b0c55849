package config

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dmfiel/game-of-life/internal/life"
)

// RandomPattern seeds the grid at the configured density instead of stamping
// a preset.
const RandomPattern = "random"

var (
	ErrUnknownPattern  = errors.New("config: unknown pattern")
	ErrPatternTooLarge = errors.New("config: pattern does not fit the grid")
)

// Pattern is a seed drawn with '#' (or 'O') for live cells.
type Pattern struct {
	Name        string
	Description string
	Rows        []string
}

var Presets = map[string]*Pattern{
	"blinker": {
		Name: "blinker", Description: "period 2 oscillator",
		Rows: []string{"###"},
	},
	"block": {
		Name: "block", Description: "2x2 still life",
		Rows: []string{"##", "##"},
	},
	"beacon": {
		Name: "beacon", Description: "period 2 oscillator",
		Rows: []string{"##..", "##..", "..##", "..##"},
	},
	"glider": {
		Name: "glider", Description: "diagonal spaceship",
		Rows: []string{".#.", "..#", "###"},
	},
	"r-pentomino": {
		Name: "r-pentomino", Description: "methuselah, settles after 1103 generations",
		Rows: []string{".##", "##.", ".#."},
	},
	"pulsar": {
		Name: "pulsar", Description: "period 3 oscillator",
		Rows: []string{
			"..###...###..",
			".............",
			"#....#.#....#",
			"#....#.#....#",
			"#....#.#....#",
			"..###...###..",
			".............",
			"..###...###..",
			"#....#.#....#",
			"#....#.#....#",
			"#....#.#....#",
			".............",
			"..###...###..",
		},
	},
}

func GetPreset(name string) *Pattern {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return p
}

// ListPresets returns every seed name, including RandomPattern, sorted.
func ListPresets() []string {
	names := make([]string, 0, len(Presets)+1)
	for name := range Presets {
		names = append(names, name)
	}
	names = append(names, RandomPattern)
	sort.Strings(names)
	return names
}

// Size returns the pattern's bounding box.
func (p *Pattern) Size() (rows, cols int) {
	for _, r := range p.Rows {
		cols = max(cols, len(r))
	}
	return len(p.Rows), cols
}

// Apply kills every cell of g and stamps the pattern in the middle.
func (p *Pattern) Apply(g *life.Grid) error {
	rows, cols := p.Size()
	if rows > g.Size() || cols > g.Size() {
		return fmt.Errorf("%w: %s is %dx%d, grid is %d", ErrPatternTooLarge, p.Name, rows, cols, g.Size())
	}
	g.Fill(life.Dead)
	top, left := (g.Size()-rows)/2, (g.Size()-cols)/2
	for r, line := range p.Rows {
		for c, ch := range line {
			if ch != '#' && ch != 'O' {
				continue
			}
			if err := g.SetAt(top+r, left+c, life.Live); err != nil {
				return err
			}
		}
	}
	return nil
}
