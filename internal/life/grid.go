package life

import (
	"math/rand/v2"
	"strings"
)

const (
	// Dead and Live are the only valid cell values.
	Dead uint8 = 0
	Live uint8 = 1
)

// Bounds limits the side length a Grid may be resized to.
type Bounds struct {
	Min int
	Max int
}

// DefaultBounds matches the interactive limits of the simulator.
var DefaultBounds = Bounds{Min: 10, Max: 200}

// Clamp returns n pulled into [Min, Max].
func (b Bounds) Clamp(n int) int {
	if n < b.Min {
		return b.Min
	}
	if n > b.Max {
		return b.Max
	}
	return n
}

// Grid is a square cell array of logical side N backed by buffers sized for
// the maximum side. Index i maps to row i/N, column i%N.
type Grid struct {
	bounds     Bounds
	size       int
	cur        []uint8
	next       []uint8
	generation int
}

// NewGrid allocates an all-dead grid. Degenerate bounds are repaired so the
// grid always has at least one cell.
func NewGrid(b Bounds, size int) *Grid {
	if b.Min < 1 {
		b.Min = 1
	}
	if b.Max < b.Min {
		b.Max = b.Min
	}
	capacity := b.Max * b.Max
	return &Grid{
		bounds: b,
		size:   b.Clamp(size),
		cur:    make([]uint8, capacity),
		next:   make([]uint8, capacity),
	}
}

// Size returns the logical side length N.
func (g *Grid) Size() int { return g.size }

// Len returns the number of logical cells, N*N.
func (g *Grid) Len() int { return g.size * g.size }

// Bounds returns the resize limits.
func (g *Grid) Bounds() Bounds { return g.bounds }

// Capacity returns the length of the backing array.
func (g *Grid) Capacity() int { return len(g.cur) }

// Generation returns the number of steps since the last clear, reseed or resize.
func (g *Grid) Generation() int { return g.generation }

// Cells exposes the logical cells in row-major order. The slice aliases the
// live buffer and is only valid until the next Step.
func (g *Grid) Cells() []uint8 { return g.cur[:g.Len()] }

// Snapshot returns a copy of the logical cells.
func (g *Grid) Snapshot() []uint8 {
	out := make([]uint8, g.Len())
	copy(out, g.Cells())
	return out
}

// Index returns the linear index for (row, col).
func (g *Grid) Index(row, col int) int { return row*g.size + col }

// Coords returns (row, col) for a linear index.
func (g *Grid) Coords(i int) (int, int) { return i / g.size, i % g.size }

func (g *Grid) check(i int) error {
	if i < 0 || i >= g.Len() {
		return &IndexError{Index: i, Size: g.size}
	}
	return nil
}

// Get returns the cell at index i.
func (g *Grid) Get(i int) (uint8, error) {
	if err := g.check(i); err != nil {
		return Dead, err
	}
	return g.cur[i], nil
}

// Set writes v to the cell at index i.
func (g *Grid) Set(i int, v uint8) error {
	if err := g.check(i); err != nil {
		return err
	}
	if v > Live {
		return ErrInvalidCell
	}
	g.cur[i] = v
	return nil
}

// Toggle flips the cell at index i and returns its new value.
func (g *Grid) Toggle(i int) (uint8, error) {
	if err := g.check(i); err != nil {
		return Dead, err
	}
	g.cur[i] = Live - g.cur[i]
	return g.cur[i], nil
}

// At returns the cell at (row, col).
func (g *Grid) At(row, col int) (uint8, error) {
	if row < 0 || row >= g.size || col < 0 || col >= g.size {
		return Dead, &IndexError{Index: g.Index(row, col), Size: g.size}
	}
	return g.cur[g.Index(row, col)], nil
}

// SetAt writes v to the cell at (row, col).
func (g *Grid) SetAt(row, col int, v uint8) error {
	if row < 0 || row >= g.size || col < 0 || col >= g.size {
		return &IndexError{Index: g.Index(row, col), Size: g.size}
	}
	return g.Set(g.Index(row, col), v)
}

// Resize clamps n to the grid bounds, kills every cell and resets the
// generation counter. It returns the size actually applied.
func (g *Grid) Resize(n int) int {
	g.size = g.bounds.Clamp(n)
	clear(g.cur)
	clear(g.next)
	g.generation = 0
	return g.size
}

// Fill sets every logical cell to v and resets the generation counter.
func (g *Grid) Fill(v uint8) {
	if v > Live {
		v = Live
	}
	cells := g.Cells()
	for i := range cells {
		cells[i] = v
	}
	g.generation = 0
}

// Randomize marks each logical cell live with probability density and
// resets the generation counter.
func (g *Grid) Randomize(r *rand.Rand, density float64) {
	cells := g.Cells()
	for i := range cells {
		cells[i] = Dead
		if r.Float64() < density {
			cells[i] = Live
		}
	}
	g.generation = 0
}

// Population counts live cells.
func (g *Grid) Population() int {
	n := 0
	for _, c := range g.Cells() {
		n += int(c)
	}
	return n
}

// String draws the grid with '#' for live and '.' for dead cells.
func (g *Grid) String() string {
	var b strings.Builder
	b.Grow(g.Len() + g.size)
	for i, c := range g.Cells() {
		if c == Live {
			b.WriteByte('#')
		} else {
			b.WriteByte('.')
		}
		if (i+1)%g.size == 0 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
