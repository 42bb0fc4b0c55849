package life

import "fmt"

// Topology selects how cells on the edge find their neighbors.
type Topology int

const (
	// NoWrap treats positions outside the grid as absent.
	NoWrap Topology = iota
	// Wrap joins opposite edges into a torus.
	Wrap
)

func (t Topology) String() string {
	switch t {
	case Wrap:
		return "wrap"
	case NoWrap:
		return "nowrap"
	default:
		return fmt.Sprintf("Topology(%d)", int(t))
	}
}

// TopologyOf maps a wrap flag to its topology.
func TopologyOf(wrap bool) Topology {
	if wrap {
		return Wrap
	}
	return NoWrap
}

// CountNeighbors returns the number of live cells adjacent to index i, in [0, 8].
// i must be a valid logical index.
func CountNeighbors(g *Grid, i int, topo Topology) int {
	if topo == Wrap {
		return countWrap(g.cur, g.size, i)
	}
	return countNoWrap(g.cur, g.size, i)
}

func cellWrap(cells []uint8, n, row, col int) int {
	row = (row + n) % n
	col = (col + n) % n
	return int(cells[row*n+col])
}

func countWrap(cells []uint8, n, i int) int {
	row, col := i/n, i%n
	count := 0
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			count += cellWrap(cells, n, row+dr, col+dc)
		}
	}
	return count
}

func countNoWrap(cells []uint8, n, i int) int {
	top := i >= n
	bottom := i < n*(n-1)
	count := 0

	if i%n > 0 {
		if top {
			count += int(cells[i-1-n])
		}
		count += int(cells[i-1])
		if bottom {
			count += int(cells[i-1+n])
		}
	}

	if top {
		count += int(cells[i-n])
	}
	if bottom {
		count += int(cells[i+n])
	}

	if i%n < n-1 {
		if top {
			count += int(cells[i+1-n])
		}
		count += int(cells[i+1])
		if bottom {
			count += int(cells[i+1+n])
		}
	}
	return count
}
