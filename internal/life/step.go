package life

// NextState applies the B3/S23 rule: a cell is live next generation with
// exactly three neighbors, or if it is live now and has exactly two.
func NextState(cur uint8, neighbors int) uint8 {
	if neighbors == 3 || (cur == Live && neighbors == 2) {
		return Live
	}
	return Dead
}

// Step advances g by one generation under topo and returns the indices whose
// value changed, in ascending order. Neighbor counts always read the current
// buffer; results go to the spare buffer, which then becomes current.
func Step(g *Grid, topo Topology) []int {
	n := g.Len()
	cur, next := g.cur[:n], g.next[:n]
	var changed []int
	for i := 0; i < n; i++ {
		next[i] = NextState(cur[i], CountNeighbors(g, i, topo))
		if next[i] != cur[i] {
			changed = append(changed, i)
		}
	}
	g.cur, g.next = g.next, g.cur
	g.generation++
	return changed
}
