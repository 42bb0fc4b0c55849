// Package life provides the simulation core for a square Game of Life grid.
//
// The package is split along the path of a single generation:
//
//   - [Grid]: fixed-capacity cell storage addressed by linear index or (row, col)
//   - [CountNeighbors]: live-neighbor count under a [Topology]
//   - [NextState]: the B3/S23 birth/survival rule
//   - [Step]: one double-buffered generation, reporting changed indices
//   - [Detector]: CRC-32 fingerprints over a bounded window to spot cycles
//
// # Example
//
//	g := life.NewGrid(life.DefaultBounds, 50)
//	g.Randomize(rng, 0.2)
//	det := life.NewDetector(8)
//	changed := life.Step(g, life.Wrap)
//	stable := det.Observe(g.Cells())
//
// # Thread Safety
//
// Nothing in this package is safe for concurrent use. Callers that share a
// grid between goroutines must serialize access, see the session package.
package life
