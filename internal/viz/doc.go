// Package viz provides a terminal front end for a life session.
//
// The package implements an interactive TUI using the Bubble Tea framework.
// It is a consumer of session frames: each tick steps the session once and
// repaints only the cells listed in the frame's diff, falling back to a full
// redraw after a reseed, clear or resize.
//
// # Key Bindings
//
//	Space  - Pause/Resume
//	N      - Single step while paused
//	R      - Random reseed
//	C      - Clear
//	W      - Toggle wrap
//	A      - Toggle auto reset
//	+/-    - Faster/slower
//	[ ]    - Shrink/grow the grid
//	Arrows - Move the cursor, Enter toggles the cell under it
//	T      - Cycle color themes
//	?      - Show help overlay
package viz
