package life

import (
	"hash/crc32"
	"slices"
)

// DefaultWindow is the number of past generations checked for repetition.
const DefaultWindow = 8

var crcTable = crc32.MakeTable(crc32.IEEE)

// Checksum fingerprints a generation with the reflected CRC-32 (0xEDB88320),
// one cell per byte.
func Checksum(cells []uint8) uint32 {
	return crc32.Checksum(cells, crcTable)
}

// Detector remembers the checksums of recent generations and reports when a
// generation repeats one of them. Equal checksums are taken to mean equal
// grids; a collision yields a false positive.
type Detector struct {
	window  int
	history []uint32
	last    uint32
	stable  bool
}

// NewDetector returns a detector with a lookback of window generations.
// Non-positive windows fall back to DefaultWindow.
func NewDetector(window int) *Detector {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Detector{window: window, history: make([]uint32, 0, window+1)}
}

// Observe checksums cells, records it and reports whether it was already in
// the window. Period-1 through period-window cycles are detected.
func (d *Detector) Observe(cells []uint8) bool {
	sum := Checksum(cells)
	d.stable = slices.Contains(d.history, sum)
	d.history = append(d.history, sum)
	if len(d.history) > d.window {
		d.history = append(d.history[:0], d.history[1:]...)
	}
	d.last = sum
	return d.stable
}

// Stable reports the result of the last Observe.
func (d *Detector) Stable() bool { return d.stable }

// Last returns the checksum computed by the last Observe.
func (d *Detector) Last() uint32 { return d.last }

// Window returns the history capacity.
func (d *Detector) Window() int { return d.window }

// History returns a copy of the recorded checksums, oldest first.
func (d *Detector) History() []uint32 { return slices.Clone(d.history) }

// Reset forgets all history.
func (d *Detector) Reset() {
	d.history = d.history[:0]
	d.stable = false
	d.last = 0
}
