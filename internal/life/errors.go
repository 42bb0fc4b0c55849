package life

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexOutOfRange indicates a cell index outside the logical grid.
	ErrIndexOutOfRange = errors.New("life: cell index out of range")

	// ErrInvalidCell indicates a cell value other than 0 or 1.
	ErrInvalidCell = errors.New("life: cell value must be 0 or 1")
)

// IndexError wraps ErrIndexOutOfRange with the offending access.
type IndexError struct {
	Index int
	Size  int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%v: %d not in [0, %d)", ErrIndexOutOfRange, e.Index, e.Size*e.Size)
}

func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}
