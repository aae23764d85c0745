package dispatch

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/tilegrid/internal/grid"
)

var (
	// ErrTileComputationFailed is matched by every *TileError.
	ErrTileComputationFailed = errors.New("tile computation failed")

	// ErrTimeout reports that the dispatcher's wall-clock bound ran out.
	ErrTimeout = errors.New("tile dispatch timed out")
)

// TileError wraps the failure of one tile's computation.
type TileError struct {
	Tile   grid.Tile
	Worker int
	Err    error
}

func (e *TileError) Error() string {
	return fmt.Sprintf("%v on worker %d: %v", e.Tile, e.Worker, e.Err)
}

// Unwrap returns the kernel's error.
func (e *TileError) Unwrap() error { return e.Err }

// Is lets errors.Is match ErrTileComputationFailed.
func (e *TileError) Is(target error) bool {
	return target == ErrTileComputationFailed
}
