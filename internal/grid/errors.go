package grid

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter reports a parameter outside its valid domain. It is
	// shared by the kernel and dispatch packages so callers only need one
	// sentinel to check.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidPartition reports a grid size that cannot be cut into equal
	// tiles by the requested divisor.
	ErrInvalidPartition = errors.New("invalid partition")

	// ErrReassembly is matched by every *ReassemblyError.
	ErrReassembly = errors.New("reassembly failed")
)

// ReassemblyError describes a tile result set that does not map one-to-one
// onto the partition.
type ReassemblyError struct {
	Row, Col int
	Reason   string
}

// Error implements the error interface.
func (e *ReassemblyError) Error() string {
	return fmt.Sprintf("reassembly failed at tile (%d,%d): %s", e.Row, e.Col, e.Reason)
}

// Is lets errors.Is match ErrReassembly.
func (e *ReassemblyError) Is(target error) bool {
	return target == ErrReassembly
}
