package grid

import "fmt"

// Span is a half-open index range [Lo, Hi).
type Span struct {
	Lo, Hi int
}

// Len is the number of indices in the span.
func (s Span) Len() int { return s.Hi - s.Lo }

// Tile is one cell of an ndiv x ndiv partition. Row and Col locate the cell
// inside the partition; Rows and Cols are the grid indices it covers.
type Tile struct {
	Row, Col int
	Rows     Span
	Cols     Span
}

// Size is the number of grid points in the tile.
func (t Tile) Size() int { return t.Rows.Len() * t.Cols.Len() }

func (t Tile) String() string {
	return fmt.Sprintf("tile(%d,%d)[%d:%d,%d:%d]", t.Row, t.Col, t.Rows.Lo, t.Rows.Hi, t.Cols.Lo, t.Cols.Hi)
}

// Partition cuts an npts x npts grid into ndiv x ndiv equal tiles, returned in
// row-major order of (Row, Col). Callers must not depend on that order.
func Partition(npts, ndiv int) ([]Tile, error) {
	if npts < 1 {
		return nil, fmt.Errorf("%w: grid size must be positive, got %d", ErrInvalidPartition, npts)
	}
	if ndiv < 1 {
		return nil, fmt.Errorf("%w: divisions must be at least 1, got %d", ErrInvalidPartition, ndiv)
	}
	if npts%ndiv != 0 {
		return nil, fmt.Errorf("%w: %d points cannot be split into %d equal tiles", ErrInvalidPartition, npts, ndiv)
	}

	side := npts / ndiv
	tiles := make([]Tile, 0, ndiv*ndiv)
	for r := 0; r < ndiv; r++ {
		for c := 0; c < ndiv; c++ {
			tiles = append(tiles, Tile{
				Row:  r,
				Col:  c,
				Rows: Span{Lo: r * side, Hi: (r + 1) * side},
				Cols: Span{Lo: c * side, Hi: (c + 1) * side},
			})
		}
	}
	return tiles, nil
}
