package grid

import "fmt"

// Piece is one tile's result, row-major over the tile.
type Piece[T any] struct {
	Tile   Tile
	Values []T
}

// Assemble writes every piece into a freshly allocated height x width output.
// It expects exactly one piece per cell of the ndiv x ndiv partition, in any
// order, and fails without returning an output otherwise.
func Assemble[T any](height, width, ndiv int, pieces []Piece[T]) (*Output[T], error) {
	if ndiv < 1 || height%ndiv != 0 || width%ndiv != 0 {
		return nil, fmt.Errorf("%w: %dx%d grid cannot be split into %d equal tiles", ErrInvalidPartition, height, width, ndiv)
	}
	rowSide, colSide := height/ndiv, width/ndiv

	seen := make([]bool, ndiv*ndiv)
	out := NewOutput[T](height, width)

	for _, p := range pieces {
		t := p.Tile
		if t.Row < 0 || t.Row >= ndiv || t.Col < 0 || t.Col >= ndiv {
			return nil, &ReassemblyError{Row: t.Row, Col: t.Col, Reason: fmt.Sprintf("outside the %dx%d partition", ndiv, ndiv)}
		}
		want := Tile{
			Row:  t.Row,
			Col:  t.Col,
			Rows: Span{Lo: t.Row * rowSide, Hi: (t.Row + 1) * rowSide},
			Cols: Span{Lo: t.Col * colSide, Hi: (t.Col + 1) * colSide},
		}
		if t != want {
			return nil, &ReassemblyError{Row: t.Row, Col: t.Col, Reason: fmt.Sprintf("covers %v, expected %v", t, want)}
		}
		if len(p.Values) != t.Size() {
			return nil, &ReassemblyError{Row: t.Row, Col: t.Col, Reason: fmt.Sprintf("has %d values, expected %d", len(p.Values), t.Size())}
		}
		idx := t.Row*ndiv + t.Col
		if seen[idx] {
			return nil, &ReassemblyError{Row: t.Row, Col: t.Col, Reason: "duplicate result"}
		}
		seen[idx] = true

		cols := t.Cols.Len()
		for r := 0; r < t.Rows.Len(); r++ {
			copy(out.Row(t.Rows.Lo + r)[t.Cols.Lo:t.Cols.Hi], p.Values[r*cols:(r+1)*cols])
		}
	}

	for idx, ok := range seen {
		if !ok {
			return nil, &ReassemblyError{Row: idx / ndiv, Col: idx % ndiv, Reason: "missing result"}
		}
	}
	return out, nil
}
