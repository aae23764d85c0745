package kernel

import (
	"context"

	"github.com/specialistvlad/tilegrid/internal/grid"
)

// escapeComplex iterates z <- z^2 + c from z = 0 and returns the first k >= 1
// with |z_k|^2 > r2. The loop stops there, so the point is frozen at k.
func escapeComplex(c complex128, maxIter int, r2 float64) (int, bool) {
	var z complex128
	for k := 1; k <= maxIter; k++ {
		z = z*z + c
		x, y := real(z), imag(z)
		if float64(x*x)+float64(y*y) > r2 {
			return k, true
		}
	}
	return maxIter, false
}

func sweepComplex(ctx context.Context, g *grid.Grid, t grid.Tile, p Params) ([]int, []bool, error) {
	r2 := p.radius2()
	counts := make([]int, 0, t.Size())
	escaped := make([]bool, 0, t.Size())

	for row := t.Rows.Lo; row < t.Rows.Hi; row++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		for col := t.Cols.Lo; col < t.Cols.Hi; col++ {
			k, e := escapeComplex(g.At(row, col), p.MaxIterations, r2)
			counts = append(counts, k)
			escaped = append(escaped, e)
		}
	}
	return counts, escaped, nil
}
