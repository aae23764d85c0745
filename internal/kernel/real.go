package kernel

import (
	"context"

	"github.com/specialistvlad/tilegrid/internal/grid"
)

// sweepReal advances a whole tile row per iteration on split x/y arrays.
// Only points still in the active mask are updated, and a count is written
// exactly once, on the iteration its point leaves the mask.
func sweepReal(ctx context.Context, g *grid.Grid, t grid.Tile, p Params) ([]int, []bool, error) {
	r2 := p.radius2()
	width := t.Cols.Len()
	counts := make([]int, t.Size())
	escaped := make([]bool, t.Size())

	x := make([]float64, width)
	y := make([]float64, width)
	active := make([]bool, width)

	for r := 0; r < t.Rows.Len(); r++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		cy := g.Imag(t.Rows.Lo + r)
		out := counts[r*width : (r+1)*width]
		esc := escaped[r*width : (r+1)*width]

		remaining := width
		for i := range x {
			x[i], y[i], active[i] = 0, 0, true
			out[i] = p.MaxIterations
		}

		for k := 1; k <= p.MaxIterations && remaining > 0; k++ {
			for i := 0; i < width; i++ {
				if !active[i] {
					continue
				}
				cx := g.Real(t.Cols.Lo + i)
				x2, y2 := float64(x[i]*x[i]), float64(y[i]*y[i])
				x[i], y[i] = x2-y2+cx, float64(x[i]*y[i])+float64(x[i]*y[i])+cy
				if float64(x[i]*x[i])+float64(y[i]*y[i]) > r2 {
					active[i] = false
					out[i] = k
					esc[i] = true
					remaining--
				}
			}
		}
	}
	return counts, escaped, nil
}
