package grid

import (
	"fmt"
	"math"
)

// Bounds is a rectangle of the complex plane. X runs along the real axis and
// Y along the imaginary axis; both ends are inclusive sample positions.
type Bounds struct {
	XMin, XMax float64
	YMin, YMax float64
}

// Validate rejects non-finite and inverted bounds.
func (b Bounds) Validate() error {
	for _, v := range []float64{b.XMin, b.XMax, b.YMin, b.YMax} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: bounds must be finite, got %+v", ErrInvalidParameter, b)
		}
	}
	if b.XMin > b.XMax || b.YMin > b.YMax {
		return fmt.Errorf("%w: inverted bounds %+v", ErrInvalidParameter, b)
	}
	return nil
}

// Grid is the (height, width) lattice of sample points c = X[col] + i*Y[row].
// Only the two axes are stored; every point is derived on access.
type Grid struct {
	bounds Bounds
	x      []float64
	y      []float64
}

// New builds a grid of width columns and height rows spanning b.
func New(b Bounds, width, height int) (*Grid, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: grid size must be positive, got %dx%d", ErrInvalidParameter, width, height)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &Grid{
		bounds: b,
		x:      Linspace(b.XMin, b.XMax, width),
		y:      Linspace(b.YMin, b.YMax, height),
	}, nil
}

// Linspace returns n evenly spaced values from start to end inclusive. A
// single sample holds start.
func Linspace(start, end float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (end - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	// Pin the last sample so rounding never pushes it past end.
	out[n-1] = end
	return out
}

// Width is the number of columns.
func (g *Grid) Width() int { return len(g.x) }

// Height is the number of rows.
func (g *Grid) Height() int { return len(g.y) }

// Bounds returns the region the grid was built over.
func (g *Grid) Bounds() Bounds { return g.bounds }

// At returns the sample point at (row, col).
func (g *Grid) At(row, col int) complex128 {
	return complex(g.x[col], g.y[row])
}

// Real returns the real coordinate of column col.
func (g *Grid) Real(col int) float64 { return g.x[col] }

// Imag returns the imaginary coordinate of row row.
func (g *Grid) Imag(row int) float64 { return g.y[row] }
