// Package kernel evaluates the Mandelbrot iteration over one tile of a grid.
//
// Kernels are pure: they read the shared grid, allocate their own result and
// touch nothing else, so any number of them may run at once.
package kernel

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/specialistvlad/tilegrid/internal/grid"
)

// DefaultRadius is the divergence radius used when Params.Radius is zero.
const DefaultRadius = 2.0

// Mode selects what a kernel records per point.
type Mode int

const (
	// Counts records the iteration at which each point escaped.
	Counts Mode = iota
	// Mask records whether each point stayed bounded.
	Mask
)

func (m Mode) String() string {
	switch m {
	case Counts:
		return "counts"
	case Mask:
		return "mask"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode maps "counts" or "mask" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", "counts":
		return Counts, nil
	case "mask":
		return Mask, nil
	}
	return 0, fmt.Errorf("%w: unknown mode %q, must be 'counts' or 'mask'", grid.ErrInvalidParameter, s)
}

// Variant selects the arithmetic used by the kernel.
type Variant int

const (
	// Complex iterates on complex128 values one point at a time.
	Complex Variant = iota
	// Real iterates on split real/imaginary rows under an active mask.
	Real
)

func (v Variant) String() string {
	switch v {
	case Complex:
		return "complex"
	case Real:
		return "real"
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

// ParseVariant maps "complex" or "real" to a Variant.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(s) {
	case "", "complex":
		return Complex, nil
	case "real":
		return Real, nil
	}
	return 0, fmt.Errorf("%w: unknown kernel %q, must be 'complex' or 'real'", grid.ErrInvalidParameter, s)
}

// Params are the fixed inputs shared by every tile of one evaluation.
type Params struct {
	MaxIterations int
	// Radius is the escape radius; 0 selects DefaultRadius.
	Radius float64
	Mode          Mode
	Variant       Variant
}

// Validate reports ErrInvalidParameter for values no kernel can work with.
func (p Params) Validate() error {
	if p.MaxIterations <= 0 {
		return fmt.Errorf("%w: max_iterations must be positive, got %d", grid.ErrInvalidParameter, p.MaxIterations)
	}
	if p.Radius < 0 || math.IsNaN(p.Radius) || math.IsInf(p.Radius, 0) {
		return fmt.Errorf("%w: radius must be zero or a positive finite number, got %v", grid.ErrInvalidParameter, p.Radius)
	}
	if p.Mode != Counts && p.Mode != Mask {
		return fmt.Errorf("%w: unknown mode %v", grid.ErrInvalidParameter, p.Mode)
	}
	if p.Variant != Complex && p.Variant != Real {
		return fmt.Errorf("%w: unknown kernel %v", grid.ErrInvalidParameter, p.Variant)
	}
	return nil
}

func (p Params) radius2() float64 {
	r := p.Radius
	if r == 0 {
		r = DefaultRadius
	}
	return r * r
}

// Result is one tile's output, row-major over the tile. Exactly one of the
// slices is set, depending on Params.Mode.
type Result struct {
	Counts  []int
	Bounded []bool
}

// Func computes the result for a single tile.
type Func func(ctx context.Context, g *grid.Grid, t grid.Tile) (Result, error)

// New validates p and returns the kernel it describes.
func New(p Params) (Func, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	var sweep func(ctx context.Context, g *grid.Grid, t grid.Tile, p Params) ([]int, []bool, error)
	switch p.Variant {
	case Real:
		sweep = sweepReal
	default:
		sweep = sweepComplex
	}

	return func(ctx context.Context, g *grid.Grid, t grid.Tile) (Result, error) {
		if t.Rows.Hi > g.Height() || t.Cols.Hi > g.Width() || t.Rows.Lo < 0 || t.Cols.Lo < 0 {
			return Result{}, fmt.Errorf("%v lies outside the %dx%d grid", t, g.Height(), g.Width())
		}
		counts, escaped, err := sweep(ctx, g, t, p)
		if err != nil {
			return Result{}, err
		}
		if p.Mode == Mask {
			bounded := make([]bool, len(escaped))
			for i, e := range escaped {
				bounded[i] = !e
			}
			return Result{Bounded: bounded}, nil
		}
		return Result{Counts: counts}, nil
	}, nil
}

// Escape returns the escape iteration of a single point and whether it
// escaped at all. Points that stay bounded report p.MaxIterations.
func Escape(c complex128, p Params) (int, bool, error) {
	if err := p.Validate(); err != nil {
		return 0, false, err
	}
	k, escaped := escapeComplex(c, p.MaxIterations, p.radius2())
	return k, escaped, nil
}
