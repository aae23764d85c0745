package grid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinspace(t *testing.T) {
	testCases := []struct {
		name       string
		start, end float64
		n          int
		expected   []float64
	}{
		{name: "single sample holds start", start: -2, end: 1, n: 1, expected: []float64{-2}},
		{name: "two samples are the ends", start: -2, end: 1, n: 2, expected: []float64{-2, 1}},
		{name: "four samples", start: -1.5, end: 1.5, n: 4, expected: []float64{-1.5, -0.5, 0.5, 1.5}},
		{name: "descending", start: 1, end: -1, n: 3, expected: []float64{1, 0, -1}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Linspace(tc.start, tc.end, tc.n)
			require.Len(t, got, len(tc.expected))
			for i := range got {
				assert.InDelta(t, tc.expected[i], got[i], 1e-12, "index %d", i)
			}
		})
	}
}

func TestNew_CoordinateMapping(t *testing.T) {
	g, err := New(Bounds{XMin: -2, XMax: 1, YMin: -1.5, YMax: 1.5}, 4, 3)
	require.NoError(t, err)

	assert.Equal(t, 4, g.Width())
	assert.Equal(t, 3, g.Height())
	assert.Equal(t, complex(-2, -1.5), g.At(0, 0))
	assert.Equal(t, complex(1, 1.5), g.At(2, 3))
	assert.InDelta(t, -1.0, real(g.At(1, 1)), 1e-12)
	assert.InDelta(t, 0.0, imag(g.At(1, 1)), 1e-12)
}

func TestNew_Rejects(t *testing.T) {
	testCases := []struct {
		name   string
		bounds Bounds
		w, h   int
	}{
		{name: "zero width", bounds: Bounds{XMax: 1, YMax: 1}, w: 0, h: 4},
		{name: "negative height", bounds: Bounds{XMax: 1, YMax: 1}, w: 4, h: -1},
		{name: "inverted x", bounds: Bounds{XMin: 1, XMax: -1, YMax: 1}, w: 4, h: 4},
		{name: "nan bound", bounds: Bounds{XMin: math.NaN(), XMax: 1, YMax: 1}, w: 4, h: 4},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.bounds, tc.w, tc.h)
			require.ErrorIs(t, err, ErrInvalidParameter)
		})
	}
}
