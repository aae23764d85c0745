package grid

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartition_CoversGridExactlyOnce(t *testing.T) {
	for _, tc := range []struct{ npts, ndiv int }{
		{1, 1}, {16, 1}, {16, 2}, {16, 4}, {16, 16}, {12, 3}, {30, 5},
	} {
		tiles, err := Partition(tc.npts, tc.ndiv)
		require.NoError(t, err)
		require.Len(t, tiles, tc.ndiv*tc.ndiv)

		hits := make([]int, tc.npts*tc.npts)
		for _, tile := range tiles {
			assert.Equal(t, tc.npts/tc.ndiv, tile.Rows.Len())
			assert.Equal(t, tc.npts/tc.ndiv, tile.Cols.Len())
			for r := tile.Rows.Lo; r < tile.Rows.Hi; r++ {
				for c := tile.Cols.Lo; c < tile.Cols.Hi; c++ {
					hits[r*tc.npts+c]++
				}
			}
		}
		for i, n := range hits {
			require.Equal(t, 1, n, "npts=%d ndiv=%d: cell %d covered %d times", tc.npts, tc.ndiv, i, n)
		}
	}
}

func TestPartition_RowMajorOrder(t *testing.T) {
	tiles, err := Partition(4, 2)
	require.NoError(t, err)

	expected := []Tile{
		{Row: 0, Col: 0, Rows: Span{0, 2}, Cols: Span{0, 2}},
		{Row: 0, Col: 1, Rows: Span{0, 2}, Cols: Span{2, 4}},
		{Row: 1, Col: 0, Rows: Span{2, 4}, Cols: Span{0, 2}},
		{Row: 1, Col: 1, Rows: Span{2, 4}, Cols: Span{2, 4}},
	}
	if diff := cmp.Diff(expected, tiles); diff != "" {
		t.Errorf("Partition() mismatch (-want +got):\n%s", diff)
	}
}

func TestPartition_InvalidDivisor(t *testing.T) {
	testCases := []struct {
		name       string
		npts, ndiv int
	}{
		{name: "not divisible", npts: 10, ndiv: 3},
		{name: "zero divisions", npts: 16, ndiv: 0},
		{name: "negative divisions", npts: 16, ndiv: -2},
		{name: "empty grid", npts: 0, ndiv: 1},
		{name: "more divisions than points", npts: 4, ndiv: 8},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tiles, err := Partition(tc.npts, tc.ndiv)
			require.ErrorIs(t, err, ErrInvalidPartition)
			assert.Nil(t, tiles)
		})
	}
}
