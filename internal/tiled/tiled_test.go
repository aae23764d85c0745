package tiled

import (
	"context"
	"testing"
	"time"

	"github.com/specialistvlad/tilegrid/internal/dispatch"
	"github.com/specialistvlad/tilegrid/internal/grid"
	"github.com/specialistvlad/tilegrid/internal/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var overview = grid.Bounds{XMin: -2, XMax: 1, YMin: -1.5, YMax: 1.5}

func TestEvaluate_OverviewScenario(t *testing.T) {
	ev, err := Evaluate(context.Background(), Request{
		Bounds:    overview,
		Points:    16,
		Divisions: 4,
		Kernel:    kernel.Params{MaxIterations: 50},
		Workers:   4,
	})
	require.NoError(t, err)
	require.NotNil(t, ev.Counts)
	assert.Nil(t, ev.Bounded)

	assert.Equal(t, 16, ev.Counts.Height)
	assert.Equal(t, 16, ev.Counts.Width)
	require.Len(t, ev.Counts.Data, 256)
	for i, v := range ev.Counts.Data {
		assert.GreaterOrEqual(t, v, 0, "cell %d", i)
		assert.LessOrEqual(t, v, 50, "cell %d", i)
	}
	assert.Len(t, ev.Outcomes, 16)
	assert.NotEmpty(t, ev.Workers())
	assert.LessOrEqual(t, len(ev.Workers()), 4)
	assert.GreaterOrEqual(t, ev.Elapsed(), time.Duration(0))
}

func TestEvaluate_DivisionsDoNotChangeOutput(t *testing.T) {
	for _, variant := range []kernel.Variant{kernel.Complex, kernel.Real} {
		req := Request{
			Bounds:  overview,
			Points:  32,
			Kernel:  kernel.Params{MaxIterations: 100, Variant: variant},
			Workers: 4,
		}

		req.Divisions = 1
		single, err := Evaluate(context.Background(), req)
		require.NoError(t, err)

		for _, ndiv := range []int{2, 4, 8} {
			req.Divisions = ndiv
			tiled, err := Evaluate(context.Background(), req)
			require.NoError(t, err)
			assert.Equal(t, single.Counts.Data, tiled.Counts.Data, "variant %v ndiv %d", variant, ndiv)
		}
	}
}

func TestEvaluate_KnownPointsInEveryPlacement(t *testing.T) {
	// Samples at x = -1,0,1,2 and y = -3,-2,-1,0; row 3 is the real axis.
	bounds := grid.Bounds{XMin: -1, XMax: 2, YMin: -3, YMax: 0}
	for _, ndiv := range []int{1, 2, 4} {
		ev, err := Evaluate(context.Background(), Request{
			Bounds:    bounds,
			Points:    4,
			Divisions: ndiv,
			Kernel:    kernel.Params{MaxIterations: 50},
			Workers:   3,
		})
		require.NoError(t, err)
		assert.Equal(t, 50, ev.Counts.At(3, 1), "c=0 with ndiv=%d", ndiv)
		assert.Equal(t, 3, ev.Counts.At(3, 2), "c=1 with ndiv=%d", ndiv)
		assert.Equal(t, 50, ev.Counts.At(3, 0), "c=-1 with ndiv=%d", ndiv)
	}
}

func TestEvaluate_MaskMode(t *testing.T) {
	bounds := grid.Bounds{XMin: -1, XMax: 2, YMin: -3, YMax: 0}
	ev, err := Evaluate(context.Background(), Request{
		Bounds:    bounds,
		Points:    4,
		Divisions: 2,
		Kernel:    kernel.Params{MaxIterations: 50, Mode: kernel.Mask},
		Workers:   2,
	})
	require.NoError(t, err)
	require.NotNil(t, ev.Bounded)
	assert.Nil(t, ev.Counts)
	assert.True(t, ev.Bounded.At(3, 1), "c=0 stays bounded")
	assert.False(t, ev.Bounded.At(3, 2), "c=1 escapes")
}

func TestEvaluate_InvalidRequests(t *testing.T) {
	valid := Request{Bounds: overview, Points: 16, Divisions: 4, Kernel: kernel.Params{MaxIterations: 50}, Workers: 4}

	testCases := []struct {
		name     string
		mutate   func(*Request)
		expected error
	}{
		{name: "indivisible grid", mutate: func(r *Request) { r.Points, r.Divisions = 10, 3 }, expected: grid.ErrInvalidPartition},
		{name: "zero iterations", mutate: func(r *Request) { r.Kernel.MaxIterations = 0 }, expected: grid.ErrInvalidParameter},
		{name: "no workers", mutate: func(r *Request) { r.Workers = 0 }, expected: grid.ErrInvalidParameter},
		{name: "inverted bounds", mutate: func(r *Request) { r.Bounds.YMin = 5 }, expected: grid.ErrInvalidParameter},
		{name: "negative timeout", mutate: func(r *Request) { r.Timeout = -time.Second }, expected: grid.ErrInvalidParameter},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := valid
			tc.mutate(&req)
			ev, err := Evaluate(context.Background(), req)
			require.ErrorIs(t, err, tc.expected)
			assert.Nil(t, ev)

			if tc.name != "no workers" {
				ev, err = EvaluateSequential(context.Background(), req)
				require.ErrorIs(t, err, tc.expected)
				assert.Nil(t, ev)
			}
		})
	}
}

func TestEvaluateSequential_MatchesParallel(t *testing.T) {
	req := Request{Bounds: overview, Points: 24, Divisions: 3, Kernel: kernel.Params{MaxIterations: 80}, Workers: 3}

	par, err := Evaluate(context.Background(), req)
	require.NoError(t, err)
	seq, err := EvaluateSequential(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, par.Counts.Data, seq.Counts.Data)
	assert.Equal(t, []int{0}, seq.Workers())
}

func TestEvaluateSequential_InvalidPartition(t *testing.T) {
	_, err := EvaluateSequential(context.Background(), Request{Bounds: overview, Points: 10, Divisions: 3, Kernel: kernel.Params{MaxIterations: 5}})
	require.ErrorIs(t, err, grid.ErrInvalidPartition)
}

func TestEvaluateSequential_Timeout(t *testing.T) {
	req := Request{
		Bounds:    overview,
		Points:    256,
		Divisions: 1,
		Kernel:    kernel.Params{MaxIterations: 200_000},
		Workers:   1,
		Timeout:   5 * time.Millisecond,
	}

	start := time.Now()
	ev, err := EvaluateSequential(context.Background(), req)

	require.Error(t, err)
	assert.Nil(t, ev)
	assert.ErrorIs(t, err, dispatch.ErrTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, dispatch.ErrTileComputationFailed)
	assert.Less(t, time.Since(start), 5*time.Second, "the run must stop soon after the deadline")
}

func TestEvaluateSequential_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ev, err := EvaluateSequential(ctx, Request{Bounds: overview, Points: 16, Divisions: 4, Kernel: kernel.Params{MaxIterations: 50}})

	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, ev)
	assert.NotErrorIs(t, err, dispatch.ErrTileComputationFailed)
	assert.NotErrorIs(t, err, dispatch.ErrTimeout)
}
