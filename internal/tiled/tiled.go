// Package tiled is the entry point for a tiled evaluation: it validates a
// request, partitions the grid, dispatches the tiles and reassembles the
// results into one output grid.
package tiled

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/specialistvlad/tilegrid/internal/ctxlog"
	"github.com/specialistvlad/tilegrid/internal/dispatch"
	"github.com/specialistvlad/tilegrid/internal/grid"
	"github.com/specialistvlad/tilegrid/internal/kernel"
)

// Request describes one evaluation over a Points x Points grid.
type Request struct {
	Bounds    grid.Bounds
	Points    int
	Divisions int
	Kernel    kernel.Params
	Workers   int
	Timeout   time.Duration
	Observer  dispatch.Observer
}

// Evaluation is the reassembled output plus the run's bookkeeping. Exactly
// one of Counts and Bounded is set, following Kernel.Mode.
type Evaluation struct {
	Counts   *grid.Output[int]
	Bounded  *grid.Output[bool]
	Outcomes []dispatch.Outcome
	Start    time.Time
	End      time.Time
}

// Elapsed is the wall-clock duration of the run.
func (e *Evaluation) Elapsed() time.Duration { return e.End.Sub(e.Start) }

// Workers returns the distinct worker indices that computed at least one
// tile, in ascending order.
func (e *Evaluation) Workers() []int {
	seen := make(map[int]struct{})
	for _, o := range e.Outcomes {
		seen[o.Worker] = struct{}{}
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// prepare validates the request and builds the grid, tiles and kernel.
// Nothing is computed if it fails.
func prepare(req Request) (*grid.Grid, []grid.Tile, kernel.Func, error) {
	if err := req.Kernel.Validate(); err != nil {
		return nil, nil, nil, err
	}
	if req.Timeout < 0 {
		return nil, nil, nil, fmt.Errorf("%w: timeout must not be negative, got %v", grid.ErrInvalidParameter, req.Timeout)
	}
	tiles, err := grid.Partition(req.Points, req.Divisions)
	if err != nil {
		return nil, nil, nil, err
	}
	g, err := grid.New(req.Bounds, req.Points, req.Points)
	if err != nil {
		return nil, nil, nil, err
	}
	fn, err := kernel.New(req.Kernel)
	if err != nil {
		return nil, nil, nil, err
	}
	return g, tiles, fn, nil
}

// Evaluate runs the request on a pool of req.Workers goroutines.
func Evaluate(ctx context.Context, req Request) (*Evaluation, error) {
	ctx, logger := ctxlog.With(ctx, "points", req.Points, "divisions", req.Divisions)

	g, tiles, fn, err := prepare(req)
	if err != nil {
		return nil, err
	}
	opts := []dispatch.Option{dispatch.WithTimeout(req.Timeout)}
	if req.Observer != nil {
		opts = append(opts, dispatch.WithObserver(req.Observer))
	}
	d, err := dispatch.New(req.Workers, opts...)
	if err != nil {
		return nil, err
	}

	logger.Debug("Dispatching tiles.", "tiles", len(tiles), "workers", req.Workers, "max_iterations", req.Kernel.MaxIterations)
	start := time.Now()
	outcomes, err := d.Run(ctx, g, tiles, fn)
	if err != nil {
		return nil, fmt.Errorf("evaluation failed: %w", err)
	}

	ev, err := assemble(g, req, outcomes)
	if err != nil {
		return nil, err
	}
	ev.Start, ev.End = start, time.Now()
	logger.Debug("Evaluation finished.", "duration", ev.Elapsed())
	return ev, nil
}

// EvaluateSequential computes the same tiles one after another on the
// calling goroutine. It exists as the reference point for speedup figures.
func EvaluateSequential(ctx context.Context, req Request) (*Evaluation, error) {
	g, tiles, fn, err := prepare(req)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := ctx, context.CancelFunc(func() {})
	if req.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, req.Timeout)
	}
	defer cancel()

	start := time.Now()
	outcomes := make([]dispatch.Outcome, 0, len(tiles))
	for _, t := range tiles {
		o := dispatch.Outcome{Tile: t, Start: time.Now()}
		res, err := fn(runCtx, g, t)
		if err != nil {
			if ctxErr := runCtx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				if ctx.Err() == nil && errors.Is(ctxErr, context.DeadlineExceeded) {
					return nil, fmt.Errorf("evaluation failed: %w after %v: %w", dispatch.ErrTimeout, req.Timeout, context.DeadlineExceeded)
				}
				return nil, ctxErr
			}
			return nil, fmt.Errorf("evaluation failed: %w", &dispatch.TileError{Tile: t, Err: err})
		}
		o.Result, o.End = res, time.Now()
		outcomes = append(outcomes, o)
	}

	ev, err := assemble(g, req, outcomes)
	if err != nil {
		return nil, err
	}
	ev.Start, ev.End = start, time.Now()
	return ev, nil
}

func assemble(g *grid.Grid, req Request, outcomes []dispatch.Outcome) (*Evaluation, error) {
	ev := &Evaluation{Outcomes: outcomes}
	switch req.Kernel.Mode {
	case kernel.Mask:
		pieces := make([]grid.Piece[bool], len(outcomes))
		for i, o := range outcomes {
			pieces[i] = grid.Piece[bool]{Tile: o.Tile, Values: o.Result.Bounded}
		}
		out, err := grid.Assemble(g.Height(), g.Width(), req.Divisions, pieces)
		if err != nil {
			return nil, err
		}
		ev.Bounded = out
	default:
		pieces := make([]grid.Piece[int], len(outcomes))
		for i, o := range outcomes {
			pieces[i] = grid.Piece[int]{Tile: o.Tile, Values: o.Result.Counts}
		}
		out, err := grid.Assemble(g.Height(), g.Width(), req.Divisions, pieces)
		if err != nil {
			return nil, err
		}
		ev.Counts = out
	}
	return ev, nil
}
