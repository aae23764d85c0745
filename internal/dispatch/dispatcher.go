package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/specialistvlad/tilegrid/internal/ctxlog"
	"github.com/specialistvlad/tilegrid/internal/grid"
	"github.com/specialistvlad/tilegrid/internal/kernel"
	"golang.org/x/sync/errgroup"
)

// Outcome is a finished tile together with the bookkeeping of who computed
// it and when.
type Outcome struct {
	Tile   grid.Tile
	Result kernel.Result
	Worker int
	Start  time.Time
	End    time.Time
}

// Observer is notified from worker goroutines as tiles start and finish.
// Implementations must be safe for concurrent use.
type Observer interface {
	TileStarted(worker int, t grid.Tile)
	TileFinished(o Outcome, err error)
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithTimeout bounds the wall-clock time of each Run. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(disp *Dispatcher) { disp.timeout = d }
}

// WithObserver registers an observer for tile events.
func WithObserver(o Observer) Option {
	return func(disp *Dispatcher) { disp.observer = o }
}

// Dispatcher owns the pool size and run policy. It holds no per-run state
// and may be reused.
type Dispatcher struct {
	workers  int
	timeout  time.Duration
	observer Observer
}

// New creates a dispatcher with the given number of workers.
func New(workers int, opts ...Option) (*Dispatcher, error) {
	if workers < 1 {
		return nil, fmt.Errorf("%w: worker count must be at least 1, got %d", grid.ErrInvalidParameter, workers)
	}
	d := &Dispatcher{workers: workers}
	for _, opt := range opts {
		opt(d)
	}
	if d.timeout < 0 {
		return nil, fmt.Errorf("%w: timeout must not be negative, got %v", grid.ErrInvalidParameter, d.timeout)
	}
	return d, nil
}

// Workers is the pool size.
func (d *Dispatcher) Workers() int { return d.workers }

// Run computes fn over every tile and returns the outcomes in completion
// order. It blocks until all tiles are done or the run has failed.
func (d *Dispatcher) Run(ctx context.Context, g *grid.Grid, tiles []grid.Tile, fn kernel.Func) ([]Outcome, error) {
	logger := ctxlog.FromContext(ctx)

	runCtx, cancel := ctx, context.CancelFunc(func() {})
	if d.timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, d.timeout)
	}
	defer cancel()

	queue := make(chan grid.Tile, len(tiles))
	for _, t := range tiles {
		queue <- t
	}
	close(queue)

	var (
		mu       sync.Mutex
		outcomes = make([]Outcome, 0, len(tiles))
	)

	eg, egCtx := errgroup.WithContext(runCtx)
	workers := min(d.workers, max(len(tiles), 1))
	logger.Debug("Starting worker pool.", "workers", workers, "tiles", len(tiles))

	for i := 0; i < workers; i++ {
		workerID := i
		eg.Go(func() error {
			return d.worker(egCtx, workerID, queue, g, fn, func(o Outcome) {
				mu.Lock()
				outcomes = append(outcomes, o)
				mu.Unlock()
			})
		})
	}

	if err := eg.Wait(); err != nil {
		if d.timeout > 0 && errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			logger.Error("Tile dispatch timed out.", "timeout", d.timeout, "completed", len(outcomes), "tiles", len(tiles))
			return nil, fmt.Errorf("%w after %v: %w", ErrTimeout, d.timeout, context.DeadlineExceeded)
		}
		logger.Error("Tile dispatch failed.", "error", err, "completed", len(outcomes), "tiles", len(tiles))
		return nil, err
	}

	logger.Debug("All tiles completed.", "tiles", len(outcomes))
	return outcomes, nil
}

// worker drains the queue until it is empty or the run is canceled.
func (d *Dispatcher) worker(ctx context.Context, workerID int, queue <-chan grid.Tile, g *grid.Grid, fn kernel.Func, done func(Outcome)) error {
	logger := ctxlog.FromContext(ctx).With("workerID", workerID)
	logger.Debug("Worker started.")

	for t := range queue {
		if err := ctx.Err(); err != nil {
			logger.Debug("Context canceled, abandoning queued tiles.")
			return err
		}

		tileLogger := logger.With("tile_row", t.Row, "tile_col", t.Col)
		tileLogger.Debug("Worker picked up tile.")
		if d.observer != nil {
			d.observer.TileStarted(workerID, t)
		}

		o := Outcome{Tile: t, Worker: workerID, Start: time.Now()}
		res, err := runTile(ctx, g, t, fn)
		o.End = time.Now()
		o.Result = res

		if err != nil {
			if d.observer != nil {
				d.observer.TileFinished(o, err)
			}
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				tileLogger.Debug("Tile abandoned.", "error", err)
				return ctxErr
			}
			tileLogger.Error("Tile computation failed.", "error", err)
			return &TileError{Tile: t, Worker: workerID, Err: err}
		}

		tileLogger.Debug("Tile computed.", "duration", o.End.Sub(o.Start))
		if d.observer != nil {
			d.observer.TileFinished(o, nil)
		}
		done(o)
	}

	logger.Debug("Worker finished.")
	return nil
}

// runTile turns a kernel panic into an ordinary error so a single bad tile
// fails the run instead of the process.
func runTile(ctx context.Context, g *grid.Grid, t grid.Tile, fn kernel.Func) (res kernel.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("kernel panicked: %v", r)
		}
	}()
	return fn(ctx, g, t)
}
