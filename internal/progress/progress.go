// Package progress streams tile events out of a running evaluation.
package progress

import (
	"context"
	"sync"
	"time"

	"github.com/specialistvlad/tilegrid/internal/ctxlog"
	"github.com/specialistvlad/tilegrid/internal/dispatch"
	"github.com/specialistvlad/tilegrid/internal/grid"
)

// Kind names an event; it doubles as the socket.io event name.
type Kind string

// Event kinds.
const (
	TileStarted  Kind = "tile_started"
	TileFinished Kind = "tile_finished"
	JobFinished  Kind = "job_finished"
)

// Event is one progress notification.
type Event struct {
	Kind    Kind
	Job     string
	Row     int
	Col     int
	Worker  int
	Elapsed time.Duration
	// Done and Tiles count finished and total tiles of the job.
	Done  int
	Tiles int
	Err   string
}

// Payload is the JSON-shaped form sent over the wire.
func (e Event) Payload() map[string]any {
	p := map[string]any{
		"job":        e.Job,
		"row":        e.Row,
		"col":        e.Col,
		"worker":     e.Worker,
		"elapsed_ms": e.Elapsed.Milliseconds(),
		"done":       e.Done,
		"tiles":      e.Tiles,
	}
	if e.Err != "" {
		p["error"] = e.Err
	}
	return p
}

// Publisher delivers events somewhere.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Log publishes events to the context logger at debug level.
type Log struct{}

// Publish implements Publisher.
func (Log) Publish(ctx context.Context, e Event) error {
	ctxlog.FromContext(ctx).Debug("Progress event.",
		"kind", e.Kind, "job", e.Job, "row", e.Row, "col", e.Col,
		"worker", e.Worker, "elapsed", e.Elapsed, "done", e.Done, "tiles", e.Tiles)
	return nil
}

// Close implements Publisher.
func (Log) Close() error { return nil }

// Observer adapts a Publisher to dispatch.Observer for one job.
type Observer struct {
	ctx   context.Context
	job   string
	tiles int
	pub   Publisher

	mu   sync.Mutex
	done int
}

var _ dispatch.Observer = (*Observer)(nil)

// NewObserver returns an observer that publishes events for job, which has
// tiles tiles in total.
func NewObserver(ctx context.Context, job string, tiles int, pub Publisher) *Observer {
	return &Observer{ctx: ctx, job: job, tiles: tiles, pub: pub}
}

// TileStarted implements dispatch.Observer.
func (o *Observer) TileStarted(worker int, t grid.Tile) {
	o.mu.Lock()
	done := o.done
	o.mu.Unlock()
	o.publish(Event{Kind: TileStarted, Job: o.job, Row: t.Row, Col: t.Col, Worker: worker, Done: done, Tiles: o.tiles})
}

// TileFinished implements dispatch.Observer.
func (o *Observer) TileFinished(out dispatch.Outcome, err error) {
	e := Event{
		Kind:    TileFinished,
		Job:     o.job,
		Row:     out.Tile.Row,
		Col:     out.Tile.Col,
		Worker:  out.Worker,
		Elapsed: out.End.Sub(out.Start),
		Tiles:   o.tiles,
	}
	o.mu.Lock()
	if err == nil {
		o.done++
	} else {
		e.Err = err.Error()
	}
	e.Done = o.done
	o.mu.Unlock()
	o.publish(e)
}

// Finish publishes the job's final event.
func (o *Observer) Finish(elapsed time.Duration, err error) {
	o.mu.Lock()
	e := Event{Kind: JobFinished, Job: o.job, Elapsed: elapsed, Done: o.done, Tiles: o.tiles}
	o.mu.Unlock()
	if err != nil {
		e.Err = err.Error()
	}
	o.publish(e)
}

// publish never fails the run; delivery problems are only logged.
func (o *Observer) publish(e Event) {
	if err := o.pub.Publish(o.ctx, e); err != nil {
		ctxlog.FromContext(o.ctx).Warn("Failed to publish progress event.", "kind", e.Kind, "job", e.Job, "error", err)
	}
}
