package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/specialistvlad/tilegrid/internal/ctxlog"
	"github.com/specialistvlad/tilegrid/internal/grid"
	"github.com/specialistvlad/tilegrid/internal/jobfile"
	"github.com/specialistvlad/tilegrid/internal/kernel"
	"github.com/specialistvlad/tilegrid/internal/progress"
	"github.com/specialistvlad/tilegrid/internal/report"
	"github.com/specialistvlad/tilegrid/internal/tiled"
)

// Run executes every render job and then every sweep job. The first
// failing job stops the run.
func (a *App) Run(ctx context.Context) (err error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	a.startHealthCheckServer()
	defer func() {
		err = errors.Join(err, a.closeHealthCheckServer())
	}()

	if err := os.MkdirAll(a.config.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	pub, err := a.publisher(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := pub.Close(); cerr != nil {
			a.logger.Warn("Closing progress publisher failed.", "error", cerr)
		}
	}()

	total := len(a.jobs.Renders) + len(a.jobs.Sweeps)
	if total == 0 {
		a.logger.Warn("No jobs found, execution not required.")
		return nil
	}

	a.logger.Info("🚀 Starting jobs...", "renders", len(a.jobs.Renders), "sweeps", len(a.jobs.Sweeps))
	for _, r := range a.jobs.Renders {
		if err := a.runRender(ctx, r, pub); err != nil {
			return fmt.Errorf("render %q failed: %w", r.Name, err)
		}
		a.completed.Add(1)
	}
	for _, s := range a.jobs.Sweeps {
		if err := a.runSweep(ctx, s); err != nil {
			return fmt.Errorf("sweep %q failed: %w", s.Name, err)
		}
		a.completed.Add(1)
	}
	a.logger.Info("🏁 All jobs finished.", "count", total)

	a.logger.Debug("App.Run method finished.")
	return nil
}

// publisher dials the progress sink named in the job file, or falls back to
// logging events at debug level.
func (a *App) publisher(ctx context.Context) (progress.Publisher, error) {
	p := a.jobs.Progress
	if p == nil {
		return progress.Log{}, nil
	}
	pub, err := a.dial(ctx, progress.Config{
		URL:                p.URL,
		Namespace:          p.Namespace,
		InsecureSkipVerify: p.InsecureSkipVerify,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect progress publisher: %w", err)
	}
	return pub, nil
}

func (a *App) runRender(ctx context.Context, r *jobfile.Render, pub progress.Publisher) error {
	ctx, logger := ctxlog.With(ctx, "job", r.Name)
	req := a.request(r.Bounds, r.Points, r.Divisions, r.Kernel, r.Workers, r.Timeout)

	obs := progress.NewObserver(ctx, r.Name, r.Divisions*r.Divisions, pub)
	req.Observer = obs

	logger.Info("Render started.", "points", r.Points, "divisions", r.Divisions, "workers", req.Workers, "mode", r.Kernel.Mode)
	ev, err := tiled.Evaluate(ctx, req)
	if err != nil {
		obs.Finish(0, err)
		return err
	}
	obs.Finish(ev.Elapsed(), nil)

	name := r.OutputFile()
	err = a.writeFile(name, func(w io.Writer) error {
		if ev.Bounded != nil {
			return report.WriteMask(w, ev.Bounded)
		}
		return report.WriteCounts(w, ev.Counts)
	})
	if err != nil {
		return err
	}
	if err := a.writeFile(r.TimelineFile(), func(w io.Writer) error {
		return report.WriteTimeline(w, ev)
	}); err != nil {
		return err
	}

	logger.Info("Render finished.", "elapsed", ev.Elapsed(), "workers_used", len(ev.Workers()), "output", name)
	return nil
}

func (a *App) runSweep(ctx context.Context, s *jobfile.Sweep) error {
	ctx, logger := ctxlog.With(ctx, "job", s.Name)
	logger.Info("Sweep started.", "points", s.Points, "divisions", s.Divisions)

	points := make([]report.SweepPoint, 0, len(s.Divisions))
	for _, ndiv := range s.Divisions {
		req := a.request(s.Bounds, s.Points, ndiv, s.Kernel, s.Workers, s.Timeout)

		seq, err := tiled.EvaluateSequential(ctx, req)
		if err != nil {
			return fmt.Errorf("sequential run with %d divisions: %w", ndiv, err)
		}
		par, err := tiled.Evaluate(ctx, req)
		if err != nil {
			return fmt.Errorf("parallel run with %d divisions: %w", ndiv, err)
		}
		logger.Debug("Sweep point measured.", "divisions", ndiv, "sequential", seq.Elapsed(), "parallel", par.Elapsed())
		points = append(points, report.SweepPoint{
			Divisions:  ndiv,
			Sequential: seq.Elapsed(),
			Parallel:   par.Elapsed(),
		})
	}

	name := s.OutputFile()
	if err := a.writeFile(name, func(w io.Writer) error {
		return report.WriteSweep(w, points)
	}); err != nil {
		return err
	}
	logger.Info("Sweep finished.", "output", name)
	return nil
}

// request builds a tiled.Request, filling the worker count and timeout
// from the CLI when the job leaves them unset.
func (a *App) request(b grid.Bounds, points, ndiv int, params kernel.Params, workers int, timeout time.Duration) tiled.Request {
	if workers == 0 {
		workers = a.config.WorkerCount
	}
	if timeout == 0 {
		timeout = a.config.Timeout
	}
	return tiled.Request{
		Bounds:    b,
		Points:    points,
		Divisions: ndiv,
		Kernel:    params,
		Workers:   workers,
		Timeout:   timeout,
	}
}

// writeFile creates name under the output directory and fills it with write.
func (a *App) writeFile(name string, write func(io.Writer) error) (err error) {
	path := filepath.Join(a.config.OutputDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()
	if err := write(f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
