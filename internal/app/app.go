package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/specialistvlad/tilegrid/internal/ctxlog"
	"github.com/specialistvlad/tilegrid/internal/jobfile"
	"github.com/specialistvlad/tilegrid/internal/progress"
)

// Loader reads job files into the format-agnostic job model.
type Loader interface {
	Load(ctx context.Context, paths ...string) (*jobfile.File, error)
}

// Dialer opens the publisher named by a job file's progress block.
type Dialer func(ctx context.Context, cfg progress.Config) (progress.Publisher, error)

// DialSocketIO is the default Dialer.
func DialSocketIO(ctx context.Context, cfg progress.Config) (progress.Publisher, error) {
	return progress.Dial(ctx, cfg)
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	logger *slog.Logger
	config *Config
	jobs   *jobfile.File
	dial   Dialer

	httpServer *http.Server
	// completed counts finished jobs; reported by the health endpoint.
	completed atomic.Int64
}

// Option customises an App.
type Option func(*App)

// WithDialer replaces the progress publisher dialer.
func WithDialer(d Dialer) Option {
	return func(a *App) { a.dial = d }
}

// NewApp builds the logger and loads the job file. Load failures are
// returned rather than deferred to Run.
func NewApp(ctx context.Context, outW io.Writer, cfg *Config, loader Loader, opts ...Option) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	jobs, err := loader.Load(ctx, cfg.JobPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load jobs: %w", err)
	}
	logger.Debug("Jobs loaded.", "renders", len(jobs.Renders), "sweeps", len(jobs.Sweeps))

	a := &App{
		logger: logger,
		config: cfg,
		jobs:   jobs,
		dial:   DialSocketIO,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Jobs returns the loaded job model. This is primarily for testing.
func (a *App) Jobs() *jobfile.File {
	return a.jobs
}
