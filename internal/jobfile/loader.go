package jobfile

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/tilegrid/internal/ctxlog"
	"github.com/specialistvlad/tilegrid/internal/fsutil"
	"github.com/specialistvlad/tilegrid/internal/grid"
	"github.com/specialistvlad/tilegrid/internal/kernel"
)

// Loader reads HCL job files.
type Loader struct{}

// NewLoader creates a new job file loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file under the given paths and merges them into a
// single File. Paths may be files or directories.
func (l *Loader) Load(ctx context.Context, paths ...string) (*File, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Job loader started.", "path_count", len(paths))

	files, err := fsutil.FindFiles(".hcl", paths...)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl job files found in %v", paths)
	}
	logger.Debug("Discovered job files.", "count", len(files))

	parser := hclparse.NewParser()
	evalCtx := newEvalContext()
	out := &File{}
	names := make(map[string]string)
	outputs := make(map[string]string)

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, evalCtx, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, b := range root.Renders {
			r, err := translateRender(b)
			if err != nil {
				return nil, fmt.Errorf("%s: render %q: %w", file, b.Name, err)
			}
			if err := claimName(names, r.Name, file); err != nil {
				return nil, err
			}
			for _, o := range []string{r.OutputFile(), r.TimelineFile()} {
				if err := claimOutput(outputs, o, r.Name, file); err != nil {
					return nil, err
				}
			}
			out.Renders = append(out.Renders, r)
		}
		for _, b := range root.Sweeps {
			s, err := translateSweep(b)
			if err != nil {
				return nil, fmt.Errorf("%s: sweep %q: %w", file, b.Name, err)
			}
			if err := claimName(names, s.Name, file); err != nil {
				return nil, err
			}
			if err := claimOutput(outputs, s.OutputFile(), s.Name, file); err != nil {
				return nil, err
			}
			out.Sweeps = append(out.Sweeps, s)
		}
		for _, b := range root.Progress {
			if out.Progress != nil {
				return nil, fmt.Errorf("%s: only one progress block is allowed", file)
			}
			out.Progress = &Progress{URL: b.URL, Namespace: b.Namespace, InsecureSkipVerify: b.InsecureSkipVerify}
		}
	}

	logger.Debug("Job loading complete.", "renders", len(out.Renders), "sweeps", len(out.Sweeps), "progress", out.Progress != nil)
	return out, nil
}

func claimName(names map[string]string, name, file string) error {
	if prev, ok := names[name]; ok {
		return fmt.Errorf("%s: job %q is already defined in %s", file, name, prev)
	}
	names[name] = file
	return nil
}

// claimOutput rejects a second job writing to the same output file.
func claimOutput(outputs map[string]string, path, job, file string) error {
	if prev, ok := outputs[path]; ok {
		return fmt.Errorf("%s: job %q writes %s, which job %q already writes", file, job, path, prev)
	}
	outputs[path] = job
	return nil
}

func translateRender(b *renderBlock) (*Render, error) {
	bounds, err := resolveBounds(b.region())
	if err != nil {
		return nil, err
	}
	params, err := kernelParams(b.MaxIterations, b.Radius, b.Mode, b.Kernel)
	if err != nil {
		return nil, err
	}
	divisions := b.Divisions
	if divisions == 0 {
		divisions = 1
	}
	if _, err := grid.Partition(b.Points, divisions); err != nil {
		return nil, err
	}
	timeout, err := parseTimeout(b.Timeout)
	if err != nil {
		return nil, err
	}
	if b.Workers < 0 {
		return nil, fmt.Errorf("%w: workers must not be negative, got %d", grid.ErrInvalidParameter, b.Workers)
	}

	return &Render{
		Name:      b.Name,
		Bounds:    bounds,
		Points:    b.Points,
		Divisions: divisions,
		Kernel:    params,
		Workers:   b.Workers,
		Timeout:   timeout,
		Output:    b.Output,
	}, nil
}

func translateSweep(b *sweepBlock) (*Sweep, error) {
	bounds, err := resolveBounds(b.region())
	if err != nil {
		return nil, err
	}
	params, err := kernelParams(b.MaxIterations, b.Radius, "counts", b.Kernel)
	if err != nil {
		return nil, err
	}
	if len(b.Divisions) == 0 {
		return nil, fmt.Errorf("%w: divisions must list at least one value", grid.ErrInvalidParameter)
	}
	for _, d := range b.Divisions {
		if _, err := grid.Partition(b.Points, d); err != nil {
			return nil, err
		}
	}
	timeout, err := parseTimeout(b.Timeout)
	if err != nil {
		return nil, err
	}
	if b.Workers < 0 {
		return nil, fmt.Errorf("%w: workers must not be negative, got %d", grid.ErrInvalidParameter, b.Workers)
	}

	return &Sweep{
		Name:      b.Name,
		Bounds:    bounds,
		Points:    b.Points,
		Divisions: b.Divisions,
		Kernel:    params,
		Workers:   b.Workers,
		Timeout:   timeout,
		Output:    b.Output,
	}, nil
}

func kernelParams(maxIter int, radius float64, mode, variant string) (kernel.Params, error) {
	m, err := kernel.ParseMode(mode)
	if err != nil {
		return kernel.Params{}, err
	}
	v, err := kernel.ParseVariant(variant)
	if err != nil {
		return kernel.Params{}, err
	}
	p := kernel.Params{MaxIterations: maxIter, Radius: radius, Mode: m, Variant: v}
	return p, p.Validate()
}

func parseTimeout(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("failed to parse timeout: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: timeout must not be negative, got %v", grid.ErrInvalidParameter, d)
	}
	return d, nil
}
