package jobfile

import (
	"path/filepath"
	"time"

	"github.com/specialistvlad/tilegrid/internal/grid"
	"github.com/specialistvlad/tilegrid/internal/kernel"
)

// File is the merged content of every loaded job file.
type File struct {
	Renders  []*Render
	Sweeps   []*Sweep
	Progress *Progress
}

// Render evaluates one region once and writes the result.
type Render struct {
	Name      string
	Bounds    grid.Bounds
	Points    int
	Divisions int
	Kernel    kernel.Params
	// Workers and Timeout are zero when the file leaves them to the CLI.
	Workers int
	Timeout time.Duration
	Output  string
}

// OutputFile is the result file, relative to the output directory.
func (r *Render) OutputFile() string {
	if r.Output != "" {
		return filepath.Clean(r.Output)
	}
	return r.Name + ".txt"
}

// TimelineFile is the per-worker timeline written next to the result.
func (r *Render) TimelineFile() string {
	return r.Name + ".timeline.txt"
}

// Sweep times one region at several division counts.
type Sweep struct {
	Name      string
	Bounds    grid.Bounds
	Points    int
	Divisions []int
	Kernel    kernel.Params
	Workers   int
	Timeout   time.Duration
	Output    string
}

// OutputFile is the sweep table file, relative to the output directory.
func (s *Sweep) OutputFile() string {
	if s.Output != "" {
		return filepath.Clean(s.Output)
	}
	return s.Name + ".sweep.txt"
}

// Progress configures where tile events are streamed.
type Progress struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
}
