package integration_tests

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/specialistvlad/tilegrid/internal/app"
	"github.com/specialistvlad/tilegrid/internal/progress"
	"github.com/specialistvlad/tilegrid/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSweep_WritesTable runs a sweep alongside a render defined in a
// separate file of the same directory.
func TestSweep_WritesTable(t *testing.T) {
	files := map[string]string{
		"render.hcl": `
render "overview" {
  region         = region.full
  points         = 16
  divisions      = 4
  max_iterations = 50
}
`,
		"sweeps/speedup.hcl": `
sweep "speedup" {
  region         = region.full
  points         = 24
  divisions      = [1, 2, 3, 4]
  max_iterations = 40
  workers        = 2
}
`,
	}

	result := testutil.RunJobs(t, files)

	require.NoError(t, result.Err)
	lines := strings.Split(strings.TrimSpace(result.ReadOutput(t, "speedup.sweep.txt")), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, []string{"divisions", "tiles", "sequential_ms", "parallel_ms", "speedup", "gain"}, strings.Fields(lines[0]))
	for i, want := range []string{"1", "4", "9", "16"} {
		assert.Equal(t, want, strings.Fields(lines[i+1])[1])
	}
	assert.NotEmpty(t, result.ReadOutput(t, "overview.txt"))
	assert.Contains(t, result.LogOutput, "All jobs finished")
}

type memoryPublisher struct {
	mu     sync.Mutex
	events []progress.Event
}

func (p *memoryPublisher) Publish(_ context.Context, e progress.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *memoryPublisher) Close() error { return nil }

// TestProgress_BlockSelectsPublisher verifies a progress block routes tile
// events to the dialed publisher.
func TestProgress_BlockSelectsPublisher(t *testing.T) {
	pub := &memoryPublisher{}
	var url string
	dialer := func(_ context.Context, cfg progress.Config) (progress.Publisher, error) {
		url = cfg.URL
		return pub, nil
	}
	files := map[string]string{
		"main.hcl": `
progress {
  url = "http://localhost:3000"
}

render "watched" {
  region         = region.zoom
  points         = 12
  divisions      = 3
  max_iterations = 30
}
`,
	}

	result := testutil.RunJobs(t, files, app.WithDialer(dialer))

	require.NoError(t, result.Err)
	assert.Equal(t, "http://localhost:3000", url)

	pub.mu.Lock()
	defer pub.mu.Unlock()
	finished := 0
	for _, e := range pub.events {
		assert.Equal(t, "watched", e.Job)
		if e.Kind == progress.TileFinished {
			finished++
		}
	}
	assert.Equal(t, 9, finished)
	last := pub.events[len(pub.events)-1]
	assert.Equal(t, progress.JobFinished, last.Kind)
	assert.Equal(t, 9, last.Done)
}
