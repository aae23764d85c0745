package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/tilegrid/internal/app"
	"github.com/specialistvlad/tilegrid/internal/jobfile"
	"github.com/stretchr/testify/require"
)

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput string
	Err       error
	App       *app.App
	OutputDir string
}

// ReadOutput returns the content of a file the run wrote.
func (r *HarnessResult) ReadOutput(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(r.OutputDir, name))
	require.NoError(t, err)
	return string(data)
}

// RunJobs provides a standardized harness for running integration tests
// using a default background context.
func RunJobs(t *testing.T, files map[string]string, opts ...app.Option) *HarnessResult {
	t.Helper()
	return RunJobsWithContext(context.Background(), t, files, opts...)
}

// RunJobsWithContext writes files into a temporary job directory, loads
// them and runs every job. A load failure is reported in Err with a nil App.
func RunJobsWithContext(ctx context.Context, t *testing.T, files map[string]string, opts ...app.Option) *HarnessResult {
	t.Helper()

	root := t.TempDir()
	jobDir := filepath.Join(root, "jobs")
	outDir := filepath.Join(root, "out")
	require.NoError(t, os.Mkdir(jobDir, 0755))

	for name, content := range files {
		path := filepath.Join(jobDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	cfg, err := app.NewConfig(app.Config{
		JobPath:     jobDir,
		OutputDir:   outDir,
		LogLevel:    "debug",
		LogFormat:   "text",
		WorkerCount: 4,
	})
	require.NoError(t, err)

	logBuffer := &SafeBuffer{}
	t.Cleanup(func() {
		if os.Getenv("TILEGRID_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	testApp, err := app.NewApp(ctx, logBuffer, cfg, jobfile.NewLoader(), opts...)
	if err != nil {
		return &HarnessResult{LogOutput: logBuffer.String(), Err: err, OutputDir: outDir}
	}
	runErr := testApp.Run(ctx)

	return &HarnessResult{
		LogOutput: logBuffer.String(),
		Err:       runErr,
		App:       testApp,
		OutputDir: outDir,
	}
}
