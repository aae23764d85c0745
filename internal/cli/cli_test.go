package cli

import (
	"bytes"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("positional job path with defaults", func(t *testing.T) {
		cfg, exit, err := Parse([]string{"jobs.hcl"}, &bytes.Buffer{})
		require.NoError(t, err)
		require.False(t, exit)
		assert.Equal(t, "jobs.hcl", cfg.JobPath)
		assert.Equal(t, ".", cfg.OutputDir)
		assert.Equal(t, runtime.NumCPU(), cfg.WorkerCount)
		assert.Equal(t, time.Duration(0), cfg.Timeout)
		assert.Equal(t, "text", cfg.LogFormat)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("flags override", func(t *testing.T) {
		args := []string{
			"-j", "dir",
			"-out", "results",
			"-workers", "6",
			"-timeout", "2s",
			"-log-format", "JSON",
			"-log-level", "debug",
			"-healthcheck-port", "8080",
		}
		cfg, exit, err := Parse(args, &bytes.Buffer{})
		require.NoError(t, err)
		require.False(t, exit)
		assert.Equal(t, "dir", cfg.JobPath)
		assert.Equal(t, "results", cfg.OutputDir)
		assert.Equal(t, 6, cfg.WorkerCount)
		assert.Equal(t, 2*time.Second, cfg.Timeout)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Equal(t, 8080, cfg.HealthcheckPort)
	})

	t.Run("-job wins over positional", func(t *testing.T) {
		cfg, _, err := Parse([]string{"-job", "a.hcl", "b.hcl"}, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, "a.hcl", cfg.JobPath)
	})

	t.Run("help exits cleanly", func(t *testing.T) {
		var out bytes.Buffer
		cfg, exit, err := Parse([]string{"-h"}, &out)
		require.NoError(t, err)
		assert.True(t, exit)
		assert.Nil(t, cfg)
		assert.Contains(t, out.String(), "tilegrid [options] [JOB_FILE]")
	})

	t.Run("no job path prints usage", func(t *testing.T) {
		var out bytes.Buffer
		_, exit, err := Parse(nil, &out)
		require.NoError(t, err)
		assert.True(t, exit)
		assert.Contains(t, out.String(), "Usage:")
	})

	errorCases := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"-nope", "a.hcl"}},
		{"bad log format", []string{"-log-format", "xml", "a.hcl"}},
		{"bad log level", []string{"-log-level", "trace", "a.hcl"}},
		{"zero workers", []string{"-workers", "0", "a.hcl"}},
		{"negative timeout", []string{"-timeout", "-1s", "a.hcl"}},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			_, exit, err := Parse(tc.args, &bytes.Buffer{})
			require.Error(t, err)
			assert.False(t, exit)
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
		})
	}
}
