package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Run("fills defaults", func(t *testing.T) {
		cfg, err := NewConfig(Config{JobPath: "jobs.hcl", WorkerCount: 2})
		require.NoError(t, err)
		assert.Equal(t, ".", cfg.OutputDir)
		assert.Equal(t, "text", cfg.LogFormat)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("keeps explicit values", func(t *testing.T) {
		cfg, err := NewConfig(Config{
			JobPath:     "jobs.hcl",
			OutputDir:   "out",
			LogFormat:   "json",
			LogLevel:    "debug",
			WorkerCount: 8,
			Timeout:     time.Second,
		})
		require.NoError(t, err)
		assert.Equal(t, "out", cfg.OutputDir)
		assert.Equal(t, 8, cfg.WorkerCount)
		assert.Equal(t, time.Second, cfg.Timeout)
	})

	testCases := []struct {
		name string
		cfg  Config
	}{
		{"missing job path", Config{WorkerCount: 1}},
		{"zero workers", Config{JobPath: "a.hcl"}},
		{"negative timeout", Config{JobPath: "a.hcl", WorkerCount: 1, Timeout: -time.Second}},
		{"port out of range", Config{JobPath: "a.hcl", WorkerCount: 1, HealthcheckPort: 70000}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewConfig(tc.cfg)
			require.Error(t, err)
		})
	}
}
