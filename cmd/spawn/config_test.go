package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertti/spawn/pkg/spawn"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"SPAWN_LOG_LEVEL", "SPAWN_LOG_DEV", "SPAWN_KEEP_INHERITED", "SPAWN_METRICS_FILE"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("SPAWN_LOG_LEVEL", "debug")
	t.Setenv("SPAWN_LOG_DEV", "true")
	t.Setenv("SPAWN_KEEP_INHERITED", "true")
	t.Setenv("SPAWN_METRICS_FILE", "/tmp/spawn.prom")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, Config{
		LogLevel:      "debug",
		LogDev:        true,
		KeepInherited: true,
		MetricsFile:   "/tmp/spawn.prom",
	}, cfg)
}

func TestLoadConfigInvalidBool(t *testing.T) {
	t.Setenv("SPAWN_KEEP_INHERITED", "sometimes")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestAppStateWritesMetrics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spawn.prom")
	cfg := DefaultConfig()
	cfg.MetricsFile = path

	state, err := newAppState(cfg)
	require.NoError(t, err)

	res := state.launcher.Launch(spawn.Request{Argv: []string{"/nonexistent/program"}})
	require.False(t, res.OK())
	state.close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `spawn_launches_total{outcome="resolution"} 1`)
	assert.Contains(t, string(data), "spawn_launch_duration_seconds_count 1")
}

func TestAppStateCloseNil(t *testing.T) {
	var state *appState
	state.close()
}
