package main

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/vertti/spawn/pkg/logging"
)

const envPrefix = "SPAWN"

// Config holds settings read from SPAWN_* environment variables.
type Config struct {
	LogLevel      string `envconfig:"LOG_LEVEL"`
	LogDev        bool   `envconfig:"LOG_DEV"`
	KeepInherited bool   `envconfig:"KEEP_INHERITED"`
	MetricsFile   string `envconfig:"METRICS_FILE"`
}

// LoadConfig starts from DefaultConfig and overrides it with whatever
// SPAWN_* variables are set.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{LogLevel: logging.DefaultConfig().Level}
}
