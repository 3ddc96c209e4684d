package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/vertti/spawn/pkg/logging"
	"github.com/vertti/spawn/pkg/pathsearch"
	"github.com/vertti/spawn/pkg/spawn"
)

// appState is built once per invocation from the loaded Config.
type appState struct {
	cfg      Config
	logger   *zap.Logger
	registry *prometheus.Registry
	resolver *pathsearch.Resolver
	launcher *spawn.Launcher
}

var app *appState

func newAppState(cfg Config) (*appState, error) {
	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.LogLevel
	logCfg.Development = cfg.LogDev
	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	registry := prometheus.NewRegistry()
	metrics, err := spawn.NewMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	resolver := pathsearch.New()
	return &appState{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		resolver: resolver,
		launcher: spawn.New(spawn.Options{
			Logger:        logger,
			Metrics:       metrics,
			Resolver:      resolver,
			KeepInherited: cfg.KeepInherited,
		}),
	}, nil
}

// close writes the metrics textfile if one is configured and flushes logs.
func (a *appState) close() {
	if a == nil {
		return
	}
	if a.cfg.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(a.cfg.MetricsFile, a.registry); err != nil {
			a.logger.Warn("failed to write metrics", zap.String("path", a.cfg.MetricsFile), zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
