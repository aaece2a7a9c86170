package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/san-kum/circlesim/internal/config"
)

// options are the flags shared by every command.
type options struct {
	dataDir    string
	configFile string
	preset     string
	seed       int64
	gravity    float64
	target     int
	trail      int
	verbose    bool
}

// resolve builds the effective configuration: preset, then config file,
// then any flag the user actually set. A zero seed is replaced by the clock.
func (o *options) resolve(changed func(name string) bool) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if o.preset != "" {
		cfg = config.GetPreset(o.preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", o.preset, config.ListPresets())
		}
	}

	if o.configFile != "" {
		if err := config.Apply(o.configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	if changed("seed") {
		cfg.Seed = o.seed
	}
	if changed("gravity") {
		cfg.Physics.Gravity = o.gravity
	}
	if changed("target") {
		cfg.TargetCollisions = o.target
	}
	if changed("trail") {
		cfg.TrailLength = o.trail
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	if err := cfg.Sim().Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// checkRuns rejects a --runs value that leaves nothing to run.
func checkRuns(n int) error {
	if n < 1 {
		return fmt.Errorf("--runs must be at least 1, got %d", n)
	}
	return nil
}

func (o *options) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
