package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/circlesim/internal/dynamo"
)

func changedSet(names ...string) func(string) bool {
	set := map[string]bool{}
	for _, n := range names {
		set[n] = true
	}
	return func(name string) bool { return set[name] }
}

func TestResolvePrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	if err := os.WriteFile(path, []byte("seed: 7\ntarget_collisions: 4\nphysics:\n  gravity: 0.2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	opts := &options{preset: "marathon", configFile: path, target: 6, gravity: 99}
	cfg, err := opts.resolve(changedSet("target"))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.TrailLength != 240 {
		t.Errorf("expected preset trail 240, got %d", cfg.TrailLength)
	}
	if cfg.Physics.Gravity != 0.2 || cfg.Seed != 7 {
		t.Errorf("expected file values, got gravity %f seed %d", cfg.Physics.Gravity, cfg.Seed)
	}
	if cfg.TargetCollisions != 6 {
		t.Errorf("expected flag target 6, got %d", cfg.TargetCollisions)
	}
}

func TestResolveRandomSeed(t *testing.T) {
	cfg, err := (&options{}).resolve(changedSet())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Seed == 0 {
		t.Error("expected a clock seed")
	}
}

func TestResolveErrors(t *testing.T) {
	if _, err := (&options{preset: "nope"}).resolve(changedSet()); err == nil {
		t.Error("expected unknown preset error")
	}

	_, err := (&options{trail: 0}).resolve(changedSet("trail"))
	if !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestCheckRuns(t *testing.T) {
	tests := []struct {
		n    int
		want bool
	}{
		{1, true},
		{16, true},
		{0, false},
		{-1, false},
	}
	for _, tt := range tests {
		if err := checkRuns(tt.n); (err == nil) != tt.want {
			t.Errorf("checkRuns(%d) = %v", tt.n, err)
		}
	}
}
