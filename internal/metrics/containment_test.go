package metrics

import (
	"image/color"
	"math"
	"testing"

	"github.com/san-kum/circlesim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

var (
	red  = color.RGBA{R: 255, A: 255}
	blue = color.RGBA{B: 255, A: 255}
)

func TestContainment(t *testing.T) {
	cfg := dynamo.DefaultConfig()
	m := NewContainment(cfg)
	if m.Value() != 0 {
		t.Error("expected zero before any sample")
	}

	c := cfg.Container.Center
	m.Observe(stateAt(r2.Add(c, r2.Vec{X: 185.5}), r2.Vec{}, c, r2.Vec{}))
	if math.Abs(m.Value()-0.5) > 1e-9 {
		t.Errorf("expected excess 0.5, got %f", m.Value())
	}

	m.Observe(stateAt(c, r2.Vec{}, c, r2.Vec{}))
	if math.Abs(m.Value()-0.5) > 1e-9 {
		t.Errorf("worst excess should persist, got %f", m.Value())
	}
}

func TestSeparation(t *testing.T) {
	m := NewSeparation()
	m.Observe(stateAt(r2.Vec{}, r2.Vec{}, r2.Vec{X: 40}, r2.Vec{}))
	m.Observe(stateAt(r2.Vec{}, r2.Vec{}, r2.Vec{X: 32}, r2.Vec{}))

	if math.Abs(m.Value()-2) > 1e-12 {
		t.Errorf("expected min gap 2, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestMaxSpeed(t *testing.T) {
	m := NewMaxSpeed()
	m.Observe(stateAt(r2.Vec{}, r2.Vec{X: 3, Y: 4}, r2.Vec{}, r2.Vec{X: 1}))
	m.Observe(stateAt(r2.Vec{}, r2.Vec{X: 1}, r2.Vec{}, r2.Vec{X: 2}))
	if m.Value() != 5 {
		t.Errorf("expected 5, got %f", m.Value())
	}
}

func TestDefaultMetricsOnRun(t *testing.T) {
	cfg := dynamo.DefaultConfig()
	cfg.Seed = 11
	d, err := dynamo.NewDriver(cfg, red, blue)
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range Default(cfg) {
		d.AddMetric(m)
	}

	result, err := d.Run(t.Context(), 2000)
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"energy", "energy_loss", "containment", "min_separation", "max_speed"} {
		if _, ok := result.Metrics[name]; !ok {
			t.Errorf("missing metric %s", name)
		}
	}
	if gap := result.Metrics["min_separation"]; gap < -1e-6 {
		t.Errorf("bodies overlapped: gap %f", gap)
	}
}
