package export

import (
	"image/color"
	"strings"
	"testing"

	"github.com/san-kum/circlesim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

var colors = [2]color.RGBA{{R: 255, A: 255}, {B: 255, A: 255}}

func TestSnapshotToSVG(t *testing.T) {
	cfg := dynamo.DefaultConfig()
	d, err := dynamo.NewDriver(cfg, colors[0], colors[1])
	if err != nil {
		t.Fatal(err)
	}
	for range 10 {
		d.Step(cfg.Dt)
	}

	svg := SnapshotToSVG(d.Snapshot(), cfg, 800, 800)
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("not a complete svg document")
	}
	if !strings.Contains(svg, `r="200.0" fill="none" stroke="#000000"`) {
		t.Error("missing container outline")
	}
	if !strings.Contains(svg, `fill="#ff0000" fill-opacity="0.000"`) {
		t.Error("oldest trail point should be fully transparent")
	}
	// 1 container + 2x10 trail dots + 2 bodies
	if got := strings.Count(svg, "<circle"); got != 1+20+2 {
		t.Errorf("expected 23 circles, got %d", got)
	}
}

func TestTrajectoryToSVG(t *testing.T) {
	cfg := dynamo.DefaultConfig()
	if TrajectoryToSVG(nil, cfg, colors, 800, 800) != "" {
		t.Error("expected empty output without frames")
	}

	frames := make([]dynamo.State, 3)
	for i := range frames {
		frames[i].Bodies[0].Position = r2.Vec{X: 300 + float64(i), Y: 400}
		frames[i].Bodies[1].Position = r2.Vec{X: 500 - float64(i), Y: 400}
	}

	svg := TrajectoryToSVG(frames, cfg, colors, 800, 800)
	if strings.Count(svg, "<path") != 2 {
		t.Error("expected one path per body")
	}
	if !strings.Contains(svg, "M300.0,400.0 L301.0,400.0 L302.0,400.0") {
		t.Error("unexpected path for body A")
	}
	if !strings.Contains(svg, `stroke="#0000ff"`) {
		t.Error("body B path not blue")
	}
}
