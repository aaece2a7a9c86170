package export

import (
	"strings"
	"testing"

	"github.com/san-kum/circlesim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

func storedFrames(n int) []dynamo.State {
	frames := make([]dynamo.State, n)
	for i := range frames {
		frames[i].Step = i
		frames[i].Bodies[0].Position = r2.Vec{X: 300 + float64(i), Y: 400}
		frames[i].Bodies[1].Position = r2.Vec{X: 500 - float64(i), Y: 400}
	}
	return frames
}

func TestFrameSnapshot(t *testing.T) {
	cfg := dynamo.DefaultConfig()
	cfg.TrailLength = 4
	frames := storedFrames(10)

	snap, err := FrameSnapshot(frames, 6, cfg, colors)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Step != 6 || snap.Bodies[0].Position.X != 306 {
		t.Errorf("wrong frame: %+v", snap.State)
	}
	if len(snap.Trails[0]) != 4 || snap.Trails[0][0].X != 303 || snap.Trails[0][3].X != 306 {
		t.Errorf("unexpected trail %v", snap.Trails[0])
	}
	if snap.Bodies[1].Color != colors[1] || snap.Bodies[1].Radius != cfg.BodyRadius {
		t.Errorf("body B not filled in: %+v", snap.Bodies[1])
	}

	svg := SnapshotToSVG(snap, cfg, 800, 800)
	if !strings.Contains(svg, `cx="306.0" cy="400.0" r="15.0" fill="#ff0000"`) {
		t.Error("body A disc missing from the rendered frame")
	}
}

func TestFrameSnapshotEarlyStep(t *testing.T) {
	cfg := dynamo.DefaultConfig()
	frames := storedFrames(3)

	snap, err := FrameSnapshot(frames, 0, cfg, colors)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Trails[0]) != 0 {
		t.Errorf("initial frame should have no trail, got %v", snap.Trails[0])
	}

	snap, err = FrameSnapshot(frames, 2, cfg, colors)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Trails[1]) != 2 {
		t.Errorf("expected 2 trail points, got %d", len(snap.Trails[1]))
	}
}

func TestFrameSnapshotMissingStep(t *testing.T) {
	if _, err := FrameSnapshot(storedFrames(3), 9, dynamo.DefaultConfig(), colors); err == nil {
		t.Error("expected an error for a step outside the run")
	}
}
