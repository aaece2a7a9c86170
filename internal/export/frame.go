package export

import (
	"fmt"
	"image/color"

	"github.com/san-kum/circlesim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// FrameSnapshot rebuilds the snapshot at the given step of a stored run.
// Each trail is the positions of up to cfg.TrailLength frames ending at
// that step; the initial frame is never part of a trail.
func FrameSnapshot(frames []dynamo.State, step int, cfg dynamo.Config, colors [2]color.RGBA) (dynamo.Snapshot, error) {
	idx := -1
	for i, f := range frames {
		if f.Step == step {
			idx = i
			break
		}
	}
	if idx < 0 {
		last := 0
		if len(frames) > 0 {
			last = frames[len(frames)-1].Step
		}
		return dynamo.Snapshot{}, fmt.Errorf("step %d not in run (0..%d)", step, last)
	}

	snap := dynamo.Snapshot{State: frames[idx]}
	start := max(1, idx-cfg.TrailLength+1)
	for i := range 2 {
		snap.Bodies[i].Color = colors[i]
		if snap.Bodies[i].Radius == 0 {
			snap.Bodies[i].Radius = cfg.BodyRadius
		}
		trail := make([]r2.Vec, 0, max(0, idx-start+1))
		for _, f := range frames[start : idx+1] {
			trail = append(trail, f.Bodies[i].Position)
		}
		snap.Trails[i] = trail
	}
	return snap, nil
}
