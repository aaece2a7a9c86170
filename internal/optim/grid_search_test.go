package optim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/circlesim/internal/dynamo"
)

func TestParseParam(t *testing.T) {
	p, err := ParseParam("gravity=0.05, 0.1,0.2")
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "gravity" || len(p.Values) != 3 || p.Values[1] != 0.1 {
		t.Errorf("unexpected param %+v", p)
	}

	for _, bad := range []string{"gravity", "spin=1", "gravity=a,b"} {
		if _, err := ParseParam(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestMeanSteps(t *testing.T) {
	results := []*dynamo.Result{
		{Completed: true, StepsTaken: 100},
		{Completed: false, StepsTaken: 5000},
		{Completed: true, StepsTaken: 300},
	}
	if got := MeanSteps(results); got != 200 {
		t.Errorf("expected 200, got %f", got)
	}
	if !math.IsInf(MeanSteps(results[1:2]), 1) {
		t.Error("expected +Inf with no completed run")
	}
}

func TestGridSearch(t *testing.T) {
	base := dynamo.DefaultConfig()
	base.TargetCollisions = 1
	params := []Param{
		{Name: "gravity", Values: []float64{0, 0.1}},
		{Name: "restitution", Values: []float64{0.9, 1.0, 2.0}},
	}

	// score by gravity so the best cell is known in advance
	score := func(results []*dynamo.Result) float64 { return results[0].Config.Gravity }

	best, points, err := NewGridSearch(params, 2, 1, 200).Search(context.Background(), base, score)
	if err != nil {
		t.Fatal(err)
	}

	// restitution 2.0 is invalid and skipped
	if len(points) != 4 {
		t.Fatalf("expected 4 evaluated cells, got %d", len(points))
	}
	if best.Params["gravity"] != 0 || best.Params["restitution"] != 0.9 {
		t.Errorf("unexpected best %+v", best.Params)
	}
	for _, p := range points {
		if p.Runs != 2 || len(p.Params) != 2 {
			t.Errorf("unexpected cell %+v", p)
		}
	}
}

func TestGridSearchNoValidCell(t *testing.T) {
	params := []Param{{Name: "restitution", Values: []float64{5}}}
	_, _, err := NewGridSearch(params, 1, 1, 10).Search(context.Background(), dynamo.DefaultConfig(), MeanSteps)
	if err == nil {
		t.Error("expected an error when every cell is invalid")
	}
}

func TestGridSearchRejectsBadRunCount(t *testing.T) {
	params := []Param{{Name: "gravity", Values: []float64{0.1}}}
	_, points, err := NewGridSearch(params, -3, 1, 10).Search(context.Background(), dynamo.DefaultConfig(), MeanSteps)
	if !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if len(points) != 0 {
		t.Errorf("expected no cells evaluated, got %d", len(points))
	}
}
