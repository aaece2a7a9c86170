package storage

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/circlesim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

func testResult() *dynamo.Result {
	cfg := dynamo.DefaultConfig()
	cfg.Seed = 42

	frames := []dynamo.State{{}, {}}
	frames[0].Bodies[0].Position = r2.Vec{X: 300, Y: 400}
	frames[0].Bodies[1].Position = r2.Vec{X: 500, Y: 400}
	frames[0].Bodies[0].Velocity = r2.Vec{X: 12.5, Y: -3}
	frames[1] = frames[0]
	frames[1].Step = 1
	frames[1].Time = 1
	frames[1].Collisions = 1
	frames[1].Bodies[0].Position = r2.Vec{X: 312.5, Y: 397.123456}

	return &dynamo.Result{
		Config:     cfg,
		Frames:     frames,
		Events:     []dynamo.CollisionEvent{{Step: 1, Time: 1, Count: 1, ImpactSpeed: 9}},
		Metrics:    map[string]float64{"energy": 1.5},
		StepsTaken: 1,
		Collisions: 1,
		Bounces:    2,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save("classic", testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Seed != 42 || meta.Preset != "classic" {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.Metrics["energy"] != 1.5 {
		t.Errorf("expected energy 1.5, got %f", meta.Metrics["energy"])
	}
	if meta.Config != testResult().Config {
		t.Errorf("config did not round trip: %+v", meta.Config)
	}
	if len(meta.Events) != 1 || meta.Events[0].ImpactSpeed != 9 {
		t.Errorf("events did not round trip: %+v", meta.Events)
	}

	states, err := st.LoadStates(runID)
	if err != nil {
		t.Fatalf("load states failed: %v", err)
	}
	if len(states) != 2 {
		t.Fatalf("expected 2 states, got %d", len(states))
	}
	got := states[1]
	if got.Step != 1 || got.Collisions != 1 || got.Time != 1 {
		t.Errorf("unexpected header fields %+v", got)
	}
	if math.Abs(got.Bodies[0].Position.Y-397.123456) > 1e-9 {
		t.Errorf("expected y 397.123456, got %f", got.Bodies[0].Position.Y)
	}
	if got.Bodies[1].Mass != dynamo.DefaultBodyMass || got.Bodies[1].Radius != dynamo.DefaultBodyRadius {
		t.Errorf("expected body parameters from metadata, got %+v", got.Bodies[1])
	}
	if states[0].Bodies[0].Velocity != (r2.Vec{X: 12.5, Y: -3}) {
		t.Errorf("unexpected velocity %v", states[0].Bodies[0].Velocity)
	}
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	runs, err := New(filepath.Join(dir, "missing")).List()
	if err != nil || len(runs) != 0 {
		t.Fatalf("expected empty list for missing dir, got %v %v", runs, err)
	}

	if _, err := st.Save("", testResult()); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestLoadStatesMalformed(t *testing.T) {
	dir := t.TempDir()
	runDir := filepath.Join(dir, "bad")
	if err := os.MkdirAll(runDir, 0755); err != nil {
		t.Fatal(err)
	}
	content := strings.Join(statesHeader, ",") + "\n0,0,x,0,0,0,0,0,0,0,0\n"
	if err := os.WriteFile(filepath.Join(runDir, statesFile), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := New(dir).LoadStates("bad"); err == nil {
		t.Error("expected parse error")
	}
}

func TestExportJSON(t *testing.T) {
	res := testResult()
	meta := &RunMetadata{ID: "r1", Seed: 42, StepsTaken: 1, Collisions: 1, Metrics: res.Metrics, Events: res.Events}

	var buf bytes.Buffer
	if err := ExportJSON(&buf, meta, res.Frames); err != nil {
		t.Fatal(err)
	}

	var out ExportData
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if out.ID != "r1" || len(out.Frames) != 2 {
		t.Errorf("unexpected export %+v", out)
	}
}

func TestExportCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportCSV(&buf, testResult().Frames); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if lines[0] != strings.Join(statesHeader, ",") {
		t.Errorf("unexpected header %q", lines[0])
	}
}
