package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/circlesim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
)

var statesHeader = []string{"step", "time", "ax", "ay", "avx", "avy", "bx", "by", "bvx", "bvy", "collisions"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string                  `json:"id"`
	Timestamp  time.Time               `json:"timestamp"`
	Preset     string                  `json:"preset,omitempty"`
	Seed       int64                   `json:"seed"`
	Config     dynamo.Config           `json:"config"`
	StepsTaken int                     `json:"steps_taken"`
	Collisions int                     `json:"collisions"`
	Bounces    int                     `json:"bounces"`
	Completed  bool                    `json:"completed"`
	Metrics    map[string]float64      `json:"metrics"`
	Events     []dynamo.CollisionEvent `json:"events"`
}

// Save writes result under a new run directory and returns its id.
func (s *Store) Save(preset string, result *dynamo.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("seed%d_%d", result.Config.Seed, now.UnixMilli())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Timestamp:  now,
		Preset:     preset,
		Seed:       result.Config.Seed,
		Config:     result.Config,
		StepsTaken: result.StepsTaken,
		Collisions: result.Collisions,
		Bounces:    result.Bounces,
		Completed:  result.Completed,
		Metrics:    result.Metrics,
		Events:     result.Events,
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, statesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(statesHeader); err != nil {
		return "", err
	}
	for _, st := range result.Frames {
		if err := w.Write(stateRow(st)); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

func stateRow(st dynamo.State) []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	a, b := st.Bodies[0], st.Bodies[1]
	return []string{
		strconv.Itoa(st.Step), f(st.Time),
		f(a.Position.X), f(a.Position.Y), f(a.Velocity.X), f(a.Velocity.Y),
		f(b.Position.X), f(b.Position.Y), f(b.Velocity.X), f(b.Velocity.Y),
		strconv.Itoa(st.Collisions),
	}
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	return &meta, nil
}

// LoadStates reads the recorded frames of a run. Body radius and mass come
// from the run's metadata when it is readable; colours are not stored.
func (s *Store) LoadStates(runID string) ([]dynamo.State, error) {
	var radius, mass float64
	if meta, err := s.Load(runID); err == nil {
		radius, mass = meta.Config.BodyRadius, meta.Config.BodyMass
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, statesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(statesHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if len(records) < 2 {
		return []dynamo.State{}, nil
	}

	states := make([]dynamo.State, 0, len(records)-1)
	for i, record := range records[1:] {
		st, err := parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("run %s line %d: %w", runID, i+2, err)
		}
		for j := range st.Bodies {
			st.Bodies[j].Radius, st.Bodies[j].Mass = radius, mass
		}
		states = append(states, st)
	}

	return states, nil
}

func parseRow(record []string) (dynamo.State, error) {
	var st dynamo.State
	var err error

	if st.Step, err = strconv.Atoi(record[0]); err != nil {
		return st, err
	}
	if st.Collisions, err = strconv.Atoi(record[10]); err != nil {
		return st, err
	}

	vals := make([]float64, 9)
	for i := range vals {
		if vals[i], err = strconv.ParseFloat(record[i+1], 64); err != nil {
			return st, err
		}
	}
	st.Time = vals[0]
	st.Bodies[0].Position = r2.Vec{X: vals[1], Y: vals[2]}
	st.Bodies[0].Velocity = r2.Vec{X: vals[3], Y: vals[4]}
	st.Bodies[1].Position = r2.Vec{X: vals[5], Y: vals[6]}
	st.Bodies[1].Velocity = r2.Vec{X: vals[7], Y: vals[8]}
	return st, nil
}
