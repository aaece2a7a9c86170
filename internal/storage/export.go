package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"

	"github.com/san-kum/circlesim/internal/dynamo"
)

type ExportData struct {
	ID         string                  `json:"id"`
	Seed       int64                   `json:"seed"`
	Steps      int                     `json:"steps"`
	Collisions int                     `json:"collisions"`
	Completed  bool                    `json:"completed"`
	Metrics    map[string]float64      `json:"metrics"`
	Events     []dynamo.CollisionEvent `json:"events"`
	Frames     []dynamo.State          `json:"frames"`
}

// ExportJSON writes a run's metadata and frames to w as indented JSON.
func ExportJSON(w io.Writer, meta *RunMetadata, frames []dynamo.State) error {
	data := ExportData{
		ID:         meta.ID,
		Seed:       meta.Seed,
		Steps:      meta.StepsTaken,
		Collisions: meta.Collisions,
		Completed:  meta.Completed,
		Metrics:    meta.Metrics,
		Events:     meta.Events,
		Frames:     frames,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportCSV writes frames to w in the same layout as the stored states.csv.
func ExportCSV(w io.Writer, frames []dynamo.State) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(statesHeader); err != nil {
		return err
	}
	for _, st := range frames {
		if err := cw.Write(stateRow(st)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
