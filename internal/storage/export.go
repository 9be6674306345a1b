package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/quantlab/schrod2d/internal/engine"
)

// ExportData is the JSON export shape for one stored run.
type ExportData struct {
	Meta         RunMetadata          `json:"meta"`
	Observations []engine.Observation `json:"observations"`
}

// ExportJSON writes a stored run as a single JSON document.
func (s *Store) ExportJSON(runID, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return s.exportJSON(runID, file)
}

// ExportJSONStdout writes a stored run as JSON to standard output.
func (s *Store) ExportJSONStdout(runID string) error {
	return s.exportJSON(runID, os.Stdout)
}

func (s *Store) exportJSON(runID string, w io.Writer) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	observations, err := s.LoadObservables(runID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{
		Meta:         *meta,
		Observations: observations,
	})
}
