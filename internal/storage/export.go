package storage

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	Run         RunMetadata        `json:"run"`
	Generations []GenerationRecord `json:"generations"`
}

// ExportJSON writes a stored run, metadata and every generation, as indented JSON.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	records, err := s.LoadGenerations(runID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Run: *meta, Generations: records})
}
