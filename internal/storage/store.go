package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/dmfiel/game-of-life/internal/config"
	"github.com/dmfiel/game-of-life/internal/session"
	"github.com/google/uuid"
)

// ErrCorruptRecord indicates a generations.csv row that cannot be parsed.
var ErrCorruptRecord = errors.New("storage: corrupt generation record")

const (
	metadataFile    = "metadata.json"
	generationsFile = "generations.csv"
)

var csvHeader = []string{"generation", "population", "changed", "stable", "checksum"}

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
	ID          string             `json:"id"`
	Pattern     string             `json:"pattern"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	GridSize    int                `json:"grid_size"`
	Wrap        bool               `json:"wrap"`
	AutoReset   bool               `json:"auto_reset"`
	Window      int                `json:"window"`
	IntervalMs  int                `json:"interval_ms"`
	Generations int                `json:"generations"`
	FirstStable int                `json:"first_stable"`
	Reseeds     int                `json:"reseeds"`
	Metrics     map[string]float64 `json:"metrics"`
}

// GenerationRecord is one row of generations.csv.
type GenerationRecord struct {
	Generation int    `json:"generation"`
	Population int    `json:"population"`
	Changed    int    `json:"changed"`
	Stable     bool   `json:"stable"`
	Checksum   uint32 `json:"checksum"`
}

// Records flattens a run result into per-generation rows. The generation
// column is the session's counter, so it restarts after an automatic reseed.
// Results without Numbers fall back to counting from 1.
func Records(result *session.Result) []GenerationRecord {
	out := make([]GenerationRecord, result.Generations)
	for i := range out {
		gen := i + 1
		if i < len(result.Numbers) {
			gen = result.Numbers[i]
		}
		out[i] = GenerationRecord{
			Generation: gen,
			Population: result.Populations[i],
			Changed:    result.Changed[i],
			Stable:     result.Stable[i],
			Checksum:   result.Checksums[i],
		}
	}
	return out
}

// Save writes the run under a fresh directory and returns its ID.
func (s *Store) Save(cfg *config.Config, result *session.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d_%s", cfg.Pattern, now.Unix(), uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Pattern:     cfg.Pattern,
		Timestamp:   now,
		Seed:        cfg.Seed,
		GridSize:    cfg.GridSize,
		Wrap:        cfg.Wrap,
		AutoReset:   cfg.AutoReset,
		Window:      cfg.Window,
		IntervalMs:  cfg.IntervalMs,
		Generations: result.Generations,
		FirstStable: result.FirstStable,
		Reseeds:     result.Reseeds,
		Metrics:     result.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeGenerations(filepath.Join(runDir, generationsFile), Records(result)); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeGenerations(path string, records []GenerationRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			strconv.Itoa(r.Generation),
			strconv.Itoa(r.Population),
			strconv.Itoa(r.Changed),
			strconv.FormatBool(r.Stable),
			strconv.FormatUint(uint64(r.Checksum), 10),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, newest first. Directories without valid
// metadata are skipped.
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadGenerations(runID string) ([]GenerationRecord, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, generationsFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(csvHeader)

	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return []GenerationRecord{}, nil
	}

	records := make([]GenerationRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := parseRecord(row)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrCorruptRecord, i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRecord(row []string) (GenerationRecord, error) {
	var rec GenerationRecord
	var err error
	if rec.Generation, err = strconv.Atoi(row[0]); err != nil {
		return rec, err
	}
	if rec.Population, err = strconv.Atoi(row[1]); err != nil {
		return rec, err
	}
	if rec.Changed, err = strconv.Atoi(row[2]); err != nil {
		return rec, err
	}
	if rec.Stable, err = strconv.ParseBool(row[3]); err != nil {
		return rec, err
	}
	sum, err := strconv.ParseUint(row[4], 10, 32)
	if err != nil {
		return rec, err
	}
	rec.Checksum = uint32(sum)
	return rec, nil
}
