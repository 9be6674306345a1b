package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/quantlab/schrod2d/internal/config"
	"github.com/quantlab/schrod2d/internal/engine"
	"github.com/quantlab/schrod2d/internal/experiment"
)

// Store persists finished runs under a base directory, one
// subdirectory per run holding metadata.json, observables.csv and
// optionally density.csv.
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
	ID              string             `json:"id"`
	Timestamp       time.Time          `json:"timestamp"`
	Nx              int                `json:"nx"`
	Ny              int                `json:"ny"`
	Dt              float64            `json:"dt"`
	Length          float64            `json:"length"`
	Steps           int                `json:"steps"`
	PotentialKind   string             `json:"potential_kind"`
	PotentialParams []float64          `json:"potential_params"`
	Wavepacket      config.Wavepacket  `json:"wavepacket"`
	Metrics         map[string]float64 `json:"metrics"`
}

// Save writes one run to disk and returns its generated ID. The final
// density is written only when the config asks for observable export.
func (s *Store) Save(cfg *config.Config, potKind string, potParams []float64, result *experiment.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", strings.ToLower(potKind), time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:              runID,
		Timestamp:       time.Now(),
		Nx:              cfg.Nx,
		Ny:              cfg.Ny,
		Dt:              cfg.Dt,
		Length:          cfg.Length,
		Steps:           result.StepsTaken,
		PotentialKind:   potKind,
		PotentialParams: potParams,
		Wavepacket:      cfg.Wavepacket,
		Metrics:         result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := s.writeObservables(runDir, result.Observations); err != nil {
		return "", err
	}

	if cfg.Output.ExportObservables && len(result.FinalDensity) > 0 {
		if err := s.writeDensity(runDir, cfg.Nx, cfg.Ny, result.FinalDensity); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) writeObservables(runDir string, observations []engine.Observation) error {
	f, err := os.Create(filepath.Join(runDir, "observables.csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"time", "norm", "x", "y", "spread_x", "spread_y"}); err != nil {
		return err
	}
	for _, obs := range observations {
		row := []string{
			strconv.FormatFloat(obs.Time, 'g', -1, 64),
			strconv.FormatFloat(obs.Norm, 'g', -1, 64),
			strconv.FormatFloat(obs.X, 'g', -1, 64),
			strconv.FormatFloat(obs.Y, 'g', -1, 64),
			strconv.FormatFloat(obs.SpreadX, 'g', -1, 64),
			strconv.FormatFloat(obs.SpreadY, 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// writeDensity stores the final |psi|^2 field. The first record holds
// the grid dimensions, then one record per row.
func (s *Store) writeDensity(runDir string, nx, ny int, density []float64) error {
	f, err := os.Create(filepath.Join(runDir, "density.csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{strconv.Itoa(nx), strconv.Itoa(ny)}); err != nil {
		return err
	}
	for i := 0; i < nx; i++ {
		row := make([]string, ny)
		for j := 0; j < ny; j++ {
			row[j] = strconv.FormatFloat(density[i*ny+j], 'g', -1, 64)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

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

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadObservables reads a run's observable samples back.
func (s *Store) LoadObservables(runID string) ([]engine.Observation, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "observables.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []engine.Observation{}, nil
	}

	observations := make([]engine.Observation, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 6 {
			continue
		}
		vals := make([]float64, 6)
		ok := true
		for i := 0; i < 6; i++ {
			v, err := strconv.ParseFloat(record[i], 64)
			if err != nil {
				ok = false
				break
			}
			vals[i] = v
		}
		if !ok {
			continue
		}
		observations = append(observations, engine.Observation{
			Time:    vals[0],
			Norm:    vals[1],
			X:       vals[2],
			Y:       vals[3],
			SpreadX: vals[4],
			SpreadY: vals[5],
		})
	}
	return observations, nil
}

// LoadDensity reads a run's final density field and its grid shape.
func (s *Store) LoadDensity(runID string) ([]float64, int, int, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "density.csv"))
	if err != nil {
		return nil, 0, 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, 0, 0, err
	}
	if len(records) < 1 || len(records[0]) < 2 {
		return nil, 0, 0, fmt.Errorf("storage: malformed density file for run %s", runID)
	}

	nx, err := strconv.Atoi(records[0][0])
	if err != nil {
		return nil, 0, 0, err
	}
	ny, err := strconv.Atoi(records[0][1])
	if err != nil {
		return nil, 0, 0, err
	}
	if len(records)-1 != nx {
		return nil, 0, 0, fmt.Errorf("storage: density has %d rows, expected %d", len(records)-1, nx)
	}

	density := make([]float64, 0, nx*ny)
	for _, record := range records[1:] {
		if len(record) != ny {
			return nil, 0, 0, fmt.Errorf("storage: density row has %d columns, expected %d", len(record), ny)
		}
		for _, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, 0, 0, err
			}
			density = append(density, v)
		}
	}
	return density, nx, ny, nil
}
