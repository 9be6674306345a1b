// Package config defines the simulation parameters and their
// file-based loading. Configs round-trip through YAML or JSON,
// selected by file extension.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults for an unconfigured run.
const (
	DefaultNx     = 64
	DefaultNy     = 64
	DefaultDt     = 0.001
	DefaultLength = 20.0
	DefaultSigma  = 0.5
)

// MinDt is the floor for the time step; a non-positive dt is clamped
// rather than rejected.
const MinDt = 1e-9

// Config describes one simulation: grid, time step, potential and the
// initial wavepacket.
type Config struct {
	Nx     int     `yaml:"nx" json:"nx"`
	Ny     int     `yaml:"ny" json:"ny"`
	Dt     float64 `yaml:"dt" json:"dt"`
	Length float64 `yaml:"length" json:"length"`

	Potential  PotentialSpec `yaml:"potential" json:"potential"`
	Wavepacket Wavepacket    `yaml:"wavepacket" json:"wavepacket"`
	Output     Output        `yaml:"output" json:"output"`
}

// PotentialSpec names a potential kind and its flat parameter list.
type PotentialSpec struct {
	Kind       string    `yaml:"kind" json:"kind"`
	Parameters []float64 `yaml:"parameters" json:"parameters"`
}

// Wavepacket is the initial Gaussian state.
type Wavepacket struct {
	X0     float64 `yaml:"x0" json:"x0"`
	Y0     float64 `yaml:"y0" json:"y0"`
	SigmaX float64 `yaml:"sigma_x" json:"sigmaX"`
	SigmaY float64 `yaml:"sigma_y" json:"sigmaY"`
	Kx     float64 `yaml:"kx" json:"kx"`
	Ky     float64 `yaml:"ky" json:"ky"`
}

// Output controls observable sampling and persistence.
type Output struct {
	SampleEvery       int  `yaml:"sample_every" json:"sampleEvery"`
	ExportObservables bool `yaml:"export_observables" json:"exportObservables"`
}

// DefaultConfig returns a free-space run on a 64x64 grid.
func DefaultConfig() *Config {
	return &Config{
		Nx:     DefaultNx,
		Ny:     DefaultNy,
		Dt:     DefaultDt,
		Length: DefaultLength,
		Potential: PotentialSpec{
			Kind: "FreeSpace",
		},
		Wavepacket: Wavepacket{
			SigmaX: DefaultSigma,
			SigmaY: DefaultSigma,
		},
		Output: Output{
			SampleEvery:       10,
			ExportObservables: true,
		},
	}
}

// Clamp corrects degenerate numeric fields in place. Grid dimensions
// are left alone; the engine treats those as fatal.
func (c *Config) Clamp() {
	if c.Dt <= 0 {
		c.Dt = MinDt
	}
	if c.Length <= 0 {
		c.Length = DefaultLength
	}
	if c.Wavepacket.SigmaX <= 0 {
		c.Wavepacket.SigmaX = DefaultSigma
	}
	if c.Wavepacket.SigmaY <= 0 {
		c.Wavepacket.SigmaY = DefaultSigma
	}
	if c.Output.SampleEvery <= 0 {
		c.Output.SampleEvery = 1
	}
}

// Load reads a config file over the defaults, so partial files are
// valid. The extension picks the format: .json is JSON, anything else
// parses as YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}
	return cfg, nil
}

// Save writes the config in the format matching the path's extension.
func Save(cfg *Config, path string) error {
	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(cfg, "", "  ")
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
