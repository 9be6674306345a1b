package config

var Presets = map[string]*Config{
	"free": {
		Nx: 64, Ny: 64, Dt: 0.001, Length: 20.0,
		Potential:  PotentialSpec{Kind: "FreeSpace"},
		Wavepacket: Wavepacket{SigmaX: 0.5, SigmaY: 0.5, Kx: 2.0},
		Output:     Output{SampleEvery: 10, ExportObservables: true},
	},
	"tunneling": {
		Nx: 128, Ny: 128, Dt: 0.0005, Length: 20.0,
		Potential:  PotentialSpec{Kind: "SquareBarrier", Parameters: []float64{20.0, 0.2, 0, 0}},
		Wavepacket: Wavepacket{X0: -1.0, SigmaX: 0.2, SigmaY: 0.2, Kx: 5.0},
		Output:     Output{SampleEvery: 10, ExportObservables: true},
	},
	"well": {
		Nx: 128, Ny: 128, Dt: 0.001, Length: 20.0,
		Potential:  PotentialSpec{Kind: "SquareBarrier", Parameters: []float64{-10.0, 2.0, 0, 0}},
		Wavepacket: Wavepacket{X0: -3.0, SigmaX: 0.5, SigmaY: 0.5, Kx: 2.0},
		Output:     Output{SampleEvery: 10, ExportObservables: true},
	},
	"harmonic": {
		Nx: 64, Ny: 64, Dt: 0.001, Length: 20.0,
		Potential:  PotentialSpec{Kind: "HarmonicOscillator", Parameters: []float64{1.0}},
		Wavepacket: Wavepacket{X0: 0.5, SigmaX: 0.5, SigmaY: 0.5},
		Output:     Output{SampleEvery: 10, ExportObservables: true},
	},
	"ground_state": {
		Nx: 64, Ny: 64, Dt: 0.001, Length: 20.0,
		Potential:  PotentialSpec{Kind: "HarmonicOscillator", Parameters: []float64{1.0}},
		Wavepacket: Wavepacket{SigmaX: 1.0, SigmaY: 1.0},
		Output:     Output{SampleEvery: 10, ExportObservables: true},
	},
}

// GetPreset returns a copy of the named preset, or nil if none exists.
// Callers may mutate the result freely.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	cp := *cfg
	cp.Potential.Parameters = append([]float64(nil), cfg.Potential.Parameters...)
	return &cp
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
