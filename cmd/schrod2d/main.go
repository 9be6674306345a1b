package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/quantlab/schrod2d/internal/analysis"
	"github.com/quantlab/schrod2d/internal/config"
	"github.com/quantlab/schrod2d/internal/engine"
	"github.com/quantlab/schrod2d/internal/experiment"
	"github.com/quantlab/schrod2d/internal/export"
	"github.com/quantlab/schrod2d/internal/metrics"
	"github.com/quantlab/schrod2d/internal/storage"
	"github.com/quantlab/schrod2d/internal/viz"
)

var (
	dataDir string
	nx      int
	ny      int
	dt      float64
	length  float64
	steps   int
	// potential selection
	potKind   string
	potParams []float64
	// wavepacket
	x0     float64
	y0     float64
	sigmaX float64
	sigmaY float64
	kx     float64
	ky     float64
	// config file and preset
	configFile string
	preset     string
	// run persistence
	save bool
	// plot selection
	observable string
	// svg output
	svgOut   string
	cellSize int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "schrod2d",
		Short: "2d quantum wavepacket simulation lab",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".schrod2d", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation",
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().IntVar(&steps, "steps", 1000, "number of time steps")
	runCmd.Flags().BoolVar(&save, "save", true, "persist the run")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with live terminal visualization",
		RunE:  runLive,
	}
	addSimFlags(liveCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored observable",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&observable, "observable", "x", "observable to plot (norm, x, y, spread_x, spread_y)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency and drift analysis of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(dataDir)
			return st.ExportJSONStdout(args[0])
		},
	}

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "render a stored run's final density as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  renderSVG,
	}
	svgCmd.Flags().StringVar(&svgOut, "out", "density.svg", "output file")
	svgCmd.Flags().IntVar(&cellSize, "cell", 4, "pixels per grid point")

	rootCmd.AddCommand(runCmd, liveCmd, presetsCmd, listCmd, plotCmd, analyzeCmd, exportJSONCmd, svgCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&nx, "nx", config.DefaultNx, "grid points along x")
	cmd.Flags().IntVar(&ny, "ny", config.DefaultNy, "grid points along y")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&length, "length", config.DefaultLength, "domain side length")
	cmd.Flags().StringVar(&potKind, "potential", "FreeSpace", "potential kind")
	cmd.Flags().Float64SliceVar(&potParams, "params", nil, "potential parameters")
	cmd.Flags().Float64Var(&x0, "x0", 0, "packet center x")
	cmd.Flags().Float64Var(&y0, "y0", 0, "packet center y")
	cmd.Flags().Float64Var(&sigmaX, "sigma-x", config.DefaultSigma, "packet width along x")
	cmd.Flags().Float64Var(&sigmaY, "sigma-y", config.DefaultSigma, "packet width along y")
	cmd.Flags().Float64Var(&kx, "kx", 0, "mean momentum along x")
	cmd.Flags().Float64Var(&ky, "ky", 0, "mean momentum along y")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml or json)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// buildConfig resolves the effective config: preset, then config file,
// then any explicitly set flags on top.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("nx") {
		cfg.Nx = nx
	}
	if cmd.Flags().Changed("ny") {
		cfg.Ny = ny
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("length") {
		cfg.Length = length
	}
	if cmd.Flags().Changed("potential") {
		cfg.Potential.Kind = potKind
	}
	if cmd.Flags().Changed("params") {
		cfg.Potential.Parameters = potParams
	}
	if cmd.Flags().Changed("x0") {
		cfg.Wavepacket.X0 = x0
	}
	if cmd.Flags().Changed("y0") {
		cfg.Wavepacket.Y0 = y0
	}
	if cmd.Flags().Changed("sigma-x") {
		cfg.Wavepacket.SigmaX = sigmaX
	}
	if cmd.Flags().Changed("sigma-y") {
		cfg.Wavepacket.SigmaY = sigmaY
	}
	if cmd.Flags().Changed("kx") {
		cfg.Wavepacket.Kx = kx
	}
	if cmd.Flags().Changed("ky") {
		cfg.Wavepacket.Ky = ky
	}

	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	eng, err := engine.New(cfg)
	if err != nil {
		return err
	}
	defer eng.Shutdown()

	exp := experiment.New(eng)
	exp.AddMetric(metrics.NewNormDrift())
	exp.AddMetric(metrics.NewDisplacement())
	exp.AddMetric(metrics.NewSpreading())

	fmt.Printf("running %s on %dx%d grid...\n", cfg.Potential.Kind, eng.Nx(), eng.Ny())
	start := time.Now()

	result, err := exp.Run(context.Background(), steps, cfg.Output.SampleEvery)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("samples: %d\n", len(result.Observations))
	fmt.Println("\nmetrics:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for name, val := range result.Metrics {
		fmt.Fprintf(w, "  %s\t%.6g\n", name, val)
	}
	w.Flush()

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		pot := eng.Potential()
		runID, err := st.Save(cfg, string(pot.Kind()), pot.Params(), result)
		if err != nil {
			return err
		}
		fmt.Printf("\nrun id: %s\n", runID)
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	eng, err := engine.New(cfg)
	if err != nil {
		return err
	}

	return viz.Run(eng, cfg)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tGRID\tDT\tSTEPS\tPOTENTIAL")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%dx%d\t%.4g\t%d\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Nx, run.Ny,
			run.Dt,
			run.Steps,
			run.PotentialKind,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	observations, err := st.LoadObservables(args[0])
	if err != nil {
		return err
	}
	if len(observations) == 0 {
		return fmt.Errorf("no data to plot")
	}

	data := make([]float64, len(observations))
	for i, obs := range observations {
		switch observable {
		case "norm":
			data[i] = obs.Norm
		case "x":
			data[i] = obs.X
		case "y":
			data[i] = obs.Y
		case "spread_x":
			data[i] = obs.SpreadX
		case "spread_y":
			data[i] = obs.SpreadY
		default:
			return fmt.Errorf("unknown observable: %s", observable)
		}
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("potential: %s\n", meta.PotentialKind)
	fmt.Printf("samples: %d\n\n", len(observations))

	graph := asciigraph.Plot(data,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s vs time", observable)),
	)
	fmt.Println(graph)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	observations, err := st.LoadObservables(args[0])
	if err != nil {
		return err
	}
	if len(observations) < 2 {
		return fmt.Errorf("not enough samples to analyze")
	}

	times := make([]float64, len(observations))
	xs := make([]float64, len(observations))
	norms := make([]float64, len(observations))
	for i, obs := range observations {
		times[i] = obs.Time
		xs[i] = obs.X
		norms[i] = obs.Norm
	}
	sampleDt := times[1] - times[0]

	fmt.Printf("analysis: %s\n", meta.ID)
	fmt.Printf("potential: %s\n\n", meta.PotentialKind)

	ps := analysis.PowerSpectrum(xs)
	graph := asciigraph.Plot(ps,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum of <x>"),
	)
	fmt.Println(graph)
	fmt.Println()

	freq := analysis.DominantFrequency(xs, sampleDt)
	fmt.Printf("dominant frequency: %.4g\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.4g\n", 1/freq)
	}

	slope, _ := analysis.LinearFit(times, xs)
	fmt.Printf("centroid drift velocity: %.4g\n", slope)

	var worst float64
	for _, n := range norms {
		if d := n - 1; d > worst || -d > worst {
			if d < 0 {
				d = -d
			}
			worst = d
		}
	}
	fmt.Printf("max norm drift: %.3g\n", worst)
	return nil
}

func renderSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	density, gridNx, gridNy, err := st.LoadDensity(args[0])
	if err != nil {
		return err
	}

	svg := export.DensityToSVG(density, gridNx, gridNy, cellSize)
	if svg == "" {
		return fmt.Errorf("could not render density for run %s", args[0])
	}
	if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%dx%d grid)\n", svgOut, gridNx, gridNy)
	return nil
}
