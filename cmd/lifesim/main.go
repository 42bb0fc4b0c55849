package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmfiel/game-of-life/internal/automation"
	"github.com/dmfiel/game-of-life/internal/config"
	"github.com/dmfiel/game-of-life/internal/export"
	"github.com/dmfiel/game-of-life/internal/metrics"
	"github.com/dmfiel/game-of-life/internal/optim"
	"github.com/dmfiel/game-of-life/internal/session"
	"github.com/dmfiel/game-of-life/internal/storage"
	"github.com/dmfiel/game-of-life/internal/viz"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	verbose    bool

	gridSize    int
	wrap        bool
	autoReset   bool
	intervalMs  int
	generations int
	seed        int64
	pattern     string
	density     float64
	window      int
	resetDelay  int

	stopStable bool
	theme      string
	runs       int
	scale      float64
	svgOut     string

	sweepRuns int
	densities []float64
	sizes     []int
	maximize  bool
)

// main registers the lifesim commands. With no subcommand it opens the live
// terminal view.
func main() {
	rootCmd := &cobra.Command{
		Use:   "lifesim",
		Short: "conway's game of life with stability detection",
		RunE:  runLive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".lifesim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "yaml config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")
	addSimFlags(rootCmd)
	rootCmd.Flags().StringVar(&theme, "theme", "cyberpunk", "colour theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and store the result",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().BoolVar(&stopStable, "stop-stable", false, "stop at the first stable generation")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive terminal view",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", "cyberpunk", "colour theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot population and churn of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&svgOut, "svg", "", "also write the population curve as svg")

	exportCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "print a stored run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [file]",
		Short: "step a pattern and write the final grid as svg",
		Args:  cobra.MaximumNArgs(1),
		RunE:  snapshot,
	}
	addSimFlags(snapshotCmd)
	snapshotCmd.Flags().Float64Var(&scale, "scale", 8, "pixels per cell")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "run seeded sessions in parallel and compare time to stability",
		Args:  cobra.NoArgs,
		RunE:  bench,
	}
	addSimFlags(benchCmd)
	benchCmd.Flags().IntVar(&runs, "runs", 8, "number of sessions")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search density and size for time to stability",
		Args:  cobra.NoArgs,
		RunE:  sweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&sweepRuns, "runs", 4, "sessions per combination")
	sweepCmd.Flags().Float64SliceVar(&densities, "densities", []float64{0.1, 0.2, 0.3, 0.4}, "densities to try")
	sweepCmd.Flags().IntSliceVar(&sizes, "sizes", []int{20, 50}, "grid sizes to try")
	sweepCmd.Flags().BoolVar(&maximize, "maximize", false, "look for the longest-lived combination")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario of scripted runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	addSimFlags(scenarioCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in patterns",
		Run: func(cmd *cobra.Command, args []string) {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSIZE\tDESCRIPTION")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				if p == nil {
					fmt.Fprintf(w, "%s\t-\tcells alive with probability --density\n", name)
					continue
				}
				r, c := p.Size()
				fmt.Fprintf(w, "%s\t%dx%d\t%s\n", name, r, c, p.Description)
			}
			w.Flush()
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "configuration helpers",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "write the default config",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "lifesim.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.Save(path, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	})

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, snapshotCmd, benchCmd, sweepCmd, scenarioCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVarP(&gridSize, "size", "s", config.DefaultSize, "grid side length")
	f.BoolVar(&wrap, "wrap", true, "wrap edges into a torus")
	f.BoolVar(&autoReset, "auto", false, "reseed after the pattern stabilizes")
	f.IntVar(&intervalMs, "interval", config.DefaultIntervalMs, "milliseconds between generations")
	f.IntVarP(&generations, "generations", "g", config.DefaultGenerations, "generations to run")
	f.Int64Var(&seed, "seed", 0, "random seed (0 picks one from the clock)")
	f.StringVarP(&pattern, "pattern", "p", config.DefaultPattern, "starting pattern")
	f.Float64Var(&density, "density", config.DefaultDensity, "live probability for random seeds")
	f.IntVar(&window, "window", config.DefaultWindow, "checksum history length")
	f.IntVar(&resetDelay, "reset-delay", config.DefaultResetDelay, "milliseconds before an automatic reseed")
}

// loadConfig reads --config when given and lets explicitly set flags win.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if configFile == "" || flags.Changed("size") {
		cfg.GridSize = gridSize
	}
	if configFile == "" || flags.Changed("wrap") {
		cfg.Wrap = wrap
	}
	if configFile == "" || flags.Changed("auto") {
		cfg.AutoReset = autoReset
	}
	if configFile == "" || flags.Changed("interval") {
		cfg.IntervalMs = intervalMs
	}
	if configFile == "" || flags.Changed("generations") {
		cfg.Generations = generations
	}
	if configFile == "" || flags.Changed("pattern") {
		cfg.Pattern = pattern
	}
	if configFile == "" || flags.Changed("density") {
		cfg.Density = density
	}
	if configFile == "" || flags.Changed("window") {
		cfg.Window = window
	}
	if configFile == "" || flags.Changed("reset-delay") {
		cfg.ResetDelayMs = resetDelay
	}
	if flags.Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	if config.GetPreset(cfg.Pattern) == nil && cfg.Pattern != config.RandomPattern {
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownPattern, cfg.Pattern)
	}
	return cfg.Normalize(), nil
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func newSession(cmd *cobra.Command, log *slog.Logger) (*session.Session, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	s := session.New(*cfg, session.WithLogger(log))
	if err := s.Seed(cfg.Pattern); err != nil {
		s.Close()
		return nil, nil, err
	}
	log.Debug("session ready", "size", s.Size(), "pattern", cfg.Pattern, "seed", cfg.Seed, "wrap", cfg.Wrap)
	return s, cfg, nil
}

// runLive owns the terminal, so logs go to a file under the data directory
// and only when --verbose is set.
func runLive(cmd *cobra.Command, args []string) error {
	log := slog.New(slog.DiscardHandler)
	if verbose {
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return err
		}
		f, err := os.Create(filepath.Join(dataDir, "live.log"))
		if err != nil {
			return err
		}
		defer f.Close()
		log = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	s, _, err := newSession(cmd, log)
	if err != nil {
		return err
	}
	defer s.Close()
	return viz.Run(s, theme)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	s, cfg, err := newSession(cmd, newLogger())
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := session.NewRunner(s)
	for _, m := range metrics.Defaults() {
		runner.AddMetric(m)
	}

	fmt.Printf("running %s on %dx%d (seed %d, wrap %v)\n", cfg.Pattern, s.Size(), s.Size(), cfg.Seed, cfg.Wrap)
	start := time.Now()
	result, err := runner.Run(ctx, session.RunConfig{
		Generations:    cfg.Generations,
		StopWhenStable: stopStable,
	})
	if result == nil {
		return err
	}
	if err != nil {
		fmt.Printf("interrupted after %d generations\n", result.Generations)
	}
	elapsed := time.Since(start)

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed %d generations in %v\n", result.Generations, elapsed)
	if result.FirstStable > 0 {
		fmt.Printf("first stable at generation %d\n", result.FirstStable)
	} else {
		fmt.Println("never stabilized")
	}
	for _, name := range []string{"population", "churn", "stability"} {
		fmt.Printf("%s: %.4f\n", name, result.Metrics[name])
	}
	fmt.Printf("saved: %s\n", runID)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	stored, err := st.List()
	if err != nil {
		return err
	}

	if len(stored) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPATTERN\tTIME\tSIZE\tWRAP\tGENS\tSTABLE AT")

	for _, run := range stored {
		stableAt := "-"
		if run.FirstStable > 0 {
			stableAt = fmt.Sprintf("%d", run.FirstStable)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%v\t%d\t%s\n",
			run.ID,
			run.Pattern,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.GridSize,
			run.Wrap,
			run.Generations,
			stableAt,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	records, err := st.LoadGenerations(runID)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("pattern: %s\n", meta.Pattern)
	fmt.Printf("generations: %d\n\n", len(records))

	population := make([]float64, len(records))
	changed := make([]float64, len(records))
	counts := make([]int, len(records))
	for i, r := range records {
		population[i] = float64(r.Population)
		changed[i] = float64(r.Changed)
		counts[i] = r.Population
	}

	for _, series := range []struct {
		data    []float64
		caption string
	}{
		{population, "live cells per generation"},
		{changed, "cells changed per generation"},
	} {
		graph := asciigraph.Plot(series.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(series.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if svgOut != "" {
		if err := os.WriteFile(svgOut, []byte(export.SeriesToSVG(counts, 800, 200, "#00ff00")), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgOut)
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
}

func snapshot(cmd *cobra.Command, args []string) error {
	s, cfg, err := newSession(cmd, newLogger())
	if err != nil {
		return err
	}
	defer s.Close()

	for i := 0; i < cfg.Generations; i++ {
		s.Step()
	}

	svg := export.GridToSVG(s.Cells(), s.Size(), scale)
	if len(args) == 0 {
		fmt.Println(svg)
		return nil
	}
	if err := os.WriteFile(args[0], []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s after %d generations\n", args[0], s.Generation())
	return nil
}

func bench(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// Stability is what is being measured; a reseed would hide it.
	cfg.AutoReset = false

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	e := session.NewEnsemble(*cfg, runs, cfg.Seed, session.WithLogger(newLogger()))
	e.Metrics = metrics.Defaults

	fmt.Printf("benchmarking %d %s sessions on %dx%d\n\n", runs, cfg.Pattern, cfg.GridSize, cfg.GridSize)
	start := time.Now()
	results, err := e.Run(ctx, session.RunConfig{Generations: cfg.Generations, StopWhenStable: true})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSEED\tGENS\tSTABLE AT\tMEAN POP\tCHURN")

	var stableRuns, stableSum, total int
	for i, r := range results {
		total += r.Generations
		stableAt := "-"
		if r.FirstStable > 0 {
			stableAt = fmt.Sprintf("%d", r.FirstStable)
			stableRuns++
			stableSum += r.FirstStable
		}
		fmt.Fprintf(w, "%d\t%d\t%d\t%s\t%.1f\t%.4f\n",
			i, cfg.Seed+int64(i), r.Generations, stableAt, r.Metrics["population"], r.Metrics["churn"])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	if stableRuns > 0 {
		fmt.Printf("stabilized: %d/%d, mean generation %.1f\n", stableRuns, len(results), float64(stableSum)/float64(stableRuns))
	} else {
		fmt.Printf("stabilized: 0/%d\n", len(results))
	}
	fmt.Printf("%d generations in %v (%.0f gen/s)\n", total, elapsed, float64(total)/elapsed.Seconds())
	return nil
}

func sweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sizeRange := make([]float64, len(sizes))
	for i, n := range sizes {
		sizeRange[i] = float64(n)
	}
	g := optim.NewGridSearch([]string{"density", "size"}, [][]float64{densities, sizeRange})
	g.Maximize = maximize

	rc := session.RunConfig{Generations: cfg.Generations}
	eval := func(ctx context.Context, params map[string]float64) (float64, error) {
		c, err := optim.Apply(*cfg, params)
		if err != nil {
			return 0, err
		}
		return optim.StabilityTime(ctx, c, sweepRuns, rc)
	}

	best, val, points, err := g.Search(ctx, eval)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DENSITY\tSIZE\tMEAN STABLE AT")
	for _, p := range points {
		fmt.Fprintf(w, "%.2f\t%.0f\t%.1f\n", p.Params["density"], p.Params["size"], p.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nbest: density %.2f, size %.0f (%.1f)\n", best["density"], best["size"], val)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunScenario(ctx, sc, *cfg, st, newLogger())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tPATTERN\tSIZE\tGENS\tSTABLE AT\tSAVED")
	for i, r := range results {
		stableAt := "-"
		if r.Result.FirstStable > 0 {
			stableAt = fmt.Sprintf("%d", r.Result.FirstStable)
		}
		saved := r.RunID
		if saved == "" {
			saved = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\t%s\n", i+1, r.Config.Pattern, r.Config.GridSize, r.Result.Generations, stableAt, saved)
	}
	if ferr := w.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}
