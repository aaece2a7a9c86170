package main

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/circlesim/internal/config"
	"github.com/san-kum/circlesim/internal/dynamo"
	"github.com/san-kum/circlesim/internal/export"
	"github.com/san-kum/circlesim/internal/gui"
	"github.com/san-kum/circlesim/internal/metrics"
	"github.com/san-kum/circlesim/internal/optim"
	"github.com/san-kum/circlesim/internal/storage"
	"github.com/san-kum/circlesim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	opts     options
	sound    bool
	pick     bool
	maxSteps int
	noSave   bool
	numRuns  int
	output   string
	sweeps   []string
	svgStep  int
	theme    string
)

// main registers the commands and opens the window when no subcommand is
// given. It exits with status 1 if the command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "circlesim",
		Short:         "two bodies bouncing inside a circular container",
		RunE:          runGUI,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.dataDir, "data", ".circlesim", "data directory")
	pf.StringVar(&opts.configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&opts.preset, "preset", "", "use preset configuration")
	pf.Int64Var(&opts.seed, "seed", 0, "random seed (0 picks one from the clock)")
	pf.Float64Var(&opts.gravity, "gravity", dynamo.DefaultGravity, "downward acceleration per step")
	pf.IntVar(&opts.target, "target", dynamo.DefaultTargetCollisions, "collisions before the run completes")
	pf.IntVar(&opts.trail, "trail", dynamo.DefaultTrailLength, "trail length in points")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging on stderr")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run the simulation in a window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}
	guiCmd.Flags().BoolVar(&sound, "sound", false, "play a chime on every collision")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the simulation in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	liveCmd.Flags().BoolVar(&pick, "pick", false, "choose a preset from a menu first")
	liveCmd.Flags().StringVar(&theme, "theme", "", "colour theme (one of "+strings.Join(viz.ThemeNames(), ", ")+")")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and archive the result",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	runCmd.Flags().IntVar(&maxSteps, "max-steps", 0, "step limit (0 uses the config value)")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not archive the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot energy and collisions of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frames to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw the paths of a run, or one frame of it, as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&svgStep, "step", -1, "draw the frame at this step with its trails instead of the full paths")
	for _, c := range []*cobra.Command{exportCSVCmd, exportJSONCmd, exportSVGCmd} {
		c.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "run many seeds in parallel and report steps to completion",
		Args:  cobra.NoArgs,
		RunE:  benchRuns,
	}
	benchCmd.Flags().IntVar(&numRuns, "runs", 16, "number of seeds")
	benchCmd.Flags().IntVar(&maxSteps, "max-steps", 0, "step limit per run (0 uses the config value)")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search over parameters for the fewest steps to completion",
		Args:  cobra.NoArgs,
		RunE:  sweepParams,
	}
	sweepCmd.Flags().StringArrayVar(&sweeps, "param", nil, "name=v1,v2,... (repeatable; one of "+strings.Join(optim.Knobs(), ", ")+")")
	sweepCmd.Flags().IntVar(&numRuns, "runs", 8, "seeds per grid cell")
	sweepCmd.Flags().IntVar(&maxSteps, "max-steps", 0, "step limit per run (0 uses the config value)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
		},
	}

	rootCmd.AddCommand(guiCmd, liveCmd, runCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, benchCmd, sweepCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func resolve(cmd *cobra.Command) (*config.Config, error) {
	return opts.resolve(cmd.Flags().Changed)
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := resolve(cmd)
	if err != nil {
		return err
	}

	log := opts.logger(os.Stderr)
	app, err := gui.NewApp(cfg, log)
	if err != nil {
		return err
	}
	if sound {
		app.EnableSound()
	}
	return app.Run()
}

func runLive(cmd *cobra.Command, args []string) error {
	if pick {
		return viz.RunInteractive()
	}

	cfg, err := resolve(cmd)
	if err != nil {
		return err
	}
	colorA, colorB, err := cfg.Colors()
	if err != nil {
		return err
	}

	title := opts.preset
	if title == "" {
		title = "circlesim"
	}
	return viz.Run(cfg.Sim(), colorA, colorB, title, theme)
}

func stepLimit(cfg *config.Config) int {
	if maxSteps > 0 {
		return maxSteps
	}
	return cfg.MaxSteps
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolve(cmd)
	if err != nil {
		return err
	}
	log := opts.logger(os.Stderr)

	sim := cfg.Sim()
	colorA, colorB, err := cfg.Colors()
	if err != nil {
		return err
	}
	d, err := dynamo.NewDriver(sim, colorA, colorB)
	if err != nil {
		return err
	}
	for _, m := range metrics.Default(sim) {
		d.AddMetric(m)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running seed %d to %d collisions...\n", sim.Seed, sim.TargetCollisions)
	start := time.Now()

	result, err := d.Run(ctx, stepLimit(cfg))
	interrupted := errors.Is(err, context.Canceled)
	if err != nil && !interrupted {
		return err
	}
	elapsed := time.Since(start)
	log.Debug("run finished", "steps", result.StepsTaken, "elapsed", elapsed)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("collisions: %d/%d\n", result.Collisions, sim.TargetCollisions)
	fmt.Printf("wall bounces: %d\n", result.Bounces)
	switch {
	case interrupted:
		fmt.Println("interrupted before completing")
	case !result.Completed:
		fmt.Println("stopped at the step limit before completing")
	}

	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	if noSave || interrupted {
		return nil
	}
	st := storage.New(opts.dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(opts.preset, result)
	if err != nil {
		return err
	}
	fmt.Printf("\nrun id: %s\n", runID)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(opts.dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tSEED\tSTEPS\tCOLLISIONS\tDONE")

	for _, run := range runs {
		preset := run.Preset
		if preset == "" {
			preset = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%v\n",
			run.ID,
			preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Seed,
			run.StepsTaken,
			run.Collisions,
			run.Completed,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(opts.dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	if len(states) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("seed: %d\n", meta.Seed)
	fmt.Printf("samples: %d\n\n", len(states))

	energy := make([]float64, len(states))
	hits := make([]float64, len(states))
	for i, s := range states {
		energy[i] = dynamo.TotalEnergy(s, meta.Config)
		hits[i] = float64(s.Collisions)
	}

	for _, series := range []struct {
		data    []float64
		caption string
	}{
		{energy, "total energy vs step"},
		{hits, "collisions vs step"},
	} {
		graph := asciigraph.Plot(series.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(series.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

// outputFile returns the --output file, or stdout when none was given.
func outputFile() (*os.File, func() error, error) {
	if output == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(output)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func loadRun(runID string) (*storage.RunMetadata, []dynamo.State, error) {
	st := storage.New(opts.dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	states, err := st.LoadStates(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(states) == 0 {
		return nil, nil, fmt.Errorf("no data to export")
	}
	return meta, states, nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, states, err := loadRun(args[0])
	if err != nil {
		return err
	}
	f, closeFn, err := outputFile()
	if err != nil {
		return err
	}
	if err := storage.ExportCSV(f, states); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, states, err := loadRun(args[0])
	if err != nil {
		return err
	}
	f, closeFn, err := outputFile()
	if err != nil {
		return err
	}
	if err := storage.ExportJSON(f, meta, states); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, states, err := loadRun(args[0])
	if err != nil {
		return err
	}
	cfg, err := resolve(cmd)
	if err != nil {
		return err
	}
	colorA, colorB, err := cfg.Colors()
	if err != nil {
		return err
	}

	colors := [2]color.RGBA{colorA, colorB}
	w, h := cfg.Window.Width, cfg.Window.Height

	var svg string
	if svgStep >= 0 {
		snap, err := export.FrameSnapshot(states, svgStep, meta.Config, colors)
		if err != nil {
			return err
		}
		svg = export.SnapshotToSVG(snap, meta.Config, w, h)
	} else {
		svg = export.TrajectoryToSVG(states, meta.Config, colors, w, h)
	}
	f, closeFn, err := outputFile()
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(f, svg); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func benchRuns(cmd *cobra.Command, args []string) error {
	if err := checkRuns(numRuns); err != nil {
		return err
	}
	cfg, err := resolve(cmd)
	if err != nil {
		return err
	}
	sim := cfg.Sim()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ens := dynamo.NewEnsemble(sim, numRuns, sim.Seed, metrics.Default)

	fmt.Printf("running %d seeds from %d\n\n", numRuns, sim.Seed)
	start := time.Now()
	results, err := ens.Run(ctx, stepLimit(cfg))
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tSTEPS\tCOLLISIONS\tBOUNCES\tENERGY LOSS\tDONE")

	completed, totalSteps := 0, 0
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%.3f\t%v\n",
			r.Config.Seed, r.StepsTaken, r.Collisions, r.Bounces, r.Metrics["energy_loss"], r.Completed)
		if r.Completed {
			completed++
			totalSteps += r.StepsTaken
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d/%d completed in %v", completed, len(results), elapsed)
	if completed > 0 {
		fmt.Printf(", mean %.1f steps to completion", float64(totalSteps)/float64(completed))
	}
	fmt.Println()
	return nil
}

func sweepParams(cmd *cobra.Command, args []string) error {
	if len(sweeps) == 0 {
		return fmt.Errorf("at least one --param is required")
	}
	if err := checkRuns(numRuns); err != nil {
		return err
	}
	params := make([]optim.Param, 0, len(sweeps))
	for _, s := range sweeps {
		p, err := optim.ParseParam(s)
		if err != nil {
			return err
		}
		params = append(params, p)
	}

	cfg, err := resolve(cmd)
	if err != nil {
		return err
	}
	sim := cfg.Sim()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	search := optim.NewGridSearch(params, numRuns, sim.Seed, stepLimit(cfg))
	best, points, err := search.Search(ctx, sim, optim.MeanSteps)
	if err != nil {
		return err
	}

	names := make([]string, len(params))
	for i, p := range params {
		names[i] = strings.ToUpper(p.Name)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(names, "\t")+"\tDONE\tMEAN STEPS")
	for _, pt := range points {
		for _, p := range params {
			fmt.Fprintf(w, "%g\t", pt.Params[p.Name])
		}
		fmt.Fprintf(w, "%d/%d\t%.1f\n", pt.Completed, pt.Runs, pt.Score)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nbest: %v (%.1f steps)\n", best.Params, best.Score)
	return nil
}
