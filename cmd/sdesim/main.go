package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/sdesim/internal/analysis"
	"github.com/san-kum/sdesim/internal/config"
	"github.com/san-kum/sdesim/internal/experiment"
	"github.com/san-kum/sdesim/internal/sim"
	"github.com/san-kum/sdesim/internal/storage"
	"github.com/san-kum/sdesim/internal/telemetry"
	"github.com/san-kum/sdesim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	outFile    string
	siteIdx    int
	sweepParam string
	sweepVals  []float64

	flagDim        int
	flagForce      float64
	flagIntegrator string
	flagEnsemble   string
	flagDt         float64
	flagDuration   float64
	flagDiffusion  float64
	flagSeed       int64
	flagMembers    int
)

func main() {
	logger := telemetry.SetupLogger()

	rootCmd := &cobra.Command{
		Use:           "sdesim",
		Short:         "stochastic Lorenz-96 integration lab",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".sdesim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "integrate one trajectory and store it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addModelFlags(runCmd)

	twinCmd := &cobra.Command{
		Use:   "twin",
		Short: "truth twin versus an ensemble of model twins",
		Args:  cobra.NoArgs,
		RunE:  runTwin,
	}
	addModelFlags(twinCmd)
	twinCmd.Flags().StringVar(&flagEnsemble, "ensemble-integrator", config.DefaultEnsemble, "integrator for ensemble members")
	twinCmd.Flags().IntVar(&flagMembers, "members", config.DefaultMembers, "ensemble size")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "step the model in a live terminal view",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addModelFlags(liveCmd)

	lyapunovCmd := &cobra.Command{
		Use:   "lyapunov",
		Short: "estimate the largest Lyapunov exponent under shared noise",
		Args:  cobra.NoArgs,
		RunE:  runLyapunov,
	}
	addModelFlags(lyapunovCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "power spectrum of one site",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&siteIdx, "site", 0, "site index")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model := config.DefaultModel
			if len(args) > 0 {
				model = args[0]
			}
			presets := config.ListPresets(model)
			if len(presets) == 0 {
				fmt.Printf("no presets for model: %s\n", model)
				return nil
			}
			fmt.Printf("presets for %s:\n", model)
			for _, p := range presets {
				c := config.GetPreset(model, p)
				fmt.Printf("  %-14s s=%.2f N=%d T=%.0f\n", p, c.Diffusion, c.Dim, c.Duration)
			}
			return nil
		},
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the first sites of a run as an SVG plot",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default <run_id>.svg)")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "twin-experiment RMSE over a grid of one parameter",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addModelFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&flagEnsemble, "ensemble-integrator", config.DefaultEnsemble, "integrator for ensemble members")
	sweepCmd.Flags().IntVar(&flagMembers, "members", config.DefaultMembers, "ensemble size")
	sweepCmd.Flags().StringVar(&sweepParam, "param", "diffusion", "parameter to sweep (diffusion, force, dt)")
	sweepCmd.Flags().Float64SliceVar(&sweepVals, "values", []float64{0, 0.1, 0.5, 1.0}, "grid values")

	rootCmd.AddCommand(runCmd, twinCmd, liveCmd, lyapunovCmd, sweepCmd, listCmd, plotCmd, analyzeCmd, exportCmd, exportJSONCmd, exportSVGCmd, presetsCmd)
	rootCmd.AddCommand(newBatchCommands()...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = telemetry.WithLogger(ctx, logger)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func addModelFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&flagDim, "dim", config.DefaultDim, "number of sites")
	f.Float64Var(&flagForce, "force", config.DefaultForce, "forcing F")
	f.StringVar(&flagIntegrator, "integrator", config.DefaultIntegrator, "integrator")
	f.Float64Var(&flagDt, "dt", config.DefaultDt, "timestep")
	f.Float64Var(&flagDuration, "time", config.DefaultDuration, "duration")
	f.Float64Var(&flagDiffusion, "diffusion", config.DefaultDiffusion, "noise amplitude s")
	f.Int64Var(&flagSeed, "seed", time.Now().UnixNano(), "random seed")
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	log := telemetry.FromContext(ctx)

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.New(experiment.NewRegistry(), cfg)
	if err != nil {
		return err
	}

	log.Info("running simulation", "model", cfg.Model, "dim", cfg.Dim, "integrator", cfg.Integrator, "diffusion", cfg.Diffusion)
	start := time.Now()

	result, runErr := exp.Run(ctx, nil)
	if result == nil {
		return runErr
	}
	elapsed := time.Since(start)

	runID, err := st.Save(metadataFor(cfg), result)
	if err != nil {
		return err
	}
	telemetry.WithRunID(log, runID).Info("run stored", "steps", result.StepsTaken, "elapsed", elapsed)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	// a partial run is still stored, but the command fails
	return runErr
}

func runTwin(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := experiment.NewTwin(experiment.NewRegistry(), cfg, nil).Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("twin experiment: truth=%s ensemble=%s x%d, s=%.2f, N=%d (%v)\n\n",
		cfg.Integrator, cfg.EnsembleIntegrator, cfg.Members, cfg.Diffusion, cfg.Dim, time.Since(start))
	fmt.Println(viz.Plot("rmse (blue) / spread (red)", 12, 80, res.RMSE, res.Spread))
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tRMSE\tSPREAD")
	stride := max(len(res.Times)/10, 1)
	for k := 0; k < len(res.Times); k += stride {
		fmt.Fprintf(w, "%.3f\t%.4f\t%.4f\n", res.Times[k], res.RMSE[k], res.Spread[k])
	}
	fmt.Fprintf(w, "final\t%.4f\t%.4f\n", res.FinalRMSE(), res.FinalSpread())
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	reg := experiment.NewRegistry()
	dyn, err := reg.GetModel(cfg.Model, cfg.Dim, cfg.Force)
	if err != nil {
		return err
	}
	integ, err := reg.GetIntegrator(cfg.Integrator)
	if err != nil {
		return err
	}
	return viz.RunLive(dyn, integ, experiment.DefaultState(dyn), cfg.Dt, cfg.Diffusion, cfg.Seed)
}

func runLyapunov(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	reg := experiment.NewRegistry()
	dyn, err := reg.GetModel(cfg.Model, cfg.Dim, cfg.Force)
	if err != nil {
		return err
	}
	integ, err := reg.GetIntegrator(cfg.Integrator)
	if err != nil {
		return err
	}

	// spin up onto the attractor first
	spin, err := sim.New(dyn, integ).Run(cmd.Context(), experiment.DefaultState(dyn), sim.Config{
		Dt: cfg.Dt, Duration: cfg.Duration, Diffusion: cfg.Diffusion, Seed: cfg.Seed,
	})
	if err != nil {
		return err
	}

	lambda, err := analysis.LyapunovExponent(dyn, integ, spin.Final(), cfg.Dt, cfg.Duration, cfg.Diffusion, 1e-8, cfg.Seed+1)
	if err != nil {
		return err
	}
	fmt.Printf("largest lyapunov exponent: %.4f\n", lambda)
	if lambda > 0 {
		fmt.Printf("doubling time: %.3f\n", math.Ln2/lambda)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tN\tS\tDURATION\tDT\tINTEG\tSTEPS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%.2f\t%.4f\t%s\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Dim,
			run.Diffusion,
			run.Duration,
			run.Dt,
			run.Integrator,
			run.Steps,
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
	states, _, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s  N=%d  s=%.2f\n", meta.Model, meta.Dim, meta.Diffusion)
	fmt.Printf("samples: %d\n\n", len(states))

	for idx := 0; idx < min(len(states[0]), 4); idx++ {
		fmt.Println(viz.Plot(fmt.Sprintf("x%d vs time", idx), 10, 80, analysis.Series(states, idx)))
		fmt.Println()
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	states, _, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	if len(states) == 0 || siteIdx < 0 || siteIdx >= len(states[0]) {
		return fmt.Errorf("no data for site %d", siteIdx)
	}

	data := analysis.Series(states, siteIdx)
	ps := analysis.PowerSpectrum(data)

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("model: %s\n\n", meta.Model)
	fmt.Println(viz.Plot(fmt.Sprintf("power spectrum (x%d)", siteIdx), 15, 80, ps[:max(len(ps)/4, 1)]))
	fmt.Println()

	freq := analysis.DominantFrequency(data, meta.Dt)
	fmt.Printf("dominant frequency: %.3f\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f\n", 1.0/freq)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	meta, err := storage.New(dataDir).Load(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("%s\n", meta.ID)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "model\t%s\nintegrator\t%s\ndim\t%d\nforce\t%g\ndiffusion\t%g\ndt\t%g\nduration\t%g\nseed\t%d\nsteps\t%d\n",
		meta.Model, meta.Integrator, meta.Dim, meta.Force, meta.Diffusion, meta.Dt, meta.Duration, meta.Seed, meta.Steps)
	for name, v := range meta.Metrics {
		fmt.Fprintf(w, "%s\t%.6f\n", name, v)
	}
	return w.Flush()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	result, err := loadResult(st, meta)
	if err != nil {
		return err
	}

	if outFile == "" {
		return storage.ExportJSONStdout(*meta, result)
	}
	if err := storage.ExportJSON(outFile, *meta, result); err != nil {
		return err
	}
	telemetry.FromContext(cmd.Context()).Info("exported run", "run_id", meta.ID, "path", outFile)
	return nil
}
