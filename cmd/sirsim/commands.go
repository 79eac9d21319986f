package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/MBP16/SIR-Modeling/internal/config"
	"github.com/MBP16/SIR-Modeling/internal/experiment"
	"github.com/MBP16/SIR-Modeling/internal/export"
	"github.com/MBP16/SIR-Modeling/internal/metrics"
	"github.com/MBP16/SIR-Modeling/internal/numeric"
	"github.com/MBP16/SIR-Modeling/internal/optim"
	"github.com/MBP16/SIR-Modeling/internal/plot"
	"github.com/MBP16/SIR-Modeling/internal/sim"
	"github.com/MBP16/SIR-Modeling/internal/storage"
	"github.com/MBP16/SIR-Modeling/internal/viz"
)

// resolveConfig layers preset, config file and explicitly set flags, in
// that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	// Load config file if specified (overrides preset)
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("lambda") {
		cfg.Lambda = lambda
	}
	if flags.Changed("gamma") {
		cfg.Gamma = gamma
	}
	if flags.Changed("s") {
		cfg.Initial.S = s0
	}
	if flags.Changed("i") {
		cfg.Initial.I = i0
	}
	if flags.Changed("r") {
		cfg.Initial.R = r0
	}
	if flags.Changed("t0") {
		cfg.Initial.T = t0
	}
	if flags.Changed("end") {
		cfg.EndTime = endTime
	}
	if flags.Changed("precision") {
		cfg.Precision = precision
	}
	if flags.Changed("digits") {
		cfg.DecimalDigits = digits
	}
	if flags.Changed("tolerance") {
		cfg.Tolerance = tolerance
	}
	if flags.Changed("max-steps") {
		cfg.MaxSteps = maxSteps
	}
	if flags.Changed("converge-early") {
		cfg.ConvergeEarly = convergeEarly
	}
	if flags.Changed("runner") {
		cfg.Runner = runner
	}
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func openStore() (storage.Repository, error) {
	return storage.Open(storeKind, dataDir)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	p, err := cfg.Params()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	collector := metrics.NewCollector()
	exp := experiment.New(logger).WithCollector(collector)

	fmt.Printf("running SIR simulation (%s, %s)...\n", cfg.Runner, p.Mode)
	out, runErr := exp.Run(ctx, p, cfg.Runner)
	if out == nil {
		return runErr
	}
	if runErr != nil && !errors.Is(runErr, sim.ErrDidNotConverge) {
		return runErr
	}

	if metricsFile != "" {
		if err := collector.WriteTextfile(metricsFile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	if !noSave {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		runID, err := st.Save(storage.NewMetadata(out), out.Trajectory)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	if csvOut {
		if err := export.SaveCSV(cfg.Output, out.Trajectory); err != nil {
			return err
		}
		fmt.Printf("table: %s\n", cfg.Output)
	}
	if imageOut || cfg.Plot.ExportImage {
		if err := plot.SaveImage(cfg.Plot.File, out.Trajectory, cfg.Plot); err != nil {
			return err
		}
		fmt.Printf("image: %s\n", cfg.Plot.File)
	}

	fmt.Printf("completed in %v\n", out.Elapsed)
	fmt.Printf("stopped: %s after %d steps\n", out.Reason, out.Steps)
	printSummary(out.Summary)

	// a ceiling hit still stores the partial run but fails the command
	return runErr
}

func printSummary(s metrics.Summary) {
	fmt.Println("\nsummary:")
	fmt.Printf("  peak infected: %.6f at t=%.4f\n", s.PeakInfected, s.PeakTime)
	fmt.Printf("  final:         t=%.4f S=%.6f I=%.6f R=%.6f\n", s.FinalTime, s.FinalS, s.FinalI, s.FinalR)
	fmt.Printf("  drift:         %.3g\n", s.ConservationDrift)
	fmt.Printf("  residual:      %.3g\n", s.DerivativeResidual)
	if s.Negative {
		fmt.Printf("  warning: negative compartment (min S=%.6f, min I=%.6f); dt too coarse\n", s.MinS, s.MinI)
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tRUNNER\tPRECISION\tDT\tEND\tREASON\tSTEPS\tPEAK I")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.4f\t%g\t%s\t%d\t%.3f\n",
			run.ID,
			run.Timestamp.Local().Format("2006-01-02 15:04:05"),
			run.Runner,
			run.Params.Precision,
			run.Params.Dt,
			run.Params.EndTime,
			run.Reason,
			run.Steps,
			run.Summary.PeakInfected,
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, sim.Trajectory, error) {
	st, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	defer st.Close()

	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, traj, nil
}

func showRun(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}

	p := meta.Params
	fmt.Printf("run:       %s\n", meta.ID)
	fmt.Printf("created:   %s\n", meta.Timestamp.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("runner:    %s\n", meta.Runner)
	fmt.Printf("precision: %s\n", p.Precision)
	fmt.Printf("params:    dt=%g lambda=%g gamma=%g S0=%g I0=%g R0=%g t0=%g end=%g\n",
		p.Dt, p.Lambda, p.Gamma, p.S0, p.I0, p.R0, p.T0, p.EndTime)
	fmt.Printf("stopped:   %s after %d steps (%.3f ms)\n", meta.Reason, meta.Steps, meta.ElapsedMS)
	printSummary(meta.Summary)

	fmt.Println("\nentries:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, h := range export.Header {
		fmt.Fprintf(w, "%s\t", h)
	}
	fmt.Fprintln(w)
	for _, k := range headAndTail(traj.Len(), 2) {
		row := traj.Row(k)
		ds, di, dr := export.NoDerivative, export.NoDerivative, export.NoDerivative
		if row.HasDerivative {
			ds, di, dr = row.DS, row.DI, row.DR
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n", row.Time, row.S, row.I, row.R, ds, di, dr)
	}
	return w.Flush()
}

// headAndTail returns the first and last m indices of n, without repeats.
func headAndTail(n, m int) []int {
	var idx []int
	for k := 0; k < n; k++ {
		if k < m || k >= n-m {
			idx = append(idx, k)
		}
	}
	return idx
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if traj.Len() < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("entries: %d\n\n", traj.Len())

	opts := plot.DefaultOptions()
	if column != "" {
		graph, err := plot.Column(traj, column, opts)
		if err != nil {
			return err
		}
		fmt.Println(graph)
		return nil
	}
	fmt.Println(plot.ASCII(traj, config.DefaultPlotConfig(), opts))
	fmt.Println()
	return nil
}

func imageRun(cmd *cobra.Command, args []string) error {
	_, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	if configFile != "" {
		if cfg, err = config.Load(configFile); err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}

	path := cfg.Plot.File
	if len(args) > 1 {
		path = args[1]
	}
	if err := plot.SaveImage(path, traj, cfg.Plot); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", path)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if outFile == "" {
		return export.WriteCSV(os.Stdout, traj)
	}
	if err := export.SaveCSV(outFile, traj); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", outFile)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}

	doc := export.NewDocument(traj)
	doc.ID = meta.ID
	doc.Runner = meta.Runner
	doc.Params = meta.Params
	doc.Reason = meta.Reason
	doc.Summary = meta.Summary

	if outFile == "" {
		return export.WriteJSON(os.Stdout, doc)
	}
	if err := export.SaveJSON(outFile, doc); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", outFile)
	return nil
}

func viewRun(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}
	title := fmt.Sprintf("%s (%s, dt=%g)", meta.ID, meta.Params.Precision, meta.Params.Dt)
	return viz.Run(title, traj, theme)
}

func deleteRun(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Delete(args[0]); err != nil {
		return err
	}
	fmt.Printf("deleted %s\n", args[0])
	return nil
}

func comparePrecision(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	p, err := cfg.Params()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	exp := experiment.New(logger)
	modes := []numeric.Mode{numeric.FloatMode, numeric.DecimalMode}
	outs := make([]*experiment.Outcome, len(modes))
	for k, mode := range modes {
		pm := p
		pm.Mode = mode
		out, err := exp.Run(ctx, pm, "euler")
		if err != nil {
			return fmt.Errorf("%s: %w", mode, err)
		}
		outs[k] = out
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRECISION\tSTEPS\tREASON\tTIME\tPEAK I\tFINAL R\tDRIFT")
	for _, out := range outs {
		s := out.Summary
		fmt.Fprintf(w, "%s\t%d\t%s\t%v\t%.6f\t%.6f\t%.3g\n",
			out.Mode, out.Steps, out.Reason, out.Elapsed, s.PeakInfected, s.FinalR, s.ConservationDrift)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fs, ds := outs[0].Trajectory.Series(), outs[1].Trajectory.Series()
	n := min(fs.Len(), ds.Len())
	if fs.Len() != ds.Len() {
		fmt.Printf("\nstep counts differ (%d vs %d): accumulated time crossed the end differently\n", fs.Len()-1, ds.Len()-1)
	}
	fmt.Printf("\nmax |float - decimal| over %d shared entries:\n", n)
	for _, c := range []struct {
		name string
		a, b []float64
	}{{"S", fs.S, ds.S}, {"I", fs.I, ds.I}, {"R", fs.R, ds.R}} {
		fmt.Printf("  %s: %.3g\n", c.name, floats.Distance(c.a[:n], c.b[:n], math.Inf(1)))
	}
	return nil
}

func sweepDt(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	base, err := cfg.Params()
	if err != nil {
		return err
	}

	ps := make([]sim.Params, len(dtList))
	for k, v := range dtList {
		ps[k] = base
		ps[k].Dt = v
	}

	ctx, cancel := signalContext()
	defer cancel()

	outs, errs := experiment.New(logger).Sweep(ctx, ps)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DT\tSTEPS\tREASON\tPEAK I\tPEAK T\tMIN S\tMIN I\tDRIFT\tNOTE")
	for k, out := range outs {
		if out == nil {
			fmt.Fprintf(w, "%g\t-\t-\t-\t-\t-\t-\t-\t%v\n", ps[k].Dt, errs[k])
			continue
		}
		note := ""
		if errs[k] != nil {
			note = errs[k].Error()
		} else if out.Summary.Negative {
			note = "negative compartment"
		}
		s := out.Summary
		fmt.Fprintf(w, "%g\t%d\t%s\t%.4f\t%.4f\t%.4f\t%.4f\t%.3g\t%s\n",
			ps[k].Dt, out.Steps, out.Reason, s.PeakInfected, s.PeakTime, s.MinS, s.MinI, s.ConservationDrift, note)
	}
	return w.Flush()
}

func fitRates(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	base, err := cfg.Params()
	if err != nil {
		return err
	}
	if len(lambdaRange) != 2 || len(gammaRange) != 2 {
		return errors.New("--lambda-range and --gamma-range take exactly two values")
	}

	var objective optim.Objective
	switch {
	case targetCSV != "":
		observed, err := export.LoadCSV(targetCSV)
		if err != nil {
			return err
		}
		objective = optim.SeriesObjective(observed)
	case cmd.Flags().Changed("target-peak"):
		objective = optim.PeakObjective(targetPeak)
	default:
		return errors.New("one of --target-peak or --target-csv is required")
	}

	g, err := optim.NewGridSearch([]string{"lambda", "gamma"}, [][]float64{
		optim.Span(lambdaRange[0], lambdaRange[1], gridPoints),
		optim.Span(gammaRange[0], gammaRange[1], gridPoints),
	})
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	best, all, err := g.Search(ctx, experiment.New(logger), base, objective)
	if err != nil {
		return err
	}

	failed := 0
	for _, c := range all {
		if c.Err != nil {
			failed++
		}
	}
	fmt.Printf("evaluated %d grid points (%d failed)\n", len(all), failed)
	fmt.Printf("best: lambda=%g gamma=%g score=%.6g\n", best.Params["lambda"], best.Params["gamma"], best.Score)
	return nil
}
