package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MBP16/SIR-Modeling/internal/config"
)

var (
	dataDir   string
	storeKind string
	logLevel  string

	dt            float64
	lambda        float64
	gamma         float64
	s0            float64
	i0            float64
	r0            float64
	t0            float64
	endTime       float64
	precision     string
	digits        uint32
	tolerance     float64
	maxSteps      int
	convergeEarly bool
	runner        string
	// Config file
	configFile string
	// Preset name
	preset string
	// Outputs written next to the stored run
	csvOut      bool
	imageOut    bool
	metricsFile string
	noSave      bool

	column  string
	outFile string
	theme   string
	dtList  []float64

	lambdaRange []float64
	gammaRange  []float64
	gridPoints  int
	targetPeak  float64
	targetCSV   string
)

var logger *slog.Logger

// main registers the sirsim commands and flags and executes the root command.
// It exits the process with status 1 if command execution returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "sirsim",
		Short: "SIR epidemic simulation lab (explicit Euler)",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(logLevel)
			if err != nil {
				return err
			}
			logger = l
			slog.SetDefault(l)
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".sirsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&storeKind, "store", "file", "run store (file, sqlite)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addParamFlags(runCmd)
	runCmd.Flags().BoolVar(&csvOut, "csv", false, "also write the table to the configured output file")
	runCmd.Flags().BoolVar(&imageOut, "image", false, "also render the configured image file")
	runCmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write prometheus textfile metrics")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show run metadata and summary",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&column, "column", "", "plot one column (S, I, R, dSdt, dIdt, dRdt)")

	imageCmd := &cobra.Command{
		Use:   "image [run_id] [file]",
		Short: "render run as PNG or SVG",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  imageRun,
	}
	imageCmd.Flags().StringVar(&configFile, "config", "", "config file with plot settings (yaml)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	viewCmd := &cobra.Command{
		Use:   "view [run_id]",
		Short: "browse run entries interactively",
		Args:  cobra.ExactArgs(1),
		RunE:  viewRun,
	}
	viewCmd.Flags().StringVar(&theme, "theme", "clinical", "color theme")

	deleteCmd := &cobra.Command{
		Use:   "delete [run_id]",
		Short: "delete a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  deleteRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("presets:")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("  %-16s dt=%g end=%g precision=%s runner=%s\n", name, p.Dt, p.EndTime, p.Precision, p.Runner)
			}
			return nil
		},
	}

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "compare float and decimal precision on the same parameters",
		Args:  cobra.NoArgs,
		RunE:  comparePrecision,
	}
	addParamFlags(compareCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run the same parameters over several time steps",
		Args:  cobra.NoArgs,
		RunE:  sweepDt,
	}
	addParamFlags(sweepCmd)
	sweepCmd.Flags().Float64SliceVar(&dtList, "dts", []float64{0.01, 0.05, 0.1, 0.25, 0.5}, "time steps to sweep")

	fitCmd := &cobra.Command{
		Use:   "fit",
		Short: "grid search lambda and gamma against a target peak or CSV series",
		Args:  cobra.NoArgs,
		RunE:  fitRates,
	}
	addParamFlags(fitCmd)
	fitCmd.Flags().Float64SliceVar(&lambdaRange, "lambda-range", []float64{0.01, 0.05}, "lambda search interval (lo,hi)")
	fitCmd.Flags().Float64SliceVar(&gammaRange, "gamma-range", []float64{0.1, 1}, "gamma search interval (lo,hi)")
	fitCmd.Flags().IntVar(&gridPoints, "points", 9, "grid points per parameter")
	fitCmd.Flags().Float64Var(&targetPeak, "target-peak", 0, "fit the infected peak to this value")
	fitCmd.Flags().StringVar(&targetCSV, "target-csv", "", "fit the I series of this CSV table")

	rootCmd.AddCommand(runCmd, listCmd, showCmd, plotCmd, imageCmd, exportCSVCmd, exportJSONCmd, viewCmd, deleteCmd, presetsCmd, compareCmd, sweepCmd, fitCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addParamFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&lambda, "lambda", config.DefaultLambda, "infection rate")
	cmd.Flags().Float64Var(&gamma, "gamma", config.DefaultGamma, "recovery rate")
	cmd.Flags().Float64Var(&s0, "s", config.DefaultS, "initial susceptible")
	cmd.Flags().Float64Var(&i0, "i", config.DefaultI, "initial infected")
	cmd.Flags().Float64Var(&r0, "r", 0, "initial recovered")
	cmd.Flags().Float64Var(&t0, "t0", 0, "initial time")
	cmd.Flags().Float64Var(&endTime, "end", config.DefaultEndTime, "end time (0 runs until convergence)")
	cmd.Flags().StringVar(&precision, "precision", "float", "arithmetic (float, decimal)")
	cmd.Flags().Uint32Var(&digits, "digits", 28, "significant digits for decimal precision")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 1e-5, "convergence tolerance")
	cmd.Flags().IntVar(&maxSteps, "max-steps", 1_000_000, "iteration ceiling")
	cmd.Flags().BoolVar(&convergeEarly, "converge-early", false, "also stop on convergence before the end time")
	cmd.Flags().StringVar(&runner, "runner", config.DefaultRunner, "runner (euler, cpu, native, auto)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}
