package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cockroachdb/apd/v3"

	"github.com/MBP16/SIR-Modeling/internal/metrics"
	"github.com/MBP16/SIR-Modeling/internal/numeric"
	"github.com/MBP16/SIR-Modeling/internal/sim"
)

// Outcome is a finished run as the CLI and storage see it.
type Outcome struct {
	Params     sim.Params
	Runner     string
	Trajectory sim.Trajectory
	Reason     sim.Reason
	Steps      int
	Mode       numeric.Mode
	Elapsed    time.Duration
	Summary    metrics.Summary
}

type Experiment struct {
	registry  *Registry
	logger    *slog.Logger
	collector *metrics.Collector
}

func New(logger *slog.Logger) *Experiment {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Experiment{
		registry: NewRegistry(),
		logger:   logger.With(slog.String("component", "experiment")),
	}
}

// WithCollector records every run on c.
func (e *Experiment) WithCollector(c *metrics.Collector) *Experiment {
	e.collector = c
	return e
}

func (e *Experiment) Registry() *Registry { return e.registry }

// Run executes p on the named runner. When the run fails after producing
// entries, the partial Outcome is returned along with the error.
func (e *Experiment) Run(ctx context.Context, p sim.Params, runner string) (*Outcome, error) {
	fn, err := e.registry.GetRunner(runner)
	if err != nil {
		return nil, err
	}

	log := e.logger.With(slog.String("runner", runner), slog.String("mode", p.Mode.String()))
	log.Debug("starting run",
		slog.Float64("dt", p.Dt),
		slog.Float64("lambda", p.Lambda),
		slog.Float64("gamma", p.Gamma),
		slog.Float64("end_time", p.EndTime))

	start := time.Now()
	traj, reason, steps, err := fn(ctx, p)
	elapsed := time.Since(start)

	if traj == nil {
		e.fail(runner)
		log.Error("run failed", slog.Any("error", err))
		return nil, err
	}

	out := &Outcome{
		Params:     p,
		Runner:     runner,
		Trajectory: traj,
		Reason:     reason,
		Steps:      steps,
		Mode:       p.Mode,
		Elapsed:    elapsed,
		Summary:    metrics.Summarize(traj),
	}
	if err != nil {
		e.fail(runner)
		log.Warn("run stopped early", slog.Int("steps", steps), slog.Any("error", err))
		return out, err
	}

	if e.collector != nil {
		e.collector.ObserveRun(out.Mode.String(), reason.String(), steps, elapsed, out.Summary)
	}
	log.Info("run finished",
		slog.String("reason", reason.String()),
		slog.Int("steps", steps),
		slog.Duration("elapsed", elapsed),
		slog.Float64("peak_infected", out.Summary.PeakInfected))
	return out, nil
}

func (e *Experiment) fail(runner string) {
	if e.collector != nil {
		e.collector.ObserveFailure(runner)
	}
}

func runEuler(ctx context.Context, p sim.Params) (sim.Trajectory, sim.Reason, int, error) {
	switch p.Mode {
	case numeric.FloatMode:
		return runEngine[float64](ctx, numeric.NewFloat(), p)
	case numeric.DecimalMode:
		return runEngine[*apd.Decimal](ctx, numeric.NewDecimal(p.DecimalDigits), p)
	}
	return nil, sim.ReasonNone, 0, fmt.Errorf("%w: unknown precision mode %d", sim.ErrInvalidParameter, p.Mode)
}
