package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/apd/v3"

	"github.com/MBP16/SIR-Modeling/internal/integrators"
	"github.com/MBP16/SIR-Modeling/internal/metrics"
	"github.com/MBP16/SIR-Modeling/internal/models"
	"github.com/MBP16/SIR-Modeling/internal/numeric"
	"github.com/MBP16/SIR-Modeling/internal/sim"
)

func newEngine[N any](b numeric.Backend[N], p sim.Params) (*sim.Engine[N], error) {
	dyn, err := models.NewSIR[N](b, p.Lambda, p.Gamma)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sim.ErrInvalidParameter, err)
	}
	return sim.New[N](b, p, dyn, integrators.NewEuler[N](b))
}

func runEngine[N any](ctx context.Context, b numeric.Backend[N], p sim.Params) (sim.Trajectory, sim.Reason, int, error) {
	eng, err := newEngine(b, p)
	if err != nil {
		return nil, sim.ReasonNone, 0, err
	}
	res, err := eng.Run(ctx)
	return res.History, res.Reason, res.Steps, err
}

// Sweep runs every parameter set on the generic engine concurrently, one
// ensemble per precision mode. Outcomes and errors are indexed like ps;
// Elapsed is the wall time of the whole ensemble.
func (e *Experiment) Sweep(ctx context.Context, ps []sim.Params) ([]*Outcome, []error) {
	outs := make([]*Outcome, len(ps))
	errs := make([]error, len(ps))

	var floats, decimals []int
	for k, p := range ps {
		switch p.Mode {
		case numeric.DecimalMode:
			decimals = append(decimals, k)
		default:
			floats = append(floats, k)
		}
	}

	sweepEnsemble(ctx, ps, floats, outs, errs, func(p sim.Params) numeric.Backend[float64] {
		return numeric.NewFloat()
	})
	sweepEnsemble(ctx, ps, decimals, outs, errs, func(p sim.Params) numeric.Backend[*apd.Decimal] {
		return numeric.NewDecimal(p.DecimalDigits)
	})

	for k, out := range outs {
		if out == nil {
			continue
		}
		if e.collector != nil && errs[k] == nil {
			e.collector.ObserveRun(out.Mode.String(), out.Reason.String(), out.Steps, out.Elapsed, out.Summary)
		}
	}
	e.logger.Info("sweep finished", "runs", len(ps))
	return outs, errs
}

func sweepEnsemble[N any](ctx context.Context, ps []sim.Params, idx []int, outs []*Outcome, errs []error, backend func(sim.Params) numeric.Backend[N]) {
	if len(idx) == 0 {
		return
	}

	engines := make([]*sim.Engine[N], 0, len(idx))
	slots := make([]int, 0, len(idx))
	for _, k := range idx {
		eng, err := newEngine(backend(ps[k]), ps[k])
		if err != nil {
			errs[k] = err
			continue
		}
		engines = append(engines, eng)
		slots = append(slots, k)
	}

	start := time.Now()
	results, runErrs := sim.NewEnsemble(engines...).Run(ctx)
	elapsed := time.Since(start)
	for j, res := range results {
		k := slots[j]
		errs[k] = runErrs[j]
		outs[k] = &Outcome{
			Params:     ps[k],
			Runner:     "euler",
			Trajectory: res.History,
			Reason:     res.Reason,
			Steps:      res.Steps,
			Mode:       ps[k].Mode,
			Elapsed:    elapsed,
			Summary:    metrics.Summarize(res.History),
		}
	}
}
