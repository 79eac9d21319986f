package experiment

import (
	"context"
	"fmt"
	"sort"

	"github.com/MBP16/SIR-Modeling/internal/compute"
	"github.com/MBP16/SIR-Modeling/internal/sim"
)

// RunFunc produces one trajectory. A partial trajectory may accompany a
// non-nil error.
type RunFunc func(ctx context.Context, p sim.Params) (sim.Trajectory, sim.Reason, int, error)

type Registry struct {
	runners map[string]RunFunc
}

func NewRegistry() *Registry {
	r := &Registry{
		runners: make(map[string]RunFunc),
	}

	r.runners["euler"] = runEuler
	r.runners["cpu"] = backendRunner(compute.NewCPUBackend())
	r.runners["native"] = backendRunner(compute.NewNativeBackend())
	r.runners["auto"] = backendRunner(compute.AutoSelectBackend())

	return r
}

// Register adds or replaces a runner.
func (r *Registry) Register(name string, fn RunFunc) {
	r.runners[name] = fn
}

func (r *Registry) GetRunner(name string) (RunFunc, error) {
	fn, ok := r.runners[name]
	if !ok {
		return nil, fmt.Errorf("unknown runner: %s", name)
	}
	return fn, nil
}

func (r *Registry) ListRunners() []string {
	names := make([]string, 0, len(r.runners))
	for name := range r.runners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func backendRunner(b compute.Backend) RunFunc {
	return func(ctx context.Context, p sim.Params) (sim.Trajectory, sim.Reason, int, error) {
		if !b.Available() {
			return nil, sim.ReasonNone, 0, fmt.Errorf("%s: %w", b.Name(), compute.ErrUnavailable)
		}
		cols, err := b.Model(ctx, p)
		if cols == nil {
			return nil, sim.ReasonNone, 0, err
		}
		traj, terr := cols.Trajectory()
		if terr != nil {
			return nil, sim.ReasonNone, 0, terr
		}
		steps := cols.Len() - 1
		if err != nil {
			return traj, sim.ReasonNone, steps, err
		}
		return traj, reasonFor(p, cols.T[steps]), steps, nil
	}
}

// reasonFor recovers the stop reason of a finished columnar run, which does
// not carry one.
func reasonFor(p sim.Params, lastT float64) sim.Reason {
	if p.HasHorizon() && lastT >= p.EndTime {
		return sim.ReasonHorizon
	}
	return sim.ReasonConverged
}
