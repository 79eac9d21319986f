package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/MBP16/SIR-Modeling/internal/numeric"
)

// Engine runs one parameter set on one backend. Runs never share state.
type Engine[N any] struct {
	backend numeric.Backend[N]
	params  Params
	dyn     Dynamics[N]
	stepper Stepper[N]

	initial State[N]
	dt      N
	end     N
	total   N
	eps     N
}

// New validates the parameters and converts them into the backend's
// representation. No step is taken until Run.
//
// The rates integrated are those held by dyn. When dyn is a RateSource its
// rates must equal p.Lambda and p.Gamma; otherwise the Params rates are only
// validated and carried into exports.
func New[N any](b numeric.Backend[N], p Params, dyn Dynamics[N], stepper Stepper[N]) (*Engine[N], error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if b.Mode() != p.Mode {
		return nil, &ParamError{Name: "mode", Value: float64(p.Mode), Reason: fmt.Sprintf("backend %s does not serve mode %s", b.Name(), p.Mode)}
	}
	if dyn == nil || stepper == nil {
		return nil, fmt.Errorf("%w: dynamics and stepper are required", ErrInvalidParameter)
	}
	if rs, ok := dyn.(RateSource); ok {
		lambda, gamma := rs.Rates()
		if lambda != p.Lambda {
			return nil, &ParamError{Name: "lambda", Value: p.Lambda, Reason: fmt.Sprintf("dynamics use %g", lambda)}
		}
		if gamma != p.Gamma {
			return nil, &ParamError{Name: "gamma", Value: p.Gamma, Reason: fmt.Sprintf("dynamics use %g", gamma)}
		}
	}
	p = p.withDefaults()

	vals, err := numeric.ConvertSlice(b, []float64{p.T0, p.S0, p.I0, p.R0, p.Dt, p.EndTime, p.Tolerance})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}

	e := &Engine[N]{
		backend: b,
		params:  p,
		dyn:     dyn,
		stepper: stepper,
		initial: State[N]{T: vals[0], S: vals[1], I: vals[2], R: vals[3]},
		dt:      vals[4],
		end:     vals[5],
		eps:     vals[6],
	}
	e.total = b.Add(b.Add(e.initial.S, e.initial.I), e.initial.R)
	return e, nil
}

func (e *Engine[N]) Params() Params              { return e.params }
func (e *Engine[N]) Backend() numeric.Backend[N] { return e.backend }
func (e *Engine[N]) Initial() State[N]           { return e.initial }

// Total returns S0+I0+R0 in the engine's representation.
func (e *Engine[N]) Total() N { return e.total }

// Run integrates until a stopping rule fires. When the iteration ceiling
// is reached first the partial result is returned with ErrDidNotConverge.
func (e *Engine[N]) Run(ctx context.Context) (*Result[N], error) {
	b := e.backend
	x := e.initial

	result := &Result[N]{
		History: NewHistory(b, x, e.capacity()),
	}
	term := NewTermination(b, e.end, e.total, e.eps, e.params.ConvergeEarly)

	for term.Status() == Running {
		if result.Steps >= e.params.MaxSteps {
			return result, &SimulationError{
				Step:    result.Steps,
				Time:    b.Float64(x.T),
				Wrapped: ErrDidNotConverge,
			}
		}

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		next, d := e.stepper.Step(e.dyn, x, e.dt)
		result.History.Record(next, d)
		result.Steps++
		x = next

		term.Check(x)
	}

	result.Reason = term.Reason()
	return result, nil
}

func (e *Engine[N]) capacity() int {
	const convergenceHint = 4096
	limit := e.params.MaxSteps + 1
	if !e.params.HasHorizon() {
		return min(convergenceHint, limit)
	}
	steps := math.Ceil((e.params.EndTime-e.params.T0)/e.params.Dt) + 1
	if steps < 1 {
		return 2
	}
	if steps >= float64(limit) {
		return limit
	}
	return int(steps) + 1
}
