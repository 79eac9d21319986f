package sim

import "github.com/MBP16/SIR-Modeling/internal/numeric"

// State is one point of a trajectory.
type State[N any] struct {
	T, S, I, R N
}

// Derivative holds the instantaneous rates at a state.
type Derivative[N any] struct {
	DS, DI, DR N
}

// Dynamics evaluates the rates of change at a state.
type Dynamics[N any] interface {
	Derive(x State[N]) Derivative[N]
}

// RateSource is implemented by dynamics built from an infection rate and a
// recovery rate. New refuses a RateSource whose rates differ from Params.
type RateSource interface {
	Rates() (lambda, gamma float64)
}

// Stepper advances a state by dt and reports the derivative it used.
type Stepper[N any] interface {
	Step(dyn Dynamics[N], x State[N], dt N) (State[N], Derivative[N])
}

// Reason tells why a run stopped.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonHorizon
	ReasonConverged
)

func (r Reason) String() string {
	switch r {
	case ReasonHorizon:
		return "horizon"
	case ReasonConverged:
		return "converged"
	}
	return "none"
}

// Result is a finished run.
type Result[N any] struct {
	History *History[N]
	Reason  Reason
	Steps   int
}

// Row is one recorded entry rendered as text. Derivative fields are empty
// and HasDerivative is false for the initial entry.
type Row struct {
	Time, S, I, R string
	DS, DI, DR    string
	HasDerivative bool
}

// Series holds the seven recorded sequences as float64. Derivative
// sequences carry NaN at index 0.
type Series struct {
	T, S, I, R []float64
	DS, DI, DR []float64
}

// Len returns the number of entries.
func (s Series) Len() int { return len(s.T) }

// Trajectory is the read-only view exporters and plotters consume.
type Trajectory interface {
	Len() int
	Row(k int) Row
	Series() Series
}

func formatState[N any](b numeric.Backend[N], x State[N]) (t, s, i, r string) {
	return b.Format(x.T), b.Format(x.S), b.Format(x.I), b.Format(x.R)
}
