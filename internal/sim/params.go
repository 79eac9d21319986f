package sim

import (
	"math"

	"github.com/MBP16/SIR-Modeling/internal/numeric"
)

const (
	// DefaultTolerance is the convergence epsilon: a run without a horizon
	// stops once R >= S0+I0+R0 - DefaultTolerance.
	DefaultTolerance = 1e-5

	// DefaultMaxSteps bounds both run time and history memory.
	DefaultMaxSteps = 1_000_000
)

// Params configures one run. The zero value of Tolerance, MaxSteps and
// DecimalDigits selects the package defaults.
type Params struct {
	Dt     float64
	Lambda float64
	Gamma  float64

	S0, I0, R0 float64
	T0         float64

	// EndTime of zero runs until convergence instead of a fixed horizon.
	EndTime float64

	Mode          numeric.Mode
	DecimalDigits uint32

	Tolerance float64
	MaxSteps  int

	// ConvergeEarly also applies the convergence rule when a horizon is set.
	ConvergeEarly bool
}

// DefaultParams is the baseline epidemic: 299 susceptible, one infected,
// twenty time units at dt 0.1.
func DefaultParams() Params {
	return Params{
		Dt:            0.1,
		Lambda:        0.03,
		Gamma:         0.5,
		S0:            299,
		I0:            1,
		R0:            0,
		EndTime:       20,
		Mode:          numeric.FloatMode,
		DecimalDigits: numeric.DefaultDigits,
		Tolerance:     DefaultTolerance,
		MaxSteps:      DefaultMaxSteps,
	}
}

// Validate reports the first parameter outside its valid range.
func (p Params) Validate() error {
	scalars := []struct {
		name string
		v    float64
	}{
		{"dt", p.Dt}, {"lambda", p.Lambda}, {"gamma", p.Gamma},
		{"s0", p.S0}, {"i0", p.I0}, {"r0", p.R0},
		{"t0", p.T0}, {"end_time", p.EndTime}, {"tolerance", p.Tolerance},
	}
	for _, s := range scalars {
		if math.IsNaN(s.v) || math.IsInf(s.v, 0) {
			return &ParamError{Name: s.name, Value: s.v, Reason: "must be finite"}
		}
	}

	if p.Dt <= 0 {
		return &ParamError{Name: "dt", Value: p.Dt, Reason: "must be positive"}
	}
	for _, s := range scalars[1:6] {
		if s.v < 0 {
			return &ParamError{Name: s.name, Value: s.v, Reason: "must be non-negative"}
		}
	}
	if p.EndTime < 0 {
		return &ParamError{Name: "end_time", Value: p.EndTime, Reason: "must be non-negative"}
	}
	if p.Tolerance < 0 {
		return &ParamError{Name: "tolerance", Value: p.Tolerance, Reason: "must be non-negative"}
	}
	if p.MaxSteps < 0 {
		return &ParamError{Name: "max_steps", Value: float64(p.MaxSteps), Reason: "must be non-negative"}
	}
	if p.Mode != numeric.FloatMode && p.Mode != numeric.DecimalMode {
		return &ParamError{Name: "mode", Value: float64(p.Mode), Reason: "unknown precision mode"}
	}
	return nil
}

// Total returns S0+I0+R0.
func (p Params) Total() float64 { return p.S0 + p.I0 + p.R0 }

// HasHorizon reports whether the run stops at a fixed end time.
func (p Params) HasHorizon() bool { return p.EndTime > 0 }

func (p Params) withDefaults() Params {
	if p.Tolerance == 0 {
		p.Tolerance = DefaultTolerance
	}
	if p.MaxSteps == 0 {
		p.MaxSteps = DefaultMaxSteps
	}
	if p.DecimalDigits == 0 {
		p.DecimalDigits = numeric.DefaultDigits
	}
	return p
}
