package integrators

import (
	"github.com/MBP16/SIR-Modeling/internal/numeric"
	"github.com/MBP16/SIR-Modeling/internal/sim"
)

// Euler is the explicit (forward) Euler method. It never clamps the
// result, so a coarse dt can drive S or I below zero.
type Euler[N any] struct {
	b numeric.Backend[N]
}

func NewEuler[N any](b numeric.Backend[N]) *Euler[N] {
	return &Euler[N]{b: b}
}

func (e *Euler[N]) Step(dyn sim.Dynamics[N], x sim.State[N], dt N) (sim.State[N], sim.Derivative[N]) {
	b := e.b
	d := dyn.Derive(x)
	next := sim.State[N]{
		T: b.Add(x.T, dt),
		S: b.Add(x.S, b.Mul(d.DS, dt)),
		I: b.Add(x.I, b.Mul(d.DI, dt)),
		R: b.Add(x.R, b.Mul(d.DR, dt)),
	}
	return next, d
}
