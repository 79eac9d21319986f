package sim

import (
	"iter"
	"math"
	"slices"

	"github.com/MBP16/SIR-Modeling/internal/numeric"
)

// History is the append-only record of a run. Index 0 holds the initial
// state and no derivative; index k > 0 holds state k and the derivative
// that produced it from state k-1.
type History[N any] struct {
	b      numeric.Backend[N]
	states []State[N]
	derivs []Derivative[N]
}

// NewHistory seeds a history with the initial state.
func NewHistory[N any](b numeric.Backend[N], initial State[N], capacity int) *History[N] {
	if capacity < 1 {
		capacity = 1
	}
	h := &History[N]{
		b:      b,
		states: make([]State[N], 0, capacity),
		derivs: make([]Derivative[N], 0, capacity),
	}
	h.states = append(h.states, initial)
	h.derivs = append(h.derivs, Derivative[N]{})
	return h
}

// Record appends a state and the derivative used to reach it.
func (h *History[N]) Record(x State[N], d Derivative[N]) {
	h.states = append(h.states, x)
	h.derivs = append(h.derivs, d)
}

func (h *History[N]) Len() int { return len(h.states) }

func (h *History[N]) State(k int) State[N] { return h.states[k] }

// Derivative returns the derivative recorded at k; ok is false for the
// initial entry.
func (h *History[N]) Derivative(k int) (d Derivative[N], ok bool) {
	if k == 0 {
		return d, false
	}
	return h.derivs[k], true
}

func (h *History[N]) Initial() State[N] { return h.states[0] }
func (h *History[N]) Last() State[N]    { return h.states[len(h.states)-1] }

// States returns a copy of the recorded states.
func (h *History[N]) States() []State[N] { return slices.Clone(h.states) }

// Derivatives returns a copy of the derivatives, including the unused
// zero value at index 0.
func (h *History[N]) Derivatives() []Derivative[N] { return slices.Clone(h.derivs) }

// All iterates over the recorded states in step order.
func (h *History[N]) All() iter.Seq2[int, State[N]] {
	return func(yield func(int, State[N]) bool) {
		for k, x := range h.states {
			if !yield(k, x) {
				return
			}
		}
	}
}

func (h *History[N]) Row(k int) Row {
	var row Row
	row.Time, row.S, row.I, row.R = formatState(h.b, h.states[k])
	if d, ok := h.Derivative(k); ok {
		row.DS, row.DI, row.DR = h.b.Format(d.DS), h.b.Format(d.DI), h.b.Format(d.DR)
		row.HasDerivative = true
	}
	return row
}

func (h *History[N]) Series() Series {
	n := len(h.states)
	s := Series{
		T: make([]float64, n), S: make([]float64, n), I: make([]float64, n), R: make([]float64, n),
		DS: make([]float64, n), DI: make([]float64, n), DR: make([]float64, n),
	}
	for k, x := range h.states {
		s.T[k] = h.b.Float64(x.T)
		s.S[k] = h.b.Float64(x.S)
		s.I[k] = h.b.Float64(x.I)
		s.R[k] = h.b.Float64(x.R)
		if k == 0 {
			s.DS[k], s.DI[k], s.DR[k] = math.NaN(), math.NaN(), math.NaN()
			continue
		}
		d := h.derivs[k]
		s.DS[k] = h.b.Float64(d.DS)
		s.DI[k] = h.b.Float64(d.DI)
		s.DR[k] = h.b.Float64(d.DR)
	}
	return s
}
