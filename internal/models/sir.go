package models

import (
	"fmt"

	"github.com/MBP16/SIR-Modeling/internal/numeric"
	"github.com/MBP16/SIR-Modeling/internal/sim"
)

// Evaluate returns the SIR rates at (s, i):
//
//	dS = -λ·S·I
//	dI =  λ·S·I - γ·I
//	dR =  γ·I
//
// The three rates sum to zero algebraically.
func Evaluate[N any](b numeric.Backend[N], s, i, lambda, gamma N) (ds, di, dr N) {
	infection := b.Mul(b.Mul(lambda, s), i)
	recovery := b.Mul(gamma, i)
	return b.Neg(infection), b.Sub(infection, recovery), recovery
}

// SIR binds the infection rate λ and recovery rate γ.
type SIR[N any] struct {
	b      numeric.Backend[N]
	Lambda N
	Gamma  N

	lambda, gamma float64
}

func NewSIR[N any](b numeric.Backend[N], lambda, gamma float64) (*SIR[N], error) {
	l, err := b.FromFloat(lambda)
	if err != nil {
		return nil, fmt.Errorf("lambda: %w", err)
	}
	g, err := b.FromFloat(gamma)
	if err != nil {
		return nil, fmt.Errorf("gamma: %w", err)
	}
	return &SIR[N]{b: b, Lambda: l, Gamma: g, lambda: lambda, gamma: gamma}, nil
}

func (m *SIR[N]) Name() string { return "sir" }

// Rates returns λ and γ as given to NewSIR.
func (m *SIR[N]) Rates() (lambda, gamma float64) { return m.lambda, m.gamma }

func (m *SIR[N]) Derive(x sim.State[N]) sim.Derivative[N] {
	ds, di, dr := Evaluate(m.b, x.S, x.I, m.Lambda, m.Gamma)
	return sim.Derivative[N]{DS: ds, DI: di, DR: dr}
}
