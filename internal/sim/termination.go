package sim

import "github.com/MBP16/SIR-Modeling/internal/numeric"

// Status of a termination policy.
type Status int

const (
	Running Status = iota
	Terminated
)

// Termination decides when a run stops. Rules are checked in order after
// every step: the fixed horizon (t >= end) when a horizon is set, then the
// convergence rule (R >= total - eps) when no horizon is set or when
// convergeEarly is enabled. Once a rule fires the policy stays Terminated.
type Termination[N any] struct {
	b          numeric.Backend[N]
	end        N
	hasHorizon bool
	threshold  N
	converge   bool

	status Status
	reason Reason
}

// NewTermination builds a policy. An end time of zero disables the horizon.
func NewTermination[N any](b numeric.Backend[N], end, total, eps N, convergeEarly bool) *Termination[N] {
	zero, _ := b.Parse("0")
	hasHorizon := b.Cmp(end, zero) > 0
	return &Termination[N]{
		b:          b,
		end:        end,
		hasHorizon: hasHorizon,
		threshold:  b.Sub(total, eps),
		converge:   !hasHorizon || convergeEarly,
	}
}

// Check evaluates the rules against the newest state and reports whether
// the run must stop.
func (p *Termination[N]) Check(x State[N]) bool {
	if p.status == Terminated {
		return true
	}
	if p.hasHorizon && p.b.Cmp(x.T, p.end) >= 0 {
		p.stop(ReasonHorizon)
		return true
	}
	if p.converge && p.b.Cmp(x.R, p.threshold) >= 0 {
		p.stop(ReasonConverged)
		return true
	}
	return false
}

func (p *Termination[N]) stop(r Reason) {
	p.status = Terminated
	p.reason = r
}

func (p *Termination[N]) Status() Status { return p.status }
func (p *Termination[N]) Reason() Reason { return p.reason }

// Threshold returns total - eps, the value R must reach to converge.
func (p *Termination[N]) Threshold() N { return p.threshold }
