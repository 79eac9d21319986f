package sim

import (
	"math"
	"testing"

	"github.com/MBP16/SIR-Modeling/internal/numeric"
)

func TestTermination(t *testing.T) {
	b := numeric.NewFloat()

	tests := []struct {
		name          string
		end           float64
		convergeEarly bool
		state         State[float64]
		stop          bool
		reason        Reason
	}{
		{"before horizon", 20, false, State[float64]{T: 19.9, R: 299.99999}, false, ReasonNone},
		{"exactly at horizon", 20, false, State[float64]{T: 20}, true, ReasonHorizon},
		{"past horizon", 20, false, State[float64]{T: 20.05}, true, ReasonHorizon},
		{"horizon ignores recovery", 20, false, State[float64]{T: 5, R: 300}, false, ReasonNone},
		{"converge early with horizon", 20, true, State[float64]{T: 5, R: 300}, true, ReasonConverged},
		{"horizon wins over convergence", 20, true, State[float64]{T: 21, R: 300}, true, ReasonHorizon},
		{"not yet converged", 0, false, State[float64]{T: 1e6, R: 299.9999}, false, ReasonNone},
		{"converged at threshold", 0, false, State[float64]{R: 299.99999}, true, ReasonConverged},
		{"converged above", 0, false, State[float64]{R: 300}, true, ReasonConverged},
		{"NaN recovered never converges", 0, false, State[float64]{R: math.NaN()}, false, ReasonNone},
		{"NaN time never reaches horizon", 20, false, State[float64]{T: math.NaN()}, false, ReasonNone},
		{"NaN time with early convergence", 20, true, State[float64]{T: math.NaN(), R: math.NaN()}, false, ReasonNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewTermination(b, tt.end, 300, 1e-5, tt.convergeEarly)
			if got := p.Check(tt.state); got != tt.stop {
				t.Errorf("Check() = %v, want %v", got, tt.stop)
			}
			if p.Reason() != tt.reason {
				t.Errorf("Reason() = %v, want %v", p.Reason(), tt.reason)
			}
		})
	}
}

func TestTerminationLatches(t *testing.T) {
	p := NewTermination(numeric.NewFloat(), 10, 300, 1e-5, false)

	if p.Status() != Running {
		t.Fatal("new policy should be running")
	}
	p.Check(State[float64]{T: 10})
	if p.Status() != Terminated {
		t.Fatal("expected Terminated")
	}
	if !p.Check(State[float64]{T: 0}) {
		t.Error("terminated policy must keep reporting stop")
	}
	if p.Reason() != ReasonHorizon {
		t.Errorf("reason changed to %v", p.Reason())
	}
}

func TestReasonString(t *testing.T) {
	for r, want := range map[Reason]string{ReasonNone: "none", ReasonHorizon: "horizon", ReasonConverged: "converged"} {
		if r.String() != want {
			t.Errorf("%d.String() = %q, want %q", r, r.String(), want)
		}
	}
}
