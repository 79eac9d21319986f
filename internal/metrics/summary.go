package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/MBP16/SIR-Modeling/internal/sim"
)

// Summary condenses a trajectory into the numbers reported after a run.
type Summary struct {
	Entries int `json:"entries"`

	PeakInfected float64 `json:"peak_infected"`
	PeakTime     float64 `json:"peak_time"`

	FinalTime float64 `json:"final_time"`
	FinalS    float64 `json:"final_s"`
	FinalI    float64 `json:"final_i"`
	FinalR    float64 `json:"final_r"`

	// ConservationDrift is max |S+I+R - (S0+I0+R0)| over all entries.
	ConservationDrift float64 `json:"conservation_drift"`
	// DerivativeResidual is max |dS+dI+dR| over entries with a derivative.
	DerivativeResidual float64 `json:"derivative_residual"`

	MinS     float64 `json:"min_s"`
	MinI     float64 `json:"min_i"`
	Negative bool    `json:"negative"`
}

func Summarize(traj sim.Trajectory) Summary {
	s := traj.Series()
	n := s.Len()
	if n == 0 {
		return Summary{}
	}

	peak := floats.MaxIdx(s.I)
	sum := Conservation(s)
	total := sum[0]
	floats.AddConst(-total, sum)

	out := Summary{
		Entries:           n,
		PeakInfected:      s.I[peak],
		PeakTime:          s.T[peak],
		FinalTime:         s.T[n-1],
		FinalS:            s.S[n-1],
		FinalI:            s.I[n-1],
		FinalR:            s.R[n-1],
		ConservationDrift: floats.Norm(sum, math.Inf(1)),
		MinS:              floats.Min(s.S),
		MinI:              floats.Min(s.I),
	}
	out.Negative = out.MinS < 0 || out.MinI < 0 || floats.Min(s.R) < 0

	if n > 1 {
		res := make([]float64, n-1)
		floats.AddTo(res, s.DS[1:], s.DI[1:])
		floats.Add(res, s.DR[1:])
		out.DerivativeResidual = floats.Norm(res, math.Inf(1))
	}
	return out
}

// Conservation returns S+I+R at every entry.
func Conservation(s sim.Series) []float64 {
	sum := make([]float64, s.Len())
	floats.AddTo(sum, s.S, s.I)
	floats.Add(sum, s.R)
	return sum
}
