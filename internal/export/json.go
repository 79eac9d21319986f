package export

import (
	"encoding/json"
	"io"
	"math"
	"os"

	"github.com/MBP16/SIR-Modeling/internal/metrics"
	"github.com/MBP16/SIR-Modeling/internal/numeric"
	"github.com/MBP16/SIR-Modeling/internal/sim"
)

type ParamsData struct {
	Dt            float64 `json:"dt"`
	Lambda        float64 `json:"lambda"`
	Gamma         float64 `json:"gamma"`
	S0            float64 `json:"s0"`
	I0            float64 `json:"i0"`
	R0            float64 `json:"r0"`
	T0            float64 `json:"t0"`
	EndTime       float64 `json:"end_time"`
	Precision     string  `json:"precision"`
	DecimalDigits uint32  `json:"decimal_digits,omitempty"`
	Tolerance     float64 `json:"tolerance"`
	ConvergeEarly bool    `json:"converge_early,omitempty"`
}

func NewParamsData(p sim.Params) ParamsData {
	d := ParamsData{
		Dt: p.Dt, Lambda: p.Lambda, Gamma: p.Gamma,
		S0: p.S0, I0: p.I0, R0: p.R0, T0: p.T0,
		EndTime:       p.EndTime,
		Precision:     p.Mode.String(),
		Tolerance:     p.Tolerance,
		ConvergeEarly: p.ConvergeEarly,
	}
	if p.Mode == numeric.DecimalMode {
		d.DecimalDigits = p.DecimalDigits
	}
	return d
}

// Document is the JSON form of a run. Derivative arrays hold null at
// index 0.
type Document struct {
	ID      string          `json:"id,omitempty"`
	Runner  string          `json:"runner"`
	Params  ParamsData      `json:"params"`
	Reason  string          `json:"reason"`
	Steps   int             `json:"steps"`
	Summary metrics.Summary `json:"summary"`

	Times []float64  `json:"times"`
	S     []float64  `json:"s"`
	I     []float64  `json:"i"`
	R     []float64  `json:"r"`
	DSdt  []*float64 `json:"dSdt"`
	DIdt  []*float64 `json:"dIdt"`
	DRdt  []*float64 `json:"dRdt"`
}

// NewDocument fills the value arrays from traj; the caller sets the
// descriptive fields.
func NewDocument(traj sim.Trajectory) Document {
	s := traj.Series()
	return Document{
		Steps: max(s.Len()-1, 0),
		Times: s.T,
		S:     s.S,
		I:     s.I,
		R:     s.R,
		DSdt:  nullable(s.DS),
		DIdt:  nullable(s.DI),
		DRdt:  nullable(s.DR),
	}
}

func nullable(xs []float64) []*float64 {
	out := make([]*float64, len(xs))
	for k := range xs {
		if math.IsNaN(xs[k]) {
			continue
		}
		out[k] = &xs[k]
	}
	return out
}

func WriteJSON(w io.Writer, doc Document) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

func SaveJSON(path string, doc Document) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteJSON(file, doc); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
