package compute

import (
	"fmt"
	"math"

	"github.com/MBP16/SIR-Modeling/internal/sim"
)

// Columns is the result layout an accelerator returns: seven equal-length
// sequences, derivative columns carrying NaN at index 0.
type Columns struct {
	T, S, I, R []float64
	DS, DI, DR []float64
}

func newColumns(capacity int) *Columns {
	c := &Columns{
		T: make([]float64, 0, capacity), S: make([]float64, 0, capacity),
		I: make([]float64, 0, capacity), R: make([]float64, 0, capacity),
		DS: make([]float64, 0, capacity), DI: make([]float64, 0, capacity),
		DR: make([]float64, 0, capacity),
	}
	return c
}

func (c *Columns) append(t, s, i, r, ds, di, dr float64) {
	c.T = append(c.T, t)
	c.S = append(c.S, s)
	c.I = append(c.I, i)
	c.R = append(c.R, r)
	c.DS = append(c.DS, ds)
	c.DI = append(c.DI, di)
	c.DR = append(c.DR, dr)
}

func (c *Columns) Len() int { return len(c.T) }

// Validate checks the column contract.
func (c *Columns) Validate() error {
	n := len(c.T)
	if n == 0 {
		return fmt.Errorf("compute: empty result")
	}
	for name, col := range map[string][]float64{"S": c.S, "I": c.I, "R": c.R, "dSdt": c.DS, "dIdt": c.DI, "dRdt": c.DR} {
		if len(col) != n {
			return fmt.Errorf("compute: column %s has %d entries, want %d", name, len(col), n)
		}
	}
	if !math.IsNaN(c.DS[0]) || !math.IsNaN(c.DI[0]) || !math.IsNaN(c.DR[0]) {
		return fmt.Errorf("compute: initial entry must not carry a derivative")
	}
	return nil
}

// Trajectory exposes the columns to exporters and plotters.
func (c *Columns) Trajectory() (sim.Trajectory, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return sim.TableFromSeries(sim.Series{T: c.T, S: c.S, I: c.I, R: c.R, DS: c.DS, DI: c.DI, DR: c.DR})
}

func columnsFromSeries(s sim.Series) *Columns {
	return &Columns{T: s.T, S: s.S, I: s.I, R: s.R, DS: s.DS, DI: s.DI, DR: s.DR}
}
