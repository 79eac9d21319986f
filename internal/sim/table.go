package sim

import (
	"fmt"
	"math"
	"strconv"
)

// Table is a Trajectory detached from any backend, used for data that was
// loaded back from storage or returned by an accelerator.
type Table struct {
	rows   []Row
	series Series
}

// NewTable builds a table from text rows. Only row 0 may omit derivatives.
func NewTable(rows []Row) (*Table, error) {
	n := len(rows)
	s := Series{
		T: make([]float64, n), S: make([]float64, n), I: make([]float64, n), R: make([]float64, n),
		DS: make([]float64, n), DI: make([]float64, n), DR: make([]float64, n),
	}
	for k, row := range rows {
		vals := []string{row.Time, row.S, row.I, row.R}
		dst := []*float64{&s.T[k], &s.S[k], &s.I[k], &s.R[k]}
		if row.HasDerivative {
			vals = append(vals, row.DS, row.DI, row.DR)
			dst = append(dst, &s.DS[k], &s.DI[k], &s.DR[k])
		} else {
			if k > 0 {
				return nil, fmt.Errorf("row %d: missing derivative", k)
			}
			s.DS[k], s.DI[k], s.DR[k] = math.NaN(), math.NaN(), math.NaN()
		}
		for j, v := range vals {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", k, err)
			}
			*dst[j] = f
		}
	}
	return &Table{rows: rows, series: s}, nil
}

// TableFromSeries builds a table from float sequences. A NaN derivative at
// index 0 marks the initial entry.
func TableFromSeries(s Series) (*Table, error) {
	n := s.Len()
	for _, col := range [][]float64{s.S, s.I, s.R, s.DS, s.DI, s.DR} {
		if len(col) != n {
			return nil, fmt.Errorf("series length mismatch: %d vs %d", len(col), n)
		}
	}
	rows := make([]Row, n)
	for k := range rows {
		rows[k] = Row{
			Time: formatFloat(s.T[k]), S: formatFloat(s.S[k]),
			I: formatFloat(s.I[k]), R: formatFloat(s.R[k]),
		}
		if k == 0 && math.IsNaN(s.DS[k]) {
			continue
		}
		rows[k].DS, rows[k].DI, rows[k].DR = formatFloat(s.DS[k]), formatFloat(s.DI[k]), formatFloat(s.DR[k])
		rows[k].HasDerivative = true
	}
	return &Table{rows: rows, series: s}, nil
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

func (t *Table) Len() int       { return len(t.rows) }
func (t *Table) Row(k int) Row  { return t.rows[k] }
func (t *Table) Series() Series { return t.series }
