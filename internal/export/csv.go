package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/MBP16/SIR-Modeling/internal/sim"
)

// NoDerivative marks the derivative cells of the initial entry.
const NoDerivative = "None"

var Header = []string{"Time", "S", "I", "R", "dSdt", "dIdt", "dRdt"}

// WriteCSV writes one line per recorded entry, in step order. Values keep
// the backend's text form, so decimal runs are written exactly.
func WriteCSV(w io.Writer, traj sim.Trajectory) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}

	record := make([]string, len(Header))
	for k := 0; k < traj.Len(); k++ {
		row := traj.Row(k)
		record[0], record[1], record[2], record[3] = row.Time, row.S, row.I, row.R
		if row.HasDerivative {
			record[4], record[5], record[6] = row.DS, row.DI, row.DR
		} else {
			record[4], record[5], record[6] = NoDerivative, NoDerivative, NoDerivative
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func SaveCSV(path string, traj sim.Trajectory) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(file, traj); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// ReadCSV parses a table produced by WriteCSV.
func ReadCSV(r io.Reader) ([]sim.Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if !slices.Equal(header, Header) {
		return nil, fmt.Errorf("unexpected header %v", header)
	}

	var rows []sim.Row
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := sim.Row{Time: record[0], S: record[1], I: record[2], R: record[3]}
		if record[4] != NoDerivative {
			row.DS, row.DI, row.DR = record[4], record[5], record[6]
			row.HasDerivative = true
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// LoadCSV reads a saved table back as a Trajectory.
func LoadCSV(path string) (*sim.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	rows, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sim.NewTable(rows)
}
