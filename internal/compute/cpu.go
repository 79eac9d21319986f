package compute

import (
	"context"

	"github.com/MBP16/SIR-Modeling/internal/integrators"
	"github.com/MBP16/SIR-Modeling/internal/models"
	"github.com/MBP16/SIR-Modeling/internal/numeric"
	"github.com/MBP16/SIR-Modeling/internal/sim"
)

// CPUBackend is the in-process reference: it runs the float engine and
// flattens the history into columns.
type CPUBackend struct{}

func NewCPUBackend() *CPUBackend {
	return &CPUBackend{}
}

func (c *CPUBackend) Name() string    { return "cpu" }
func (c *CPUBackend) Available() bool { return true }
func (c *CPUBackend) Cleanup()        {}

// Model returns partial columns together with the error when the run was
// cut short by the iteration ceiling or cancellation.
func (c *CPUBackend) Model(ctx context.Context, p sim.Params) (*Columns, error) {
	p.Mode = numeric.FloatMode
	b := numeric.NewFloat()

	dyn, err := models.NewSIR[float64](b, p.Lambda, p.Gamma)
	if err != nil {
		return nil, err
	}
	eng, err := sim.New[float64](b, p, dyn, integrators.NewEuler[float64](b))
	if err != nil {
		return nil, err
	}

	res, err := eng.Run(ctx)
	return columnsFromSeries(res.History.Series()), err
}
