//go:build native

package compute

/*
// sir_chunk advances st = {t, s, i, r} by at most budget steps, writing seven
// floats per step into out. It returns the rows written and sets *done once
// a stopping rule fires.
static int sir_chunk(float dt, float lambda, float gamma, float total,
                     float end_time, float eps, int converge_early,
                     float* st, int budget, float* out, int* done) {
	float t = st[0], s = st[1], i = st[2], r = st[3];
	int n = 0;
	*done = 0;
	while (n < budget) {
		float ds = -lambda * s * i;
		float di = lambda * s * i - gamma * i;
		float dr = gamma * i;
		t += dt;
		s += ds * dt;
		i += di * dt;
		r += dr * dt;

		float* row = out + 7 * n;
		row[0] = t; row[1] = s; row[2] = i; row[3] = r;
		row[4] = ds; row[5] = di; row[6] = dr;
		n++;

		if (end_time > 0 && t >= end_time) {
			*done = 1;
			break;
		}
		if ((end_time <= 0 || converge_early) && r >= total - eps) {
			*done = 1;
			break;
		}
	}
	st[0] = t; st[1] = s; st[2] = i; st[3] = r;
	return n;
}
*/
import "C"

import (
	"context"
	"fmt"
	"math"
	"unsafe"

	"github.com/MBP16/SIR-Modeling/internal/sim"
)

// nativeChunk is the number of steps per C call; the context is checked
// between calls.
const nativeChunk = 4096

// NativeBackend runs the loop in single-precision C.
type NativeBackend struct{}

func NewNativeBackend() *NativeBackend {
	return &NativeBackend{}
}

func (n *NativeBackend) Name() string    { return "native (float32)" }
func (n *NativeBackend) Available() bool { return true }
func (n *NativeBackend) Cleanup()        {}

// Model returns partial columns together with the error when the run was
// cut short by the iteration ceiling or cancellation.
func (n *NativeBackend) Model(ctx context.Context, p sim.Params) (*Columns, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	maxSteps := p.MaxSteps
	if maxSteps == 0 {
		maxSteps = sim.DefaultMaxSteps
	}
	eps := p.Tolerance
	if eps == 0 {
		eps = sim.DefaultTolerance
	}

	cols := newColumns(nativeCapacity(p, maxSteps))
	nan := math.NaN()
	cols.append(p.T0, p.S0, p.I0, p.R0, nan, nan, nan)

	converge := C.int(0)
	if p.ConvergeEarly {
		converge = 1
	}
	total := float32(p.S0) + float32(p.I0) + float32(p.R0)
	st := [4]C.float{C.float(p.T0), C.float(p.S0), C.float(p.I0), C.float(p.R0)}
	buf := make([]C.float, 7*min(nativeChunk, maxSteps))

	steps := 0
	for {
		if err := ctx.Err(); err != nil {
			return cols, err
		}
		budget := min(nativeChunk, maxSteps-steps)
		if budget == 0 {
			return cols, &sim.SimulationError{Step: steps, Time: cols.T[steps], Wrapped: sim.ErrDidNotConverge}
		}

		var done C.int
		rows := int(C.sir_chunk(
			C.float(p.Dt), C.float(p.Lambda), C.float(p.Gamma), C.float(total),
			C.float(p.EndTime), C.float(eps), converge,
			&st[0], C.int(budget), (*C.float)(unsafe.Pointer(&buf[0])), &done,
		))
		for k := 0; k < rows; k++ {
			row := buf[7*k : 7*k+7]
			cols.append(float64(row[0]), float64(row[1]), float64(row[2]), float64(row[3]),
				float64(row[4]), float64(row[5]), float64(row[6]))
		}
		steps += rows
		if done != 0 {
			break
		}
	}

	if err := cols.Validate(); err != nil {
		return nil, fmt.Errorf("native: %w", err)
	}
	return cols, nil
}

// nativeCapacity sizes the columns from the horizon when one is set.
func nativeCapacity(p sim.Params, maxSteps int) int {
	if !p.HasHorizon() {
		return min(nativeChunk, maxSteps) + 1
	}
	steps := math.Ceil((p.EndTime-p.T0)/p.Dt) + 1
	if steps < 1 {
		steps = 1
	}
	return int(math.Min(steps, float64(maxSteps))) + 1
}
