package compute

import (
	"context"
	"errors"

	"github.com/MBP16/SIR-Modeling/internal/sim"
)

// ErrUnavailable is returned by a backend whose library or device is absent.
var ErrUnavailable = errors.New("compute: backend not available")

// Backend computes a whole SIR run outside the generic engine and returns
// the seven-column contract. Backends always compute in machine floats;
// Params.Mode is ignored.
type Backend interface {
	Name() string
	Available() bool
	Model(ctx context.Context, p sim.Params) (*Columns, error)
	Cleanup()
}

// AutoSelectBackend returns the native backend when it is linked, else the
// CPU backend.
func AutoSelectBackend() Backend {
	native := NewNativeBackend()
	if native.Available() {
		return native
	}
	return NewCPUBackend()
}
