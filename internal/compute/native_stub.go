//go:build !native

package compute

import (
	"context"

	"github.com/MBP16/SIR-Modeling/internal/sim"
)

type NativeBackend struct{}

func NewNativeBackend() *NativeBackend {
	return &NativeBackend{}
}

func (n *NativeBackend) Name() string    { return "native (not available)" }
func (n *NativeBackend) Available() bool { return false }
func (n *NativeBackend) Cleanup()        {}

func (n *NativeBackend) Model(ctx context.Context, p sim.Params) (*Columns, error) {
	return nil, ErrUnavailable
}
