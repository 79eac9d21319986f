// Package compute provides backends that produce a whole SIR run as flat
// columns, the layout an external accelerator returns.
//
// AutoSelectBackend picks the best available backend:
//
//   - native: single-precision C loop, linked with the native build tag
//   - CPU: the float engine, always available
//
// # Usage
//
//	backend := compute.AutoSelectBackend()
//	cols, err := backend.Model(ctx, params)
//	traj, err := cols.Trajectory()
//
// Build with the native loop:
//
//	go build -tags native ./...
package compute
