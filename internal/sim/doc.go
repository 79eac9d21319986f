// Package sim provides the explicit Euler engine for the SIR model.
//
// The package defines the types and the loop every run goes through:
//
//   - [State], [Derivative]: one point of the trajectory and the rates at it
//   - [Dynamics]: the model, dX/dt = f(X)
//   - [Stepper]: one integration step
//   - [Termination]: fixed-horizon and convergence stopping rules
//   - [History]: append-only record of visited states and derivatives
//   - [Engine]: orchestrates a run
//
// All arithmetic goes through a [numeric.Backend], so the same engine runs
// on machine floats or on arbitrary-precision decimals.
//
// # Example
//
//	b := numeric.NewFloat()
//	dyn, _ := models.NewSIR[float64](b, p.Lambda, p.Gamma)
//	eng, _ := sim.New[float64](b, p, dyn, integrators.NewEuler[float64](b))
//	res, _ := eng.Run(ctx)
//
// # Thread Safety
//
// An Engine holds no mutable state between runs; each Run owns a fresh
// History. Independent engines may run concurrently, see [Ensemble].
package sim
