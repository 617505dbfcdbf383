// Package dynamo provides core primitives for stochastically forced
// dynamical systems.
//
// The package defines the contracts shared by models, integrators and the
// orchestration loop:
//
//   - [State]: vector representing system state
//   - [System]: drift field dX/dt = f(X, t)
//   - [Differentiable]: a System that also exposes its Jacobian
//   - [StepError]: failure of a single integration step with its context
//
// # Example
//
//	dyn := physics.NewLorenz96(40)
//	integ := sde.NewTaylor2()
//	src := noise.New(42)
//	next, err := integ.Step(dyn, x, t, 0.005, 0.1, src)
//
// # Thread Safety
//
// Models are pure functions of the state and may be shared between
// goroutines as long as their parameters are not mutated concurrently.
package dynamo
