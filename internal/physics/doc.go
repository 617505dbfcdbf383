// Package physics provides the drift fields integrated by the stochastic
// steppers.
//
// Each model implements [dynamo.Differentiable]: a pure drift function and
// its Jacobian. The order-2.0 Taylor scheme needs both.
//
//   - [Lorenz96]: cyclic chaotic ring, the truth model for twin experiments
//
// Models also implement [dynamo.Configurable] for runtime parameter
// adjustment:
//
//	dyn := physics.NewLorenz96(40)
//	_ = dyn.SetParam("force", 10)
package physics
