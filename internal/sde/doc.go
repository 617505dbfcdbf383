// Package sde provides single-step integrators for systems driven by
// additive noise,
//
//	dX = f(X) dt + s dW,
//
// where W is an n-dimensional Wiener process and s a scalar diffusion.
//
//   - [Taylor2]: strong order-2.0 Taylor-Stratonovich scheme with the
//     iterated integrals approximated by a Fourier series truncated at p=1.
//     Used to generate truth trajectories.
//   - [RK4]: Runge-Kutta with the same Wiener increment added to every
//     stage. Used for ensemble members.
//   - [EulerMaruyama]: first-order reference scheme.
//
// All integrators take the noise source explicitly and keep no state
// between calls, so one integrator value may serve many goroutines as long
// as each goroutine owns its [noise.Sampler].
package sde
