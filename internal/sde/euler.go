package sde

import (
	"math"

	"github.com/san-kum/sdesim/internal/dynamo"
	"github.com/san-kum/sdesim/internal/noise"
)

// EulerMaruyama is the strong order-0.5 (order 1.0 for additive noise)
// reference scheme. No variates are drawn when s is zero.
type EulerMaruyama struct{}

func NewEulerMaruyama() *EulerMaruyama { return &EulerMaruyama{} }

func (e *EulerMaruyama) Name() string { return "euler-maruyama" }

func (e *EulerMaruyama) Step(sys dynamo.System, x dynamo.State, t, dt, s float64, src noise.Sampler) (dynamo.State, error) {
	if err := validateStep(x, dt, s); err != nil {
		return nil, err
	}
	dx, err := derive(sys, x, t)
	if err != nil {
		return nil, err
	}

	result := make(dynamo.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	if s > 0 {
		amp := s * math.Sqrt(dt)
		for i := range result {
			result[i] += amp * src.Rand()
		}
	}

	if err := checkFinite(result); err != nil {
		return nil, err
	}
	return result, nil
}
