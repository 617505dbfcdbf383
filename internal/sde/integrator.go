package sde

import (
	"fmt"
	"math"

	"github.com/san-kum/sdesim/internal/dynamo"
	"github.com/san-kum/sdesim/internal/noise"
)

// MinDimension is the smallest ring on which the +-1, +-2 neighbour
// pattern of the Taylor scheme references distinct sites.
const MinDimension = 4

// Integrator advances x by one step of size dt under diffusion s, drawing
// its randomness from src. The input state is never modified.
type Integrator interface {
	Name() string
	Step(sys dynamo.System, x dynamo.State, t, dt, s float64, src noise.Sampler) (dynamo.State, error)
}

func validateStep(x dynamo.State, dt, s float64) error {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return fmt.Errorf("%w: dt must be positive and finite, got %g", dynamo.ErrInvalidArgument, dt)
	}
	if !(s >= 0) || math.IsInf(s, 0) {
		return fmt.Errorf("%w: diffusion must be non-negative and finite, got %g", dynamo.ErrInvalidArgument, s)
	}
	if len(x) == 0 {
		return fmt.Errorf("%w: empty state", dynamo.ErrInvalidArgument)
	}
	if !x.IsValid() {
		return fmt.Errorf("%w: state contains NaN or Inf", dynamo.ErrInvalidArgument)
	}
	return nil
}

func derive(sys dynamo.System, x dynamo.State, t float64) (dynamo.State, error) {
	dx := sys.Derive(x, t)
	if len(dx) != len(x) {
		return nil, fmt.Errorf("%w: drift has length %d, state %d", dynamo.ErrDimensionMismatch, len(dx), len(x))
	}
	return dx, nil
}

func checkFinite(x dynamo.State) error {
	if !x.IsValid() {
		return dynamo.ErrNumericInstability
	}
	return nil
}
