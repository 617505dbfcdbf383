package sde

import (
	"math"

	"github.com/san-kum/sdesim/internal/dynamo"
	"github.com/san-kum/sdesim/internal/noise"
)

// RK4 is the classical Runge-Kutta step with the additive increment
// W = s sqrt(dt) xi added to every stage. It is the integrator for
// ensemble members; only the truth twin needs Taylor2.
type RK4 struct{}

func NewRK4() *RK4 { return &RK4{} }

func (r *RK4) Name() string { return "rk4" }

func (r *RK4) Step(sys dynamo.System, x dynamo.State, t, dt, s float64, src noise.Sampler) (dynamo.State, error) {
	if err := validateStep(x, dt, s); err != nil {
		return nil, err
	}
	n := len(x)

	w := make([]float64, n)
	if s > 0 {
		noise.Fill(src, w)
		amp := s * math.Sqrt(dt)
		for i := range w {
			w[i] *= amp
		}
	}

	scratch := make(dynamo.State, n)
	stage := func(base dynamo.State, scale float64, tt float64) (dynamo.State, error) {
		for i := 0; i < n; i++ {
			scratch[i] = x[i] + scale*base[i]
		}
		f, err := derive(sys, scratch, tt)
		if err != nil {
			return nil, err
		}
		k := make(dynamo.State, n)
		for i := 0; i < n; i++ {
			k[i] = dt*f[i] + w[i]
		}
		return k, nil
	}

	zero := make(dynamo.State, n)
	k1, err := stage(zero, 0, t)
	if err != nil {
		return nil, err
	}
	k2, err := stage(k1, 0.5, t+dt*0.5)
	if err != nil {
		return nil, err
	}
	k3, err := stage(k2, 0.5, t+dt*0.5)
	if err != nil {
		return nil, err
	}
	k4, err := stage(k3, 1, t+dt)
	if err != nil {
		return nil, err
	}

	result := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		result[i] = x[i] + (k1[i]+2*(k2[i]+k3[i])+k4[i])/6.0
	}

	if err := checkFinite(result); err != nil {
		return nil, err
	}
	return result, nil
}
