package sde

import (
	"math"

	"github.com/san-kum/sdesim/internal/dynamo"
	"gonum.org/v1/gonum/mat"
)

// scripted replays a fixed sequence of variates, then zeros.
type scripted struct {
	vals  []float64
	calls int
}

func (s *scripted) Rand() float64 {
	v := 0.0
	if s.calls < len(s.vals) {
		v = s.vals[s.calls]
	}
	s.calls++
	return v
}

// zeroSystem has zero drift and zero Jacobian.
type zeroSystem struct{ n int }

func (z zeroSystem) StateDim() int { return z.n }
func (z zeroSystem) Derive(x dynamo.State, _ float64) dynamo.State {
	return make(dynamo.State, len(x))
}
func (z zeroSystem) Jacobian(x dynamo.State, _ float64) *mat.Dense {
	return mat.NewDense(len(x), len(x), nil)
}

// driftOnly has no Jacobian.
type driftOnly struct{}

func (driftOnly) StateDim() int { return 4 }
func (driftOnly) Derive(x dynamo.State, _ float64) dynamo.State {
	return make(dynamo.State, len(x))
}

// malformed returns drift and Jacobian of fixed, possibly wrong, sizes.
type malformed struct{ drift, jac int }

func (m malformed) StateDim() int { return m.drift }
func (m malformed) Derive(dynamo.State, float64) dynamo.State {
	return make(dynamo.State, m.drift)
}
func (m malformed) Jacobian(dynamo.State, float64) *mat.Dense {
	return mat.NewDense(m.jac, m.jac, nil)
}

// exploding has an infinite drift.
type exploding struct{}

func (exploding) StateDim() int { return 4 }
func (exploding) Derive(x dynamo.State, _ float64) dynamo.State {
	dx := make(dynamo.State, len(x))
	for i := range dx {
		dx[i] = math.Inf(1)
	}
	return dx
}
func (exploding) Jacobian(x dynamo.State, _ float64) *mat.Dense {
	return mat.NewDense(len(x), len(x), nil)
}

// rotateBlocks rotates each length-n block of vals by k sites.
func rotateBlocks(vals []float64, n, k int) []float64 {
	out := make([]float64, len(vals))
	for b := 0; b+n <= len(vals); b += n {
		for i := 0; i < n; i++ {
			out[b+i] = vals[b+NeighborOffset(i, k, n)]
		}
	}
	return out
}

func filled(n int, v float64) dynamo.State {
	s := make(dynamo.State, n)
	for i := range s {
		s[i] = v
	}
	return s
}
