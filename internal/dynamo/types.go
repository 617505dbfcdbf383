package dynamo

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Add(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] + other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// Rotate returns the state relabelled so that result[i] = s[(i+k) mod n].
func (s State) Rotate(k int) State {
	n := len(s)
	result := make(State, n)
	if n == 0 {
		return result
	}
	for i := range s {
		result[i] = s[((i+k)%n+n)%n]
	}
	return result
}

// System is a drift field. Derive must be pure: deterministic given x and t.
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

// Differentiable is a System that also provides the Jacobian of its drift,
// entry (i, j) = d(drift_i)/d(x_j).
type Differentiable interface {
	System
	Jacobian(x State, t float64) *mat.Dense
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

type Observer interface {
	OnStep(x State, t float64)
}

type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}
