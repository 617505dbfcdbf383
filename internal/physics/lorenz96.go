package physics

import (
	"fmt"

	"github.com/san-kum/sdesim/internal/dynamo"
	"gonum.org/v1/gonum/mat"
)

// DefaultForce is the energy injected into the system.
const DefaultForce = 8.0

// Lorenz96 implements the cyclic Lorenz-96 model
//
//	dx_i/dt = (x_{i+1} - x_{i-2}) x_{i-1} - x_i + F
//
// with all indices taken modulo n.
type Lorenz96 struct {
	n     int
	force float64
}

func NewLorenz96(n int) *Lorenz96 { return &Lorenz96{n: n, force: DefaultForce} }
func (l *Lorenz96) StateDim() int { return l.n }

func (l *Lorenz96) Derive(s dynamo.State, _ float64) dynamo.State {
	n := len(s)
	dx := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		dx[i] = (s[cyc(i+1, n)]-s[cyc(i-2, n)])*s[cyc(i-1, n)] - s[i] + l.force
	}
	return dx
}

// Jacobian returns d(drift)/dx. Entries are accumulated so rings shorter
// than four sites, where neighbours coincide, stay consistent with Derive.
func (l *Lorenz96) Jacobian(s dynamo.State, _ float64) *mat.Dense {
	n := len(s)
	j := mat.NewDense(n, n, nil)
	add := func(r, c int, v float64) { j.Set(r, c, j.At(r, c)+v) }
	for i := 0; i < n; i++ {
		im1, ip1, im2 := cyc(i-1, n), cyc(i+1, n), cyc(i-2, n)
		add(i, i, -1)
		add(i, im1, s[ip1]-s[im2])
		add(i, ip1, s[im1])
		add(i, im2, -s[im1])
	}
	return j
}

// DefaultState is the first unit vector; the forcing drives it onto the attractor.
func (l *Lorenz96) DefaultState() dynamo.State {
	s := make(dynamo.State, l.n)
	if l.n > 0 {
		s[0] = 1.0
	}
	return s
}

func (l *Lorenz96) GetParams() map[string]float64 {
	return map[string]float64{"force": l.force}
}

func (l *Lorenz96) SetParam(name string, v float64) error {
	switch name {
	case "force":
		l.force = v
	default:
		return fmt.Errorf("lorenz96: unknown parameter %q", name)
	}
	return nil
}

func cyc(i, n int) int {
	return ((i % n) + n) % n
}
