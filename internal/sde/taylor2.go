package sde

import (
	"fmt"
	"math"

	"github.com/san-kum/sdesim/internal/dynamo"
	"github.com/san-kum/sdesim/internal/noise"
	"gonum.org/v1/gonum/mat"
)

// Correction terms of the Fourier expansion of the Brownian bridge when the
// series is truncated at the first mode (p=1).
const (
	rho   = 1.0/12.0 - 0.5/(math.Pi*math.Pi)
	alpha = math.Pi*math.Pi/180.0 - 0.5/(math.Pi*math.Pi)
)

// draw holds the five independent standard-normal vectors consumed by one
// Taylor step. They are drawn in field order, each vector completely
// before the next.
type draw struct {
	xi, mu, phi, zeta, eta []float64
}

func newDraw(src noise.Sampler, n int) draw {
	var d draw
	d.xi = noise.Vector(src, n)
	d.mu = noise.Vector(src, n)
	d.phi = noise.Vector(src, n)
	d.zeta = noise.Vector(src, n)
	d.eta = noise.Vector(src, n)
	return d
}

// fourier holds the truncated Fourier coefficients of the Wiener paths over
// one step and the first-order Stratonovich integrals built from them.
type fourier struct {
	dt, dt15 float64
	xi, a, b []float64
	jp       []float64
}

func newFourier(d draw, dt float64) *fourier {
	n := len(d.xi)
	f := &fourier{
		dt:   dt,
		dt15: math.Pow(dt, 1.5),
		xi:   d.xi,
		a:    make([]float64, n),
		b:    make([]float64, n),
		jp:   make([]float64, n),
	}

	cMu := 2.0 * math.Sqrt(dt*rho)
	cZeta := math.Sqrt(2.0 * dt)
	cPhi := math.Sqrt(dt * alpha)
	cEta := math.Sqrt(dt / (2.0 * math.Pi * math.Pi))
	sqdt := math.Sqrt(dt)

	for i := 0; i < n; i++ {
		f.a[i] = -cMu*d.mu[i] - cZeta*d.zeta[i]/math.Pi
		f.b[i] = cPhi*d.phi[i] + cEta*d.eta[i]
		f.jp[i] = (dt / 2.0) * (sqdt*d.xi[i] + f.a[i])
	}
	return f
}

// psi approximates the iterated Stratonovich integral between the Wiener
// increments at sites l1 and l2 over one step. It is symmetric in l1, l2.
func (f *fourier) psi(l1, l2 int) float64 {
	dt, dt15 := f.dt, f.dt15
	xi, a, b := f.xi, f.a, f.b
	return dt*dt*xi[l1]*xi[l2]/3.0 +
		dt*a[l1]*a[l2]/2.0 +
		dt15*(xi[l1]*a[l2]+xi[l2]*a[l1])/4.0 -
		dt15*(xi[l1]*b[l2]+xi[l2]*b[l1])/(2.0*math.Pi)
}

// psiPlus couples the two sites either side of i.
func (f *fourier) psiPlus(i, n int) float64 {
	return f.psi(NeighborOffset(i, -1, n), NeighborOffset(i, 1, n))
}

// psiMinus couples the two sites behind i.
func (f *fourier) psiMinus(i, n int) float64 {
	return f.psi(NeighborOffset(i, -2, n), NeighborOffset(i, -1, n))
}

// Taylor2 is the strong order-2.0 Taylor scheme for cyclic systems with
// additive noise. Each step draws 5n variates.
type Taylor2 struct{}

func NewTaylor2() *Taylor2 { return &Taylor2{} }

func (t2 *Taylor2) Name() string { return "taylor2" }

// Step returns
//
//	x + f dt + dt^2/2 J f + s sqrt(dt) xi + s J Jp + s^2 (psi+ - psi-)
//
// where f and J are the drift and its Jacobian at x. sys must implement
// dynamo.Differentiable.
func (t2 *Taylor2) Step(sys dynamo.System, x dynamo.State, t, dt, s float64, src noise.Sampler) (dynamo.State, error) {
	if err := validateStep(x, dt, s); err != nil {
		return nil, err
	}
	n := len(x)
	if n < MinDimension {
		return nil, fmt.Errorf("%w: taylor2 needs at least %d sites, got %d", dynamo.ErrInvalidArgument, MinDimension, n)
	}
	diff, ok := sys.(dynamo.Differentiable)
	if !ok {
		return nil, fmt.Errorf("%w: taylor2 requires a drift Jacobian", dynamo.ErrInvalidArgument)
	}

	dx, err := derive(sys, x, t)
	if err != nil {
		return nil, err
	}
	jac := diff.Jacobian(x, t)
	if jac == nil {
		return nil, fmt.Errorf("%w: nil Jacobian", dynamo.ErrDimensionMismatch)
	}
	if r, c := jac.Dims(); r != n || c != n {
		return nil, fmt.Errorf("%w: Jacobian is %dx%d, state %d", dynamo.ErrDimensionMismatch, r, c, n)
	}

	f := newFourier(newDraw(src, n), dt)
	jdx := mulVec(jac, dx)
	jjp := mulVec(jac, f.jp)

	sqdt := math.Sqrt(dt)
	next := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		v := x[i] + dx[i]*dt + dt*dt*0.5*jdx[i]
		v += s * sqdt * f.xi[i]
		v += s * jjp[i]
		v += s * s * (f.psiPlus(i, n) - f.psiMinus(i, n))
		next[i] = v
	}

	if err := checkFinite(next); err != nil {
		return nil, err
	}
	return next, nil
}

func mulVec(a mat.Matrix, v []float64) []float64 {
	var out mat.VecDense
	out.MulVec(a, mat.NewVecDense(len(v), v))
	return out.RawVector().Data
}
