package sde

import (
	"math"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sdesim/internal/dynamo"
	"github.com/san-kum/sdesim/internal/noise"
	"github.com/san-kum/sdesim/internal/physics"
)

func attractorState(n int) dynamo.State {
	x := make(dynamo.State, n)
	for i := range x {
		x[i] = 2.5*math.Sin(0.7*float64(i)+0.2) + 1
	}
	return x
}

var _ = Describe("Taylor2", func() {
	var (
		integ *Taylor2
		l96   *physics.Lorenz96
		x     dynamo.State
	)

	BeforeEach(func() {
		integ = NewTaylor2()
		l96 = physics.NewLorenz96(10)
		x = attractorState(10)
	})

	It("is a pure function of its inputs for a fixed seed", func() {
		a, err := integ.Step(l96, x, 0, 0.01, 0.5, noise.New(2020))
		Expect(err).NotTo(HaveOccurred())
		b, err := integ.Step(l96, x, 0, 0.01, 0.5, noise.New(2020))
		Expect(err).NotTo(HaveOccurred())

		Expect(a).To(Equal(b))
	})

	It("reduces to the deterministic Taylor step without noise", func() {
		dt := 0.01
		next, err := integ.Step(l96, x, 0, dt, 0, noise.New(3))
		Expect(err).NotTo(HaveOccurred())

		dx := l96.Derive(x, 0)
		jdx := mulVec(l96.Jacobian(x, 0), dx)
		for i := range x {
			Expect(next[i]).To(Equal(x[i] + dx[i]*dt + dt*dt*0.5*jdx[i]))
		}
	})

	It("does not depend on the seed without noise", func() {
		a, err := integ.Step(l96, x, 0, 0.01, 0, noise.New(1))
		Expect(err).NotTo(HaveOccurred())
		b, err := integ.Step(l96, x, 0, 0.01, 0, noise.New(2))
		Expect(err).NotTo(HaveOccurred())

		Expect(a).To(Equal(b))
	})

	DescribeTable("preserves the dimension",
		func(n int) {
			sys := physics.NewLorenz96(n)
			next, err := integ.Step(sys, attractorState(n), 0, 0.005, 1, noise.New(int64(n)))
			Expect(err).NotTo(HaveOccurred())
			Expect(next).To(HaveLen(n))
		},
		Entry("smallest ring", 4),
		Entry("odd ring", 5),
		Entry("ring of 10", 10),
		Entry("standard ring", 40),
	)

	DescribeTable("commutes with cyclic relabelling",
		func(n, k int) {
			sys := physics.NewLorenz96(n)
			xs := attractorState(n)
			vals := noise.Vector(noise.New(77), 5*n)

			base, err := integ.Step(sys, xs, 0, 0.01, 0.8, &scripted{vals: vals})
			Expect(err).NotTo(HaveOccurred())
			rotated, err := integ.Step(sys, xs.Rotate(k), 0, 0.01, 0.8, &scripted{vals: rotateBlocks(vals, n, k)})
			Expect(err).NotTo(HaveOccurred())

			want := base.Rotate(k)
			for i := range rotated {
				Expect(rotated[i]).To(BeNumerically("~", want[i], 1e-12))
			}
		},
		Entry("by one", 6, 1),
		Entry("by two", 6, 2),
		Entry("backwards", 7, -3),
		Entry("on the smallest ring", 4, 3),
	)

	It("recovers the drift as dt shrinks", func() {
		s := 0.5
		n := len(x)
		vals := noise.Vector(noise.New(11), 5*n)
		dx := l96.Derive(x, 0)

		residual := func(dt float64) float64 {
			next, err := integ.Step(l96, x, 0, dt, s, &scripted{vals: vals})
			Expect(err).NotTo(HaveOccurred())
			r := 0.0
			for i := range x {
				// remove the Euler increment of the noise, which is O(sqrt(dt))
				inc := (next[i] - x[i] - s*math.Sqrt(dt)*vals[i]) / dt
				r = math.Max(r, math.Abs(inc-dx[i]))
			}
			return r
		}

		coarse := residual(1e-2)
		fine := residual(1e-6)
		Expect(fine).To(BeNumerically("<", coarse/10))
		Expect(fine).To(BeNumerically("<", 0.05))
	})

	It("recovers the drift exactly in the limit without noise", func() {
		dx := l96.Derive(x, 0)
		dt := 1e-7
		next, err := integ.Step(l96, x, 0, dt, 0, noise.New(1))
		Expect(err).NotTo(HaveOccurred())
		for i := range x {
			Expect((next[i] - x[i]) / dt).To(BeNumerically("~", dx[i], 1e-4))
		}
	})

	It("is safe for concurrent calls with independent samplers", func() {
		const members = 8
		want := make([]dynamo.State, members)
		for m := 0; m < members; m++ {
			next, err := integ.Step(l96, x, 0, 0.01, 0.3, noise.New(noise.MemberSeed(500, m)))
			Expect(err).NotTo(HaveOccurred())
			want[m] = next
		}

		got := make([]dynamo.State, members)
		var wg sync.WaitGroup
		for m := 0; m < members; m++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				got[idx], _ = integ.Step(l96, x, 0, 0.01, 0.3, noise.New(noise.MemberSeed(500, idx)))
			}(m)
		}
		wg.Wait()

		Expect(got).To(Equal(want))
	})

	It("stays bounded along a Lorenz-96 trajectory", func() {
		src := noise.New(9)
		state := l96.DefaultState()
		for i := 0; i < 2000; i++ {
			var err error
			state, err = integ.Step(l96, state, float64(i)*0.005, 0.005, 0.25, src)
			Expect(err).NotTo(HaveOccurred())
		}
		Expect(state.IsValid()).To(BeTrue())
		Expect(state.Norm()).To(BeNumerically("<", 100))
	})
})

var _ = Describe("RK4 model twin", func() {
	It("agrees with Taylor2 to first order without noise", func() {
		l96 := physics.NewLorenz96(8)
		x := attractorState(8)
		dt := 1e-3

		a, err := NewRK4().Step(l96, x, 0, dt, 0, nil)
		Expect(err).NotTo(HaveOccurred())
		b, err := NewTaylor2().Step(l96, x, 0, dt, 0, noise.New(1))
		Expect(err).NotTo(HaveOccurred())

		for i := range a {
			Expect(a[i]).To(BeNumerically("~", b[i], 1e-6))
		}
	})
})
