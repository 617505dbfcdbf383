package metrics

import "github.com/san-kum/sdesim/internal/dynamo"

// Energy tracks the time-mean of the Lorenz-96 energy E = (1/2n) sum x_i^2.
type Energy struct {
	name    string
	samples int
	total   float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(x dynamo.State, _ float64) {
	if len(x) == 0 {
		return
	}
	sum := 0.0
	for _, v := range x {
		sum += v * v
	}
	e.total += 0.5 * sum / float64(len(x))
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	e.samples = 0
	e.total = 0
}
