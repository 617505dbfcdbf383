// Package noise supplies the standard-normal variates that drive the
// stochastic integrators.
//
// A [Sampler] is owned by exactly one trajectory. Samplers are not safe for
// concurrent use; an ensemble gives every member its own, seeded with
// [MemberSeed].
package noise

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// stream selects the PCG increment so that two generators with the same
// seed but a different purpose never share a sequence.
const stream = 0x9e3779b97f4a7c15

// Sampler draws independent standard-normal variates.
// distuv.Normal satisfies it.
type Sampler interface {
	Rand() float64
}

// New returns a reproducible standard-normal sampler for seed.
func New(seed int64) Sampler {
	return distuv.Normal{
		Mu:    0,
		Sigma: 1,
		Src:   rand.NewPCG(uint64(seed), stream),
	}
}

// MemberSeed derives the seed of ensemble member idx from a base seed.
func MemberSeed(base int64, idx int) int64 {
	return base + int64(idx)
}

// Vector draws n variates from src.
func Vector(src Sampler, n int) []float64 {
	v := make([]float64, n)
	Fill(src, v)
	return v
}

// Fill overwrites dst with fresh variates from src.
func Fill(src Sampler, dst []float64) {
	for i := range dst {
		dst[i] = src.Rand()
	}
}
