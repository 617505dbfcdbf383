package sim

import (
	"math"

	"github.com/san-kum/sdesim/internal/dynamo"
)

// Config describes one trajectory on a uniform time grid.
type Config struct {
	Dt        float64
	Duration  float64
	Diffusion float64
	Seed      int64
}

func DefaultConfig() Config {
	return Config{
		Dt:        0.005,
		Duration:  10.0,
		Diffusion: 0.1,
	}
}

// Steps is the number of grid steps covering Duration.
func (c Config) Steps() int {
	return int(math.Round(c.Duration / c.Dt))
}

type Result struct {
	States     []dynamo.State
	Times      []float64
	Metrics    map[string]float64
	StepsTaken int
	Seed       int64
}

// Final returns the last recorded state, or nil for an empty result.
func (r *Result) Final() dynamo.State {
	if len(r.States) == 0 {
		return nil
	}
	return r.States[len(r.States)-1]
}
