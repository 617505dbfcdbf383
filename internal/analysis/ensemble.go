package analysis

import (
	"math"

	"github.com/san-kum/sdesim/internal/dynamo"
)

// EnsembleMean averages members site by site.
func EnsembleMean(members []dynamo.State) dynamo.State {
	if len(members) == 0 {
		return nil
	}
	mean := make(dynamo.State, len(members[0]))
	for _, m := range members {
		for i := range mean {
			mean[i] += m[i]
		}
	}
	inv := 1.0 / float64(len(members))
	for i := range mean {
		mean[i] *= inv
	}
	return mean
}

// Spread is the root of the mean (over sites) unbiased ensemble variance.
func Spread(members []dynamo.State) float64 {
	if len(members) < 2 {
		return 0
	}
	mean := EnsembleMean(members)
	n := len(mean)
	total := 0.0
	for _, m := range members {
		for i := 0; i < n; i++ {
			d := m[i] - mean[i]
			total += d * d
		}
	}
	return math.Sqrt(total / float64((len(members)-1)*n))
}

// RMSE is the root mean square difference between two states.
func RMSE(a, b dynamo.State) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return math.NaN()
	}
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(a)))
}

// AtStep collects the state at step k from every member trajectory.
func AtStep(trajectories [][]dynamo.State, k int) []dynamo.State {
	out := make([]dynamo.State, 0, len(trajectories))
	for _, tr := range trajectories {
		if k < len(tr) {
			out = append(out, tr[k])
		}
	}
	return out
}
