package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/sdesim/internal/dynamo"
	"github.com/san-kum/sdesim/internal/metrics"
	"github.com/san-kum/sdesim/internal/physics"
	"github.com/san-kum/sdesim/internal/sde"
)

// ModelFactory builds a model with dim sites and forcing force.
type ModelFactory func(dim int, force float64) (dynamo.System, error)

type Registry struct {
	models      map[string]ModelFactory
	integrators map[string]func() sde.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		models:      make(map[string]ModelFactory),
		integrators: make(map[string]func() sde.Integrator),
	}

	r.models["l96s"] = func(dim int, force float64) (dynamo.System, error) {
		if dim < sde.MinDimension {
			return nil, fmt.Errorf("%w: l96s needs at least %d sites, got %d", dynamo.ErrInvalidArgument, sde.MinDimension, dim)
		}
		m := physics.NewLorenz96(dim)
		if err := m.SetParam("force", force); err != nil {
			return nil, err
		}
		return m, nil
	}

	r.integrators["taylor2"] = func() sde.Integrator { return sde.NewTaylor2() }
	r.integrators["rk4"] = func() sde.Integrator { return sde.NewRK4() }
	r.integrators["euler-maruyama"] = func() sde.Integrator { return sde.NewEulerMaruyama() }

	return r
}

func (r *Registry) GetModel(name string, dim int, force float64) (dynamo.System, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", name)
	}
	return fn(dim, force)
}

func (r *Registry) GetIntegrator(name string) (sde.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListModels() []string      { return sortedKeys(r.models) }
func (r *Registry) ListIntegrators() []string { return sortedKeys(r.integrators) }

func (r *Registry) DefaultMetrics() []dynamo.Metric {
	return metrics.Defaults()
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
