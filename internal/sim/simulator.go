package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/sdesim/internal/dynamo"
	"github.com/san-kum/sdesim/internal/noise"
	"github.com/san-kum/sdesim/internal/sde"
	"github.com/san-kum/sdesim/internal/telemetry"
)

// Simulator repeatedly applies one integrator to one trajectory.
type Simulator struct {
	dyn        dynamo.System
	integrator sde.Integrator
	metrics    []dynamo.Metric
	observers  []dynamo.Observer
}

func New(dyn dynamo.System, integrator sde.Integrator) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		metrics:    make([]dynamo.Metric, 0),
		observers:  make([]dynamo.Observer, 0),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// Run integrates x0 over cfg.Duration with a sampler seeded from cfg.Seed.
func (s *Simulator) Run(ctx context.Context, x0 dynamo.State, cfg Config) (*Result, error) {
	return s.RunWithSource(ctx, x0, cfg, noise.New(cfg.Seed))
}

// RunWithSource integrates x0 drawing all randomness from src. A failing
// step stops the run; the states reached so far are returned together with
// a *dynamo.StepError.
func (s *Simulator) RunWithSource(ctx context.Context, x0 dynamo.State, cfg Config, src noise.Sampler) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if len(x0) != s.dyn.StateDim() {
		return nil, fmt.Errorf("%w: initial state has %d sites, model %d", dynamo.ErrDimensionMismatch, len(x0), s.dyn.StateDim())
	}

	log := telemetry.FromContext(ctx).With("integrator", s.integrator.Name(), "seed", cfg.Seed)

	steps := cfg.Steps()
	result := &Result{
		States:  make([]dynamo.State, 0, steps+1),
		Times:   make([]float64, 0, steps+1),
		Metrics: make(map[string]float64),
		Seed:    cfg.Seed,
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	t := 0.0
	s.record(result, x, t)

	log.Debug("run started", "steps", steps, "dt", cfg.Dt, "diffusion", cfg.Diffusion)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		next, err := s.integrator.Step(s.dyn, x, t, cfg.Dt, cfg.Diffusion, src)
		if err != nil {
			log.Warn("step failed", "step", i, "t", t, "error", err)
			s.collectMetrics(result)
			return result, &dynamo.StepError{Step: i, Time: t, State: x, Wrapped: err}
		}

		x = next
		t = float64(i+1) * cfg.Dt
		result.StepsTaken++
		s.record(result, x, t)
	}

	s.collectMetrics(result)
	log.Debug("run finished", "steps", result.StepsTaken)

	return result, nil
}

func (s *Simulator) record(result *Result, x dynamo.State, t float64) {
	result.States = append(result.States, x)
	result.Times = append(result.Times, t)
	for _, m := range s.metrics {
		m.Observe(x, t)
	}
	for _, obs := range s.observers {
		obs.OnStep(x, t)
	}
}

func (s *Simulator) collectMetrics(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", dynamo.ErrInvalidArgument, cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %f", dynamo.ErrInvalidArgument, cfg.Duration)
	}
	if cfg.Diffusion < 0 {
		return fmt.Errorf("%w: diffusion must be non-negative, got %f", dynamo.ErrInvalidArgument, cfg.Diffusion)
	}
	return nil
}
