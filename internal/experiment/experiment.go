package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/sdesim/internal/analysis"
	"github.com/san-kum/sdesim/internal/config"
	"github.com/san-kum/sdesim/internal/dynamo"
	"github.com/san-kum/sdesim/internal/sim"
	"github.com/san-kum/sdesim/internal/telemetry"
)

// initialState is what every run starts from when no state is given.
type initialState interface {
	DefaultState() dynamo.State
}

// Experiment is a single trajectory built from a config.Config.
type Experiment struct {
	cfg        *config.Config
	dyn        dynamo.System
	simulator  *sim.Simulator
	integrator string
}

func New(reg *Registry, cfg *config.Config) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	dyn, err := reg.GetModel(cfg.Model, cfg.Dim, cfg.Force)
	if err != nil {
		return nil, err
	}
	integ, err := reg.GetIntegrator(cfg.Integrator)
	if err != nil {
		return nil, err
	}

	s := sim.New(dyn, integ)
	for _, m := range reg.DefaultMetrics() {
		s.AddMetric(m)
	}
	return &Experiment{cfg: cfg, dyn: dyn, simulator: s, integrator: integ.Name()}, nil
}

// Run integrates from x0, or from the model's default state when x0 is nil.
func (e *Experiment) Run(ctx context.Context, x0 dynamo.State) (*sim.Result, error) {
	if x0 == nil {
		x0 = DefaultState(e.dyn)
	}
	return e.simulator.Run(ctx, x0, simConfig(e.cfg, e.cfg.Seed))
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

func (e *Experiment) System() dynamo.System { return e.dyn }

// DefaultState returns the model's preferred start, or the first unit vector.
func DefaultState(dyn dynamo.System) dynamo.State {
	if d, ok := dyn.(initialState); ok {
		return d.DefaultState()
	}
	x := make(dynamo.State, dyn.StateDim())
	x[0] = 1
	return x
}

func simConfig(cfg *config.Config, seed int64) sim.Config {
	return sim.Config{
		Dt:        cfg.Dt,
		Duration:  cfg.Duration,
		Diffusion: cfg.Diffusion,
		Seed:      seed,
	}
}

// TwinExperiment runs the truth twin with cfg.Integrator and an ensemble of
// cfg.Members with cfg.EnsembleIntegrator, all from the same initial state
// and with the same diffusion. The members differ only in their noise, so
// the ensemble spread measures the randomness of the flow itself.
type TwinExperiment struct {
	reg *Registry
	cfg *config.Config
	x0  dynamo.State
}

type TwinResult struct {
	Truth    *sim.Result
	Ensemble []*sim.Result
	Times    []float64
	RMSE     []float64
	Spread   []float64
}

func NewTwin(reg *Registry, cfg *config.Config, x0 dynamo.State) *TwinExperiment {
	return &TwinExperiment{reg: reg, cfg: cfg, x0: x0}
}

// Run seeds the truth with cfg.Seed and member i with cfg.Seed+1+i.
func (tw *TwinExperiment) Run(ctx context.Context) (*TwinResult, error) {
	if err := tw.cfg.Validate(); err != nil {
		return nil, err
	}
	dyn, err := tw.reg.GetModel(tw.cfg.Model, tw.cfg.Dim, tw.cfg.Force)
	if err != nil {
		return nil, err
	}
	truthInteg, err := tw.reg.GetIntegrator(tw.cfg.Integrator)
	if err != nil {
		return nil, err
	}
	memberInteg, err := tw.reg.GetIntegrator(tw.cfg.EnsembleIntegrator)
	if err != nil {
		return nil, err
	}

	x0 := tw.x0
	if x0 == nil {
		x0 = DefaultState(dyn)
	}

	log := telemetry.FromContext(ctx)
	log.Info("twin experiment started",
		"truth", truthInteg.Name(), "ensemble", memberInteg.Name(),
		"members", tw.cfg.Members, "diffusion", tw.cfg.Diffusion)

	truthSim := sim.New(dyn, truthInteg)
	for _, m := range tw.reg.DefaultMetrics() {
		truthSim.AddMetric(m)
	}
	truth, err := truthSim.Run(ctx, x0, simConfig(tw.cfg, tw.cfg.Seed))
	if err != nil {
		return nil, fmt.Errorf("truth: %w", err)
	}

	ens := sim.NewEnsemble(dyn, memberInteg, tw.cfg.Members, tw.cfg.Seed+1)
	members, err := ens.Run(ctx, x0, simConfig(tw.cfg, tw.cfg.Seed+1))
	if err != nil {
		return nil, fmt.Errorf("ensemble: %w", err)
	}

	res := &TwinResult{Truth: truth, Ensemble: members, Times: truth.Times}
	trajectories := make([][]dynamo.State, len(members))
	for i, m := range members {
		trajectories[i] = m.States
	}
	for k, xt := range truth.States {
		snap := analysis.AtStep(trajectories, k)
		res.RMSE = append(res.RMSE, analysis.RMSE(analysis.EnsembleMean(snap), xt))
		res.Spread = append(res.Spread, analysis.Spread(snap))
	}

	log.Info("twin experiment finished", "steps", len(res.Times),
		"final_rmse", res.FinalRMSE(), "final_spread", res.FinalSpread())
	return res, nil
}

func (r *TwinResult) FinalRMSE() float64   { return last(r.RMSE) }
func (r *TwinResult) FinalSpread() float64 { return last(r.Spread) }

func last(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	return v[len(v)-1]
}
