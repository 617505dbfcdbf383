// Package automation runs scripted scenarios and Monte Carlo batches.
package automation

import (
	"context"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/sdesim/internal/config"
	"github.com/san-kum/sdesim/internal/dynamo"
	"github.com/san-kum/sdesim/internal/experiment"
	"github.com/san-kum/sdesim/internal/noise"
	"github.com/san-kum/sdesim/internal/sim"
	"github.com/san-kum/sdesim/internal/storage"
	"github.com/san-kum/sdesim/internal/telemetry"
)

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run. Keys left out of the file take the
// config.DefaultConfig values.
type ScenarioStep struct {
	Name   string        `yaml:"name"`
	Save   bool          `yaml:"save"`
	Config config.Config `yaml:",inline"`
}

func (s *ScenarioStep) UnmarshalYAML(node *yaml.Node) error {
	type plain ScenarioStep
	p := plain{Config: *config.DefaultConfig()}
	if err := node.Decode(&p); err != nil {
		return err
	}
	*s = ScenarioStep(p)
	return nil
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("%w: scenario %q has no steps", dynamo.ErrInvalidArgument, scenario.Name)
	}
	return &scenario, nil
}

type StepResult struct {
	Name   string
	RunID  string
	Result *sim.Result
}

// RunScenario executes the steps in order, storing those marked save when
// st is non-nil. It stops at the first failing step and returns the results
// gathered so far.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, st *storage.Store) ([]StepResult, error) {
	log := telemetry.FromContext(ctx).With("scenario", scenario.Name)
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step-%d", i+1)
		}
		log.Info("scenario step", "step", i+1, "of", len(scenario.Steps), "name", name)

		cfg := step.Config
		exp, err := experiment.New(registry, &cfg)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		result, err := exp.Run(ctx, nil)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Name: name, Result: result}
		if step.Save && st != nil {
			sr.RunID, err = st.Save(storage.RunMetadata{
				Model:      cfg.Model,
				Dim:        cfg.Dim,
				Force:      cfg.Force,
				Diffusion:  cfg.Diffusion,
				Seed:       cfg.Seed,
				Dt:         cfg.Dt,
				Duration:   cfg.Duration,
				Integrator: cfg.Integrator,
			}, result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}

// MonteCarloConfig perturbs the model's default state with Gaussian noise of
// size Perturbation and integrates each trial with its own noise stream.
type MonteCarloConfig struct {
	Run          *config.Config
	Perturbation float64
	NumTrials    int
	Bound        float64
}

// MonteCarloResult holds statistics from Monte Carlo runs
type MonteCarloResult struct {
	TrialID    int
	InitState  dynamo.State
	FinalState dynamo.State
	Stable     bool // every site of the final state within Bound
}

func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, registry *experiment.Registry) ([]MonteCarloResult, error) {
	if cfg.NumTrials < 1 {
		return nil, fmt.Errorf("%w: need at least one trial", dynamo.ErrInvalidArgument)
	}
	if err := cfg.Run.Validate(); err != nil {
		return nil, err
	}
	dyn, err := registry.GetModel(cfg.Run.Model, cfg.Run.Dim, cfg.Run.Force)
	if err != nil {
		return nil, err
	}
	integ, err := registry.GetIntegrator(cfg.Run.Integrator)
	if err != nil {
		return nil, err
	}

	// perturbations come from a stream separate from every trial's noise
	pert := noise.New(cfg.Run.Seed - 1)
	base := experiment.DefaultState(dyn)
	x0s := make([]dynamo.State, cfg.NumTrials)
	for i := range x0s {
		x0s[i] = base.Clone()
		for j := range x0s[i] {
			x0s[i][j] += cfg.Perturbation * pert.Rand()
		}
	}

	ens := sim.NewEnsemble(dyn, integ, cfg.NumTrials, cfg.Run.Seed)
	runs, err := ens.RunFrom(ctx, x0s, sim.Config{
		Dt:        cfg.Run.Dt,
		Duration:  cfg.Run.Duration,
		Diffusion: cfg.Run.Diffusion,
		Seed:      cfg.Run.Seed,
	})
	if err != nil {
		return nil, err
	}

	bound := cfg.Bound
	if bound <= 0 {
		bound = 1e6
	}
	results := make([]MonteCarloResult, cfg.NumTrials)
	for i, r := range runs {
		final := r.Final()
		stable := final.IsValid()
		for _, v := range final {
			if math.Abs(v) > bound {
				stable = false
				break
			}
		}
		results[i] = MonteCarloResult{TrialID: i, InitState: x0s[i], FinalState: final, Stable: stable}
	}

	telemetry.FromContext(ctx).Info("monte carlo finished", "trials", cfg.NumTrials)
	return results, nil
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
