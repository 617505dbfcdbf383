package automation

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/sdesim/internal/config"
	"github.com/san-kum/sdesim/internal/dynamo"
	"github.com/san-kum/sdesim/internal/experiment"
	"github.com/san-kum/sdesim/internal/storage"
)

const scenarioYAML = `
name: noise-levels
description: quiet then loud
steps:
  - name: quiet
    dim: 6
    duration: 0.1
    diffusion: 0
    seed: 1
  - name: loud
    dim: 6
    duration: 0.1
    diffusion: 1.0
    integrator: rk4
    seed: 2
    save: true
`

func TestParseScenarioFillsDefaults(t *testing.T) {
	sc, err := ParseScenario([]byte(scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	if len(sc.Steps) != 2 {
		t.Fatalf("steps = %d, want 2", len(sc.Steps))
	}
	quiet := sc.Steps[0].Config
	if quiet.Dim != 6 || quiet.Dt != config.DefaultDt || quiet.Integrator != "taylor2" {
		t.Errorf("defaults not applied: %+v", quiet)
	}
	if sc.Steps[1].Config.Integrator != "rk4" || !sc.Steps[1].Save {
		t.Errorf("second step parsed wrong: %+v", sc.Steps[1])
	}
}

func TestParseScenarioEmpty(t *testing.T) {
	if _, err := ParseScenario([]byte("name: empty\n")); !errors.Is(err, dynamo.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestRunScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	st := storage.New(t.TempDir())
	st.Init()

	results, err := RunScenario(context.Background(), sc, experiment.NewRegistry(), st)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].RunID != "" {
		t.Error("unsaved step should have no run id")
	}
	if results[1].RunID == "" {
		t.Fatal("saved step should have a run id")
	}
	if _, err := st.Load(results[1].RunID); err != nil {
		t.Errorf("saved run not loadable: %v", err)
	}
}

func TestRunScenarioStopsOnBadStep(t *testing.T) {
	sc := &Scenario{Name: "bad", Steps: []ScenarioStep{{Config: *config.DefaultConfig()}, {Config: *config.DefaultConfig()}}}
	sc.Steps[0].Config.Duration = 0.05
	sc.Steps[1].Config.Integrator = "verlet"

	results, err := RunScenario(context.Background(), sc, experiment.NewRegistry(), nil)
	if err == nil {
		t.Fatal("expected error for unknown integrator")
	}
	if len(results) != 1 {
		t.Errorf("expected the first step's result, got %d", len(results))
	}
}

func TestMonteCarlo(t *testing.T) {
	run := config.DefaultConfig()
	run.Dim = 8
	run.Duration = 0.2
	run.Seed = 9

	cfg := &MonteCarloConfig{Run: run, Perturbation: 0.5, NumTrials: 6}
	results, err := RunMonteCarlo(context.Background(), cfg, experiment.NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 6 {
		t.Fatalf("trials = %d, want 6", len(results))
	}
	if results[0].InitState[1] == results[1].InitState[1] {
		t.Error("trials should start from different perturbations")
	}
	stable, unstable := MonteCarloStats(results)
	if stable != 6 || unstable != 0 {
		t.Errorf("short runs should stay bounded: %d stable, %d unstable", stable, unstable)
	}

	again, _ := RunMonteCarlo(context.Background(), cfg, experiment.NewRegistry())
	for i := range results {
		for j := range results[i].FinalState {
			if results[i].FinalState[j] != again[i].FinalState[j] {
				t.Fatal("monte carlo must be reproducible for a fixed seed")
			}
		}
	}

	if _, err := RunMonteCarlo(context.Background(), &MonteCarloConfig{Run: run}, experiment.NewRegistry()); err == nil {
		t.Error("zero trials should fail")
	}
}
