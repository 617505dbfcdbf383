package experiment

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/sdesim/internal/config"
	"github.com/san-kum/sdesim/internal/dynamo"
)

func TestRegistry(t *testing.T) {
	reg := NewRegistry()

	for _, name := range []string{"taylor2", "rk4", "euler-maruyama"} {
		integ, err := reg.GetIntegrator(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if integ.Name() != name {
			t.Errorf("integrator %s reports name %s", name, integ.Name())
		}
	}
	if _, err := reg.GetIntegrator("verlet"); err == nil {
		t.Error("expected error for unknown integrator")
	}

	m, err := reg.GetModel("l96s", 6, 10)
	if err != nil {
		t.Fatal(err)
	}
	if m.StateDim() != 6 {
		t.Errorf("dim = %d, want 6", m.StateDim())
	}
	if p := m.(dynamo.Configurable).GetParams()["force"]; p != 10 {
		t.Errorf("force = %v, want 10", p)
	}

	if _, err := reg.GetModel("l96s", 3, 8); !errors.Is(err, dynamo.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for 3 sites, got %v", err)
	}
	if _, err := reg.GetModel("pendulum", 4, 8); err == nil {
		t.Error("expected error for unknown model")
	}
	if len(reg.ListModels()) != 1 || len(reg.ListIntegrators()) != 3 {
		t.Errorf("unexpected listings: %v %v", reg.ListModels(), reg.ListIntegrators())
	}
}

func shortConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Dim = 8
	cfg.Duration = 0.5
	cfg.Members = 5
	cfg.Seed = 11
	return cfg
}

func TestExperimentRun(t *testing.T) {
	exp, err := New(NewRegistry(), shortConfig())
	if err != nil {
		t.Fatal(err)
	}
	res, err := exp.Run(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.StepsTaken != 100 {
		t.Errorf("steps = %d, want 100", res.StepsTaken)
	}
	if _, ok := res.Metrics["energy"]; !ok {
		t.Error("energy metric missing")
	}
	if res.States[0][0] != 1 {
		t.Errorf("run should start at e_0, got %v", res.States[0])
	}
}

func TestExperimentRejectsBadConfig(t *testing.T) {
	cfg := shortConfig()
	cfg.Diffusion = -1
	if _, err := New(NewRegistry(), cfg); !errors.Is(err, dynamo.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestTwinExperiment(t *testing.T) {
	res, err := NewTwin(NewRegistry(), shortConfig(), nil).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if len(res.Ensemble) != 5 {
		t.Fatalf("members = %d, want 5", len(res.Ensemble))
	}
	if len(res.RMSE) != len(res.Times) || len(res.Spread) != len(res.Times) {
		t.Fatalf("statistics not aligned with time grid")
	}
	if res.RMSE[0] > 1e-15 || res.Spread[0] > 1e-15 {
		t.Errorf("twins share x0, got rmse %v spread %v", res.RMSE[0], res.Spread[0])
	}
	if !(res.FinalSpread() > 0) {
		t.Errorf("noise should spread the ensemble, got %v", res.FinalSpread())
	}
	if math.IsNaN(res.FinalRMSE()) {
		t.Error("final rmse is NaN")
	}
}

func TestTwinDeterministicCollapses(t *testing.T) {
	cfg := shortConfig()
	cfg.Diffusion = 0
	cfg.Integrator = "rk4"

	res, err := NewTwin(NewRegistry(), cfg, nil).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.FinalSpread() > 1e-12 || res.FinalRMSE() > 1e-12 {
		t.Errorf("without noise all twins coincide, got rmse %v spread %v", res.FinalRMSE(), res.FinalSpread())
	}
}

func TestTwinReproducible(t *testing.T) {
	a, err := NewTwin(NewRegistry(), shortConfig(), nil).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewTwin(NewRegistry(), shortConfig(), nil).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if a.FinalRMSE() != b.FinalRMSE() || a.FinalSpread() != b.FinalSpread() {
		t.Error("same seed must give identical twin statistics")
	}
}
