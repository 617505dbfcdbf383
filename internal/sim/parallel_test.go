package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/sdesim/internal/dynamo"
	"github.com/san-kum/sdesim/internal/physics"
	"github.com/san-kum/sdesim/internal/sde"
)

func TestEnsembleMatchesSequentialRuns(t *testing.T) {
	dyn := physics.NewLorenz96(8)
	x0 := dyn.DefaultState()
	cfg := Config{Dt: 0.01, Duration: 0.3, Diffusion: 0.4}

	results, err := NewEnsemble(dyn, sde.NewRK4(), 5, 100).Run(context.Background(), x0, cfg)
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != 5 {
		t.Fatalf("expected 5 members, got %d", len(results))
	}

	for i, res := range results {
		single := cfg
		single.Seed = int64(100 + i)
		want, err := New(dyn, sde.NewRK4()).Run(context.Background(), x0, single)
		if err != nil {
			t.Fatal(err)
		}
		got, exp := res.Final(), want.Final()
		for j := range got {
			if got[j] != exp[j] {
				t.Fatalf("member %d differs from its sequential run at site %d", i, j)
			}
		}
	}
}

func TestEnsembleMembersDiffer(t *testing.T) {
	dyn := physics.NewLorenz96(8)
	cfg := Config{Dt: 0.01, Duration: 0.2, Diffusion: 0.4}

	results, err := NewEnsemble(dyn, sde.NewRK4(), 2, 1).Run(context.Background(), dyn.DefaultState(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Final()[0] == results[1].Final()[0] {
		t.Error("members with different seeds should not coincide")
	}
}

func TestEnsembleRunFromLengthMismatch(t *testing.T) {
	dyn := physics.NewLorenz96(8)
	_, err := NewEnsemble(dyn, sde.NewRK4(), 3, 1).RunFrom(context.Background(), []dynamo.State{dyn.DefaultState()}, DefaultConfig())
	if !errors.Is(err, dynamo.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestEnsemblePropagatesMemberError(t *testing.T) {
	dyn := physics.NewLorenz96(8)
	_, err := NewEnsemble(dyn, sde.NewRK4(), 3, 1).Run(context.Background(), make(dynamo.State, 3), DefaultConfig())
	if !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}
