package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/sdesim/internal/dynamo"
)

func TestEnergyMean(t *testing.T) {
	m := NewEnergy()

	m.Observe(dynamo.State{2, 2, 2, 2}, 0)
	m.Observe(dynamo.State{0, 0, 0, 0}, 0.1)

	// E = 2 for the first sample, 0 for the second
	if math.Abs(m.Value()-1.0) > 1e-12 {
		t.Errorf("expected mean energy 1, got %f", m.Value())
	}
}

func TestEnergyReset(t *testing.T) {
	m := NewEnergy()

	m.Observe(dynamo.State{1.0, 1.0}, 0)
	if m.Value() == 0 {
		t.Error("expected non-zero energy")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestStability(t *testing.T) {
	m := NewStability(10)
	if m.Value() != 1.0 {
		t.Error("expected full stability before any sample")
	}

	m.Observe(dynamo.State{1, 2}, 0)
	m.Observe(dynamo.State{1, -20}, 0)
	if math.Abs(m.Value()-0.5) > 1e-12 {
		t.Errorf("expected 0.5, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 1.0 {
		t.Error("expected reset to clear violations")
	}
}

func TestDefaults(t *testing.T) {
	names := map[string]bool{}
	for _, m := range Defaults() {
		names[m.Name()] = true
	}
	if !names["energy"] || !names["stability"] {
		t.Errorf("unexpected default metrics: %v", names)
	}
}
