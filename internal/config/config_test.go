package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/sdesim/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Model != "l96s" {
		t.Errorf("expected model l96s, got %s", cfg.Model)
	}
	if cfg.Duration != 10 {
		t.Errorf("expected default duration 10, got %g", cfg.Duration)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"small ring", func(c *Config) { c.Dim = 3 }},
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"negative duration", func(c *Config) { c.Duration = -1 }},
		{"negative diffusion", func(c *Config) { c.Diffusion = -0.1 }},
		{"no members", func(c *Config) { c.Members = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if !errors.Is(err, dynamo.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestSaveLoadKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")

	if err := os.WriteFile(path, []byte("diffusion: 0.7\ndim: 12\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Diffusion != 0.7 || cfg.Dim != 12 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Dt != DefaultDt {
		t.Errorf("missing key should keep default dt, got %g", cfg.Dt)
	}

	out := filepath.Join(dir, "saved.yaml")
	if err := Save(out, cfg); err != nil {
		t.Fatal(err)
	}
	again, err := Load(out)
	if err != nil {
		t.Fatal(err)
	}
	if *again != *cfg {
		t.Errorf("reloaded config differs: %+v vs %+v", again, cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("dt: [not a number\n"), 0644)
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("l96s", "moderate")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Diffusion != 0.5 {
		t.Errorf("expected diffusion 0.5, got %f", cfg.Diffusion)
	}

	cfg.Diffusion = 9
	if GetPreset("l96s", "moderate").Diffusion != 0.5 {
		t.Error("GetPreset must return a copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("l96s", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "low-noise") != nil {
		t.Error("expected nil for nonexistent model")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("l96s")
	if len(presets) == 0 {
		t.Fatal("expected presets for l96s")
	}
	for i := 1; i < len(presets); i++ {
		if presets[i-1] > presets[i] {
			t.Errorf("presets not sorted: %v", presets)
		}
	}
	for _, name := range presets {
		if err := GetPreset("l96s", name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}

	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent model")
	}
}
