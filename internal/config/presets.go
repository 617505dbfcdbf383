package config

import "sort"

// Presets are named noise regimes for the Lorenz-96s model.
var Presets = map[string]map[string]*Config{
	"l96s": {
		"deterministic": preset(0, 10),
		"low-noise":     preset(0.1, 10),
		"moderate":      preset(0.5, 10),
		"high-noise":    preset(1.0, 10),
		"long":          preset(0.1, 50),
		"large": {
			Model: "l96s", Dim: 40, Force: DefaultForce,
			Integrator: DefaultIntegrator, EnsembleIntegrator: DefaultEnsemble,
			Dt: DefaultDt, Duration: DefaultDuration, Diffusion: 0.1, Members: 40,
		},
	},
}

func preset(diffusion, duration float64) *Config {
	return &Config{
		Model:              "l96s",
		Dim:                DefaultDim,
		Force:              DefaultForce,
		Integrator:         DefaultIntegrator,
		EnsembleIntegrator: DefaultEnsemble,
		Dt:                 DefaultDt,
		Duration:           duration,
		Diffusion:          diffusion,
		Members:            DefaultMembers,
	}
}

// GetPreset returns a copy so callers may override fields freely.
func GetPreset(model, name string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[name]
	if !ok {
		return nil
	}
	cp := *cfg
	return &cp
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
