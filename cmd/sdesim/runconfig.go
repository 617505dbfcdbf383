package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/san-kum/sdesim/internal/config"
	"github.com/san-kum/sdesim/internal/dynamo"
	"github.com/san-kum/sdesim/internal/sim"
	"github.com/san-kum/sdesim/internal/storage"
)

// resolveConfig layers defaults, then the preset, then the config file,
// then any flag set explicitly on the command line.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(cfg.Model, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Model))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	applyFlags(cmd, cfg)

	// an unset seed means a fresh one
	if cfg.Seed == 0 {
		cfg.Seed = flagSeed
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("dim") {
		cfg.Dim = flagDim
	}
	if changed("force") {
		cfg.Force = flagForce
	}
	if changed("integrator") {
		cfg.Integrator = flagIntegrator
	}
	if changed("ensemble-integrator") {
		cfg.EnsembleIntegrator = flagEnsemble
	}
	if changed("dt") {
		cfg.Dt = flagDt
	}
	if changed("time") {
		cfg.Duration = flagDuration
	}
	if changed("diffusion") {
		cfg.Diffusion = flagDiffusion
	}
	if changed("seed") {
		cfg.Seed = flagSeed
	}
	if changed("members") {
		cfg.Members = flagMembers
	}
}

func metadataFor(cfg *config.Config) storage.RunMetadata {
	return storage.RunMetadata{
		Model:      cfg.Model,
		Dim:        cfg.Dim,
		Force:      cfg.Force,
		Diffusion:  cfg.Diffusion,
		Seed:       cfg.Seed,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Integrator: cfg.Integrator,
	}
}

func loadResult(st *storage.Store, meta *storage.RunMetadata) (*sim.Result, error) {
	states, times, err := st.LoadStates(meta.ID)
	if err != nil {
		return nil, err
	}
	result := &sim.Result{
		States:     make([]dynamo.State, len(states)),
		Times:      times,
		Metrics:    meta.Metrics,
		StepsTaken: meta.Steps,
		Seed:       meta.Seed,
	}
	for i, s := range states {
		result.States[i] = s
	}
	return result, nil
}
