package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/sdesim/internal/dynamo"
)

const (
	DefaultModel      = "l96s"
	DefaultDim        = 10
	DefaultForce      = 8.0
	DefaultDt         = 0.005
	DefaultDuration   = 10.0
	DefaultDiffusion  = 0.1
	DefaultMembers    = 20
	DefaultIntegrator = "taylor2"
	DefaultEnsemble   = "rk4"
)

type Config struct {
	Model              string  `yaml:"model"`
	Dim                int     `yaml:"dim"`
	Force              float64 `yaml:"force"`
	Integrator         string  `yaml:"integrator"`
	EnsembleIntegrator string  `yaml:"ensemble_integrator"`
	Dt                 float64 `yaml:"dt"`
	Duration           float64 `yaml:"duration"`
	Diffusion          float64 `yaml:"diffusion"`
	Seed               int64   `yaml:"seed"`
	Members            int     `yaml:"members"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:              DefaultModel,
		Dim:                DefaultDim,
		Force:              DefaultForce,
		Integrator:         DefaultIntegrator,
		EnsembleIntegrator: DefaultEnsemble,
		Dt:                 DefaultDt,
		Duration:           DefaultDuration,
		Diffusion:          DefaultDiffusion,
		Members:            DefaultMembers,
	}
}

// Load reads a YAML file over the defaults; keys absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports every invalid field, joined.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{dynamo.ErrInvalidArgument}, args...)...))
	}

	if c.Dim < 4 {
		bad("dim must be at least 4, got %d", c.Dim)
	}
	if !(c.Dt > 0) || math.IsInf(c.Dt, 0) {
		bad("dt must be positive, got %g", c.Dt)
	}
	if !(c.Duration > 0) || math.IsInf(c.Duration, 0) {
		bad("duration must be positive, got %g", c.Duration)
	}
	if !(c.Diffusion >= 0) || math.IsInf(c.Diffusion, 0) {
		bad("diffusion must be non-negative, got %g", c.Diffusion)
	}
	if math.IsNaN(c.Force) || math.IsInf(c.Force, 0) {
		bad("force must be finite")
	}
	if c.Members < 1 {
		bad("members must be at least 1, got %d", c.Members)
	}
	return errors.Join(errs...)
}
