// Package config holds the training run configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBasisFunctions = 50
	DefaultSamples        = 100
	DefaultIterations     = 50
	DefaultEliteFraction  = 0.05
	DefaultScoreHorizon   = 30
	DefaultEvalHorizon    = 100
	DefaultDataDir        = ".ballcap"
)

type Config struct {
	BasisFunctions int     `yaml:"basis_functions"`
	Samples        int     `yaml:"samples"`
	Iterations     int     `yaml:"iterations"`
	EliteFraction  float64 `yaml:"elite_fraction"`
	ScoreHorizon   int     `yaml:"score_horizon"`
	EvalHorizon    int     `yaml:"eval_horizon"`
	Seed           int64   `yaml:"seed"`
	Workers        int     `yaml:"workers"`
	DataDir        string  `yaml:"data_dir"`
}

func Default() *Config {
	return &Config{
		BasisFunctions: DefaultBasisFunctions,
		Samples:        DefaultSamples,
		Iterations:     DefaultIterations,
		EliteFraction:  DefaultEliteFraction,
		ScoreHorizon:   DefaultScoreHorizon,
		EvalHorizon:    DefaultEvalHorizon,
		DataDir:        DefaultDataDir,
	}
}

func (c *Config) Validate() error {
	if c.BasisFunctions < 1 {
		return fmt.Errorf("config: basis_functions must be at least 1")
	}
	if c.Samples < 2 {
		return fmt.Errorf("config: samples must be at least 2")
	}
	if c.Iterations < 1 {
		return fmt.Errorf("config: iterations must be at least 1")
	}
	if c.EliteFraction <= 0 || c.EliteFraction > 1 {
		return fmt.Errorf("config: elite_fraction must be in (0,1], got %g", c.EliteFraction)
	}
	if c.ScoreHorizon < 1 || c.EvalHorizon < 1 {
		return fmt.Errorf("config: horizons must be at least 1")
	}
	if c.Workers < 0 {
		return fmt.Errorf("config: workers must not be negative")
	}
	return nil
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
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
