// Package soccer holds the physical parameter table for the ball capture
// task: decay rates, speed and acceleration limits, the kickable range and
// the discrete action menu sizes.
package soccer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Params struct {
	BallDecay      float64 `yaml:"ball_decay"`
	PlayerDecay    float64 `yaml:"player_decay"`
	BallSpeedMax   float64 `yaml:"ball_speed_max"`
	PlayerSpeedMax float64 `yaml:"player_speed_max"`
	PlayerAccelMax float64 `yaml:"player_accel_max"`
	DashPowerRate  float64 `yaml:"dash_power_rate"`
	DashPowerMax   float64 `yaml:"dash_power_max"`
	KickableMargin float64 `yaml:"kickable_margin"`
	DistanceMax    float64 `yaml:"distance_max"`
	TurnSteps      int     `yaml:"turn_steps"`
	DashSteps      int     `yaml:"dash_steps"`
}

// Default returns the standard soccer server parameter set.
func Default() *Params {
	return &Params{
		BallDecay:      0.94,
		PlayerDecay:    0.4,
		BallSpeedMax:   3.0,
		PlayerSpeedMax: 1.05,
		PlayerAccelMax: 1.0,
		DashPowerRate:  0.006,
		DashPowerMax:   100.0,
		KickableMargin: 0.7,
		DistanceMax:    125.0,
		TurnSteps:      4,
		DashSteps:      4,
	}
}

// NumActions is the size of the discrete action menu.
func (p *Params) NumActions() int {
	return p.TurnSteps + p.DashSteps
}

func (p *Params) Validate() error {
	if p.BallDecay <= 0 || p.BallDecay > 1 {
		return fmt.Errorf("soccer: ball_decay must be in (0,1], got %g", p.BallDecay)
	}
	if p.PlayerDecay <= 0 || p.PlayerDecay > 1 {
		return fmt.Errorf("soccer: player_decay must be in (0,1], got %g", p.PlayerDecay)
	}
	if p.BallSpeedMax <= 0 || p.PlayerSpeedMax <= 0 || p.PlayerAccelMax <= 0 {
		return fmt.Errorf("soccer: speed and acceleration limits must be positive")
	}
	if p.DashPowerRate <= 0 || p.DashPowerMax <= 0 {
		return fmt.Errorf("soccer: dash power parameters must be positive")
	}
	if p.KickableMargin <= 0 {
		return fmt.Errorf("soccer: kickable_margin must be positive, got %g", p.KickableMargin)
	}
	if p.DistanceMax <= p.KickableMargin {
		return fmt.Errorf("soccer: distance_max must exceed kickable_margin")
	}
	if p.TurnSteps < 1 || p.DashSteps < 1 {
		return fmt.Errorf("soccer: turn_steps and dash_steps must be at least 1")
	}
	return nil
}

// Load reads a yaml parameter file, merging it over the defaults.
func Load(path string) (*Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p := Default()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func Save(path string, p *Params) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
