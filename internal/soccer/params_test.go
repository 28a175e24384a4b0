package soccer

import (
	"path/filepath"
	"testing"
)

func TestDefaultParams(t *testing.T) {
	p := Default()
	if err := p.Validate(); err != nil {
		t.Fatalf("default parameters invalid: %v", err)
	}
	if p.NumActions() != 8 {
		t.Errorf("expected 8 actions, got %d", p.NumActions())
	}
	if p.KickableMargin != 0.7 {
		t.Errorf("expected kickable margin 0.7, got %g", p.KickableMargin)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero ball decay", func(p *Params) { p.BallDecay = 0 }},
		{"decay above one", func(p *Params) { p.PlayerDecay = 1.5 }},
		{"negative speed limit", func(p *Params) { p.PlayerSpeedMax = -1 }},
		{"zero dash power rate", func(p *Params) { p.DashPowerRate = 0 }},
		{"zero kickable margin", func(p *Params) { p.KickableMargin = 0 }},
		{"distance below kickable", func(p *Params) { p.DistanceMax = 0.5 }},
		{"no turn steps", func(p *Params) { p.TurnSteps = 0 }},
	}

	for _, tt := range tests {
		p := Default()
		tt.mutate(p)
		if err := p.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")
	p := Default()
	p.TurnSteps = 8
	if err := Save(path, p); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.TurnSteps != 8 {
		t.Errorf("expected 8 turn steps, got %d", loaded.TurnSteps)
	}
	if loaded.BallDecay != p.BallDecay {
		t.Errorf("expected ball decay %g, got %g", p.BallDecay, loaded.BallDecay)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
