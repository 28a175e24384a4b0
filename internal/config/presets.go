package config

import "sort"

var presets = map[string]*Config{
	// quick: small population for smoke-testing a setup.
	"quick": {
		BasisFunctions: 10, Samples: 20, Iterations: 5,
		EliteFraction: 0.1, ScoreHorizon: 30, EvalHorizon: 50,
		DataDir: DefaultDataDir,
	},
	// paper: the population sizes from the cross-entropy policy search
	// experiments this trainer reproduces.
	"paper": {
		BasisFunctions: 50, Samples: 100, Iterations: 50,
		EliteFraction: 0.05, ScoreHorizon: 30, EvalHorizon: 100,
		DataDir: DefaultDataDir,
	},
	// wide: larger basis bank for a finer policy at higher cost.
	"wide": {
		BasisFunctions: 100, Samples: 200, Iterations: 50,
		EliteFraction: 0.05, ScoreHorizon: 30, EvalHorizon: 100,
		DataDir: DefaultDataDir,
	},
}

// GetPreset returns a copy of the named preset, or nil if it is unknown.
func GetPreset(name string) *Config {
	p, ok := presets[name]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

// ListPresets returns the available preset names.
func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
