// Package config loads the difficulty and tuning knobs the decision
// pipeline reads as opaque inputs every tick. The algorithm that adjusts
// these values over the course of a match is an external collaborator's
// concern; this package only gives the core a typed place to read the
// current values from, loaded with github.com/BurntSushi/toml.
package config

import "github.com/BurntSushi/toml"

// DifficultyConfig holds the per-team tunables the decision pipeline reads
// every tick. Values are opaque to the core beyond their documented use; the
// algorithm that adjusts them over a match belongs to the difficulty/
// adaptive-tuning collaborator.
type DifficultyConfig struct {
	// DecisionDelayProbability is the chance, in [0,1], that DecideAction
	// returns NOOP outright to simulate reaction lag.
	DecisionDelayProbability float64 `toml:"decision_delay_probability"`

	// ThreatMapStaggerInterval is the tick stride at which only 1/N of a
	// team's agents refresh the shared threat map.
	ThreatMapStaggerInterval int `toml:"threat_map_stagger_interval"`

	// ThreatMapEnabled gates whether threat map updates run at all this
	// difficulty tier.
	ThreatMapEnabled bool `toml:"threat_map_enabled"`

	// GoblinAvoidRadius is the Chebyshev radius goblins flee a non-kin agent
	// within.
	GoblinAvoidRadius int `toml:"goblin_avoid_radius"`

	// VisionRadius and ScoutVisionRadius are the fog-of-war reveal radii for
	// ordinary and scout-class agents respectively.
	VisionRadius      int `toml:"vision_radius"`
	ScoutVisionRadius int `toml:"scout_vision_radius"`
}

// Default returns conservative, always-on tuning — no decision delay, full
// threat-map updates every tick — suitable when no config file is present.
func Default() DifficultyConfig {
	return DifficultyConfig{
		DecisionDelayProbability: 0,
		ThreatMapStaggerInterval: 1,
		ThreatMapEnabled:         true,
		GoblinAvoidRadius:        6,
		VisionRadius:             8,
		ScoutVisionRadius:        14,
	}
}

// Load decodes a DifficultyConfig from a TOML file at path. Missing keys
// retain Default's values since the struct is pre-populated before decode.
func Load(path string) (DifficultyConfig, error) {
	cfg := Default()
	_, err := toml.DecodeFile(path, &cfg)
	return cfg, err
}

// LoadString decodes a DifficultyConfig from a TOML document in memory, used
// by tests that don't want a fixture file on disk.
func LoadString(doc string) (DifficultyConfig, error) {
	cfg := Default()
	_, err := toml.Decode(doc, &cfg)
	return cfg, err
}
