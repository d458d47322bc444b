// Package config provides YAML-based game configuration loading and
// startup presets for flapper.
package config

// FlappyConfig contains all simulation constants.
// Values are fixed once a session is created.
type FlappyConfig struct {
	Physics   FlappyPhysics   `yaml:"physics"`
	Obstacles FlappyObstacles `yaml:"obstacles"`
	Player    FlappyPlayer    `yaml:"player"`
	Collision FlappyCollision `yaml:"collision"`
	Playfield FlappyPlayfield `yaml:"playfield"`
}

// FlappyPhysics defines per-tick physics parameters.
type FlappyPhysics struct {
	Gravity     float64 `yaml:"gravity"`
	JumpImpulse float64 `yaml:"jump_impulse"`
	ScrollSpeed float64 `yaml:"scroll_speed"`
}

// FlappyObstacles defines obstacle spawning and pruning parameters.
type FlappyObstacles struct {
	Width            float64 `yaml:"width"`
	SpawnIntervalMs  float64 `yaml:"spawn_interval_ms"`
	GapSize          float64 `yaml:"gap_size"`
	MinSegmentHeight float64 `yaml:"min_segment_height"`
	RemovalMargin    float64 `yaml:"removal_margin"`
}

// FlappyPlayer defines the player's fixed column and hitbox.
type FlappyPlayer struct {
	X      float64 `yaml:"x"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// FlappyCollision defines hit detection tolerances.
type FlappyCollision struct {
	Padding float64 `yaml:"padding"`
}

// FlappyPlayfield defines the visible area in world units.
type FlappyPlayfield struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Preset represents a named startup tuning.
type Preset string

const (
	PresetEasy   Preset = "easy"
	PresetNormal Preset = "normal"
	PresetHard   Preset = "hard"
)

// ParsePreset converts a CLI string to a Preset.
// The empty string and unknown names yield "" (keep config values).
func ParsePreset(s string) Preset {
	switch Preset(s) {
	case PresetEasy, PresetNormal, PresetHard:
		return Preset(s)
	default:
		return ""
	}
}
