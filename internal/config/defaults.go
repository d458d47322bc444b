package config

import (
	_ "embed"
)

//go:embed defaults/flappy.yaml
var defaultFlappyYAML []byte

// DefaultFlappyConfig returns the built-in configuration.
// It mirrors defaults/flappy.yaml and is used when the embedded file cannot be parsed.
func DefaultFlappyConfig() FlappyConfig {
	return FlappyConfig{
		Physics: FlappyPhysics{
			Gravity:     0.5,
			JumpImpulse: -8,
			ScrollSpeed: 3,
		},
		Obstacles: FlappyObstacles{
			Width:            50,
			SpawnIntervalMs:  1500,
			GapSize:          180,
			MinSegmentHeight: 50,
			RemovalMargin:    -60,
		},
		Player: FlappyPlayer{
			X:      50,
			Width:  34,
			Height: 24,
		},
		Collision: FlappyCollision{
			Padding: 5,
		},
		Playfield: FlappyPlayfield{
			Width:  400,
			Height: 600,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultFlappyYAML
}
