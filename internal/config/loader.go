package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// LoadFlappy loads the game configuration.
// Search order: customPath -> ~/.flapper/configs/flappy.yaml -> ./configs/flappy.yaml -> embedded default
func LoadFlappy(customPath string) (FlappyConfig, error) {
	// Start from defaults so partial files only override what they set
	cfg := DefaultFlappyConfig()

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	if userCfgPath := userConfigPath("flappy.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, cfg.Validate()
			}
		}
	}

	if data, err := os.ReadFile(filepath.Join("configs", "flappy.yaml")); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, cfg.Validate()
		}
	}

	if err := yaml.Unmarshal(defaultFlappyYAML, &cfg); err != nil {
		return DefaultFlappyConfig(), nil
	}
	return cfg, cfg.Validate()
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".flapper", "configs", filename)
}

// Validate reports the first constant that makes the game unplayable.
func (c FlappyConfig) Validate() error {
	switch {
	case c.Playfield.Width <= 0 || c.Playfield.Height <= 0:
		return fmt.Errorf("config: playfield must be positive, got %vx%v: %w",
			c.Playfield.Width, c.Playfield.Height, ErrInvalid)
	case c.Physics.Gravity <= 0:
		return fmt.Errorf("config: gravity must be positive, got %v: %w", c.Physics.Gravity, ErrInvalid)
	case c.Physics.JumpImpulse >= 0:
		return fmt.Errorf("config: jump_impulse must be negative, got %v: %w", c.Physics.JumpImpulse, ErrInvalid)
	case c.Physics.ScrollSpeed <= 0:
		return fmt.Errorf("config: scroll_speed must be positive, got %v: %w", c.Physics.ScrollSpeed, ErrInvalid)
	case c.Obstacles.Width <= 0:
		return fmt.Errorf("config: obstacle width must be positive, got %v: %w", c.Obstacles.Width, ErrInvalid)
	case c.Obstacles.SpawnIntervalMs <= 0:
		return fmt.Errorf("config: spawn_interval_ms must be positive, got %v: %w",
			c.Obstacles.SpawnIntervalMs, ErrInvalid)
	case c.Obstacles.GapSize <= 0:
		return fmt.Errorf("config: gap_size must be positive, got %v: %w", c.Obstacles.GapSize, ErrInvalid)
	case c.Obstacles.MinSegmentHeight < 0:
		return fmt.Errorf("config: min_segment_height must not be negative, got %v: %w",
			c.Obstacles.MinSegmentHeight, ErrInvalid)
	case c.Obstacles.GapSize+2*c.Obstacles.MinSegmentHeight > c.Playfield.Height:
		return fmt.Errorf("config: gap_size %v plus two segments of %v exceed playfield height %v: %w",
			c.Obstacles.GapSize, c.Obstacles.MinSegmentHeight, c.Playfield.Height, ErrInvalid)
	case c.Obstacles.RemovalMargin > 0:
		return fmt.Errorf("config: removal_margin must not be positive, got %v: %w",
			c.Obstacles.RemovalMargin, ErrInvalid)
	case c.Player.Width <= 0 || c.Player.Height <= 0:
		return fmt.Errorf("config: player hitbox must be positive: %w", ErrInvalid)
	case c.Player.Height >= c.Playfield.Height:
		return fmt.Errorf("config: player height %v does not fit playfield: %w", c.Player.Height, ErrInvalid)
	case c.Collision.Padding < 0 || 2*c.Collision.Padding >= c.Player.Width || 2*c.Collision.Padding >= c.Player.Height:
		return fmt.Errorf("config: collision padding %v must be non-negative and smaller than half the hitbox: %w",
			c.Collision.Padding, ErrInvalid)
	}
	return nil
}

// ApplyFlappyPreset tunes the config for a named preset.
// Presets only change constants; there is no progression during a run.
func ApplyFlappyPreset(cfg *FlappyConfig, preset Preset) {
	switch preset {
	case PresetEasy:
		cfg.Obstacles.GapSize = 220
		cfg.Physics.ScrollSpeed = 2.5
		cfg.Obstacles.SpawnIntervalMs = 1700
	case PresetHard:
		cfg.Obstacles.GapSize = 150
		cfg.Physics.ScrollSpeed = 3.5
		cfg.Obstacles.SpawnIntervalMs = 1300
	}
}

// Marshal renders the config as YAML.
func Marshal(cfg FlappyConfig) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("config: failed to encode: %w", err)
	}
	return data, nil
}
