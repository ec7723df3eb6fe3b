package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadCrates loads Crates configuration.
// Search order: customPath -> ~/.boxtop/configs/crates.yaml -> ./configs/crates.yaml -> embedded default
func LoadCrates(customPath string) (CratesConfig, error) {
	var cfg CratesConfig

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("crates.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/crates.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultCratesYAML, &cfg); err != nil {
		return DefaultCratesConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// LoadJuggle loads Juggle configuration.
// Search order: customPath -> ~/.boxtop/configs/juggle.yaml -> ./configs/juggle.yaml -> embedded default
func LoadJuggle(customPath string) (JuggleConfig, error) {
	var cfg JuggleConfig

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("juggle.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/juggle.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultJuggleYAML, &cfg); err != nil {
		return DefaultJuggleConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".boxtop", "configs", filename)
}

// ApplyCratesPreset modifies the config based on a difficulty preset.
func ApplyCratesPreset(cfg *CratesConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	// Adjust gameplay based on difficulty
	switch preset {
	case DifficultyEasy:
		cfg.Round.TickLimit = 5400
		cfg.Crates.DropCooldown = 20
	case DifficultyHard:
		cfg.Round.TickLimit = 2700
		cfg.Crates.Elasticity = 0.25
	}
}

// ApplyJugglePreset modifies the config based on a difficulty preset.
func ApplyJugglePreset(cfg *JuggleConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	// Adjust gameplay based on difficulty
	switch preset {
	case DifficultyEasy:
		cfg.Paddle.Width = 12
		cfg.Gameplay.GraceTicks = 90
	case DifficultyHard:
		cfg.Paddle.Width = 6
		cfg.Balls.PerPoints = 3
	}
}
