package config

import (
	_ "embed"
)

//go:embed defaults/crates.yaml
var defaultCratesYAML []byte

//go:embed defaults/juggle.yaml
var defaultJuggleYAML []byte

// DefaultCratesConfig returns the default Crates configuration.
func DefaultCratesConfig() CratesConfig {
	return CratesConfig{
		Physics: CratesPhysics{
			Gravity:      -0.125,
			MoveSpeed:    0.75,
			JumpImpulse:  1.75,
			MaxFallSpeed: 2.5,
		},
		Crates: CrateParams{
			Width:        4,
			Height:       2,
			Mass:         4,
			Elasticity:   0,
			Friction:     0.5,
			MaxActive:    12,
			DropCooldown: 30,
		},
		Player: CratesPlayer{
			Width:       3,
			Height:      2,
			Mass:        1,
			Friction:    0.25,
			CoyoteTicks: 4,
		},
		Round: CratesRound{
			TickLimit:        3600, // 2 minutes at 30 fps
			HeightMultiplier: 10,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "time",
				MaxAt: 3600,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 0.5,
				ExtraBalls:      0,
				PaddleShrink:    0,
			},
		},
	}
}

// DefaultJuggleConfig returns the default Juggle configuration.
func DefaultJuggleConfig() JuggleConfig {
	return JuggleConfig{
		Physics: JugglePhysics{
			Gravity:      -0.0625,
			PaddleSpeed:  1.25,
			DropSpeed:    0.5,
			MaxBallSpeed: 2.0,
		},
		Paddle: JugglePaddle{
			Width:      8,
			Height:     1,
			Elasticity: 1.0,
			Friction:   0.5,
		},
		Balls: JuggleBalls{
			Width:      2,
			Height:     1,
			Mass:       1,
			Elasticity: 1.0,
			Friction:   0.25,
			Initial:    1,
			PerPoints:  5,
			MaxActive:  4,
		},
		Gameplay: JuggleGameplay{
			GraceTicks: 45,
			ServeDelay: 30,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 30,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 0.5,
				ExtraBalls:      2,
				PaddleShrink:    3,
			},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "crates":
		return defaultCratesYAML
	case "juggle":
		return defaultJuggleYAML
	default:
		return nil
	}
}
