// Package config provides YAML-based game configuration loading and
// difficulty management for the boxtop platform.
package config

// CratesConfig contains all configuration for the Crates stacking game.
type CratesConfig struct {
	Physics    CratesPhysics    `yaml:"physics"`
	Crates     CrateParams      `yaml:"crates"`
	Player     CratesPlayer     `yaml:"player"`
	Round      CratesRound      `yaml:"round"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// CratesPhysics defines per-tick physics parameters for Crates.
// World y points up, so gravity is negative.
type CratesPhysics struct {
	Gravity      float64 `yaml:"gravity"`
	MoveSpeed    float64 `yaml:"move_speed"`
	JumpImpulse  float64 `yaml:"jump_impulse"`
	MaxFallSpeed float64 `yaml:"max_fall_speed"`
}

// CrateParams defines the bodies spawned by the drop action.
type CrateParams struct {
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	Mass         float64 `yaml:"mass"`
	Elasticity   float64 `yaml:"elasticity"`
	Friction     float64 `yaml:"friction"`
	MaxActive    int     `yaml:"max_active"`
	DropCooldown int     `yaml:"drop_cooldown"` // Ticks between drops
}

// CratesPlayer defines the player body for Crates.
type CratesPlayer struct {
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	Mass        float64 `yaml:"mass"`
	Friction    float64 `yaml:"friction"`
	CoyoteTicks int     `yaml:"coyote_ticks"` // Jump grace window after leaving ground
}

// CratesRound defines round length and scoring for Crates.
type CratesRound struct {
	TickLimit        int `yaml:"tick_limit"`
	HeightMultiplier int `yaml:"height_multiplier"` // Points per row of stacked crates
}

// JuggleConfig contains all configuration for the Juggle game.
type JuggleConfig struct {
	Physics    JugglePhysics    `yaml:"physics"`
	Paddle     JugglePaddle     `yaml:"paddle"`
	Balls      JuggleBalls      `yaml:"balls"`
	Gameplay   JuggleGameplay   `yaml:"gameplay"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// JugglePhysics defines per-tick physics parameters for Juggle.
type JugglePhysics struct {
	Gravity      float64 `yaml:"gravity"`
	PaddleSpeed  float64 `yaml:"paddle_speed"`
	DropSpeed    float64 `yaml:"drop_speed"` // Initial downward speed of a served ball
	MaxBallSpeed float64 `yaml:"max_ball_speed"`
}

// JugglePaddle defines the player paddle for Juggle.
type JugglePaddle struct {
	Width      int     `yaml:"width"`
	Height     float64 `yaml:"height"`
	Elasticity float64 `yaml:"elasticity"`
	Friction   float64 `yaml:"friction"`
}

// JuggleBalls defines the balls juggled by the paddle.
type JuggleBalls struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	Mass       float64 `yaml:"mass"`
	Elasticity float64 `yaml:"elasticity"`
	Friction   float64 `yaml:"friction"`
	Initial    int     `yaml:"initial"`    // Balls in play at round start
	PerPoints  int     `yaml:"per_points"` // Add a ball every N points
	MaxActive  int     `yaml:"max_active"`
}

// JuggleGameplay defines round rules for Juggle.
type JuggleGameplay struct {
	GraceTicks int `yaml:"grace_ticks"` // Floor-rest ticks before a ball is lost
	ServeDelay int `yaml:"serve_delay"` // Ticks before a replacement ball is served
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Multiplier added to speeds at max difficulty
	ExtraBalls      int     `yaml:"extra_balls"`      // Balls added by max difficulty
	PaddleShrink    int     `yaml:"paddle_shrink"`    // Paddle width reduction at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
