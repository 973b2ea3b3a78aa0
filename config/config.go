// Package config handles simulation configuration loading and management.
package config

import "github.com/go-gl/mathgl/mgl64"

// Config holds all runtime settings.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Motion     MotionConfig     `yaml:"motion"`
	Input      InputConfig      `yaml:"input"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// SimulationConfig controls the fixed-timestep loop.
type SimulationConfig struct {
	TickRate         int    `yaml:"tick_rate"`
	MaxTicksPerFrame int    `yaml:"max_ticks_per_frame"`
	Level            string `yaml:"level"`
	WatchPrefabs     bool   `yaml:"watch_prefabs"`
}

// MotionConfig holds the tunables shared by every controlled body.
type MotionConfig struct {
	Gravity [3]float64 `yaml:"gravity"`

	// SkinWidth is the buffer kept between a collider and any surface.
	SkinWidth float64 `yaml:"skin_width"`
	// SurfaceGap is how far above the skin a body still counts as grounded.
	SurfaceGap float64 `yaml:"surface_gap"`
	// MaxSlopeDegrees is the steepest surface that counts as ground.
	MaxSlopeDegrees float64 `yaml:"max_slope_degrees"`
	// SnapWindow is the time over which the ground gap is closed. Tunable,
	// not derived from anything physical.
	SnapWindow float64 `yaml:"snap_window"`

	HeightEpsilon float64 `yaml:"height_epsilon"`
	SpeedEpsilon  float64 `yaml:"speed_epsilon"`
	MaxSlideDepth int     `yaml:"max_slide_depth"`

	// AirControlFloor is the acceleration factor applied in the air when the
	// body already moves in the desired direction.
	AirControlFloor float64 `yaml:"air_control_floor"`
}

// InputConfig holds device binding settings.
type InputConfig struct {
	MouseSensitivity float64 `yaml:"mouse_sensitivity"`
	StickSensitivity float64 `yaml:"stick_sensitivity"`
	StickDeadzone    float64 `yaml:"stick_deadzone"`
	InvertY          bool    `yaml:"invert_y"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			TickRate:         60,
			MaxTicksPerFrame: 4,
			Level:            "levels/arena.yaml",
		},
		Motion: DefaultMotion(),
		Input: InputConfig{
			MouseSensitivity: 0.0025,
			StickSensitivity: 0.05,
			StickDeadzone:    0.2,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultMotion returns the default movement tunables.
func DefaultMotion() MotionConfig {
	return MotionConfig{
		Gravity:         [3]float64{0, -9.81, 0},
		SkinWidth:       0.02,
		SurfaceGap:      0.05,
		MaxSlopeDegrees: 47.4,
		SnapWindow:      0.5,
		HeightEpsilon:   1e-4,
		SpeedEpsilon:    0.05,
		MaxSlideDepth:   5,
		AirControlFloor: 0.25,
	}
}

// Dt returns the fixed timestep in seconds.
func (s SimulationConfig) Dt() float64 {
	if s.TickRate <= 0 {
		return 1.0 / 60.0
	}
	return 1.0 / float64(s.TickRate)
}

// GravityVec returns the gravity acceleration as a vector.
func (m MotionConfig) GravityVec() mgl64.Vec3 {
	return mgl64.Vec3{m.Gravity[0], m.Gravity[1], m.Gravity[2]}
}

// MaxSlope returns the max slope in radians.
func (m MotionConfig) MaxSlope() float64 {
	return mgl64.DegToRad(m.MaxSlopeDegrees)
}
