package common

import "github.com/go-gl/mathgl/mgl64"

const (
	// DefaultTickRate is the fixed simulation rate in ticks per second.
	DefaultTickRate = 60

	// AnimationBlendDurationMs is used for every state-driven blend.
	AnimationBlendDurationMs = 500
)

// Gravity is the default world gravity in metres per second squared.
var Gravity = mgl64.Vec3{0, -9.81, 0}

// Up is the world up axis.
var Up = mgl64.Vec3{0, 1, 0}
