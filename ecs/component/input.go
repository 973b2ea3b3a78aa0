package component

import "github.com/go-gl/mathgl/mgl64"

// Input is the per-tick intent of a character. Move is (strafe, forward)
// in [-1, 1]; Look is a yaw/pitch delta in radians.
type Input struct {
	Move        mgl64.Vec2
	Look        mgl64.Vec2
	Running     bool
	Crouching   bool
	Jump        bool
	JumpPressed bool
}

var InputComponent = NewComponent[Input]()
