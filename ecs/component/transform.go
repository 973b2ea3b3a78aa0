package component

import "github.com/go-gl/mathgl/mgl64"

// Transform is a world-space pose. Bodies carry yaw only; pitch lives on
// the head.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// Forward is the -Z axis of the pose.
func (t Transform) Forward() mgl64.Vec3 {
	return t.rotation().Rotate(mgl64.Vec3{0, 0, -1})
}

func (t Transform) Right() mgl64.Vec3 {
	return t.rotation().Rotate(mgl64.Vec3{1, 0, 0})
}

func (t Transform) rotation() mgl64.Quat {
	if t.Rotation.Len() == 0 {
		return mgl64.QuatIdent()
	}
	return t.Rotation
}

var TransformComponent = NewComponent[Transform]()
