package physics

import "github.com/go-gl/mathgl/mgl64"

// Shape is a convex shape that can be swept through the world. Every cast
// shape is a segment inflated by a radius.
type Shape interface {
	Segment(origin mgl64.Vec3, rotation mgl64.Quat) (a, b mgl64.Vec3)
	Margin() float64
}

// Ball is a sphere cast shape.
type Ball struct {
	Radius float64
}

func (b Ball) Segment(origin mgl64.Vec3, _ mgl64.Quat) (mgl64.Vec3, mgl64.Vec3) {
	return origin, origin
}

func (b Ball) Margin() float64 { return b.Radius }

// Capsule is a capsule aligned with the local Y axis. HalfHeight is half the
// length of the inner segment, excluding the end caps.
type Capsule struct {
	HalfHeight float64
	Radius     float64
}

func (c Capsule) Segment(origin mgl64.Vec3, rotation mgl64.Quat) (mgl64.Vec3, mgl64.Vec3) {
	return capsuleSegment(origin, rotation, c.HalfHeight)
}

func (c Capsule) Margin() float64 { return c.Radius }

// Solid returns the capsule placed at center as a world collider.
func (c Capsule) Solid(center mgl64.Vec3, rotation mgl64.Quat) CapsuleSolid {
	return CapsuleSolid{Center: center, Rotation: rotation, HalfHeight: c.HalfHeight, Radius: c.Radius}
}
