package component

import "github.com/milk9111/firstperson/physics"

// CapsuleCollider is the vertical capsule of a character body. HalfHeight
// is half the length of the inner segment and never negative; the radius
// is fixed per archetype.
type CapsuleCollider struct {
	HalfHeight float64
	Radius     float64
	Handle     physics.ColliderHandle
}

func (c CapsuleCollider) Shape() physics.Capsule {
	return physics.Capsule{HalfHeight: c.HalfHeight, Radius: c.Radius}
}

var CapsuleColliderComponent = NewComponent[CapsuleCollider]()
