package component

import "github.com/go-gl/mathgl/mgl64"

type Velocity struct {
	Linear mgl64.Vec3
}

var VelocityComponent = NewComponent[Velocity]()
