package component

import "github.com/go-gl/mathgl/mgl64"

// Head is the view anchor of a character. Offset is relative to the body
// position and co-varies with the collider half-height.
type Head struct {
	Offset mgl64.Vec3
	Pitch  float64
}

var HeadComponent = NewComponent[Head]()
