package component

import "github.com/go-gl/mathgl/mgl64"

// Grounding is rebuilt by the ground probe every tick. Normal is only
// meaningful while Grounded.
type Grounding struct {
	Grounded   bool
	Normal     mgl64.Vec3
	Gap        float64
	CanStandUp bool
	Snapped    bool
}

var GroundingComponent = NewComponent[Grounding]()
