package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/firstperson/config"
	"github.com/milk9111/firstperson/ecs"
	"github.com/milk9111/firstperson/ecs/component"
)

// maxPitch keeps the view just short of straight up or down.
const maxPitch = math.Pi/2 - 0.01

// LookSystem applies look deltas: yaw turns the body, pitch tilts the head.
type LookSystem struct {
	cfg config.MotionConfig
}

func NewLookSystem(cfg config.MotionConfig) *LookSystem {
	return &LookSystem{cfg: cfg}
}

func (s *LookSystem) Update(w *ecs.World, _ ecs.Tick) {
	if s == nil || w == nil {
		return
	}
	up := upAxis(s.cfg)

	ecs.ForEach3(w,
		component.InputComponent.Kind(),
		component.TransformComponent.Kind(),
		component.RigComponent.Kind(),
		func(e ecs.Entity, input *component.Input, t *component.Transform, rig *component.Rig) {
			if input.Look == (mgl64.Vec2{}) {
				return
			}
			t.Rotation = Yaw(t.Rotation, up, input.Look.X())

			if head, ok := ecs.Get(w, ecs.Entity(rig.Head), component.HeadComponent.Kind()); ok {
				head.Pitch = ClampPitch(head.Pitch - input.Look.Y())
			}
		},
	)
}

// Yaw turns rotation about up; positive deltas turn right.
func Yaw(rotation mgl64.Quat, up mgl64.Vec3, delta float64) mgl64.Quat {
	if rotation.Len() == 0 {
		rotation = mgl64.QuatIdent()
	}
	return mgl64.QuatRotate(-delta, up).Mul(rotation).Normalize()
}

func ClampPitch(pitch float64) float64 {
	return mgl64.Clamp(pitch, -maxPitch, maxPitch)
}
