package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/firstperson/ecs"
	"github.com/milk9111/firstperson/ecs/component"
)

// HeadPoseSystem places each head at its body position plus offset, turned
// by the body yaw and its own pitch.
type HeadPoseSystem struct{}

func NewHeadPoseSystem() *HeadPoseSystem {
	return &HeadPoseSystem{}
}

func (s *HeadPoseSystem) Update(w *ecs.World, _ ecs.Tick) {
	if w == nil {
		return
	}
	ecs.ForEach2(w,
		component.TransformComponent.Kind(),
		component.RigComponent.Kind(),
		func(e ecs.Entity, body *component.Transform, rig *component.Rig) {
			head, ok := ecs.Get(w, ecs.Entity(rig.Head), component.HeadComponent.Kind())
			if !ok {
				return
			}
			ht, ok := ecs.Get(w, ecs.Entity(rig.Head), component.TransformComponent.Kind())
			if !ok {
				return
			}
			yaw := body.Rotation
			if yaw.Len() == 0 {
				yaw = mgl64.QuatIdent()
			}
			ht.Position = body.Position.Add(head.Offset)
			ht.Rotation = yaw.Mul(mgl64.QuatRotate(head.Pitch, mgl64.Vec3{1, 0, 0}))
		},
	)
}
