package system

import (
	"github.com/milk9111/firstperson/ecs"
	"github.com/milk9111/firstperson/ecs/component"
	"github.com/milk9111/firstperson/physics"
)

// ColliderSyncSystem writes each body's capsule back into the physics world
// so other bodies collide with its current pose and height.
type ColliderSyncSystem struct {
	world *physics.World
}

func NewColliderSyncSystem(world *physics.World) *ColliderSyncSystem {
	return &ColliderSyncSystem{world: world}
}

func (s *ColliderSyncSystem) Update(w *ecs.World, _ ecs.Tick) {
	if s == nil || s.world == nil || w == nil {
		return
	}
	ecs.ForEach2(w,
		component.TransformComponent.Kind(),
		component.CapsuleColliderComponent.Kind(),
		func(e ecs.Entity, t *component.Transform, c *component.CapsuleCollider) {
			solid := c.Shape().Solid(t.Position, t.Rotation)
			if c.Handle == 0 || !s.world.SetSolid(c.Handle, solid) {
				c.Handle = s.world.Insert(physics.Owner(e), solid)
			}
		},
	)
}
