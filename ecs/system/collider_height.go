package system

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/firstperson/config"
	"github.com/milk9111/firstperson/ecs"
	"github.com/milk9111/firstperson/ecs/component"
)

// ColliderHeightSystem moves each capsule toward its crouch or stand height.
type ColliderHeightSystem struct {
	cfg config.MotionConfig
}

func NewColliderHeightSystem(cfg config.MotionConfig) *ColliderHeightSystem {
	return &ColliderHeightSystem{cfg: cfg}
}

// HeightBody groups the components a height transition touches.
type HeightBody struct {
	Transform *component.Transform
	Capsule   *component.CapsuleCollider
	Params    *component.MovementParams
	Grounding *component.Grounding
	Head      *component.Head
	Up        *component.CastProbe
}

func (s *ColliderHeightSystem) Update(w *ecs.World, tick ecs.Tick) {
	if s == nil || w == nil {
		return
	}

	for _, e := range w.Query(
		component.TransformComponent.Kind(),
		component.CapsuleColliderComponent.Kind(),
		component.MovementParamsComponent.Kind(),
		component.GroundingComponent.Kind(),
		component.RigComponent.Kind(),
	) {
		body := HeightBody{}
		body.Transform, _ = ecs.Get(w, e, component.TransformComponent.Kind())
		body.Capsule, _ = ecs.Get(w, e, component.CapsuleColliderComponent.Kind())
		body.Params, _ = ecs.Get(w, e, component.MovementParamsComponent.Kind())
		body.Grounding, _ = ecs.Get(w, e, component.GroundingComponent.Kind())

		rig, _ := ecs.Get(w, e, component.RigComponent.Kind())
		head, ok := ecs.Get(w, ecs.Entity(rig.Head), component.HeadComponent.Kind())
		if !ok {
			panic(fmt.Sprintf("collider height: body %d lost head entity %d", e, rig.Head))
		}
		body.Head = head
		body.Up = mustProbe(w, e, rig.UpProbe)

		crouch := false
		if input, ok := ecs.Get(w, e, component.InputComponent.Kind()); ok {
			crouch = input.Crouching
		}
		if m, ok := ecs.Get(w, e, component.MovementStateMachineComponent.Kind()); ok {
			crouch = crouch || m.Crouch
		}

		s.Step(body, crouch, tick.Dt)
	}
}

// Step advances one body by a single tick and returns the applied height
// delta.
func (s *ColliderHeightSystem) Step(b HeightBody, crouch bool, dt float64) float64 {
	p := b.Params
	c := b.Capsule
	current := c.HalfHeight

	target := current
	switch {
	case crouch:
		target = p.CrouchHalfHeight
	case b.Grounding.CanStandUp:
		target = p.StandHalfHeight
	}

	diff := target - current
	if math.Abs(diff) < s.cfg.HeightEpsilon {
		return 0
	}

	step := math.Inf(1)
	if p.HeightTransition > 0 {
		step = (p.StandHalfHeight - p.CrouchHalfHeight) * dt / p.HeightTransition
	}

	next := target
	if math.Abs(diff) > step {
		next = current + math.Copysign(step, diff)
	}
	next = mgl64.Clamp(next, p.CrouchHalfHeight, p.StandHalfHeight)
	delta := next - current
	if delta == 0 {
		return 0
	}

	c.HalfHeight = next
	up := upAxis(s.cfg)
	b.Head.Offset = b.Head.Offset.Add(up.Mul(delta))

	switch {
	case b.Grounding.Grounded:
		// feet stay planted
		b.Transform.Position = b.Transform.Position.Add(up.Mul(delta))
	case delta > 0 && s.ceilingWithin(b, delta):
		// grow downward, away from the ceiling
		b.Transform.Position = b.Transform.Position.Sub(up.Mul(delta))
	}
	return delta
}

// ceilingWithin reports whether the ceiling above the capsule top is closer
// than growth.
func (s *ColliderHeightSystem) ceilingWithin(b HeightBody, growth float64) bool {
	dist, ok := b.Up.Distance()
	if !ok {
		return false
	}
	clearance := dist - (b.Capsule.HalfHeight - growth) - s.cfg.SkinWidth
	return clearance < growth
}
