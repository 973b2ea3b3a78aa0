package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/firstperson/common"
	"github.com/milk9111/firstperson/config"
	"github.com/milk9111/firstperson/ecs"
	"github.com/milk9111/firstperson/ecs/component"
	"github.com/milk9111/firstperson/physics"
)

// HorizontalStep is the input of IntegrateHorizontal.
type HorizontalStep struct {
	Velocity mgl64.Vec3
	// Wish is the desired direction in the plane perpendicular to Up.
	Wish         mgl64.Vec3
	Up           mgl64.Vec3
	Grounded     bool
	GroundNormal mgl64.Vec3
	Speed        float64
	Acceleration float64
	// AirControlFloor scales airborne acceleration when the body already
	// moves along Wish.
	AirControlFloor float64
	Dt              float64
}

// IntegrateHorizontal splits the velocity along the ground normal (or Up
// when airborne) and moves the tangential part toward Wish*Speed without
// overshooting.
func IntegrateHorizontal(in HorizontalStep) mgl64.Vec3 {
	axis := in.Up
	if in.Grounded && in.GroundNormal != (mgl64.Vec3{}) {
		axis = in.GroundNormal
	}
	vertical := common.ProjectOnto(in.Velocity, axis)
	horizontal := in.Velocity.Sub(vertical)

	dir := common.NormalizeOrZero(in.Wish)
	if in.Grounded {
		dir = common.RotateIntoPlane(dir, in.Up, axis)
	}
	target := dir.Mul(in.Speed)

	maxDelta := in.Acceleration * in.Dt
	if !in.Grounded {
		alignment := common.NormalizeOrZero(horizontal).Dot(dir)
		maxDelta *= common.Lerp(in.AirControlFloor, 1, (1-alignment)/2)
	}

	return vertical.Add(common.MoveTowardVec(horizontal, target, maxDelta))
}

// ApplyJump replaces the velocity component along normal with jumpHeight.
func ApplyJump(velocity, normal mgl64.Vec3, jumpHeight float64) mgl64.Vec3 {
	normal = common.NormalizeOrZero(normal)
	return velocity.Sub(common.ProjectOnto(velocity, normal)).Add(normal.Mul(jumpHeight))
}

// WishDirection maps a (strafe, forward) input onto the plane of the body.
func WishDirection(t component.Transform, move mgl64.Vec2, up mgl64.Vec3) mgl64.Vec3 {
	forward := common.NormalizeOrZero(common.Reject(t.Forward(), up))
	right := common.NormalizeOrZero(common.Reject(t.Right(), up))
	return right.Mul(move.X()).Add(forward.Mul(move.Y()))
}

// MovementIntegrateSystem turns the active state's parameters and the input
// into a velocity, then applies jumps and gravity.
type MovementIntegrateSystem struct {
	cfg config.MotionConfig
}

func NewMovementIntegrateSystem(cfg config.MotionConfig) *MovementIntegrateSystem {
	return &MovementIntegrateSystem{cfg: cfg}
}

func (s *MovementIntegrateSystem) Update(w *ecs.World, tick ecs.Tick) {
	if s == nil || w == nil {
		return
	}
	up := upAxis(s.cfg)
	gravity := s.cfg.GravityVec()

	for _, e := range w.Query(
		component.TransformComponent.Kind(),
		component.VelocityComponent.Kind(),
		component.GroundingComponent.Kind(),
		component.MovementStateMachineComponent.Kind(),
	) {
		t, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		v, _ := ecs.Get(w, e, component.VelocityComponent.Kind())
		g, _ := ecs.Get(w, e, component.GroundingComponent.Kind())
		m, _ := ecs.Get(w, e, component.MovementStateMachineComponent.Kind())

		var input component.Input
		if in, ok := ecs.Get(w, e, component.InputComponent.Kind()); ok {
			input = *in
		}

		v.Linear = IntegrateHorizontal(HorizontalStep{
			Velocity:        v.Linear,
			Wish:            WishDirection(*t, input.Move, up),
			Up:              up,
			Grounded:        g.Grounded,
			GroundNormal:    g.Normal,
			Speed:           m.Speed,
			Acceleration:    m.Acceleration,
			AirControlFloor: s.cfg.AirControlFloor,
			Dt:              tick.Dt,
		})

		if input.JumpPressed && g.Grounded {
			v.Linear = ApplyJump(v.Linear, g.Normal, m.JumpHeight)
		}

		scale := 1.0
		if gs, ok := ecs.Get(w, e, component.GravityScaleComponent.Kind()); ok {
			scale = gs.Scale
		}
		v.Linear = v.Linear.Add(gravity.Mul(scale * tick.Dt))
	}
}

// CharacterMotionSystem moves every body by its velocity through
// CollideAndSlide.
type CharacterMotionSystem struct {
	caster physics.Caster
	cfg    config.MotionConfig
}

func NewCharacterMotionSystem(caster physics.Caster, cfg config.MotionConfig) *CharacterMotionSystem {
	return &CharacterMotionSystem{caster: caster, cfg: cfg}
}

func (s *CharacterMotionSystem) Update(w *ecs.World, tick ecs.Tick) {
	if s == nil || s.caster == nil || w == nil || tick.Dt <= 0 {
		return
	}

	ecs.ForEach3(w,
		component.TransformComponent.Kind(),
		component.VelocityComponent.Kind(),
		component.CapsuleColliderComponent.Kind(),
		func(e ecs.Entity, t *component.Transform, v *component.Velocity, c *component.CapsuleCollider) {
			res := CollideAndSlide(
				s.caster,
				t.Position,
				t.Rotation,
				c.Shape(),
				physics.Owner(e),
				v.Linear.Mul(tick.Dt),
				s.cfg.SkinWidth,
				s.cfg.MaxSlideDepth,
			)
			t.Position = t.Position.Add(res.Displacement)
			if res.Collided {
				v.Linear = res.Displacement.Mul(1 / tick.Dt)
			}
		},
	)
}
