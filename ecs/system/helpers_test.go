package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/firstperson/config"
	"github.com/milk9111/firstperson/ecs"
	"github.com/milk9111/firstperson/ecs/component"
	"github.com/milk9111/firstperson/physics"
)

const testDt = 1.0 / 60.0

// restY is the body centre height when resting on a floor at y=0.
const restY = 0.5 + 0.35 + 0.02

func testParams() component.MovementParams {
	return component.MovementParams{
		WalkSpeed:         4,
		RunSpeed:          8,
		CrouchSpeed:       2,
		FallSpeed:         4,
		StandAcceleration: 40,
		FallAcceleration:  10,
		StandJumpHeight:   5,
		CrouchJumpHeight:  3,
		StandHalfHeight:   0.5,
		CrouchHalfHeight:  0.15,
		HeightTransition:  0.2,
		Radius:            0.35,
		EyeFraction:       0.9,
	}
}

func testMotion() config.MotionConfig {
	return config.DefaultMotion()
}

func floorWorld() *physics.World {
	pw := physics.NewWorld()
	pw.Insert(0, physics.NewHalfSpace(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{}))
	return pw
}

type testBody struct {
	Body ecs.Entity
	Head ecs.Entity
}

// spawnTestBody assembles a character by hand the way the prefab builder
// does, without touching prefab files.
func spawnTestBody(w *ecs.World, pw *physics.World, pos mgl64.Vec3, controlled bool) testBody {
	params := testParams()
	body := ecs.CreateEntity(w)
	t := &component.Transform{Position: pos, Rotation: mgl64.QuatIdent()}
	capsule := &component.CapsuleCollider{HalfHeight: params.StandHalfHeight, Radius: params.Radius}
	capsule.Handle = pw.Insert(physics.Owner(body), capsule.Shape().Solid(pos, t.Rotation))

	_ = ecs.Add(w, body, component.TransformComponent.Kind(), t)
	_ = ecs.Add(w, body, component.VelocityComponent.Kind(), &component.Velocity{})
	_ = ecs.Add(w, body, component.CapsuleColliderComponent.Kind(), capsule)
	_ = ecs.Add(w, body, component.MovementParamsComponent.Kind(), &params)
	_ = ecs.Add(w, body, component.GroundingComponent.Kind(), &component.Grounding{CanStandUp: true})
	_ = ecs.Add(w, body, component.GravityScaleComponent.Kind(), &component.GravityScale{Scale: 1})
	_ = ecs.Add(w, body, component.MovementStateMachineComponent.Kind(), &component.MovementStateMachine{})
	_ = ecs.Add(w, body, component.InputComponent.Kind(), &component.Input{})
	_ = ecs.Add(w, body, component.AnimationBlendComponent.Kind(), component.NewAnimationBlend(component.TrackWalk, component.TrackRun))
	if controlled {
		_ = ecs.Add(w, body, component.ControlledTagComponent.Kind(), &component.ControlledTag{})
	}

	head := ecs.CreateEntity(w)
	_ = ecs.Add(w, head, component.HeadComponent.Kind(), &component.Head{Offset: mgl64.Vec3{0, 0.68, 0}})
	_ = ecs.Add(w, head, component.TransformComponent.Kind(), &component.Transform{Position: pos, Rotation: mgl64.QuatIdent()})
	up := ecs.CreateEntity(w)
	_ = ecs.Add(w, up, component.CastProbeComponent.Kind(), &component.CastProbe{})
	down := ecs.CreateEntity(w)
	_ = ecs.Add(w, down, component.CastProbeComponent.Kind(), &component.CastProbe{})

	_ = ecs.Add(w, body, component.RigComponent.Kind(), &component.Rig{
		Head:      uint64(head),
		UpProbe:   uint64(up),
		DownProbe: uint64(down),
	})
	return testBody{Body: body, Head: head}
}

func mustGet[T any](w *ecs.World, e ecs.Entity, h component.ComponentHandle[T]) *T {
	v, ok := ecs.Get(w, e, h.Kind())
	if !ok {
		panic("missing component")
	}
	return v
}

// probeFixture is a standalone body for calling Probe and Step directly.
type probeFixture struct {
	transform component.Transform
	velocity  component.Velocity
	capsule   component.CapsuleCollider
	params    component.MovementParams
	grounding component.Grounding
	gravity   component.GravityScale
	head      component.Head
	up, down  component.CastProbe
}

func newProbeFixture(pos mgl64.Vec3) *probeFixture {
	p := testParams()
	return &probeFixture{
		transform: component.Transform{Position: pos, Rotation: mgl64.QuatIdent()},
		capsule:   component.CapsuleCollider{HalfHeight: p.StandHalfHeight, Radius: p.Radius},
		params:    p,
		grounding: component.Grounding{CanStandUp: true},
		gravity:   component.GravityScale{Scale: 1},
		head:      component.Head{Offset: mgl64.Vec3{0, 0.68, 0}},
	}
}

func (f *probeFixture) probeBody() ProbeBody {
	return ProbeBody{
		Owner:     1,
		Transform: &f.transform,
		Velocity:  &f.velocity,
		Capsule:   &f.capsule,
		Params:    &f.params,
		Grounding: &f.grounding,
		Gravity:   &f.gravity,
		Up:        &f.up,
		Down:      &f.down,
	}
}

func (f *probeFixture) heightBody() HeightBody {
	return HeightBody{
		Transform: &f.transform,
		Capsule:   &f.capsule,
		Params:    &f.params,
		Grounding: &f.grounding,
		Head:      &f.head,
		Up:        &f.up,
	}
}
