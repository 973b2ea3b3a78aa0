package system

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/firstperson/physics"
	"github.com/stretchr/testify/assert"
)

func TestHeightStepCrouchesOverTransitionTime(t *testing.T) {
	s := NewColliderHeightSystem(testMotion())
	f := newProbeFixture(mgl64.Vec3{0, restY, 0})
	f.grounding.Grounded = true
	headStart := f.head.Offset.Y()

	p := f.params
	maxStep := (p.StandHalfHeight - p.CrouchHalfHeight) * testDt / p.HeightTransition
	ticks := int(p.HeightTransition/testDt + 0.5)

	for i := 0; i < ticks; i++ {
		delta := s.Step(f.heightBody(), true, testDt)
		assert.LessOrEqual(t, -delta, maxStep+1e-12, "tick %d", i)
		assert.LessOrEqual(t, delta, 0.0, "tick %d", i)
		assert.GreaterOrEqual(t, f.capsule.HalfHeight, p.CrouchHalfHeight)
		assert.LessOrEqual(t, f.capsule.HalfHeight, p.StandHalfHeight)
	}

	assert.InDelta(t, p.CrouchHalfHeight, f.capsule.HalfHeight, 1e-9)
	assert.InDelta(t, headStart-0.35, f.head.Offset.Y(), 1e-9)
	assert.InDelta(t, restY-0.35, f.transform.Position.Y(), 1e-9, "feet stay planted")
}

func TestHeightStepStaysCrouchedUnderCeiling(t *testing.T) {
	s := NewColliderHeightSystem(testMotion())
	f := newProbeFixture(mgl64.Vec3{0, 0.52, 0})
	f.capsule.HalfHeight = f.params.CrouchHalfHeight
	f.grounding.Grounded = true
	f.grounding.CanStandUp = false

	for i := 0; i < 30; i++ {
		assert.Zero(t, s.Step(f.heightBody(), false, testDt))
	}
	assert.Equal(t, f.params.CrouchHalfHeight, f.capsule.HalfHeight)
}

func TestHeightStepStandsWhenClear(t *testing.T) {
	s := NewColliderHeightSystem(testMotion())
	f := newProbeFixture(mgl64.Vec3{0, 0.52, 0})
	f.capsule.HalfHeight = f.params.CrouchHalfHeight
	f.grounding.Grounded = true

	for i := 0; i < 20; i++ {
		s.Step(f.heightBody(), false, testDt)
	}
	assert.InDelta(t, f.params.StandHalfHeight, f.capsule.HalfHeight, 1e-9)
	assert.InDelta(t, 0.87, f.transform.Position.Y(), 1e-9)
}

func TestHeightStepIgnoresDifferenceBelowEpsilon(t *testing.T) {
	cfg := testMotion()
	s := NewColliderHeightSystem(cfg)
	f := newProbeFixture(mgl64.Vec3{0, restY, 0})
	f.capsule.HalfHeight = f.params.StandHalfHeight - cfg.HeightEpsilon/2

	assert.Zero(t, s.Step(f.heightBody(), false, testDt))
	assert.Equal(t, f.params.StandHalfHeight-cfg.HeightEpsilon/2, f.capsule.HalfHeight)
}

func TestHeightStepAirborneGrowthAvoidsCeiling(t *testing.T) {
	s := NewColliderHeightSystem(testMotion())

	blocked := newProbeFixture(mgl64.Vec3{0, 2, 0})
	blocked.capsule.HalfHeight = blocked.params.CrouchHalfHeight
	blocked.up.Store(physics.Hit{Distance: 0.16, Normal: mgl64.Vec3{0, -1, 0}}, true)

	delta := s.Step(blocked.heightBody(), false, testDt)
	assert.Greater(t, delta, 0.0)
	assert.InDelta(t, 2-delta, blocked.transform.Position.Y(), 1e-12, "grows downward")

	open := newProbeFixture(mgl64.Vec3{0, 2, 0})
	open.capsule.HalfHeight = open.params.CrouchHalfHeight

	delta = s.Step(open.heightBody(), false, testDt)
	assert.Greater(t, delta, 0.0)
	assert.Equal(t, 2.0, open.transform.Position.Y(), "grows around the centre")
}
