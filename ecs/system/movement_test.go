package system

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/firstperson/ecs/component"
	"github.com/stretchr/testify/assert"
)

var up = mgl64.Vec3{0, 1, 0}

func groundStep(v, wish mgl64.Vec3) HorizontalStep {
	return HorizontalStep{
		Velocity:        v,
		Wish:            wish,
		Up:              up,
		Grounded:        true,
		GroundNormal:    up,
		Speed:           4,
		Acceleration:    40,
		AirControlFloor: 0.25,
		Dt:              testDt,
	}
}

func TestIntegrateHorizontalAcceleratesFromRest(t *testing.T) {
	v := IntegrateHorizontal(groundStep(mgl64.Vec3{}, mgl64.Vec3{0, 0, -1}))

	assert.InDelta(t, 40*testDt, v.Len(), 1e-9)
	assert.InDelta(t, -40*testDt, v.Z(), 1e-9)
	assert.InDelta(t, 0, v.Y(), 1e-12)
}

func TestIntegrateHorizontalNeverOvershoots(t *testing.T) {
	v := IntegrateHorizontal(groundStep(mgl64.Vec3{0, 0, -3.9}, mgl64.Vec3{0, 0, -1}))
	assert.Equal(t, mgl64.Vec3{0, 0, -4}, v)

	// no input brakes to a stop
	v = IntegrateHorizontal(groundStep(mgl64.Vec3{0.5, 0, 0}, mgl64.Vec3{}))
	assert.Equal(t, mgl64.Vec3{}, v)
}

func TestIntegrateHorizontalKeepsVerticalComponent(t *testing.T) {
	in := groundStep(mgl64.Vec3{0, -3, 0}, mgl64.Vec3{1, 0, 0})
	in.Grounded = false

	v := IntegrateHorizontal(in)

	assert.Equal(t, -3.0, v.Y())
	assert.Greater(t, v.X(), 0.0)
}

func TestIntegrateHorizontalFollowsSlope(t *testing.T) {
	rad := mgl64.DegToRad(30)
	n := mgl64.Vec3{-math.Sin(rad), math.Cos(rad), 0}
	in := groundStep(mgl64.Vec3{}, mgl64.Vec3{1, 0, 0})
	in.GroundNormal = n

	v := IntegrateHorizontal(in)

	assert.InDelta(t, 0, v.Dot(n), 1e-9, "velocity stays in the ground plane")
	assert.InDelta(t, 40*testDt, v.Len(), 1e-9)
	assert.Greater(t, v.Y(), 0.0, "walking uphill climbs")
}

func TestIntegrateHorizontalAirControl(t *testing.T) {
	air := func(v, wish mgl64.Vec3) HorizontalStep {
		in := groundStep(v, wish)
		in.Grounded = false
		in.Speed = 8
		return in
	}
	maxDelta := 40 * testDt

	along := IntegrateHorizontal(air(mgl64.Vec3{4, 0, 0}, mgl64.Vec3{1, 0, 0}))
	assert.InDelta(t, 4+0.25*maxDelta, along.X(), 1e-9, "already moving that way")

	against := IntegrateHorizontal(air(mgl64.Vec3{4, 0, 0}, mgl64.Vec3{-1, 0, 0}))
	assert.InDelta(t, 4-maxDelta, against.X(), 1e-9, "full control when reversing")
}

func TestApplyJump(t *testing.T) {
	v := ApplyJump(mgl64.Vec3{1, -2, 0}, up, 5)
	assert.InDelta(t, 1, v.X(), 1e-12)
	assert.InDelta(t, 5, v.Y(), 1e-12)
	assert.InDelta(t, 0, v.Z(), 1e-12)

	n := mgl64.Vec3{0.6, 0.8, 0}
	v = ApplyJump(mgl64.Vec3{2, -1, 3}, n, 4)
	assert.InDelta(t, 4, v.Dot(n), 1e-12)
	assert.InDelta(t, 3, v.Z(), 1e-12, "tangential part kept")
}

func TestWishDirection(t *testing.T) {
	body := component.Transform{Rotation: mgl64.QuatIdent()}

	assert.InDelta(t, 0, WishDirection(body, mgl64.Vec2{0, 1}, up).Sub(mgl64.Vec3{0, 0, -1}).Len(), 1e-9)
	assert.InDelta(t, 0, WishDirection(body, mgl64.Vec2{1, 0}, up).Sub(mgl64.Vec3{1, 0, 0}).Len(), 1e-9)
	assert.Equal(t, mgl64.Vec3{}, WishDirection(body, mgl64.Vec2{}, up))

	turned := component.Transform{Rotation: Yaw(mgl64.QuatIdent(), up, math.Pi/2)}
	assert.InDelta(t, 0, WishDirection(turned, mgl64.Vec2{0, 1}, up).Sub(mgl64.Vec3{1, 0, 0}).Len(), 1e-9)
}

func TestClampPitch(t *testing.T) {
	assert.Equal(t, 0.3, ClampPitch(0.3))
	assert.Equal(t, maxPitch, ClampPitch(3))
	assert.Equal(t, -maxPitch, ClampPitch(-3))
}
