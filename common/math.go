package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the length below which a vector is treated as zero.
const Epsilon = 1e-9

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// MoveToward moves current toward target by at most maxDelta.
func MoveToward(current, target, maxDelta float64) float64 {
	if math.Abs(target-current) <= maxDelta {
		return target
	}
	if target > current {
		return current + maxDelta
	}
	return current - maxDelta
}

// MoveTowardVec moves current toward target by at most maxDelta, never
// overshooting the target.
func MoveTowardVec(current, target mgl64.Vec3, maxDelta float64) mgl64.Vec3 {
	diff := target.Sub(current)
	dist := diff.Len()
	if dist <= maxDelta || dist < Epsilon {
		return target
	}
	return current.Add(diff.Mul(maxDelta / dist))
}

// NormalizeOrZero returns v scaled to unit length, or the zero vector when v
// is degenerate.
func NormalizeOrZero(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < Epsilon || math.IsNaN(l) || math.IsInf(l, 0) {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// ProjectOnto returns the component of v along n. n does not need to be unit
// length.
func ProjectOnto(v, n mgl64.Vec3) mgl64.Vec3 {
	n = NormalizeOrZero(n)
	return n.Mul(v.Dot(n))
}

// Reject removes the component of v along n.
func Reject(v, n mgl64.Vec3) mgl64.Vec3 {
	return v.Sub(ProjectOnto(v, n))
}

// AngleBetween returns the unsigned angle in radians between a and b, or 0
// if either is degenerate.
func AngleBetween(a, b mgl64.Vec3) float64 {
	a = NormalizeOrZero(a)
	b = NormalizeOrZero(b)
	if a == (mgl64.Vec3{}) || b == (mgl64.Vec3{}) {
		return 0
	}
	return math.Acos(mgl64.Clamp(a.Dot(b), -1, 1))
}

// RotateIntoPlane rotates dir from the plane perpendicular to up into the
// plane perpendicular to normal, keeping its length.
func RotateIntoPlane(dir, up, normal mgl64.Vec3) mgl64.Vec3 {
	up = NormalizeOrZero(up)
	normal = NormalizeOrZero(normal)
	if up == (mgl64.Vec3{}) || normal == (mgl64.Vec3{}) {
		return dir
	}
	if up.ApproxEqualThreshold(normal, 1e-9) {
		return dir
	}
	return mgl64.QuatBetweenVectors(up, normal).Rotate(dir)
}

// Clamp01 clamps v to [0, 1].
func Clamp01(v float64) float64 {
	return mgl64.Clamp(v, 0, 1)
}
