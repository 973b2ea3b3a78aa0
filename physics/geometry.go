package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB is an axis aligned bounding box.
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

var infiniteBounds = AABB{
	Min: mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
	Max: mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)},
}

// Overlaps reports whether two boxes intersect (touching counts).
func (b AABB) Overlaps(o AABB) bool {
	return b.Min.X() <= o.Max.X() && b.Max.X() >= o.Min.X() &&
		b.Min.Y() <= o.Max.Y() && b.Max.Y() >= o.Min.Y() &&
		b.Min.Z() <= o.Max.Z() && b.Max.Z() >= o.Min.Z()
}

// Expand grows the box by m on every side.
func (b AABB) Expand(m float64) AABB {
	d := mgl64.Vec3{m, m, m}
	return AABB{Min: b.Min.Sub(d), Max: b.Max.Add(d)}
}

// Union returns the smallest box containing both.
func (b AABB) Union(o AABB) AABB {
	return AABB{
		Min: mgl64.Vec3{math.Min(b.Min.X(), o.Min.X()), math.Min(b.Min.Y(), o.Min.Y()), math.Min(b.Min.Z(), o.Min.Z())},
		Max: mgl64.Vec3{math.Max(b.Max.X(), o.Max.X()), math.Max(b.Max.Y(), o.Max.Y()), math.Max(b.Max.Z(), o.Max.Z())},
	}
}

func segmentBounds(a, b mgl64.Vec3, radius float64) AABB {
	return AABB{Min: a, Max: a}.Union(AABB{Min: b, Max: b}).Expand(radius)
}

// closestOnSegment returns the point of segment [a, b] nearest to p.
func closestOnSegment(a, b, p mgl64.Vec3) mgl64.Vec3 {
	ab := b.Sub(a)
	denom := ab.LenSqr()
	if denom < 1e-18 {
		return a
	}
	t := mgl64.Clamp(p.Sub(a).Dot(ab)/denom, 0, 1)
	return a.Add(ab.Mul(t))
}

// closestSegmentSegment returns the closest pair of points between segments
// [p1, q1] and [p2, q2].
func closestSegmentSegment(p1, q1, p2, q2 mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	d1 := q1.Sub(p1)
	d2 := q2.Sub(p2)
	r := p1.Sub(p2)
	a := d1.LenSqr()
	e := d2.LenSqr()
	f := d2.Dot(r)

	const eps = 1e-18
	var s, t float64
	switch {
	case a <= eps && e <= eps:
		return p1, p2
	case a <= eps:
		s = 0
		t = mgl64.Clamp(f/e, 0, 1)
	default:
		c := d1.Dot(r)
		if e <= eps {
			t = 0
			s = mgl64.Clamp(-c/a, 0, 1)
		} else {
			b := d1.Dot(d2)
			denom := a*e - b*b
			if denom > eps {
				s = mgl64.Clamp((b*f-c*e)/denom, 0, 1)
			}
			t = (b*s + f) / e
			if t < 0 {
				t = 0
				s = mgl64.Clamp(-c/a, 0, 1)
			} else if t > 1 {
				t = 1
				s = mgl64.Clamp((b-c)/a, 0, 1)
			}
		}
	}
	return p1.Add(d1.Mul(s)), p2.Add(d2.Mul(t))
}

// alternatingClosest finds the closest pair between segment [a, b] and a
// convex solid by alternating projections. It converges for any convex
// solid with an exact ClosestPoint.
func alternatingClosest(a, b mgl64.Vec3, s Solid) (onSegment, onSolid mgl64.Vec3) {
	p := a.Add(b).Mul(0.5)
	for i := 0; i < 32; i++ {
		q := s.ClosestPoint(p)
		next := closestOnSegment(a, b, q)
		if next.Sub(p).LenSqr() < 1e-20 {
			p = next
			break
		}
		p = next
	}
	return p, s.ClosestPoint(p)
}
