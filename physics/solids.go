package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/firstperson/common"
)

// Solid is convex collider geometry stored in the world. Points inside the
// solid are their own closest point.
type Solid interface {
	ClosestPoint(p mgl64.Vec3) mgl64.Vec3
	// Normal returns the outward surface normal nearest to p.
	Normal(p mgl64.Vec3) mgl64.Vec3
	Bounds() AABB
	closestToSegment(a, b mgl64.Vec3) (onSegment, onSolid mgl64.Vec3)
}

// Box is an axis aligned solid box.
type Box struct {
	Center      mgl64.Vec3
	HalfExtents mgl64.Vec3
}

// Sphere is a solid ball collider.
type Sphere struct {
	Center mgl64.Vec3
	Radius float64
}

// HalfSpace is everything on the back side of a plane: points with
// PlaneNormal·p <= Offset are solid.
type HalfSpace struct {
	PlaneNormal mgl64.Vec3
	Offset      float64
}

// CapsuleSolid is a capsule collider, used for character bodies.
type CapsuleSolid struct {
	Center     mgl64.Vec3
	Rotation   mgl64.Quat
	HalfHeight float64
	Radius     float64
}

// NewHalfSpace builds a half-space whose surface passes through point.
func NewHalfSpace(normal, point mgl64.Vec3) HalfSpace {
	n := common.NormalizeOrZero(normal)
	if n == (mgl64.Vec3{}) {
		n = common.Up
	}
	return HalfSpace{PlaneNormal: n, Offset: n.Dot(point)}
}

func (b Box) min() mgl64.Vec3 { return b.Center.Sub(b.HalfExtents) }
func (b Box) max() mgl64.Vec3 { return b.Center.Add(b.HalfExtents) }

func (b Box) ClosestPoint(p mgl64.Vec3) mgl64.Vec3 {
	lo, hi := b.min(), b.max()
	return mgl64.Vec3{
		mgl64.Clamp(p.X(), lo.X(), hi.X()),
		mgl64.Clamp(p.Y(), lo.Y(), hi.Y()),
		mgl64.Clamp(p.Z(), lo.Z(), hi.Z()),
	}
}

func (b Box) Normal(p mgl64.Vec3) mgl64.Vec3 {
	local := p.Sub(b.Center)
	best := math.Inf(1)
	var n mgl64.Vec3
	for axis := 0; axis < 3; axis++ {
		// distance from p to the face on each side of this axis
		pos := b.HalfExtents[axis] - local[axis]
		neg := b.HalfExtents[axis] + local[axis]
		if pos < best {
			best = pos
			n = mgl64.Vec3{}
			n[axis] = 1
		}
		if neg < best {
			best = neg
			n = mgl64.Vec3{}
			n[axis] = -1
		}
	}
	return n
}

func (b Box) Bounds() AABB {
	return AABB{Min: b.min(), Max: b.max()}
}

func (b Box) closestToSegment(a, c mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	return alternatingClosest(a, c, b)
}

func (s Sphere) ClosestPoint(p mgl64.Vec3) mgl64.Vec3 {
	d := p.Sub(s.Center)
	if d.LenSqr() <= s.Radius*s.Radius {
		return p
	}
	return s.Center.Add(common.NormalizeOrZero(d).Mul(s.Radius))
}

func (s Sphere) Normal(p mgl64.Vec3) mgl64.Vec3 {
	n := common.NormalizeOrZero(p.Sub(s.Center))
	if n == (mgl64.Vec3{}) {
		return common.Up
	}
	return n
}

func (s Sphere) Bounds() AABB {
	return AABB{Min: s.Center, Max: s.Center}.Expand(s.Radius)
}

func (s Sphere) closestToSegment(a, b mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	ps := closestOnSegment(a, b, s.Center)
	return ps, s.ClosestPoint(ps)
}

func (h HalfSpace) ClosestPoint(p mgl64.Vec3) mgl64.Vec3 {
	depth := h.PlaneNormal.Dot(p) - h.Offset
	if depth <= 0 {
		return p
	}
	return p.Sub(h.PlaneNormal.Mul(depth))
}

func (h HalfSpace) Normal(mgl64.Vec3) mgl64.Vec3 {
	return h.PlaneNormal
}

func (h HalfSpace) Bounds() AABB {
	return infiniteBounds
}

func (h HalfSpace) closestToSegment(a, b mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	ps := a
	if h.PlaneNormal.Dot(b) < h.PlaneNormal.Dot(a) {
		ps = b
	}
	return ps, h.ClosestPoint(ps)
}

func (c CapsuleSolid) segment() (mgl64.Vec3, mgl64.Vec3) {
	return capsuleSegment(c.Center, c.Rotation, c.HalfHeight)
}

func (c CapsuleSolid) ClosestPoint(p mgl64.Vec3) mgl64.Vec3 {
	a, b := c.segment()
	q := closestOnSegment(a, b, p)
	d := p.Sub(q)
	if d.LenSqr() <= c.Radius*c.Radius {
		return p
	}
	return q.Add(common.NormalizeOrZero(d).Mul(c.Radius))
}

func (c CapsuleSolid) Normal(p mgl64.Vec3) mgl64.Vec3 {
	a, b := c.segment()
	n := common.NormalizeOrZero(p.Sub(closestOnSegment(a, b, p)))
	if n == (mgl64.Vec3{}) {
		return common.Up
	}
	return n
}

func (c CapsuleSolid) Bounds() AABB {
	a, b := c.segment()
	return segmentBounds(a, b, c.Radius)
}

func (c CapsuleSolid) closestToSegment(a, b mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	ca, cb := c.segment()
	ps, pc := closestSegmentSegment(a, b, ca, cb)
	d := ps.Sub(pc)
	if d.LenSqr() <= c.Radius*c.Radius {
		return ps, ps
	}
	return ps, pc.Add(common.NormalizeOrZero(d).Mul(c.Radius))
}

func capsuleSegment(center mgl64.Vec3, rotation mgl64.Quat, halfHeight float64) (mgl64.Vec3, mgl64.Vec3) {
	if halfHeight <= 0 {
		return center, center
	}
	axis := rotationOrIdent(rotation).Rotate(common.Up).Mul(halfHeight)
	return center.Sub(axis), center.Add(axis)
}

func rotationOrIdent(q mgl64.Quat) mgl64.Quat {
	if q.W == 0 && q.V == (mgl64.Vec3{}) {
		return mgl64.QuatIdent()
	}
	return q
}
