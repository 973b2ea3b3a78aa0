package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/firstperson/common"
)

// CastRay returns the nearest collider hit by the ray from origin along
// direction within maxDistance. When solid is true a ray starting inside a
// collider hits it at distance zero; otherwise it hits the exit surface.
func (w *World) CastRay(origin, direction mgl64.Vec3, maxDistance float64, solid bool, filter QueryFilter) (Hit, bool) {
	if w == nil || maxDistance <= 0 {
		return Hit{}, false
	}
	dir := common.NormalizeOrZero(direction)
	if dir == (mgl64.Vec3{}) {
		return Hit{}, false
	}

	end := origin.Add(dir.Mul(maxDistance))
	rayBounds := segmentBounds(origin, end, 0)

	best := Hit{Distance: math.Inf(1)}
	found := false
	for _, c := range w.colliders {
		if !filter.accepts(c) {
			continue
		}
		if !rayBounds.Overlaps(c.Solid.Bounds()) {
			continue
		}
		dist, normal, ok := raySolid(origin, dir, maxDistance, solid, c.Solid)
		if !ok || dist >= best.Distance {
			continue
		}
		best = Hit{
			Distance:     dist,
			TimeOfImpact: dist / maxDistance,
			Normal:       normal,
			Point:        origin.Add(dir.Mul(dist)),
			Owner:        c.Owner,
			Collider:     c.Handle,
		}
		found = true
	}
	if !found {
		return Hit{}, false
	}
	return best, true
}

func raySolid(origin, dir mgl64.Vec3, maxDist float64, solid bool, s Solid) (float64, mgl64.Vec3, bool) {
	switch v := s.(type) {
	case Box:
		return rayBox(origin, dir, maxDist, solid, v)
	case Sphere:
		return raySphere(origin, dir, maxDist, solid, v)
	case HalfSpace:
		return rayHalfSpace(origin, dir, maxDist, solid, v)
	default:
		return raySwept(origin, dir, maxDist, solid, s)
	}
}

func rayBox(origin, dir mgl64.Vec3, maxDist float64, solid bool, b Box) (float64, mgl64.Vec3, bool) {
	lo, hi := b.min(), b.max()
	tmin := math.Inf(-1)
	tmax := math.Inf(1)
	var enterAxis, exitAxis int
	var enterSign, exitSign float64

	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return 0, mgl64.Vec3{}, false
			}
			continue
		}
		inv := 1.0 / dir[axis]
		t1 := (lo[axis] - origin[axis]) * inv
		t2 := (hi[axis] - origin[axis]) * inv
		// entering through the min face means the normal points to -axis
		sign1, sign2 := -1.0, 1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			sign1, sign2 = sign2, sign1
		}
		if t1 > tmin {
			tmin = t1
			enterAxis, enterSign = axis, sign1
		}
		if t2 < tmax {
			tmax = t2
			exitAxis, exitSign = axis, sign2
		}
	}
	if tmax < tmin || tmax < 0 {
		return 0, mgl64.Vec3{}, false
	}

	if tmin >= 0 {
		if tmin > maxDist {
			return 0, mgl64.Vec3{}, false
		}
		n := mgl64.Vec3{}
		n[enterAxis] = enterSign
		return tmin, n, true
	}

	// origin inside the box
	if solid {
		return 0, b.Normal(origin), true
	}
	if tmax > maxDist {
		return 0, mgl64.Vec3{}, false
	}
	n := mgl64.Vec3{}
	n[exitAxis] = exitSign
	return tmax, n, true
}

func raySphere(origin, dir mgl64.Vec3, maxDist float64, solid bool, s Sphere) (float64, mgl64.Vec3, bool) {
	f := origin.Sub(s.Center)
	b := f.Dot(dir)
	c := f.LenSqr() - s.Radius*s.Radius
	disc := b*b - c
	if disc < 0 {
		return 0, mgl64.Vec3{}, false
	}
	sq := math.Sqrt(disc)
	t1 := -b - sq
	t2 := -b + sq

	switch {
	case t1 >= 0:
		if t1 > maxDist {
			return 0, mgl64.Vec3{}, false
		}
		return t1, s.Normal(origin.Add(dir.Mul(t1))), true
	case t2 >= 0:
		if solid {
			return 0, s.Normal(origin), true
		}
		if t2 > maxDist {
			return 0, mgl64.Vec3{}, false
		}
		return t2, s.Normal(origin.Add(dir.Mul(t2))), true
	default:
		return 0, mgl64.Vec3{}, false
	}
}

func rayHalfSpace(origin, dir mgl64.Vec3, maxDist float64, solid bool, h HalfSpace) (float64, mgl64.Vec3, bool) {
	depth := h.PlaneNormal.Dot(origin) - h.Offset
	if depth <= 0 {
		// inside; a half-space has no exit surface
		if solid {
			return 0, h.PlaneNormal, true
		}
		return 0, mgl64.Vec3{}, false
	}
	denom := h.PlaneNormal.Dot(dir)
	if denom >= 0 {
		return 0, mgl64.Vec3{}, false
	}
	t := depth / -denom
	if t > maxDist {
		return 0, mgl64.Vec3{}, false
	}
	return t, h.PlaneNormal, true
}

// raySwept treats the ray as a zero radius sweep, used for solids without a
// closed form intersection.
func raySwept(origin, dir mgl64.Vec3, maxDist float64, solid bool, s Solid) (float64, mgl64.Vec3, bool) {
	if s.ClosestPoint(origin) == origin {
		if solid {
			return 0, s.Normal(origin), true
		}
		return 0, mgl64.Vec3{}, false
	}
	toi, n, _, ok := sweepSegment(origin, origin, 0, dir.Mul(maxDist), s)
	if !ok {
		return 0, mgl64.Vec3{}, false
	}
	return toi * maxDist, n, true
}
