package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/firstperson/common"
)

const (
	// contactTolerance is the separation at which a sweep reports contact.
	contactTolerance   = 1e-5
	maxSweepIterations = 48
)

// CastShape sweeps shape from origin along direction and returns the
// nearest blocking hit. The length of direction is the maximum distance.
// A miss is a normal outcome and reports false.
func (w *World) CastShape(origin mgl64.Vec3, rotation mgl64.Quat, direction mgl64.Vec3, shape Shape, filter QueryFilter) (Hit, bool) {
	if w == nil || shape == nil {
		return Hit{}, false
	}
	length := direction.Len()
	if length < common.Epsilon {
		return Hit{}, false
	}

	a, b := shape.Segment(origin, rotation)
	radius := shape.Margin()
	swept := segmentBounds(a, b, radius).Union(segmentBounds(a.Add(direction), b.Add(direction), radius)).Expand(contactTolerance)

	best := Hit{TimeOfImpact: math.Inf(1)}
	found := false
	for _, c := range w.colliders {
		if !filter.accepts(c) {
			continue
		}
		if !swept.Overlaps(c.Solid.Bounds()) {
			continue
		}
		toi, normal, point, ok := sweepSegment(a, b, radius, direction, c.Solid)
		if !ok || toi >= best.TimeOfImpact {
			continue
		}
		best = Hit{
			Distance:     length * toi,
			TimeOfImpact: toi,
			Normal:       normal,
			Point:        point,
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

// sweepSegment advances the inflated segment [a, b] along dir (t in [0, 1])
// until it touches s. The separation is convex in t for a translating
// convex shape, so each Newton step from the left never passes the first
// contact.
func sweepSegment(a, b mgl64.Vec3, radius float64, dir mgl64.Vec3, s Solid) (float64, mgl64.Vec3, mgl64.Vec3, bool) {
	t := 0.0
	for i := 0; i < maxSweepIterations; i++ {
		off := dir.Mul(t)
		pa, pb := a.Add(off), b.Add(off)
		onSeg, onSolid := s.closestToSegment(pa, pb)
		sep := onSeg.Sub(onSolid)
		dist := sep.Len() - radius

		n := common.NormalizeOrZero(sep)
		if n == (mgl64.Vec3{}) {
			n = s.Normal(onSolid)
		}
		// rate of change of the separation per unit t
		rate := n.Dot(dir)

		if dist <= contactTolerance {
			if rate >= 0 {
				// touching but moving apart or sliding along
				return 0, mgl64.Vec3{}, mgl64.Vec3{}, false
			}
			return t, n, onSolid, true
		}
		if rate >= 0 {
			return 0, mgl64.Vec3{}, mgl64.Vec3{}, false
		}
		t += (dist - contactTolerance*0.5) / -rate
		if t > 1 {
			return 0, mgl64.Vec3{}, mgl64.Vec3{}, false
		}
	}
	return 0, mgl64.Vec3{}, mgl64.Vec3{}, false
}
