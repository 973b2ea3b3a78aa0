package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/firstperson/common"
	"github.com/milk9111/firstperson/physics"
)

// SlideResult is the outcome of a collide-and-slide query.
type SlideResult struct {
	Displacement mgl64.Vec3
	// Collided is set when any cast hit something.
	Collided bool
	// Depth counts the casts that hit.
	Depth int
}

// CollideAndSlide sweeps shape from origin along motion and redirects the
// blocked part of the motion along every surface it meets. A clear path
// returns motion unchanged. At most maxDepth hits are resolved; past that
// the displacement accumulated so far is returned.
func CollideAndSlide(
	caster physics.Caster,
	origin mgl64.Vec3,
	rotation mgl64.Quat,
	shape physics.Shape,
	exclude physics.Owner,
	motion mgl64.Vec3,
	skin float64,
	maxDepth int,
) SlideResult {
	var res SlideResult
	filter := physics.ExcludeOwner(exclude)
	pos := origin

	for {
		length := motion.Len()
		if length < common.Epsilon || res.Depth >= maxDepth {
			return res
		}

		dir := motion.Mul(1 / length)
		hit, ok := caster.CastShape(pos, rotation, motion.Add(dir.Mul(skin)), shape, filter)
		if !ok {
			res.Displacement = res.Displacement.Add(motion)
			return res
		}
		res.Collided = true
		res.Depth++

		travel := math.Min(math.Max(hit.Distance-skin, 0), length)
		moved := dir.Mul(travel)
		res.Displacement = res.Displacement.Add(moved)
		pos = pos.Add(moved)

		motion = common.Reject(motion, common.NormalizeOrZero(hit.Normal))
	}
}
