package system

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/firstperson/common"
	"github.com/milk9111/firstperson/config"
	"github.com/milk9111/firstperson/ecs"
	"github.com/milk9111/firstperson/ecs/component"
	"github.com/milk9111/firstperson/logger"
	"github.com/milk9111/firstperson/physics"
	"go.uber.org/zap"
)

// GroundProbeSystem classifies every body as grounded or airborne and
// measures standing clearance.
type GroundProbeSystem struct {
	caster physics.Caster
	cfg    config.MotionConfig
	log    *zap.Logger
}

func NewGroundProbeSystem(caster physics.Caster, cfg config.MotionConfig) *GroundProbeSystem {
	return &GroundProbeSystem{caster: caster, cfg: cfg, log: logger.Named("probe")}
}

// ProbeBody groups the components the probe reads and writes.
type ProbeBody struct {
	Owner     physics.Owner
	Transform *component.Transform
	Velocity  *component.Velocity
	Capsule   *component.CapsuleCollider
	Params    *component.MovementParams
	Grounding *component.Grounding
	Gravity   *component.GravityScale
	Up        *component.CastProbe
	Down      *component.CastProbe
}

func (s *GroundProbeSystem) Update(w *ecs.World, tick ecs.Tick) {
	if s == nil || s.caster == nil || w == nil {
		return
	}

	for _, e := range w.Query(
		component.TransformComponent.Kind(),
		component.VelocityComponent.Kind(),
		component.CapsuleColliderComponent.Kind(),
		component.MovementParamsComponent.Kind(),
		component.GroundingComponent.Kind(),
		component.RigComponent.Kind(),
	) {
		body := ProbeBody{Owner: physics.Owner(e)}
		body.Transform, _ = ecs.Get(w, e, component.TransformComponent.Kind())
		body.Velocity, _ = ecs.Get(w, e, component.VelocityComponent.Kind())
		body.Capsule, _ = ecs.Get(w, e, component.CapsuleColliderComponent.Kind())
		body.Params, _ = ecs.Get(w, e, component.MovementParamsComponent.Kind())
		body.Grounding, _ = ecs.Get(w, e, component.GroundingComponent.Kind())

		gs, ok := ecs.Get(w, e, component.GravityScaleComponent.Kind())
		if !ok {
			gs = &component.GravityScale{Scale: 1}
			if err := ecs.Add(w, e, component.GravityScaleComponent.Kind(), gs); err != nil {
				s.log.Warn("add gravity scale", zap.Uint64("entity", uint64(e)), zap.Error(err))
			}
		}
		body.Gravity = gs

		rig, _ := ecs.Get(w, e, component.RigComponent.Kind())
		body.Up = mustProbe(w, e, rig.UpProbe)
		body.Down = mustProbe(w, e, rig.DownProbe)

		s.Probe(body, tick.Dt)
	}
}

func mustProbe(w *ecs.World, body ecs.Entity, probe uint64) *component.CastProbe {
	p, ok := ecs.Get(w, ecs.Entity(probe), component.CastProbeComponent.Kind())
	if !ok {
		panic(fmt.Sprintf("ground probe: body %d lost probe entity %d", body, probe))
	}
	return p
}

// Probe runs the ground and ceiling casts for one body.
func (s *GroundProbeSystem) Probe(b ProbeBody, dt float64) {
	g := b.Grounding
	g.CanStandUp = true
	g.Grounded = false
	g.Normal = mgl64.Vec3{}
	g.Gap = 0
	g.Snapped = false
	b.Gravity.Scale = 1

	skin := s.cfg.SkinWidth
	stand := b.Params.StandHalfHeight
	current := b.Capsule.HalfHeight
	// reaches a full standing height above the feet, plus the grounded tolerance below them
	reach := stand + (stand - current) + skin + s.cfg.SurfaceGap

	down := downAxis(s.cfg)
	ball := physics.Ball{Radius: b.Capsule.Radius}
	filter := physics.ExcludeOwner(b.Owner)
	origin := b.Transform.Position

	b.Down.Direction = down.Mul(reach)
	b.Up.Direction = down.Mul(-reach)
	downHit, downOK := s.caster.CastShape(origin, b.Transform.Rotation, b.Down.Direction, ball, filter)
	b.Down.Store(downHit, downOK)
	upHit, upOK := s.caster.CastShape(origin, b.Transform.Rotation, b.Up.Direction, ball, filter)
	b.Up.Store(upHit, upOK)

	if !downOK {
		return
	}

	// a missing up hit means the ceiling is out of reach
	if upOK && upHit.Distance+downHit.Distance < 2*stand {
		g.CanStandUp = false
	}

	normal := common.NormalizeOrZero(downHit.Normal)
	if normal == (mgl64.Vec3{}) {
		return
	}
	if common.AngleBetween(down, normal.Mul(-1)) > s.cfg.MaxSlope() {
		return
	}

	gap := downHit.Distance - skin - current
	if gap > s.cfg.SurfaceGap {
		return
	}

	if gap < skin {
		b.Gravity.Scale = 0
		if into := b.Velocity.Linear.Dot(normal); into < 0 {
			b.Velocity.Linear = b.Velocity.Linear.Sub(normal.Mul(into))
		}
		// closes the whole gap, from above or from inside the skin, over
		// motion.snap_window seconds; a zero window snaps in one tick
		k := 1.0
		if s.cfg.SnapWindow > 0 {
			k = math.Min(dt/s.cfg.SnapWindow, 1)
		}
		b.Transform.Position = b.Transform.Position.Sub(normal.Mul(gap * k))
		g.Snapped = true
	}

	g.Grounded = true
	g.Normal = normal
	g.Gap = gap
}

func downAxis(cfg config.MotionConfig) mgl64.Vec3 {
	down := common.NormalizeOrZero(cfg.GravityVec())
	if down == (mgl64.Vec3{}) {
		return common.Up.Mul(-1)
	}
	return down
}

func upAxis(cfg config.MotionConfig) mgl64.Vec3 {
	return downAxis(cfg).Mul(-1)
}
