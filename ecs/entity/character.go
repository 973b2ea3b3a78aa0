package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/firstperson/common"
	"github.com/milk9111/firstperson/ecs"
	"github.com/milk9111/firstperson/ecs/component"
	"github.com/milk9111/firstperson/logger"
	"github.com/milk9111/firstperson/physics"
	"github.com/milk9111/firstperson/prefabs"
	"go.uber.org/zap"
)

const (
	rigHead      = "head"
	rigUpProbe   = "probe_up"
	rigDownProbe = "probe_down"
)

// Character is a spawned body and the entities linked to it.
type Character struct {
	Body      ecs.Entity
	Head      ecs.Entity
	UpProbe   ecs.Entity
	DownProbe ecs.Entity
}

// Placement overrides the prefab transform.
type Placement struct {
	Position mgl64.Vec3
	// Yaw in degrees.
	Yaw float64
}

// BuildCharacter spawns a character archetype: the body from the prefab,
// its head and both probes, and its capsule in the physics world. at may be
// nil to keep the prefab transform.
func BuildCharacter(w *ecs.World, pw *physics.World, prefabPath string, at *Placement) (Character, error) {
	body, err := BuildEntity(w, prefabPath)
	if err != nil {
		return Character{}, err
	}

	params, ok := ecs.Get(w, body, component.MovementParamsComponent.Kind())
	if !ok {
		ecs.DestroyEntity(w, body)
		return Character{}, fmt.Errorf("build character: %q: missing movement component", prefabPath)
	}

	t, ok := ecs.Get(w, body, component.TransformComponent.Kind())
	if !ok {
		t = &component.Transform{Rotation: mgl64.QuatIdent()}
		_ = ecs.Add(w, body, component.TransformComponent.Kind(), t)
	}
	if at != nil {
		t.Position = at.Position
		t.Rotation = yawRotation(at.Yaw)
	}

	if !ecs.Has(w, body, component.GravityScaleComponent.Kind()) {
		_ = ecs.Add(w, body, component.GravityScaleComponent.Kind(), &component.GravityScale{Scale: 1})
	}
	_ = ecs.Add(w, body, component.VelocityComponent.Kind(), &component.Velocity{})
	_ = ecs.Add(w, body, component.GroundingComponent.Kind(), &component.Grounding{CanStandUp: true})
	_ = ecs.Add(w, body, component.MovementStateMachineComponent.Kind(), &component.MovementStateMachine{})
	_ = ecs.Add(w, body, component.ArchetypeComponent.Kind(), &component.Archetype{Prefab: prefabPath})

	capsule := &component.CapsuleCollider{HalfHeight: params.StandHalfHeight, Radius: params.Radius}
	if pw != nil {
		capsule.Handle = pw.Insert(physics.Owner(body), capsule.Shape().Solid(t.Position, t.Rotation))
	}
	_ = ecs.Add(w, body, component.CapsuleColliderComponent.Kind(), capsule)

	head := ecs.CreateEntity(w)
	offset := common.Up.Mul(EyeOffset(*params))
	_ = ecs.Add(w, head, component.HeadComponent.Kind(), &component.Head{Offset: offset})
	_ = ecs.Add(w, head, component.TransformComponent.Kind(), &component.Transform{
		Position: t.Position.Add(offset),
		Rotation: t.Rotation,
	})
	if ecs.Has(w, body, component.ControlledTagComponent.Kind()) {
		_ = ecs.Add(w, head, component.CameraTagComponent.Kind(), &component.CameraTag{})
	}

	up := ecs.CreateEntity(w)
	_ = ecs.Add(w, up, component.CastProbeComponent.Kind(), &component.CastProbe{})
	down := ecs.CreateEntity(w)
	_ = ecs.Add(w, down, component.CastProbeComponent.Kind(), &component.CastProbe{})

	rig := ResolveRig(w, map[string]ecs.Entity{
		rigHead:      head,
		rigUpProbe:   up,
		rigDownProbe: down,
	})
	_ = ecs.Add(w, body, component.RigComponent.Kind(), &rig)

	logger.Debug("spawned character",
		zap.String("prefab", prefabPath),
		zap.Uint64("body", uint64(body)),
		zap.Float64s("position", t.Position[:]),
	)
	w.Events().Push(ecs.Event{Type: ecs.EventSpawned, Data: body})

	return Character{Body: body, Head: head, UpProbe: up, DownProbe: down}, nil
}

// ResolveRig turns the builder's name index into a Rig. A missing or dead
// link means the spawn sequence is broken, so it panics.
func ResolveRig(w *ecs.World, names map[string]ecs.Entity) component.Rig {
	link := func(name string) uint64 {
		e, ok := names[name]
		if !ok || !ecs.IsAlive(w, e) {
			panic(fmt.Sprintf("entity: rig link %q is missing", name))
		}
		return uint64(e)
	}
	return component.Rig{
		Head:      link(rigHead),
		UpProbe:   link(rigUpProbe),
		DownProbe: link(rigDownProbe),
	}
}

// EyeOffset is the head height above the body centre for an eye placed at
// EyeFraction of the standing capsule height.
func EyeOffset(p component.MovementParams) float64 {
	return (2*p.EyeFraction - 1) * (p.StandHalfHeight + p.Radius)
}

// DestroyCharacter removes a body, its linked entities and its colliders.
func DestroyCharacter(w *ecs.World, pw *physics.World, body ecs.Entity) bool {
	if !ecs.IsAlive(w, body) {
		return false
	}
	if rig, ok := ecs.Get(w, body, component.RigComponent.Kind()); ok {
		ecs.DestroyEntity(w, ecs.Entity(rig.Head))
		ecs.DestroyEntity(w, ecs.Entity(rig.UpProbe))
		ecs.DestroyEntity(w, ecs.Entity(rig.DownProbe))
	}
	if pw != nil {
		pw.RemoveOwner(physics.Owner(body))
	}
	logger.Debug("despawned character", zap.Uint64("body", uint64(body)))
	w.Events().Push(ecs.Event{Type: ecs.EventDespawned, Data: body})
	return ecs.DestroyEntity(w, body)
}

// ReloadArchetype re-reads the movement parameters of prefabPath into every
// body built from it and returns how many were updated.
func ReloadArchetype(w *ecs.World, prefabPath string) (int, error) {
	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, err
	}
	raw, ok := spec.Components["movement"]
	if !ok {
		return 0, fmt.Errorf("reload %q: missing movement component", prefabPath)
	}
	params, err := decodeMovement(raw)
	if err != nil {
		return 0, fmt.Errorf("reload %q: %w", prefabPath, err)
	}

	n := 0
	ecs.ForEach2(w,
		component.ArchetypeComponent.Kind(),
		component.MovementParamsComponent.Kind(),
		func(e ecs.Entity, a *component.Archetype, p *component.MovementParams) {
			if a.Prefab != prefabPath {
				return
			}
			*p = params
			c, ok := ecs.Get(w, e, component.CapsuleColliderComponent.Kind())
			if !ok {
				n++
				return
			}
			c.Radius = params.Radius
			// the height system moves the head with the capsule from here
			// on, so it ends at the new eye height once the height settles
			if rig, ok := ecs.Get(w, e, component.RigComponent.Kind()); ok {
				if head, ok := ecs.Get(w, ecs.Entity(rig.Head), component.HeadComponent.Kind()); ok {
					head.Offset = common.Up.Mul(EyeOffset(params) - (params.StandHalfHeight - c.HalfHeight))
				}
			}
			n++
		},
	)
	return n, nil
}

// ReloadGhostScript swaps in a new source for every ghost running name.
func ReloadGhostScript(w *ecs.World, name string) (int, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return 0, fmt.Errorf("reload script %q: %w", name, err)
	}
	n := 0
	ecs.ForEach(w, component.GhostScriptComponent.Kind(), func(_ ecs.Entity, sc *component.GhostScript) {
		if prefabs.ScriptName(sc.Path) != prefabs.ScriptName(name) {
			return
		}
		sc.Source = src
		sc.Compiled = nil
		sc.State = nil
		sc.Failed = false
		n++
	})
	return n, nil
}
