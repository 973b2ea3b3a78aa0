package entity

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/firstperson/ecs"
	"github.com/milk9111/firstperson/ecs/component"
	"github.com/milk9111/firstperson/prefabs"
)

type buildContext struct {
	PrefabPath string
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"controlled_tag":  addControlledTag,
	"ghost_tag":       addGhostTag,
	"input":           addInput,
	"transform":       addTransform,
	"movement":        addMovement,
	"gravity_scale":   addGravityScale,
	"animation_blend": addAnimationBlend,
	"ghost_script":    addGhostScript,
}

var componentBuildOrder = []string{
	"controlled_tag",
	"ghost_tag",
	"input",
	"transform",
	"movement",
	"gravity_scale",
	"animation_blend",
	"ghost_script",
}

// BuildEntity creates one entity from the components listed in a prefab.
func BuildEntity(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	e := ecs.CreateEntity(w)
	ctx := &buildContext{PrefabPath: prefabPath}

	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}

	for _, name := range componentBuildOrder {
		raw, ok := remaining[name]
		if !ok {
			continue
		}
		if err := componentRegistry[name](w, e, raw, ctx); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
		delete(remaining, name)
	}

	if len(remaining) > 0 {
		names := make([]string, 0, len(remaining))
		for name := range remaining {
			names = append(names, name)
		}
		sort.Strings(names)
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("build entity: %q: no builder for component %q", prefabPath, names[0])
	}

	return e, nil
}

func addControlledTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.ControlledTagComponent.Kind(), &component.ControlledTag{})
}

func addGhostTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.GhostTagComponent.Kind(), &component.GhostTag{})
}

func addInput(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{})
}

type transformSpec = prefabs.TransformComponentSpec

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[transformSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		Position: mgl64.Vec3(spec.Position),
		Rotation: yawRotation(spec.Yaw),
	})
}

type movementSpec = prefabs.MovementComponentSpec

func addMovement(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	params, err := decodeMovement(raw)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.MovementParamsComponent.Kind(), &params)
}

func decodeMovement(raw any) (component.MovementParams, error) {
	spec, err := prefabs.DecodeComponentSpec[movementSpec](raw)
	if err != nil {
		return component.MovementParams{}, fmt.Errorf("decode movement spec: %w", err)
	}
	params := component.MovementParams(spec)
	if params.Radius <= 0 {
		return params, fmt.Errorf("movement: radius must be positive")
	}
	if params.CrouchHalfHeight < 0 || params.StandHalfHeight < params.CrouchHalfHeight {
		return params, fmt.Errorf("movement: need 0 <= crouch_half_height <= stand_half_height")
	}
	if params.EyeFraction <= 0 {
		params.EyeFraction = 0.9
	}
	return params, nil
}

type gravityScaleSpec = prefabs.GravityScaleComponentSpec

func addGravityScale(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[gravityScaleSpec](raw)
	if err != nil {
		return fmt.Errorf("decode gravity scale spec: %w", err)
	}
	return ecs.Add(w, e, component.GravityScaleComponent.Kind(), &component.GravityScale{Scale: spec.Scale})
}

type animationBlendSpec = prefabs.AnimationBlendComponentSpec

func addAnimationBlend(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[animationBlendSpec](raw)
	if err != nil {
		return fmt.Errorf("decode animation blend spec: %w", err)
	}
	return ecs.Add(w, e, component.AnimationBlendComponent.Kind(), component.NewAnimationBlend(spec.Tracks...))
}

type ghostScriptSpec = prefabs.GhostScriptComponentSpec

func addGhostScript(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[ghostScriptSpec](raw)
	if err != nil {
		return fmt.Errorf("decode ghost script spec: %w", err)
	}
	src, err := prefabs.LoadScript(spec.Script)
	if err != nil {
		return fmt.Errorf("load ghost script %q: %w", spec.Script, err)
	}
	return ecs.Add(w, e, component.GhostScriptComponent.Kind(), &component.GhostScript{
		Path:   spec.Script,
		Source: src,
	})
}

func yawRotation(degrees float64) mgl64.Quat {
	return mgl64.QuatRotate(-mgl64.DegToRad(degrees), mgl64.Vec3{0, 1, 0})
}
