package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/firstperson/ecs"
	"github.com/milk9111/firstperson/logger"
	"github.com/milk9111/firstperson/physics"
	"github.com/milk9111/firstperson/prefabs"
	"go.uber.org/zap"
)

// LoadLevelGeometry inserts the static solids of a level into pw. Level
// geometry has no owner.
func LoadLevelGeometry(pw *physics.World, spec prefabs.LevelSpec) int {
	n := 0
	for _, b := range spec.Boxes {
		pw.Insert(0, physics.Box{Center: mgl64.Vec3(b.Center), HalfExtents: mgl64.Vec3(b.HalfExtents)})
		n++
	}
	for _, s := range spec.Spheres {
		pw.Insert(0, physics.Sphere{Center: mgl64.Vec3(s.Center), Radius: s.Radius})
		n++
	}
	for _, p := range spec.Planes {
		pw.Insert(0, physics.NewHalfSpace(mgl64.Vec3(p.Normal), mgl64.Vec3(p.Point)))
		n++
	}
	return n
}

// BuildLevel loads a level prefab, fills pw with its geometry and spawns
// every character it lists.
func BuildLevel(w *ecs.World, pw *physics.World, path string) ([]Character, error) {
	if w == nil || pw == nil {
		return nil, fmt.Errorf("build level: world is nil")
	}
	spec, err := prefabs.LoadLevelSpec(path)
	if err != nil {
		return nil, fmt.Errorf("build level: %w", err)
	}

	solids := LoadLevelGeometry(pw, spec)

	chars := make([]Character, 0, len(spec.Spawns))
	for i, sp := range spec.Spawns {
		c, err := BuildCharacter(w, pw, sp.Prefab, &Placement{Position: mgl64.Vec3(sp.Position), Yaw: sp.Yaw})
		if err != nil {
			for _, built := range chars {
				DestroyCharacter(w, pw, built.Body)
			}
			return nil, fmt.Errorf("build level %q: spawn %d: %w", path, i, err)
		}
		chars = append(chars, c)
	}

	logger.Info("level loaded",
		zap.String("level", spec.Name),
		zap.Int("solids", solids),
		zap.Int("characters", len(chars)),
	)
	return chars, nil
}

// ClearLevelGeometry removes every ownerless collider from pw.
func ClearLevelGeometry(pw *physics.World) int {
	return pw.RemoveOwner(0)
}
