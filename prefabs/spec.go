package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// LevelSpec is the static geometry of a level plus its spawn points.
type LevelSpec struct {
	Name    string       `yaml:"name"`
	Boxes   []BoxSpec    `yaml:"boxes"`
	Spheres []SphereSpec `yaml:"spheres"`
	Planes  []PlaneSpec  `yaml:"planes"`
	Spawns  []SpawnSpec  `yaml:"spawns"`
}

type BoxSpec struct {
	Center      [3]float64 `yaml:"center"`
	HalfExtents [3]float64 `yaml:"half_extents"`
}

type SphereSpec struct {
	Center [3]float64 `yaml:"center"`
	Radius float64    `yaml:"radius"`
}

// PlaneSpec is a solid half-space below the plane through Point.
type PlaneSpec struct {
	Normal [3]float64 `yaml:"normal"`
	Point  [3]float64 `yaml:"point"`
}

// SpawnSpec places one character archetype.
type SpawnSpec struct {
	Prefab   string     `yaml:"prefab"`
	Position [3]float64 `yaml:"position"`
	Yaw      float64    `yaml:"yaw"`
}

func LoadLevelSpec(path string) (LevelSpec, error) {
	data, err := Load(path)
	if err != nil {
		return LevelSpec{}, fmt.Errorf("prefabs: load %s: %w", path, err)
	}
	return ParseLevelSpec(path, data)
}

// ParseLevelSpec decodes and validates level yaml. path only labels errors.
func ParseLevelSpec(path string, data []byte) (LevelSpec, error) {
	var spec LevelSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return LevelSpec{}, fmt.Errorf("prefabs: unmarshal %s: %w", path, err)
	}
	for i, b := range spec.Boxes {
		for _, h := range b.HalfExtents {
			if h <= 0 {
				return LevelSpec{}, fmt.Errorf("prefabs: level %s: box %d: half extents must be positive", path, i)
			}
		}
	}
	for i, s := range spec.Spheres {
		if s.Radius <= 0 {
			return LevelSpec{}, fmt.Errorf("prefabs: level %s: sphere %d: radius must be positive", path, i)
		}
	}
	for i, p := range spec.Planes {
		if p.Normal == ([3]float64{}) {
			return LevelSpec{}, fmt.Errorf("prefabs: level %s: plane %d: zero normal", path, i)
		}
	}
	return spec, nil
}
