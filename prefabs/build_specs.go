package prefabs

import "gopkg.in/yaml.v3"

// EntityBuildSpec is a character archetype: a name and its components keyed
// by builder name.
type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type TransformComponentSpec struct {
	Position [3]float64 `yaml:"position"`
	// Yaw in degrees, positive turns right.
	Yaw float64 `yaml:"yaw"`
}

// MovementComponentSpec mirrors the movement parameters of an archetype.
type MovementComponentSpec struct {
	WalkSpeed         float64 `yaml:"walk_speed"`
	RunSpeed          float64 `yaml:"run_speed"`
	CrouchSpeed       float64 `yaml:"crouch_speed"`
	FallSpeed         float64 `yaml:"fall_speed"`
	StandAcceleration float64 `yaml:"stand_acceleration"`
	FallAcceleration  float64 `yaml:"fall_acceleration"`
	StandJumpHeight   float64 `yaml:"stand_jump_height"`
	CrouchJumpHeight  float64 `yaml:"crouch_jump_height"`
	StandHalfHeight   float64 `yaml:"stand_half_height"`
	CrouchHalfHeight  float64 `yaml:"crouch_half_height"`
	HeightTransition  float64 `yaml:"height_transition"`
	Radius            float64 `yaml:"radius"`
	EyeFraction       float64 `yaml:"eye_fraction"`
}

type AnimationBlendComponentSpec struct {
	Tracks []string `yaml:"tracks"`
}

type GravityScaleComponentSpec struct {
	Scale float64 `yaml:"scale"`
}

type GhostScriptComponentSpec struct {
	Script string `yaml:"script"`
}
