package component

// MovementParams are the per-archetype movement constants. Jump heights
// are the speed added along the ground normal on takeoff.
type MovementParams struct {
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

var MovementParamsComponent = NewComponent[MovementParams]()
