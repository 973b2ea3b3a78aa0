package component

// MovementState is the single active movement state of a body.
type MovementState uint8

const (
	StateUnset MovementState = iota
	StateStanding
	StateMoving
	StateRunning
	StateCrouchingStanding
	StateCrouchingFalling
	StateFalling
	StateRising
)

var movementStateNames = [...]string{
	StateUnset:             "unset",
	StateStanding:          "standing",
	StateMoving:            "moving",
	StateRunning:           "running",
	StateCrouchingStanding: "crouching_standing",
	StateCrouchingFalling:  "crouching_falling",
	StateFalling:           "falling",
	StateRising:            "rising",
}

func (s MovementState) String() string {
	if int(s) < len(movementStateNames) {
		return movementStateNames[s]
	}
	return "unknown"
}

func (s MovementState) Crouching() bool {
	return s == StateCrouchingStanding || s == StateCrouchingFalling
}

func (s MovementState) Airborne() bool {
	return s == StateFalling || s == StateRising || s == StateCrouchingFalling
}

// MovementStateMachine stores the active state and the parameters its
// enter effect selected.
type MovementStateMachine struct {
	State        MovementState
	Speed        float64
	Acceleration float64
	JumpHeight   float64
	Crouch       bool
	// EnteredAt is the frame of the last transition.
	EnteredAt uint64
}

var MovementStateMachineComponent = NewComponent[MovementStateMachine]()
