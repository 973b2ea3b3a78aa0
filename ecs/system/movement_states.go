package system

import (
	"time"

	"github.com/milk9111/firstperson/common"
	"github.com/milk9111/firstperson/ecs/component"
)

const animationBlend = common.AnimationBlendDurationMs * time.Millisecond

// StateSensors is everything a state needs to pick its successor.
type StateSensors struct {
	Grounded        bool
	CanStandUp      bool
	HorizontalSpeed float64
	VerticalSpeed   float64
	// WantsMove is set while the move input is non-zero.
	WantsMove bool
	Running   bool
	Crouching bool
	// Controlled bodies gate run and crouch on the held input flags; other
	// bodies never run or crouch by choice.
	Controlled   bool
	SpeedEpsilon float64
}

func (s StateSensors) moving() bool {
	return s.WantsMove || s.HorizontalSpeed > s.SpeedEpsilon
}

func (s StateSensors) running() bool {
	return s.Controlled && s.Running
}

func (s StateSensors) crouching() bool {
	return s.Controlled && s.Crouching
}

func (s StateSensors) rising() bool {
	return s.VerticalSpeed > s.SpeedEpsilon
}

func (s StateSensors) falling() bool {
	return s.VerticalSpeed < -s.SpeedEpsilon
}

// onGround picks the upright grounded state by speed and run input.
func (s StateSensors) onGround() component.MovementState {
	switch {
	case s.moving() && s.running():
		return component.StateRunning
	case s.moving():
		return component.StateMoving
	default:
		return component.StateStanding
	}
}

// movementContext is handed to every state handler.
type movementContext struct {
	Machine  *component.MovementStateMachine
	Params   *component.MovementParams
	Animator component.Animator
	Sensors  StateSensors
}

func (ctx *movementContext) transition(track string, target float64) {
	if ctx.Animator != nil {
		ctx.Animator.SetTransition(track, target, animationBlend)
	}
}

func (ctx *movementContext) speed(track string, rate float64) {
	if ctx.Animator != nil {
		ctx.Animator.SetSpeed(track, rate)
	}
}

// movementState is one entry of the dispatch table. Next must be a pure
// function of the sensors.
type movementState interface {
	Name() string
	Enter(ctx *movementContext)
	Exit(ctx *movementContext)
	Update(ctx *movementContext)
	Next(s StateSensors) component.MovementState
}

var movementStates = [...]movementState{
	component.StateUnset:             unsetState{},
	component.StateStanding:          standingState{},
	component.StateMoving:            movingState{},
	component.StateRunning:           runningState{},
	component.StateCrouchingStanding: crouchingStandingState{},
	component.StateCrouchingFalling:  crouchingFallingState{},
	component.StateFalling:           fallingState{},
	component.StateRising:            risingState{},
}

func stateHandler(s component.MovementState) movementState {
	if int(s) < len(movementStates) {
		return movementStates[s]
	}
	return unsetState{}
}

type unsetState struct{}

type standingState struct{}

type movingState struct{}

type runningState struct{}

type crouchingStandingState struct{}

type crouchingFallingState struct{}

type fallingState struct{}

type risingState struct{}

func (unsetState) Name() string                { return "unset" }
func (unsetState) Enter(ctx *movementContext)  {}
func (unsetState) Exit(ctx *movementContext)   {}
func (unsetState) Update(ctx *movementContext) {}
func (unsetState) Next(s StateSensors) component.MovementState {
	if s.Grounded {
		return component.StateStanding
	}
	return component.StateFalling
}

func walkParams(ctx *movementContext) {
	ctx.Machine.Speed = ctx.Params.WalkSpeed
	ctx.Machine.Acceleration = ctx.Params.StandAcceleration
	ctx.Machine.JumpHeight = ctx.Params.StandJumpHeight
	ctx.Machine.Crouch = false
}

func (standingState) Name() string { return "standing" }
func (standingState) Enter(ctx *movementContext) {
	walkParams(ctx)
}
func (standingState) Exit(ctx *movementContext)   {}
func (standingState) Update(ctx *movementContext) {}
func (standingState) Next(s StateSensors) component.MovementState {
	if !s.Grounded {
		if s.crouching() {
			return component.StateCrouchingFalling
		}
		return component.StateFalling
	}
	if s.crouching() {
		return component.StateCrouchingStanding
	}
	return s.onGround()
}

func (movingState) Name() string { return "moving" }
func (movingState) Enter(ctx *movementContext) {
	walkParams(ctx)
}
func (movingState) Exit(ctx *movementContext)   {}
func (movingState) Update(ctx *movementContext) {}
func (movingState) Next(s StateSensors) component.MovementState {
	if !s.Grounded {
		switch {
		case s.crouching():
			return component.StateCrouchingFalling
		case s.rising():
			return component.StateRising
		default:
			return component.StateFalling
		}
	}
	if s.crouching() {
		return component.StateCrouchingStanding
	}
	return s.onGround()
}

func (runningState) Name() string { return "running" }
func (runningState) Enter(ctx *movementContext) {
	ctx.Machine.Speed = ctx.Params.RunSpeed
	ctx.Machine.Acceleration = ctx.Params.StandAcceleration
	ctx.Machine.JumpHeight = ctx.Params.StandJumpHeight
	ctx.Machine.Crouch = false
	ctx.transition(component.TrackRun, 1)
}
func (runningState) Exit(ctx *movementContext) {
	ctx.transition(component.TrackRun, 0)
}
func (runningState) Update(ctx *movementContext) {
	if ctx.Params.RunSpeed <= 0 {
		return
	}
	ctx.speed(component.TrackRun, ctx.Sensors.HorizontalSpeed/ctx.Params.RunSpeed)
}
func (runningState) Next(s StateSensors) component.MovementState {
	if !s.Grounded {
		if s.crouching() {
			return component.StateCrouchingFalling
		}
		return component.StateFalling
	}
	if s.crouching() {
		return component.StateCrouchingStanding
	}
	if !s.running() || !s.moving() {
		return component.StateMoving
	}
	return component.StateRunning
}

func (crouchingStandingState) Name() string { return "crouching_standing" }
func (crouchingStandingState) Enter(ctx *movementContext) {
	ctx.Machine.Speed = ctx.Params.CrouchSpeed
	ctx.Machine.Acceleration = ctx.Params.StandAcceleration
	ctx.Machine.JumpHeight = ctx.Params.CrouchJumpHeight
	ctx.Machine.Crouch = true
}
func (crouchingStandingState) Exit(ctx *movementContext) {
	ctx.transition(component.TrackWalk, 0)
}
func (crouchingStandingState) Update(ctx *movementContext) {
	weight := 0.0
	if ctx.Params.CrouchSpeed > 0 {
		weight = common.Clamp01(ctx.Sensors.HorizontalSpeed / ctx.Params.CrouchSpeed)
	}
	ctx.transition(component.TrackWalk, weight)
}
func (crouchingStandingState) Next(s StateSensors) component.MovementState {
	stay := s.crouching() || !s.CanStandUp
	if !s.Grounded {
		if stay {
			return component.StateCrouchingFalling
		}
		return component.StateFalling
	}
	if stay {
		return component.StateCrouchingStanding
	}
	return s.onGround()
}

func (crouchingFallingState) Name() string { return "crouching_falling" }
func (crouchingFallingState) Enter(ctx *movementContext) {
	ctx.Machine.Speed = ctx.Params.CrouchSpeed
	ctx.Machine.Acceleration = ctx.Params.FallAcceleration
	ctx.Machine.JumpHeight = ctx.Params.CrouchJumpHeight
	ctx.Machine.Crouch = true
}
func (crouchingFallingState) Exit(ctx *movementContext)   {}
func (crouchingFallingState) Update(ctx *movementContext) {}
func (crouchingFallingState) Next(s StateSensors) component.MovementState {
	if !s.Grounded {
		return component.StateCrouchingFalling
	}
	if s.crouching() || !s.CanStandUp {
		return component.StateCrouchingStanding
	}
	return s.onGround()
}

func (fallingState) Name() string { return "falling" }
func (fallingState) Enter(ctx *movementContext) {
	ctx.Machine.Speed = ctx.Params.FallSpeed
	ctx.Machine.Acceleration = ctx.Params.FallAcceleration
	ctx.Machine.JumpHeight = ctx.Params.StandJumpHeight
	ctx.Machine.Crouch = false
}
func (fallingState) Exit(ctx *movementContext)   {}
func (fallingState) Update(ctx *movementContext) {}
func (fallingState) Next(s StateSensors) component.MovementState {
	if !s.Grounded {
		if s.crouching() {
			return component.StateCrouchingFalling
		}
		return component.StateFalling
	}
	if s.crouching() {
		return component.StateCrouchingStanding
	}
	return s.onGround()
}

// Rising keeps the parameters of the state it took off from.
func (risingState) Name() string                { return "rising" }
func (risingState) Enter(ctx *movementContext)  {}
func (risingState) Exit(ctx *movementContext)   {}
func (risingState) Update(ctx *movementContext) {}
func (risingState) Next(s StateSensors) component.MovementState {
	if s.Grounded {
		switch {
		case s.crouching():
			return component.StateCrouchingStanding
		case s.moving():
			return component.StateMoving
		default:
			return component.StateStanding
		}
	}
	switch {
	case s.crouching():
		return component.StateCrouchingFalling
	case s.falling():
		return component.StateFalling
	default:
		return component.StateRising
	}
}

// step runs one tick of the machine: at most one transition, then the
// update of the active state. It reports whether the state changed.
func step(ctx *movementContext, frame uint64) (from, to component.MovementState, changed bool) {
	from = ctx.Machine.State
	to = stateHandler(from).Next(ctx.Sensors)
	if to != from && to != component.StateUnset {
		stateHandler(from).Exit(ctx)
		ctx.Machine.State = to
		ctx.Machine.EnteredAt = frame
		stateHandler(to).Enter(ctx)
		changed = true
	} else {
		to = from
	}
	stateHandler(ctx.Machine.State).Update(ctx)
	return from, to, changed
}
