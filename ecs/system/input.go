package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/firstperson/config"
	"github.com/milk9111/firstperson/ecs"
	"github.com/milk9111/firstperson/ecs/component"
)

// DeviceState is one poll of the raw devices.
type DeviceState struct {
	Forward, Back, Left, Right bool

	Run         bool
	Crouch      bool
	Jump        bool
	JumpPressed bool

	// CursorX and CursorY are absolute; Look is derived from their change.
	CursorX, CursorY float64
	HasCursor        bool

	// Stick axes are raw gamepad values in [-1, 1].
	MoveStick mgl64.Vec2
	LookStick mgl64.Vec2
}

// InputSystem samples keyboard, mouse and the first gamepad into the Input
// of the controlled body.
type InputSystem struct {
	cfg    config.InputConfig
	poll   func() DeviceState
	cursor mgl64.Vec2
	primed bool
}

func NewInputSystem(cfg config.InputConfig) *InputSystem {
	return &InputSystem{cfg: cfg, poll: PollDevices}
}

func (i *InputSystem) Update(w *ecs.World, _ ecs.Tick) {
	if i == nil || w == nil || i.poll == nil {
		return
	}
	state := i.poll()

	var look mgl64.Vec2
	if state.HasCursor {
		cur := mgl64.Vec2{state.CursorX, state.CursorY}
		if i.primed {
			look = cur.Sub(i.cursor)
		}
		i.cursor = cur
		i.primed = true
	}

	next := BindInput(state, look, i.cfg)
	for _, e := range w.Query(component.ControlledTagComponent.Kind(), component.InputComponent.Kind()) {
		input, _ := ecs.Get(w, e, component.InputComponent.Kind())
		*input = next
	}
}

// BindInput maps a device poll and a cursor delta to an Input.
func BindInput(state DeviceState, cursorDelta mgl64.Vec2, cfg config.InputConfig) component.Input {
	var move mgl64.Vec2
	if state.Right {
		move[0]++
	}
	if state.Left {
		move[0]--
	}
	if state.Forward {
		move[1]++
	}
	if state.Back {
		move[1]--
	}
	if stick := deadzone(state.MoveStick, cfg.StickDeadzone); stick != (mgl64.Vec2{}) {
		move = stick
	}
	if l := move.Len(); l > 1 {
		move = move.Mul(1 / l)
	}

	look := cursorDelta.Mul(cfg.MouseSensitivity)
	if stick := deadzone(state.LookStick, cfg.StickDeadzone); stick != (mgl64.Vec2{}) {
		look = look.Add(stick.Mul(cfg.StickSensitivity))
	}
	if cfg.InvertY {
		look[1] = -look[1]
	}

	return component.Input{
		Move:        move,
		Look:        look,
		Running:     state.Run,
		Crouching:   state.Crouch,
		Jump:        state.Jump,
		JumpPressed: state.JumpPressed,
	}
}

func deadzone(v mgl64.Vec2, dz float64) mgl64.Vec2 {
	if math.Hypot(v.X(), v.Y()) <= dz {
		return mgl64.Vec2{}
	}
	return v
}

// PollDevices reads the current ebiten device state.
func PollDevices() DeviceState {
	var s DeviceState
	s.Forward = ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp)
	s.Back = ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown)
	s.Left = ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft)
	s.Right = ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight)
	s.Run = ebiten.IsKeyPressed(ebiten.KeyShiftLeft)
	s.Crouch = ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyC)
	s.Jump = ebiten.IsKeyPressed(ebiten.KeySpace)
	s.JumpPressed = inpututil.IsKeyJustPressed(ebiten.KeySpace)

	if ebiten.CursorMode() == ebiten.CursorModeCaptured {
		x, y := ebiten.CursorPosition()
		s.CursorX, s.CursorY = float64(x), float64(y)
		s.HasCursor = true
	}

	if gamepads := ebiten.AppendGamepadIDs(nil); len(gamepads) > 0 {
		id := gamepads[0]
		s.MoveStick = mgl64.Vec2{
			ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal),
			-ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical),
		}
		s.LookStick = mgl64.Vec2{
			ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickHorizontal),
			ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickVertical),
		}
		s.Run = s.Run || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftStick)
		s.Crouch = s.Crouch || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightRight)
		s.Jump = s.Jump || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom)
		s.JumpPressed = s.JumpPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
	}
	return s
}
