package system

import (
	"errors"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/firstperson/ecs"
	"github.com/milk9111/firstperson/ecs/component"
	"github.com/milk9111/firstperson/logger"
	"go.uber.org/zap"
)

var errEmptyScript = errors.New("empty ghost script")

// ghostScriptInputs are the globals a ghost script can read.
var ghostScriptInputs = map[string]any{
	"frame":    0,
	"dt":       0.0,
	"pos_x":    0.0,
	"pos_y":    0.0,
	"pos_z":    0.0,
	"grounded": false,
	"state":    "",
	"memory":   map[string]any{},
}

// GhostInputSystem runs each ghost's tengo script once per tick and turns
// its move_x, move_y, look_x and jump globals into an Input.
type GhostInputSystem struct {
	log *zap.Logger
}

func NewGhostInputSystem() *GhostInputSystem {
	return &GhostInputSystem{log: logger.Named("ghost")}
}

func (s *GhostInputSystem) Update(w *ecs.World, tick ecs.Tick) {
	if s == nil || w == nil {
		return
	}

	for _, e := range w.Query(
		component.GhostTagComponent.Kind(),
		component.GhostScriptComponent.Kind(),
		component.InputComponent.Kind(),
		component.TransformComponent.Kind(),
	) {
		sc, _ := ecs.Get(w, e, component.GhostScriptComponent.Kind())
		input, _ := ecs.Get(w, e, component.InputComponent.Kind())
		t, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		if sc.Failed {
			continue
		}

		if sc.Compiled == nil {
			compiled, err := CompileGhostScript(sc.Source)
			if err != nil {
				s.log.Error("compile ghost script", zap.String("path", sc.Path), zap.Uint64("entity", uint64(e)), zap.Error(err))
				sc.Failed = true
				continue
			}
			sc.Compiled = compiled
			sc.State = &tengo.Map{Value: map[string]tengo.Object{}}
		}

		env := map[string]any{
			"frame":    int64(tick.Frame),
			"dt":       tick.Dt,
			"pos_x":    t.Position.X(),
			"pos_y":    t.Position.Y(),
			"pos_z":    t.Position.Z(),
			"grounded": false,
			"state":    "",
			"memory":   sc.State,
		}
		if g, ok := ecs.Get(w, e, component.GroundingComponent.Kind()); ok {
			env["grounded"] = g.Grounded
		}
		if m, ok := ecs.Get(w, e, component.MovementStateMachineComponent.Kind()); ok {
			env["state"] = m.State.String()
		}

		next, err := RunGhostScript(sc.Compiled, env)
		if err != nil {
			s.log.Error("run ghost script", zap.String("path", sc.Path), zap.Uint64("entity", uint64(e)), zap.Error(err))
			sc.Failed = true
			continue
		}
		next.JumpPressed = next.Jump && !input.Jump
		*input = next
	}
}

// CompileGhostScript compiles src with every ghost input global declared.
func CompileGhostScript(src []byte) (*tengo.Compiled, error) {
	if len(src) == 0 {
		return nil, errEmptyScript
	}
	script := tengo.NewScript(src)
	for name, value := range ghostScriptInputs {
		if err := script.Add(name, value); err != nil {
			return nil, err
		}
	}
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	return script.Compile()
}

// RunGhostScript sets env, runs the script and reads its outputs.
func RunGhostScript(c *tengo.Compiled, env map[string]any) (component.Input, error) {
	for name, value := range env {
		if err := c.Set(name, value); err != nil {
			return component.Input{}, err
		}
	}
	if err := c.Run(); err != nil {
		return component.Input{}, err
	}

	var in component.Input
	in.Move = mgl64.Vec2{scriptFloat(c, "move_x"), scriptFloat(c, "move_y")}
	if l := in.Move.Len(); l > 1 {
		in.Move = in.Move.Mul(1 / l)
	}
	in.Look = mgl64.Vec2{scriptFloat(c, "look_x"), 0}
	if c.IsDefined("jump") {
		in.Jump = c.Get("jump").Bool()
	}
	return in, nil
}

func scriptFloat(c *tengo.Compiled, name string) float64 {
	if !c.IsDefined(name) {
		return 0
	}
	return c.Get(name).Float()
}
