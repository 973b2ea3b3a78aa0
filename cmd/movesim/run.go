package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/firstperson/common"
	"github.com/milk9111/firstperson/config"
	"github.com/milk9111/firstperson/ecs"
	"github.com/milk9111/firstperson/ecs/component"
	"github.com/milk9111/firstperson/ecs/entity"
	"github.com/milk9111/firstperson/ecs/system"
	"github.com/milk9111/firstperson/physics"
)

type RunCmd struct {
	Level string `help:"Level prefab to load; overrides the config." placeholder:"PATH"`
	Ticks int    `help:"Number of ticks to simulate." default:"300"`
	Every int    `help:"Print every body each N ticks; 0 prints transitions only." default:"30"`

	Forward     bool    `help:"Hold forward on the controlled body."`
	Strafe      float64 `help:"Strafe input in [-1, 1]."`
	Sprint      bool    `help:"Hold run."`
	Turn        float64 `help:"Yaw per tick in radians; positive turns right."`
	Jump        []int   `help:"Ticks on which jump is pressed."`
	CrouchFrom  int     `help:"First tick with crouch held." default:"-1"`
	CrouchUntil int     `help:"First tick with crouch released." default:"-1"`
}

// scriptedInput feeds the controlled bodies from the command line instead
// of devices.
type scriptedInput struct {
	cmd   *RunCmd
	jumps map[int]bool
}

func newScriptedInput(cmd *RunCmd) *scriptedInput {
	jumps := make(map[int]bool, len(cmd.Jump))
	for _, f := range cmd.Jump {
		jumps[f] = true
	}
	return &scriptedInput{cmd: cmd, jumps: jumps}
}

func (s *scriptedInput) at(frame int) component.Input {
	var in component.Input
	if s.cmd.Forward {
		in.Move[1] = 1
	}
	in.Move[0] = mgl64.Clamp(s.cmd.Strafe, -1, 1)
	if l := in.Move.Len(); l > 1 {
		in.Move = in.Move.Mul(1 / l)
	}
	in.Look[0] = s.cmd.Turn
	in.Running = s.cmd.Sprint
	in.Crouching = s.cmd.CrouchFrom >= 0 && frame >= s.cmd.CrouchFrom &&
		(s.cmd.CrouchUntil < 0 || frame < s.cmd.CrouchUntil)
	in.Jump = s.jumps[frame]
	in.JumpPressed = in.Jump && !s.jumps[frame-1]
	return in
}

func (s *scriptedInput) Update(w *ecs.World, tick ecs.Tick) {
	in := s.at(int(tick.Frame))
	for _, e := range w.Query(component.ControlledTagComponent.Kind(), component.InputComponent.Kind()) {
		input, _ := ecs.Get(w, e, component.InputComponent.Kind())
		*input = in
	}
}

// Execute loads the level, runs the scheduler for Ticks ticks and writes a
// report to out.
func (r *RunCmd) Execute(cfg *config.Config, out io.Writer) error {
	if r.Level != "" {
		cfg.Simulation.Level = r.Level
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	w := ecs.NewWorld()
	pw := physics.NewWorld()
	chars, err := entity.BuildLevel(w, pw, cfg.Simulation.Level)
	if err != nil {
		return err
	}
	sched := system.NewMovementScheduler(cfg, pw, newScriptedInput(r))
	dt := cfg.Simulation.Dt()

	fmt.Fprintf(out, "level %s: %d bodies, %d colliders, dt %.4f\n", cfg.Simulation.Level, len(chars), pw.Len(), dt)
	for frame := 0; frame < r.Ticks; frame++ {
		sched.Update(w, ecs.Tick{Dt: dt, Frame: uint64(frame)})

		for _, ev := range w.Events().Drain() {
			if sc, ok := ev.Data.(ecs.StateChangedEvent); ok {
				fmt.Fprintf(out, "%6d  %-12s %s -> %s\n", sc.Frame, bodyName(w, sc.Entity), sc.From, sc.To)
			}
		}
		if r.Every > 0 && frame%r.Every == 0 {
			for _, c := range chars {
				fmt.Fprintf(out, "%6d  %s\n", frame, describeBody(w, c.Body))
			}
		}
	}

	fmt.Fprintln(out, "final:")
	for _, c := range chars {
		fmt.Fprintf(out, "        %s\n", describeBody(w, c.Body))
	}
	return nil
}

func bodyName(w *ecs.World, e ecs.Entity) string {
	name := e.String()
	if a, ok := ecs.Get(w, e, component.ArchetypeComponent.Kind()); ok {
		name = strings.TrimSuffix(a.Prefab, ".yaml")
	}
	return name
}

func describeBody(w *ecs.World, e ecs.Entity) string {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return bodyName(w, e) + " gone"
	}
	v, _ := ecs.Get(w, e, component.VelocityComponent.Kind())
	g, _ := ecs.Get(w, e, component.GroundingComponent.Kind())
	m, _ := ecs.Get(w, e, component.MovementStateMachineComponent.Kind())
	c, _ := ecs.Get(w, e, component.CapsuleColliderComponent.Kind())

	return fmt.Sprintf("%-12s %-18s pos=(%7.3f %7.3f %7.3f) h=%5.2f vy=%6.2f half=%.3f grounded=%v",
		bodyName(w, e),
		m.State,
		t.Position.X(), t.Position.Y(), t.Position.Z(),
		common.Reject(v.Linear, common.Up).Len(),
		v.Linear.Y(),
		c.HalfHeight,
		g.Grounded,
	)
}
