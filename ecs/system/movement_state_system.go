package system

import (
	"github.com/milk9111/firstperson/common"
	"github.com/milk9111/firstperson/config"
	"github.com/milk9111/firstperson/ecs"
	"github.com/milk9111/firstperson/ecs/component"
	"github.com/milk9111/firstperson/logger"
	"go.uber.org/zap"
)

// MovementStateSystem advances the movement state machine of every body.
type MovementStateSystem struct {
	cfg config.MotionConfig
	log *zap.Logger
}

func NewMovementStateSystem(cfg config.MotionConfig) *MovementStateSystem {
	return &MovementStateSystem{cfg: cfg, log: logger.Named("state")}
}

func (s *MovementStateSystem) Update(w *ecs.World, tick ecs.Tick) {
	if s == nil || w == nil {
		return
	}
	up := upAxis(s.cfg)

	for _, e := range w.Query(
		component.MovementStateMachineComponent.Kind(),
		component.MovementParamsComponent.Kind(),
		component.GroundingComponent.Kind(),
		component.VelocityComponent.Kind(),
	) {
		m, _ := ecs.Get(w, e, component.MovementStateMachineComponent.Kind())
		params, _ := ecs.Get(w, e, component.MovementParamsComponent.Kind())
		g, _ := ecs.Get(w, e, component.GroundingComponent.Kind())
		v, _ := ecs.Get(w, e, component.VelocityComponent.Kind())

		var input component.Input
		if in, ok := ecs.Get(w, e, component.InputComponent.Kind()); ok {
			input = *in
		}

		vertical := v.Linear.Dot(up)
		horizontal := common.Reject(v.Linear, up).Len()

		ctx := &movementContext{
			Machine: m,
			Params:  params,
			Sensors: StateSensors{
				Grounded:        g.Grounded,
				CanStandUp:      g.CanStandUp,
				HorizontalSpeed: horizontal,
				VerticalSpeed:   vertical,
				WantsMove:       input.Move.Len() > 0,
				Running:         input.Running,
				Crouching:       input.Crouching,
				Controlled:      ecs.Has(w, e, component.ControlledTagComponent.Kind()),
				SpeedEpsilon:    s.cfg.SpeedEpsilon,
			},
		}
		if blend, ok := ecs.Get(w, e, component.AnimationBlendComponent.Kind()); ok {
			ctx.Animator = blend
		}

		from, to, changed := step(ctx, tick.Frame)
		if !changed {
			continue
		}
		s.log.Debug("transition",
			zap.Uint64("entity", uint64(e)),
			zap.String("from", stateHandler(from).Name()),
			zap.String("to", stateHandler(to).Name()),
			zap.Uint64("frame", tick.Frame),
		)
		w.Events().Push(ecs.Event{
			Type: ecs.EventStateChanged,
			Data: ecs.StateChangedEvent{Entity: e, From: from.String(), To: to.String(), Frame: tick.Frame},
		})
	}
}
