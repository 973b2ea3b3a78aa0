package system

import (
	"github.com/milk9111/firstperson/config"
	"github.com/milk9111/firstperson/ecs"
	"github.com/milk9111/firstperson/physics"
)

// NewMovementScheduler wires the character systems in tick order. input
// fills the controlled bodies' Input and may be nil when something else
// writes it.
func NewMovementScheduler(cfg *config.Config, pw *physics.World, input ecs.System) *ecs.Scheduler {
	motion := cfg.Motion
	s := ecs.NewScheduler()
	if input != nil {
		s.Add(input)
	}
	s.Add(NewGhostInputSystem())
	s.Add(NewLookSystem(motion))
	s.Add(NewGroundProbeSystem(pw, motion))
	s.Add(NewColliderHeightSystem(motion))
	s.Add(NewMovementStateSystem(motion))
	s.Add(NewMovementIntegrateSystem(motion))
	s.Add(NewCharacterMotionSystem(pw, motion))
	s.Add(NewColliderSyncSystem(pw))
	s.Add(NewHeadPoseSystem())
	s.Add(NewAnimationBlendSystem())
	return s
}
