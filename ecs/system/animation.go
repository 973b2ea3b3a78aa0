package system

import (
	"time"

	"github.com/milk9111/firstperson/ecs"
	"github.com/milk9111/firstperson/ecs/component"
)

// AnimationBlendSystem advances every blend by the tick duration.
type AnimationBlendSystem struct{}

func NewAnimationBlendSystem() *AnimationBlendSystem {
	return &AnimationBlendSystem{}
}

func (s *AnimationBlendSystem) Update(w *ecs.World, tick ecs.Tick) {
	if w == nil {
		return
	}
	dt := time.Duration(tick.Dt * float64(time.Second))
	ecs.ForEach(w, component.AnimationBlendComponent.Kind(), func(_ ecs.Entity, b *component.AnimationBlend) {
		b.Advance(dt)
	})
}
