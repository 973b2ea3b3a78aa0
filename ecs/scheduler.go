package ecs

// Tick carries the fixed simulation step into every system.
type Tick struct {
	Dt    float64
	Frame uint64
}

type System interface {
	Update(w *World, tick Tick)
}

// SystemFunc adapts a plain function to System.
type SystemFunc func(w *World, tick Tick)

func (f SystemFunc) Update(w *World, tick Tick) {
	f(w, tick)
}

type Scheduler struct {
	systems []System
}

func NewScheduler(systems ...System) *Scheduler {
	copied := make([]System, 0, len(systems))
	for _, s := range systems {
		if s != nil {
			copied = append(copied, s)
		}
	}
	return &Scheduler{systems: copied}
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

// Update discards events left over from the previous tick, then runs every
// system in registration order.
func (s *Scheduler) Update(w *World, tick Tick) {
	w.Events().flush()
	for _, system := range s.systems {
		system.Update(w, tick)
	}
}

func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.systems))
	return append(systems, s.systems...)
}
