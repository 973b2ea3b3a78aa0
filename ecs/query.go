package ecs

import "github.com/milk9111/firstperson/ecs/component"

// Query returns the live entities that have every listed component. The
// result is a snapshot, so callers may add or remove components while
// iterating it.
func (w *World) Query(kinds ...component.Kind) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}
	sets := make([]*SparseSet, 0, len(kinds))
	for _, k := range kinds {
		set := w.stores[k.ID()]
		if set == nil || set.Len() == 0 {
			return nil
		}
		sets = append(sets, set)
	}
	// iterate the smallest set
	smallest := 0
	for i, s := range sets {
		if s.Len() < sets[smallest].Len() {
			smallest = i
		}
	}

	out := make([]Entity, 0, sets[smallest].Len())
	for _, id := range sets[smallest].ids() {
		match := true
		for i, s := range sets {
			if i != smallest && !s.Has(id) {
				match = false
				break
			}
		}
		if !match {
			continue
		}
		if e, ok := w.entities.current(id); ok {
			out = append(out, e)
		}
	}
	return out
}

// First returns the first live entity with every listed component.
func (w *World) First(kinds ...component.Kind) (Entity, bool) {
	ents := w.Query(kinds...)
	if len(ents) == 0 {
		return 0, false
	}
	return ents[0], true
}
