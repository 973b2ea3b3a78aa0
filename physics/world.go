// Package physics implements the collision query surface used by the
// movement core: a collider arena with swept-shape and ray casts.
package physics

import "github.com/go-gl/mathgl/mgl64"

// Owner identifies the entity a collider belongs to. Zero is reserved for
// level geometry.
type Owner uint64

// ColliderHandle identifies a collider inside a World.
type ColliderHandle uint32

// Collider is a solid registered in the world.
type Collider struct {
	Handle ColliderHandle
	Owner  Owner
	Solid  Solid
	// Sensor colliders never block casts.
	Sensor bool
}

// Hit describes the first contact of a cast.
type Hit struct {
	// Distance travelled along the cast direction before contact, in the
	// same units as the direction vector.
	Distance float64
	// TimeOfImpact is the fraction of the direction vector travelled.
	TimeOfImpact float64
	Normal       mgl64.Vec3
	Point        mgl64.Vec3
	Owner        Owner
	Collider     ColliderHandle
}

// QueryFilter narrows the colliders a query considers.
type QueryFilter struct {
	Exclude   Owner
	Predicate func(c *Collider) bool
}

// ExcludeOwner returns a filter skipping colliders owned by o.
func ExcludeOwner(o Owner) QueryFilter {
	return QueryFilter{Exclude: o}
}

func (f QueryFilter) accepts(c *Collider) bool {
	if c == nil || c.Sensor {
		return false
	}
	if f.Exclude != 0 && c.Owner == f.Exclude {
		return false
	}
	if f.Predicate != nil && !f.Predicate(c) {
		return false
	}
	return true
}

// Caster is the query surface consumed by the movement core.
type Caster interface {
	CastShape(origin mgl64.Vec3, rotation mgl64.Quat, direction mgl64.Vec3, shape Shape, filter QueryFilter) (Hit, bool)
}

// World owns every collider. Colliders live in a dense slice with an index
// map so iteration order is stable between runs.
type World struct {
	colliders []*Collider
	index     map[ColliderHandle]int
	next      ColliderHandle
}

var _ Caster = (*World)(nil)

// NewWorld creates an empty physics world.
func NewWorld() *World {
	return &World{index: make(map[ColliderHandle]int)}
}

// Insert adds a solid owned by owner and returns its handle.
func (w *World) Insert(owner Owner, solid Solid) ColliderHandle {
	if w == nil || solid == nil {
		return 0
	}
	if w.index == nil {
		w.index = make(map[ColliderHandle]int)
	}
	w.next++
	h := w.next
	w.colliders = append(w.colliders, &Collider{Handle: h, Owner: owner, Solid: solid})
	w.index[h] = len(w.colliders) - 1
	return h
}

// InsertSensor adds a non-blocking collider.
func (w *World) InsertSensor(owner Owner, solid Solid) ColliderHandle {
	h := w.Insert(owner, solid)
	if c := w.Get(h); c != nil {
		c.Sensor = true
	}
	return h
}

// Get returns the collider for h, or nil.
func (w *World) Get(h ColliderHandle) *Collider {
	if w == nil {
		return nil
	}
	idx, ok := w.index[h]
	if !ok {
		return nil
	}
	return w.colliders[idx]
}

// SetSolid replaces the geometry of an existing collider.
func (w *World) SetSolid(h ColliderHandle, solid Solid) bool {
	c := w.Get(h)
	if c == nil || solid == nil {
		return false
	}
	c.Solid = solid
	return true
}

// Remove deletes the collider for h if present.
func (w *World) Remove(h ColliderHandle) bool {
	if w == nil {
		return false
	}
	idx, ok := w.index[h]
	if !ok {
		return false
	}
	last := len(w.colliders) - 1
	moved := w.colliders[last]
	w.colliders[idx] = moved
	w.index[moved.Handle] = idx
	w.colliders[last] = nil
	w.colliders = w.colliders[:last]
	delete(w.index, h)
	return true
}

// RemoveOwner deletes every collider owned by o and returns how many were removed.
func (w *World) RemoveOwner(o Owner) int {
	if w == nil {
		return 0
	}
	var handles []ColliderHandle
	for _, c := range w.colliders {
		if c.Owner == o {
			handles = append(handles, c.Handle)
		}
	}
	for _, h := range handles {
		w.Remove(h)
	}
	return len(handles)
}

// Len returns the number of colliders.
func (w *World) Len() int {
	if w == nil {
		return 0
	}
	return len(w.colliders)
}

// Colliders returns the dense collider list. Callers must not modify it.
func (w *World) Colliders() []*Collider {
	if w == nil {
		return nil
	}
	return w.colliders
}
