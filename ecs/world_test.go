package ecs

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/firstperson/ecs/component"
)

func intPtr(i int) *int {
	return &i
}

func entitySet(ents []Entity) map[Entity]bool {
	m := make(map[Entity]bool, len(ents))
	for _, e := range ents {
		m[e] = true
	}
	return m
}

// spawnBody adds a moving body with only the components it is given.
func spawnBody(t *testing.T, w *World, pos mgl64.Vec3, vel *mgl64.Vec3, grounded *bool) Entity {
	t.Helper()
	e := CreateEntity(w)
	if err := Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos, Rotation: mgl64.QuatIdent()}); err != nil {
		t.Fatal(err)
	}
	if vel != nil {
		if err := Add(w, e, component.VelocityComponent.Kind(), &component.Velocity{Linear: *vel}); err != nil {
			t.Fatal(err)
		}
	}
	if grounded != nil {
		if err := Add(w, e, component.GroundingComponent.Kind(), &component.Grounding{Grounded: *grounded}); err != nil {
			t.Fatal(err)
		}
	}
	return e
}

func TestCharacterSpawnDespawn(t *testing.T) {
	cases := []struct {
		name    string
		spawn   int
		despawn int // -1 keeps everyone
	}{
		{"lone_player", 1, 0},
		{"player_and_two_ghosts_drop_one", 3, 1},
		{"nobody_leaves", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			bodies := make([]Entity, 0, c.spawn)
			for i := 0; i < c.spawn; i++ {
				bodies = append(bodies, spawnBody(t, w, mgl64.Vec3{float64(i), 0.87, 0}, &mgl64.Vec3{}, nil))
			}
			if got := len(Entities(w)); got != c.spawn {
				t.Fatalf("expected %d bodies, got %d", c.spawn, got)
			}
			if c.despawn < 0 {
				return
			}

			gone := bodies[c.despawn]
			if !DestroyEntity(w, gone) {
				t.Fatal("despawning a live body should succeed")
			}
			if IsAlive(w, gone) {
				t.Fatal("despawned body still alive")
			}
			if Has(w, gone, component.TransformComponent.Kind()) {
				t.Fatal("despawned body still reports a transform")
			}
			if got := len(Entities(w)); got != c.spawn-1 {
				t.Fatalf("expected %d bodies left, got %d", c.spawn-1, got)
			}
			if DestroyEntity(w, gone) {
				t.Fatal("second despawn should report false")
			}
		})
	}
}

func TestComponentPointersAreShared(t *testing.T) {
	w := NewWorld()
	body := spawnBody(t, w, mgl64.Vec3{0, 2, 0}, &mgl64.Vec3{0, -1, 0}, nil)

	tests := []struct {
		name string
		run  func(t *testing.T)
	}{
		{
			name: "mutation_through_get_is_visible",
			run: func(t *testing.T) {
				v, ok := Get(w, body, component.VelocityComponent.Kind())
				if !ok {
					t.Fatal("velocity missing")
				}
				v.Linear = mgl64.Vec3{3, 0, 0}
				again, _ := Get(w, body, component.VelocityComponent.Kind())
				if again.Linear != (mgl64.Vec3{3, 0, 0}) {
					t.Fatalf("expected the stored velocity to change, got %v", again.Linear)
				}
			},
		},
		{
			name: "add_replaces",
			run: func(t *testing.T) {
				if err := Add(w, body, component.VelocityComponent.Kind(), &component.Velocity{Linear: mgl64.Vec3{0, 5, 0}}); err != nil {
					t.Fatal(err)
				}
				v, _ := Get(w, body, component.VelocityComponent.Kind())
				if v.Linear != (mgl64.Vec3{0, 5, 0}) {
					t.Fatalf("expected replaced velocity, got %v", v.Linear)
				}
			},
		},
		{
			name: "remove_only_drops_that_kind",
			run: func(t *testing.T) {
				if !Remove(w, body, component.VelocityComponent.Kind()) {
					t.Fatal("remove should report true")
				}
				if Has(w, body, component.VelocityComponent.Kind()) {
					t.Fatal("velocity still present")
				}
				if !Has(w, body, component.TransformComponent.Kind()) {
					t.Fatal("transform should survive")
				}
				if Remove(w, body, component.VelocityComponent.Kind()) {
					t.Fatal("second remove should report false")
				}
			},
		},
		{
			name: "distinct_kinds_of_same_shape_do_not_alias",
			run: func(t *testing.T) {
				other := component.NewComponent[component.Velocity]()
				if Has(w, body, other.Kind()) {
					t.Fatal("a fresh kind must start empty")
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, tc.run)
	}
}

func TestQueryRequiresEveryKind(t *testing.T) {
	w := NewWorld()
	yes, no := true, false

	player := spawnBody(t, w, mgl64.Vec3{}, &mgl64.Vec3{}, &yes)
	if err := Add(w, player, component.ControlledTagComponent.Kind(), &component.ControlledTag{}); err != nil {
		t.Fatal(err)
	}
	ghost := spawnBody(t, w, mgl64.Vec3{2, 0, 0}, &mgl64.Vec3{}, &no)
	prop := spawnBody(t, w, mgl64.Vec3{4, 0, 0}, nil, nil)

	tests := []struct {
		name  string
		kinds []component.Kind
		want  []Entity
	}{
		{"transform", []component.Kind{component.TransformComponent.Kind()}, []Entity{player, ghost, prop}},
		{"moving", []component.Kind{component.TransformComponent.Kind(), component.VelocityComponent.Kind()}, []Entity{player, ghost}},
		{"controlled", []component.Kind{component.VelocityComponent.Kind(), component.ControlledTagComponent.Kind()}, []Entity{player}},
		{"nothing_has_a_head", []component.Kind{component.HeadComponent.Kind()}, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := entitySet(w.Query(tc.kinds...))
			if len(got) != len(tc.want) {
				t.Fatalf("expected %d matches, got %d", len(tc.want), len(got))
			}
			for _, e := range tc.want {
				if !got[e] {
					t.Fatalf("expected %v in the result", e)
				}
			}
		})
	}

	DestroyEntity(w, ghost)
	if entitySet(w.Query(component.VelocityComponent.Kind()))[ghost] {
		t.Fatal("despawned bodies must not match")
	}
}

func TestForEach2IntegratesMovingBodies(t *testing.T) {
	w := NewWorld()
	moving := spawnBody(t, w, mgl64.Vec3{0, 1, 0}, &mgl64.Vec3{6, 0, -3}, nil)
	still := spawnBody(t, w, mgl64.Vec3{5, 1, 5}, nil, nil)

	const dt = 0.5
	visits := 0
	ForEach2(w,
		component.TransformComponent.Kind(),
		component.VelocityComponent.Kind(),
		func(_ Entity, tr *component.Transform, v *component.Velocity) {
			tr.Position = tr.Position.Add(v.Linear.Mul(dt))
			visits++
		},
	)

	if visits != 1 {
		t.Fatalf("expected one moving body, visited %d", visits)
	}
	tr, _ := Get(w, moving, component.TransformComponent.Kind())
	if tr.Position != (mgl64.Vec3{3, 1, -1.5}) {
		t.Fatalf("unexpected position %v", tr.Position)
	}
	tr, _ = Get(w, still, component.TransformComponent.Kind())
	if tr.Position != (mgl64.Vec3{5, 1, 5}) {
		t.Fatalf("body without velocity moved to %v", tr.Position)
	}
}

func TestForEach3SkipsPartialBodies(t *testing.T) {
	w := NewWorld()
	yes, no := true, false
	grounded := spawnBody(t, w, mgl64.Vec3{}, &mgl64.Vec3{0, -2, 0}, &yes)
	airborne := spawnBody(t, w, mgl64.Vec3{0, 3, 0}, &mgl64.Vec3{0, -2, 0}, &no)
	spawnBody(t, w, mgl64.Vec3{1, 0, 0}, &mgl64.Vec3{}, nil)
	spawnBody(t, w, mgl64.Vec3{2, 0, 0}, nil, &yes)

	seen := map[Entity]bool{}
	ForEach3(w,
		component.TransformComponent.Kind(),
		component.VelocityComponent.Kind(),
		component.GroundingComponent.Kind(),
		func(e Entity, _ *component.Transform, v *component.Velocity, g *component.Grounding) {
			seen[e] = true
			if g.Grounded && v.Linear.Y() < 0 {
				v.Linear = mgl64.Vec3{v.Linear.X(), 0, v.Linear.Z()}
			}
		},
	)

	if len(seen) != 2 || !seen[grounded] || !seen[airborne] {
		t.Fatalf("expected exactly the two full bodies, got %v", seen)
	}
	v, _ := Get(w, grounded, component.VelocityComponent.Kind())
	if v.Linear.Y() != 0 {
		t.Fatalf("grounded body kept falling: %v", v.Linear)
	}
	v, _ = Get(w, airborne, component.VelocityComponent.Kind())
	if v.Linear.Y() != -2 {
		t.Fatalf("airborne body should keep falling: %v", v.Linear)
	}
}

func TestEntitySlotReuseBumpsGeneration(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	old := CreateEntity(w)
	if err := Add(w, old, h.Kind(), intPtr(1)); err != nil {
		t.Fatal(err)
	}
	if !DestroyEntity(w, old) {
		t.Fatal("failed to destroy entity")
	}

	fresh := CreateEntity(w)
	if fresh.id() != old.id() {
		t.Fatalf("expected slot %d to be reused, got %d", old.id(), fresh.id())
	}
	if fresh == old {
		t.Fatal("reused slot must carry a new generation")
	}
	if IsAlive(w, old) {
		t.Fatal("stale handle reported alive")
	}
	if Has(w, fresh, h.Kind()) {
		t.Fatal("components of a destroyed entity leaked into its slot")
	}
	if err := Add(w, old, h.Kind(), intPtr(2)); err != component.ErrEntityNotAlive {
		t.Fatalf("expected ErrEntityNotAlive, got %v", err)
	}
}

func TestAddRejectsNil(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()
	e := CreateEntity(w)
	if err := Add[int](w, e, h.Kind(), nil); err != component.ErrNilComponent {
		t.Fatalf("expected ErrNilComponent, got %v", err)
	}
}

func TestQuerySnapshotAllowsRemoval(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()
	for i := 0; i < 4; i++ {
		if err := Add(w, CreateEntity(w), h.Kind(), intPtr(i)); err != nil {
			t.Fatal(err)
		}
	}

	visited := 0
	for _, e := range w.Query(h.Kind()) {
		Remove(w, e, h.Kind())
		visited++
	}
	if visited != 4 {
		t.Fatalf("expected 4 visits, got %d", visited)
	}
	if _, ok := w.First(h.Kind()); ok {
		t.Fatal("expected no entity left with the component")
	}
}

type recordingSystem struct {
	name string
	log  *[]string
}

func (s recordingSystem) Update(w *World, tick Tick) {
	*s.log = append(*s.log, s.name)
	w.Events().Push(Event{Type: s.name, Data: tick.Frame})
}

func TestSchedulerRunsInOrderAndFlushesEvents(t *testing.T) {
	w := NewWorld()
	var log []string
	s := NewScheduler(recordingSystem{"a", &log}, nil, recordingSystem{"b", &log})
	s.Add(SystemFunc(func(_ *World, _ Tick) { log = append(log, "c") }))

	s.Update(w, Tick{Dt: 1.0 / 60.0, Frame: 1})
	if got := w.Events().Len(); got != 2 {
		t.Fatalf("expected 2 events after first tick, got %d", got)
	}

	s.Update(w, Tick{Dt: 1.0 / 60.0, Frame: 2})
	events := w.Events().Drain()
	if len(events) != 2 {
		t.Fatalf("expected stale events to be flushed, got %d", len(events))
	}
	if frame, _ := events[0].Data.(uint64); frame != 2 {
		t.Fatalf("expected frame 2 event, got %v", events[0].Data)
	}

	want := []string{"a", "b", "c", "a", "b", "c"}
	if len(log) != len(want) {
		t.Fatalf("expected %v, got %v", want, log)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, log)
		}
	}
}
