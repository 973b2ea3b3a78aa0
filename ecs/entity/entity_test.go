package entity

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/firstperson/ecs"
	"github.com/milk9111/firstperson/ecs/component"
	"github.com/milk9111/firstperson/physics"
	"github.com/milk9111/firstperson/prefabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCharacterFromPlayerPrefab(t *testing.T) {
	w := ecs.NewWorld()
	pw := physics.NewWorld()

	c, err := BuildCharacter(w, pw, "player.yaml", &Placement{Position: mgl64.Vec3{1, 2, 3}, Yaw: 90})
	require.NoError(t, err)

	for _, has := range []bool{
		ecs.Has(w, c.Body, component.ControlledTagComponent.Kind()),
		ecs.Has(w, c.Body, component.InputComponent.Kind()),
		ecs.Has(w, c.Body, component.VelocityComponent.Kind()),
		ecs.Has(w, c.Body, component.GroundingComponent.Kind()),
		ecs.Has(w, c.Body, component.MovementStateMachineComponent.Kind()),
		ecs.Has(w, c.Body, component.AnimationBlendComponent.Kind()),
		ecs.Has(w, c.Head, component.CameraTagComponent.Kind()),
	} {
		assert.True(t, has)
	}

	tr, _ := ecs.Get(w, c.Body, component.TransformComponent.Kind())
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, tr.Position)
	assert.InDelta(t, 0, tr.Forward().Sub(mgl64.Vec3{1, 0, 0}).Len(), 1e-9, "yaw 90 faces +x, got %v", tr.Forward())

	capsule, _ := ecs.Get(w, c.Body, component.CapsuleColliderComponent.Kind())
	assert.Equal(t, 0.5, capsule.HalfHeight)
	assert.Equal(t, 0.35, capsule.Radius)
	collider := pw.Get(capsule.Handle)
	require.NotNil(t, collider)
	assert.Equal(t, physics.Owner(c.Body), collider.Owner)

	head, _ := ecs.Get(w, c.Head, component.HeadComponent.Kind())
	assert.InDelta(t, 0.68, head.Offset.Y(), 1e-12)

	rig, _ := ecs.Get(w, c.Body, component.RigComponent.Kind())
	assert.Equal(t, uint64(c.Head), rig.Head)
	assert.Equal(t, uint64(c.UpProbe), rig.UpProbe)
	assert.Equal(t, uint64(c.DownProbe), rig.DownProbe)

	events := w.Events().Drain()
	require.Len(t, events, 1)
	assert.Equal(t, ecs.EventSpawned, events[0].Type)
}

func TestBuildCharacterGhost(t *testing.T) {
	w := ecs.NewWorld()

	c, err := BuildCharacter(w, physics.NewWorld(), "ghost.yaml", nil)
	require.NoError(t, err)

	assert.True(t, ecs.Has(w, c.Body, component.GhostTagComponent.Kind()))
	assert.False(t, ecs.Has(w, c.Body, component.ControlledTagComponent.Kind()))
	assert.False(t, ecs.Has(w, c.Head, component.CameraTagComponent.Kind()))

	sc, ok := ecs.Get(w, c.Body, component.GhostScriptComponent.Kind())
	require.True(t, ok)
	assert.NotEmpty(t, sc.Source)

	tr, _ := ecs.Get(w, c.Body, component.TransformComponent.Kind())
	assert.Equal(t, mgl64.Vec3{3, 1.5, -3}, tr.Position, "prefab transform kept without a placement")
}

func TestBuildEntityRejectsUnknownComponent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "prefabs"), 0o755))
	body := "name: odd\ncomponents:\n  input: {}\n  jetpack: {}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "prefabs", "odd.yaml"), []byte(body), 0o644))
	t.Chdir(dir)

	w := ecs.NewWorld()
	_, err := BuildEntity(w, "odd.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jetpack")
	assert.Empty(t, ecs.Entities(w), "partial entity destroyed")
}

func TestDecodeMovementValidates(t *testing.T) {
	_, err := decodeMovement(map[string]any{"radius": 0, "stand_half_height": 0.5})
	assert.Error(t, err)

	_, err = decodeMovement(map[string]any{"radius": 0.3, "stand_half_height": 0.1, "crouch_half_height": 0.2})
	assert.Error(t, err)

	p, err := decodeMovement(map[string]any{"radius": 0.3, "stand_half_height": 0.5, "crouch_half_height": 0.2})
	require.NoError(t, err)
	assert.Equal(t, 0.9, p.EyeFraction, "default eye height")
}

func TestResolveRigPanicsOnMissingLink(t *testing.T) {
	w := ecs.NewWorld()
	head := ecs.CreateEntity(w)
	up := ecs.CreateEntity(w)

	assert.Panics(t, func() {
		ResolveRig(w, map[string]ecs.Entity{rigHead: head, rigUpProbe: up})
	})

	down := ecs.CreateEntity(w)
	ecs.DestroyEntity(w, down)
	assert.Panics(t, func() {
		ResolveRig(w, map[string]ecs.Entity{rigHead: head, rigUpProbe: up, rigDownProbe: down})
	}, "dead links are missing links")
}

func TestDestroyCharacter(t *testing.T) {
	w := ecs.NewWorld()
	pw := physics.NewWorld()
	pw.Insert(0, physics.NewHalfSpace(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{}))

	c, err := BuildCharacter(w, pw, "player.yaml", nil)
	require.NoError(t, err)
	require.Equal(t, 2, pw.Len())

	assert.True(t, DestroyCharacter(w, pw, c.Body))
	for _, e := range []ecs.Entity{c.Body, c.Head, c.UpProbe, c.DownProbe} {
		assert.False(t, ecs.IsAlive(w, e))
	}
	assert.Equal(t, 1, pw.Len(), "level geometry stays")
	assert.False(t, DestroyCharacter(w, pw, c.Body), "already gone")
}

func TestBuildLevel(t *testing.T) {
	w := ecs.NewWorld()
	pw := physics.NewWorld()

	chars, err := BuildLevel(w, pw, "levels/flat.yaml")
	require.NoError(t, err)
	require.Len(t, chars, 1)
	assert.Equal(t, 2, pw.Len(), "floor plus the player capsule")

	tr, _ := ecs.Get(w, chars[0].Body, component.TransformComponent.Kind())
	assert.Equal(t, mgl64.Vec3{0, 0.87, 0}, tr.Position)

	assert.Equal(t, 1, ClearLevelGeometry(pw))
	assert.Equal(t, 1, pw.Len())
}

func TestBuildArena(t *testing.T) {
	w := ecs.NewWorld()
	pw := physics.NewWorld()

	chars, err := BuildLevel(w, pw, "levels/arena.yaml")
	require.NoError(t, err)
	assert.Len(t, chars, 2)
	assert.Greater(t, pw.Len(), len(chars))
}

func TestReloadArchetype(t *testing.T) {
	w := ecs.NewWorld()
	pw := physics.NewWorld()
	player, err := BuildCharacter(w, pw, "player.yaml", nil)
	require.NoError(t, err)
	ghost, err := BuildCharacter(w, pw, "ghost.yaml", nil)
	require.NoError(t, err)

	p, _ := ecs.Get(w, player.Body, component.MovementParamsComponent.Kind())
	p.WalkSpeed = 99
	g, _ := ecs.Get(w, ghost.Body, component.MovementParamsComponent.Kind())
	g.WalkSpeed = 99

	n, err := ReloadArchetype(w, "player.yaml")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 4.0, p.WalkSpeed)
	assert.Equal(t, 99.0, g.WalkSpeed, "other archetypes untouched")

	_, err = ReloadArchetype(w, "missing.yaml")
	assert.Error(t, err)
}

func TestReloadGhostScript(t *testing.T) {
	w := ecs.NewWorld()
	ghost, err := BuildCharacter(w, physics.NewWorld(), "ghost.yaml", nil)
	require.NoError(t, err)
	sc, _ := ecs.Get(w, ghost.Body, component.GhostScriptComponent.Kind())
	sc.Failed = true

	n, err := ReloadGhostScript(w, "scripts/ghost.tengo")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.False(t, sc.Failed)
	assert.Nil(t, sc.Compiled)
}

func TestReloadArchetypeMovesHeadToNewEyeHeight(t *testing.T) {
	w := ecs.NewWorld()
	player, err := BuildCharacter(w, physics.NewWorld(), "player.yaml", nil)
	require.NoError(t, err)
	capsule, _ := ecs.Get(w, player.Body, component.CapsuleColliderComponent.Kind())
	capsule.HalfHeight = 0.3 // mid crouch
	head, _ := ecs.Get(w, player.Head, component.HeadComponent.Kind())
	head.Offset = mgl64.Vec3{0, 0.48, 0}

	src, err := prefabs.Load("player.yaml")
	require.NoError(t, err)
	edited := strings.Replace(string(src), "eye_fraction: 0.9", "eye_fraction: 0.8", 1)
	edited = strings.Replace(edited, "stand_half_height: 0.5", "stand_half_height: 0.6", 1)
	require.NotEqual(t, string(src), edited)

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "prefabs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "prefabs", "player.yaml"), []byte(edited), 0o644))
	t.Chdir(dir)

	n, err := ReloadArchetype(w, "player.yaml")
	require.NoError(t, err)
	require.Equal(t, 1, n)

	// eye offset at the new stand height is 0.6 * 0.95 = 0.57; the capsule
	// is still 0.3 short of standing
	assert.InDelta(t, 0.27, head.Offset.Y(), 1e-9)
	assert.InDelta(t, 0, head.Offset.X(), 1e-12)
}
