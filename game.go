package main

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/firstperson/common"
	"github.com/milk9111/firstperson/config"
	"github.com/milk9111/firstperson/ecs"
	"github.com/milk9111/firstperson/ecs/component"
	"github.com/milk9111/firstperson/ecs/entity"
	"github.com/milk9111/firstperson/ecs/system"
	"github.com/milk9111/firstperson/logger"
	"github.com/milk9111/firstperson/physics"
	"github.com/milk9111/firstperson/prefabs"
	"go.uber.org/zap"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	// mapScale is pixels per metre on the top-down debug map.
	mapScale = 40

	recentTransitions = 6
)

type Game struct {
	cfg     *config.Config
	world   *ecs.World
	physics *physics.World
	sched   *ecs.Scheduler
	watcher *prefabs.Watcher
	log     *zap.Logger

	level  prefabs.LevelSpec
	chars  []entity.Character
	player entity.Character

	frame  uint64
	acc    float64
	last   time.Time
	paused bool
	quit   bool
	debug  bool

	pauseUI *ebitenui.UI

	transitions []ecs.StateChangedEvent
}

func NewGame(cfg *config.Config, debug bool) (*Game, error) {
	g := &Game{
		cfg:     cfg,
		world:   ecs.NewWorld(),
		physics: physics.NewWorld(),
		log:     logger.Named("game"),
		debug:   debug,
		last:    time.Now(),
	}
	g.sched = system.NewMovementScheduler(cfg, g.physics, system.NewInputSystem(cfg.Input))
	g.pauseUI = NewPauseUI(g)

	if err := g.loadLevel(cfg.Simulation.Level); err != nil {
		return nil, err
	}

	if cfg.Simulation.WatchPrefabs {
		w, err := prefabs.NewWatcher(prefabs.Dir, prefabs.Dir+"/levels", prefabs.Dir+"/scripts")
		if err != nil {
			g.log.Warn("prefab hot reload disabled", zap.Error(err))
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

func (g *Game) loadLevel(path string) error {
	spec, err := prefabs.LoadLevelSpec(path)
	if err != nil {
		return err
	}
	chars, err := entity.BuildLevel(g.world, g.physics, path)
	if err != nil {
		return err
	}
	g.level = spec
	g.chars = chars
	g.player = entity.Character{}
	for _, c := range chars {
		if ecs.Has(g.world, c.Body, component.ControlledTagComponent.Kind()) {
			g.player = c
			break
		}
	}
	if !ecs.IsAlive(g.world, g.player.Body) {
		g.log.Warn("level has no controlled character", zap.String("level", path))
	}
	return nil
}

func (g *Game) reloadLevel(path string) {
	for _, c := range g.chars {
		entity.DestroyCharacter(g.world, g.physics, c.Body)
	}
	entity.ClearLevelGeometry(g.physics)
	g.chars = nil
	g.transitions = nil
	if err := g.loadLevel(path); err != nil {
		g.log.Error("reload level", zap.String("level", path), zap.Error(err))
	}
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) setPaused(paused bool) {
	g.paused = paused
	if paused {
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
	} else {
		ebiten.SetCursorMode(ebiten.CursorModeCaptured)
	}
	// the pause frame should not count as simulated time
	g.last = time.Now()
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.setPaused(!g.paused)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.debug = !g.debug
	}

	g.applyPrefabChanges()

	now := time.Now()
	elapsed := now.Sub(g.last).Seconds()
	g.last = now
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	dt := g.cfg.Simulation.Dt()
	g.acc += elapsed
	ticks := 0
	for g.acc >= dt && ticks < g.cfg.Simulation.MaxTicksPerFrame {
		g.tick(dt)
		g.acc -= dt
		ticks++
	}
	if g.acc >= dt {
		g.log.Debug("dropping simulation backlog", zap.Float64("seconds", g.acc))
		g.acc = 0
	}
	return nil
}

func (g *Game) tick(dt float64) {
	g.sched.Update(g.world, ecs.Tick{Dt: dt, Frame: g.frame})
	g.frame++

	for _, ev := range g.world.Events().Drain() {
		sc, ok := ev.Data.(ecs.StateChangedEvent)
		if !ok {
			continue
		}
		g.transitions = append(g.transitions, sc)
		if len(g.transitions) > recentTransitions {
			g.transitions = g.transitions[1:]
		}
	}
}

// applyPrefabChanges drains the watcher between ticks.
func (g *Game) applyPrefabChanges() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case change, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.applyChange(change)
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			g.log.Warn("prefab watcher", zap.Error(err))
		default:
			return
		}
	}
}

func (g *Game) applyChange(change prefabs.Change) {
	switch change.Kind {
	case prefabs.ChangeArchetype:
		n, err := entity.ReloadArchetype(g.world, change.Name)
		if err != nil {
			g.log.Error("reload archetype", zap.String("prefab", change.Name), zap.Error(err))
			return
		}
		g.log.Info("reloaded archetype", zap.String("prefab", change.Name), zap.Int("bodies", n))
	case prefabs.ChangeLevel:
		if change.Name != prefabs.Rel(g.cfg.Simulation.Level) {
			return
		}
		g.reloadLevel(g.cfg.Simulation.Level)
		g.log.Info("reloaded level", zap.String("level", change.Name))
	case prefabs.ChangeScript:
		n, err := entity.ReloadGhostScript(g.world, change.Name)
		if err != nil {
			g.log.Error("reload script", zap.String("script", change.Name), zap.Error(err))
			return
		}
		g.log.Info("reloaded script", zap.String("script", change.Name), zap.Int("ghosts", n))
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 0x18, G: 0x1c, B: 0x22, A: 0xff})
	g.drawMap(screen)

	var b strings.Builder
	fmt.Fprintf(&b, "Frames: %d    FPS: %.2f    TPS: %.2f    level: %s\n", g.frame, ebiten.ActualFPS(), ebiten.ActualTPS(), g.level.Name)
	if g.debug {
		g.writeBodyDebug(&b)
	}
	ebitenutil.DebugPrint(screen, b.String())

	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) writeBodyDebug(b *strings.Builder) {
	e := g.player.Body
	if !ecs.IsAlive(g.world, e) {
		return
	}
	t, _ := ecs.Get(g.world, e, component.TransformComponent.Kind())
	v, _ := ecs.Get(g.world, e, component.VelocityComponent.Kind())
	gr, _ := ecs.Get(g.world, e, component.GroundingComponent.Kind())
	m, _ := ecs.Get(g.world, e, component.MovementStateMachineComponent.Kind())
	c, _ := ecs.Get(g.world, e, component.CapsuleColliderComponent.Kind())
	if t == nil || v == nil || gr == nil || m == nil || c == nil {
		return
	}

	fmt.Fprintf(b, "state: %s (since frame %d)\n", m.State, m.EnteredAt)
	fmt.Fprintf(b, "pos: %.3f %.3f %.3f\n", t.Position.X(), t.Position.Y(), t.Position.Z())
	fmt.Fprintf(b, "vel: %.3f %.3f %.3f  h: %.3f\n", v.Linear.X(), v.Linear.Y(), v.Linear.Z(), common.Reject(v.Linear, common.Up).Len())
	fmt.Fprintf(b, "grounded: %v  gap: %.4f  snapped: %v  can stand: %v\n", gr.Grounded, gr.Gap, gr.Snapped, gr.CanStandUp)
	fmt.Fprintf(b, "half height: %.3f  speed: %.2f  accel: %.2f  jump: %.2f\n", c.HalfHeight, m.Speed, m.Acceleration, m.JumpHeight)

	if head, ok := ecs.Get(g.world, g.player.Head, component.HeadComponent.Kind()); ok {
		fmt.Fprintf(b, "pitch: %.1f deg\n", mgl64.RadToDeg(head.Pitch))
	}
	if blend, ok := ecs.Get(g.world, e, component.AnimationBlendComponent.Kind()); ok {
		fmt.Fprintf(b, "walk: %.2f  run: %.2f x%.2f\n",
			blend.Weight(component.TrackWalk), blend.Weight(component.TrackRun), blend.Speed(component.TrackRun))
	}
	for _, tr := range g.transitions {
		fmt.Fprintf(b, "  [%d] %d: %s -> %s\n", tr.Frame, tr.Entity, tr.From, tr.To)
	}
}

// drawMap renders a top-down view centred on the controlled body.
func (g *Game) drawMap(screen *ebiten.Image) {
	var centre mgl64.Vec3
	if t, ok := ecs.Get(g.world, g.player.Body, component.TransformComponent.Kind()); ok {
		centre = t.Position
	}
	toScreen := func(p mgl64.Vec3) (float32, float32) {
		x := (p.X()-centre.X())*mapScale + baseWidth/2
		y := (p.Z()-centre.Z())*mapScale + baseHeight/2
		return float32(x), float32(y)
	}

	solidColor := color.RGBA{R: 0x70, G: 0x80, B: 0x90, A: 0xff}
	for _, col := range g.physics.Colliders() {
		switch s := col.Solid.(type) {
		case physics.Box:
			x, y := toScreen(s.Center.Sub(s.HalfExtents))
			w, h := float32(2*s.HalfExtents.X()*mapScale), float32(2*s.HalfExtents.Z()*mapScale)
			vector.StrokeRect(screen, x, y, w, h, 1, solidColor, false)
		case physics.Sphere:
			x, y := toScreen(s.Center)
			vector.StrokeCircle(screen, x, y, float32(s.Radius*mapScale), 1, solidColor, true)
		}
	}

	ecs.ForEach2(g.world,
		component.TransformComponent.Kind(),
		component.CapsuleColliderComponent.Kind(),
		func(e ecs.Entity, t *component.Transform, c *component.CapsuleCollider) {
			clr := color.RGBA{R: 0xd0, G: 0x90, B: 0x40, A: 0xff}
			if e == g.player.Body {
				clr = color.RGBA{R: 0x40, G: 0xc0, B: 0x70, A: 0xff}
			}
			x, y := toScreen(t.Position)
			r := float32(c.Radius * mapScale)
			vector.StrokeCircle(screen, x, y, r, 2, clr, true)

			fx, fy := toScreen(t.Position.Add(t.Forward().Mul(c.Radius * 2)))
			vector.StrokeLine(screen, x, y, fx, fy, 2, clr, true)

			if m, ok := ecs.Get(g.world, e, component.MovementStateMachineComponent.Kind()); ok && m.State.Crouching() {
				vector.FillCircle(screen, x, y, r/2, clr, true)
			}
		},
	)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
