package main

import (
	"flag"
	"log"
	"path"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/firstperson/config"
	"github.com/milk9111/firstperson/logger"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config.yaml", "yaml config file (defaults when missing)")
	debug := flag.Bool("debug", false, "enable debug overlay and logging")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	levelName := flag.String("level", "", "level name in prefabs/levels/ (basename, .yaml optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	level := cfg.Logging.Level
	if *debug {
		level = "debug"
	}
	if err := logger.Init(level, cfg.Logging.LogFile); err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if *levelName != "" {
		cfg.Simulation.Level = levelPrefab(*levelName)
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("firstperson")
	ebiten.SetTPS(cfg.Simulation.TickRate)

	game, err := NewGame(cfg, *debug)
	if err != nil {
		logger.Error("start game", zap.Error(err))
		return
	}
	defer game.Close()

	ebiten.SetCursorMode(ebiten.CursorModeCaptured)

	if err := ebiten.RunGame(game); err != nil {
		logger.Error("run game", zap.Error(err))
	}
}

// levelPrefab turns a bare level name into its prefab path.
func levelPrefab(name string) string {
	if !strings.Contains(name, "/") {
		name = path.Join("levels", name)
	}
	if path.Ext(name) == "" {
		name += ".yaml"
	}
	return name
}
