package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/milk9111/firstperson/config"
	"github.com/milk9111/firstperson/logger"
	"gopkg.in/yaml.v3"
)

var CLI struct {
	Debug  bool   `help:"Whether to enable debug logging."`
	Config string `help:"Configuration file; defaults are used when missing." type:"path" default:"config.yaml"`

	Run RunCmd `cmd:"" default:"withargs" help:"Run a level headless and print every body's movement state."`

	Defaults struct {
	} `cmd:"" help:"Write the default configuration to standard output."`
}

func writeError(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	os.Exit(1)
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("movesim"),
		kong.Description("headless first-person movement simulator"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		writeError(err)
	}

	level := cfg.Logging.Level
	if CLI.Debug {
		level = "debug"
	}
	if err := logger.Init(level, cfg.Logging.LogFile); err != nil {
		writeError(err)
	}
	defer logger.Sync()

	switch ctx.Command() {
	case "run":
		if err := CLI.Run.Execute(cfg, os.Stdout); err != nil {
			writeError(err)
		}
	case "defaults":
		out, err := yaml.Marshal(config.Default())
		if err != nil {
			writeError(err)
		}
		os.Stdout.Write(out)
	}
}
