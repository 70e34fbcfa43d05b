package main

import (
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/locomotion/sim"
)

func main() {
	fs := flag.NewFlagSet("sidescroller", flag.ExitOnError)
	debug := fs.Bool("debug", false, "draw physics shapes and sensor rays")
	baseMonitor := fs.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	watch := fs.Bool("watch", true, "reload prefab overrides when they change on disk")
	cfg, err := sim.ParseConfig(fs, os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	logger := cfg.Logger(os.Stderr)

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("locomotion")
	ebiten.SetTPS(60)

	game, err := NewGame(cfg, logger, *debug, *watch)
	if err != nil {
		log.Fatal(err)
	}

	runErr := ebiten.RunGame(game)
	if err := game.Close(); err != nil {
		logger.Warn("close", "err", err)
	}
	if runErr != nil {
		log.Fatal(runErr)
	}
}
