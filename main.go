package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/dndrepro/config"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults are embedded)")
	scenarioPath := flag.String("scenario", "", "replay scripted input from a YAML scenario file")
	exitAfter := flag.Bool("exit", false, "quit shortly after the scenario's last tick")
	placement := flag.String("placement", "", "drop placement: latest or timestamped (overrides config)")
	hud := flag.Bool("hud", true, "show the diagnostics overlay")
	verbose := flag.Bool("verbose", false, "log every cursor update")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	if cfg.Window.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)

	game, err := NewGame(cfg, Options{
		ConfigPath:   *configPath,
		ScenarioPath: *scenarioPath,
		ExitAfter:    *exitAfter,
		Placement:    *placement,
		HUD:          *hud && cfg.HUD.Enabled,
		Verbose:      *verbose,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
