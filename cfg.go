package main

import (
	"flag"

	"github.com/hajimehoshi/ebiten/ebitenutil"
	log "github.com/sirupsen/logrus"

	"github.com/zucenko/gridbot/config"
	"github.com/zucenko/gridbot/layout"
	"github.com/zucenko/gridbot/model"
	"github.com/zucenko/gridbot/settings"
)

var configPath = flag.String("config", "gridbot.yaml", "config file")

// Load reads the configuration, the stored settings and the optional route
// preset, and builds the grid for the configured display.
func Load() (*config.Config, *layout.Layout, *model.Grid, settings.Settings, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, nil, nil, settings.Settings{}, err
	}
	cfg.SetupLogging()

	st, err := settings.Load(cfg.SettingsFile)
	if err != nil {
		log.Warnf("settings: %v, using defaults", err)
		st = settings.Default()
	}

	d := cfg.Display
	lay, err := layout.New(d.Width, d.Height, d.PanelWidth, d.CellSize)
	if err != nil {
		return nil, nil, nil, st, err
	}
	grid, err := model.NewGridSize(lay.Rows, lay.Cols)
	if err != nil {
		return nil, nil, nil, st, err
	}
	if cfg.RouteFile != "" {
		loadRoute(cfg.RouteFile, grid)
	}
	return cfg, lay, grid, st, nil
}

func loadRoute(path string, grid *model.Grid) {
	file, err := ebitenutil.OpenFile(path)
	if err != nil {
		log.Warnf("route %s: %v", path, err)
		return
	}
	defer file.Close()
	if err = model.ReadRoute(file, grid); err != nil {
		log.Warnf("route %s: %v", path, err)
		return
	}
	log.Infof("route %s loaded, %d cells", path, grid.Len())
}
