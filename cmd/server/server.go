package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/zucenko/gridbot/config"
	"github.com/zucenko/gridbot/model"
	"github.com/zucenko/gridbot/server"
	"github.com/zucenko/gridbot/settings"
)

func main() {
	configPath := flag.String("config", "gridbot.yaml", "config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalln(err)
	}
	cfg.SetupLogging()

	st, err := settings.Load(cfg.SettingsFile)
	if err != nil {
		log.Warnf("settings: %v, using defaults", err)
		st = settings.Default()
	}

	d := cfg.Display
	grid, err := model.NewGrid(d.Width-d.PanelWidth, d.Height, d.CellSize)
	if err != nil {
		log.Fatalln(err)
	}
	if err = server.LoadRoute(cfg.RouteFile, grid); err != nil {
		log.Warn(err)
	}

	bs := server.NewBotServer(grid, st, float32(cfg.Countdown), cfg.SettingsFile)

	addr := cfg.Addr
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	httpServer := &http.Server{Addr: addr, Handler: bs.Routes()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return bs.Loop(groupCtx)
	})
	group.Go(func() error {
		log.Infof("listening on %s, grid %dx%d", addr, grid.Rows(), grid.Cols())
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		return httpServer.Shutdown(context.Background())
	})
	if err = group.Wait(); err != nil {
		log.Fatalln(err)
	}
}
