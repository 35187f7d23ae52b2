package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/RednibCoding/mudden/internal/catalog"
	"github.com/RednibCoding/mudden/internal/config"
	"github.com/RednibCoding/mudden/internal/logger"
	"github.com/RednibCoding/mudden/internal/server"
	"github.com/RednibCoding/mudden/internal/store"
	"github.com/RednibCoding/mudden/internal/world"
)

func main() {
	configFile := flag.String("config", "", "Path to server config YAML file (optional)")
	flag.Parse()

	cfg := config.FromEnv()
	if *configFile != "" {
		loaded, err := config.Load(*configFile)
		if err != nil {
			log.Fatalf("Failed to load server config: %v", err)
		}
		cfg = loaded
	}

	logger.Initialize(cfg.Logging)
	logger.Info("Starting mudden server")

	cat, err := catalog.Load(cfg.Paths.DataDir)
	if err != nil {
		log.Fatalf("Failed to load content: %v", err)
	}

	gameWorld, err := world.New(cat.Locations, cat.WorldDeps())
	if err != nil {
		log.Fatalf("Failed to build world: %v", err)
	}
	logger.Info("World built", "rooms", gameWorld.RoomCount())

	playerStore, err := store.New(cfg.Paths.PlayersDir)
	if err != nil {
		log.Fatalf("Failed to open player store: %v", err)
	}

	srv := server.New(cfg, cat, gameWorld, playerStore)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.ListenAndServe(ctx) })
	g.Go(func() error { return srv.RunTicker(ctx) })

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
	}

	logger.Info("Shutting down, saving players")
	srv.Shutdown()
	logger.Info("Server stopped")
}
