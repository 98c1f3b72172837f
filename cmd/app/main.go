package main

import (
	"context"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/happyharvest/garden/internal/animal"
	"github.com/happyharvest/garden/internal/auth"
	"github.com/happyharvest/garden/internal/building"
	"github.com/happyharvest/garden/internal/catalog"
	"github.com/happyharvest/garden/internal/concurrency"
	"github.com/happyharvest/garden/internal/config"
	"github.com/happyharvest/garden/internal/cooldown"
	"github.com/happyharvest/garden/internal/database"
	"github.com/happyharvest/garden/internal/database/postgres"
	"github.com/happyharvest/garden/internal/economy"
	"github.com/happyharvest/garden/internal/event"
	"github.com/happyharvest/garden/internal/garden"
	"github.com/happyharvest/garden/internal/metrics"
	"github.com/happyharvest/garden/internal/plot"
	"github.com/happyharvest/garden/internal/realtime"
	"github.com/happyharvest/garden/internal/server"
	"github.com/happyharvest/garden/internal/theft"
	"github.com/happyharvest/garden/internal/tree"
	"github.com/happyharvest/garden/internal/user"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	initLogger(cfg)
	log := slog.Default()

	pool, err := database.NewPool(cfg.GetDBConnString(), database.DefaultMaxConnections, 30*time.Minute, time.Hour)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.Migrate(pool, cfg.MigrationsDir); err != nil {
		log.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	cat, err := catalog.Load(cfg.CatalogDir)
	if err != nil {
		log.Error("Failed to load catalog", "error", err)
		os.Exit(1)
	}

	// Repositories
	users := postgres.NewUserRepository(pool)
	gardens := postgres.NewGardenRepository(pool)
	plots := postgres.NewPlotRepository(pool)
	trees := postgres.NewTreeRepository(pool)
	animals := postgres.NewAnimalRepository(pool)
	buildings := postgres.NewBuildingRepository(pool)
	bonuses := postgres.NewBonusRepository(pool)
	cells := postgres.NewOccupancyRepository(pool)

	// Shared infrastructure
	locks := concurrency.NewLockManager()
	bus := event.NewMemoryBus()
	ledger := economy.NewLedger(users, bus, locks)
	cooldowns := cooldown.NewPostgresService(pool, cooldown.Config{
		DevMode: cfg.Environment == "dev" || cfg.Environment == "development",
	})
	resolver := theft.NewResolver(rand.NewSource(time.Now().UnixNano()))

	// Realtime fanout
	hub := realtime.NewHub()
	realtime.NewSubscriber(hub, bus).Subscribe()

	// Metrics ride the same bus as the realtime feed
	if err := metrics.NewEventMetricsCollector().Register(bus); err != nil {
		log.Error("Failed to register metrics collector", "error", err)
		os.Exit(1)
	}

	// Domain services
	gardenService := garden.NewService(gardens, users, plots, trees, animals, buildings, bonuses, cat, hub)
	svcs := server.Services{
		User:     user.NewService(users, bonuses),
		Garden:   gardenService,
		Plot:     plot.NewService(plots, gardens, bonuses, cat, gardenService, ledger, cooldowns, resolver, locks, bus),
		Tree:     tree.NewService(trees, gardens, cells, cat, gardenService, ledger, locks, bus),
		Animal:   animal.NewService(animals, gardens, cells, cat, gardenService, ledger, locks, bus),
		Building: building.NewService(buildings, gardens, cells, cat, gardenService, ledger, locks, bus),
	}

	rtHandler := realtime.NewHandler(hub, gardenService, auth.ResolveUser)

	authn := auth.NewUserStoreAuthenticator(users)
	srv := server.NewServer(cfg.Port, cfg.AuthToken, cfg.TrustedProxies, pool, authn, svcs, rtHandler)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Error("Server stopped unexpectedly", "error", err)
		os.Exit(1)
	case sig := <-stop:
		log.Info("Shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Stop(ctx); err != nil {
		log.Error("Graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("Server stopped")
}
