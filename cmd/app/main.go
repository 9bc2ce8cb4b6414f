package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/waypointlabs/prizehunt/internal/anticheat"
	"github.com/waypointlabs/prizehunt/internal/bootstrap"
	"github.com/waypointlabs/prizehunt/internal/capture"
	"github.com/waypointlabs/prizehunt/internal/config"
	"github.com/waypointlabs/prizehunt/internal/database"
	"github.com/waypointlabs/prizehunt/internal/inventory"
	"github.com/waypointlabs/prizehunt/internal/marketplace"
	"github.com/waypointlabs/prizehunt/internal/progression"
	"github.com/waypointlabs/prizehunt/internal/reward"
	"github.com/waypointlabs/prizehunt/internal/server"
	"github.com/waypointlabs/prizehunt/internal/sideeffect"
	"github.com/waypointlabs/prizehunt/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	initLogger(cfg)

	// Database
	dbPool, err := database.NewPool(cfg.GetDBConnString(), 25, 5*time.Minute, 30*time.Minute)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	// Redis backs the anti-cheat ephemeral state
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		// The engine fails open by default, so a cold Redis is a warning,
		// not a startup failure.
		slog.Warn("Redis unreachable at startup", "addr", cfg.RedisAddr, "error", err)
	}

	// Event system
	eventBus, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize event system: %v", err)
	}
	bootstrap.RegisterEventLogging(eventBus)

	// Repositories and domain services
	repos := bootstrap.InitializeRepositories(dbPool)

	prizeCache := capture.NewPrizeCache(repos.Prize, cfg.PrizeCacheSize, cfg.PrizeCacheTTL)
	ledger := inventory.NewLedger(repos.Reward)
	distributor := reward.NewDistributor()
	codes := marketplace.NewCodeService()

	antiCheatEngine := anticheat.NewEngine(
		anticheat.NewRedisStateStore(redisClient),
		bootstrap.NewAntiCheatProvider(cfg),
	)

	progressionService := progression.NewService(repos.User, publisher)

	// Side-effect workers
	pool := worker.NewPool(cfg.WorkerCount, cfg.WorkerQueueLen)
	pool.Start()
	dispatcher := sideeffect.NewDispatcher(pool, publisher, progressionService, nil)

	captureService := capture.NewService(
		prizeCache, repos.Capture, antiCheatEngine, ledger, distributor, codes, dispatcher,
		capture.Options{
			DefaultCaptureRadius: cfg.DefaultCaptureRadius,
			RedemptionTTL:        cfg.RedemptionTTL,
		})

	marketplaceService := marketplace.NewService(
		repos.Purchase, repos.User, ledger, codes, dispatcher,
		marketplace.Options{RedemptionTTL: cfg.RedemptionTTL})

	// Background sweeps for expired redemptions and stale stock holds
	sweeper := worker.NewSweepWorker(marketplaceService, ledger, cfg.SweepInterval, cfg.ReservationHoldTTL)
	sweeper.Start()

	srv := server.NewServer(server.Config{
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
	}, dbPool, captureService, marketplaceService)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	bootstrap.GracefulShutdown(ctx, bootstrap.ShutdownComponents{
		Server:      srv,
		SweepWorker: sweeper,
		WorkerPool:  pool,
	})
}
