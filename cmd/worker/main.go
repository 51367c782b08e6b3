package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/mitienda/mitienda/internal/app"
	"github.com/mitienda/mitienda/internal/cart"
	"github.com/mitienda/mitienda/internal/catalog"
	"github.com/mitienda/mitienda/internal/notify"
	"github.com/mitienda/mitienda/internal/platform/cache"
	"github.com/mitienda/mitienda/internal/platform/db"
	"github.com/mitienda/mitienda/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	if cfg.RedisAddr == "" {
		logger.Error("worker requires REDIS_ADDR")
		os.Exit(1)
	}

	var productRepo catalog.Repository
	var cartRepo cart.Repository
	switch cfg.StoreDriver {
	case app.StoreDriverPostgres:
		pool, err := db.New(ctx, cfg.PGDSN)
		if err != nil {
			logger.Error("connect postgres", slog.Any("error", err))
			os.Exit(1)
		}
		defer pool.Close()
		productRepo = catalog.NewPGRepository(pool)
		cartRepo = cart.NewPGRepository(pool)
	default:
		productRepo = catalog.NewFileRepository(cfg.DataDir)
		cartRepo = cart.NewFileRepository(cfg.DataDir)
	}

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	// Sweep results are published through Redis so server processes can
	// forward them to their connected browsers.
	hub := notify.NewHub(logger)
	notifier := notify.NewRedisBridge(redisClient, cfg.EventsChannel, hub, logger)

	catalogService := catalog.NewService(productRepo, nil, nil, logger)
	cartService := cart.NewService(cartRepo, catalogService, notifier, logger)

	sweepJob := jobs.NewCartSweepJob(cartService, logger, jobs.NewMetrics(nil))
	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskCartSweep, Handler: sweepJob.Handle},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("starting worker", slog.String("store", cfg.StoreDriver))
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
