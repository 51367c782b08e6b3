package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/mitienda/mitienda/internal/app"
	"github.com/mitienda/mitienda/internal/cart"
	"github.com/mitienda/mitienda/internal/catalog"
	"github.com/mitienda/mitienda/internal/notify"
	"github.com/mitienda/mitienda/internal/observability"
	"github.com/mitienda/mitienda/internal/pages"
	"github.com/mitienda/mitienda/internal/platform/cache"
	"github.com/mitienda/mitienda/internal/platform/db"
	"github.com/mitienda/mitienda/internal/view"
	"github.com/mitienda/mitienda/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	metrics := observability.NewMetrics()
	hub := notify.NewHub(logger)

	var notifier notify.Notifier = hub
	var bridge *notify.RedisBridge
	var sweeper catalog.Sweeper = catalog.NoopSweeper{}
	if cfg.RedisAddr != "" {
		redisClient, err := cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Warn("redis unavailable, events stay in-process", slog.Any("error", err))
		} else {
			defer func() {
				if err := redisClient.Close(); err != nil {
					logger.Warn("redis close", slog.Any("error", err))
				}
			}()
			bridge = notify.NewRedisBridge(redisClient, cfg.EventsChannel, hub, logger)
			notifier = bridge

			sweepClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
			defer func() {
				if err := sweepClient.Close(); err != nil {
					logger.Warn("asynq client close", slog.Any("error", err))
				}
			}()
			sweeper = sweepClient
		}
	}
	notifier = notify.WithCounter(notifier, metrics.CountEvent)

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	catalogService := catalog.NewService(productRepo, notifier, sweeper, logger)
	cartService := cart.NewService(cartRepo, catalogService, notifier, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		CatalogHandler: catalog.NewHandler(logger, catalogService),
		CartHandler:    cart.NewHandler(logger, cartService),
		PagesHandler:   pages.NewHandler(logger, catalogService, cartService, templates),
		Events:         notify.NewSSEHandler(hub, logger),
		Metrics:        metrics,
	})

	// No global write timeout: it would cut the /events stream. Request
	// handlers are bounded by the router's per-group timeout instead.
	server := &http.Server{
		Addr:        cfg.AppAddr,
		Handler:     router,
		ReadTimeout: cfg.AppReadTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("starting http server",
			slog.String("addr", cfg.AppAddr),
			slog.String("store", cfg.StoreDriver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if bridge != nil {
		group.Go(func() error {
			if err := bridge.Run(groupCtx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Error("run", slog.Any("error", err))
		os.Exit(1)
	}
}
