// Package main is the entry point for the inventory ledger API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/app"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/config"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/infrastructure/cache"
	v1 "github.com/MagetoJ/XYZ-Hotel-sub000/internal/infrastructure/http/v1"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/infrastructure/telemetry"
	"github.com/MagetoJ/XYZ-Hotel-sub000/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.LogDevelopment || cfg.AppEnv == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Infow("starting inventory server", "driver", cfg.StorageDriver, "version", cfg.Version)

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.OTLPEndpoint, cfg.ServiceName, cfg.Version)
	if err != nil {
		log.Fatalw("failed to initialize tracing", "error", err)
	}

	rt, err := app.Open(ctx, cfg, log)
	if err != nil {
		log.Fatalw("failed to initialize application", "error", err)
	}
	defer rt.Close()

	routerCfg := v1.RouterConfig{
		Services:    rt.Services,
		Pool:        rt.Pool,
		Redis:       rt.Redis,
		Logger:      log,
		ServiceName: cfg.ServiceName,
		Version:     cfg.Version,
		Tracing:     cfg.OTLPEndpoint != "",
	}
	if rt.Redis != nil {
		routerCfg.Idempotency = cache.NewIdempotencyStore(rt.Redis, cfg.IdempotencyTTL)
	} else {
		log.Info("REDIS_ADDR not set, idempotency keys disabled")
	}

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      v1.NewRouter(routerCfg),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infow("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	// --- Graceful shutdown ---
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		if err := shutdownTracer(shutdownCtx); err != nil {
			log.Warnw("tracer shutdown failed", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Errorw("server stopped with error", "error", err)
		rt.Close()
		os.Exit(1)
	}
	log.Info("server stopped")
}
