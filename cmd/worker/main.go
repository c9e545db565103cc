// Package main is the entry point for the inventory background worker:
// it relays outbox events and verifies stock against the ledger.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/app"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/config"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/worker"
	"github.com/MagetoJ/XYZ-Hotel-sub000/pkg/logger"
)

const outboxBatchSize = 100

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

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

	if cfg.StorageDriver != config.DriverPostgres {
		log.Fatalw("worker requires the postgres storage driver", "driver", cfg.StorageDriver)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("starting inventory worker")

	rt, err := app.Open(ctx, cfg, log)
	if err != nil {
		log.Fatalw("failed to initialize application", "error", err)
	}
	defer rt.Close()

	var opts []worker.Option
	if rt.Redis != nil {
		opts = append(opts, worker.WithRedisLocks(rt.Redis))
	} else {
		log.Warn("REDIS_ADDR not set, every replica runs every job")
	}

	w := worker.New(worker.Config{
		OutboxInterval: cfg.OutboxInterval,
		VerifyInterval: cfg.VerifyInterval,
		RepairDrift:    cfg.RepairDrift,
	}, worker.PostgresEvents(rt.TxManager, outboxBatchSize), rt.Services.Stock, log, opts...)

	if err := w.Run(ctx); err != nil {
		log.Errorw("worker stopped with error", "error", err)
		return
	}
	log.Info("worker stopped")
}
