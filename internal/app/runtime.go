package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/config"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/registers/stock"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/infrastructure/cache"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/infrastructure/storage/memory"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/infrastructure/storage/postgres"
	"github.com/MagetoJ/XYZ-Hotel-sub000/pkg/logger"
)

// Runtime is the set of live dependencies built from configuration.
type Runtime struct {
	Services *Services

	// Pool and TxManager are nil for the memory driver.
	Pool      *postgres.Pool
	TxManager *postgres.TxManager

	// Memory is set for the memory driver only.
	Memory *memory.Store

	// Redis is nil unless REDIS_ADDR is configured.
	Redis *redis.Client

	closers []func()
}

// Open connects the configured storage driver and optional Redis, then wires
// the services.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Runtime, error) {
	rule, err := stock.NewLowStockRule(cfg.LowStockRule)
	if err != nil {
		return nil, err
	}
	opts := Options{AllowNegativeAdjust: cfg.AllowNegativeStock, LowStockRule: rule}

	rt := &Runtime{}
	var repos Repositories

	switch cfg.StorageDriver {
	case config.DriverMemory:
		rt.Memory = memory.New()
		repos = MemoryRepositories(rt.Memory)
		log.Warn("using in-memory storage, data is lost on restart")

	default:
		poolCfg := postgres.DefaultPoolConfig(cfg.DatabaseURL)
		poolCfg.MaxConns = cfg.DBMaxConns
		poolCfg.MinConns = cfg.DBMinConns
		poolCfg.ApplicationName = cfg.ServiceName

		pool, err := postgres.NewPool(ctx, poolCfg)
		if err != nil {
			return nil, err
		}
		rt.Pool = pool
		rt.closers = append(rt.closers, pool.Close)
		rt.TxManager = postgres.NewTxManager(pool, cfg.DBStatementTimeout)

		repos, err = PostgresRepositories(ctx, rt.TxManager)
		if err != nil {
			rt.Close()
			return nil, err
		}
		log.Infow("database connection established", "max_conns", poolCfg.MaxConns)
	}

	if cfg.RedisAddr != "" {
		client, err := cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		rt.Redis = client
		rt.closers = append(rt.closers, func() { _ = client.Close() })
		log.Infow("redis connection established", "addr", cfg.RedisAddr)
	}

	rt.Services = NewServices(repos, opts)
	return rt, nil
}

// Close releases connections in reverse order of acquisition.
func (rt *Runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
	rt.closers = nil
}
