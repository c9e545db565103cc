package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
	assert.Equal(t, 5*time.Second, cfg.OutboxInterval)
	assert.False(t, cfg.AllowNegativeStock)
	assert.False(t, cfg.IsProduction())
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://pos@localhost/pos")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("ALLOW_NEGATIVE_STOCK", "true")
	t.Setenv("WORKER_VERIFY_INTERVAL", "1h")
	t.Setenv("LOW_STOCK_RULE", "current_stock <= 0.0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, DriverPostgres, cfg.StorageDriver)
	assert.Equal(t, ":9090", cfg.Addr())
	assert.True(t, cfg.AllowNegativeStock)
	assert.Equal(t, time.Hour, cfg.VerifyInterval)
	assert.Equal(t, "current_stock <= 0.0", cfg.LowStockRule)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"postgres without dsn", map[string]string{"STORAGE_DRIVER": "postgres", "DATABASE_URL": ""}},
		{"unknown driver", map[string]string{"STORAGE_DRIVER": "sqlite"}},
		{"bad duration", map[string]string{"STORAGE_DRIVER": "memory", "IDEMPOTENCY_TTL": "soon"}},
		{"min above max", map[string]string{"STORAGE_DRIVER": "memory", "DB_MIN_CONNS": "30"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
