package app_test

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/app"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/config"
	"github.com/MagetoJ/XYZ-Hotel-sub000/pkg/logger"
)

func TestOpen_MemoryDriver(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{StorageDriver: config.DriverMemory, RedisAddr: mr.Addr()}

	rt, err := app.Open(context.Background(), cfg, logger.NewNop())
	require.NoError(t, err)
	defer rt.Close()

	assert.NotNil(t, rt.Memory)
	assert.Nil(t, rt.Pool)
	require.NotNil(t, rt.Redis)
	require.NoError(t, rt.Redis.Ping(context.Background()).Err())
	assert.NotNil(t, rt.Services.Stock)
}

func TestOpen_InvalidRule(t *testing.T) {
	cfg := &config.Config{StorageDriver: config.DriverMemory, LowStockRule: "current_stock <="}
	_, err := app.Open(context.Background(), cfg, logger.NewNop())
	assert.Error(t, err)
}
