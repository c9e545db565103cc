package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/app/apptest"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/catalogs/item"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/registers/stock"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/worker"
	"github.com/MagetoJ/XYZ-Hotel-sub000/pkg/logger"
)

var q = apptest.Q

func TestRelayOnce(t *testing.T) {
	env := apptest.New(t)
	ctx := apptest.Ctx()
	wine, err := env.Items.Create(ctx, item.CreateInput{
		Name:         "House red",
		Unit:         "bottle",
		Type:         item.TypeBar,
		MinimumStock: q("5"),
		OpeningStock: q("10"),
	})
	require.NoError(t, err)
	_, err = env.Stock.Post(ctx, stock.Posting{ItemID: wine.ID, Action: stock.ActionSale, Delta: q("-6")})
	require.NoError(t, err)

	var got []stock.Event
	w := worker.New(worker.Config{}, env.Store.Outbox, env.Stock, logger.NewNop(),
		worker.WithEventHandler(func(ctx context.Context, e stock.Event) error {
			got = append(got, e)
			return nil
		}))

	n, err := w.RelayOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, got, 1)
	assert.Equal(t, stock.EventLowStock, got[0].Type)
	assert.Equal(t, wine.ID, got[0].ItemID)

	n, err = w.RelayOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n, "published events are not relayed twice")
}

func TestVerifyOnce(t *testing.T) {
	env := apptest.New(t)
	gin := env.Item(t, "Gin", item.TypeBar, "10")
	env.Item(t, "Tonic", item.TypeBar, "4")
	env.Store.Stock.Corrupt(gin.ID, q("7"))

	t.Run("report only", func(t *testing.T) {
		w := worker.New(worker.Config{}, nil, env.Stock, logger.NewNop())
		report, err := w.VerifyOnce(context.Background())
		require.NoError(t, err)
		require.Len(t, report.Drifted, 1)
		assert.Equal(t, gin.ID, report.Drifted[0].ItemID)
		assert.Zero(t, report.Repaired)
		assert.Equal(t, q("7"), env.Level(t, gin))
	})

	t.Run("repair", func(t *testing.T) {
		w := worker.New(worker.Config{RepairDrift: true}, nil, env.Stock, logger.NewNop())
		report, err := w.VerifyOnce(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, report.Repaired)
		assert.Equal(t, q("10"), env.Level(t, gin))
		env.RequireConsistent(t)
	})
}

func TestRun_RepairsUntilCancelled(t *testing.T) {
	env := apptest.New(t)
	gin := env.Item(t, "Gin", item.TypeBar, "10")
	env.Store.Stock.Corrupt(gin.ID, q("3"))

	w := worker.New(worker.Config{
		OutboxInterval: 10 * time.Millisecond,
		VerifyInterval: 10 * time.Millisecond,
		RepairDrift:    true,
	}, env.Store.Outbox, env.Stock, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	assert.Eventually(t, func() bool {
		drift, err := env.Stock.VerifyAll(context.Background())
		return err == nil && len(drift) == 0
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}
