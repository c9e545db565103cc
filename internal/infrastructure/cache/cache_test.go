package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/apperror"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestLock_SingleOwner(t *testing.T) {
	mr, client := newClient(t)
	ctx := context.Background()

	a := NewLock(client, "verify", time.Minute)
	b := NewLock(client, "verify", time.Minute)

	require.NoError(t, a.Acquire(ctx))
	assert.ErrorIs(t, b.Acquire(ctx), ErrLockHeld)

	// A foreign release must not drop a's lock.
	require.NoError(t, b.Release(ctx))
	assert.True(t, mr.Exists("lock:verify"))

	require.NoError(t, a.Release(ctx))
	assert.False(t, mr.Exists("lock:verify"))
	assert.NoError(t, b.Acquire(ctx))
}

func TestLock_Expires(t *testing.T) {
	mr, client := newClient(t)
	ctx := context.Background()

	require.NoError(t, NewLock(client, "relay", time.Second).Acquire(ctx))
	mr.FastForward(2 * time.Second)
	assert.NoError(t, NewLock(client, "relay", time.Second).Acquire(ctx))
}

func TestLock_WithLock(t *testing.T) {
	_, client := newClient(t)
	ctx := context.Background()
	holder := NewLock(client, "job", time.Minute)
	require.NoError(t, holder.Acquire(ctx))

	calls := 0
	ran, err := NewLock(client, "job", time.Minute).WithLock(ctx, func(context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.False(t, ran)

	require.NoError(t, holder.Release(ctx))
	boom := errors.New("boom")
	ran, err = NewLock(client, "job", time.Minute).WithLock(ctx, func(context.Context) error {
		calls++
		return boom
	})
	assert.True(t, ran)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)

	// Released after fn, so the next owner gets it.
	assert.NoError(t, NewLock(client, "job", time.Minute).Acquire(ctx))
}

func TestIdempotency_ReplayAfterCompletion(t *testing.T) {
	_, client := newClient(t)
	ctx := context.Background()
	store := NewIdempotencyStore(client, time.Hour)

	replay, err := store.AcquireKey(ctx, "k1", "alice", "POST /transfers", "h1")
	require.NoError(t, err)
	assert.Nil(t, replay)

	_, err = store.AcquireKey(ctx, "k1", "alice", "POST /transfers", "h1")
	assert.True(t, apperror.HasCode(err, apperror.CodeIdempotency), "in-flight key conflicts")

	require.NoError(t, store.CompleteKey(ctx, "k1", 201, "", []byte(`{"id":"t1"}`)))

	replay, err = store.AcquireKey(ctx, "k1", "alice", "POST /transfers", "h1")
	require.NoError(t, err)
	require.NotNil(t, replay)
	assert.Equal(t, 201, replay.StatusCode)
	assert.Equal(t, "application/json", replay.ContentType)
	assert.JSONEq(t, `{"id":"t1"}`, string(replay.Body))
}

func TestIdempotency_Mismatch(t *testing.T) {
	_, client := newClient(t)
	ctx := context.Background()
	store := NewIdempotencyStore(client, time.Hour)

	_, err := store.AcquireKey(ctx, "k1", "alice", "POST /wastage", "h1")
	require.NoError(t, err)

	tests := []struct {
		name                 string
		actor, op, bodyHash string
	}{
		{"other actor", "bob", "POST /wastage", "h1"},
		{"other operation", "alice", "POST /returns", "h1"},
		{"other body", "alice", "POST /wastage", "h2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.AcquireKey(ctx, "k1", tt.actor, tt.op, tt.bodyHash)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, "Idempotency key mismatch", appErr.Message)
		})
	}
}

func TestIdempotency_ReleaseAllowsRetry(t *testing.T) {
	_, client := newClient(t)
	ctx := context.Background()
	store := NewIdempotencyStore(client, time.Hour)

	_, err := store.AcquireKey(ctx, "k1", "alice", "POST /orders", "h1")
	require.NoError(t, err)
	require.NoError(t, store.ReleaseKey(ctx, "k1"))

	replay, err := store.AcquireKey(ctx, "k1", "alice", "POST /orders", "h1")
	require.NoError(t, err)
	assert.Nil(t, replay)
}

func seedStalePending(t *testing.T, mr *miniredis.Miniredis, key string) []byte {
	t.Helper()
	raw, err := json.Marshal(IdempotencyRecord{
		ActorID:     "alice",
		Operation:   "POST /purchase-orders/receive",
		RequestHash: "h1",
		Status:      IdempotencyStatusPending,
		UpdatedAt:   time.Now().UTC().Add(-2 * staleAfter),
	})
	require.NoError(t, err)
	require.NoError(t, mr.Set(idemKey(key), string(raw)))
	return raw
}

func TestIdempotency_StalePendingReclaimedOnce(t *testing.T) {
	mr, client := newClient(t)
	ctx := context.Background()
	store := NewIdempotencyStore(client, time.Hour)
	seedStalePending(t, mr, "k1")

	const retries = 8
	var (
		wg        sync.WaitGroup
		won       atomic.Int32
		conflicts atomic.Int32
	)
	for i := 0; i < retries; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			replay, err := store.AcquireKey(ctx, "k1", "alice", "POST /purchase-orders/receive", "h1")
			switch {
			case err == nil && replay == nil:
				won.Add(1)
			case apperror.HasCode(err, apperror.CodeIdempotency):
				conflicts.Add(1)
			default:
				t.Errorf("unexpected result: replay=%v err=%v", replay, err)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, won.Load())
	assert.EqualValues(t, retries-1, conflicts.Load())
}

func TestIdempotency_ReclaimLosesWhenKeyChanged(t *testing.T) {
	mr, client := newClient(t)
	ctx := context.Background()
	store := NewIdempotencyStore(client, time.Hour)
	stale := seedStalePending(t, mr, "k1")

	// Another retry took the key over after stale was read.
	_, err := store.AcquireKey(ctx, "k1", "alice", "POST /purchase-orders/receive", "h1")
	require.NoError(t, err)
	current, err := mr.Get(idemKey("k1"))
	require.NoError(t, err)

	ok, err := store.reclaim(ctx, "k1", stale, []byte(`{"status":"pending"}`))
	require.NoError(t, err)
	assert.False(t, ok)

	after, err := mr.Get(idemKey("k1"))
	require.NoError(t, err)
	assert.Equal(t, current, after)
	assert.Greater(t, mr.TTL(idemKey("k1")), time.Duration(0))
}
