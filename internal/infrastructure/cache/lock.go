package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/id"
)

// ErrLockHeld is returned by Acquire when another owner holds the lock.
var ErrLockHeld = errors.New("cache: lock held by another owner")

// releaseScript deletes the key only while it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Lock is a best-effort singleton lock; one worker replica runs each job.
type Lock struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	token  string
}

// NewLock creates a lock on key. The lock expires after ttl if never released.
func NewLock(client *redis.Client, key string, ttl time.Duration) *Lock {
	return &Lock{client: client, key: "lock:" + key, ttl: ttl, token: id.New().String()}
}

// Acquire takes the lock or returns ErrLockHeld.
func (l *Lock) Acquire(ctx context.Context) error {
	ok, err := l.client.SetNX(ctx, l.key, l.token, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("cache: acquire %s: %w", l.key, err)
	}
	if !ok {
		return ErrLockHeld
	}
	return nil
}

// Release drops the lock if this owner still holds it.
func (l *Lock) Release(ctx context.Context) error {
	if err := releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("cache: release %s: %w", l.key, err)
	}
	return nil
}

// WithLock runs fn while holding the lock. A held lock skips fn and returns
// ran=false without error.
func (l *Lock) WithLock(ctx context.Context, fn func(ctx context.Context) error) (ran bool, err error) {
	if err := l.Acquire(ctx); err != nil {
		if errors.Is(err, ErrLockHeld) {
			return false, nil
		}
		return false, err
	}
	defer func() {
		if relErr := l.Release(context.WithoutCancel(ctx)); relErr != nil && err == nil {
			err = relErr
		}
	}()
	return true, fn(ctx)
}
