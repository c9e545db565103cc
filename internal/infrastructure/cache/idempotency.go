package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/apperror"
)

// reclaimScript replaces a stale record only if it is still the exact value
// the caller read, so concurrent retries cannot both take over the key.
var reclaimScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
	return 1
end
return 0
`)

// IdempotencyStatus represents the state of an idempotent operation.
type IdempotencyStatus string

const (
	IdempotencyStatusPending IdempotencyStatus = "pending"
	IdempotencyStatusDone    IdempotencyStatus = "done"
)

// staleAfter lets a retry reclaim a key whose first request crashed.
const staleAfter = time.Minute

// IdempotencyRecord is stored as JSON under the key.
type IdempotencyRecord struct {
	ActorID     string            `json:"actorId"`
	Operation   string            `json:"operation"`
	RequestHash string            `json:"requestHash"`
	Status      IdempotencyStatus `json:"status"`
	StatusCode  int               `json:"statusCode,omitempty"`
	ContentType string            `json:"contentType,omitempty"`
	Body        []byte            `json:"body,omitempty"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// IdempotencyReplay is the cached HTTP response for replay.
type IdempotencyReplay struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// IdempotencyStore manages idempotency keys in Redis.
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore creates a new idempotency store.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

func idemKey(key string) string { return "idem:" + key }

// AcquireKey attempts to acquire an idempotency key.
// Returns:
//   - (nil, nil) if key acquired successfully
//   - (replay, nil) if the operation already completed
//   - (nil, error) if the key is in use by another request or was issued for a different one
func (s *IdempotencyStore) AcquireKey(ctx context.Context, key, actorID, operation, requestHash string) (*IdempotencyReplay, error) {
	rec := IdempotencyRecord{
		ActorID:     actorID,
		Operation:   operation,
		RequestHash: requestHash,
		Status:      IdempotencyStatusPending,
		UpdatedAt:   time.Now().UTC(),
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal idempotency record: %w", err)
	}

	ok, err := s.client.SetNX(ctx, idemKey(key), raw, s.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire idempotency key: %w", err)
	}
	if ok {
		return nil, nil
	}

	stored, storedRaw, err := s.loadRaw(ctx, key)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		// Expired between SETNX and GET; the next attempt will win.
		return nil, apperror.NewIdempotencyConflict(key)
	}

	if stored.ActorID != actorID || stored.Operation != operation || stored.RequestHash != requestHash {
		return nil, apperror.NewIdempotencyMismatch(key).
			WithDetail("stored_operation", stored.Operation).
			WithDetail("request_operation", operation)
	}

	switch stored.Status {
	case IdempotencyStatusDone:
		return &IdempotencyReplay{
			StatusCode:  normalizeReplayStatus(stored.StatusCode),
			ContentType: normalizeReplayContentType(stored.ContentType),
			Body:        stored.Body,
		}, nil
	case IdempotencyStatusPending:
		if time.Since(stored.UpdatedAt) > staleAfter {
			won, err := s.reclaim(ctx, key, storedRaw, raw)
			if err != nil {
				return nil, err
			}
			if won {
				return nil, nil
			}
		}
	}
	return nil, apperror.NewIdempotencyConflict(key)
}

// CompleteKey stores the response so later retries replay it.
func (s *IdempotencyStore) CompleteKey(ctx context.Context, key string, statusCode int, contentType string, body []byte) error {
	stored, err := s.load(ctx, key)
	if err != nil {
		return err
	}
	if stored == nil {
		stored = &IdempotencyRecord{}
	}
	stored.Status = IdempotencyStatusDone
	stored.StatusCode = statusCode
	stored.ContentType = contentType
	stored.Body = body
	stored.UpdatedAt = time.Now().UTC()

	raw, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("marshal idempotency record: %w", err)
	}
	if err := s.client.Set(ctx, idemKey(key), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("complete idempotency key: %w", err)
	}
	return nil
}

// ReleaseKey forgets a key so the request can be retried.
func (s *IdempotencyStore) ReleaseKey(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, idemKey(key)).Err(); err != nil {
		return fmt.Errorf("release idempotency key: %w", err)
	}
	return nil
}

// reclaim swaps expected for raw atomically. It reports false when another
// request changed the key after expected was read.
func (s *IdempotencyStore) reclaim(ctx context.Context, key string, expected, raw []byte) (bool, error) {
	n, err := reclaimScript.Run(ctx, s.client, []string{idemKey(key)}, expected, raw, s.ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("reclaim stale key: %w", err)
	}
	return n == 1, nil
}

func (s *IdempotencyStore) load(ctx context.Context, key string) (*IdempotencyRecord, error) {
	rec, _, err := s.loadRaw(ctx, key)
	return rec, err
}

func (s *IdempotencyStore) loadRaw(ctx context.Context, key string) (*IdempotencyRecord, []byte, error) {
	raw, err := s.client.Get(ctx, idemKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load idempotency key: %w", err)
	}
	var rec IdempotencyRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, nil, fmt.Errorf("decode idempotency record: %w", err)
	}
	return &rec, raw, nil
}

func normalizeReplayStatus(status int) int {
	if status == 0 {
		return http.StatusOK
	}
	return status
}

func normalizeReplayContentType(ct string) string {
	if ct == "" {
		return "application/json"
	}
	return ct
}
