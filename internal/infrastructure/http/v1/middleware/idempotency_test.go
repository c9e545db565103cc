package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/apperror"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/infrastructure/cache"
)

type countingStore struct {
	acquired int
	hashes   []string
}

func (s *countingStore) AcquireKey(_ context.Context, _, _, _, requestHash string) (*cache.IdempotencyReplay, error) {
	s.acquired++
	s.hashes = append(s.hashes, requestHash)
	return nil, nil
}

func (s *countingStore) CompleteKey(context.Context, string, int, string, []byte) error { return nil }
func (s *countingStore) ReleaseKey(context.Context, string) error { return nil }

// brokenBody fails after handing out part of the payload.
type brokenBody struct {
	sent bool
}

func (b *brokenBody) Read(p []byte) (int, error) {
	if b.sent {
		return 0, errors.New("connection reset by peer")
	}
	b.sent = true
	return copy(p, `{"delta":`), nil
}

func idempotencyRouter(store IdempotencyStore) (*gin.Engine, *int) {
	gin.SetMode(gin.TestMode)
	handled := 0
	r := gin.New()
	r.Use(ErrorHandler(), Idempotency(store))
	r.POST("/adjust", func(c *gin.Context) {
		handled++
		body, _ := io.ReadAll(c.Request.Body)
		c.Data(http.StatusOK, "application/json", body)
	})
	return r, &handled
}

func TestIdempotency_BodyReadFailureIsValidation(t *testing.T) {
	store := &countingStore{}
	r, handled := idempotencyRouter(store)

	req := httptest.NewRequest(http.MethodPost, "/adjust", &brokenBody{})
	req.Header.Set(HeaderIdempotencyKey, "k1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, apperror.CodeValidation, out["code"])
	assert.Zero(t, store.acquired, "a truncated body must not claim the key")
	assert.Zero(t, *handled)
}

func TestIdempotency_OversizedBodyRejected(t *testing.T) {
	store := &countingStore{}
	r, handled := idempotencyRouter(store)

	req := httptest.NewRequest(http.MethodPost, "/adjust", bytes.NewReader(make([]byte, maxIdempotencyBodyBytes+1)))
	req.Header.Set(HeaderIdempotencyKey, "k1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Zero(t, store.acquired)
	assert.Zero(t, *handled)
}

func TestIdempotency_BodyRestoredForHandler(t *testing.T) {
	store := &countingStore{}
	r, handled := idempotencyRouter(store)

	req := httptest.NewRequest(http.MethodPost, "/adjust", bytes.NewBufferString(`{"delta":-2}`))
	req.Header.Set(HeaderIdempotencyKey, "k1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"delta":-2}`, w.Body.String())
	assert.Equal(t, 1, store.acquired)
	assert.Len(t, store.hashes[0], 64)
	assert.Equal(t, 1, *handled)
}

func TestIdempotency_NoKeySkipsStore(t *testing.T) {
	store := &countingStore{}
	r, handled := idempotencyRouter(store)

	req := httptest.NewRequest(http.MethodPost, "/adjust", &brokenBody{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Zero(t, store.acquired)
	assert.Equal(t, 1, *handled)
}
