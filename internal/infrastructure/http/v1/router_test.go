package v1_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/app/apptest"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/domain/catalogs/item"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/infrastructure/cache"
	v1 "github.com/MagetoJ/XYZ-Hotel-sub000/internal/infrastructure/http/v1"
	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/infrastructure/http/v1/middleware"
	"github.com/MagetoJ/XYZ-Hotel-sub000/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var q = apptest.Q

type testServer struct {
	env    *apptest.Env
	router *gin.Engine
}

func newServer(t *testing.T, store middleware.IdempotencyStore) *testServer {
	t.Helper()
	env := apptest.New(t)
	router := v1.NewRouter(v1.RouterConfig{
		Services:    env.Services,
		Idempotency: store,
		Logger:      logger.NewNop(),
	})
	return &testServer{env: env, router: router}
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.HeaderActorID, apptest.Actor)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealthLive(t *testing.T) {
	s := newServer(t, nil)
	w := s.do(t, http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "memory", decode(t, w)["checks"].(map[string]any)["database"])
}

func TestCreateItemAndAdjust(t *testing.T) {
	s := newServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/v1/items", map[string]any{
		"name":         "Tusker",
		"unit":         "bottle",
		"type":         "bar",
		"openingStock": 24,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	itemID := created["id"].(string)
	assert.EqualValues(t, 24, created["currentStock"])

	w = s.do(t, http.MethodPost, "/api/v1/items/"+itemID+"/adjust", map[string]any{"delta": -4, "notes": "breakage"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode(t, w)
	assert.EqualValues(t, 24, res["previousStock"])
	assert.EqualValues(t, 20, res["currentStock"])
	assert.Equal(t, "manual_adjustment", res["mutation"].(map[string]any)["action"])

	w = s.do(t, http.MethodGet, "/api/v1/items/"+itemID+"/mutations", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decode(t, w)["totalCount"])

	w = s.do(t, http.MethodGet, "/api/v1/items/"+itemID+"/verify", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["consistent"])
}

func TestErrorMapping(t *testing.T) {
	s := newServer(t, nil)
	it := s.env.Item(t, "Gin", item.TypeBar, "2")
	base := "/api/v1/items/" + it.ID.String()

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"insufficient stock", http.MethodPost, base + "/adjust", map[string]any{"delta": -5}, http.StatusUnprocessableEntity, "INSUFFICIENT_STOCK"},
		{"unknown item type", http.MethodPost, "/api/v1/items", map[string]any{"name": "x", "unit": "kg", "type": "garage"}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"bad id", http.MethodGet, "/api/v1/items/not-a-uuid", nil, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"missing item", http.MethodGet, "/api/v1/items/0190a6d3-0000-7000-8000-000000000000", nil, http.StatusNotFound, "NOT_FOUND"},
		{"stale version", http.MethodPut, base, map[string]any{"name": "Gin 750ml", "version": 7}, http.StatusConflict, "CONCURRENT_MODIFICATION"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, tt.method, tt.path, tt.body)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.code, decode(t, w)["code"])
		})
	}

	assert.Equal(t, q("2"), s.env.Level(t, it))
}

func TestMutationsRequireActor(t *testing.T) {
	s := newServer(t, nil)
	it := s.env.Item(t, "Soda", item.TypeBar, "10")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/items/"+it.ID.String()+"/adjust", bytes.NewBufferString(`{"delta":1}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, q("10"), s.env.Level(t, it))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/items/"+it.ID.String(), nil)
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTransferLifecycle(t *testing.T) {
	s := newServer(t, nil)
	it := s.env.Item(t, "Towels", item.TypeHousekeeping, "40")

	w := s.do(t, http.MethodPost, "/api/v1/transfers", map[string]any{
		"itemId":       it.ID.String(),
		"fromLocation": "store",
		"toLocation":   "laundry",
		"quantity":     15,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	transferID := decode(t, w)["id"].(string)
	assert.Equal(t, q("25"), s.env.Level(t, it))

	w = s.do(t, http.MethodPost, "/api/v1/transfers/"+transferID+"/receive", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "received", decode(t, w)["status"])

	w = s.do(t, http.MethodPost, "/api/v1/transfers/"+transferID+"/cancel", nil)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVALID_STATE", decode(t, w)["code"])
	assert.Equal(t, q("25"), s.env.Level(t, it))
}

func TestIdempotentAdjustReplays(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	s := newServer(t, cache.NewIdempotencyStore(client, time.Hour))
	it := s.env.Item(t, "Wine", item.TypeBar, "12")
	path := "/api/v1/items/" + it.ID.String() + "/adjust"
	body := map[string]any{"delta": -2}

	first := s.do(t, http.MethodPost, path, body, middleware.HeaderIdempotencyKey, "adj-1")
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())

	second := s.do(t, http.MethodPost, path, body, middleware.HeaderIdempotencyKey, "adj-1")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, q("10"), s.env.Level(t, it))

	other := s.do(t, http.MethodPost, path, map[string]any{"delta": -3}, middleware.HeaderIdempotencyKey, "adj-1")
	assert.Equal(t, http.StatusConflict, other.Code)
	assert.Equal(t, q("10"), s.env.Level(t, it))

	// A rejected request replays its rejection.
	tooMuch := map[string]any{"delta": -50}
	w := s.do(t, http.MethodPost, path, tooMuch, middleware.HeaderIdempotencyKey, "adj-2")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	w = s.do(t, http.MethodPost, path, tooMuch, middleware.HeaderIdempotencyKey, "adj-2")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "true", w.Header().Get("Idempotent-Replayed"))
}
