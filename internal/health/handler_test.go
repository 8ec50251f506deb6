// AngelaMos | 2026
// handler_test.go

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkerFunc func(ctx context.Context) error

func (f checkerFunc) Ping(ctx context.Context) error { return f(ctx) }

func healthyChecker() Checker {
	return checkerFunc(func(context.Context) error { return nil })
}

func failingChecker() Checker {
	return checkerFunc(func(context.Context) error { return errors.New("down") })
}

func get(t *testing.T, h *Handler, path string) (*httptest.ResponseRecorder, StatusResponse) {
	t.Helper()
	router := chi.NewRouter()
	h.RegisterRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestReadinessFollowsServerLifecycle(t *testing.T) {
	h := NewHandler(healthyChecker(), healthyChecker())

	// Before the server starts listening nothing should be routed here.
	rec, body := get(t, h, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "not_ready", body.Status)

	h.SetReady(true)
	rec, body = get(t, h, "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body.Status)

	h.SetShutdown(true)
	rec, body = get(t, h, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "shutting_down", body.Status)
}

func TestReadinessDegradedWhenDependencyFails(t *testing.T) {
	h := NewHandler(healthyChecker(), failingChecker())
	h.SetReady(true)

	router := chi.NewRouter()
	h.RegisterRoutes(router)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body ReadinessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Status)
	require.Len(t, body.Checks, 2)
	assert.True(t, body.Checks[0].Healthy)
	assert.False(t, body.Checks[1].Healthy)
}

func TestLivenessIgnoresReadiness(t *testing.T) {
	h := NewHandler(healthyChecker(), healthyChecker())

	rec, body := get(t, h, "/livez")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body.Status)
}
