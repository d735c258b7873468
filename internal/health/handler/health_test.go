package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"carrental/pkg/logger"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(context.Context) error   { return nil }
func down(context.Context) error { return errors.New("connection refused") }

func serveReady(t *testing.T, checks ...Check) (int, HealthResponse) {
	t.Helper()
	router := httprouter.New()
	NewHealthHandler(logger.Discard(), checks...).RegisterRoutes(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestHealth(t *testing.T) {
	router := httprouter.New()
	NewHealthHandler(logger.Discard(), Check{Name: "mongo", Ping: down}).RegisterRoutes(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok"`)
}

func TestReady(t *testing.T) {
	tests := []struct {
		name       string
		checks     []Check
		wantCode   int
		wantStatus string
		wantDeps   map[string]string
	}{
		{
			name:       "all up",
			checks:     []Check{{Name: "mongo", Ping: ok}, {Name: "redis", Ping: ok, Optional: true}},
			wantCode:   http.StatusOK,
			wantStatus: "ready",
			wantDeps:   map[string]string{"mongo": "ok", "redis": "ok"},
		},
		{
			name:       "optional dependency down",
			checks:     []Check{{Name: "mongo", Ping: ok}, {Name: "redis", Ping: down, Optional: true}},
			wantCode:   http.StatusOK,
			wantStatus: "ready",
			wantDeps:   map[string]string{"mongo": "ok", "redis": "degraded"},
		},
		{
			name:       "database down",
			checks:     []Check{{Name: "mongo", Ping: down}},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "unavailable",
			wantDeps:   map[string]string{"mongo": "error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := serveReady(t, tt.checks...)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, tt.wantDeps, resp.Dependencies)
		})
	}
}
