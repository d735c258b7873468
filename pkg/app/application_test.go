package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	healthhandler "carrental/internal/health/handler"
	"carrental/pkg/auth"
	"carrental/pkg/client"
	"carrental/pkg/config"
	"carrental/pkg/logger"
	"carrental/pkg/middleware"
	"carrental/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type whoAmIHandler struct{}

func (whoAmIHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/whoami", middleware.RequireRole(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		_, _ = w.Write([]byte(auth.FromContext(r.Context()).UserID))
	}))
}

type staticVerifier struct{}

func (staticVerifier) Verify(token string) (*auth.Claims, error) {
	if token != "Bearer good" {
		return nil, errors.New("bad token")
	}
	return &auth.Claims{UserID: "u1", Role: model.RoleClient}, nil
}

func newTestApplication(t *testing.T, checks ...healthhandler.Check) http.Handler {
	t.Helper()
	cfg := &config.Config{
		Port:               "8080",
		RateLimitRequests:  100,
		RateLimitWindow:    time.Minute,
		RequestTimeout:     5 * time.Second,
		IdempotencyTTL:     time.Minute,
		IdempotencyBackend: config.IdempotencyBackendMemory,
		MaxRequestSize:     1 << 20,
		ShutdownTimeout:    time.Second,
		Log:                logger.Discard(),
		Client:             client.NewClient(),
	}
	a := NewApplication(cfg)
	a.SetApp(staticVerifier{}, checks, whoAmIHandler{})
	t.Cleanup(func() {
		a.idempotencyStore.Stop()
		a.rateLimiter.Stop()
	})
	return a.Handler()
}

func get(h http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestApplication_Routes(t *testing.T) {
	h := newTestApplication(t, healthhandler.Check{Name: "mongo", Ping: func(context.Context) error { return nil }})

	assert.Equal(t, http.StatusOK, get(h, "/health", "").Code)
	assert.Equal(t, http.StatusOK, get(h, "/ready", "").Code)

	w := get(h, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")

	w = get(h, "/api/v1/whoami", "Bearer good")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", w.Body.String())
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestApplication_Authentication(t *testing.T) {
	h := newTestApplication(t)

	assert.Equal(t, http.StatusUnauthorized, get(h, "/api/v1/whoami", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(h, "/api/v1/whoami", "Bearer forged").Code)
	assert.Equal(t, http.StatusNotFound, get(h, "/api/v1/missing", "").Code)
}

func TestApplication_ReadyReportsOutage(t *testing.T) {
	h := newTestApplication(t, healthhandler.Check{Name: "mongo", Ping: func(context.Context) error { return errors.New("down") }})
	assert.Equal(t, http.StatusServiceUnavailable, get(h, "/ready", "").Code)
}
