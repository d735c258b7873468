package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"carrental/pkg/auth"
	"carrental/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countingHandler(calls *int32, status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"call":` + string(rune('0'+n)) + `}`))
	})
}

func testIdempotency(t *testing.T, store IdempotencyStore) {
	var calls int32
	h := Idempotency(store, "")(countingHandler(&calls, http.StatusCreated))

	send := func(key, path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{}`))
		req.Header.Set(DefaultIdempotencyHeader, key)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	first := send("k1", "/api/v1/bookings")
	second := send("k1", "/api/v1/bookings")
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

	send("k1", "/api/v1/payments/orders")
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls), "same key on another route is a new request")
}

func TestIdempotency_InMemory(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Minute)
	defer store.Stop()
	testIdempotency(t, store)
}

func TestIdempotency_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	store := NewRedisIdempotencyStore(rdb, time.Minute, logger.Discard())
	testIdempotency(t, store)

	keys := mr.Keys()
	require.NotEmpty(t, keys)
	assert.True(t, strings.HasPrefix(keys[0], idempotencyKeyPrefix))
	assert.Greater(t, mr.TTL(keys[0]), time.Duration(0))
}

func TestIdempotency_FailuresAreNotCached(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Minute)
	defer store.Stop()

	var calls int32
	h := Idempotency(store, "")(countingHandler(&calls, http.StatusConflict))
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil)
		req.Header.Set(DefaultIdempotencyHeader, "k")
		h.ServeHTTP(httptest.NewRecorder(), req)
	}
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestInMemoryIdempotencyStore_Expiry(t *testing.T) {
	store := NewInMemoryIdempotencyStore(10 * time.Millisecond)
	defer store.Stop()

	store.Set(context.Background(), "k", &CachedResponse{StatusCode: 200})
	_, ok := store.Get(context.Background(), "k")
	require.True(t, ok)

	time.Sleep(20 * time.Millisecond)
	_, ok = store.Get(context.Background(), "k")
	assert.False(t, ok)
}

func TestRateLimit(t *testing.T) {
	limiter := NewClientRateLimiter(2, time.Minute, nil, logger.Discard())
	defer limiter.Stop()

	var calls int32
	h := RateLimit(limiter)(countingHandler(&calls, http.StatusOK))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cars", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	other := httptest.NewRequest(http.MethodGet, "/api/v1/cars", nil)
	other.RemoteAddr = "10.0.0.2:5000"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, other)
	assert.Equal(t, http.StatusOK, w.Code, "buckets are per client")
}

func TestRateLimitPaths(t *testing.T) {
	limiter := NewClientRateLimiter(1, time.Minute, nil, logger.Discard())
	defer limiter.Stop()

	var calls int32
	h := RateLimitPaths(limiter, "/api/v1/auth/login")(countingHandler(&calls, http.StatusOK))

	send := func(method, path string) int {
		req := httptest.NewRequest(method, path, strings.NewReader(`{}`))
		req.RemoteAddr = "10.0.0.1:5000"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send(http.MethodPost, "/api/v1/auth/login"))
	assert.Equal(t, http.StatusTooManyRequests, send(http.MethodPost, "/api/v1/auth/login"))
	assert.Equal(t, http.StatusOK, send(http.MethodPost, "/api/v1/bookings"))
	assert.Equal(t, http.StatusOK, send(http.MethodGet, "/api/v1/auth/login"))
}

func TestDefaultKeyExtractor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.4:1234"
	assert.Equal(t, "ip:192.168.1.4", DefaultKeyExtractor(req))

	req = req.WithContext(auth.WithClaims(req.Context(), &auth.Claims{UserID: "u9"}))
	assert.Equal(t, "user:u9", DefaultKeyExtractor(req))
}

func TestAuthenticateAndRequireRole(t *testing.T) {
	tokens := auth.NewTokenManager("0123456789abcdef0123", time.Hour)
	clientToken, _, err := tokens.Issue("u1", "client", "", "")
	require.NoError(t, err)
	adminToken, _, err := tokens.Issue("u2", "admin", "", "")
	require.NoError(t, err)

	router := httprouter.New()
	router.GET("/admin", RequireRole(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusNoContent)
	}, "admin"))
	h := Authenticate(tokens, logger.Discard())(router)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
		{"wrong role", "Bearer " + clientToken, http.StatusForbidden},
		{"admin", "Bearer " + adminToken, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestContentTypeValidation(t *testing.T) {
	var calls int32
	h := ContentTypeValidation(logger.Discard())(countingHandler(&calls, http.StatusOK))

	tests := []struct {
		name        string
		method      string
		body        string
		contentType string
		want        int
	}{
		{"json post", http.MethodPost, `{}`, "application/json; charset=utf-8", http.StatusOK},
		{"form post", http.MethodPost, `a=b`, "application/x-www-form-urlencoded", http.StatusUnsupportedMediaType},
		{"bodyless post", http.MethodPost, ``, "", http.StatusOK},
		{"get", http.MethodGet, ``, "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/x", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestMaxRequestSize(t *testing.T) {
	var calls int32
	h := MaxRequestSize(8)(countingHandler(&calls, http.StatusOK))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"too":"large"}`)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.EqualValues(t, 0, calls)
}

func TestRequestTimeout(t *testing.T) {
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	w := httptest.NewRecorder()
	RequestTimeout(10*time.Millisecond)(slow).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}

func TestRecovery(t *testing.T) {
	boom := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { panic("boom") })
	w := httptest.NewRecorder()
	Recovery(logger.Discard())(boom).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRequestLogging_PropagatesRequestID(t *testing.T) {
	var seen string
	h := RequestLogging(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	}))

	incoming := "2f1b7a4e-9c0d-4b8e-a1f2-3c4d5e6f7a8b"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, incoming)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, incoming, seen)
	assert.Equal(t, incoming, w.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.NotEqual(t, "not-a-uuid", seen)
}

func TestRouteLabel(t *testing.T) {
	assert.Equal(t, "/api/v1/cars/id/:id", routeLabel("/api/v1/cars/id/665f1c2b9a1e4c0012345678"))
	assert.Equal(t, "/api/v1/drivers/:id/notifications/:id/action",
		routeLabel("/api/v1/drivers/665f1c2b9a1e4c0012345678/notifications/665f1c2b9a1e4c0012345679/action"))
}
