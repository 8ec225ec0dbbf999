package common

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestAuth() (*Authenticator, *TokenManager) {
	tm := NewTokenManager("test-secret", time.Hour)
	return NewAuthenticator(tm, zap.NewNop()), tm
}

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserIDFromContext(r.Context())
		if !ok {
			w.Write([]byte("anonymous"))
			return
		}
		w.Write([]byte(id.Hex()))
	})
}

func TestTokenManager_RoundTrip(t *testing.T) {
	_, tm := newTestAuth()
	id := primitive.NewObjectID()

	token, err := tm.GenerateToken(id, "alice")
	require.NoError(t, err)

	claims, err := tm.ValidToken(token)
	require.NoError(t, err)
	assert.Equal(t, id.Hex(), claims.UserID)
	assert.Equal(t, "alice", claims.Username)

	other := NewTokenManager("other-secret", time.Hour)
	_, err = other.ValidToken(token)
	assert.Error(t, err)
}

func TestAuthenticator_Required(t *testing.T) {
	auth, tm := newTestAuth()
	id := primitive.NewObjectID()
	token, err := tm.GenerateToken(id, "alice")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"valid token", "Bearer " + token, http.StatusOK, id.Hex()},
		{"missing header", "", http.StatusUnauthorized, "authorization required"},
		{"bad scheme", "Basic " + token, http.StatusUnauthorized, "invalid auth header"},
		{"garbage token", "Bearer nope", http.StatusUnauthorized, "invalid or expired token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			auth.Required(echoUser()).ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.body)
		})
	}
}

func TestAuthenticator_OptionalAllowsAnonymous(t *testing.T) {
	auth, _ := newTestAuth()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	auth.Optional(echoUser()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "fixed")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "fixed", seen)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(0.0001, 2)
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.1.1.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{200, 200, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.1.2:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter_EvictsIdleClients(t *testing.T) {
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(0.0001, 1)
	rl.now = func() time.Time { return clock }
	rl.lastSweep = clock
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	hit := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 50; i++ {
		hit(fmt.Sprintf("10.2.0.%d:1000", i))
	}
	assert.Equal(t, 50, rl.Tracked())
	assert.Equal(t, http.StatusTooManyRequests, hit("10.2.0.1:1000"))

	clock = clock.Add(DefaultLimiterIdleTTL / 2)
	hit("10.9.9.9:1000")
	assert.Equal(t, 51, rl.Tracked(), "no sweep before the idle window elapses")

	clock = clock.Add(DefaultLimiterIdleTTL/2 + time.Second)
	assert.Equal(t, http.StatusOK, hit("10.2.0.1:1000"), "evicted client gets a fresh bucket")
	assert.Equal(t, 2, rl.Tracked(), "only the recently seen and the new client remain")
}
