package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worldai/world-api/internal/ratelimit"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAdmission_AllowsUpToThreshold(t *testing.T) {
	t.Parallel()

	counter := ratelimit.NewWindowCounter(time.Minute)
	handler := NewAdmission(counter, 60, "", testLogger()).Handler(okHandler())

	for i := 0; i < 60; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, "request %d within threshold must pass", i+1)
	}

	// The 61st request in the window is the first rejected one.
	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestAdmission_KeysAreIndependent(t *testing.T) {
	t.Parallel()

	counter := ratelimit.NewWindowCounter(time.Minute)
	handler := NewAdmission(counter, 1, "", testLogger()).Handler(okHandler())

	for _, addr := range []string{"10.0.0.1:1234", "10.0.0.2:1234"} {
		req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, "first request from %s must pass", addr)
	}
}

func TestAdmission_TokenSubjectKeying(t *testing.T) {
	t.Parallel()

	const secret = "test-secret-test-secret-test-secret!"
	counter := ratelimit.NewWindowCounter(time.Minute)
	handler := NewAdmission(counter, 1, secret, testLogger()).Handler(okHandler())

	signed := func(sub string) string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})
		s, err := token.SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}

	// Two subjects behind the same IP are counted separately.
	for _, sub := range []string{"alice", "bob"} {
		req := httptest.NewRequest(http.MethodPost, "/api/tasks", nil)
		req.RemoteAddr = "10.0.0.9:1234"
		req.Header.Set("Authorization", "Bearer "+signed(sub))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, "first request for %s must pass", sub)
	}

	// A second request for an already-counted subject trips the limit.
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", nil)
	req.RemoteAddr = "10.0.0.9:1234"
	req.Header.Set("Authorization", "Bearer "+signed("alice"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestAdmission_InvalidTokenFallsBackToIP(t *testing.T) {
	t.Parallel()

	counter := ratelimit.NewWindowCounter(time.Minute)
	handler := NewAdmission(counter, 5, "some-secret", testLogger()).Handler(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.RemoteAddr = "10.0.0.3:1234"
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	// Garbage tokens don't reject the request; they just key by IP.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, counter.Count("ip:10.0.0.3", time.Now()))
}
