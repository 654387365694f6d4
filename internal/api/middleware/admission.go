package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/worldai/world-api/internal/api/shared"
	"github.com/worldai/world-api/internal/ratelimit"
)

// Admission applies a sliding-window request limit per client key before
// any task is created. The key is the subject of a valid bearer token when
// one is presented, and the client IP otherwise. A request is rejected once
// the running count inside the window exceeds the threshold, so the first
// over-limit request is the threshold+1'th.
type Admission struct {
	counter   *ratelimit.WindowCounter
	threshold int
	jwtSecret string
	logger    *slog.Logger
}

// NewAdmission creates the admission middleware. jwtSecret may be empty,
// in which case all clients are keyed by IP.
func NewAdmission(counter *ratelimit.WindowCounter, threshold int, jwtSecret string, logger *slog.Logger) *Admission {
	return &Admission{
		counter:   counter,
		threshold: threshold,
		jwtSecret: jwtSecret,
		logger:    logger.With("component", "admission"),
	}
}

// Handler is the chi-compatible middleware function.
func (a *Admission) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := a.clientKey(r)

		count := a.counter.AddNow(key)
		if count > a.threshold {
			a.logger.Warn("request rejected by admission control",
				"client_key", key,
				"count", count,
				"threshold", a.threshold,
				"path", r.URL.Path)
			shared.RespondWithErrorAndLog(w, r, http.StatusTooManyRequests,
				"Too many requests", fmt.Errorf("client %q sent %d requests in window (limit %d)", key, count, a.threshold))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientKey identifies the caller for rate-limiting purposes. Bearer-token
// subjects take precedence so authenticated clients behind a shared proxy
// are counted individually; everything else falls back to the remote IP
// (chi's RealIP middleware has already normalized RemoteAddr).
func (a *Admission) clientKey(r *http.Request) string {
	if sub := a.tokenSubject(r); sub != "" {
		return "sub:" + sub
	}

	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i > 0 {
		host = host[:i]
	}
	return "ip:" + host
}

// tokenSubject extracts the subject claim from a valid HMAC-signed bearer
// token. Invalid or unverifiable tokens are ignored rather than rejected;
// admission control is not an authentication layer.
func (a *Admission) tokenSubject(r *http.Request) string {
	if a.jwtSecret == "" {
		return ""
	}

	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}

	token, err := jwt.Parse(auth[len(prefix):], func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(a.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return ""
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return ""
	}
	return sub
}
