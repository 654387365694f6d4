// Package middleware provides HTTP middleware for the API boundary.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/worldai/world-api/internal/api/shared"
	"github.com/worldai/world-api/internal/platform/logger"
)

// Trace adds a trace ID to the request context and stores a trace-scoped
// logger alongside it. Apply it early in the chain so all subsequent
// handlers and error responses can correlate logs.
func Trace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())

		log := slog.With(slog.String("trace_id", shared.GetTraceID(ctx)))
		ctx = logger.WithLogger(ctx, log)

		log.Debug("request started",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
