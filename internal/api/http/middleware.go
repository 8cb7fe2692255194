package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"asset-ledger-backend/internal/domain"
	"asset-ledger-backend/internal/logger"
	"asset-ledger-backend/internal/security"
)

type contextKey string

const actorContextKey contextKey = "actor"

// actorFromContext returns the authenticated actor placed by AuthMiddleware.
func actorFromContext(ctx context.Context) *domain.Actor {
	actor, _ := ctx.Value(actorContextKey).(*domain.Actor)
	return actor
}

// AuthMiddleware validates the Bearer token and attaches the resolved actor
// to the request context. Requests without a valid token never reach a
// handler.
func AuthMiddleware(tokens security.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeJSON(w, http.StatusUnauthorized, errorBody{Error: domain.Error{
					Code:    "unauthenticated",
					Message: "missing bearer token",
				}})
				return
			}

			actor, err := tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, errorBody{Error: domain.Error{
					Code:    "unauthenticated",
					Message: err.Error(),
				}})
				return
			}

			ctx := context.WithValue(r.Context(), actorContextKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LoggingMiddleware logs every request with its duration and status.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
