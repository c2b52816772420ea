package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/phrazzld/recipe-api/internal/api/shared"
	"github.com/phrazzld/recipe-api/internal/platform/logger"
)

// Limiter decides whether a request identified by key may proceed.
type Limiter interface {
	Allow(key string) bool
}

// RateLimit rejects requests with 429 once the client IP exceeds its budget.
// retryAfter is advertised in the Retry-After header. Run after chi's RealIP
// so that RemoteAddr reflects the client rather than a proxy.
func RateLimit(limiter Limiter, retryAfter time.Duration) func(http.Handler) http.Handler {
	retrySeconds := strconv.Itoa(max(1, int(retryAfter.Round(time.Second)/time.Second)))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r)
			if !limiter.Allow(key) {
				logger.FromContext(r.Context()).Warn("rate limit exceeded",
					slog.String("client_ip", key),
					slog.String("path", r.URL.Path))
				w.Header().Set("Retry-After", retrySeconds)
				shared.RespondWithError(w, r, http.StatusTooManyRequests, "Too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
