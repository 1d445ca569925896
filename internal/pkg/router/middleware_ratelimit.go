package router

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"
)

type keyedLimiter interface {
	Allow(key string) bool
	RetryAfter() time.Duration
}

// RateLimit rejects requests with 429 once the client IP exhausts its bucket.
func RateLimit(l keyedLimiter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.RemoteAddr
			if host, _, err := net.SplitHostPort(key); err == nil {
				key = host
			}

			if !l.Allow(key) {
				slog.WarnContext(r.Context(), "rate limit exceeded", "ip", key, "path", matchedRoutePath(r))

				secs := int(math.Ceil(l.RetryAfter().Seconds()))
				w.Header().Set("Retry-After", strconv.Itoa(max(secs, 1)))
				writeJSON(w, map[string]string{"message": "Too many requests"}, http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
