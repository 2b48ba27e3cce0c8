package middleware

import (
	"math"
	"net/http"

	"github.com/corporate-inc/contact-api/metrics"
	"github.com/corporate-inc/contact-api/ratelimiter"
)

// RateLimit applies a coarse per-client budget to everything behind it. The
// limiter key is the resolved client IP; rejected requests get a 429 with a
// Retry-After header. The strict per-submission limit lives in the contact
// service, keyed by IP hash — this guard only keeps bulk traffic off the API.
func RateLimit(limiter ratelimiter.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, retryAfter := limiter.Allow(ClientIP(r))
			if !ok {
				metrics.ObserveRateLimited(metrics.ScopeAPI)
				writeRateLimitError(w, int(math.Ceil(retryAfter.Seconds())))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
