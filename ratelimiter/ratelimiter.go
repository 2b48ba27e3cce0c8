package ratelimiter

import "time"

// timeNow is overridable in tests
var timeNow = func() time.Time {
	return time.Now()
}

// Limiter admits or rejects requests for a client key.
type Limiter interface {
	// Allow reports whether the key may proceed now. When it may not,
	// retryAfter is how long until the next request would be admitted.
	Allow(key string) (ok bool, retryAfter time.Duration)
	// Close releases background resources. Safe to call more than once.
	Close()
}
