package ratelimiter

import (
	"sync"
	"time"
)

// slidingWindow admits at most maxRequests per key within a rolling window.
// A request at time T counts prior requests with timestamps in (T-window, T].
type slidingWindow struct {
	maxRequests int
	window      time.Duration

	mu      sync.Mutex
	entries map[string][]time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewSlidingWindow creates a limiter admitting maxRequests per window for
// each key. Idle keys are pruned every cleanupInterval; an interval of zero
// disables the cleanup goroutine. Close stops it.
func NewSlidingWindow(maxRequests int, window, cleanupInterval time.Duration) Limiter {
	l := &slidingWindow{
		maxRequests: maxRequests,
		window:      window,
		entries:     make(map[string][]time.Time),
		stop:        make(chan struct{}),
	}

	if cleanupInterval > 0 {
		go l.cleanupLoop(cleanupInterval)
	}

	return l
}

// Allow checks and records a request for the key.
func (l *slidingWindow) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := timeNow()
	windowStart := now.Add(-l.window)

	// Drop timestamps that left the window; order is preserved, so the
	// first kept entry is the oldest.
	kept := l.entries[key][:0]
	for _, ts := range l.entries[key] {
		if ts.After(windowStart) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= l.maxRequests {
		l.entries[key] = kept
		retryAfter := kept[0].Add(l.window).Sub(now)
		if retryAfter < 0 {
			retryAfter = 0
		}
		return false, retryAfter
	}

	l.entries[key] = append(kept, now)
	return true, 0
}

// Close stops the cleanup goroutine.
func (l *slidingWindow) Close() {
	l.stopOnce.Do(func() {
		close(l.stop)
	})
}

func (l *slidingWindow) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.removeStale()
		case <-l.stop:
			return
		}
	}
}

// removeStale drops keys whose every timestamp has left the window, keeping
// the map from growing with one-off clients.
func (l *slidingWindow) removeStale() {
	l.mu.Lock()
	defer l.mu.Unlock()

	windowStart := timeNow().Add(-l.window)
	for key, timestamps := range l.entries {
		stale := true
		for _, ts := range timestamps {
			if ts.After(windowStart) {
				stale = false
				break
			}
		}
		if stale {
			delete(l.entries, key)
		}
	}
}
