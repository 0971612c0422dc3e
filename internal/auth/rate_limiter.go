package auth

import (
	"sync"
	"time"
)

// cleanupThreshold bounds the tracking map: once it grows past this many
// keys, stale histories are swept out on the next record.
const cleanupThreshold = 1000

// RateLimiter keeps per-client sliding windows over two classes of events:
// failed authentication attempts, and remote-fallback verifications. The
// second class exists because a fallback costs a network round trip to the
// token authority, and a flood of unverifiable tokens must not be allowed to
// turn into a flood of outbound requests.
type RateLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time

	maxFailed    int
	failedWindow time.Duration

	maxFallback    int
	fallbackWindow time.Duration

	now func() time.Time
}

// RateLimiterOpts configures a RateLimiter. Zero values fall back to
// 10 failed attempts per 5 minutes and 10 fallbacks per minute.
type RateLimiterOpts struct {
	MaxFailed      int
	FailedWindow   time.Duration
	MaxFallback    int
	FallbackWindow time.Duration
	Now            func() time.Time
}

// NewRateLimiter constructs a RateLimiter.
func NewRateLimiter(opts RateLimiterOpts) *RateLimiter {
	if opts.MaxFailed <= 0 {
		opts.MaxFailed = 10
	}
	if opts.FailedWindow <= 0 {
		opts.FailedWindow = 5 * time.Minute
	}
	if opts.MaxFallback <= 0 {
		opts.MaxFallback = 10
	}
	if opts.FallbackWindow <= 0 {
		opts.FallbackWindow = time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &RateLimiter{
		attempts:       make(map[string][]time.Time),
		maxFailed:      opts.MaxFailed,
		failedWindow:   opts.FailedWindow,
		maxFallback:    opts.MaxFallback,
		fallbackWindow: opts.FallbackWindow,
		now:            opts.Now,
	}
}

// AllowFailed reports whether the client is still under its failed-attempt
// budget.
func (r *RateLimiter) AllowFailed(clientID string) bool {
	return r.allow(failedKey(clientID), r.maxFailed, r.failedWindow)
}

// RecordFailed charges one failed attempt against the client.
func (r *RateLimiter) RecordFailed(clientID string) {
	r.record(failedKey(clientID), r.failedWindow)
}

// AllowFallback reports whether the client may trigger another remote
// verification.
func (r *RateLimiter) AllowFallback(clientID string) bool {
	return r.allow(fallbackKey(clientID), r.maxFallback, r.fallbackWindow)
}

// RecordFallback charges one remote verification against the client.
func (r *RateLimiter) RecordFallback(clientID string) {
	r.record(fallbackKey(clientID), r.fallbackWindow)
}

// Reset clears the client's histories after a successful authentication so
// that a user who mistyped a stale token a few times is not locked out once
// they present a valid one.
func (r *RateLimiter) Reset(clientID string) {
	r.mu.Lock()
	delete(r.attempts, failedKey(clientID))
	delete(r.attempts, fallbackKey(clientID))
	r.mu.Unlock()
}

func failedKey(clientID string) string   { return "failed:" + clientID }
func fallbackKey(clientID string) string { return "fallback:" + clientID }

func (r *RateLimiter) allow(key string, max int, window time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-window)
	n := 0
	for _, t := range r.attempts[key] {
		if t.After(cutoff) {
			n++
		}
	}
	return n < max
}

func (r *RateLimiter) record(key string, window time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	cutoff := now.Add(-window)
	kept := r.attempts[key][:0]
	for _, t := range r.attempts[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	r.attempts[key] = append(kept, now)

	if len(r.attempts) > cleanupThreshold {
		r.sweep(now)
	}
}

// sweep drops keys whose newest event is older than the longest window.
// Caller holds mu.
func (r *RateLimiter) sweep(now time.Time) {
	maxWindow := r.failedWindow
	if r.fallbackWindow > maxWindow {
		maxWindow = r.fallbackWindow
	}
	cutoff := now.Add(-maxWindow)
	for key, events := range r.attempts {
		if len(events) == 0 || !events[len(events)-1].After(cutoff) {
			delete(r.attempts, key)
		}
	}
}
