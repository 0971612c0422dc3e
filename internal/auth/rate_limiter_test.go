package auth

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterFailedWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r := NewRateLimiter(RateLimiterOpts{
		MaxFailed:    3,
		FailedWindow: 5 * time.Minute,
		Now:          func() time.Time { return now },
	})

	for i := 0; i < 3; i++ {
		assert.True(t, r.AllowFailed("1.2.3.4"))
		r.RecordFailed("1.2.3.4")
	}
	assert.False(t, r.AllowFailed("1.2.3.4"))

	// Other clients are unaffected.
	assert.True(t, r.AllowFailed("5.6.7.8"))

	// Attempts expire once they leave the window.
	now = now.Add(6 * time.Minute)
	assert.True(t, r.AllowFailed("1.2.3.4"))
}

func TestRateLimiterFallbackBudget(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r := NewRateLimiter(RateLimiterOpts{
		MaxFallback:    10,
		FallbackWindow: time.Minute,
		Now:            func() time.Time { return now },
	})

	for i := 0; i < 10; i++ {
		assert.True(t, r.AllowFallback("1.2.3.4"), "attempt %d", i+1)
		r.RecordFallback("1.2.3.4")
	}
	assert.False(t, r.AllowFallback("1.2.3.4"), "11th attempt within the window")

	now = now.Add(61 * time.Second)
	assert.True(t, r.AllowFallback("1.2.3.4"))
}

func TestRateLimiterFallbackIndependentOfFailed(t *testing.T) {
	r := NewRateLimiter(RateLimiterOpts{MaxFailed: 1, MaxFallback: 1})

	r.RecordFailed("1.2.3.4")

	assert.False(t, r.AllowFailed("1.2.3.4"))
	assert.True(t, r.AllowFallback("1.2.3.4"))
}

func TestRateLimiterReset(t *testing.T) {
	r := NewRateLimiter(RateLimiterOpts{MaxFailed: 1, MaxFallback: 1})
	r.RecordFailed("1.2.3.4")
	r.RecordFallback("1.2.3.4")

	r.Reset("1.2.3.4")

	assert.True(t, r.AllowFailed("1.2.3.4"))
	assert.True(t, r.AllowFallback("1.2.3.4"))
}

func TestRateLimiterSweepsStaleClients(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r := NewRateLimiter(RateLimiterOpts{
		FailedWindow:   5 * time.Minute,
		FallbackWindow: time.Minute,
		Now:            func() time.Time { return now },
	})

	for i := 0; i < cleanupThreshold+1; i++ {
		r.RecordFailed(fmt.Sprintf("10.0.%d.%d", i/256, i%256))
	}

	now = now.Add(time.Hour)
	r.RecordFailed("fresh-client")

	r.mu.Lock()
	defer r.mu.Unlock()
	assert.Len(t, r.attempts, 1)
}
