package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIdentityCachePutGet(t *testing.T) {
	c := NewIdentityCache(5 * time.Minute)

	_, ok := c.Get("subject-1")
	assert.False(t, ok)

	c.Put("subject-1", "user-1")
	id, ok := c.Get("subject-1")
	assert.True(t, ok)
	assert.Equal(t, "user-1", id)
}

func TestIdentityCacheExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := newIdentityCache(5*time.Minute, func() time.Time { return now })

	c.Put("subject-1", "user-1")

	now = now.Add(4 * time.Minute)
	_, ok := c.Get("subject-1")
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("subject-1")
	assert.False(t, ok)
}

func TestIdentityCacheInvalidate(t *testing.T) {
	c := NewIdentityCache(5 * time.Minute)
	c.Put("subject-1", "user-1")

	c.Invalidate("subject-1")

	_, ok := c.Get("subject-1")
	assert.False(t, ok)
}

func TestIdentityCachePutRefreshesTTL(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := newIdentityCache(5*time.Minute, func() time.Time { return now })

	c.Put("subject-1", "user-1")
	now = now.Add(4 * time.Minute)
	c.Put("subject-1", "user-1")
	now = now.Add(4 * time.Minute)

	_, ok := c.Get("subject-1")
	assert.True(t, ok)
}
