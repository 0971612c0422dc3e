package auth

import (
	"sync"
	"time"
)

type identityEntry struct {
	userID    string
	expiresAt time.Time
}

// IdentityCache maps token subjects to internal user IDs for a bounded TTL,
// short-circuiting the per-request database lookup on hot paths. Entries are
// evicted lazily on read.
type IdentityCache struct {
	mu      sync.RWMutex
	entries map[string]identityEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewIdentityCache constructs a cache with the given entry TTL.
func NewIdentityCache(ttl time.Duration) *IdentityCache {
	return newIdentityCache(ttl, time.Now)
}

func newIdentityCache(ttl time.Duration, now func() time.Time) *IdentityCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &IdentityCache{
		entries: make(map[string]identityEntry),
		ttl:     ttl,
		now:     now,
	}
}

// Get returns the cached user ID for a subject, if present and fresh.
func (c *IdentityCache) Get(subject string) (string, bool) {
	c.mu.RLock()
	entry, ok := c.entries[subject]
	c.mu.RUnlock()
	if !ok {
		return "", false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock: a concurrent Put may have
		// refreshed the entry since we released the read lock.
		if cur, ok := c.entries[subject]; ok && c.now().After(cur.expiresAt) {
			delete(c.entries, subject)
		}
		c.mu.Unlock()
		return "", false
	}
	return entry.userID, true
}

// Put stores a subject to user ID mapping for the cache TTL.
func (c *IdentityCache) Put(subject, userID string) {
	c.mu.Lock()
	c.entries[subject] = identityEntry{userID: userID, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// Invalidate drops a subject's entry, if any.
func (c *IdentityCache) Invalidate(subject string) {
	c.mu.Lock()
	delete(c.entries, subject)
	c.mu.Unlock()
}
