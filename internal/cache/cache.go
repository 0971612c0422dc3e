// Package cache provides a small read-through result cache with tag-based
// invalidation. Values are cached as JSON so the memory and Redis backends
// behave identically.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Cache stores serialized results under string keys. Each entry may carry
// tags; InvalidateTags drops every entry sharing a tag, which lets writers
// evict all cached views of a data room without enumerating keys.
type Cache interface {
	// Get unmarshals the entry at key into dest, or returns ErrMiss.
	Get(ctx context.Context, key string, dest any) error

	// Set stores value at key for ttl, associated with tags.
	Set(ctx context.Context, key string, value any, ttl time.Duration, tags ...string) error

	// Delete removes a single key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// InvalidateTags removes every entry carrying any of the given tags.
	InvalidateTags(ctx context.Context, tags ...string) error
}
