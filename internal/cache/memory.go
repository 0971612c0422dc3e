package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type memoryEntry struct {
	payload   []byte
	tags      []string
	expiresAt time.Time
}

// Memory is an in-process Cache. It is the default backend when no Redis
// URL is configured and the backing store for single-instance deployments.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	// byTag indexes keys by tag for O(tagged keys) invalidation.
	byTag map[string]map[string]struct{}
	now   func() time.Time
}

// NewMemory constructs an empty in-process cache.
func NewMemory() *Memory {
	return newMemory(time.Now)
}

func newMemory(now func() time.Time) *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		byTag:   make(map[string]map[string]struct{}),
		now:     now,
	}
}

func (m *Memory) Get(_ context.Context, key string, dest any) error {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return ErrMiss
	}
	if m.now().After(entry.expiresAt) {
		m.mu.Lock()
		m.removeLocked(key)
		m.mu.Unlock()
		return ErrMiss
	}
	return json.Unmarshal(entry.payload, dest)
}

func (m *Memory) Set(_ context.Context, key string, value any, ttl time.Duration, tags ...string) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.removeLocked(key)
	m.entries[key] = memoryEntry{
		payload:   payload,
		tags:      tags,
		expiresAt: m.now().Add(ttl),
	}
	for _, tag := range tags {
		keys, ok := m.byTag[tag]
		if !ok {
			keys = make(map[string]struct{})
			m.byTag[tag] = keys
		}
		keys[key] = struct{}{}
	}
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	m.removeLocked(key)
	m.mu.Unlock()
	return nil
}

func (m *Memory) InvalidateTags(_ context.Context, tags ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tag := range tags {
		for key := range m.byTag[tag] {
			m.removeLocked(key)
		}
	}
	return nil
}

// removeLocked drops a key and its tag index entries. Caller holds mu.
func (m *Memory) removeLocked(key string) {
	entry, ok := m.entries[key]
	if !ok {
		return
	}
	delete(m.entries, key)
	for _, tag := range entry.tags {
		delete(m.byTag[tag], key)
		if len(m.byTag[tag]) == 0 {
			delete(m.byTag, tag)
		}
	}
}
