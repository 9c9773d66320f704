package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Compile-time interface check.
var _ Cache = (*Memory)(nil)

// Memory is an in-memory decision cache with TTL expiry and LRU eviction
// once the configured capacity is exceeded. Expired entries are also
// swept by a background reaper owned by the underlying LRU.
type Memory struct {
	lru *expirable.LRU[Key, bool]
}

// NewMemory creates a decision cache. Zero values select DefaultTTL and
// DefaultMaxEntries.
func NewMemory(ttl time.Duration, maxEntries int) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Memory{lru: expirable.NewLRU[Key, bool](maxEntries, nil, ttl)}
}

// Get returns a cached decision, if present and within TTL.
func (m *Memory) Get(key Key) (allowed, ok bool) {
	return m.lru.Get(key)
}

// Set stores a decision, evicting the least recently used entry when the
// cache is at capacity.
func (m *Memory) Set(key Key, allowed bool) {
	m.lru.Add(key, allowed)
}

// InvalidatePrincipal removes all cached decisions for a principal.
func (m *Memory) InvalidatePrincipal(principal string) {
	for _, key := range m.lru.Keys() {
		if key.Principal == principal {
			m.lru.Remove(key)
		}
	}
}

// Purge removes all cached decisions.
func (m *Memory) Purge() { m.lru.Purge() }

// Len returns the number of live entries.
func (m *Memory) Len() int { return m.lru.Len() }
