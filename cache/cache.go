// Package cache provides the bounded decision cache for authorization
// results.
package cache

import "time"

// Default limits applied when a zero value is configured.
const (
	DefaultTTL        = 10 * time.Minute
	DefaultMaxEntries = 10000
)

// Key identifies a cached authorization decision. The realm-set
// fingerprint is part of the key so a configuration change invalidates
// stale entries without an explicit flush.
type Key struct {
	Tenant      string
	Principal   string
	Fingerprint string
	Query       string
}

// Cache stores authorization decisions. Implementations must support many
// concurrent get/put operations; eviction must not serialize unrelated
// lookups.
type Cache interface {
	// Get returns a cached decision, if present and within TTL.
	Get(key Key) (allowed, ok bool)

	// Set stores a decision.
	Set(key Key, allowed bool)

	// InvalidatePrincipal removes all cached decisions for a principal
	// across tenants and realm configurations.
	InvalidatePrincipal(principal string)

	// Purge removes all cached decisions.
	Purge()

	// Len returns the number of live entries.
	Len() int
}
