package bastion

import (
	"time"

	"github.com/xraph/bastion/realm"
)

// RealmFlags toggles a realm kind's participation in the authentication
// and authorization chains. The two flags are independent: a realm can
// contribute roles to permission decisions without authenticating anyone,
// and vice versa.
type RealmFlags struct {
	Authentication bool `koanf:"authentication" json:"authentication"`
	Authorization  bool `koanf:"authorization" json:"authorization"`
}

// Config holds configuration for the Manager.
type Config struct {
	// Internal, Directory, and Plugin toggle each realm kind.
	Internal  RealmFlags `koanf:"internal" json:"internal"`
	Directory RealmFlags `koanf:"directory" json:"directory"`
	Plugin    RealmFlags `koanf:"plugin" json:"plugin"`

	// CacheTTL is the time-to-live for cached authorization decisions.
	CacheTTL time.Duration `koanf:"cache_ttl" json:"cache_ttl"`

	// CacheMaxEntries bounds the decision cache; least-recently-used
	// entries are evicted on overflow.
	CacheMaxEntries int `koanf:"cache_max_entries" json:"cache_max_entries"`

	// LockoutWindow is how long authentication is denied after repeated
	// failures. The failure threshold is fixed at three attempts.
	LockoutWindow time.Duration `koanf:"lockout_window" json:"lockout_window"`

	// LogSuccessfulAuth also audits successful logins, not only failures.
	LogSuccessfulAuth bool `koanf:"log_successful_auth" json:"log_successful_auth"`

	// Grants maps role names to the permission patterns they grant.
	// Patterns are "resource:action" with trailing-* glob support.
	// Empty means DefaultGrants.
	Grants map[string][]string `koanf:"grants" json:"grants"`
}

// DefaultConfig returns a Config with sensible defaults: only the
// internal realm enabled, a ten-minute decision cache, and a five-second
// lockout window.
func DefaultConfig() Config {
	return Config{
		Internal:        RealmFlags{Authentication: true, Authorization: true},
		CacheTTL:        10 * time.Minute,
		CacheMaxEntries: 10000,
		LockoutWindow:   5 * time.Second,
	}
}

// flagsFor returns the toggles for a realm kind. Unknown kinds (custom
// realms) participate fully; their presence in the chain is already an
// explicit opt-in.
func (c Config) flagsFor(k realm.Kind) RealmFlags {
	switch k {
	case realm.KindInternal:
		return c.Internal
	case realm.KindDirectory:
		return c.Directory
	case realm.KindPlugin:
		return c.Plugin
	default:
		return RealmFlags{Authentication: true, Authorization: true}
	}
}
