package bastion

import (
	"log/slog"

	"github.com/xraph/bastion/cache"
	"github.com/xraph/bastion/lockout"
	"github.com/xraph/bastion/plugin"
	"github.com/xraph/bastion/realm"
	"github.com/xraph/bastion/role"
	"github.com/xraph/bastion/user"
)

// Option is a functional option for the Manager.
type Option func(*Manager)

// WithRoleRepository sets the role repository backing the internal realm.
// Required.
func WithRoleRepository(r role.Repository) Option {
	return func(m *Manager) { m.roles = r }
}

// WithUserStore sets the user store backing the internal realm. Required.
func WithUserStore(s user.Store) Option {
	return func(m *Manager) { m.users = s }
}

// WithRealm appends an external realm to the chain. External realms are
// consulted after the internal realm, in registration order.
func WithRealm(r realm.Realm) Option {
	return func(m *Manager) { m.external = append(m.external, r) }
}

// WithCache replaces the default decision cache.
func WithCache(c cache.Cache) Option {
	return func(m *Manager) { m.cache = c }
}

// WithClock sets the clock used by the lockout policy, enabling
// deterministic tests.
func WithClock(c lockout.Clock) Option {
	return func(m *Manager) { m.clock = c }
}

// WithEvaluator replaces the default grants-table permission evaluator.
func WithEvaluator(e Evaluator) Option {
	return func(m *Manager) { m.evaluator = e }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithConfig sets the manager configuration.
func WithConfig(c Config) Option {
	return func(m *Manager) { m.config = c }
}

// WithPlugin registers a plugin with the manager.
func WithPlugin(p plugin.Plugin) Option {
	return func(m *Manager) { m.pending = append(m.pending, p) }
}
