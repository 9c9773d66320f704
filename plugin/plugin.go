// Package plugin defines the plugin system for bastion.
// Plugins are notified of lifecycle events (login attempted, lockout
// engaged, permission checked, role mutated, etc.) and can react —
// audit logging, metrics, tracing, etc.
//
// Each lifecycle hook is a separate interface so plugins opt in only
// to the events they care about.
package plugin

import (
	"context"
	"time"

	"github.com/xraph/bastion/realm"
)

// Plugin is the base interface all plugins must implement.
type Plugin interface {
	// Name returns a unique human-readable name for the plugin.
	Name() string
}

// ──────────────────────────────────────────────────
// Login lifecycle hooks
// ──────────────────────────────────────────────────

// BeforeLogin is called before an authentication attempt is evaluated.
type BeforeLogin interface {
	OnBeforeLogin(ctx context.Context, principal string) error
}

// AfterLogin is called after an authentication attempt completes.
// realmName is empty when no realm recognized the principal or the
// attempt was throttled.
type AfterLogin interface {
	OnAfterLogin(ctx context.Context, principal string, outcome realm.Outcome, realmName string) error
}

// LockoutEngaged is called when repeated failures lock a principal out.
type LockoutEngaged interface {
	OnLockoutEngaged(ctx context.Context, principal string, until time.Time) error
}

// LockoutCleared is called when a lockout is cleared by an administrator.
type LockoutCleared interface {
	OnLockoutCleared(ctx context.Context, principal string) error
}

// ──────────────────────────────────────────────────
// Permission check hooks
// ──────────────────────────────────────────────────

// BeforeCheck is called before a permission check is evaluated.
type BeforeCheck interface {
	OnBeforeCheck(ctx context.Context, principal, query string) error
}

// AfterCheck is called after a permission check completes. took is the
// total check latency, cache lookup included.
type AfterCheck interface {
	OnAfterCheck(ctx context.Context, principal, query string, allowed, cached bool, took time.Duration) error
}

// ──────────────────────────────────────────────────
// Role lifecycle hooks
// ──────────────────────────────────────────────────

// RoleCreated is called after a role is created.
type RoleCreated interface {
	OnRoleCreated(ctx context.Context, name string) error
}

// RoleDeleted is called after a role is deleted.
type RoleDeleted interface {
	OnRoleDeleted(ctx context.Context, name string) error
}

// MemberAdded is called after a principal is added to a role.
type MemberAdded interface {
	OnMemberAdded(ctx context.Context, role, principal string) error
}

// MemberRemoved is called after a principal is removed from a role.
type MemberRemoved interface {
	OnMemberRemoved(ctx context.Context, role, principal string) error
}

// ──────────────────────────────────────────────────
// User lifecycle hooks
// ──────────────────────────────────────────────────

// UserCreated is called after a user is created.
type UserCreated interface {
	OnUserCreated(ctx context.Context, name string) error
}

// UserDeleted is called after a user is deleted.
type UserDeleted interface {
	OnUserDeleted(ctx context.Context, name string) error
}

// PasswordChanged is called after a user's credential is replaced.
type PasswordChanged interface {
	OnPasswordChanged(ctx context.Context, name string) error
}

// ──────────────────────────────────────────────────
// Shutdown hook
// ──────────────────────────────────────────────────

// Shutdown is called during graceful shutdown.
type Shutdown interface {
	OnShutdown(ctx context.Context) error
}
