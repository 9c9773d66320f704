// Package audit provides a plugin that writes a structured security log.
// Every event carries a unique event ID so log lines can be referenced
// from incident reports.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/xraph/bastion/id"
	"github.com/xraph/bastion/plugin"
	"github.com/xraph/bastion/realm"
)

// Logger is a plugin that records security-relevant events via slog.
type Logger struct {
	log *slog.Logger

	// logSuccess controls whether successful logins are recorded.
	// Failures, lockouts, and administrative mutations always are.
	logSuccess bool
}

// Option customizes the audit logger.
type Option func(*Logger)

// WithSuccessLogging toggles recording of successful logins.
func WithSuccessLogging(enabled bool) Option {
	return func(l *Logger) { l.logSuccess = enabled }
}

// New creates an audit logger writing to log.
func New(log *slog.Logger, opts ...Option) *Logger {
	l := &Logger{log: log, logSuccess: true}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Name implements plugin.Plugin.
func (l *Logger) Name() string { return "audit" }

func (l *Logger) event(msg string, args ...any) {
	args = append([]any{"event_id", id.NewEventID().String()}, args...)
	l.log.Info(msg, args...)
}

// OnAfterLogin records the outcome of every authentication attempt.
func (l *Logger) OnAfterLogin(ctx context.Context, principal string, outcome realm.Outcome, realmName string) error {
	if outcome == realm.OutcomeSuccess && !l.logSuccess {
		return nil
	}
	l.event("auth."+string(outcome), "principal", principal, "realm", realmName)
	return nil
}

// OnLockoutEngaged records a lockout.
func (l *Logger) OnLockoutEngaged(ctx context.Context, principal string, until time.Time) error {
	l.event("auth.lockout", "principal", principal, "until", until)
	return nil
}

// OnLockoutCleared records an administrative lockout clear.
func (l *Logger) OnLockoutCleared(ctx context.Context, principal string) error {
	l.event("auth.lockout_cleared", "principal", principal)
	return nil
}

// OnAfterCheck records denied permission checks. Allowed checks are too
// frequent to audit.
func (l *Logger) OnAfterCheck(ctx context.Context, principal, query string, allowed, cached bool, _ time.Duration) error {
	if allowed {
		return nil
	}
	l.event("authz.denied", "principal", principal, "query", query, "cached", cached)
	return nil
}

func (l *Logger) OnRoleCreated(ctx context.Context, name string) error {
	l.event("role.created", "role", name)
	return nil
}

func (l *Logger) OnRoleDeleted(ctx context.Context, name string) error {
	l.event("role.deleted", "role", name)
	return nil
}

func (l *Logger) OnMemberAdded(ctx context.Context, role, principal string) error {
	l.event("role.member_added", "role", role, "principal", principal)
	return nil
}

func (l *Logger) OnMemberRemoved(ctx context.Context, role, principal string) error {
	l.event("role.member_removed", "role", role, "principal", principal)
	return nil
}

func (l *Logger) OnUserCreated(ctx context.Context, name string) error {
	l.event("user.created", "user", name)
	return nil
}

func (l *Logger) OnUserDeleted(ctx context.Context, name string) error {
	l.event("user.deleted", "user", name)
	return nil
}

func (l *Logger) OnPasswordChanged(ctx context.Context, name string) error {
	l.event("user.password_changed", "user", name)
	return nil
}

// Interface checks.
var (
	_ plugin.Plugin          = (*Logger)(nil)
	_ plugin.AfterLogin      = (*Logger)(nil)
	_ plugin.LockoutEngaged  = (*Logger)(nil)
	_ plugin.LockoutCleared  = (*Logger)(nil)
	_ plugin.AfterCheck      = (*Logger)(nil)
	_ plugin.RoleCreated     = (*Logger)(nil)
	_ plugin.RoleDeleted     = (*Logger)(nil)
	_ plugin.MemberAdded     = (*Logger)(nil)
	_ plugin.MemberRemoved   = (*Logger)(nil)
	_ plugin.UserCreated     = (*Logger)(nil)
	_ plugin.UserDeleted     = (*Logger)(nil)
	_ plugin.PasswordChanged = (*Logger)(nil)
)
