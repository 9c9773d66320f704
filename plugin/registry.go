package plugin

import (
	"context"
	"log/slog"
	"time"

	"github.com/xraph/bastion/realm"
)

// Named entry types pair a hook with the plugin name for logging.

type beforeLoginEntry struct {
	name string
	hook BeforeLogin
}
type afterLoginEntry struct {
	name string
	hook AfterLogin
}
type lockoutEngagedEntry struct {
	name string
	hook LockoutEngaged
}
type lockoutClearedEntry struct {
	name string
	hook LockoutCleared
}
type beforeCheckEntry struct {
	name string
	hook BeforeCheck
}
type afterCheckEntry struct {
	name string
	hook AfterCheck
}
type roleCreatedEntry struct {
	name string
	hook RoleCreated
}
type roleDeletedEntry struct {
	name string
	hook RoleDeleted
}
type memberAddedEntry struct {
	name string
	hook MemberAdded
}
type memberRemovedEntry struct {
	name string
	hook MemberRemoved
}
type userCreatedEntry struct {
	name string
	hook UserCreated
}
type userDeletedEntry struct {
	name string
	hook UserDeleted
}
type passwordChangedEntry struct {
	name string
	hook PasswordChanged
}
type shutdownEntry struct {
	name string
	hook Shutdown
}

// Registry holds registered plugins and dispatches lifecycle events.
// It type-caches plugins at registration time so emit calls iterate
// only over plugins implementing the relevant hook.
type Registry struct {
	plugins []Plugin
	logger  *slog.Logger

	beforeLogin     []beforeLoginEntry
	afterLogin      []afterLoginEntry
	lockoutEngaged  []lockoutEngagedEntry
	lockoutCleared  []lockoutClearedEntry
	beforeCheck     []beforeCheckEntry
	afterCheck      []afterCheckEntry
	roleCreated     []roleCreatedEntry
	roleDeleted     []roleDeletedEntry
	memberAdded     []memberAddedEntry
	memberRemoved   []memberRemovedEntry
	userCreated     []userCreatedEntry
	userDeleted     []userDeletedEntry
	passwordChanged []passwordChangedEntry
	shutdown        []shutdownEntry
}

// NewRegistry creates a plugin registry with the given logger.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{logger: logger}
}

// Register adds a plugin and type-asserts it into all applicable
// hook caches. Plugins are notified in registration order.
func (r *Registry) Register(p Plugin) {
	r.plugins = append(r.plugins, p)
	name := p.Name()

	if h, ok := p.(BeforeLogin); ok {
		r.beforeLogin = append(r.beforeLogin, beforeLoginEntry{name, h})
	}
	if h, ok := p.(AfterLogin); ok {
		r.afterLogin = append(r.afterLogin, afterLoginEntry{name, h})
	}
	if h, ok := p.(LockoutEngaged); ok {
		r.lockoutEngaged = append(r.lockoutEngaged, lockoutEngagedEntry{name, h})
	}
	if h, ok := p.(LockoutCleared); ok {
		r.lockoutCleared = append(r.lockoutCleared, lockoutClearedEntry{name, h})
	}
	if h, ok := p.(BeforeCheck); ok {
		r.beforeCheck = append(r.beforeCheck, beforeCheckEntry{name, h})
	}
	if h, ok := p.(AfterCheck); ok {
		r.afterCheck = append(r.afterCheck, afterCheckEntry{name, h})
	}
	if h, ok := p.(RoleCreated); ok {
		r.roleCreated = append(r.roleCreated, roleCreatedEntry{name, h})
	}
	if h, ok := p.(RoleDeleted); ok {
		r.roleDeleted = append(r.roleDeleted, roleDeletedEntry{name, h})
	}
	if h, ok := p.(MemberAdded); ok {
		r.memberAdded = append(r.memberAdded, memberAddedEntry{name, h})
	}
	if h, ok := p.(MemberRemoved); ok {
		r.memberRemoved = append(r.memberRemoved, memberRemovedEntry{name, h})
	}
	if h, ok := p.(UserCreated); ok {
		r.userCreated = append(r.userCreated, userCreatedEntry{name, h})
	}
	if h, ok := p.(UserDeleted); ok {
		r.userDeleted = append(r.userDeleted, userDeletedEntry{name, h})
	}
	if h, ok := p.(PasswordChanged); ok {
		r.passwordChanged = append(r.passwordChanged, passwordChangedEntry{name, h})
	}
	if h, ok := p.(Shutdown); ok {
		r.shutdown = append(r.shutdown, shutdownEntry{name, h})
	}
}

// Plugins returns all registered plugins.
func (r *Registry) Plugins() []Plugin { return r.plugins }

// ──────────────────────────────────────────────────
// Login event emitters
// ──────────────────────────────────────────────────

// EmitBeforeLogin notifies all plugins that implement BeforeLogin.
func (r *Registry) EmitBeforeLogin(ctx context.Context, principal string) {
	for _, e := range r.beforeLogin {
		if err := e.hook.OnBeforeLogin(ctx, principal); err != nil {
			r.logHookError("OnBeforeLogin", e.name, err)
		}
	}
}

// EmitAfterLogin notifies all plugins that implement AfterLogin.
func (r *Registry) EmitAfterLogin(ctx context.Context, principal string, outcome realm.Outcome, realmName string) {
	for _, e := range r.afterLogin {
		if err := e.hook.OnAfterLogin(ctx, principal, outcome, realmName); err != nil {
			r.logHookError("OnAfterLogin", e.name, err)
		}
	}
}

// EmitLockoutEngaged notifies all plugins that implement LockoutEngaged.
func (r *Registry) EmitLockoutEngaged(ctx context.Context, principal string, until time.Time) {
	for _, e := range r.lockoutEngaged {
		if err := e.hook.OnLockoutEngaged(ctx, principal, until); err != nil {
			r.logHookError("OnLockoutEngaged", e.name, err)
		}
	}
}

// EmitLockoutCleared notifies all plugins that implement LockoutCleared.
func (r *Registry) EmitLockoutCleared(ctx context.Context, principal string) {
	for _, e := range r.lockoutCleared {
		if err := e.hook.OnLockoutCleared(ctx, principal); err != nil {
			r.logHookError("OnLockoutCleared", e.name, err)
		}
	}
}

// ──────────────────────────────────────────────────
// Check event emitters
// ──────────────────────────────────────────────────

// EmitBeforeCheck notifies all plugins that implement BeforeCheck.
func (r *Registry) EmitBeforeCheck(ctx context.Context, principal, query string) {
	for _, e := range r.beforeCheck {
		if err := e.hook.OnBeforeCheck(ctx, principal, query); err != nil {
			r.logHookError("OnBeforeCheck", e.name, err)
		}
	}
}

// EmitAfterCheck notifies all plugins that implement AfterCheck.
func (r *Registry) EmitAfterCheck(ctx context.Context, principal, query string, allowed, cached bool, took time.Duration) {
	for _, e := range r.afterCheck {
		if err := e.hook.OnAfterCheck(ctx, principal, query, allowed, cached, took); err != nil {
			r.logHookError("OnAfterCheck", e.name, err)
		}
	}
}

// ──────────────────────────────────────────────────
// Role event emitters
// ──────────────────────────────────────────────────

// EmitRoleCreated notifies all plugins that implement RoleCreated.
func (r *Registry) EmitRoleCreated(ctx context.Context, name string) {
	for _, e := range r.roleCreated {
		if err := e.hook.OnRoleCreated(ctx, name); err != nil {
			r.logHookError("OnRoleCreated", e.name, err)
		}
	}
}

// EmitRoleDeleted notifies all plugins that implement RoleDeleted.
func (r *Registry) EmitRoleDeleted(ctx context.Context, name string) {
	for _, e := range r.roleDeleted {
		if err := e.hook.OnRoleDeleted(ctx, name); err != nil {
			r.logHookError("OnRoleDeleted", e.name, err)
		}
	}
}

// EmitMemberAdded notifies all plugins that implement MemberAdded.
func (r *Registry) EmitMemberAdded(ctx context.Context, role, principal string) {
	for _, e := range r.memberAdded {
		if err := e.hook.OnMemberAdded(ctx, role, principal); err != nil {
			r.logHookError("OnMemberAdded", e.name, err)
		}
	}
}

// EmitMemberRemoved notifies all plugins that implement MemberRemoved.
func (r *Registry) EmitMemberRemoved(ctx context.Context, role, principal string) {
	for _, e := range r.memberRemoved {
		if err := e.hook.OnMemberRemoved(ctx, role, principal); err != nil {
			r.logHookError("OnMemberRemoved", e.name, err)
		}
	}
}

// ──────────────────────────────────────────────────
// User event emitters
// ──────────────────────────────────────────────────

// EmitUserCreated notifies all plugins that implement UserCreated.
func (r *Registry) EmitUserCreated(ctx context.Context, name string) {
	for _, e := range r.userCreated {
		if err := e.hook.OnUserCreated(ctx, name); err != nil {
			r.logHookError("OnUserCreated", e.name, err)
		}
	}
}

// EmitUserDeleted notifies all plugins that implement UserDeleted.
func (r *Registry) EmitUserDeleted(ctx context.Context, name string) {
	for _, e := range r.userDeleted {
		if err := e.hook.OnUserDeleted(ctx, name); err != nil {
			r.logHookError("OnUserDeleted", e.name, err)
		}
	}
}

// EmitPasswordChanged notifies all plugins that implement PasswordChanged.
func (r *Registry) EmitPasswordChanged(ctx context.Context, name string) {
	for _, e := range r.passwordChanged {
		if err := e.hook.OnPasswordChanged(ctx, name); err != nil {
			r.logHookError("OnPasswordChanged", e.name, err)
		}
	}
}

// ──────────────────────────────────────────────────
// Shutdown emitter
// ──────────────────────────────────────────────────

// EmitShutdown notifies all plugins that implement Shutdown.
func (r *Registry) EmitShutdown(ctx context.Context) {
	for _, e := range r.shutdown {
		if err := e.hook.OnShutdown(ctx); err != nil {
			r.logHookError("OnShutdown", e.name, err)
		}
	}
}

func (r *Registry) logHookError(hook, plugin string, err error) {
	if r.logger != nil {
		r.logger.Warn("plugin hook failed", "hook", hook, "plugin", plugin, "error", err)
	}
}
