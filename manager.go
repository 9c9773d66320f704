package bastion

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"github.com/xraph/bastion/cache"
	"github.com/xraph/bastion/lockout"
	"github.com/xraph/bastion/plugin"
	"github.com/xraph/bastion/realm"
	"github.com/xraph/bastion/realm/flatfile"
	"github.com/xraph/bastion/role"
	"github.com/xraph/bastion/user"
)

// realmEntry is one row of the composition table: a realm plus the
// capability toggles it participates with.
type realmEntry struct {
	realm realm.Realm
	flags RealmFlags
}

// Manager composes the active realm chain, throttles failed logins, and
// caches authorization decisions. It is the sole entry point for login
// and permission checks, and also carries the administrative user/role
// management API backed by the internal realm's repositories.
type Manager struct {
	roles     role.Repository
	users     user.Store
	external  []realm.Realm
	entries   []realmEntry
	cache     cache.Cache
	evaluator Evaluator
	lockout   *lockout.Policy
	plugins   *plugin.Registry
	pending   []plugin.Plugin
	logger    *slog.Logger
	clock     lockout.Clock
	config    Config

	// fingerprint identifies the active realm set and its toggles; it is
	// part of every cache key so a configuration change never serves
	// decisions computed under the old chain.
	fingerprint string
}

// NewManager creates a manager from the given options.
//
// The internal realm is always constructed — it backs the management API —
// but joins the authentication/authorization chain only when its flags in
// Config enable it. The chain order is fixed and deterministic: internal
// realm first, then external realms in registration order.
func NewManager(opts ...Option) (*Manager, error) {
	m := &Manager{
		logger: slog.Default(),
		clock:  lockout.SystemClock{},
		config: DefaultConfig(),
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.roles == nil {
		return nil, ErrNoRoleRepository
	}
	if m.users == nil {
		return nil, ErrNoUserStore
	}
	if m.evaluator == nil {
		m.evaluator = NewGrantsEvaluator(m.config.Grants)
	}
	if m.cache == nil {
		m.cache = cache.NewMemory(m.config.CacheTTL, m.config.CacheMaxEntries)
	}
	m.lockout = lockout.New(
		lockout.Config{Window: m.config.LockoutWindow},
		lockout.WithClock(m.clock),
	)

	internal := flatfile.New(m.roles, m.users)
	m.entries = append(m.entries, realmEntry{realm: internal, flags: m.config.Internal})
	for _, r := range m.external {
		m.entries = append(m.entries, realmEntry{realm: r, flags: m.config.flagsFor(r.Kind())})
	}

	if !slices.ContainsFunc(m.entries, func(e realmEntry) bool { return e.flags.Authentication }) {
		return nil, ErrNoAuthRealm
	}
	m.fingerprint = fingerprintRealms(m.entries)

	m.plugins = plugin.NewRegistry(m.logger)
	for _, p := range m.pending {
		m.plugins.Register(p)
	}
	m.pending = nil

	return m, nil
}

// fingerprintRealms hashes the ordered realm set and its toggles.
func fingerprintRealms(entries []realmEntry) string {
	h := sha256.New()
	for _, e := range entries {
		fmt.Fprintf(h, "%s|%s|%s|%s\n",
			e.realm.Name(), e.realm.Kind(),
			strconv.FormatBool(e.flags.Authentication),
			strconv.FormatBool(e.flags.Authorization))
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// Start brings up the role repository, loading durable state.
func (m *Manager) Start(ctx context.Context) error {
	return m.roles.Start(ctx)
}

// Stop notifies plugins of shutdown.
func (m *Manager) Stop(ctx context.Context) error {
	m.plugins.EmitShutdown(ctx)
	return nil
}

// Plugins returns the plugin registry.
func (m *Manager) Plugins() *plugin.Registry { return m.plugins }

// Roles returns the role repository backing the internal realm.
func (m *Manager) Roles() role.Repository { return m.roles }

// ──────────────────────────────────────────────────
// Authentication
// ──────────────────────────────────────────────────

// Login authenticates a principal against the active realm chain.
//
// The lockout policy is consulted first; a throttled principal yields
// OutcomeTooManyAttempts without any realm being asked. Otherwise realms
// with authentication enabled are tried in order and the first one that
// recognizes the principal decides the outcome. The outcome feeds back
// into the lockout policy: success resets the failure counter, failure
// increments it.
//
// End-user-facing callers should collapse OutcomeTooManyAttempts into the
// same generic response as an invalid credential, so lockouts do not leak
// account existence.
func (m *Manager) Login(ctx context.Context, principal, credential string) (*LoginResult, error) {
	m.plugins.EmitBeforeLogin(ctx, principal)

	if !m.lockout.IsPermitted(principal) {
		result := &LoginResult{
			Outcome: realm.OutcomeTooManyAttempts,
			Reason:  "too many failed attempts",
		}
		m.logger.Warn("login throttled", "principal", principal,
			"retry_in", m.lockout.Remaining(principal))
		m.plugins.EmitAfterLogin(ctx, principal, result.Outcome, "")
		return result, nil
	}

	result := m.authenticate(ctx, principal, credential)

	if result.Succeeded() {
		m.lockout.OnSuccess(principal)
		if m.config.LogSuccessfulAuth {
			m.logger.Info("login succeeded", "principal", principal, "realm", result.Realm)
		}
	} else {
		locked, until := m.lockout.OnFailure(principal)
		m.logger.Warn("login failed", "principal", principal,
			"realm", result.Realm, "reason", result.Reason)
		if locked {
			m.logger.Warn("lockout engaged", "principal", principal, "until", until)
			m.plugins.EmitLockoutEngaged(ctx, principal, until)
		}
	}

	m.plugins.EmitAfterLogin(ctx, principal, result.Outcome, result.Realm)
	return result, nil
}

// authenticate walks the chain. Realm calls happen outside any lock held
// by this package, so a slow external realm cannot stall unrelated work.
func (m *Manager) authenticate(ctx context.Context, principal, credential string) *LoginResult {
	for _, e := range m.entries {
		if !e.flags.Authentication {
			continue
		}
		outcome, err := e.realm.Authenticate(ctx, principal, credential)
		if err != nil {
			// An unavailable realm is an ordinary failure, never a hang
			// and never a pass-through to weaker realms.
			m.logger.Warn("realm authentication error", "realm", e.realm.Name(), "error", err)
			return &LoginResult{
				Outcome: realm.OutcomeFailure,
				Realm:   e.realm.Name(),
				Reason:  "realm unavailable",
			}
		}
		switch outcome {
		case realm.OutcomeNotApplicable:
			continue
		case realm.OutcomeSuccess:
			return &LoginResult{Outcome: outcome, Realm: e.realm.Name()}
		default:
			return &LoginResult{
				Outcome: realm.OutcomeFailure,
				Realm:   e.realm.Name(),
				Reason:  "invalid credentials",
			}
		}
	}
	return &LoginResult{
		Outcome: realm.OutcomeFailure,
		Reason:  "principal not recognized by any realm",
	}
}

// ──────────────────────────────────────────────────
// Authorization
// ──────────────────────────────────────────────────

// CheckPermission decides whether the principal holds the queried
// permission ("resource:action"). This is the hot path.
//
// On a cache hit within TTL the cached decision is returned unchanged;
// decisions may therefore lag role-membership changes by up to the cache
// TTL. On a miss, every realm with authorization enabled is asked for the
// principal's roles, the results are unioned, and the decision is cached.
// A decision computed while some realm was unavailable is returned
// alongside ErrRealmUnavailable and is not cached, so degraded results
// never outlive the outage.
func (m *Manager) CheckPermission(ctx context.Context, principal, query string) (*CheckResult, error) {
	start := time.Now()
	m.plugins.EmitBeforeCheck(ctx, principal, query)
	key := cache.Key{
		Tenant:      TenantFromContext(ctx),
		Principal:   principal,
		Fingerprint: m.fingerprint,
		Query:       query,
	}

	if allowed, ok := m.cache.Get(key); ok {
		took := time.Since(start)
		result := &CheckResult{
			Allowed:    allowed,
			Cached:     true,
			EvalTimeNs: took.Nanoseconds(),
		}
		m.plugins.EmitAfterCheck(ctx, principal, query, allowed, true, took)
		return result, nil
	}

	union := make(map[string]struct{})
	degraded := false
	for _, e := range m.entries {
		if !e.flags.Authorization {
			continue
		}
		granted, err := e.realm.GrantedRoles(ctx, principal)
		if err != nil {
			m.logger.Warn("realm authorization error", "realm", e.realm.Name(), "error", err)
			degraded = true
			continue
		}
		for _, r := range granted {
			union[r] = struct{}{}
		}
	}

	roles := make([]string, 0, len(union))
	for r := range union {
		roles = append(roles, r)
	}
	slices.Sort(roles)

	allowed := m.evaluator.Evaluate(roles, query)
	if !degraded {
		m.cache.Set(key, allowed)
	}

	took := time.Since(start)
	result := &CheckResult{
		Allowed:    allowed,
		Roles:      roles,
		EvalTimeNs: took.Nanoseconds(),
	}
	m.plugins.EmitAfterCheck(ctx, principal, query, allowed, false, took)
	if degraded {
		return result, ErrRealmUnavailable
	}
	return result, nil
}

// Allowed is a shorthand for a simple permission check.
func (m *Manager) Allowed(ctx context.Context, principal, query string) (bool, error) {
	result, err := m.CheckPermission(ctx, principal, query)
	if err != nil {
		return false, err
	}
	return result.Allowed, nil
}

// ──────────────────────────────────────────────────
// Administrative management API
// ──────────────────────────────────────────────────

// CreateRole adds a new empty role.
func (m *Manager) CreateRole(ctx context.Context, name string) error {
	if err := m.roles.Create(ctx, name); err != nil {
		return err
	}
	m.plugins.EmitRoleCreated(ctx, name)
	return nil
}

// DeleteRole removes a role and invalidates cached decisions for its
// former members.
func (m *Manager) DeleteRole(ctx context.Context, name string) error {
	rec, err := m.roles.Get(ctx, name)
	if err != nil {
		return err
	}
	if err := m.roles.Delete(ctx, name); err != nil {
		return err
	}
	for _, member := range rec.Members {
		m.cache.InvalidatePrincipal(member)
	}
	m.plugins.EmitRoleDeleted(ctx, name)
	return nil
}

// AddRoleMember adds a principal to a role. The principal's cached
// decisions are invalidated so the new grant takes effect immediately
// rather than after cache TTL.
func (m *Manager) AddRoleMember(ctx context.Context, name, principal string) error {
	if err := m.roles.AddMember(ctx, name, principal); err != nil {
		return err
	}
	m.cache.InvalidatePrincipal(principal)
	m.plugins.EmitMemberAdded(ctx, name, principal)
	return nil
}

// RemoveRoleMember removes a principal from a role, invalidating the
// principal's cached decisions.
func (m *Manager) RemoveRoleMember(ctx context.Context, name, principal string) error {
	if err := m.roles.RemoveMember(ctx, name, principal); err != nil {
		return err
	}
	m.cache.InvalidatePrincipal(principal)
	m.plugins.EmitMemberRemoved(ctx, name, principal)
	return nil
}

// ListRoles returns all role records.
func (m *Manager) ListRoles(ctx context.Context) ([]role.Record, error) {
	return m.roles.List(ctx)
}

// RolesFor returns the roles the internal realm grants the principal.
func (m *Manager) RolesFor(ctx context.Context, principal string) ([]string, error) {
	return m.roles.RolesFor(ctx, principal)
}

// CreateUser adds a new user to the internal realm.
func (m *Manager) CreateUser(ctx context.Context, name, password string) error {
	if err := m.users.Create(ctx, name, password); err != nil {
		return err
	}
	m.plugins.EmitUserCreated(ctx, name)
	return nil
}

// DeleteUser removes a user from the internal realm.
func (m *Manager) DeleteUser(ctx context.Context, name string) error {
	if err := m.users.Delete(ctx, name); err != nil {
		return err
	}
	m.plugins.EmitUserDeleted(ctx, name)
	return nil
}

// ListUsers returns all user names in the internal realm.
func (m *Manager) ListUsers(ctx context.Context) ([]string, error) {
	return m.users.List(ctx)
}

// SetUserPassword replaces a user's credential.
func (m *Manager) SetUserPassword(ctx context.Context, name, password string) error {
	if err := m.users.SetPassword(ctx, name, password); err != nil {
		return err
	}
	m.plugins.EmitPasswordChanged(ctx, name)
	return nil
}

// SetUserSuspended suspends or reactivates a user.
func (m *Manager) SetUserSuspended(ctx context.Context, name string, suspended bool) error {
	return m.users.SetSuspended(ctx, name, suspended)
}

// ClearLockout clears a principal's lockout state (administrator action).
func (m *Manager) ClearLockout(ctx context.Context, principal string) {
	m.lockout.OnSuccess(principal)
	m.logger.Info("lockout cleared", "principal", principal)
	m.plugins.EmitLockoutCleared(ctx, principal)
}

// ReloadRoles asks the role repository to pick up out-of-band edits to
// durable storage. Intended for background scheduling, not request paths.
func (m *Manager) ReloadRoles(ctx context.Context) error {
	return m.roles.ReloadIfNeeded(ctx)
}
