// Package bastion provides a composable authentication and authorization
// core for multi-tenant services.
//
// Bastion composes multiple pluggable identity backends ("realms"),
// caches authorization decisions, throttles repeated failed logins, and
// persists role membership durably across restarts. It is the decision
// engine a login protocol calls into; it does not define a network-facing
// login protocol itself.
//
//	repo, _ := file.New("/var/lib/app/roles")
//	mgr, err := bastion.NewManager(
//	    bastion.WithRoleRepository(repo),
//	    bastion.WithUserStore(users),
//	)
//	result, err := mgr.Login(ctx, "alice", "s3cret")
//	check, err := mgr.CheckPermission(ctx, "alice", "data:write")
package bastion

import (
	"github.com/xraph/bastion/realm"
)

// LoginResult is the outcome of an authentication attempt.
type LoginResult struct {
	// Outcome is the authentication outcome. OutcomeTooManyAttempts means
	// the lockout policy denied the attempt before any realm was consulted.
	Outcome realm.Outcome `json:"outcome"`

	// Realm is the name of the realm that recognized the principal,
	// empty if none did or the attempt was throttled.
	Realm string `json:"realm,omitempty"`

	// Reason is a short human-readable explanation for audit purposes.
	// Callers facing end users should return a generic invalid-credential
	// failure instead, to avoid leaking account-enumeration information.
	Reason string `json:"reason,omitempty"`
}

// Succeeded reports whether the attempt authenticated the principal.
func (r *LoginResult) Succeeded() bool { return r.Outcome == realm.OutcomeSuccess }

// CheckResult is the outcome of a permission check.
type CheckResult struct {
	// Allowed reports whether the principal holds the queried permission.
	Allowed bool `json:"allowed"`

	// Cached reports whether the decision came from the decision cache.
	// Cached decisions may lag role-membership changes by up to the
	// configured cache TTL.
	Cached bool `json:"cached"`

	// Roles is the union of roles granted by all authorization-enabled
	// realms at evaluation time. Empty for cached decisions.
	Roles []string `json:"roles,omitempty"`

	// EvalTimeNs is the wall time spent evaluating the check.
	EvalTimeNs int64 `json:"eval_time_ns"`
}
