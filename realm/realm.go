// Package realm defines the contract implemented by every pluggable
// authentication/authorization backend.
//
// A realm may support authentication, authorization, or both; which of
// its capabilities actually participate in the active chain is decided
// by the manager's configuration, not by the realm itself.
package realm

import "context"

// Kind identifies the configuration bucket a realm belongs to.
// Authentication/authorization toggles are configured per kind.
type Kind string

const (
	// KindInternal is the built-in realm backed by the role repository
	// and user store.
	KindInternal Kind = "internal"

	// KindDirectory is an external directory service (e.g. LDAP).
	KindDirectory Kind = "directory"

	// KindPlugin is a dynamically provided realm.
	KindPlugin Kind = "plugin"
)

// Outcome is the result of an authentication attempt.
type Outcome string

const (
	// OutcomeSuccess means the realm recognized the principal and the
	// credential was valid.
	OutcomeSuccess Outcome = "success"

	// OutcomeFailure means the realm recognized the principal but the
	// credential was invalid, or the realm could not complete the check.
	OutcomeFailure Outcome = "failure"

	// OutcomeNotApplicable means the realm does not know the principal;
	// the next realm in the chain should be consulted.
	OutcomeNotApplicable Outcome = "not_applicable"

	// OutcomeTooManyAttempts means the lockout policy denied the attempt
	// before any realm was consulted. Realms never return this outcome
	// themselves.
	OutcomeTooManyAttempts Outcome = "too_many_attempts"
)

// Realm is a pluggable identity backend.
//
// Implementations must be safe for concurrent use. Blocking calls to
// external services are the realm's responsibility to bound; a timeout
// must surface as OutcomeFailure or an error, never as a hang.
type Realm interface {
	// Name returns a unique human-readable name for the realm.
	Name() string

	// Kind returns the configuration bucket this realm belongs to.
	Kind() Kind

	// Authenticate checks the credential for the given principal.
	// OutcomeNotApplicable means the principal is unknown to this realm.
	Authenticate(ctx context.Context, principal, credential string) (Outcome, error)

	// GrantedRoles returns the roles this realm grants the principal.
	// An unknown principal yields an empty set, not an error.
	GrantedRoles(ctx context.Context, principal string) ([]string, error)
}
