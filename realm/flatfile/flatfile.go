// Package flatfile provides the internal realm: authentication against
// the local user store and authorization against the role repository.
//
// The internal realm is always constructed — it backs the administrative
// user/role management API — but participates in the authentication and
// authorization chain only when its configuration flags are enabled.
package flatfile

import (
	"context"
	"errors"
	"fmt"

	"github.com/xraph/bastion/realm"
	"github.com/xraph/bastion/role"
	"github.com/xraph/bastion/user"
)

// Compile-time interface check.
var _ realm.Realm = (*Realm)(nil)

// Realm authenticates principals against a user.Store and resolves roles
// from a role.Repository.
type Realm struct {
	roles role.Repository
	users user.Store
}

// New creates the internal realm over the given repositories.
func New(roles role.Repository, users user.Store) *Realm {
	return &Realm{roles: roles, users: users}
}

// Name returns the realm name.
func (r *Realm) Name() string { return "internal" }

// Kind returns realm.KindInternal.
func (r *Realm) Kind() realm.Kind { return realm.KindInternal }

// Authenticate checks the credential against the stored bcrypt hash.
// Unknown principals yield OutcomeNotApplicable so the next realm in the
// chain is consulted. Suspended users fail without a credential check.
func (r *Realm) Authenticate(ctx context.Context, principal, credential string) (realm.Outcome, error) {
	rec, err := r.users.Get(ctx, principal)
	if errors.Is(err, user.ErrNotFound) {
		return realm.OutcomeNotApplicable, nil
	}
	if err != nil {
		return realm.OutcomeFailure, fmt.Errorf("looking up user: %w", err)
	}
	if rec.Suspended {
		return realm.OutcomeFailure, nil
	}
	if !rec.MatchesPassword(credential) {
		return realm.OutcomeFailure, nil
	}
	return realm.OutcomeSuccess, nil
}

// GrantedRoles returns the roles the principal belongs to in the role
// repository.
func (r *Realm) GrantedRoles(ctx context.Context, principal string) ([]string, error) {
	return r.roles.RolesFor(ctx, principal)
}
