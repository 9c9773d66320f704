// Package directory provides a realm backed by an external directory
// service (e.g. LDAP). The wire protocol is the Client's concern; this
// package adapts a Client to the realm contract and maps directory
// groups onto roles.
package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/xraph/bastion/realm"
)

// Sentinel errors a Client uses to classify bind failures.
var (
	// ErrUnknownPrincipal means the directory has no entry for the
	// principal; the realm reports OutcomeNotApplicable.
	ErrUnknownPrincipal = errors.New("bastion: principal unknown to directory")

	// ErrInvalidCredentials means the bind was rejected.
	ErrInvalidCredentials = errors.New("bastion: directory rejected credentials")
)

// Client is the directory-service connection. Implementations own
// timeouts against the remote service; a hung directory must surface as
// an error, never block indefinitely.
type Client interface {
	// Bind verifies the credential for the principal. It returns
	// ErrUnknownPrincipal or ErrInvalidCredentials for the two expected
	// failure classes; any other error is treated as the directory being
	// unavailable.
	Bind(ctx context.Context, principal, credential string) error

	// Groups returns the directory groups the principal belongs to.
	Groups(ctx context.Context, principal string) ([]string, error)
}

// Compile-time interface check.
var _ realm.Realm = (*Realm)(nil)

// Realm adapts a directory Client to the realm contract.
type Realm struct {
	client      Client
	groupToRole map[string]string
}

// Option configures the realm.
type Option func(*Realm)

// WithGroupMapping sets the directory-group to role mapping. Groups
// without a mapping are ignored. A nil mapping (the default) uses group
// names as role names directly.
func WithGroupMapping(m map[string]string) Option {
	return func(r *Realm) { r.groupToRole = m }
}

// New creates a directory realm over the given client.
func New(client Client, opts ...Option) *Realm {
	r := &Realm{client: client}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Name returns the realm name.
func (r *Realm) Name() string { return "directory" }

// Kind returns realm.KindDirectory.
func (r *Realm) Kind() realm.Kind { return realm.KindDirectory }

// Authenticate binds against the directory. An unavailable directory
// (including a client-side timeout) is an ordinary authentication
// failure.
func (r *Realm) Authenticate(ctx context.Context, principal, credential string) (realm.Outcome, error) {
	err := r.client.Bind(ctx, principal, credential)
	switch {
	case err == nil:
		return realm.OutcomeSuccess, nil
	case errors.Is(err, ErrUnknownPrincipal):
		return realm.OutcomeNotApplicable, nil
	case errors.Is(err, ErrInvalidCredentials):
		return realm.OutcomeFailure, nil
	default:
		return realm.OutcomeFailure, fmt.Errorf("directory bind: %w", err)
	}
}

// GrantedRoles maps the principal's directory groups onto roles.
func (r *Realm) GrantedRoles(ctx context.Context, principal string) ([]string, error) {
	groups, err := r.client.Groups(ctx, principal)
	if err != nil {
		return nil, fmt.Errorf("directory groups: %w", err)
	}
	if r.groupToRole == nil {
		return groups, nil
	}
	var roles []string
	for _, g := range groups {
		if mapped, ok := r.groupToRole[g]; ok {
			roles = append(roles, mapped)
		}
	}
	return roles, nil
}
