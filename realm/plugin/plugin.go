// Package plugin provides the plugin realm placeholder. A discovery and
// loading mechanism for externally provided realms does not exist yet;
// until it does, the realm recognizes no principals and grants no roles,
// so enabling it changes no decisions.
package plugin

import (
	"context"

	"github.com/xraph/bastion/realm"
)

// Compile-time interface check.
var _ realm.Realm = (*Realm)(nil)

// Realm is the plugin realm stub.
//
// TODO: load realm implementations discovered from a configured plugin
// directory instead of stubbing them out.
type Realm struct{}

// New creates the plugin realm stub.
func New() *Realm { return &Realm{} }

// Name returns the realm name.
func (r *Realm) Name() string { return "plugin" }

// Kind returns realm.KindPlugin.
func (r *Realm) Kind() realm.Kind { return realm.KindPlugin }

// Authenticate reports that no plugin recognizes the principal.
func (r *Realm) Authenticate(_ context.Context, _, _ string) (realm.Outcome, error) {
	return realm.OutcomeNotApplicable, nil
}

// GrantedRoles grants no roles.
func (r *Realm) GrantedRoles(_ context.Context, _ string) ([]string, error) {
	return nil, nil
}
