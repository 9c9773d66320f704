package directory

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/xraph/bastion/realm"
)

// fakeClient scripts bind and group lookups.
type fakeClient struct {
	bindErr   error
	groups    []string
	groupsErr error
}

func (c *fakeClient) Bind(context.Context, string, string) error { return c.bindErr }

func (c *fakeClient) Groups(context.Context, string) ([]string, error) {
	return c.groups, c.groupsErr
}

func TestAuthenticateOutcomes(t *testing.T) {
	tests := []struct {
		name    string
		bindErr error
		want    realm.Outcome
		wantErr bool
	}{
		{name: "bind ok", bindErr: nil, want: realm.OutcomeSuccess},
		{name: "unknown principal", bindErr: ErrUnknownPrincipal, want: realm.OutcomeNotApplicable},
		{name: "bad credentials", bindErr: ErrInvalidCredentials, want: realm.OutcomeFailure},
		{name: "directory down", bindErr: errors.New("connection refused"), want: realm.OutcomeFailure, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(&fakeClient{bindErr: tt.bindErr})
			got, err := r.Authenticate(context.Background(), "alice", "pw")
			if got != tt.want {
				t.Errorf("Authenticate() = %v, want %v", got, tt.want)
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("Authenticate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGrantedRolesWithoutMapping(t *testing.T) {
	r := New(&fakeClient{groups: []string{"engineers", "oncall"}})
	roles, err := r.GrantedRoles(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GrantedRoles() error = %v", err)
	}
	if !slices.Equal(roles, []string{"engineers", "oncall"}) {
		t.Errorf("GrantedRoles() = %v, want group names as roles", roles)
	}
}

func TestGrantedRolesWithMapping(t *testing.T) {
	r := New(
		&fakeClient{groups: []string{"engineers", "contractors", "oncall"}},
		WithGroupMapping(map[string]string{
			"engineers": "publisher",
			"oncall":    "admin",
		}),
	)
	roles, err := r.GrantedRoles(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GrantedRoles() error = %v", err)
	}
	// Unmapped groups are dropped.
	if !slices.Equal(roles, []string{"publisher", "admin"}) {
		t.Errorf("GrantedRoles() = %v, want [publisher admin]", roles)
	}
}

func TestGrantedRolesError(t *testing.T) {
	r := New(&fakeClient{groupsErr: errors.New("timeout")})
	if _, err := r.GrantedRoles(context.Background(), "alice"); err == nil {
		t.Error("GrantedRoles() error = nil, want lookup failure surfaced")
	}
}
