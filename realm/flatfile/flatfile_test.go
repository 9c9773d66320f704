package flatfile

import (
	"context"
	"testing"

	"github.com/xraph/bastion/realm"
	"github.com/xraph/bastion/store/memory"
	"github.com/xraph/bastion/user"
)

func newRealm(t *testing.T) (*Realm, *memory.Repository, *user.MemoryStore) {
	t.Helper()
	roles := memory.New()
	if err := roles.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	users := user.NewMemoryStore()
	return New(roles, users), roles, users
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	r, _, users := newRealm(t)

	if err := users.Create(ctx, "alice", "s3cret"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		principal  string
		credential string
		want       realm.Outcome
	}{
		{"valid credential", "alice", "s3cret", realm.OutcomeSuccess},
		{"wrong credential", "alice", "nope", realm.OutcomeFailure},
		{"unknown principal", "ghost", "pw", realm.OutcomeNotApplicable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Authenticate(ctx, tt.principal, tt.credential)
			if err != nil {
				t.Fatalf("Authenticate() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Authenticate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAuthenticateSuspended(t *testing.T) {
	ctx := context.Background()
	r, _, users := newRealm(t)

	if err := users.Create(ctx, "alice", "s3cret"); err != nil {
		t.Fatal(err)
	}
	if err := users.SetSuspended(ctx, "alice", true); err != nil {
		t.Fatal(err)
	}

	got, err := r.Authenticate(ctx, "alice", "s3cret")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if got != realm.OutcomeFailure {
		t.Errorf("Authenticate(suspended) = %v, want failure even with a valid credential", got)
	}
}

func TestGrantedRoles(t *testing.T) {
	ctx := context.Background()
	r, roles, _ := newRealm(t)

	if err := roles.Create(ctx, "reader"); err != nil {
		t.Fatal(err)
	}
	if err := roles.AddMember(ctx, "reader", "alice"); err != nil {
		t.Fatal(err)
	}

	got, err := r.GrantedRoles(ctx, "alice")
	if err != nil {
		t.Fatalf("GrantedRoles() error = %v", err)
	}
	if len(got) != 1 || got[0] != "reader" {
		t.Errorf("GrantedRoles(alice) = %v, want [reader]", got)
	}
}
