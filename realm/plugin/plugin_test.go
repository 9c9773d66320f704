package plugin

import (
	"context"
	"testing"

	"github.com/xraph/bastion/realm"
)

func TestStubChangesNoDecisions(t *testing.T) {
	r := New()
	ctx := context.Background()

	outcome, err := r.Authenticate(ctx, "alice", "pw")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if outcome != realm.OutcomeNotApplicable {
		t.Errorf("Authenticate() = %v, want not_applicable", outcome)
	}

	roles, err := r.GrantedRoles(ctx, "alice")
	if err != nil {
		t.Fatalf("GrantedRoles() error = %v", err)
	}
	if len(roles) != 0 {
		t.Errorf("GrantedRoles() = %v, want none", roles)
	}

	if r.Kind() != realm.KindPlugin {
		t.Errorf("Kind() = %v, want plugin", r.Kind())
	}
}
