package memory

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/xraph/bastion/role"
)

func newStarted(t *testing.T) *Repository {
	t.Helper()
	r := New()
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	return r
}

func TestUseBeforeStart(t *testing.T) {
	r := New()
	if err := r.Create(context.Background(), "reader"); !errors.Is(err, role.ErrNotStarted) {
		t.Errorf("Create() before Start error = %v, want ErrNotStarted", err)
	}
}

func TestRoleLifecycle(t *testing.T) {
	ctx := context.Background()
	r := newStarted(t)

	if err := r.Create(ctx, "reader"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := r.Create(ctx, "reader"); !errors.Is(err, role.ErrAlreadyExists) {
		t.Errorf("Create(duplicate) error = %v, want ErrAlreadyExists", err)
	}

	if err := r.AddMember(ctx, "reader", "bob"); err != nil {
		t.Fatalf("AddMember() error = %v", err)
	}
	if err := r.AddMember(ctx, "reader", "alice"); err != nil {
		t.Fatalf("AddMember() error = %v", err)
	}

	rec, err := r.Get(ctx, "reader")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !slices.Equal(rec.Members, []string{"alice", "bob"}) {
		t.Errorf("Members = %v, want [alice bob]", rec.Members)
	}

	if err := r.RemoveMember(ctx, "reader", "bob"); err != nil {
		t.Fatalf("RemoveMember() error = %v", err)
	}
	roles, err := r.RolesFor(ctx, "bob")
	if err != nil {
		t.Fatalf("RolesFor() error = %v", err)
	}
	if len(roles) != 0 {
		t.Errorf("RolesFor(bob) = %v after removal, want empty", roles)
	}

	if err := r.Delete(ctx, "reader"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := r.Get(ctx, "reader"); !errors.Is(err, role.ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
}

func TestRolesForSpansRoles(t *testing.T) {
	ctx := context.Background()
	r := newStarted(t)

	for _, name := range []string{"reader", "publisher", "admin"} {
		if err := r.Create(ctx, name); err != nil {
			t.Fatalf("Create(%s) error = %v", name, err)
		}
	}
	if err := r.AddMember(ctx, "reader", "alice"); err != nil {
		t.Fatal(err)
	}
	if err := r.AddMember(ctx, "admin", "alice"); err != nil {
		t.Fatal(err)
	}

	roles, err := r.RolesFor(ctx, "alice")
	if err != nil {
		t.Fatalf("RolesFor() error = %v", err)
	}
	if !slices.Equal(roles, []string{"admin", "reader"}) {
		t.Errorf("RolesFor(alice) = %v, want [admin reader]", roles)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	r := newStarted(t)

	if err := r.Create(ctx, "reader"); err != nil {
		t.Fatal(err)
	}
	if err := r.AddMember(ctx, "reader", "alice"); err != nil {
		t.Fatal(err)
	}

	rec, _ := r.Get(ctx, "reader")
	rec.Members[0] = "mallory"

	again, _ := r.Get(ctx, "reader")
	if again.Members[0] != "alice" {
		t.Error("Get() exposed internal member storage")
	}
}
