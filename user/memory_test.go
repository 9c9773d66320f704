package user

import (
	"context"
	"errors"
	"slices"
	"testing"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Create(ctx, "alice", "s3cret"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := s.Create(ctx, "alice", "other"); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("Create(duplicate) error = %v, want ErrAlreadyExists", err)
	}

	rec, err := s.Get(ctx, "alice")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !rec.MatchesPassword("s3cret") {
		t.Error("MatchesPassword(correct) = false")
	}
	if rec.MatchesPassword("wrong") {
		t.Error("MatchesPassword(wrong) = true")
	}
	if rec.Suspended {
		t.Error("new user created suspended")
	}

	if err := s.Delete(ctx, "alice"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, "alice"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreSetPassword(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Create(ctx, "alice", "old"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetPassword(ctx, "alice", "new"); err != nil {
		t.Fatalf("SetPassword() error = %v", err)
	}

	rec, _ := s.Get(ctx, "alice")
	if rec.MatchesPassword("old") {
		t.Error("old password still matches after change")
	}
	if !rec.MatchesPassword("new") {
		t.Error("new password does not match after change")
	}

	if err := s.SetPassword(ctx, "ghost", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetPassword(missing) error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreSuspend(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Create(ctx, "alice", "pw"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetSuspended(ctx, "alice", true); err != nil {
		t.Fatalf("SetSuspended() error = %v", err)
	}
	rec, _ := s.Get(ctx, "alice")
	if !rec.Suspended {
		t.Error("Suspended = false after suspension")
	}

	if err := s.SetSuspended(ctx, "alice", false); err != nil {
		t.Fatal(err)
	}
	rec, _ = s.Get(ctx, "alice")
	if rec.Suspended {
		t.Error("Suspended = true after reactivation")
	}
}

func TestMemoryStoreList(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	for _, name := range []string{"carol", "alice", "bob"} {
		if err := s.Create(ctx, name, "pw"); err != nil {
			t.Fatal(err)
		}
	}
	names, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if !slices.Equal(names, []string{"alice", "bob", "carol"}) {
		t.Errorf("List() = %v, want sorted names", names)
	}
}
