package plugin

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/xraph/bastion/realm"
)

// recorder implements a subset of hooks and records calls.
type recorder struct {
	calls []string
	err   error
}

func (r *recorder) Name() string { return "recorder" }

func (r *recorder) OnBeforeLogin(_ context.Context, principal string) error {
	r.calls = append(r.calls, "before:"+principal)
	return r.err
}

func (r *recorder) OnAfterLogin(_ context.Context, principal string, outcome realm.Outcome, realmName string) error {
	r.calls = append(r.calls, "after:"+principal+":"+string(outcome)+":"+realmName)
	return r.err
}

func (r *recorder) OnLockoutEngaged(_ context.Context, principal string, _ time.Time) error {
	r.calls = append(r.calls, "lockout:"+principal)
	return r.err
}

// bare implements only Plugin.
type bare struct{}

func (bare) Name() string { return "bare" }

func TestRegistryDispatchesOnlyImplementedHooks(t *testing.T) {
	reg := NewRegistry(slog.Default())
	rec := &recorder{}
	reg.Register(rec)
	reg.Register(bare{})

	ctx := context.Background()
	reg.EmitBeforeLogin(ctx, "alice")
	reg.EmitAfterLogin(ctx, "alice", realm.OutcomeSuccess, "internal")
	reg.EmitLockoutEngaged(ctx, "bob", time.Now())

	// Hooks the recorder does not implement must be silently skipped.
	reg.EmitRoleCreated(ctx, "reader")
	reg.EmitShutdown(ctx)

	want := []string{
		"before:alice",
		"after:alice:success:internal",
		"lockout:bob",
	}
	if len(rec.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", rec.calls, want)
	}
	for i := range want {
		if rec.calls[i] != want[i] {
			t.Errorf("calls[%d] = %q, want %q", i, rec.calls[i], want[i])
		}
	}
}

func TestRegistryHookErrorDoesNotStopDispatch(t *testing.T) {
	reg := NewRegistry(slog.Default())
	failing := &recorder{err: errors.New("boom")}
	second := &recorder{}
	reg.Register(failing)
	reg.Register(second)

	reg.EmitBeforeLogin(context.Background(), "alice")

	if len(second.calls) != 1 {
		t.Errorf("second plugin calls = %v, want dispatch to continue past a failing hook", second.calls)
	}
}

func TestRegistryNotifiesInRegistrationOrder(t *testing.T) {
	reg := NewRegistry(slog.Default())

	var order []string
	first := &orderedPlugin{id: "first", order: &order}
	second := &orderedPlugin{id: "second", order: &order}
	reg.Register(first)
	reg.Register(second)

	reg.EmitBeforeLogin(context.Background(), "alice")

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("dispatch order = %v, want [first second]", order)
	}
}

type orderedPlugin struct {
	id    string
	order *[]string
}

func (p *orderedPlugin) Name() string { return p.id }

func (p *orderedPlugin) OnBeforeLogin(context.Context, string) error {
	*p.order = append(*p.order, p.id)
	return nil
}

func TestRegistryPlugins(t *testing.T) {
	reg := NewRegistry(slog.Default())
	reg.Register(bare{})
	reg.Register(&recorder{})
	if got := len(reg.Plugins()); got != 2 {
		t.Errorf("Plugins() returned %d, want 2", got)
	}
}
