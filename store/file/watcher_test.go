package file

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestWatcherReloadsOnExternalWrite(t *testing.T) {
	ctx := context.Background()
	r, path := newStarted(t)

	if err := r.Create(ctx, "reader"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	w, err := NewWatcher(r, WithDebounce(20*time.Millisecond), WithInterval(time.Hour))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("reader:alice\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	touch(t, path)

	deadline := time.After(5 * time.Second)
	for {
		roles, err := r.RolesFor(ctx, "alice")
		if err != nil {
			t.Fatalf("RolesFor() error = %v", err)
		}
		if len(roles) == 1 && roles[0] == "reader" {
			return
		}
		select {
		case <-deadline:
			t.Fatal("watcher did not reload the role file in time")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestWatcherTickerFallback(t *testing.T) {
	ctx := context.Background()
	r, path := newStarted(t)

	if err := r.Create(ctx, "reader"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// A very short interval makes the ticker fire even if no fsnotify
	// event arrives, mimicking mounts without change notification.
	w, err := NewWatcher(r, WithDebounce(time.Hour), WithInterval(20*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("reader:bob\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	touch(t, path)

	deadline := time.After(5 * time.Second)
	for {
		roles, err := r.RolesFor(ctx, "bob")
		if err != nil {
			t.Fatalf("RolesFor() error = %v", err)
		}
		if len(roles) == 1 {
			return
		}
		select {
		case <-deadline:
			t.Fatal("ticker fallback did not reload the role file in time")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
