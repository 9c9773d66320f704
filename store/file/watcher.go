package file

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/xraph/bastion/role"
)

// Watcher drives Repository.ReloadIfNeeded in the background so the
// repository picks up out-of-band administrative edits to the role file.
//
// It watches the file's directory with fsnotify (the file itself may be
// replaced by rename, which would break a direct watch) and debounces
// bursts of events. A periodic tick backstops platforms or mounts where
// change notification is unreliable.
type Watcher struct {
	repo     *Repository
	logger   *slog.Logger
	debounce time.Duration
	interval time.Duration

	fsw    *fsnotify.Watcher
	cancel context.CancelFunc
	done   chan struct{}
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the quiet period after a change before reloading.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// WithInterval sets the periodic fallback reload interval.
func WithInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.interval = d }
}

// WithWatcherLogger sets the structured logger.
func WithWatcherLogger(l *slog.Logger) WatcherOption {
	return func(w *Watcher) { w.logger = l }
}

// NewWatcher creates a watcher for the repository's role file.
func NewWatcher(repo *Repository, opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		repo:     repo,
		logger:   slog.Default(),
		debounce: 200 * time.Millisecond,
		interval: 30 * time.Second,
		fsw:      fsw,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start begins watching. It returns once the watch is established; the
// reload loop runs until Close or ctx cancellation.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.fsw.Add(filepath.Dir(w.repo.Path())); err != nil {
		return err
	}
	ctx, w.cancel = context.WithCancel(ctx)
	go w.run(ctx)
	return nil
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	if w.cancel != nil {
		w.cancel()
		<-w.done
	}
	return w.fsw.Close()
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var pending *time.Timer
	var pendingC <-chan time.Time

	target := filepath.Clean(w.repo.Path())
	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if pending == nil {
				pending = time.NewTimer(w.debounce)
				pendingC = pending.C
			} else {
				pending.Reset(w.debounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("role file watch error", "error", err)

		case <-pendingC:
			pending = nil
			pendingC = nil
			w.reload(ctx)

		case <-ticker.C:
			w.reload(ctx)
		}
	}
}

func (w *Watcher) reload(ctx context.Context) {
	err := w.repo.ReloadIfNeeded(ctx)
	if err == nil || errors.Is(err, role.ErrNotStarted) {
		return
	}
	var ferr *role.FormatError
	if errors.As(err, &ferr) {
		w.logger.Error("role file is malformed, serving stale state", "error", ferr)
		return
	}
	w.logger.Warn("role file reload failed", "error", err)
}
