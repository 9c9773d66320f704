// Package file provides the file-backed role repository: an in-memory
// index over a durable line-oriented role file.
//
// The file is the source of truth. Every mutation builds the next state
// off to the side, persists it, and only then swaps the in-memory
// snapshot, so memory never outruns successfully saved state. Readers
// work against an immutable snapshot and never block on an in-flight
// mutation or reload.
package file

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/xraph/bastion/role"
)

// Compile-time interface check.
var _ role.Repository = (*Repository)(nil)

// Repository is a file-backed role.Repository.
type Repository struct {
	path   string
	logger *slog.Logger

	// mu serializes mutations and reloads. Reads go through snap only.
	mu         sync.Mutex
	snap       atomic.Pointer[snapshot]
	lastLoaded int64 // mtime (unix nanos) at the last successful load, guarded by mu
	started    bool  // guarded by mu
}

// snapshot is an immutable view of the repository state. A new snapshot
// is built fully before being swapped in.
type snapshot struct {
	records  []role.Record       // sorted by name
	byName   map[string]int      // name -> index into records
	byMember map[string][]string // principal -> sorted role names
}

// Option configures the repository.
type Option func(*Repository)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option { return func(r *Repository) { r.logger = l } }

// New creates a repository backed by the role file at path. Call Start
// before use.
func New(path string, opts ...Option) *Repository {
	r := &Repository{
		path:   path,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Path returns the durable role file path.
func (r *Repository) Path() string { return r.path }

// Start clears in-memory state and loads the role file if it exists.
func (r *Repository) Start(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.started = false
	r.snap.Store(emptySnapshot())

	if err := r.loadLocked(); err != nil {
		r.logger.Error("failed to load role file", "path", r.path, "error", err)
		return err
	}
	r.started = true
	return nil
}

// loadLocked reads and parses the role file, swapping in a fresh snapshot
// on success. Caller holds mu.
func (r *Repository) loadLocked() error {
	info, err := os.Stat(r.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat role file: %w", err)
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("read role file: %w", err)
	}
	records, err := role.Deserialize(data)
	if err != nil {
		return err
	}

	r.snap.Store(buildSnapshot(records))
	r.lastLoaded = info.ModTime().UnixNano()
	return nil
}

// ReloadIfNeeded compares the role file's modification time against the
// time recorded at the last successful load and performs a full reload
// when the file is newer. A failed parse keeps the last-known-good state.
//
// The staleness test is check-then-act on mtime; it suits low-frequency
// administrative edits, not high-frequency concurrent external writers.
func (r *Repository) ReloadIfNeeded(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.started {
		return role.ErrNotStarted
	}

	info, err := os.Stat(r.path)
	if os.IsNotExist(err) {
		// File removed out of band; keep serving the loaded state.
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat role file: %w", err)
	}
	if info.ModTime().UnixNano() <= r.lastLoaded {
		return nil
	}

	if err := r.loadLocked(); err != nil {
		r.logger.Error("role file reload failed, keeping last-known-good state",
			"path", r.path, "error", err)
		return err
	}
	r.logger.Info("role file reloaded", "path", r.path)
	return nil
}

// Create adds a new empty role.
func (r *Repository) Create(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.started {
		return role.ErrNotStarted
	}
	cur := r.snap.Load()
	if _, ok := cur.byName[name]; ok {
		return fmt.Errorf("role %q: %w", name, role.ErrAlreadyExists)
	}
	next := cur.withRecord(role.NewRecord(name))
	return r.commitLocked(next)
}

// Delete removes a role and all its memberships.
func (r *Repository) Delete(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.started {
		return role.ErrNotStarted
	}
	cur := r.snap.Load()
	if _, ok := cur.byName[name]; !ok {
		return fmt.Errorf("role %q: %w", name, role.ErrNotFound)
	}
	next := cur.withoutRecord(name)
	return r.commitLocked(next)
}

// AddMember adds principal to the role's member set.
func (r *Repository) AddMember(_ context.Context, name, principal string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.started {
		return role.ErrNotStarted
	}
	cur := r.snap.Load()
	i, ok := cur.byName[name]
	if !ok {
		return fmt.Errorf("role %q: %w", name, role.ErrNotFound)
	}
	if cur.records[i].HasMember(principal) {
		return nil
	}
	next := cur.withRecord(cur.records[i].WithMember(principal))
	return r.commitLocked(next)
}

// RemoveMember removes principal from the role's member set.
func (r *Repository) RemoveMember(_ context.Context, name, principal string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.started {
		return role.ErrNotStarted
	}
	cur := r.snap.Load()
	i, ok := cur.byName[name]
	if !ok {
		return fmt.Errorf("role %q: %w", name, role.ErrNotFound)
	}
	if !cur.records[i].HasMember(principal) {
		return nil
	}
	next := cur.withRecord(cur.records[i].WithoutMember(principal))
	return r.commitLocked(next)
}

// commitLocked persists next and swaps it in. On persistence failure the
// current snapshot stays in place, which is the rollback. Caller holds mu.
func (r *Repository) commitLocked(next *snapshot) error {
	if err := r.save(next.records); err != nil {
		r.logger.Error("failed to persist role file", "path", r.path, "error", err)
		return fmt.Errorf("%w: %v", role.ErrDurability, err)
	}
	r.snap.Store(next)
	return nil
}

// save writes records to a temp file in the same directory and renames it
// over the role file, so a crash mid-write never leaves a torn file. The
// recorded load time is advanced to the new mtime so our own writes do
// not trigger a reload.
func (r *Repository) save(records []role.Record) error {
	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(role.Serialize(records)); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return err
	}
	if info, err := os.Stat(r.path); err == nil {
		r.lastLoaded = info.ModTime().UnixNano()
	}
	return nil
}

// Get returns the record for a role.
func (r *Repository) Get(_ context.Context, name string) (role.Record, error) {
	s := r.snap.Load()
	if s == nil {
		return role.Record{}, role.ErrNotStarted
	}
	i, ok := s.byName[name]
	if !ok {
		return role.Record{}, fmt.Errorf("role %q: %w", name, role.ErrNotFound)
	}
	return s.records[i].Clone(), nil
}

// List returns all records, sorted by role name.
func (r *Repository) List(_ context.Context) ([]role.Record, error) {
	s := r.snap.Load()
	if s == nil {
		return nil, role.ErrNotStarted
	}
	out := make([]role.Record, len(s.records))
	for i, rec := range s.records {
		out[i] = rec.Clone()
	}
	return out, nil
}

// RolesFor returns the roles the principal belongs to.
func (r *Repository) RolesFor(_ context.Context, principal string) ([]string, error) {
	s := r.snap.Load()
	if s == nil {
		return nil, role.ErrNotStarted
	}
	names := s.byMember[principal]
	out := make([]string, len(names))
	copy(out, names)
	return out, nil
}
