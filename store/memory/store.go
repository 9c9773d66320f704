// Package memory provides an in-memory implementation of the role
// repository. It is intended for testing and development; state does not
// survive restarts.
package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/xraph/bastion/role"
)

// Compile-time interface check.
var _ role.Repository = (*Repository)(nil)

// Repository is a thread-safe in-memory role repository.
type Repository struct {
	mu      sync.RWMutex
	records map[string]role.Record
	started bool
}

// New creates a new in-memory repository.
func New() *Repository {
	return &Repository{records: make(map[string]role.Record)}
}

// Start clears any existing state.
func (r *Repository) Start(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = make(map[string]role.Record)
	r.started = true
	return nil
}

// ReloadIfNeeded is a no-op; memory is the only copy of the state.
func (r *Repository) ReloadIfNeeded(_ context.Context) error { return nil }

func (r *Repository) Create(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.started {
		return role.ErrNotStarted
	}
	if _, ok := r.records[name]; ok {
		return fmt.Errorf("role %q: %w", name, role.ErrAlreadyExists)
	}
	r.records[name] = role.NewRecord(name)
	return nil
}

func (r *Repository) Delete(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.started {
		return role.ErrNotStarted
	}
	if _, ok := r.records[name]; !ok {
		return fmt.Errorf("role %q: %w", name, role.ErrNotFound)
	}
	delete(r.records, name)
	return nil
}

func (r *Repository) AddMember(_ context.Context, name, principal string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.started {
		return role.ErrNotStarted
	}
	rec, ok := r.records[name]
	if !ok {
		return fmt.Errorf("role %q: %w", name, role.ErrNotFound)
	}
	r.records[name] = rec.WithMember(principal)
	return nil
}

func (r *Repository) RemoveMember(_ context.Context, name, principal string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.started {
		return role.ErrNotStarted
	}
	rec, ok := r.records[name]
	if !ok {
		return fmt.Errorf("role %q: %w", name, role.ErrNotFound)
	}
	r.records[name] = rec.WithoutMember(principal)
	return nil
}

func (r *Repository) Get(_ context.Context, name string) (role.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.started {
		return role.Record{}, role.ErrNotStarted
	}
	rec, ok := r.records[name]
	if !ok {
		return role.Record{}, fmt.Errorf("role %q: %w", name, role.ErrNotFound)
	}
	return rec.Clone(), nil
}

func (r *Repository) List(_ context.Context) ([]role.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.started {
		return nil, role.ErrNotStarted
	}
	out := make([]role.Record, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec.Clone())
	}
	slices.SortFunc(out, func(a, b role.Record) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out, nil
}

func (r *Repository) RolesFor(_ context.Context, principal string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.started {
		return nil, role.ErrNotStarted
	}
	var names []string
	for name, rec := range r.records {
		if rec.HasMember(principal) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}
