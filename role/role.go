// Package role defines the role record, its durable serialization, and
// the repository interface for role membership.
package role

import (
	"errors"
	"slices"
)

// Sentinel errors shared by all repository implementations.
var (
	// ErrNotFound is returned when a role does not exist.
	ErrNotFound = errors.New("bastion: role not found")

	// ErrAlreadyExists is returned when creating a role whose name is taken.
	ErrAlreadyExists = errors.New("bastion: role already exists")

	// ErrDurability is returned when a mutation's persistence step failed.
	// The in-memory mutation is rolled back; the operation has no effect.
	ErrDurability = errors.New("bastion: role persistence failed")

	// ErrNotStarted is returned when a repository is used before a
	// successful Start, or after Start failed on malformed data.
	ErrNotStarted = errors.New("bastion: role repository not started")
)

// Record is a role: a unique name plus a set of member principals.
// Members are kept sorted and deduplicated so records compare and
// serialize deterministically.
type Record struct {
	Name    string
	Members []string
}

// NewRecord creates a record with the given members, sorted and deduplicated.
func NewRecord(name string, members ...string) Record {
	r := Record{Name: name, Members: slices.Clone(members)}
	slices.Sort(r.Members)
	r.Members = slices.Compact(r.Members)
	return r
}

// HasMember reports whether principal is a member of the role.
func (r Record) HasMember(principal string) bool {
	_, ok := slices.BinarySearch(r.Members, principal)
	return ok
}

// WithMember returns a copy of the record with principal added.
func (r Record) WithMember(principal string) Record {
	if r.HasMember(principal) {
		return r.Clone()
	}
	next := r.Clone()
	i, _ := slices.BinarySearch(next.Members, principal)
	next.Members = slices.Insert(next.Members, i, principal)
	return next
}

// WithoutMember returns a copy of the record with principal removed.
func (r Record) WithoutMember(principal string) Record {
	next := r.Clone()
	if i, ok := slices.BinarySearch(next.Members, principal); ok {
		next.Members = slices.Delete(next.Members, i, i+1)
	}
	return next
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	return Record{Name: r.Name, Members: slices.Clone(r.Members)}
}

// Equal reports whether two records have the same name and member set.
func (r Record) Equal(other Record) bool {
	return r.Name == other.Name && slices.Equal(r.Members, other.Members)
}
