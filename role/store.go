package role

import "context"

// Repository owns the authoritative mapping of roles to member principals
// and its reverse index.
//
// Implementations must keep the role→members and member→roles views in
// agreement under concurrent access: readers never observe a mutation or
// reload half-applied. Mutations persist synchronously; when persistence
// fails the in-memory state is rolled back and the operation reports
// ErrDurability.
type Repository interface {
	// Start clears in-memory state and loads durable storage if present,
	// otherwise begins empty. Malformed durable data fails with a
	// *FormatError and leaves the repository unusable for writes.
	Start(ctx context.Context) error

	// Create adds a new empty role. Fails with ErrAlreadyExists if the
	// name is taken.
	Create(ctx context.Context, name string) error

	// Delete removes a role and all its memberships. Fails with
	// ErrNotFound if the role does not exist.
	Delete(ctx context.Context, name string) error

	// AddMember adds principal to the role's member set. Fails with
	// ErrNotFound if the role does not exist. Adding an existing member
	// is a no-op.
	AddMember(ctx context.Context, name, principal string) error

	// RemoveMember removes principal from the role's member set. Fails
	// with ErrNotFound if the role does not exist. Removing an absent
	// member is a no-op.
	RemoveMember(ctx context.Context, name, principal string) error

	// Get returns the record for a role, or ErrNotFound.
	Get(ctx context.Context, name string) (Record, error)

	// List returns all records, sorted by role name.
	List(ctx context.Context) ([]Record, error)

	// RolesFor returns the names of all roles the principal belongs to,
	// sorted. An unknown principal yields an empty set.
	RolesFor(ctx context.Context, principal string) ([]string, error)

	// ReloadIfNeeded picks up out-of-band edits to durable storage. When
	// the reload fails to parse, the previously loaded state stays in
	// effect and the error is surfaced; the repository is stale, not
	// broken. Backends without an external staleness signal treat this
	// as a no-op.
	//
	// Reloading performs blocking I/O; invoke it from a background
	// scheduler, not a latency-sensitive request path.
	ReloadIfNeeded(ctx context.Context) error
}
