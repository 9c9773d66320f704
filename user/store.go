package user

import "context"

// Store defines persistence operations for users. Password hashing is the
// store's responsibility; callers pass clear-text passwords and never see
// hashes except through Record.
type Store interface {
	// Create adds a new user. Fails with ErrAlreadyExists if the name is
	// taken.
	Create(ctx context.Context, name, password string) error

	// Delete removes a user, or fails with ErrNotFound.
	Delete(ctx context.Context, name string) error

	// Get returns the record for a user, or ErrNotFound.
	Get(ctx context.Context, name string) (Record, error)

	// List returns all user names, sorted.
	List(ctx context.Context) ([]string, error)

	// SetPassword replaces a user's credential, or fails with ErrNotFound.
	SetPassword(ctx context.Context, name, password string) error

	// SetSuspended marks a user as suspended or active, or fails with
	// ErrNotFound. Suspended users fail authentication without a
	// credential check.
	SetSuspended(ctx context.Context, name string, suspended bool) error
}
