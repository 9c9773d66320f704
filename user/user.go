// Package user defines user records and the credential store consumed by
// the internal realm and the administrative management API.
package user

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrNotFound is returned when a user does not exist.
	ErrNotFound = errors.New("bastion: user not found")

	// ErrAlreadyExists is returned when creating a user whose name is taken.
	ErrAlreadyExists = errors.New("bastion: user already exists")
)

/// Record is a stored user: a principal name plus a bcrypt credential hash.
type Record struct {
	Name          string
	Hash          []byte
	Suspended     bool
	PasswordSetAt time.Time
}

// HashPassword hashes a clear-text password for storage.
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

// MatchesPassword reports whether the clear-text password matches the
// stored hash.
func (r Record) MatchesPassword(password string) bool {
	return bcrypt.CompareHashAndPassword(r.Hash, []byte(password)) == nil
}
