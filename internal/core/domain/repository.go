package domain

import (
	"context"
	"errors"
)

var (
	ErrKeyNotFound = errors.New("state key not found")
)

type UserRepository interface {
	// Create persists a new user account.
	Create(ctx context.Context, user *User) error

	// GetByEmail retrieves a user by normalized email address.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByID retrieves a user by its unique identifier.
	GetByID(ctx context.Context, id string) (*User, error)
}

// StateStore is the durable key-value collaborator backing the streak and
// entitlement records. Semantics are deliberately minimal: string keys,
// string values, last write wins per key, durable across restarts.
type StateStore interface {
	// Get retrieves the value stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value string) error

	// Remove deletes the key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}
