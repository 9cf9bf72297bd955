// Package keyring defines the name-to-bytes store that persists encrypted secret
// records and identity keys, with in-memory and SQL implementations.
package keyring

import (
	"context"
	"strings"

	apperrors "github.com/allisson/qrsecrets/internal/errors"
)

// Keyring errors.
var (
	// ErrNotFound indicates no entry exists under the requested name.
	ErrNotFound = apperrors.Wrap(apperrors.ErrNotFound, "keyring entry not found")

	// ErrInvalidName indicates an empty or whitespace-only entry name.
	ErrInvalidName = apperrors.Wrap(apperrors.ErrInvalidInput, "invalid keyring entry name")
)

// Keyring stores opaque values by name. Put overwrites (last writer wins).
// Implementations must be safe for concurrent use.
type Keyring interface {
	// Put stores value under name, replacing any previous value.
	Put(ctx context.Context, name string, value []byte) error

	// Get returns the value stored under name or ErrNotFound.
	Get(ctx context.Context, name string) ([]byte, error)

	// Delete removes name. Deleting a missing entry is not an error.
	Delete(ctx context.Context, name string) error
}

// ValidateName rejects names a backend could not store.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidName
	}
	return nil
}
