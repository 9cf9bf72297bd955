// Package domain defines the records the secret manager keeps in the keyring and
// its error kinds.
package domain

import (
	cryptoDomain "github.com/allisson/qrsecrets/internal/crypto/domain"
	"github.com/allisson/qrsecrets/internal/errors"
)

// Secret-specific error definitions.
var (
	// ErrSecretNotFound indicates no record exists under the requested name.
	ErrSecretNotFound = errors.Wrap(errors.ErrNotFound, "secret not found")

	// ErrIdentityNotFound indicates the identity key referenced by a record does not exist.
	ErrIdentityNotFound = errors.Wrap(errors.ErrNotFound, "identity key not found")

	// ErrInvalidEnvelope indicates a stored record cannot be parsed or names an
	// unknown algorithm combination.
	ErrInvalidEnvelope = errors.Wrap(errors.ErrIntegrity, "invalid secret envelope")

	// ErrStageRollback indicates the configured migration stage is earlier than the
	// recorded one and rollback was not allowed.
	ErrStageRollback = errors.Wrap(cryptoDomain.ErrConfig, "migration stage rollback not allowed")
)
