// Package usecase implements the quantum-resistant secret manager: envelope
// encryption of named secrets under the configured provider and the dual-storage
// migration protocol.
package usecase

import (
	"context"

	cryptoDomain "github.com/allisson/qrsecrets/internal/crypto/domain"
	secretsDomain "github.com/allisson/qrsecrets/internal/secrets/domain"
)

// SecretManager stores and retrieves named secrets through a keyring.
type SecretManager interface {
	// StoreSecretQR encrypts value under the active provider and stores it under name.
	// While dual storage is enabled in a non-classical mode a classically encrypted
	// copy is stored alongside it.
	StoreSecretQR(ctx context.Context, name string, value []byte) error

	// GetSecretQR decrypts the secret stored under name. With classical verification
	// enabled the classical copy must decrypt to the same bytes, otherwise
	// ErrDualStorageMismatch is returned.
	//
	// Security Note: callers MUST zero the returned value after use by calling
	// cryptoDomain.Zero(value).
	GetSecretQR(ctx context.Context, name string) ([]byte, error)

	// MigrateSecret re-encrypts an existing secret under the active provider and
	// rewrites its copies per the current dual-storage policy.
	MigrateSecret(ctx context.Context, name string) error

	// MigrateSecrets migrates names in order and stops at the first failure. It
	// returns how many secrets were migrated.
	MigrateSecrets(ctx context.Context, names []string) (int, error)

	// DeleteSecret removes a secret and its classical copy.
	DeleteSecret(ctx context.Context, name string) error

	// Stage returns the migration stage of the active configuration.
	Stage() cryptoDomain.MigrationStage

	// RecordStage persists the active stage. Moving to an earlier stage than the one
	// recorded fails with ErrStageRollback unless rollback is allowed.
	RecordStage(ctx context.Context) (secretsDomain.StageTransition, error)
}
