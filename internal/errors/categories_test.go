package errors_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	cryptoDomain "github.com/allisson/qrsecrets/internal/crypto/domain"
	apperrors "github.com/allisson/qrsecrets/internal/errors"
	"github.com/allisson/qrsecrets/internal/keyring"
	secretsDomain "github.com/allisson/qrsecrets/internal/secrets/domain"
)

func TestModuleSentinels_Categories(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		category error
	}{
		{"key generation", cryptoDomain.ErrKeyGenerationFailed, apperrors.ErrInternal},
		{"encryption", cryptoDomain.ErrEncryptionFailed, apperrors.ErrInternal},
		{"decryption", cryptoDomain.ErrDecryptionFailed, apperrors.ErrIntegrity},
		{"signing", cryptoDomain.ErrSignatureFailed, apperrors.ErrInternal},
		{"verification", cryptoDomain.ErrVerificationFailed, apperrors.ErrIntegrity},
		{"dual storage mismatch", cryptoDomain.ErrDualStorageMismatch, apperrors.ErrIntegrity},
		{"invalid key", cryptoDomain.ErrInvalidKey, apperrors.ErrInvalidInput},
		{"invalid key size", cryptoDomain.ErrInvalidKeySize, apperrors.ErrInvalidInput},
		{"invalid algorithm", cryptoDomain.ErrInvalidAlgorithm, apperrors.ErrInvalidInput},
		{"unsupported operation", cryptoDomain.ErrUnsupportedOperation, apperrors.ErrUnsupported},
		{"config", cryptoDomain.ErrConfig, apperrors.ErrInvalidInput},
		{"crypto internal", cryptoDomain.ErrInternal, apperrors.ErrInternal},
		{"secret not found", secretsDomain.ErrSecretNotFound, apperrors.ErrNotFound},
		{"identity not found", secretsDomain.ErrIdentityNotFound, apperrors.ErrNotFound},
		{"invalid envelope", secretsDomain.ErrInvalidEnvelope, apperrors.ErrIntegrity},
		{"stage rollback", secretsDomain.ErrStageRollback, apperrors.ErrInvalidInput},
		{"keyring not found", keyring.ErrNotFound, apperrors.ErrNotFound},
		{"keyring invalid name", keyring.ErrInvalidName, apperrors.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.category)
		})
	}
}

func TestModuleSentinels_Chains(t *testing.T) {
	assert.ErrorIs(t, cryptoDomain.ErrDualStorageMismatch, cryptoDomain.ErrVerificationFailed)
	assert.ErrorIs(t, secretsDomain.ErrStageRollback, cryptoDomain.ErrConfig)
	assert.NotErrorIs(t, cryptoDomain.ErrVerificationFailed, cryptoDomain.ErrDualStorageMismatch)
	assert.NotErrorIs(t, cryptoDomain.ErrConfig, secretsDomain.ErrStageRollback)
}
