package domain

import (
	"github.com/allisson/qrsecrets/internal/errors"
)

// Cryptographic error kinds.
//
// Every operation in the provider layer returns one of these sentinels (possibly
// wrapped with more context), so callers branch with errors.Is. Nothing in this
// layer retries or swallows them.
var (
	// ErrKeyGenerationFailed indicates a keypair or key material could not be generated.
	ErrKeyGenerationFailed = errors.Wrap(errors.ErrInternal, "key generation failed")

	// ErrEncryptionFailed indicates an encryption or encapsulation operation failed.
	ErrEncryptionFailed = errors.Wrap(errors.ErrInternal, "encryption failed")

	// ErrDecryptionFailed indicates a decryption or decapsulation operation failed.
	//
	// For AEAD ciphers this covers a wrong key and any tampering with the ciphertext;
	// the specific cause is not disclosed.
	ErrDecryptionFailed = errors.Wrap(errors.ErrIntegrity, "decryption failed")

	// ErrSignatureFailed indicates a signing operation failed.
	ErrSignatureFailed = errors.Wrap(errors.ErrInternal, "signature failed")

	// ErrVerificationFailed indicates a signature or consistency check did not pass.
	ErrVerificationFailed = errors.Wrap(errors.ErrIntegrity, "verification failed")

	// ErrInvalidKey indicates a key has the wrong algorithm tag, size or encoding.
	ErrInvalidKey = errors.Wrap(errors.ErrInvalidInput, "invalid key")

	// ErrInvalidAlgorithm indicates an algorithm identifier is unknown or not allowed
	// for the component it was handed to.
	ErrInvalidAlgorithm = errors.Wrap(errors.ErrInvalidInput, "invalid algorithm")

	// ErrUnsupportedOperation indicates the provider cannot perform the requested operation.
	ErrUnsupportedOperation = errors.Wrap(errors.ErrUnsupported, "unsupported operation")

	// ErrConfig indicates an invalid crypto configuration. It is fatal at startup.
	ErrConfig = errors.Wrap(errors.ErrInvalidInput, "invalid crypto configuration")

	// ErrInternal indicates an unexpected failure inside the provider layer.
	ErrInternal = errors.Wrap(errors.ErrInternal, "crypto internal error")

	// ErrInvalidKeySize indicates a symmetric key is not exactly 32 bytes.
	ErrInvalidKeySize = errors.Wrap(ErrInvalidKey, "invalid key size")

	// ErrUnsupportedAlgorithm indicates the requested AEAD algorithm is not supported.
	ErrUnsupportedAlgorithm = errors.Wrap(ErrInvalidAlgorithm, "unsupported symmetric algorithm")

	// ErrDualStorageMismatch indicates the classical and quantum-resistant copies of a
	// secret decrypted to different values (or the classical copy is unusable) while
	// classical verification is enabled. It signals diverged code paths, not a
	// transient fault.
	ErrDualStorageMismatch = errors.Wrap(ErrVerificationFailed, "dual storage mismatch")
)
