package service

import (
	"errors"
	"fmt"

	cryptoDomain "github.com/allisson/qrsecrets/internal/crypto/domain"
)

// aeadEncryption implements Encryption on top of an AEADManager cipher. The wire
// format is nonce || ciphertext || tag.
type aeadEncryption struct {
	algorithm cryptoDomain.SymmetricAlgorithm
	manager   AEADManager
}

func newAEADEncryption(alg cryptoDomain.SymmetricAlgorithm, manager AEADManager) *aeadEncryption {
	return &aeadEncryption{algorithm: alg, manager: manager}
}

func (e *aeadEncryption) Algorithm() cryptoDomain.SymmetricAlgorithm { return e.algorithm }

func (e *aeadEncryption) KeySize() int { return cryptoDomain.SymmetricKeySize }

// Encrypt seals plaintext under key with a fresh random nonce.
func (e *aeadEncryption) Encrypt(key, plaintext []byte) ([]byte, error) {
	aead, err := e.cipher(key)
	if err != nil {
		return nil, err
	}

	ciphertext, nonce, err := aead.Encrypt(plaintext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrEncryptionFailed, err)
	}
	return concat(nonce, ciphertext), nil
}

// Decrypt opens a value produced by Encrypt. A wrong key, truncation or any flipped
// bit yields ErrDecryptionFailed.
func (e *aeadEncryption) Decrypt(key, ciphertext []byte) ([]byte, error) {
	aead, err := e.cipher(key)
	if err != nil {
		return nil, err
	}

	nonceSize := aead.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, fmt.Errorf("%w: ciphertext too short", cryptoDomain.ErrDecryptionFailed)
	}

	plaintext, err := aead.Decrypt(ciphertext[nonceSize:], ciphertext[:nonceSize], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrDecryptionFailed, err)
	}
	return plaintext, nil
}

func (e *aeadEncryption) cipher(key []byte) (AEAD, error) {
	aead, err := e.manager.CreateCipher(key, e.algorithm)
	switch {
	case err == nil:
		return aead, nil
	case errors.Is(err, cryptoDomain.ErrInvalidKeySize), errors.Is(err, cryptoDomain.ErrUnsupportedAlgorithm):
		return nil, err
	default:
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrInternal, err)
	}
}
