package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	cryptoDomain "github.com/allisson/qrsecrets/internal/crypto/domain"
)

// aeadConstructors builds the bulk ciphers. Both take a 32-byte key and use 12-byte
// nonces with a 16-byte tag.
var aeadConstructors = map[cryptoDomain.SymmetricAlgorithm]func(key []byte) (cipher.AEAD, error){
	cryptoDomain.AESGCM:   newAES256GCM,
	cryptoDomain.ChaCha20: chacha20poly1305.New,
}

func newAES256GCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

// aeadManager implements AEADManager for the algorithms in aeadConstructors.
type aeadManager struct{}

// NewAEADManager returns the AEADManager shared by every provider family.
func NewAEADManager() AEADManager {
	return aeadManager{}
}

// CreateCipher returns ErrInvalidKeySize unless key is 32 bytes and
// ErrUnsupportedAlgorithm for an unknown algorithm.
func (aeadManager) CreateCipher(key []byte, alg cryptoDomain.SymmetricAlgorithm) (AEAD, error) {
	if len(key) != cryptoDomain.SymmetricKeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	newAEAD, ok := aeadConstructors[alg]
	if !ok {
		return nil, cryptoDomain.ErrUnsupportedAlgorithm
	}

	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}
	return &randomNonceAEAD{aead: aead}, nil
}

// randomNonceAEAD draws a fresh random nonce for every Encrypt. It is stateless and safe
// for concurrent use.
type randomNonceAEAD struct {
	aead cipher.AEAD
}

func (r *randomNonceAEAD) Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error) {
	nonce = make([]byte, r.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext = r.aead.Seal(nil, nonce, plaintext, aad)
	return ciphertext, nonce, nil
}

// Decrypt returns no plaintext when the tag does not verify.
func (r *randomNonceAEAD) Decrypt(ciphertext, nonce, aad []byte) ([]byte, error) {
	if len(nonce) != r.aead.NonceSize() {
		return nil, errors.New("invalid nonce size")
	}
	plaintext, err := r.aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}
	return plaintext, nil
}

func (r *randomNonceAEAD) NonceSize() int {
	return r.aead.NonceSize()
}
