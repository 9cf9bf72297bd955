package service

import (
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"io"

	"golang.org/x/crypto/hkdf"

	cryptoDomain "github.com/allisson/qrsecrets/internal/crypto/domain"
)

// HKDF context strings. They bind derived keys to their purpose and must never change
// for data already written.
const (
	ecdhKEMInfo   = "qrsecrets/ecdh-p256-kem/v1"
	hybridKEMSalt = "qrsecrets/hybrid-kem/v1"
)

// DeriveKey expands ikm into a size-byte key with HKDF-SHA256.
func DeriveKey(ikm, salt, info []byte, size int) ([]byte, error) {
	return deriveKey(sha256.New, ikm, salt, info, size)
}

func deriveKey(h func() hash.Hash, ikm, salt, info []byte, size int) ([]byte, error) {
	out := make([]byte, size)
	if _, err := io.ReadFull(hkdf.New(h, ikm, salt, info), out); err != nil {
		cryptoDomain.Zero(out)
		return nil, fmt.Errorf("%w: hkdf: %v", cryptoDomain.ErrInternal, err)
	}
	return out, nil
}

// deriveHybridSecret combines the classical and post-quantum shared secrets with
// HKDF-SHA384, bound to the algorithm tag and both ciphertexts.
func deriveHybridSecret(tag string, classicalSS, pqcSS, classicalCT, pqcCT []byte) ([]byte, error) {
	ikm := concat(classicalSS, pqcSS)
	defer cryptoDomain.Zero(ikm)

	info := concat([]byte(tag), classicalCT, pqcCT)
	return deriveKey(sha512.New384, ikm, []byte(hybridKEMSalt), info, cryptoDomain.SharedSecretSize)
}

func concat(parts ...[]byte) []byte {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
