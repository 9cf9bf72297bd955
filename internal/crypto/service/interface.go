// Package service implements the cryptographic provider families (classical,
// quantum-resistant and hybrid) behind a single CryptoProvider capability interface,
// plus the AEAD ciphers every family shares for bulk encryption.
package service

import (
	cryptoDomain "github.com/allisson/qrsecrets/internal/crypto/domain"
)

// CryptoProvider is the single facade callers depend on. All implementations hold
// only immutable configuration and are safe for concurrent use.
type CryptoProvider interface {
	// Mode returns the provider family.
	Mode() cryptoDomain.CryptoMode
	// KeyExchange returns the key-encapsulation capability.
	KeyExchange() KeyExchange
	// Signature returns the digital signature capability.
	Signature() Signature
	// Encryption returns the authenticated symmetric encryption capability.
	Encryption() Encryption
	// IsQuantumResistant reports whether the asymmetric operations resist quantum attacks.
	IsQuantumResistant() bool
	// Name returns a stable identifier of the provider and its algorithms, e.g.
	// "hybrid(ECDH-P256+Kyber768,ECDSA-P256+Dilithium3)".
	Name() string
}

// KeyExchange is a key-encapsulation mechanism.
//
// For any keypair (pk, sk): Decapsulate(sk, Encapsulate(pk).ciphertext) yields the
// same shared secret that Encapsulate returned. Returned PrivateKey and SharedSecret
// values are owned by the caller, who must Destroy them.
type KeyExchange interface {
	// Algorithm returns the tag written into keys and ciphertexts.
	Algorithm() string
	GenerateKeypair() (cryptoDomain.PublicKey, *cryptoDomain.PrivateKey, error)
	Encapsulate(peer cryptoDomain.PublicKey) (cryptoDomain.Ciphertext, *cryptoDomain.SharedSecret, error)
	Decapsulate(own *cryptoDomain.PrivateKey, ct cryptoDomain.Ciphertext) (*cryptoDomain.SharedSecret, error)
	PublicKeySize() int
	PrivateKeySize() int
	CiphertextSize() int
	SharedSecretSize() int
}

// Signature is a digital signature scheme.
//
// Verify returns false, without error, for any signature that does not match the
// message exactly, including malformed or foreign-algorithm signatures. An error is
// returned only when the public key itself is unusable.
type Signature interface {
	// Algorithm returns the tag written into keys and signatures.
	Algorithm() string
	GenerateKeypair() (cryptoDomain.PublicKey, *cryptoDomain.PrivateKey, error)
	Sign(sk *cryptoDomain.PrivateKey, message []byte) (cryptoDomain.Signature, error)
	Verify(pk cryptoDomain.PublicKey, message []byte, sig cryptoDomain.Signature) (bool, error)
	PublicKeySize() int
	PrivateKeySize() int
	// SignatureSize returns the signature size, an upper bound for variable-length encodings.
	SignatureSize() int
}

// Encryption is authenticated symmetric encryption. Ciphertexts are
// nonce || ciphertext || tag; any modification makes Decrypt fail.
type Encryption interface {
	Algorithm() cryptoDomain.SymmetricAlgorithm
	KeySize() int
	Encrypt(key, plaintext []byte) ([]byte, error)
	Decrypt(key, ciphertext []byte) ([]byte, error)
}

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)

	// NonceSize returns the nonce length in bytes.
	NonceSize() int
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.SymmetricAlgorithm) (AEAD, error)
}
