package domain

import "fmt"

// CryptoMode selects which provider family the factory builds.
type CryptoMode string

const (
	// ModeClassical uses ECDH P-256 and ECDSA P-256 only.
	ModeClassical CryptoMode = "classical"

	// ModeQuantumResistant uses a Kyber (ML-KEM) variant and a Dilithium (ML-DSA) variant only.
	ModeQuantumResistant CryptoMode = "quantum_resistant"

	// ModeHybrid combines one classical and one post-quantum algorithm for every
	// asymmetric operation, so an attacker has to break both.
	ModeHybrid CryptoMode = "hybrid"
)

// ParseCryptoMode converts a configuration value into a CryptoMode.
func ParseCryptoMode(s string) (CryptoMode, error) {
	switch m := CryptoMode(s); m {
	case ModeClassical, ModeQuantumResistant, ModeHybrid:
		return m, nil
	default:
		return "", fmt.Errorf("%w: unknown crypto mode %q", ErrConfig, s)
	}
}

// KemAlgorithm identifies a key-encapsulation algorithm.
//
// The Kyber identifiers are realised by the NIST FIPS 203 ML-KEM parameter sets
// (Kyber512 = ML-KEM-512, Kyber768 = ML-KEM-768, Kyber1024 = ML-KEM-1024).
type KemAlgorithm string

const (
	// KemEcdhP256 is elliptic-curve Diffie-Hellman on P-256 used in KEM form.
	KemEcdhP256 KemAlgorithm = "ecdh"
	// KemKyber512 is ML-KEM-512 (NIST security category 1).
	KemKyber512 KemAlgorithm = "kyber512"
	// KemKyber768 is ML-KEM-768 (NIST security category 3).
	KemKyber768 KemAlgorithm = "kyber768"
	// KemKyber1024 is ML-KEM-1024 (NIST security category 5).
	KemKyber1024 KemAlgorithm = "kyber1024"
)

type kemParams struct {
	name           string
	securityLevel  int
	publicKeySize  int
	privateKeySize int
	ciphertextSize int
}

// Sizes follow FIPS 203 for ML-KEM. The ECDH private key is the raw scalar and
// both its public key and ciphertext (ephemeral public key) are uncompressed points.
var kemTable = map[KemAlgorithm]kemParams{
	KemEcdhP256:  {name: "ECDH-P256", securityLevel: 128, publicKeySize: 65, privateKeySize: 32, ciphertextSize: 65},
	KemKyber512:  {name: "Kyber512", securityLevel: 128, publicKeySize: 800, privateKeySize: 1632, ciphertextSize: 768},
	KemKyber768:  {name: "Kyber768", securityLevel: 192, publicKeySize: 1184, privateKeySize: 2400, ciphertextSize: 1088},
	KemKyber1024: {name: "Kyber1024", securityLevel: 256, publicKeySize: 1568, privateKeySize: 3168, ciphertextSize: 1568},
}

// SharedSecretSize is the size of every shared secret produced by this layer.
const SharedSecretSize = 32

// ParseKemAlgorithm converts a configuration value into a KemAlgorithm.
func ParseKemAlgorithm(s string) (KemAlgorithm, error) {
	alg := KemAlgorithm(s)
	if !alg.IsValid() {
		return "", fmt.Errorf("%w: unknown KEM algorithm %q", ErrConfig, s)
	}
	return alg, nil
}

// IsValid reports whether the identifier is a known KEM algorithm.
func (a KemAlgorithm) IsValid() bool {
	_, ok := kemTable[a]
	return ok
}

// IsPostQuantum reports whether the algorithm belongs to the post-quantum family.
func (a KemAlgorithm) IsPostQuantum() bool {
	return a.IsValid() && a != KemEcdhP256
}

// Name returns the display name used to tag keys and ciphertexts.
func (a KemAlgorithm) Name() string { return kemTable[a].name }

// SecurityLevel returns the classical-equivalent security level in bits.
func (a KemAlgorithm) SecurityLevel() int { return kemTable[a].securityLevel }

// PublicKeySize returns the encoded public key size in bytes.
func (a KemAlgorithm) PublicKeySize() int { return kemTable[a].publicKeySize }

// PrivateKeySize returns the encoded private key size in bytes.
func (a KemAlgorithm) PrivateKeySize() int { return kemTable[a].privateKeySize }

// CiphertextSize returns the KEM ciphertext size in bytes.
func (a KemAlgorithm) CiphertextSize() int { return kemTable[a].ciphertextSize }

// SharedSecretSize returns the shared secret size in bytes.
func (a KemAlgorithm) SharedSecretSize() int { return SharedSecretSize }

// SigAlgorithm identifies a signature algorithm.
//
// The Dilithium identifiers are realised by the NIST FIPS 204 ML-DSA parameter sets
// (Dilithium2 = ML-DSA-44, Dilithium3 = ML-DSA-65, Dilithium5 = ML-DSA-87).
type SigAlgorithm string

const (
	// SigEcdsaP256 is ECDSA on P-256 over SHA-256.
	SigEcdsaP256 SigAlgorithm = "ecdsa"
	// SigDilithium2 is ML-DSA-44 (NIST security category 2).
	SigDilithium2 SigAlgorithm = "dilithium2"
	// SigDilithium3 is ML-DSA-65 (NIST security category 3).
	SigDilithium3 SigAlgorithm = "dilithium3"
	// SigDilithium5 is ML-DSA-87 (NIST security category 5).
	SigDilithium5 SigAlgorithm = "dilithium5"
)

type sigParams struct {
	name           string
	securityLevel  int
	publicKeySize  int
	privateKeySize int
	signatureSize  int
}

// The ECDSA signature size is the maximum length of an ASN.1 DER encoded P-256 signature.
var sigTable = map[SigAlgorithm]sigParams{
	SigEcdsaP256:  {name: "ECDSA-P256", securityLevel: 128, publicKeySize: 65, privateKeySize: 32, signatureSize: 72},
	SigDilithium2: {name: "Dilithium2", securityLevel: 128, publicKeySize: 1312, privateKeySize: 2560, signatureSize: 2420},
	SigDilithium3: {name: "Dilithium3", securityLevel: 192, publicKeySize: 1952, privateKeySize: 4032, signatureSize: 3309},
	SigDilithium5: {name: "Dilithium5", securityLevel: 256, publicKeySize: 2592, privateKeySize: 4896, signatureSize: 4627},
}

// ParseSigAlgorithm converts a configuration value into a SigAlgorithm.
func ParseSigAlgorithm(s string) (SigAlgorithm, error) {
	alg := SigAlgorithm(s)
	if !alg.IsValid() {
		return "", fmt.Errorf("%w: unknown signature algorithm %q", ErrConfig, s)
	}
	return alg, nil
}

// IsValid reports whether the identifier is a known signature algorithm.
func (a SigAlgorithm) IsValid() bool {
	_, ok := sigTable[a]
	return ok
}

// IsPostQuantum reports whether the algorithm belongs to the post-quantum family.
func (a SigAlgorithm) IsPostQuantum() bool {
	return a.IsValid() && a != SigEcdsaP256
}

// Name returns the display name used to tag keys and signatures.
func (a SigAlgorithm) Name() string { return sigTable[a].name }

// SecurityLevel returns the classical-equivalent security level in bits.
func (a SigAlgorithm) SecurityLevel() int { return sigTable[a].securityLevel }

// PublicKeySize returns the encoded public key size in bytes.
func (a SigAlgorithm) PublicKeySize() int { return sigTable[a].publicKeySize }

// PrivateKeySize returns the encoded private key size in bytes.
func (a SigAlgorithm) PrivateKeySize() int { return sigTable[a].privateKeySize }

// SignatureSize returns the signature size in bytes (an upper bound for ECDSA).
func (a SigAlgorithm) SignatureSize() int { return sigTable[a].signatureSize }

// SymmetricAlgorithm represents the AEAD cipher used for bulk encryption.
//
// Both supported ciphers use 256-bit keys, which keeps them quantum-safe under
// Grover's bound, so all provider families share them.
type SymmetricAlgorithm string

const (
	// AESGCM represents AES-256-GCM (12-byte nonce, 16-byte tag).
	AESGCM SymmetricAlgorithm = "aes-gcm"

	// ChaCha20 represents ChaCha20-Poly1305 (12-byte nonce, 16-byte tag).
	ChaCha20 SymmetricAlgorithm = "chacha20-poly1305"
)

// SymmetricKeySize is the key size of every supported AEAD cipher.
const SymmetricKeySize = 32

// ParseSymmetricAlgorithm converts a configuration value into a SymmetricAlgorithm.
func ParseSymmetricAlgorithm(s string) (SymmetricAlgorithm, error) {
	switch alg := SymmetricAlgorithm(s); alg {
	case AESGCM, ChaCha20:
		return alg, nil
	default:
		return "", fmt.Errorf("%w: unknown symmetric algorithm %q", ErrConfig, s)
	}
}
