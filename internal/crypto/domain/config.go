package domain

import (
	"errors"
	"fmt"

	validation "github.com/jellydator/validation"
)

// CryptoConfig selects the provider family and algorithms. It is built once at
// startup, validated before any provider is constructed, and never mutated afterwards.
type CryptoConfig struct {
	// Mode selects the provider family.
	Mode CryptoMode
	// KemAlgorithm is the configured key-encapsulation algorithm.
	KemAlgorithm KemAlgorithm
	// SigAlgorithm is the configured signature algorithm.
	SigAlgorithm SigAlgorithm
	// SymmetricAlgorithm is the bulk AEAD cipher. Empty means AESGCM.
	SymmetricAlgorithm SymmetricAlgorithm
	// EnableDualStorage keeps a classically encrypted copy of every secret.
	EnableDualStorage bool
	// VerifyClassical requires the classical signature half of hybrid records and,
	// with dual storage, cross-checks the classical copy.
	VerifyClassical bool
	// EnableMetrics instruments providers with operation counters and durations.
	EnableMetrics bool
	// AllowRollback permits moving to an earlier migration stage than the one last recorded.
	AllowRollback bool
}

// DefaultCryptoConfig returns hybrid Kyber768/Dilithium3 with AES-256-GCM, dual
// storage and classical verification enabled (192-bit class, smooth migration).
func DefaultCryptoConfig() CryptoConfig {
	return CryptoConfig{
		Mode:               ModeHybrid,
		KemAlgorithm:       KemKyber768,
		SigAlgorithm:       SigDilithium3,
		SymmetricAlgorithm: AESGCM,
		EnableDualStorage:  true,
		VerifyClassical:    true,
	}
}

// Symmetric returns the configured AEAD cipher, defaulting to AESGCM.
func (c CryptoConfig) Symmetric() SymmetricAlgorithm {
	if c.SymmetricAlgorithm == "" {
		return AESGCM
	}
	return c.SymmetricAlgorithm
}

// Validate enforces the mode/algorithm pairing rules:
//   - classical pairs only with ecdh and ecdsa
//   - quantum_resistant pairs only with a Kyber and a Dilithium variant
//   - hybrid needs at least one post-quantum algorithm
//
// In quantum_resistant mode verify_classical requires dual storage, otherwise there
// is no classical path to verify. In hybrid mode it also covers the classical
// signature half. All failures wrap ErrConfig.
func (c CryptoConfig) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Mode,
			validation.Required,
			validation.In(ModeClassical, ModeQuantumResistant, ModeHybrid),
		),
		validation.Field(&c.KemAlgorithm,
			validation.Required,
			validation.In(KemEcdhP256, KemKyber512, KemKyber768, KemKyber1024),
			validation.By(c.checkKemPairing),
		),
		validation.Field(&c.SigAlgorithm,
			validation.Required,
			validation.In(SigEcdsaP256, SigDilithium2, SigDilithium3, SigDilithium5),
			validation.By(c.checkSigPairing),
		),
		validation.Field(&c.SymmetricAlgorithm,
			validation.In(AESGCM, ChaCha20),
		),
		validation.Field(&c.VerifyClassical,
			validation.By(c.checkVerifyClassical),
		),
	)
	if err == nil {
		err = c.checkHybrid()
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfig, err)
	}
	return nil
}

func (c CryptoConfig) checkKemPairing(value any) error {
	alg, _ := value.(KemAlgorithm)
	switch c.Mode {
	case ModeClassical:
		if alg != KemEcdhP256 {
			return errors.New("classical mode only supports ecdh")
		}
	case ModeQuantumResistant:
		if !alg.IsPostQuantum() {
			return errors.New("quantum_resistant mode requires a kyber variant")
		}
	}
	return nil
}

func (c CryptoConfig) checkSigPairing(value any) error {
	alg, _ := value.(SigAlgorithm)
	switch c.Mode {
	case ModeClassical:
		if alg != SigEcdsaP256 {
			return errors.New("classical mode only supports ecdsa")
		}
	case ModeQuantumResistant:
		if !alg.IsPostQuantum() {
			return errors.New("quantum_resistant mode requires a dilithium variant")
		}
	}
	return nil
}

func (c CryptoConfig) checkVerifyClassical(value any) error {
	verify, _ := value.(bool)
	if verify && c.Mode == ModeQuantumResistant && !c.EnableDualStorage {
		return errors.New("requires dual storage in quantum_resistant mode")
	}
	return nil
}

func (c CryptoConfig) checkHybrid() error {
	if c.Mode == ModeHybrid && !c.KemAlgorithm.IsPostQuantum() && !c.SigAlgorithm.IsPostQuantum() {
		return errors.New("hybrid mode requires at least one post-quantum algorithm")
	}
	return nil
}

// ClassicalCounterpart returns the classical-only configuration used for the
// classical half of hybrid operations and for dual-storage copies.
func (c CryptoConfig) ClassicalCounterpart() CryptoConfig {
	return CryptoConfig{
		Mode:               ModeClassical,
		KemAlgorithm:       KemEcdhP256,
		SigAlgorithm:       SigEcdsaP256,
		SymmetricAlgorithm: c.Symmetric(),
	}
}

// QuantumCounterpart returns the post-quantum-only configuration used for the
// post-quantum half of hybrid operations. Classical choices fall back to
// Kyber768 and Dilithium3.
func (c CryptoConfig) QuantumCounterpart() CryptoConfig {
	kem, sig := c.KemAlgorithm, c.SigAlgorithm
	if !kem.IsPostQuantum() {
		kem = KemKyber768
	}
	if !sig.IsPostQuantum() {
		sig = SigDilithium3
	}
	return CryptoConfig{
		Mode:               ModeQuantumResistant,
		KemAlgorithm:       kem,
		SigAlgorithm:       sig,
		SymmetricAlgorithm: c.Symmetric(),
	}
}
