package service

import (
	"fmt"

	cryptoDomain "github.com/allisson/qrsecrets/internal/crypto/domain"
)

// classicalProvider uses ECDH P-256, ECDSA P-256 and the configured AEAD.
type classicalProvider struct {
	kem        *ecdhKEM
	sig        *ecdsaSignature
	encryption *aeadEncryption
}

func newClassicalProvider(cfg cryptoDomain.CryptoConfig) (*classicalProvider, error) {
	if cfg.KemAlgorithm != cryptoDomain.KemEcdhP256 || cfg.SigAlgorithm != cryptoDomain.SigEcdsaP256 {
		return nil, fmt.Errorf(
			"%w: classical provider needs ecdh and ecdsa, got %q and %q",
			cryptoDomain.ErrInvalidAlgorithm,
			cfg.KemAlgorithm,
			cfg.SigAlgorithm,
		)
	}

	return &classicalProvider{
		kem:        newECDHKEM(),
		sig:        newECDSASignature(),
		encryption: newAEADEncryption(cfg.Symmetric(), NewAEADManager()),
	}, nil
}

func (p *classicalProvider) Mode() cryptoDomain.CryptoMode { return cryptoDomain.ModeClassical }

func (p *classicalProvider) KeyExchange() KeyExchange { return p.kem }

func (p *classicalProvider) Signature() Signature { return p.sig }

func (p *classicalProvider) Encryption() Encryption { return p.encryption }

func (p *classicalProvider) IsQuantumResistant() bool { return false }

func (p *classicalProvider) Name() string {
	return fmt.Sprintf("%s(%s,%s)", cryptoDomain.ModeClassical, p.kem.Algorithm(), p.sig.Algorithm())
}
