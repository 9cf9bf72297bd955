package service

import (
	"fmt"

	cryptoDomain "github.com/allisson/qrsecrets/internal/crypto/domain"
)

// quantumProvider uses ML-KEM and ML-DSA. Bulk encryption stays symmetric.
type quantumProvider struct {
	kem        *mlkemKEM
	sig        *mldsaSignature
	encryption *aeadEncryption
}

func newQuantumProvider(cfg cryptoDomain.CryptoConfig) (*quantumProvider, error) {
	kem, err := newMLKEM(cfg.KemAlgorithm)
	if err != nil {
		return nil, err
	}
	sig, err := newMLDSA(cfg.SigAlgorithm)
	if err != nil {
		return nil, err
	}

	return &quantumProvider{
		kem:        kem,
		sig:        sig,
		encryption: newAEADEncryption(cfg.Symmetric(), NewAEADManager()),
	}, nil
}

func (p *quantumProvider) Mode() cryptoDomain.CryptoMode { return cryptoDomain.ModeQuantumResistant }

func (p *quantumProvider) KeyExchange() KeyExchange { return p.kem }

func (p *quantumProvider) Signature() Signature { return p.sig }

func (p *quantumProvider) Encryption() Encryption { return p.encryption }

func (p *quantumProvider) IsQuantumResistant() bool { return true }

func (p *quantumProvider) Name() string {
	return fmt.Sprintf("%s(%s,%s)", cryptoDomain.ModeQuantumResistant, p.kem.Algorithm(), p.sig.Algorithm())
}
