package service

import (
	"context"
	"time"

	cryptoDomain "github.com/allisson/qrsecrets/internal/crypto/domain"
	"github.com/allisson/qrsecrets/internal/metrics"
)

const metricsDomain = "crypto"

// providerWithMetrics decorates a CryptoProvider so that every capability records
// operation counts and durations.
type providerWithMetrics struct {
	next       CryptoProvider
	kem        KeyExchange
	sig        Signature
	encryption Encryption
}

// NewProviderWithMetrics wraps a CryptoProvider with metrics recording.
func NewProviderWithMetrics(provider CryptoProvider, m metrics.BusinessMetrics) CryptoProvider {
	return &providerWithMetrics{
		next:       provider,
		kem:        &keyExchangeWithMetrics{next: provider.KeyExchange(), metrics: m},
		sig:        &signatureWithMetrics{next: provider.Signature(), metrics: m},
		encryption: &encryptionWithMetrics{next: provider.Encryption(), metrics: m},
	}
}

func (p *providerWithMetrics) Mode() cryptoDomain.CryptoMode { return p.next.Mode() }
func (p *providerWithMetrics) KeyExchange() KeyExchange      { return p.kem }
func (p *providerWithMetrics) Signature() Signature          { return p.sig }
func (p *providerWithMetrics) Encryption() Encryption        { return p.encryption }
func (p *providerWithMetrics) IsQuantumResistant() bool      { return p.next.IsQuantumResistant() }
func (p *providerWithMetrics) Name() string                  { return p.next.Name() }

// record reports one operation. Provider calls carry no context, so the
// background context is used.
func record(m metrics.BusinessMetrics, operation string, start time.Time, err error) {
	metrics.Observe(context.Background(), m, metricsDomain, operation, start, err)
}

type keyExchangeWithMetrics struct {
	next    KeyExchange
	metrics metrics.BusinessMetrics
}

func (k *keyExchangeWithMetrics) Algorithm() string     { return k.next.Algorithm() }
func (k *keyExchangeWithMetrics) PublicKeySize() int    { return k.next.PublicKeySize() }
func (k *keyExchangeWithMetrics) PrivateKeySize() int   { return k.next.PrivateKeySize() }
func (k *keyExchangeWithMetrics) CiphertextSize() int   { return k.next.CiphertextSize() }
func (k *keyExchangeWithMetrics) SharedSecretSize() int { return k.next.SharedSecretSize() }

func (k *keyExchangeWithMetrics) GenerateKeypair() (cryptoDomain.PublicKey, *cryptoDomain.PrivateKey, error) {
	start := time.Now()
	pk, sk, err := k.next.GenerateKeypair()
	record(k.metrics, "kem_generate_keypair", start, err)
	return pk, sk, err
}

func (k *keyExchangeWithMetrics) Encapsulate(
	peer cryptoDomain.PublicKey,
) (cryptoDomain.Ciphertext, *cryptoDomain.SharedSecret, error) {
	start := time.Now()
	ct, ss, err := k.next.Encapsulate(peer)
	record(k.metrics, "kem_encapsulate", start, err)
	return ct, ss, err
}

func (k *keyExchangeWithMetrics) Decapsulate(
	own *cryptoDomain.PrivateKey,
	ct cryptoDomain.Ciphertext,
) (*cryptoDomain.SharedSecret, error) {
	start := time.Now()
	ss, err := k.next.Decapsulate(own, ct)
	record(k.metrics, "kem_decapsulate", start, err)
	return ss, err
}

type signatureWithMetrics struct {
	next    Signature
	metrics metrics.BusinessMetrics
}

func (s *signatureWithMetrics) Algorithm() string   { return s.next.Algorithm() }
func (s *signatureWithMetrics) PublicKeySize() int  { return s.next.PublicKeySize() }
func (s *signatureWithMetrics) PrivateKeySize() int { return s.next.PrivateKeySize() }
func (s *signatureWithMetrics) SignatureSize() int  { return s.next.SignatureSize() }

func (s *signatureWithMetrics) GenerateKeypair() (cryptoDomain.PublicKey, *cryptoDomain.PrivateKey, error) {
	start := time.Now()
	pk, sk, err := s.next.GenerateKeypair()
	record(s.metrics, "sig_generate_keypair", start, err)
	return pk, sk, err
}

func (s *signatureWithMetrics) Sign(sk *cryptoDomain.PrivateKey, message []byte) (cryptoDomain.Signature, error) {
	start := time.Now()
	sig, err := s.next.Sign(sk, message)
	record(s.metrics, "sig_sign", start, err)
	return sig, err
}

// Verify counts a rejected signature as an error outcome.
func (s *signatureWithMetrics) Verify(
	pk cryptoDomain.PublicKey,
	message []byte,
	sig cryptoDomain.Signature,
) (bool, error) {
	start := time.Now()
	ok, err := s.next.Verify(pk, message, sig)
	if err == nil && !ok {
		record(s.metrics, "sig_verify", start, cryptoDomain.ErrVerificationFailed)
	} else {
		record(s.metrics, "sig_verify", start, err)
	}
	return ok, err
}

type encryptionWithMetrics struct {
	next    Encryption
	metrics metrics.BusinessMetrics
}

func (e *encryptionWithMetrics) Algorithm() cryptoDomain.SymmetricAlgorithm { return e.next.Algorithm() }
func (e *encryptionWithMetrics) KeySize() int                               { return e.next.KeySize() }

func (e *encryptionWithMetrics) Encrypt(key, plaintext []byte) ([]byte, error) {
	start := time.Now()
	ct, err := e.next.Encrypt(key, plaintext)
	record(e.metrics, "encrypt", start, err)
	return ct, err
}

func (e *encryptionWithMetrics) Decrypt(key, ciphertext []byte) ([]byte, error) {
	start := time.Now()
	pt, err := e.next.Decrypt(key, ciphertext)
	record(e.metrics, "decrypt", start, err)
	return pt, err
}
