package service

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	cryptoDomain "github.com/allisson/qrsecrets/internal/crypto/domain"
)

// ecdsaSignature is ECDSA P-256 over SHA-256 with ASN.1 DER signatures. Keys travel
// as the uncompressed public point and the raw private scalar.
type ecdsaSignature struct {
	curve elliptic.Curve
}

func newECDSASignature() *ecdsaSignature {
	return &ecdsaSignature{curve: elliptic.P256()}
}

func (s *ecdsaSignature) Algorithm() string { return cryptoDomain.SigEcdsaP256.Name() }

func (s *ecdsaSignature) PublicKeySize() int  { return cryptoDomain.SigEcdsaP256.PublicKeySize() }
func (s *ecdsaSignature) PrivateKeySize() int { return cryptoDomain.SigEcdsaP256.PrivateKeySize() }
func (s *ecdsaSignature) SignatureSize() int  { return cryptoDomain.SigEcdsaP256.SignatureSize() }

func (s *ecdsaSignature) GenerateKeypair() (cryptoDomain.PublicKey, *cryptoDomain.PrivateKey, error) {
	sk, err := ecdsa.GenerateKey(s.curve, rand.Reader)
	if err != nil {
		return cryptoDomain.PublicKey{}, nil, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyGenerationFailed, err)
	}

	pub, err := sk.PublicKey.Bytes()
	if err != nil {
		return cryptoDomain.PublicKey{}, nil, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyGenerationFailed, err)
	}
	priv, err := sk.Bytes()
	if err != nil {
		return cryptoDomain.PublicKey{}, nil, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyGenerationFailed, err)
	}

	return cryptoDomain.PublicKey{Algorithm: s.Algorithm(), Key: pub}, cryptoDomain.NewPrivateKey(s.Algorithm(), priv), nil
}

func (s *ecdsaSignature) Sign(sk *cryptoDomain.PrivateKey, message []byte) (cryptoDomain.Signature, error) {
	if err := checkPrivateKey(sk, s.Algorithm(), s.PrivateKeySize()); err != nil {
		return cryptoDomain.Signature{}, err
	}
	key, err := ecdsa.ParseRawPrivateKey(s.curve, sk.Bytes())
	if err != nil {
		return cryptoDomain.Signature{}, fmt.Errorf("%w: %v", cryptoDomain.ErrInvalidKey, err)
	}

	digest := sha256.Sum256(message)
	sig, err := ecdsa.SignASN1(rand.Reader, key, digest[:])
	if err != nil {
		return cryptoDomain.Signature{}, fmt.Errorf("%w: %v", cryptoDomain.ErrSignatureFailed, err)
	}
	return cryptoDomain.Signature{Algorithm: s.Algorithm(), Bytes: sig}, nil
}

func (s *ecdsaSignature) Verify(pk cryptoDomain.PublicKey, message []byte, sig cryptoDomain.Signature) (bool, error) {
	if err := checkPublicKey(pk, s.Algorithm(), s.PublicKeySize()); err != nil {
		return false, err
	}
	key, err := ecdsa.ParseUncompressedPublicKey(s.curve, pk.Key)
	if err != nil {
		return false, fmt.Errorf("%w: %v", cryptoDomain.ErrInvalidKey, err)
	}
	if sig.Algorithm != s.Algorithm() || len(sig.Bytes) == 0 || len(sig.Bytes) > s.SignatureSize() {
		return false, nil
	}

	digest := sha256.Sum256(message)
	return ecdsa.VerifyASN1(key, digest[:], sig.Bytes), nil
}
