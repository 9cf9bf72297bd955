package service

import (
	"fmt"

	"github.com/cloudflare/circl/sign"
	"github.com/cloudflare/circl/sign/mldsa/mldsa44"
	"github.com/cloudflare/circl/sign/mldsa/mldsa65"
	"github.com/cloudflare/circl/sign/mldsa/mldsa87"

	cryptoDomain "github.com/allisson/qrsecrets/internal/crypto/domain"
)

// mldsaSignature wraps a CIRCL ML-DSA scheme.
type mldsaSignature struct {
	scheme    sign.Scheme
	algorithm cryptoDomain.SigAlgorithm
}

func newMLDSA(alg cryptoDomain.SigAlgorithm) (*mldsaSignature, error) {
	var scheme sign.Scheme
	switch alg {
	case cryptoDomain.SigDilithium2:
		scheme = mldsa44.Scheme()
	case cryptoDomain.SigDilithium3:
		scheme = mldsa65.Scheme()
	case cryptoDomain.SigDilithium5:
		scheme = mldsa87.Scheme()
	default:
		return nil, fmt.Errorf("%w: %q is not a post-quantum signature", cryptoDomain.ErrInvalidAlgorithm, alg)
	}
	return &mldsaSignature{scheme: scheme, algorithm: alg}, nil
}

func (m *mldsaSignature) Algorithm() string { return m.algorithm.Name() }

func (m *mldsaSignature) PublicKeySize() int  { return m.scheme.PublicKeySize() }
func (m *mldsaSignature) PrivateKeySize() int { return m.scheme.PrivateKeySize() }
func (m *mldsaSignature) SignatureSize() int  { return m.scheme.SignatureSize() }

func (m *mldsaSignature) GenerateKeypair() (cryptoDomain.PublicKey, *cryptoDomain.PrivateKey, error) {
	pub, priv, err := m.scheme.GenerateKey()
	if err != nil {
		return cryptoDomain.PublicKey{}, nil, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyGenerationFailed, err)
	}

	pubBytes, err := pub.MarshalBinary()
	if err != nil {
		return cryptoDomain.PublicKey{}, nil, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyGenerationFailed, err)
	}
	privBytes, err := priv.MarshalBinary()
	if err != nil {
		return cryptoDomain.PublicKey{}, nil, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyGenerationFailed, err)
	}

	pk := cryptoDomain.PublicKey{Algorithm: m.Algorithm(), Key: pubBytes}
	return pk, cryptoDomain.NewPrivateKey(m.Algorithm(), privBytes), nil
}

func (m *mldsaSignature) Sign(sk *cryptoDomain.PrivateKey, message []byte) (cryptoDomain.Signature, error) {
	if err := checkPrivateKey(sk, m.Algorithm(), m.PrivateKeySize()); err != nil {
		return cryptoDomain.Signature{}, err
	}
	priv, err := m.scheme.UnmarshalBinaryPrivateKey(sk.Bytes())
	if err != nil {
		return cryptoDomain.Signature{}, fmt.Errorf("%w: %v", cryptoDomain.ErrInvalidKey, err)
	}

	sig := m.scheme.Sign(priv, message, nil)
	if len(sig) == 0 {
		return cryptoDomain.Signature{}, cryptoDomain.ErrSignatureFailed
	}
	return cryptoDomain.Signature{Algorithm: m.Algorithm(), Bytes: sig}, nil
}

func (m *mldsaSignature) Verify(pk cryptoDomain.PublicKey, message []byte, sig cryptoDomain.Signature) (bool, error) {
	if err := checkPublicKey(pk, m.Algorithm(), m.PublicKeySize()); err != nil {
		return false, err
	}
	pub, err := m.scheme.UnmarshalBinaryPublicKey(pk.Key)
	if err != nil {
		return false, fmt.Errorf("%w: %v", cryptoDomain.ErrInvalidKey, err)
	}
	if sig.Algorithm != m.Algorithm() || len(sig.Bytes) != m.SignatureSize() {
		return false, nil
	}
	return m.scheme.Verify(pub, message, sig.Bytes, nil), nil
}
