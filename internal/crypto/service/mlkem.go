package service

import (
	"fmt"

	"github.com/cloudflare/circl/kem"
	"github.com/cloudflare/circl/kem/mlkem/mlkem1024"
	"github.com/cloudflare/circl/kem/mlkem/mlkem512"
	"github.com/cloudflare/circl/kem/mlkem/mlkem768"

	cryptoDomain "github.com/allisson/qrsecrets/internal/crypto/domain"
)

// mlkemKEM wraps a CIRCL ML-KEM scheme. Key and ciphertext sizes come from the scheme.
type mlkemKEM struct {
	scheme    kem.Scheme
	algorithm cryptoDomain.KemAlgorithm
}

func newMLKEM(alg cryptoDomain.KemAlgorithm) (*mlkemKEM, error) {
	var scheme kem.Scheme
	switch alg {
	case cryptoDomain.KemKyber512:
		scheme = mlkem512.Scheme()
	case cryptoDomain.KemKyber768:
		scheme = mlkem768.Scheme()
	case cryptoDomain.KemKyber1024:
		scheme = mlkem1024.Scheme()
	default:
		return nil, fmt.Errorf("%w: %q is not a post-quantum KEM", cryptoDomain.ErrInvalidAlgorithm, alg)
	}
	return &mlkemKEM{scheme: scheme, algorithm: alg}, nil
}

func (m *mlkemKEM) Algorithm() string { return m.algorithm.Name() }

func (m *mlkemKEM) PublicKeySize() int    { return m.scheme.PublicKeySize() }
func (m *mlkemKEM) PrivateKeySize() int   { return m.scheme.PrivateKeySize() }
func (m *mlkemKEM) CiphertextSize() int   { return m.scheme.CiphertextSize() }
func (m *mlkemKEM) SharedSecretSize() int { return m.scheme.SharedKeySize() }

func (m *mlkemKEM) GenerateKeypair() (cryptoDomain.PublicKey, *cryptoDomain.PrivateKey, error) {
	pub, priv, err := m.scheme.GenerateKeyPair()
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

func (m *mlkemKEM) Encapsulate(
	peer cryptoDomain.PublicKey,
) (cryptoDomain.Ciphertext, *cryptoDomain.SharedSecret, error) {
	if err := checkPublicKey(peer, m.Algorithm(), m.PublicKeySize()); err != nil {
		return cryptoDomain.Ciphertext{}, nil, err
	}
	pub, err := m.scheme.UnmarshalBinaryPublicKey(peer.Key)
	if err != nil {
		return cryptoDomain.Ciphertext{}, nil, fmt.Errorf("%w: %v", cryptoDomain.ErrInvalidKey, err)
	}

	ct, ss, err := m.scheme.Encapsulate(pub)
	if err != nil {
		return cryptoDomain.Ciphertext{}, nil, fmt.Errorf("%w: %v", cryptoDomain.ErrEncryptionFailed, err)
	}
	return cryptoDomain.Ciphertext{Algorithm: m.Algorithm(), Bytes: ct}, cryptoDomain.NewSharedSecret(ss), nil
}

// Decapsulate recovers the shared secret. ML-KEM uses implicit rejection, so a
// tampered ciphertext of the right length yields an unrelated secret, not an error.
func (m *mlkemKEM) Decapsulate(
	own *cryptoDomain.PrivateKey,
	ct cryptoDomain.Ciphertext,
) (*cryptoDomain.SharedSecret, error) {
	if err := checkPrivateKey(own, m.Algorithm(), m.PrivateKeySize()); err != nil {
		return nil, err
	}
	if err := checkCiphertext(ct, m.Algorithm(), m.CiphertextSize()); err != nil {
		return nil, err
	}

	priv, err := m.scheme.UnmarshalBinaryPrivateKey(own.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrInvalidKey, err)
	}
	ss, err := m.scheme.Decapsulate(priv, ct.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrDecryptionFailed, err)
	}
	return cryptoDomain.NewSharedSecret(ss), nil
}
