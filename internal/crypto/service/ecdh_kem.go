package service

import (
	"crypto/ecdh"
	"crypto/rand"
	"fmt"

	cryptoDomain "github.com/allisson/qrsecrets/internal/crypto/domain"
)

// ecdhKEM realises ECDH P-256 as a KEM. The ciphertext is the uncompressed ephemeral
// public key and the shared secret is HKDF-SHA256 over the raw ECDH output, bound to
// both public keys.
type ecdhKEM struct {
	curve ecdh.Curve
}

func newECDHKEM() *ecdhKEM {
	return &ecdhKEM{curve: ecdh.P256()}
}

func (k *ecdhKEM) Algorithm() string { return cryptoDomain.KemEcdhP256.Name() }

func (k *ecdhKEM) PublicKeySize() int    { return cryptoDomain.KemEcdhP256.PublicKeySize() }
func (k *ecdhKEM) PrivateKeySize() int   { return cryptoDomain.KemEcdhP256.PrivateKeySize() }
func (k *ecdhKEM) CiphertextSize() int   { return cryptoDomain.KemEcdhP256.CiphertextSize() }
func (k *ecdhKEM) SharedSecretSize() int { return cryptoDomain.SharedSecretSize }

func (k *ecdhKEM) GenerateKeypair() (cryptoDomain.PublicKey, *cryptoDomain.PrivateKey, error) {
	sk, err := k.curve.GenerateKey(rand.Reader)
	if err != nil {
		return cryptoDomain.PublicKey{}, nil, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyGenerationFailed, err)
	}

	pk := cryptoDomain.PublicKey{Algorithm: k.Algorithm(), Key: sk.PublicKey().Bytes()}
	return pk, cryptoDomain.NewPrivateKey(k.Algorithm(), sk.Bytes()), nil
}

func (k *ecdhKEM) Encapsulate(
	peer cryptoDomain.PublicKey,
) (cryptoDomain.Ciphertext, *cryptoDomain.SharedSecret, error) {
	if err := checkPublicKey(peer, k.Algorithm(), k.PublicKeySize()); err != nil {
		return cryptoDomain.Ciphertext{}, nil, err
	}
	peerKey, err := k.curve.NewPublicKey(peer.Key)
	if err != nil {
		return cryptoDomain.Ciphertext{}, nil, fmt.Errorf("%w: %v", cryptoDomain.ErrInvalidKey, err)
	}

	ephemeral, err := k.curve.GenerateKey(rand.Reader)
	if err != nil {
		return cryptoDomain.Ciphertext{}, nil, fmt.Errorf("%w: %v", cryptoDomain.ErrEncryptionFailed, err)
	}
	ephemeralPub := ephemeral.PublicKey().Bytes()

	ss, err := k.derive(ephemeral, peerKey, ephemeralPub, peer.Key)
	if err != nil {
		return cryptoDomain.Ciphertext{}, nil, fmt.Errorf("%w: %v", cryptoDomain.ErrEncryptionFailed, err)
	}

	ct := cryptoDomain.Ciphertext{Algorithm: k.Algorithm(), Bytes: ephemeralPub}
	return ct, cryptoDomain.NewSharedSecret(ss), nil
}

func (k *ecdhKEM) Decapsulate(
	own *cryptoDomain.PrivateKey,
	ct cryptoDomain.Ciphertext,
) (*cryptoDomain.SharedSecret, error) {
	if err := checkPrivateKey(own, k.Algorithm(), k.PrivateKeySize()); err != nil {
		return nil, err
	}
	if err := checkCiphertext(ct, k.Algorithm(), k.CiphertextSize()); err != nil {
		return nil, err
	}

	sk, err := k.curve.NewPrivateKey(own.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrInvalidKey, err)
	}
	ephemeralKey, err := k.curve.NewPublicKey(ct.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrDecryptionFailed, err)
	}

	ss, err := k.derive(sk, ephemeralKey, ct.Bytes, sk.PublicKey().Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrDecryptionFailed, err)
	}
	return cryptoDomain.NewSharedSecret(ss), nil
}

func (k *ecdhKEM) derive(sk *ecdh.PrivateKey, pk *ecdh.PublicKey, ephemeralPub, recipientPub []byte) ([]byte, error) {
	z, err := sk.ECDH(pk)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(z)

	info := concat([]byte(ecdhKEMInfo), ephemeralPub, recipientPub)
	return DeriveKey(z, nil, info, cryptoDomain.SharedSecretSize)
}
