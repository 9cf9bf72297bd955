package service

import (
	"bytes"
	"fmt"

	"golang.org/x/sync/errgroup"

	cryptoDomain "github.com/allisson/qrsecrets/internal/crypto/domain"
)

// hybridProvider composes a classical and a quantum-resistant provider. Every
// asymmetric operation runs on both halves, so breaking it requires breaking both.
type hybridProvider struct {
	classical  CryptoProvider
	quantum    CryptoProvider
	kem        *hybridKEM
	sig        *hybridSignature
	encryption Encryption
}

func newHybridProvider(cfg cryptoDomain.CryptoConfig) (*hybridProvider, error) {
	classical, err := newClassicalProvider(cfg.ClassicalCounterpart())
	if err != nil {
		return nil, fmt.Errorf("hybrid classical half: %w", err)
	}
	quantum, err := newQuantumProvider(cfg.QuantumCounterpart())
	if err != nil {
		return nil, fmt.Errorf("hybrid quantum-resistant half: %w", err)
	}

	return &hybridProvider{
		classical: classical,
		quantum:   quantum,
		kem:       newHybridKEM(classical.KeyExchange(), quantum.KeyExchange()),
		sig: newHybridSignature(
			classical.Signature(),
			quantum.Signature(),
			cfg.EnableDualStorage || cfg.VerifyClassical,
			cfg.VerifyClassical,
		),
		encryption: quantum.Encryption(),
	}, nil
}

func (p *hybridProvider) Mode() cryptoDomain.CryptoMode { return cryptoDomain.ModeHybrid }

func (p *hybridProvider) KeyExchange() KeyExchange { return p.kem }

func (p *hybridProvider) Signature() Signature { return p.sig }

func (p *hybridProvider) Encryption() Encryption { return p.encryption }

func (p *hybridProvider) IsQuantumResistant() bool { return true }

func (p *hybridProvider) Name() string {
	return fmt.Sprintf(
		"%s(%s+%s,%s+%s)",
		cryptoDomain.ModeHybrid,
		p.classical.KeyExchange().Algorithm(),
		p.quantum.KeyExchange().Algorithm(),
		p.classical.Signature().Algorithm(),
		p.quantum.Signature().Algorithm(),
	)
}

func hybridTag(classical, pqc string) string {
	return fmt.Sprintf("%s(%s+%s)", cryptoDomain.ModeHybrid, classical, pqc)
}

// splitPrivateKey decodes a hybrid private key into two independently owned halves.
func splitPrivateKey(
	sk *cryptoDomain.PrivateKey,
	tag, classicalAlg, pqcAlg string,
) (*cryptoDomain.PrivateKey, *cryptoDomain.PrivateKey, error) {
	if sk == nil || sk.Destroyed() {
		return nil, nil, fmt.Errorf("%w: private key is missing or destroyed", cryptoDomain.ErrInvalidKey)
	}
	if sk.Algorithm() != tag {
		return nil, nil, fmt.Errorf("%w: private key algorithm %q, want %q", cryptoDomain.ErrInvalidKey, sk.Algorithm(), tag)
	}
	c, q, err := decodePair(sk.Bytes())
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", cryptoDomain.ErrInvalidKey, err)
	}
	return cryptoDomain.NewPrivateKey(classicalAlg, bytes.Clone(c)), cryptoDomain.NewPrivateKey(pqcAlg, bytes.Clone(q)), nil
}

func splitPublicKey(pk cryptoDomain.PublicKey, tag, classicalAlg, pqcAlg string) (cryptoDomain.PublicKey, cryptoDomain.PublicKey, error) {
	if pk.Algorithm != tag {
		return cryptoDomain.PublicKey{}, cryptoDomain.PublicKey{}, fmt.Errorf(
			"%w: public key algorithm %q, want %q", cryptoDomain.ErrInvalidKey, pk.Algorithm, tag,
		)
	}
	c, q, err := decodePair(pk.Key)
	if err != nil {
		return cryptoDomain.PublicKey{}, cryptoDomain.PublicKey{}, fmt.Errorf("%w: %v", cryptoDomain.ErrInvalidKey, err)
	}
	return cryptoDomain.PublicKey{Algorithm: classicalAlg, Key: c}, cryptoDomain.PublicKey{Algorithm: pqcAlg, Key: q}, nil
}

// joinKeypairs merges two generated keypairs into one hybrid keypair and destroys
// the halves.
func joinKeypairs(
	tag string,
	cpk, qpk cryptoDomain.PublicKey,
	csk, qsk *cryptoDomain.PrivateKey,
) (cryptoDomain.PublicKey, *cryptoDomain.PrivateKey) {
	defer csk.Destroy()
	defer qsk.Destroy()

	pk := cryptoDomain.PublicKey{Algorithm: tag, Key: encodePair(cpk.Key, qpk.Key)}
	return pk, cryptoDomain.NewPrivateKey(tag, encodePair(csk.Bytes(), qsk.Bytes()))
}

// hybridKEM encapsulates to both halves and combines the secrets with HKDF-SHA384.
type hybridKEM struct {
	classical KeyExchange
	quantum   KeyExchange
	tag       string
}

func newHybridKEM(classical, quantum KeyExchange) *hybridKEM {
	return &hybridKEM{
		classical: classical,
		quantum:   quantum,
		tag:       hybridTag(classical.Algorithm(), quantum.Algorithm()),
	}
}

func (k *hybridKEM) Algorithm() string { return k.tag }

func (k *hybridKEM) PublicKeySize() int {
	return pairSize(k.classical.PublicKeySize(), k.quantum.PublicKeySize())
}

func (k *hybridKEM) PrivateKeySize() int {
	return pairSize(k.classical.PrivateKeySize(), k.quantum.PrivateKeySize())
}

func (k *hybridKEM) CiphertextSize() int {
	return pairSize(k.classical.CiphertextSize(), k.quantum.CiphertextSize())
}

func (k *hybridKEM) SharedSecretSize() int { return cryptoDomain.SharedSecretSize }

func (k *hybridKEM) GenerateKeypair() (cryptoDomain.PublicKey, *cryptoDomain.PrivateKey, error) {
	var (
		cpk, qpk cryptoDomain.PublicKey
		csk, qsk *cryptoDomain.PrivateKey
	)

	var g errgroup.Group
	g.Go(func() (err error) {
		cpk, csk, err = k.classical.GenerateKeypair()
		return err
	})
	g.Go(func() (err error) {
		qpk, qsk, err = k.quantum.GenerateKeypair()
		return err
	})
	if err := g.Wait(); err != nil {
		csk.Destroy()
		qsk.Destroy()
		return cryptoDomain.PublicKey{}, nil, err
	}

	pk, sk := joinKeypairs(k.tag, cpk, qpk, csk, qsk)
	return pk, sk, nil
}

func (k *hybridKEM) Encapsulate(
	peer cryptoDomain.PublicKey,
) (cryptoDomain.Ciphertext, *cryptoDomain.SharedSecret, error) {
	cpk, qpk, err := splitPublicKey(peer, k.tag, k.classical.Algorithm(), k.quantum.Algorithm())
	if err != nil {
		return cryptoDomain.Ciphertext{}, nil, err
	}

	var (
		cct, qct cryptoDomain.Ciphertext
		css, qss *cryptoDomain.SharedSecret
	)
	defer func() {
		css.Destroy()
		qss.Destroy()
	}()

	var g errgroup.Group
	g.Go(func() (err error) {
		cct, css, err = k.classical.Encapsulate(cpk)
		return err
	})
	g.Go(func() (err error) {
		qct, qss, err = k.quantum.Encapsulate(qpk)
		return err
	})
	if err := g.Wait(); err != nil {
		return cryptoDomain.Ciphertext{}, nil, err
	}

	ss, err := deriveHybridSecret(k.tag, css.Bytes(), qss.Bytes(), cct.Bytes, qct.Bytes)
	if err != nil {
		return cryptoDomain.Ciphertext{}, nil, err
	}

	ct := cryptoDomain.Ciphertext{Algorithm: k.tag, Bytes: encodePair(cct.Bytes, qct.Bytes)}
	return ct, cryptoDomain.NewSharedSecret(ss), nil
}

func (k *hybridKEM) Decapsulate(
	own *cryptoDomain.PrivateKey,
	ct cryptoDomain.Ciphertext,
) (*cryptoDomain.SharedSecret, error) {
	csk, qsk, err := splitPrivateKey(own, k.tag, k.classical.Algorithm(), k.quantum.Algorithm())
	if err != nil {
		return nil, err
	}
	defer csk.Destroy()
	defer qsk.Destroy()

	if err := checkCiphertext(ct, k.tag, 0); err != nil {
		return nil, err
	}
	cctBytes, qctBytes, err := decodePair(ct.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrDecryptionFailed, err)
	}
	cct := cryptoDomain.Ciphertext{Algorithm: k.classical.Algorithm(), Bytes: cctBytes}
	qct := cryptoDomain.Ciphertext{Algorithm: k.quantum.Algorithm(), Bytes: qctBytes}

	var css, qss *cryptoDomain.SharedSecret
	defer func() {
		css.Destroy()
		qss.Destroy()
	}()

	var g errgroup.Group
	g.Go(func() (err error) {
		css, err = k.classical.Decapsulate(csk, cct)
		return err
	})
	g.Go(func() (err error) {
		qss, err = k.quantum.Decapsulate(qsk, qct)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ss, err := deriveHybridSecret(k.tag, css.Bytes(), qss.Bytes(), cctBytes, qctBytes)
	if err != nil {
		return nil, err
	}
	return cryptoDomain.NewSharedSecret(ss), nil
}

// hybridSignature signs with both halves. The post-quantum half is always required
// on verification; the classical half only when verifyClassical is set.
type hybridSignature struct {
	classical        Signature
	quantum          Signature
	tag              string
	includeClassical bool
	verifyClassical  bool
}

func newHybridSignature(classical, quantum Signature, includeClassical, verifyClassical bool) *hybridSignature {
	return &hybridSignature{
		classical:        classical,
		quantum:          quantum,
		tag:              hybridTag(classical.Algorithm(), quantum.Algorithm()),
		includeClassical: includeClassical,
		verifyClassical:  verifyClassical,
	}
}

func (s *hybridSignature) Algorithm() string { return s.tag }

func (s *hybridSignature) PublicKeySize() int {
	return pairSize(s.classical.PublicKeySize(), s.quantum.PublicKeySize())
}

func (s *hybridSignature) PrivateKeySize() int {
	return pairSize(s.classical.PrivateKeySize(), s.quantum.PrivateKeySize())
}

func (s *hybridSignature) SignatureSize() int {
	return pairSize(s.classical.SignatureSize(), s.quantum.SignatureSize())
}

func (s *hybridSignature) GenerateKeypair() (cryptoDomain.PublicKey, *cryptoDomain.PrivateKey, error) {
	var (
		cpk, qpk cryptoDomain.PublicKey
		csk, qsk *cryptoDomain.PrivateKey
	)

	var g errgroup.Group
	g.Go(func() (err error) {
		cpk, csk, err = s.classical.GenerateKeypair()
		return err
	})
	g.Go(func() (err error) {
		qpk, qsk, err = s.quantum.GenerateKeypair()
		return err
	})
	if err := g.Wait(); err != nil {
		csk.Destroy()
		qsk.Destroy()
		return cryptoDomain.PublicKey{}, nil, err
	}

	pk, sk := joinKeypairs(s.tag, cpk, qpk, csk, qsk)
	return pk, sk, nil
}

func (s *hybridSignature) Sign(sk *cryptoDomain.PrivateKey, message []byte) (cryptoDomain.Signature, error) {
	csk, qsk, err := splitPrivateKey(sk, s.tag, s.classical.Algorithm(), s.quantum.Algorithm())
	if err != nil {
		return cryptoDomain.Signature{}, err
	}
	defer csk.Destroy()
	defer qsk.Destroy()

	var csig, qsig cryptoDomain.Signature

	var g errgroup.Group
	if s.includeClassical {
		g.Go(func() (err error) {
			csig, err = s.classical.Sign(csk, message)
			return err
		})
	}
	g.Go(func() (err error) {
		qsig, err = s.quantum.Sign(qsk, message)
		return err
	})
	if err := g.Wait(); err != nil {
		return cryptoDomain.Signature{}, err
	}

	return cryptoDomain.Signature{Algorithm: s.tag, Bytes: encodePair(csig.Bytes, qsig.Bytes)}, nil
}

func (s *hybridSignature) Verify(pk cryptoDomain.PublicKey, message []byte, sig cryptoDomain.Signature) (bool, error) {
	cpk, qpk, err := splitPublicKey(pk, s.tag, s.classical.Algorithm(), s.quantum.Algorithm())
	if err != nil {
		return false, err
	}
	if sig.Algorithm != s.tag {
		return false, nil
	}
	csigBytes, qsigBytes, err := decodePair(sig.Bytes)
	if err != nil {
		return false, nil
	}
	if s.verifyClassical && len(csigBytes) == 0 {
		return false, nil
	}

	var classicalOK, quantumOK bool

	var g errgroup.Group
	if s.verifyClassical {
		g.Go(func() (err error) {
			classicalOK, err = s.classical.Verify(cpk, message, cryptoDomain.Signature{
				Algorithm: s.classical.Algorithm(),
				Bytes:     csigBytes,
			})
			return err
		})
	}
	g.Go(func() (err error) {
		quantumOK, err = s.quantum.Verify(qpk, message, cryptoDomain.Signature{
			Algorithm: s.quantum.Algorithm(),
			Bytes:     qsigBytes,
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return false, err
	}

	if s.verifyClassical {
		return classicalOK && quantumOK, nil
	}
	return quantumOK, nil
}
