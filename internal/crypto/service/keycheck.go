package service

import (
	"fmt"

	cryptoDomain "github.com/allisson/qrsecrets/internal/crypto/domain"
)

func checkPublicKey(pk cryptoDomain.PublicKey, algorithm string, size int) error {
	if pk.Algorithm != algorithm {
		return fmt.Errorf("%w: public key algorithm %q, want %q", cryptoDomain.ErrInvalidKey, pk.Algorithm, algorithm)
	}
	if len(pk.Key) != size {
		return fmt.Errorf("%w: public key is %d bytes, want %d", cryptoDomain.ErrInvalidKey, len(pk.Key), size)
	}
	return nil
}

func checkPrivateKey(sk *cryptoDomain.PrivateKey, algorithm string, size int) error {
	if sk == nil || sk.Destroyed() {
		return fmt.Errorf("%w: private key is missing or destroyed", cryptoDomain.ErrInvalidKey)
	}
	if sk.Algorithm() != algorithm {
		return fmt.Errorf("%w: private key algorithm %q, want %q", cryptoDomain.ErrInvalidKey, sk.Algorithm(), algorithm)
	}
	if len(sk.Bytes()) != size {
		return fmt.Errorf("%w: private key is %d bytes, want %d", cryptoDomain.ErrInvalidKey, len(sk.Bytes()), size)
	}
	return nil
}

func checkCiphertext(ct cryptoDomain.Ciphertext, algorithm string, size int) error {
	if ct.Algorithm != algorithm {
		return fmt.Errorf("%w: ciphertext algorithm %q, want %q", cryptoDomain.ErrDecryptionFailed, ct.Algorithm, algorithm)
	}
	if size > 0 && len(ct.Bytes) != size {
		return fmt.Errorf("%w: ciphertext is %d bytes, want %d", cryptoDomain.ErrDecryptionFailed, len(ct.Bytes), size)
	}
	return nil
}
