package domain

import (
	"fmt"
	"runtime"
)

// PublicKey is an algorithm-tagged public key. It is not sensitive and may be copied freely.
type PublicKey struct {
	Algorithm string
	Key       []byte
}

// Ciphertext is the algorithm-tagged output of a KEM encapsulation. It travels
// alongside the payload it protects and is not sensitive.
type Ciphertext struct {
	Algorithm string
	Bytes     []byte
}

// Signature is an algorithm-tagged signature, so a verifier never has to guess the scheme.
type Signature struct {
	Algorithm string
	Bytes     []byte
}

// sensitiveBuffer owns a byte slice that is zeroed when released. A runtime cleanup
// zeroes the buffer if the owner is garbage collected without calling destroy.
type sensitiveBuffer struct {
	b       []byte
	cleanup runtime.Cleanup
	armed   bool
}

func newSensitiveBuffer[T any](owner *T, b []byte) sensitiveBuffer {
	buf := sensitiveBuffer{b: b}
	if len(b) > 0 {
		buf.cleanup = runtime.AddCleanup(owner, Zero, b)
		buf.armed = true
	}
	return buf
}

func (s *sensitiveBuffer) destroy() {
	if s.b == nil {
		return
	}
	if s.armed {
		s.cleanup.Stop()
		s.armed = false
	}
	Zero(s.b)
	s.b = nil
}

// PrivateKey is an algorithm-tagged private key with a single owner.
//
// The key bytes are overwritten with zeros by Destroy. Owners call Destroy with
// defer right after acquiring the key so it runs on every exit path. A key that
// becomes unreachable without Destroy is zeroed by a runtime cleanup. PrivateKey
// values are never copied implicitly; Clone is the only way to duplicate one.
type PrivateKey struct {
	algorithm string
	buf       sensitiveBuffer
}

// NewPrivateKey takes ownership of key. The caller must not use the slice afterwards.
func NewPrivateKey(algorithm string, key []byte) *PrivateKey {
	k := &PrivateKey{algorithm: algorithm}
	k.buf = newSensitiveBuffer(k, key)
	return k
}

// Algorithm returns the identifier of the algorithm that produced the key.
func (k *PrivateKey) Algorithm() string {
	return k.algorithm
}

// Bytes returns a borrowed view of the key material, valid until Destroy.
// The slice must not be retained or modified.
func (k *PrivateKey) Bytes() []byte {
	return k.buf.b
}

// Destroyed reports whether Destroy has been called.
func (k *PrivateKey) Destroyed() bool {
	return k.buf.b == nil
}

// Clone returns an independent copy of the key. Both copies must be destroyed.
func (k *PrivateKey) Clone() *PrivateKey {
	return NewPrivateKey(k.algorithm, append([]byte(nil), k.buf.b...))
}

// Destroy zeroes the key material. It is safe to call more than once and on nil.
func (k *PrivateKey) Destroy() {
	if k == nil {
		return
	}
	k.buf.destroy()
}

// String never reveals key material.
func (k *PrivateKey) String() string {
	return fmt.Sprintf("PrivateKey(%s, redacted)", k.algorithm)
}

// GoString never reveals key material.
func (k *PrivateKey) GoString() string {
	return k.String()
}

// SharedSecret is the output of a key exchange. It follows the same ownership and
// zeroization contract as PrivateKey and is meant to be consumed immediately to
// derive a symmetric key.
type SharedSecret struct {
	buf sensitiveBuffer
}

// NewSharedSecret takes ownership of secret.
func NewSharedSecret(secret []byte) *SharedSecret {
	s := &SharedSecret{}
	s.buf = newSensitiveBuffer(s, secret)
	return s
}

// Bytes returns a borrowed view of the secret, valid until Destroy.
func (s *SharedSecret) Bytes() []byte {
	return s.buf.b
}

// Destroyed reports whether Destroy has been called.
func (s *SharedSecret) Destroyed() bool {
	return s.buf.b == nil
}

// Destroy zeroes the secret. It is safe to call more than once and on nil.
func (s *SharedSecret) Destroy() {
	if s == nil {
		return
	}
	s.buf.destroy()
}

// String never reveals the secret.
func (s *SharedSecret) String() string {
	return "SharedSecret(redacted)"
}

// GoString never reveals the secret.
func (s *SharedSecret) GoString() string {
	return s.String()
}
