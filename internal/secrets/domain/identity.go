package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/qrsecrets/internal/crypto/domain"
	"github.com/allisson/qrsecrets/internal/validation"
)

// Keyring names owned by the secret manager.
const (
	identityKeyPrefix = validation.ReservedPrefix + "identity/"
	stageKey          = validation.ReservedPrefix + "stage"
)

// IdentityKind separates key-exchange identities from signing identities.
type IdentityKind string

const (
	// IdentityKEM is a recipient keypair secrets are encapsulated to.
	IdentityKEM IdentityKind = "kem"
	// IdentitySigner is the keypair envelopes are signed with.
	IdentitySigner IdentityKind = "sig"
)

// Identity is a long-lived keypair. The private key is only ever stored sealed by
// the KMS keeper.
type Identity struct {
	ID               uuid.UUID    `json:"id"`
	Kind             IdentityKind `json:"kind"`
	Algorithm        string       `json:"algorithm"`
	PublicKey        []byte       `json:"public_key"`
	SealedPrivateKey []byte       `json:"sealed_private_key"`
	CreatedAt        time.Time    `json:"created_at"`
}

// Public returns the tagged public key of the identity.
func (i *Identity) Public() cryptoDomain.PublicKey {
	return cryptoDomain.PublicKey{Algorithm: i.Algorithm, Key: i.PublicKey}
}

// Marshal encodes the identity for storage.
func (i *Identity) Marshal() ([]byte, error) {
	b, err := json.Marshal(i)
	if err != nil {
		return nil, fmt.Errorf("failed to encode identity: %w", err)
	}
	return b, nil
}

// ParseIdentity decodes a stored identity record.
func ParseIdentity(b []byte) (*Identity, error) {
	var i Identity
	if err := json.Unmarshal(b, &i); err != nil {
		return nil, fmt.Errorf("%w: identity record: %v", ErrInvalidEnvelope, err)
	}
	if i.ID == uuid.Nil || i.Algorithm == "" || len(i.PublicKey) == 0 || len(i.SealedPrivateKey) == 0 {
		return nil, fmt.Errorf("%w: incomplete identity record", ErrInvalidEnvelope)
	}
	return &i, nil
}

// IdentityKeyName returns the keyring name of the identity of kind for algorithm,
// e.g. "_qrsecrets/identity/kem/hybrid(ECDH-P256+Kyber768)".
func IdentityKeyName(kind IdentityKind, algorithm string) string {
	return identityKeyPrefix + string(kind) + "/" + algorithm
}

// StageKeyName returns the keyring name holding the last recorded migration stage.
func StageKeyName() string {
	return stageKey
}

// ClassicalName returns the keyring name of the classical copy of name.
func ClassicalName(name string) string {
	return name + validation.ClassicalSuffix
}
