package domain

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/qrsecrets/internal/crypto/domain"
)

// EnvelopeVersion is the only record layout currently written and read.
const EnvelopeVersion = 1

const envelopeSigningContext = "qrsecrets/secret-envelope/v1"

// Envelope is a secret encrypted with KEM-DEM and signed by the writer.
//
// The configuration identifiers name the provider that wrote the record, so any
// record can be read back regardless of the active configuration.
type Envelope struct {
	Version            int                             `json:"version"`
	Mode               cryptoDomain.CryptoMode         `json:"mode"`
	KemAlgorithm       cryptoDomain.KemAlgorithm       `json:"kem_algorithm"`
	SigAlgorithm       cryptoDomain.SigAlgorithm       `json:"sig_algorithm"`
	SymmetricAlgorithm cryptoDomain.SymmetricAlgorithm `json:"symmetric_algorithm"`
	IdentityID         uuid.UUID                       `json:"identity_id"`
	SignerID           uuid.UUID                       `json:"signer_id"`
	KemCiphertext      []byte                          `json:"kem_ciphertext"`
	Payload            []byte                          `json:"payload"`
	Signature          []byte                          `json:"signature,omitempty"`
}

// CryptoConfig returns the configuration of the provider that wrote the envelope.
func (e *Envelope) CryptoConfig() cryptoDomain.CryptoConfig {
	return cryptoDomain.CryptoConfig{
		Mode:               e.Mode,
		KemAlgorithm:       e.KemAlgorithm,
		SigAlgorithm:       e.SigAlgorithm,
		SymmetricAlgorithm: e.SymmetricAlgorithm,
	}
}

// SigningBytes returns the message signed for the envelope stored under name.
// Every field except the signature is covered.
func (e *Envelope) SigningBytes(name string) ([]byte, error) {
	unsigned := *e
	unsigned.Signature = nil

	body, err := json.Marshal(&unsigned)
	if err != nil {
		return nil, fmt.Errorf("failed to encode envelope: %w", err)
	}

	msg := make([]byte, 0, len(envelopeSigningContext)+len(name)+len(body)+2)
	msg = append(msg, envelopeSigningContext...)
	msg = append(msg, 0)
	msg = append(msg, name...)
	msg = append(msg, 0)
	msg = append(msg, body...)
	return msg, nil
}

// Marshal encodes the envelope for storage.
func (e *Envelope) Marshal() ([]byte, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to encode envelope: %w", err)
	}
	return b, nil
}

// ParseEnvelope decodes a stored record. Unknown versions, algorithm identifiers and
// unsigned records are rejected with ErrInvalidEnvelope.
func ParseEnvelope(b []byte) (*Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}
	if e.Version != EnvelopeVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidEnvelope, e.Version)
	}
	if err := e.CryptoConfig().Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}
	if e.IdentityID == uuid.Nil || e.SignerID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing identity reference", ErrInvalidEnvelope)
	}
	if len(e.KemCiphertext) == 0 || len(e.Payload) == 0 || len(e.Signature) == 0 {
		return nil, fmt.Errorf("%w: missing ciphertext or signature", ErrInvalidEnvelope)
	}
	return &e, nil
}
