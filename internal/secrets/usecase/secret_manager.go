package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	cryptoDomain "github.com/allisson/qrsecrets/internal/crypto/domain"
	cryptoService "github.com/allisson/qrsecrets/internal/crypto/service"
	"github.com/allisson/qrsecrets/internal/database"
	"github.com/allisson/qrsecrets/internal/keyring"
	"github.com/allisson/qrsecrets/internal/metrics"
	secretsDomain "github.com/allisson/qrsecrets/internal/secrets/domain"
	"github.com/allisson/qrsecrets/internal/validation"
)

// dekInfo prefixes the HKDF info of every data encryption key. The record name
// follows it, so a record moved to another name no longer decrypts.
const dekInfo = "qrsecrets/secret-dek/v1"

// secretManager implements SecretManager over a keyring.
type secretManager struct {
	cfg        cryptoDomain.CryptoConfig
	active     cryptoService.CryptoProvider
	classical  cryptoService.CryptoProvider
	keyring    keyring.Keyring
	txManager  database.TxManager
	identities *identityStore
	logger     *slog.Logger

	// readers caches providers rebuilt from record tags, keyed by providerKey.
	readers         sync.Map
	businessMetrics metrics.BusinessMetrics
}

// NewSecretManager creates a secret manager that writes with provider, which must
// have been built from cfg. Identity private keys are sealed with keeper. bm may be
// nil; it instruments the providers the manager builds for itself.
func NewSecretManager(
	cfg cryptoDomain.CryptoConfig,
	provider cryptoService.CryptoProvider,
	kr keyring.Keyring,
	txManager database.TxManager,
	keeper cryptoService.KMSKeeper,
	logger *slog.Logger,
	bm metrics.BusinessMetrics,
) (SecretManager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if provider.Mode() != cfg.Mode {
		return nil, fmt.Errorf("%w: provider mode %s does not match configured mode %s",
			cryptoDomain.ErrConfig, provider.Mode(), cfg.Mode)
	}

	classicalCfg := cfg.ClassicalCounterpart()
	classicalCfg.EnableMetrics = cfg.EnableMetrics
	classical, err := cryptoService.NewProviderWithOptions(classicalCfg, bm)
	if err != nil {
		return nil, err
	}

	return &secretManager{
		cfg:             cfg,
		active:          provider,
		classical:       classical,
		keyring:         kr,
		txManager:       txManager,
		identities:      newIdentityStore(kr, keeper),
		logger:          logger,
		businessMetrics: bm,
	}, nil
}

// StoreSecretQR encrypts value under the active provider and writes it.
func (m *secretManager) StoreSecretQR(ctx context.Context, name string, value []byte) error {
	if err := validation.ValidateSecretName(name); err != nil {
		return err
	}

	primary, err := m.seal(ctx, m.active, m.cfg, name, value)
	if err != nil {
		return err
	}

	var classicalCopy []byte
	if m.writesClassicalCopy() {
		classicalCopy, err = m.seal(
			ctx,
			m.classical,
			m.cfg.ClassicalCounterpart(),
			secretsDomain.ClassicalName(name),
			value,
		)
		if err != nil {
			return err
		}
	}

	return m.write(ctx, name, primary, classicalCopy)
}

// GetSecretQR decrypts name and cross-checks the classical copy when required.
func (m *secretManager) GetSecretQR(ctx context.Context, name string) ([]byte, error) {
	if err := validation.ValidateSecretName(name); err != nil {
		return nil, err
	}

	value, _, err := m.open(ctx, name)
	if err != nil {
		return nil, err
	}
	if !m.verifiesClassicalCopy() {
		return value, nil
	}

	classicalValue, _, err := m.open(ctx, secretsDomain.ClassicalName(name))
	defer cryptoDomain.Zero(classicalValue)

	if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		cryptoDomain.Zero(value)
		return nil, err
	}
	if err != nil || subtle.ConstantTimeCompare(value, classicalValue) != 1 {
		cryptoDomain.Zero(value)
		m.logger.Error("dual storage mismatch",
			slog.String("name", name),
			slog.String("algorithm", m.active.KeyExchange().Algorithm()),
			slog.String("classical_algorithm", m.classical.KeyExchange().Algorithm()),
			slog.Any("error", err),
		)
		if err != nil {
			return nil, fmt.Errorf("%w: classical copy of %q: %v", cryptoDomain.ErrDualStorageMismatch, name, err)
		}
		return nil, fmt.Errorf("%w: copies of %q differ", cryptoDomain.ErrDualStorageMismatch, name)
	}

	return value, nil
}

// MigrateSecret reads name (or its classical copy when name itself is missing),
// then stores it again under the active provider.
func (m *secretManager) MigrateSecret(ctx context.Context, name string) error {
	if err := validation.ValidateSecretName(name); err != nil {
		return err
	}

	value, from, err := m.open(ctx, name)
	if errors.Is(err, secretsDomain.ErrSecretNotFound) {
		value, from, err = m.open(ctx, secretsDomain.ClassicalName(name))
	}
	if err != nil {
		return err
	}
	defer cryptoDomain.Zero(value)

	if err := m.StoreSecretQR(ctx, name, value); err != nil {
		return err
	}

	m.logger.Info("secret migrated",
		slog.String("name", name),
		slog.String("from_mode", string(from.Mode)),
		slog.String("from_kem_algorithm", string(from.KemAlgorithm)),
		slog.String("to_mode", string(m.cfg.Mode)),
		slog.String("to_kem_algorithm", string(m.cfg.KemAlgorithm)),
		slog.Bool("dual_storage", m.writesClassicalCopy()),
	)
	return nil
}

// MigrateSecrets migrates names in order.
func (m *secretManager) MigrateSecrets(ctx context.Context, names []string) (int, error) {
	for i, name := range names {
		if err := m.MigrateSecret(ctx, name); err != nil {
			return i, fmt.Errorf("failed to migrate secret %q: %w", name, err)
		}
	}
	return len(names), nil
}

// DeleteSecret removes both copies of name.
func (m *secretManager) DeleteSecret(ctx context.Context, name string) error {
	if err := validation.ValidateSecretName(name); err != nil {
		return err
	}

	return m.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := m.keyring.Delete(ctx, name); err != nil {
			return err
		}
		return m.keyring.Delete(ctx, secretsDomain.ClassicalName(name))
	})
}

// Stage returns the stage implied by the active configuration.
func (m *secretManager) Stage() cryptoDomain.MigrationStage {
	return cryptoDomain.StageOf(m.cfg)
}

// RecordStage compares the active stage with the recorded one and persists it.
func (m *secretManager) RecordStage(ctx context.Context) (secretsDomain.StageTransition, error) {
	transition := secretsDomain.StageTransition{To: m.Stage()}

	b, err := m.keyring.Get(ctx, secretsDomain.StageKeyName())
	switch {
	case err == nil:
		transition.From = cryptoDomain.MigrationStage(strings.TrimSpace(string(b)))
		if !transition.From.IsValid() {
			return transition, fmt.Errorf("%w: recorded migration stage %q is unknown", cryptoDomain.ErrConfig, transition.From)
		}
	case errors.Is(err, keyring.ErrNotFound):
	default:
		return transition, err
	}

	if transition.From != "" {
		if transition.To.Before(transition.From) {
			if !m.cfg.AllowRollback {
				return transition, fmt.Errorf("%w: from %s to %s", secretsDomain.ErrStageRollback, transition.From, transition.To)
			}
			m.logger.Warn("migration stage rolled back",
				slog.String("from", string(transition.From)),
				slog.String("to", string(transition.To)),
			)
		}
		if transition.From.Skips(transition.To) {
			m.logger.Warn("migration stage skipped ahead",
				slog.String("from", string(transition.From)),
				slog.String("to", string(transition.To)),
			)
		}
	}

	if !transition.Changed() {
		return transition, nil
	}
	if err := m.keyring.Put(ctx, secretsDomain.StageKeyName(), []byte(transition.To)); err != nil {
		return transition, err
	}

	m.logger.Info("migration stage recorded",
		slog.String("from", string(transition.From)),
		slog.String("to", string(transition.To)),
	)
	return transition, nil
}

func (m *secretManager) writesClassicalCopy() bool {
	return m.cfg.EnableDualStorage && m.cfg.Mode != cryptoDomain.ModeClassical
}

// verifiesClassicalCopy reports whether reads cross-check the classical copy. Without
// dual storage the flag only governs the hybrid signature.
func (m *secretManager) verifiesClassicalCopy() bool {
	return m.cfg.VerifyClassical && m.cfg.EnableDualStorage && m.cfg.Mode != cryptoDomain.ModeClassical
}

// write stores the primary record and the classical copy in one transaction. A nil
// copy removes any stale classical copy.
func (m *secretManager) write(ctx context.Context, name string, primary, classicalCopy []byte) error {
	return m.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := m.keyring.Put(ctx, name, primary); err != nil {
			return err
		}
		if classicalCopy == nil {
			return m.keyring.Delete(ctx, secretsDomain.ClassicalName(name))
		}
		return m.keyring.Put(ctx, secretsDomain.ClassicalName(name), classicalCopy)
	})
}

// seal encrypts value for the record stored under name with provider, whose
// configuration identifiers are taken from cfg.
func (m *secretManager) seal(
	ctx context.Context,
	provider cryptoService.CryptoProvider,
	cfg cryptoDomain.CryptoConfig,
	name string,
	value []byte,
) ([]byte, error) {
	kex := provider.KeyExchange()
	sig := provider.Signature()

	recipient, err := m.identities.ensure(ctx, secretsDomain.IdentityKEM, kex.Algorithm(), kex.GenerateKeypair)
	if err != nil {
		return nil, err
	}
	signer, err := m.identities.ensure(ctx, secretsDomain.IdentitySigner, sig.Algorithm(), sig.GenerateKeypair)
	if err != nil {
		return nil, err
	}

	ct, ss, err := kex.Encapsulate(recipient.Public())
	if err != nil {
		return nil, err
	}
	defer ss.Destroy()

	payload, err := m.encrypt(provider, ss, name, value)
	if err != nil {
		return nil, err
	}

	envelope := &secretsDomain.Envelope{
		Version:            secretsDomain.EnvelopeVersion,
		Mode:               cfg.Mode,
		KemAlgorithm:       cfg.KemAlgorithm,
		SigAlgorithm:       cfg.SigAlgorithm,
		SymmetricAlgorithm: cfg.Symmetric(),
		IdentityID:         recipient.ID,
		SignerID:           signer.ID,
		KemCiphertext:      ct.Bytes,
		Payload:            payload,
	}

	msg, err := envelope.SigningBytes(name)
	if err != nil {
		return nil, err
	}

	sk, err := m.identities.privateKey(ctx, signer)
	if err != nil {
		return nil, err
	}
	defer sk.Destroy()

	signature, err := sig.Sign(sk, msg)
	if err != nil {
		return nil, err
	}
	envelope.Signature = signature.Bytes

	return envelope.Marshal()
}

// open reads, verifies and decrypts the record stored under name.
func (m *secretManager) open(ctx context.Context, name string) ([]byte, *secretsDomain.Envelope, error) {
	b, err := m.keyring.Get(ctx, name)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: %s", secretsDomain.ErrSecretNotFound, name)
		}
		return nil, nil, err
	}

	envelope, err := secretsDomain.ParseEnvelope(b)
	if err != nil {
		return nil, nil, err
	}

	provider, err := m.reader(envelope)
	if err != nil {
		return nil, nil, err
	}

	if err := m.verify(ctx, provider, envelope, name); err != nil {
		return nil, nil, err
	}

	kex := provider.KeyExchange()
	recipient, err := m.identities.load(ctx, secretsDomain.IdentityKEM, kex.Algorithm())
	if err != nil {
		return nil, nil, err
	}
	if recipient.ID != envelope.IdentityID {
		return nil, nil, fmt.Errorf("%w: record was encrypted to identity %s", cryptoDomain.ErrDecryptionFailed, envelope.IdentityID)
	}

	sk, err := m.identities.privateKey(ctx, recipient)
	if err != nil {
		return nil, nil, err
	}
	defer sk.Destroy()

	ss, err := kex.Decapsulate(sk, cryptoDomain.Ciphertext{Algorithm: kex.Algorithm(), Bytes: envelope.KemCiphertext})
	if err != nil {
		return nil, nil, err
	}
	defer ss.Destroy()

	value, err := m.decrypt(provider, ss, name, envelope.Payload)
	if err != nil {
		return nil, nil, err
	}
	return value, envelope, nil
}

func (m *secretManager) verify(
	ctx context.Context,
	provider cryptoService.CryptoProvider,
	envelope *secretsDomain.Envelope,
	name string,
) error {
	sig := provider.Signature()

	signer, err := m.identities.load(ctx, secretsDomain.IdentitySigner, sig.Algorithm())
	if err != nil {
		return err
	}
	if signer.ID != envelope.SignerID {
		return fmt.Errorf("%w: record was signed by identity %s", cryptoDomain.ErrVerificationFailed, envelope.SignerID)
	}

	msg, err := envelope.SigningBytes(name)
	if err != nil {
		return err
	}

	ok, err := sig.Verify(signer.Public(), msg, cryptoDomain.Signature{Algorithm: sig.Algorithm(), Bytes: envelope.Signature})
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: signature of %q", cryptoDomain.ErrVerificationFailed, name)
	}
	return nil
}

func (m *secretManager) encrypt(
	provider cryptoService.CryptoProvider,
	ss *cryptoDomain.SharedSecret,
	name string,
	value []byte,
) ([]byte, error) {
	dek, err := m.dek(provider, ss, name)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(dek)

	return provider.Encryption().Encrypt(dek, value)
}

func (m *secretManager) decrypt(
	provider cryptoService.CryptoProvider,
	ss *cryptoDomain.SharedSecret,
	name string,
	payload []byte,
) ([]byte, error) {
	dek, err := m.dek(provider, ss, name)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(dek)

	return provider.Encryption().Decrypt(dek, payload)
}

func (m *secretManager) dek(provider cryptoService.CryptoProvider, ss *cryptoDomain.SharedSecret, name string) ([]byte, error) {
	info := make([]byte, 0, len(dekInfo)+len(name))
	info = append(info, dekInfo...)
	info = append(info, name...)
	return cryptoService.DeriveKey(ss.Bytes(), nil, info, provider.Encryption().KeySize())
}

// reader returns the provider that reads records written under the envelope's
// configuration. Hybrid records also need their classical signature half whenever
// the active configuration verifies the classical path.
func (m *secretManager) reader(envelope *secretsDomain.Envelope) (cryptoService.CryptoProvider, error) {
	cfg := envelope.CryptoConfig()
	cfg.EnableMetrics = m.cfg.EnableMetrics
	if cfg.Mode == cryptoDomain.ModeHybrid {
		cfg.EnableDualStorage = m.cfg.EnableDualStorage
		cfg.VerifyClassical = m.cfg.VerifyClassical
	}

	key := providerKey(cfg)
	if p, ok := m.readers.Load(key); ok {
		return p.(cryptoService.CryptoProvider), nil
	}

	p, err := cryptoService.NewProviderWithOptions(cfg, m.businessMetrics)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", secretsDomain.ErrInvalidEnvelope, err)
	}
	actual, _ := m.readers.LoadOrStore(key, p)
	return actual.(cryptoService.CryptoProvider), nil
}

func providerKey(cfg cryptoDomain.CryptoConfig) string {
	return strings.Join([]string{
		string(cfg.Mode),
		string(cfg.KemAlgorithm),
		string(cfg.SigAlgorithm),
		string(cfg.Symmetric()),
		strconv.FormatBool(cfg.EnableDualStorage),
		strconv.FormatBool(cfg.VerifyClassical),
	}, "/")
}
