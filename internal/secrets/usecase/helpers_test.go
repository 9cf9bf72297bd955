package usecase

import (
	"bytes"
	"context"
	"encoding/binary"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/qrsecrets/internal/crypto/domain"
	cryptoService "github.com/allisson/qrsecrets/internal/crypto/service"
	"github.com/allisson/qrsecrets/internal/database"
	"github.com/allisson/qrsecrets/internal/keyring"
	secretsDomain "github.com/allisson/qrsecrets/internal/secrets/domain"
)

func classicalConfig() cryptoDomain.CryptoConfig {
	return cryptoDomain.CryptoConfig{
		Mode:         cryptoDomain.ModeClassical,
		KemAlgorithm: cryptoDomain.KemEcdhP256,
		SigAlgorithm: cryptoDomain.SigEcdsaP256,
	}
}

func dualStorageConfig(verifyClassical bool) cryptoDomain.CryptoConfig {
	cfg := cryptoDomain.DefaultCryptoConfig()
	cfg.VerifyClassical = verifyClassical
	return cfg
}

func pureQuantumConfig() cryptoDomain.CryptoConfig {
	return cryptoDomain.CryptoConfig{
		Mode:         cryptoDomain.ModeQuantumResistant,
		KemAlgorithm: cryptoDomain.KemKyber768,
		SigAlgorithm: cryptoDomain.SigDilithium3,
	}
}

// newTestKeeper opens an in-process base64key:// keeper closed at test cleanup.
func newTestKeeper(t *testing.T) cryptoService.KMSKeeper {
	t.Helper()
	uri, err := cryptoService.NewLocalKeyURI()
	require.NoError(t, err)

	keeper, err := cryptoService.NewKMSService().OpenKeeper(context.Background(), uri)
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, keeper.Close())
	})
	return keeper
}

func newTestManager(
	t *testing.T,
	cfg cryptoDomain.CryptoConfig,
	kr keyring.Keyring,
	keeper cryptoService.KMSKeeper,
) *secretManager {
	t.Helper()
	return newTestManagerWithLogger(t, cfg, kr, keeper, slog.New(slog.DiscardHandler))
}

func newTestManagerWithLogger(
	t *testing.T,
	cfg cryptoDomain.CryptoConfig,
	kr keyring.Keyring,
	keeper cryptoService.KMSKeeper,
	logger *slog.Logger,
) *secretManager {
	t.Helper()
	provider, err := cryptoService.NewProvider(cfg)
	require.NoError(t, err)

	manager, err := NewSecretManager(cfg, provider, kr, database.NewNoopTxManager(), keeper, logger, nil)
	require.NoError(t, err)
	return manager.(*secretManager)
}

// bufferLogger returns a JSON logger writing into the returned buffer.
func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}

func storedEnvelope(t *testing.T, kr keyring.Keyring, name string) *secretsDomain.Envelope {
	t.Helper()
	b, err := kr.Get(context.Background(), name)
	require.NoError(t, err)
	envelope, err := secretsDomain.ParseEnvelope(b)
	require.NoError(t, err)
	return envelope
}

func assertMissing(t *testing.T, kr keyring.Keyring, name string) {
	t.Helper()
	_, err := kr.Get(context.Background(), name)
	assert.ErrorIs(t, err, keyring.ErrNotFound)
}

// rewriteClassicalSignature replaces the classical half of the hybrid signature of
// the record stored under name with the result of edit.
func rewriteClassicalSignature(t *testing.T, kr keyring.Keyring, name string, edit func(half []byte) []byte) {
	t.Helper()
	envelope := storedEnvelope(t, kr, name)

	sig := envelope.Signature
	require.GreaterOrEqual(t, len(sig), 4)
	n := binary.BigEndian.Uint32(sig)
	require.LessOrEqual(t, int(n)+4, len(sig))
	classical := bytes.Clone(sig[4 : 4+n])
	quantum := sig[4+n:]

	classical = edit(classical)
	out := binary.BigEndian.AppendUint32(nil, uint32(len(classical)))
	out = append(out, classical...)
	envelope.Signature = append(out, quantum...)

	b, err := envelope.Marshal()
	require.NoError(t, err)
	require.NoError(t, kr.Put(context.Background(), name, b))
}
