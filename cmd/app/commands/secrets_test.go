package commands

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/qrsecrets/internal/crypto/domain"
	secretsDomain "github.com/allisson/qrsecrets/internal/secrets/domain"
)

type MockSecretManager struct {
	mock.Mock
}

func (m *MockSecretManager) StoreSecretQR(ctx context.Context, name string, value []byte) error {
	return m.Called(ctx, name, value).Error(0)
}

func (m *MockSecretManager) GetSecretQR(ctx context.Context, name string) ([]byte, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockSecretManager) MigrateSecret(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func (m *MockSecretManager) MigrateSecrets(ctx context.Context, names []string) (int, error) {
	args := m.Called(ctx, names)
	return args.Int(0), args.Error(1)
}

func (m *MockSecretManager) DeleteSecret(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func (m *MockSecretManager) Stage() cryptoDomain.MigrationStage {
	return m.Called().Get(0).(cryptoDomain.MigrationStage)
}

func (m *MockSecretManager) RecordStage(ctx context.Context) (secretsDomain.StageTransition, error) {
	args := m.Called(ctx)
	return args.Get(0).(secretsDomain.StageTransition), args.Error(1)
}

func TestRunStoreSecret(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("plain-value", func(t *testing.T) {
		manager := &MockSecretManager{}
		manager.On("StoreSecretQR", ctx, "api_key", []byte("sk_live_abc123")).Return(nil)
		manager.On("Stage").Return(cryptoDomain.StageDualStorage)

		err := RunStoreSecret(ctx, manager, logger, "api_key", "sk_live_abc123", false)
		require.NoError(t, err)
		manager.AssertExpectations(t)
	})

	t.Run("base64-value", func(t *testing.T) {
		manager := &MockSecretManager{}
		manager.On("StoreSecretQR", ctx, "blob", []byte{0x00, 0xff, 0x10}).Return(nil)
		manager.On("Stage").Return(cryptoDomain.StageHybridVerified)

		err := RunStoreSecret(ctx, manager, logger, "blob", "AP8Q", true)
		require.NoError(t, err)
		manager.AssertExpectations(t)
	})

	t.Run("invalid-base64", func(t *testing.T) {
		manager := &MockSecretManager{}

		err := RunStoreSecret(ctx, manager, logger, "blob", "not base64!", true)
		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid --value")
		manager.AssertNotCalled(t, "StoreSecretQR", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("store-error", func(t *testing.T) {
		manager := &MockSecretManager{}
		manager.On("StoreSecretQR", ctx, "api_key", mock.Anything).Return(errors.New("boom"))

		err := RunStoreSecret(ctx, manager, logger, "api_key", "value", false)
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to store secret")
	})
}

func TestRunGetSecret(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("plain-output", func(t *testing.T) {
		manager := &MockSecretManager{}
		manager.On("GetSecretQR", ctx, "api_key").Return([]byte("sk_live_abc123"), nil)

		var out bytes.Buffer
		err := RunGetSecret(ctx, manager, logger, &out, "api_key", false)
		require.NoError(t, err)
		require.Equal(t, "sk_live_abc123\n", out.String())
	})

	t.Run("base64-output", func(t *testing.T) {
		manager := &MockSecretManager{}
		manager.On("GetSecretQR", ctx, "blob").Return([]byte{0x00, 0xff, 0x10}, nil)

		var out bytes.Buffer
		err := RunGetSecret(ctx, manager, logger, &out, "blob", true)
		require.NoError(t, err)
		require.Equal(t, "AP8Q\n", out.String())
	})

	t.Run("zeroes-plaintext", func(t *testing.T) {
		plaintext := []byte("secret")
		manager := &MockSecretManager{}
		manager.On("GetSecretQR", ctx, "api_key").Return(plaintext, nil)

		err := RunGetSecret(ctx, manager, logger, io.Discard, "api_key", false)
		require.NoError(t, err)
		require.Equal(t, make([]byte, len("secret")), plaintext)
	})

	t.Run("not-found", func(t *testing.T) {
		manager := &MockSecretManager{}
		manager.On("GetSecretQR", ctx, "missing").Return(nil, secretsDomain.ErrSecretNotFound)

		var out bytes.Buffer
		err := RunGetSecret(ctx, manager, logger, &out, "missing", false)
		require.ErrorIs(t, err, secretsDomain.ErrSecretNotFound)
		require.Empty(t, out.String())
	})
}

func TestRunMigrateSecrets(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("success", func(t *testing.T) {
		names := []string{"a", "b"}
		manager := &MockSecretManager{}
		manager.On("MigrateSecrets", ctx, names).Return(2, nil)
		manager.On("Stage").Return(cryptoDomain.StagePureQuantumResistant)

		var out bytes.Buffer
		err := RunMigrateSecrets(ctx, manager, logger, &out, names)
		require.NoError(t, err)
		require.Equal(t, "migrated 2 of 2 secrets\n", out.String())
	})

	t.Run("partial-failure", func(t *testing.T) {
		names := []string{"a", "b", "c"}
		manager := &MockSecretManager{}
		manager.On("MigrateSecrets", ctx, names).Return(1, secretsDomain.ErrSecretNotFound)

		var out bytes.Buffer
		err := RunMigrateSecrets(ctx, manager, logger, &out, names)
		require.ErrorIs(t, err, secretsDomain.ErrSecretNotFound)
		require.Equal(t, "migrated 1 of 3 secrets\n", out.String())
	})

	t.Run("no-names", func(t *testing.T) {
		err := RunMigrateSecrets(ctx, &MockSecretManager{}, logger, io.Discard, nil)
		require.Error(t, err)
		require.Contains(t, err.Error(), "--name")
	})
}

func TestRunDeleteSecret(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	manager := &MockSecretManager{}
	manager.On("DeleteSecret", ctx, "api_key").Return(nil).Once()
	manager.On("DeleteSecret", ctx, "locked").Return(errors.New("boom")).Once()

	require.NoError(t, RunDeleteSecret(ctx, manager, logger, "api_key"))

	err := RunDeleteSecret(ctx, manager, logger, "locked")
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to delete secret")
	manager.AssertExpectations(t)
}
