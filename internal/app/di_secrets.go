package app

import (
	"context"
	"fmt"

	"github.com/allisson/qrsecrets/internal/config"
	"github.com/allisson/qrsecrets/internal/keyring"
	keyringRepository "github.com/allisson/qrsecrets/internal/keyring/repository"
	secretsDomain "github.com/allisson/qrsecrets/internal/secrets/domain"
	secretsUsecase "github.com/allisson/qrsecrets/internal/secrets/usecase"
)

// Keyring returns the keyring selected by KEYRING_BACKEND.
func (c *Container) Keyring() (keyring.Keyring, error) {
	var err error
	c.keyringInit.Do(func() {
		c.keyring, err = c.initKeyring()
		if err != nil {
			c.initErrors["keyring"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyring"]; exists {
		return nil, storedErr
	}
	return c.keyring, nil
}

// SecretManager returns the secret manager. The migration stage is recorded on first
// access, so a forbidden rollback fails here.
func (c *Container) SecretManager() (secretsUsecase.SecretManager, error) {
	var err error
	c.secretManagerInit.Do(func() {
		c.secretManager, err = c.initSecretManager()
		if err != nil {
			c.initErrors["secretManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["secretManager"]; exists {
		return nil, storedErr
	}
	return c.secretManager, nil
}

// StageTransition returns the stage change recorded when the secret manager was built.
func (c *Container) StageTransition() (secretsDomain.StageTransition, error) {
	if _, err := c.SecretManager(); err != nil {
		return secretsDomain.StageTransition{}, err
	}
	return c.stageTransition, nil
}

// initKeyring creates the keyring for the configured backend.
func (c *Container) initKeyring() (keyring.Keyring, error) {
	switch c.config.KeyringBackend {
	case config.KeyringMemory:
		return keyring.NewMemoryKeyring(), nil
	case config.KeyringPostgres, config.KeyringMySQL:
	default:
		return nil, fmt.Errorf("unsupported keyring backend: %s", c.config.KeyringBackend)
	}

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for keyring: %w", err)
	}

	// Select the appropriate repository based on the database driver
	if c.config.KeyringBackend == config.KeyringMySQL {
		return keyringRepository.NewMySQLKeyring(db), nil
	}
	return keyringRepository.NewPostgreSQLKeyring(db), nil
}

// initSecretManager creates the secret manager with all its dependencies.
func (c *Container) initSecretManager() (secretsUsecase.SecretManager, error) {
	logger := c.Logger()

	cfg, err := c.CryptoConfig()
	if err != nil {
		return nil, err
	}

	provider, err := c.CryptoProvider()
	if err != nil {
		return nil, err
	}

	kr, err := c.Keyring()
	if err != nil {
		return nil, err
	}

	txManager, err := c.TxManager()
	if err != nil {
		return nil, err
	}

	keeper, err := c.KMSKeeper()
	if err != nil {
		return nil, err
	}

	bm, err := c.BusinessMetrics()
	if err != nil {
		return nil, err
	}

	manager, err := secretsUsecase.NewSecretManager(cfg, provider, kr, txManager, keeper, logger, bm)
	if err != nil {
		return nil, fmt.Errorf("failed to create secret manager: %w", err)
	}

	c.stageTransition, err = manager.RecordStage(context.Background())
	if err != nil {
		return nil, err
	}

	if cfg.EnableMetrics {
		manager = secretsUsecase.NewSecretManagerWithMetrics(manager, bm)
	}
	return manager, nil
}
