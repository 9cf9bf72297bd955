package app

import (
	"context"
	"errors"
	"fmt"

	cryptoDomain "github.com/allisson/qrsecrets/internal/crypto/domain"
	cryptoService "github.com/allisson/qrsecrets/internal/crypto/service"
)

// CryptoConfig returns the validated crypto configuration.
func (c *Container) CryptoConfig() (cryptoDomain.CryptoConfig, error) {
	var err error
	c.cryptoConfigInit.Do(func() {
		c.cryptoConfig, err = c.config.CryptoConfig()
		if err != nil {
			c.initErrors["cryptoConfig"] = err
		}
	})
	if err != nil {
		return cryptoDomain.CryptoConfig{}, err
	}
	if storedErr, exists := c.initErrors["cryptoConfig"]; exists {
		return cryptoDomain.CryptoConfig{}, storedErr
	}
	return c.cryptoConfig, nil
}

// CryptoProvider returns the process-wide provider built from the crypto configuration.
func (c *Container) CryptoProvider() (cryptoService.CryptoProvider, error) {
	var err error
	c.cryptoProviderInit.Do(func() {
		c.cryptoProvider, err = c.initCryptoProvider()
		if err != nil {
			c.initErrors["cryptoProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["cryptoProvider"]; exists {
		return nil, storedErr
	}
	return c.cryptoProvider, nil
}

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// KMSKeeper returns the keeper for KMS_KEY_URI. It is closed by Shutdown.
func (c *Container) KMSKeeper() (cryptoService.KMSKeeper, error) {
	var err error
	c.kmsKeeperInit.Do(func() {
		c.kmsKeeper, err = c.initKMSKeeper()
		if err != nil {
			c.initErrors["kmsKeeper"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["kmsKeeper"]; exists {
		return nil, storedErr
	}
	return c.kmsKeeper, nil
}

// initCryptoProvider builds the provider through the factory, instrumented when enabled.
func (c *Container) initCryptoProvider() (cryptoService.CryptoProvider, error) {
	cfg, err := c.CryptoConfig()
	if err != nil {
		return nil, err
	}

	bm, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for crypto provider: %w", err)
	}

	provider, err := cryptoService.NewProviderWithOptions(cfg, bm)
	if err != nil {
		return nil, fmt.Errorf("failed to create crypto provider: %w", err)
	}
	return provider, nil
}

// initKMSKeeper opens the keeper sealing identity private keys.
func (c *Container) initKMSKeeper() (cryptoService.KMSKeeper, error) {
	if c.config.KMSKeyURI == "" {
		return nil, errors.New("KMS_KEY_URI is required (use create-kms-key for a local key)")
	}
	return c.KMSService().OpenKeeper(context.Background(), c.config.KMSKeyURI)
}
