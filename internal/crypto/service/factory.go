package service

import (
	"fmt"

	cryptoDomain "github.com/allisson/qrsecrets/internal/crypto/domain"
	"github.com/allisson/qrsecrets/internal/metrics"
)

// NewProvider validates cfg and builds the provider family it names. It is the only
// way to obtain a CryptoProvider.
func NewProvider(cfg cryptoDomain.CryptoConfig) (CryptoProvider, error) {
	return NewProviderWithOptions(cfg, nil)
}

// NewProviderWithOptions is NewProvider with metrics instrumentation. The provider is
// wrapped when cfg.EnableMetrics is set and bm is not nil.
func NewProviderWithOptions(cfg cryptoDomain.CryptoConfig, bm metrics.BusinessMetrics) (CryptoProvider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		provider CryptoProvider
		err      error
	)
	switch cfg.Mode {
	case cryptoDomain.ModeClassical:
		provider, err = newClassicalProvider(cfg)
	case cryptoDomain.ModeQuantumResistant:
		provider, err = newQuantumProvider(cfg)
	case cryptoDomain.ModeHybrid:
		provider, err = newHybridProvider(cfg)
	default:
		return nil, fmt.Errorf("%w: unknown crypto mode %q", cryptoDomain.ErrConfig, cfg.Mode)
	}
	if err != nil {
		return nil, err
	}

	if cfg.EnableMetrics && bm != nil {
		provider = NewProviderWithMetrics(provider, bm)
	}
	return provider, nil
}
