package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/qrsecrets/internal/crypto/domain"
	"github.com/allisson/qrsecrets/internal/metrics"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name             string
		cfg              cryptoDomain.CryptoConfig
		expectedMode     cryptoDomain.CryptoMode
		expectedName     string
		quantumResistant bool
	}{
		{
			name: "classical",
			cfg: cryptoDomain.CryptoConfig{
				Mode:         cryptoDomain.ModeClassical,
				KemAlgorithm: cryptoDomain.KemEcdhP256,
				SigAlgorithm: cryptoDomain.SigEcdsaP256,
			},
			expectedMode: cryptoDomain.ModeClassical,
			expectedName: "classical(ECDH-P256,ECDSA-P256)",
		},
		{
			name: "quantum resistant",
			cfg: cryptoDomain.CryptoConfig{
				Mode:               cryptoDomain.ModeQuantumResistant,
				KemAlgorithm:       cryptoDomain.KemKyber1024,
				SigAlgorithm:       cryptoDomain.SigDilithium5,
				SymmetricAlgorithm: cryptoDomain.ChaCha20,
			},
			expectedMode:     cryptoDomain.ModeQuantumResistant,
			expectedName:     "quantum_resistant(Kyber1024,Dilithium5)",
			quantumResistant: true,
		},
		{
			name:             "hybrid default",
			cfg:              cryptoDomain.DefaultCryptoConfig(),
			expectedMode:     cryptoDomain.ModeHybrid,
			expectedName:     "hybrid(ECDH-P256+Kyber768,ECDSA-P256+Dilithium3)",
			quantumResistant: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(tt.cfg)
			require.NoError(t, err)

			assert.Equal(t, tt.expectedMode, provider.Mode())
			assert.Equal(t, tt.expectedName, provider.Name())
			assert.Equal(t, tt.quantumResistant, provider.IsQuantumResistant())
			assert.Equal(t, tt.cfg.Symmetric(), provider.Encryption().Algorithm())
		})
	}
}

func TestNewProvider_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  cryptoDomain.CryptoConfig
	}{
		{
			name: "classical with kyber",
			cfg: cryptoDomain.CryptoConfig{
				Mode:         cryptoDomain.ModeClassical,
				KemAlgorithm: cryptoDomain.KemKyber768,
				SigAlgorithm: cryptoDomain.SigEcdsaP256,
			},
		},
		{
			name: "quantum resistant with ecdsa",
			cfg: cryptoDomain.CryptoConfig{
				Mode:         cryptoDomain.ModeQuantumResistant,
				KemAlgorithm: cryptoDomain.KemKyber768,
				SigAlgorithm: cryptoDomain.SigEcdsaP256,
			},
		},
		{
			name: "unknown mode",
			cfg: cryptoDomain.CryptoConfig{
				Mode:         "quantum",
				KemAlgorithm: cryptoDomain.KemKyber768,
				SigAlgorithm: cryptoDomain.SigDilithium3,
			},
		},
		{
			name: "unknown symmetric algorithm",
			cfg: cryptoDomain.CryptoConfig{
				Mode:               cryptoDomain.ModeHybrid,
				KemAlgorithm:       cryptoDomain.KemKyber768,
				SigAlgorithm:       cryptoDomain.SigDilithium3,
				SymmetricAlgorithm: "des",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(tt.cfg)
			assert.ErrorIs(t, err, cryptoDomain.ErrConfig)
			assert.Nil(t, provider)
		})
	}
}

func TestNewProviderWithOptions_Metrics(t *testing.T) {
	cfg := cryptoDomain.DefaultCryptoConfig()

	t.Run("metrics disabled", func(t *testing.T) {
		provider, err := NewProviderWithOptions(cfg, metrics.NewNoOpBusinessMetrics())
		require.NoError(t, err)
		assert.IsType(t, &hybridProvider{}, provider)
	})

	t.Run("metrics enabled", func(t *testing.T) {
		cfg.EnableMetrics = true
		provider, err := NewProviderWithOptions(cfg, metrics.NewNoOpBusinessMetrics())
		require.NoError(t, err)
		assert.IsType(t, &providerWithMetrics{}, provider)
		assert.Equal(t, "hybrid(ECDH-P256+Kyber768,ECDSA-P256+Dilithium3)", provider.Name())
	})

	t.Run("metrics enabled without recorder", func(t *testing.T) {
		cfg.EnableMetrics = true
		provider, err := NewProviderWithOptions(cfg, nil)
		require.NoError(t, err)
		assert.IsType(t, &hybridProvider{}, provider)
	})
}

func TestProviders_EndToEnd(t *testing.T) {
	configs := map[string]cryptoDomain.CryptoConfig{
		"classical": {
			Mode:         cryptoDomain.ModeClassical,
			KemAlgorithm: cryptoDomain.KemEcdhP256,
			SigAlgorithm: cryptoDomain.SigEcdsaP256,
		},
		"quantum_resistant": {
			Mode:         cryptoDomain.ModeQuantumResistant,
			KemAlgorithm: cryptoDomain.KemKyber512,
			SigAlgorithm: cryptoDomain.SigDilithium2,
		},
		"hybrid": cryptoDomain.DefaultCryptoConfig(),
	}

	for name, cfg := range configs {
		t.Run(name, func(t *testing.T) {
			provider, err := NewProvider(cfg)
			require.NoError(t, err)

			pk, sk, err := provider.KeyExchange().GenerateKeypair()
			require.NoError(t, err)
			defer sk.Destroy()

			ct, ss, err := provider.KeyExchange().Encapsulate(pk)
			require.NoError(t, err)
			defer ss.Destroy()

			ciphertext, err := provider.Encryption().Encrypt(ss.Bytes(), []byte("payload"))
			require.NoError(t, err)

			recovered, err := provider.KeyExchange().Decapsulate(sk, ct)
			require.NoError(t, err)
			defer recovered.Destroy()

			plaintext, err := provider.Encryption().Decrypt(recovered.Bytes(), ciphertext)
			require.NoError(t, err)
			assert.Equal(t, []byte("payload"), plaintext)
		})
	}
}

func TestProviders_ConcurrentUse(t *testing.T) {
	provider, err := NewProvider(cryptoDomain.DefaultCryptoConfig())
	require.NoError(t, err)

	pk, sk, err := provider.Signature().GenerateKeypair()
	require.NoError(t, err)
	defer sk.Destroy()

	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			sig, err := provider.Signature().Sign(sk, []byte("concurrent"))
			if err != nil {
				errs <- err
				return
			}
			ok, err := provider.Signature().Verify(pk, []byte("concurrent"), sig)
			if err == nil && !ok {
				err = cryptoDomain.ErrVerificationFailed
			}
			errs <- err
		}()
	}
	for i := 0; i < 8; i++ {
		assert.NoError(t, <-errs)
	}
}
