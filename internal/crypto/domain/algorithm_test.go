package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCryptoMode(t *testing.T) {
	tests := []struct {
		input   string
		want    CryptoMode
		wantErr bool
	}{
		{input: "classical", want: ModeClassical},
		{input: "quantum_resistant", want: ModeQuantumResistant},
		{input: "hybrid", want: ModeHybrid},
		{input: "Hybrid", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			mode, err := ParseCryptoMode(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, mode)
		})
	}
}

func TestParseKemAlgorithm(t *testing.T) {
	for _, s := range []string{"ecdh", "kyber512", "kyber768", "kyber1024"} {
		alg, err := ParseKemAlgorithm(s)
		require.NoError(t, err)
		assert.Equal(t, KemAlgorithm(s), alg)
	}

	_, err := ParseKemAlgorithm("kyber2048")
	assert.ErrorIs(t, err, ErrConfig)
}

func TestParseSigAlgorithm(t *testing.T) {
	for _, s := range []string{"ecdsa", "dilithium2", "dilithium3", "dilithium5"} {
		alg, err := ParseSigAlgorithm(s)
		require.NoError(t, err)
		assert.Equal(t, SigAlgorithm(s), alg)
	}

	_, err := ParseSigAlgorithm("rsa")
	assert.ErrorIs(t, err, ErrConfig)
}

func TestParseSymmetricAlgorithm(t *testing.T) {
	alg, err := ParseSymmetricAlgorithm("aes-gcm")
	require.NoError(t, err)
	assert.Equal(t, AESGCM, alg)

	alg, err = ParseSymmetricAlgorithm("chacha20-poly1305")
	require.NoError(t, err)
	assert.Equal(t, ChaCha20, alg)

	_, err = ParseSymmetricAlgorithm("des")
	assert.ErrorIs(t, err, ErrConfig)
}

func TestKemAlgorithm_Properties(t *testing.T) {
	tests := []struct {
		alg            KemAlgorithm
		postQuantum    bool
		securityLevel  int
		publicKeySize  int
		ciphertextSize int
	}{
		{KemEcdhP256, false, 128, 65, 65},
		{KemKyber512, true, 128, 800, 768},
		{KemKyber768, true, 192, 1184, 1088},
		{KemKyber1024, true, 256, 1568, 1568},
	}

	for _, tt := range tests {
		t.Run(string(tt.alg), func(t *testing.T) {
			assert.True(t, tt.alg.IsValid())
			assert.Equal(t, tt.postQuantum, tt.alg.IsPostQuantum())
			assert.Equal(t, tt.securityLevel, tt.alg.SecurityLevel())
			assert.Equal(t, tt.publicKeySize, tt.alg.PublicKeySize())
			assert.Equal(t, tt.ciphertextSize, tt.alg.CiphertextSize())
			assert.Equal(t, 32, tt.alg.SharedSecretSize())
			assert.NotEmpty(t, tt.alg.Name())
		})
	}

	assert.False(t, KemAlgorithm("unknown").IsValid())
	assert.False(t, KemAlgorithm("unknown").IsPostQuantum())
}

func TestSigAlgorithm_Properties(t *testing.T) {
	tests := []struct {
		alg           SigAlgorithm
		postQuantum   bool
		securityLevel int
		signatureSize int
	}{
		{SigEcdsaP256, false, 128, 72},
		{SigDilithium2, true, 128, 2420},
		{SigDilithium3, true, 192, 3309},
		{SigDilithium5, true, 256, 4627},
	}

	for _, tt := range tests {
		t.Run(string(tt.alg), func(t *testing.T) {
			assert.True(t, tt.alg.IsValid())
			assert.Equal(t, tt.postQuantum, tt.alg.IsPostQuantum())
			assert.Equal(t, tt.securityLevel, tt.alg.SecurityLevel())
			assert.Equal(t, tt.signatureSize, tt.alg.SignatureSize())
			assert.Positive(t, tt.alg.PublicKeySize())
			assert.Positive(t, tt.alg.PrivateKeySize())
		})
	}
}
