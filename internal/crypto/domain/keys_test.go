package domain

import (
	"fmt"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

func TestPrivateKey_Destroy(t *testing.T) {
	key := NewPrivateKey("Kyber768", []byte{1, 2, 3, 4, 5, 6, 7, 8})
	backing := key.buf.b

	assert.Equal(t, "Kyber768", key.Algorithm())
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, key.Bytes())
	assert.False(t, key.Destroyed())

	key.Destroy()

	assert.True(t, allZero(backing), "backing buffer must be zeroed")
	assert.Nil(t, key.Bytes())
	assert.True(t, key.Destroyed())

	assert.NotPanics(t, func() { key.Destroy() })
}

func TestPrivateKey_DestroyOnDeferredScopeExit(t *testing.T) {
	var backing []byte

	func() {
		key := NewPrivateKey("ECDH-P256", []byte("0123456789abcdef0123456789abcdef"))
		defer key.Destroy()
		backing = key.buf.b
	}()

	assert.True(t, allZero(backing))
}

func TestPrivateKey_DestroyOnErrorPath(t *testing.T) {
	var backing []byte
	use := func() (err error) {
		key := NewPrivateKey("ECDSA-P256", []byte{9, 9, 9, 9})
		defer key.Destroy()
		backing = key.buf.b
		return fmt.Errorf("operation failed")
	}

	require.Error(t, use())
	assert.True(t, allZero(backing))
}

func TestPrivateKey_ZeroedWhenUnreachable(t *testing.T) {
	backing := func() []byte {
		key := NewPrivateKey("Dilithium3", []byte{5, 4, 3, 2, 1, 5, 4, 3, 2, 1, 5, 4, 3, 2, 1, 5})
		return key.buf.b
	}()

	assert.Eventually(t, func() bool {
		runtime.GC()
		return allZero(backing)
	}, 5*time.Second, 10*time.Millisecond)
}

func TestPrivateKey_Clone(t *testing.T) {
	key := NewPrivateKey("Kyber512", []byte{1, 2, 3})
	clone := key.Clone()

	assert.Equal(t, key.Bytes(), clone.Bytes())
	assert.Equal(t, key.Algorithm(), clone.Algorithm())

	key.Destroy()
	assert.Equal(t, []byte{1, 2, 3}, clone.Bytes(), "clone must be independent")
	clone.Destroy()
	assert.True(t, clone.Destroyed())
}

func TestPrivateKey_NeverFormatsKeyMaterial(t *testing.T) {
	key := NewPrivateKey("Kyber768", []byte("super-secret-key"))
	defer key.Destroy()

	assert.NotContains(t, fmt.Sprintf("%v", key), "super-secret-key")
	assert.NotContains(t, fmt.Sprintf("%#v", key), "super-secret-key")
	assert.NotContains(t, key.String(), "super-secret-key")
}

func TestPrivateKey_NilDestroy(t *testing.T) {
	var key *PrivateKey
	assert.NotPanics(t, func() { key.Destroy() })
}

func TestSharedSecret_Destroy(t *testing.T) {
	secret := NewSharedSecret([]byte{0xAA, 0xBB, 0xCC, 0xDD})
	backing := secret.buf.b

	assert.Equal(t, []byte{0xAA, 0xBB, 0xCC, 0xDD}, secret.Bytes())

	secret.Destroy()
	assert.True(t, allZero(backing))
	assert.True(t, secret.Destroyed())
	assert.Nil(t, secret.Bytes())
	assert.NotContains(t, secret.String(), "AA")

	var nilSecret *SharedSecret
	assert.NotPanics(t, func() { nilSecret.Destroy() })
}

func TestSharedSecret_ZeroedWhenUnreachable(t *testing.T) {
	backing := func() []byte {
		secret := NewSharedSecret([]byte{7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7})
		return secret.buf.b
	}()

	assert.Eventually(t, func() bool {
		runtime.GC()
		return allZero(backing)
	}, 5*time.Second, 10*time.Millisecond)
}
