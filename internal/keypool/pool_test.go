package keypool

import (
	"crypto/ed25519"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSigningKey_PublicKeyString(t *testing.T) {
	key, err := GenerateSigningKey()
	require.NoError(t, err)

	s := key.PublicKeyString()
	assert.True(t, strings.HasPrefix(s, "ed25519:"))
}

func TestSigningKey_NextNonce_Monotonic(t *testing.T) {
	key, err := GenerateSigningKey()
	require.NoError(t, err)

	n1 := key.NextNonce()
	n2 := key.NextNonce()
	n3 := key.NextNonce()

	assert.Equal(t, n1+1, n2)
	assert.Equal(t, n2+1, n3)
}

func TestSigningKey_ResyncNonce_OnlyAdvances(t *testing.T) {
	key := NewSigningKey(nil, nil, 5)

	key.ResyncNonce(2)
	assert.Equal(t, uint64(5), key.nonce)

	key.ResyncNonce(10)
	assert.Equal(t, uint64(10), key.nonce)
}

func TestPool_RoundRobin(t *testing.T) {
	k1, _ := GenerateSigningKey()
	k2, _ := GenerateSigningKey()
	k3, _ := GenerateSigningKey()

	pool, err := NewPool([]*SigningKey{k1, k2, k3})
	require.NoError(t, err)

	got := []*SigningKey{pool.Next(), pool.Next(), pool.Next(), pool.Next()}
	assert.Same(t, k1, got[0])
	assert.Same(t, k2, got[1])
	assert.Same(t, k3, got[2])
	assert.Same(t, k1, got[3])
}

func TestNewPool_EmptyRejected(t *testing.T) {
	_, err := NewPool(nil)
	require.Error(t, err)
}

func TestSigningKey_Sign(t *testing.T) {
	key, err := GenerateSigningKey()
	require.NoError(t, err)

	payload := []byte("batch-payload")
	sig := key.Sign(payload)

	assert.True(t, ed25519.Verify(key.publicKey, payload, sig))
}
