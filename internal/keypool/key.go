// Package keypool manages the pool of NEAR access keys the worker signs
// transactions with: key selection, per-key nonce sequencing, and secret
// key zeroization on eviction.
package keypool

import (
	"crypto/ed25519"
	"sync"

	"github.com/mr-tron/base58"
)

// SigningKey is one NEAR access key: an Ed25519 keypair plus the nonce the
// key is currently at. Nonce access is serialized per key so two goroutines
// signing with the same key can never reuse a nonce; key selection (which
// key to use) is a separate lock owned by Pool.
type SigningKey struct {
	mu         sync.Mutex
	publicKey  ed25519.PublicKey
	privateKey ed25519.PrivateKey
	nonce      uint64
	evicted    bool
}

// NewSigningKey wraps an already-generated Ed25519 keypair.
func NewSigningKey(pub ed25519.PublicKey, priv ed25519.PrivateKey, startNonce uint64) *SigningKey {
	return &SigningKey{publicKey: pub, privateKey: priv, nonce: startNonce}
}

// GenerateSigningKey creates a fresh random Ed25519 keypair, matching the
// prototype's pool-key provisioning: pool keys are not derived from the
// master seed, only generated.
func GenerateSigningKey() (*SigningKey, error) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, err
	}
	return NewSigningKey(pub, priv, 0), nil
}

// PublicKeyString returns the key in NEAR's "ed25519:<base58>" wire
// encoding, used both in AddKey actions and as the access key identifier.
func (k *SigningKey) PublicKeyString() string {
	return "ed25519:" + base58.Encode(k.publicKey)
}

// PublicKeyBytes returns the key's raw Ed25519 public key.
func (k *SigningKey) PublicKeyBytes() ed25519.PublicKey {
	return k.publicKey
}

// NextNonce increments and returns the key's nonce. NEAR requires nonces
// to increase monotonically per (account, access key) pair; this is the
// only place that counter is incremented, and ResyncNonce only ever moves
// it forward.
func (k *SigningKey) NextNonce() uint64 {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.nonce++
	return k.nonce
}

// ResyncNonce overwrites the key's nonce, used after a chain query reveals
// the key is further ahead than the in-memory counter (e.g. after a
// restart).
func (k *SigningKey) ResyncNonce(chainNonce uint64) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if chainNonce > k.nonce {
		k.nonce = chainNonce
	}
}

// Sign produces a raw Ed25519 signature over payload.
func (k *SigningKey) Sign(payload []byte) []byte {
	return ed25519.Sign(k.privateKey, payload)
}

// Evict zeroes the key's private key material. The key must not be used
// for signing after this call.
func (k *SigningKey) Evict() {
	k.mu.Lock()
	defer k.mu.Unlock()
	clearBytes(k.privateKey)
	k.evicted = true
}
