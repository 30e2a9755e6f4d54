package near

import (
	"crypto/ed25519"
	"encoding/binary"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransaction_Serialize_SignerIDPrefix(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	action, err := BuildFtTransferAction("bob.near", "10", "")
	require.NoError(t, err)

	tx := Transaction{
		SignerID:   "relay.near",
		PublicKey:  pub,
		Nonce:      42,
		ReceiverID: "ft.near",
		Actions:    []Action{action},
	}

	raw, err := tx.Serialize()
	require.NoError(t, err)

	// signer_id is Borsh-encoded as a u32 length prefix followed by the
	// raw bytes, so the first 4 bytes must equal len("relay.near").
	gotLen := binary.LittleEndian.Uint32(raw[:4])
	assert.Equal(t, uint32(len("relay.near")), gotLen)
	assert.Equal(t, "relay.near", string(raw[4:4+gotLen]))
}

func TestTransaction_Hash_Deterministic(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	action, err := BuildFtTransferAction("bob.near", "10", "")
	require.NoError(t, err)

	tx := Transaction{SignerID: "relay.near", PublicKey: pub, Nonce: 1, ReceiverID: "ft.near", Actions: []Action{action}}

	h1, err := tx.Hash()
	require.NoError(t, err)
	h2, err := tx.Hash()
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
}

func TestSignedTransaction_Serialize_RejectsBadSignatureLength(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	tx := Transaction{SignerID: "relay.near", PublicKey: pub, Nonce: 1, ReceiverID: "ft.near"}
	signed := SignedTransaction{Transaction: tx, Signature: []byte("too-short")}

	_, err = signed.Serialize()
	require.Error(t, err)
}

func TestBorshWriter_WriteU128_RejectsOverflow(t *testing.T) {
	w := newBorshWriter()
	tooBig := new(big.Int).Lsh(big.NewInt(1), 129)

	err := w.writeU128(tooBig)
	require.Error(t, err)
}
