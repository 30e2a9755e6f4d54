package near

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"

	"github.com/mr-tron/base58"

	"github.com/nearft/relay/internal/apperr"
	"github.com/nearft/relay/internal/near/rpc"
)

// Signer is the subset of keypool.SigningKey the submitter depends on, so
// this package does not need to import keypool.
type Signer interface {
	PublicKeyString() string
	NextNonce() uint64
	Sign(payload []byte) []byte
}

// accessKeyView is the relevant subset of NEAR's view_access_key RPC
// response.
type accessKeyView struct {
	Nonce uint64 `json:"nonce"`
}

type blockView struct {
	Header struct {
		Hash string `json:"hash"`
	} `json:"header"`
}

// executionOutcome is the relevant subset of a broadcast_tx_commit
// response.
type executionOutcome struct {
	Status struct {
		SuccessValue *string `json:"SuccessValue"`
		Failure      json.RawMessage `json:"Failure"`
	} `json:"status"`
	Transaction struct {
		Hash string `json:"hash"`
	} `json:"transaction"`
}

// Submitter builds, signs and submits one transaction carrying the
// caller's actions, always with the configured FT contract as the
// transaction's receiver, using the latest block hash and the signer's
// locally tracked nonce as a starting point (resynced from chain if it
// has fallen behind).
type Submitter struct {
	rpc         rpc.Client
	masterID    string
	contractID  string
}

// NewSubmitter constructs a Submitter. masterID is the relay's NEAR
// account; contractID is the FT contract every action targets.
func NewSubmitter(client rpc.Client, masterID, contractID string) *Submitter {
	return &Submitter{rpc: client, masterID: masterID, contractID: contractID}
}

// SubmitActions signs and submits one transaction carrying all of
// actions, signed by signer, and returns the execution outcome's
// transaction hash on success.
func (s *Submitter) SubmitActions(ctx context.Context, signer Signer, actions []Action) (txHash string, err error) {
	blockHash, err := s.latestBlockHash(ctx)
	if err != nil {
		return "", err
	}

	if err := s.resyncNonce(ctx, signer); err != nil {
		return "", err
	}

	pubBytes, err := decodeNearPublicKey(signer.PublicKeyString())
	if err != nil {
		return "", err
	}

	tx := Transaction{
		SignerID:   s.masterID,
		PublicKey:  pubBytes,
		Nonce:      signer.NextNonce(),
		ReceiverID: s.contractID,
		BlockHash:  blockHash,
		Actions:    actions,
	}

	hash, err := tx.Hash()
	if err != nil {
		return "", err
	}

	signed := SignedTransaction{Transaction: tx, Signature: signer.Sign(hash[:])}
	raw, err := signed.Serialize()
	if err != nil {
		return "", err
	}

	result, err := s.rpc.Call(ctx, "broadcast_tx_commit", map[string]any{
		"signed_tx_base64": base64.StdEncoding.EncodeToString(raw),
	})
	if err != nil {
		return "", apperr.Wrap(apperr.RpcError, "broadcast_tx_commit failed", err)
	}

	var outcome executionOutcome
	if err := json.Unmarshal(result, &outcome); err != nil {
		return "", apperr.Wrap(apperr.RpcError, "failed to parse execution outcome", err)
	}
	if outcome.Status.Failure != nil {
		return outcome.Transaction.Hash, apperr.New(apperr.ChainFailure, string(outcome.Status.Failure))
	}

	return outcome.Transaction.Hash, nil
}

func (s *Submitter) latestBlockHash(ctx context.Context) ([32]byte, error) {
	result, err := s.rpc.Call(ctx, "block", map[string]any{"finality": "final"})
	if err != nil {
		return [32]byte{}, apperr.Wrap(apperr.RpcError, "failed to query latest block", err)
	}

	var block blockView
	if err := json.Unmarshal(result, &block); err != nil {
		return [32]byte{}, apperr.Wrap(apperr.RpcError, "failed to parse block response", err)
	}

	decoded, err := base58.Decode(block.Header.Hash)
	if err != nil || len(decoded) != 32 {
		return [32]byte{}, apperr.New(apperr.RpcError, "block hash was not a valid base58 32-byte hash")
	}

	var out [32]byte
	copy(out[:], decoded)
	return out, nil
}

// resyncNonce queries the access key's on-chain nonce and advances the
// signer's local counter if the chain is ahead of it, e.g. after a
// restart where the in-memory nonce reset to zero.
func (s *Submitter) resyncNonce(ctx context.Context, signer Signer) error {
	result, err := s.rpc.Call(ctx, "query", map[string]any{
		"request_type": "view_access_key",
		"finality":     "final",
		"account_id":   s.masterID,
		"public_key":   signer.PublicKeyString(),
	})
	if err != nil {
		return apperr.Wrap(apperr.RpcError, "failed to query access key", err)
	}

	var ak accessKeyView
	if err := json.Unmarshal(result, &ak); err != nil {
		return apperr.Wrap(apperr.RpcError, "failed to parse access key response", err)
	}

	if resyncer, ok := signer.(interface{ ResyncNonce(uint64) }); ok {
		resyncer.ResyncNonce(ak.Nonce)
	}
	return nil
}

func decodeNearPublicKey(s string) (ed25519.PublicKey, error) {
	const prefix = "ed25519:"
	if len(s) <= len(prefix) || s[:len(prefix)] != prefix {
		return nil, apperr.New(apperr.InvalidInput, "public key must have ed25519: prefix")
	}
	decoded, err := base58.Decode(s[len(prefix):])
	if err != nil || len(decoded) != ed25519.PublicKeySize {
		return nil, apperr.New(apperr.InvalidInput, "invalid ed25519 public key encoding")
	}
	return decoded, nil
}
