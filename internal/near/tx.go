package near

import (
	"crypto/ed25519"
	"crypto/sha256"
	"math/big"

	"github.com/nearft/relay/internal/apperr"
)

// actionTag identifies which NEAR action variant follows in the Borsh
// encoding, matching the order near-primitives defines them in.
type actionTag uint8

const (
	actionCreateAccount actionTag = 0
	actionDeployContract actionTag = 1
	actionFunctionCall   actionTag = 2
	actionTransfer       actionTag = 3
	actionStake          actionTag = 4
	actionAddKey         actionTag = 5
	actionDeleteKey      actionTag = 6
	actionDeleteAccount  actionTag = 7
)

// Action is one entry in a Transaction's action list.
type Action interface {
	serialize(w *borshWriter) error
}

// FunctionCallAction invokes a contract method with the given args, gas
// allowance, and attached deposit (yoctoNEAR).
type FunctionCallAction struct {
	MethodName string
	Args       []byte
	Gas        uint64
	Deposit    *big.Int
}

func (a *FunctionCallAction) serialize(w *borshWriter) error {
	w.writeU8(uint8(actionFunctionCall))
	w.writeString(a.MethodName)
	w.writeBytes(a.Args)
	w.writeU64(a.Gas)
	return w.writeU128(a.Deposit)
}

// AddKeyAction registers a new access key on an account. Permission is
// either full access (nil FunctionCallPermission) or scoped to calling
// specific methods on one contract.
type AddKeyAction struct {
	PublicKey            ed25519.PublicKey
	Nonce                uint64
	FunctionCallPermission *FunctionCallPermission // nil means full access
}

// FunctionCallPermission restricts an access key to calling specific
// methods on one contract, optionally capped by an allowance.
type FunctionCallPermission struct {
	Allowance   *big.Int // nil means unlimited
	ReceiverID  string
	MethodNames []string
}

func (a *AddKeyAction) serialize(w *borshWriter) error {
	w.writeU8(uint8(actionAddKey))
	w.writeU8(0) // PublicKey enum tag: 0 = ED25519
	w.writeFixedBytes(a.PublicKey)
	w.writeU64(a.Nonce)

	if a.FunctionCallPermission == nil {
		w.writeU8(1) // AccessKeyPermission::FullAccess
		return nil
	}

	w.writeU8(0) // AccessKeyPermission::FunctionCall
	perm := a.FunctionCallPermission
	if perm.Allowance == nil {
		w.writeU8(0) // Option::None
	} else {
		w.writeU8(1) // Option::Some
		if err := w.writeU128(perm.Allowance); err != nil {
			return err
		}
	}
	w.writeString(perm.ReceiverID)
	w.writeU32(uint32(len(perm.MethodNames)))
	for _, m := range perm.MethodNames {
		w.writeString(m)
	}
	return nil
}

// Transaction is an unsigned NEAR transaction, matching near-primitives'
// Transaction struct field order.
type Transaction struct {
	SignerID   string
	PublicKey  ed25519.PublicKey
	Nonce      uint64
	ReceiverID string
	BlockHash  [32]byte
	Actions    []Action
}

func (t *Transaction) serialize(w *borshWriter) error {
	w.writeString(t.SignerID)
	w.writeU8(0) // PublicKey enum tag: ED25519
	w.writeFixedBytes(t.PublicKey)
	w.writeU64(t.Nonce)
	w.writeString(t.ReceiverID)
	w.writeFixedBytes(t.BlockHash[:])

	w.writeU32(uint32(len(t.Actions)))
	for _, a := range t.Actions {
		if err := a.serialize(w); err != nil {
			return err
		}
	}
	return nil
}

// Serialize returns the transaction's Borsh encoding.
func (t *Transaction) Serialize() ([]byte, error) {
	w := newBorshWriter()
	if err := t.serialize(w); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Hash returns the sha256 digest of the transaction's Borsh encoding,
// which is what an access key's signature covers.
func (t *Transaction) Hash() ([32]byte, error) {
	raw, err := t.Serialize()
	if err != nil {
		return [32]byte{}, err
	}
	return sha256.Sum256(raw), nil
}

// SignedTransaction pairs a Transaction with the signature over its hash.
type SignedTransaction struct {
	Transaction Transaction
	Signature   []byte
}

// Serialize returns the Borsh encoding of the signed transaction: the
// transaction followed by a PublicKey-style signature enum (tag + bytes).
func (s *SignedTransaction) Serialize() ([]byte, error) {
	txBytes, err := s.Transaction.Serialize()
	if err != nil {
		return nil, err
	}

	w := newBorshWriter()
	w.writeFixedBytes(txBytes)
	w.writeU8(0) // Signature enum tag: ED25519
	if len(s.Signature) != ed25519.SignatureSize {
		return nil, apperr.New(apperr.BatchBuildError, "ed25519 signature must be 64 bytes")
	}
	w.writeFixedBytes(s.Signature)
	return w.Bytes(), nil
}
