package keypool

import (
	"crypto/ed25519"

	"github.com/anyproto/go-slip10"
	"github.com/tyler-smith/go-bip39"

	"github.com/nearft/relay/internal/apperr"
)

// nearDerivationPath is the SLIP-0010 path for a NEAR account's first
// Ed25519 key; 397 is NEAR's SLIP-44 coin type.
const nearDerivationPath = "m/44'/397'/0'"

// DeriveMasterKey turns a BIP39 mnemonic into the account's Ed25519
// keypair via SLIP-0010 derivation. It mirrors the prototype's seed-phrase
// handling, replacing its ad-hoc scheme with the standard hierarchical
// derivation NEAR wallets use.
func DeriveMasterKey(mnemonic string) (ed25519.PublicKey, ed25519.PrivateKey, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, nil, apperr.New(apperr.BootstrapKeyFailed, "invalid BIP39 mnemonic")
	}

	seed := bip39.NewSeed(mnemonic, "")
	defer clearBytes(seed)

	key, err := slip10.DeriveForPath(nearDerivationPath, seed)
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.BootstrapKeyFailed, "SLIP-10 derivation failed", err)
	}

	priv := ed25519.NewKeyFromSeed(key.Seed())
	pub := priv.Public().(ed25519.PublicKey)
	return pub, priv, nil
}
