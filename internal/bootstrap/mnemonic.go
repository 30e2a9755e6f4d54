package bootstrap

import (
	"crypto/rand"
	"fmt"

	"github.com/tyler-smith/go-bip39"
)

// GenerateMasterMnemonic creates a fresh BIP39 mnemonic an operator can
// hand to NEAR_MASTER_KEY. It exists for provisioning a new deployment;
// the relay itself only ever validates and derives from an existing
// phrase (see keypool.DeriveMasterKey).
//
// Valid word counts: 12 (128-bit entropy) or 24 (256-bit entropy).
func GenerateMasterMnemonic(wordCount int) (string, error) {
	var entropyBits int
	switch wordCount {
	case 12:
		entropyBits = 128
	case 24:
		entropyBits = 256
	default:
		return "", fmt.Errorf("invalid word count %d: must be 12 or 24", wordCount)
	}

	entropy := make([]byte, entropyBits/8)
	if _, err := rand.Read(entropy); err != nil {
		return "", fmt.Errorf("failed to generate entropy: %w", err)
	}

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("failed to generate mnemonic: %w", err)
	}

	return mnemonic, nil
}
