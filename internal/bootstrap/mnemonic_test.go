package bootstrap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tyler-smith/go-bip39"
)

func TestGenerateMasterMnemonic(t *testing.T) {
	tests := []struct {
		name      string
		wordCount int
		wantWords int
		expectErr bool
	}{
		{name: "12 words", wordCount: 12, wantWords: 12},
		{name: "24 words", wordCount: 24, wantWords: 24},
		{name: "invalid word count", wordCount: 15, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mnemonic, err := GenerateMasterMnemonic(tt.wordCount)
			if tt.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, strings.Fields(mnemonic), tt.wantWords)
			assert.True(t, bip39.IsMnemonicValid(mnemonic))
		})
	}
}
