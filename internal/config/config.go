// Package config loads the relay's static settings from a TOML file and
// its two secrets from the process environment, mirroring the split the
// original prototype drew between Settings.toml and .env: operational
// tuning lives in a file that can be checked in, credentials never do.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/nearft/relay/internal/apperr"
)

// FileSettings is the shape of Settings.toml.
type FileSettings struct {
	Server struct {
		Addr string `toml:"addr"`
	} `toml:"server"`

	Near struct {
		RPCURLs          []string `toml:"rpc_urls"`
		ContractID       string   `toml:"contract_id"`
		MasterAccountID  string   `toml:"master_account_id"`
		NumPoolKeys      int      `toml:"num_pool_keys"`
		NetworkID        string   `toml:"network_id"`
	} `toml:"near"`

	Batch struct {
		MaxSize           int `toml:"max_size"`
		RecvTimeoutMillis int `toml:"recv_timeout_millis"`
		MaxConcurrent     int `toml:"max_concurrent"`
	} `toml:"batch"`

	Queue struct {
		Capacity int `toml:"capacity"`
	} `toml:"queue"`
}

// Settings is the fully resolved configuration used to wire up the relay:
// file-backed tuning plus environment-backed secrets.
type Settings struct {
	File FileSettings

	// MasterSeedPhrase is the BIP39 mnemonic used to derive the master
	// signer's Ed25519 keypair. Read from NEAR_MASTER_KEY; never written
	// to the TOML file.
	MasterSeedPhrase string

	// RedisURL is the status store's connection string. Read from
	// REDIS_URL. Empty means "use the in-memory store".
	RedisURL string
}

// Load reads path as TOML and layers the two environment variables on
// top: NEAR_MASTER_KEY is required, REDIS_URL is optional.
func Load(path string) (*Settings, error) {
	var fs FileSettings
	if _, err := toml.DecodeFile(path, &fs); err != nil {
		return nil, apperr.Wrap(apperr.InvalidInput, "failed to parse settings file", err)
	}

	masterKey, ok := os.LookupEnv("NEAR_MASTER_KEY")
	if !ok || masterKey == "" {
		return nil, apperr.New(apperr.BootstrapKeyFailed, "NEAR_MASTER_KEY is not set")
	}

	redisURL := os.Getenv("REDIS_URL")

	return &Settings{
		File:             fs,
		MasterSeedPhrase: masterKey,
		RedisURL:         redisURL,
	}, nil
}
