package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Settings.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
addr = "127.0.0.1:9090"

[near]
rpc_urls = ["https://rpc.testnet.near.org"]
contract_id = "ft.testnet"
master_account_id = "relay.testnet"
num_pool_keys = 3
network_id = "testnet"

[batch]
max_size = 50
recv_timeout_millis = 250
max_concurrent = 2

[queue]
capacity = 500
`), 0600))

	t.Setenv("NEAR_MASTER_KEY", "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	settings, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", settings.File.Server.Addr)
	assert.Equal(t, []string{"https://rpc.testnet.near.org"}, settings.File.Near.RPCURLs)
	assert.Equal(t, 3, settings.File.Near.NumPoolKeys)
	assert.Equal(t, "redis://localhost:6379/0", settings.RedisURL)
	assert.NotEmpty(t, settings.MasterSeedPhrase)
}

func TestLoad_MissingMasterKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Settings.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
addr = "127.0.0.1:9090"
`), 0600))

	t.Setenv("NEAR_MASTER_KEY", "")

	_, err := Load(path)
	require.Error(t, err)
}
