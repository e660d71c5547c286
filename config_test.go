package glacier

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/glacierprotocol/glacier/chainclient"
	"github.com/stretchr/testify/require"
)

// TestLoadConfigDefaults asserts that a missing configuration file yields
// pure defaults.
func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.conf"))
	require.NoError(t, err)

	require.False(t, cfg.TestNet)
	require.Equal(t, defaultDiceSeedLength, cfg.DiceSeedLength)
	require.Equal(t, defaultRngSeedLength, cfg.RngSeedLength)
	require.Equal(t, "mainnet", cfg.ChainParams().Name)
	require.Equal(t, chainclient.AddrTypeP2SHSegwit, cfg.AddressType())
}

// TestLoadConfigFile asserts that options from the configuration file are
// applied.
func TestLoadConfigFile(t *testing.T) {
	confFile := filepath.Join(t.TempDir(), "glacier.conf")
	conf := `
[Application Options]
testnet=true
p2wsh=true
diceseedlength=80

[Bitcoind]
bitcoind.host=127.0.0.1:19443
bitcoind.user=ceremony
`
	require.NoError(t, os.WriteFile(confFile, []byte(conf), 0644))

	cfg, err := LoadConfig(confFile)
	require.NoError(t, err)

	require.True(t, cfg.TestNet)
	require.Equal(t, 80, cfg.DiceSeedLength)
	require.Equal(t, "testnet3", cfg.ChainParams().Name)
	require.Equal(t, chainclient.AddrTypeBech32, cfg.AddressType())

	ccCfg := cfg.ChainClientConfig()
	require.Equal(t, "127.0.0.1:19443", ccCfg.Host)
	require.Equal(t, "ceremony", ccCfg.User)
}

// TestChainClientConfigDefaultPort asserts that the default host gets the
// RPC port of the selected network appended.
func TestChainClientConfigDefaultPort(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, "127.0.0.1:8332", cfg.ChainClientConfig().Host)

	cfg = DefaultConfig()
	cfg.TestNet = true
	require.NoError(t, cfg.Validate())
	require.Equal(t, "127.0.0.1:18332", cfg.ChainClientConfig().Host)
}

// TestValidateRejections asserts that nonsensical seed length floors are
// rejected.
func TestValidateRejections(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DiceSeedLength = 0
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.RngSeedLength = -1
	require.Error(t, cfg.Validate())
}

// TestSetLogLevels exercises both specification forms and their error
// cases.
func TestSetLogLevels(t *testing.T) {
	require.NoError(t, SetLogLevels("debug"))
	require.NoError(t, SetLogLevels("GLCR=trace,CHCL=warn"))

	require.Error(t, SetLogLevels("noisy"))
	require.Error(t, SetLogLevels("NOPE=debug"))
	require.Error(t, SetLogLevels("GLCR=noisy"))
	require.Error(t, SetLogLevels("GLCR"))

	// Restore the default so other tests are unaffected.
	require.NoError(t, SetLogLevels(defaultDebugLevel))
}
