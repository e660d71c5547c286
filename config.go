// Package glacier ties the cold storage pipeline together: configuration,
// network parameters and the logging registry shared by the subsystem
// packages.
package glacier

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/glacierprotocol/glacier/chainclient"
	flags "github.com/jessevdk/go-flags"
)

const (
	defaultConfigFilename = "glacier.conf"
	defaultDebugLevel     = "info"

	// defaultDiceSeedLength is the minimum number of dice rolls
	// accepted for key derivation. 62 rolls of a six sided die carry
	// slightly more than 160 bits of entropy.
	defaultDiceSeedLength = 62

	// defaultRngSeedLength is the minimum RNG seed length in bytes.
	defaultRngSeedLength = 20

	defaultRPCHost = "127.0.0.1"
)

var (
	// DefaultConfigFile is the resolved default path of the optional
	// configuration file.
	DefaultConfigFile = defaultConfigFilename

	defaultDataDir = btcutil.AppDataDir("bitcoin", false)
)

// BitcoindConfig holds the connection options of the local Bitcoin Core
// node used for signing.
//
//nolint:lll
type BitcoindConfig struct {
	Host    string `long:"host" description:"The host of the local bitcoind RPC interface"`
	User    string `long:"user" description:"Username for RPC connections to bitcoind"`
	Pass    string `long:"pass" description:"Password for RPC connections to bitcoind"`
	DataDir string `long:"datadir" description:"The data directory bitcoind is started with"`
}

// Config holds all configurable options of the tool, loadable from a
// configuration file and overridable per invocation.
//
//nolint:lll
type Config struct {
	ShowVersion bool   `short:"V" long:"version" description:"Display version information and exit"`
	TestNet     bool   `long:"testnet" description:"Use the test network"`
	DebugLevel  string `long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems"`
	QRDir       string `long:"qrdir" description:"Directory QR code artifacts are written to"`
	P2WSH       bool   `long:"p2wsh" description:"Create native segwit (bech32) deposit addresses instead of p2sh-segwit"`

	DiceSeedLength int `long:"diceseedlength" description:"Minimum number of dice rolls required per key"`
	RngSeedLength  int `long:"rngseedlength" description:"Minimum RNG seed length in bytes required per key"`

	Bitcoind *BitcoindConfig `group:"Bitcoind" namespace:"bitcoind"`

	// activeNetParams is derived from the network selection after
	// loading.
	activeNetParams netParams
}

// DefaultConfig returns all options at their default values.
func DefaultConfig() Config {
	return Config{
		DebugLevel:     defaultDebugLevel,
		QRDir:          ".",
		DiceSeedLength: defaultDiceSeedLength,
		RngSeedLength:  defaultRngSeedLength,
		Bitcoind: &BitcoindConfig{
			Host:    defaultRPCHost,
			DataDir: defaultDataDir,
		},
		activeNetParams: mainNetParams,
	}
}

// LoadConfig builds the final configuration: defaults first, then the
// configuration file if one exists at the given path. A missing file is
// not an error; every option has a usable default.
func LoadConfig(configFile string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configFile); err == nil {
		parser := flags.NewParser(&cfg, flags.Default)
		err := flags.NewIniParser(parser).ParseFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("unable to parse %s: %w",
				configFile, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks option combinations and resolves derived fields.
func (c *Config) Validate() error {
	if c.DiceSeedLength < 1 {
		return fmt.Errorf("diceseedlength must be positive, got %d",
			c.DiceSeedLength)
	}
	if c.RngSeedLength < 1 {
		return fmt.Errorf("rngseedlength must be positive, got %d",
			c.RngSeedLength)
	}

	c.activeNetParams = mainNetParams
	if c.TestNet {
		c.activeNetParams = testNetParams
	}

	if c.QRDir != "" {
		c.QRDir = filepath.Clean(c.QRDir)
	}

	if err := SetLogLevels(c.DebugLevel); err != nil {
		return err
	}

	return nil
}

// ChainParams returns the parameters of the selected bitcoin network.
func (c *Config) ChainParams() netParams {
	return c.activeNetParams
}

// AddressType returns the multisig address type to request from the
// node.
func (c *Config) AddressType() string {
	if c.P2WSH {
		return chainclient.AddrTypeBech32
	}

	return chainclient.AddrTypeP2SHSegwit
}

// ChainClientConfig assembles the connection configuration of the local
// signing node from the loaded options.
func (c *Config) ChainClientConfig() chainclient.Config {
	host := c.Bitcoind.Host
	if host == defaultRPCHost || host == "" {
		host = fmt.Sprintf("%s:%s", defaultRPCHost,
			c.activeNetParams.rpcPort)
	}

	return chainclient.Config{
		Host:    host,
		User:    c.Bitcoind.User,
		Pass:    c.Bitcoind.Pass,
		Net:     c.activeNetParams.Params,
		DataDir: c.Bitcoind.DataDir,
	}
}
