package glacier

import (
	bitcoinCfg "github.com/btcsuite/btcd/chaincfg"
)

// netParams couples the parameters of a bitcoin network with the default
// RPC port of a Bitcoin Core daemon running on that network.
type netParams struct {
	*bitcoinCfg.Params
	rpcPort string
}

// mainNetParams contains parameters specific to the current Bitcoin
// mainnet.
var mainNetParams = netParams{
	Params:  &bitcoinCfg.MainNetParams,
	rpcPort: "8332",
}

// testNetParams contains parameters specific to the 3rd version of the
// test network.
var testNetParams = netParams{
	Params:  &bitcoinCfg.TestNet3Params,
	rpcPort: "18332",
}
