package chainclient

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/rpcclient"

	"github.com/glacierprotocol/glacier/keychain"
)

// rpcConn is the slice of the underlying RPC client the node client
// actually uses. *rpcclient.Client satisfies it; tests substitute a fake.
type rpcConn interface {
	RawRequest(method string, params []json.RawMessage) (json.RawMessage,
		error)
	GetNetworkInfo() (*btcjson.GetNetworkInfoResult, error)
	Shutdown()
}

// Config describes how to reach (and if necessary start) the local
// bitcoind node.
type Config struct {
	// Host is the RPC host:port of the node.
	Host string

	// User and Pass authenticate against the node's RPC interface.
	User string
	Pass string

	// Net selects the active chain. Only the private key prefix and
	// RPC defaults differ between networks for this tool.
	Net *chaincfg.Params

	// DataDir, if set, is passed to bitcoind as -datadir when the
	// daemon is started by this process.
	DataDir string

	// ExtraArgs are appended verbatim to the bitcoind command line.
	ExtraArgs []string
}

// BitcoindClient implements Signer against a local Bitcoin Core node over
// JSON-RPC. All calls are blocking and synchronous; there is no caching
// and no retry beyond the bounded startup wait.
type BitcoindClient struct {
	cfg  Config
	conn rpcConn

	// backoff is the fixed delay between startup readiness polls. It
	// only deviates from startupBackoff in tests.
	backoff time.Duration
}

// A compile time assertion to ensure BitcoindClient meets the Signer
// interface.
var _ Signer = (*BitcoindClient)(nil)

// New creates a client for the node described by cfg. No connection is
// attempted until the first call; use WaitForStartup to block until the
// node is serving requests.
func New(cfg Config) (*BitcoindClient, error) {
	rpcCfg := &rpcclient.ConnConfig{
		Host:                 cfg.Host,
		User:                 cfg.User,
		Pass:                 cfg.Pass,
		DisableConnectOnNew:  true,
		DisableAutoReconnect: true,
		DisableTLS:           true,
		HTTPPostMode:         true,
	}

	conn, err := rpcclient.New(rpcCfg, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to create RPC client: %w", err)
	}

	return &BitcoindClient{
		cfg:     cfg,
		conn:    conn,
		backoff: startupBackoff,
	}, nil
}

// Close shuts down the underlying RPC client. The daemon itself is left
// running.
func (c *BitcoindClient) Close() {
	c.conn.Shutdown()
}

// call performs a single JSON-RPC request with the given parameters. Every
// parameter is marshaled individually; amounts must already be exact
// decimal strings when they reach this point.
func (c *BitcoindClient) call(method string, params ...interface{}) (
	json.RawMessage, error) {

	rawParams := make([]json.RawMessage, 0, len(params))
	for _, param := range params {
		rawParam, err := json.Marshal(param)
		if err != nil {
			return nil, fmt.Errorf("unable to marshal %s "+
				"parameter: %w", method, err)
		}
		rawParams = append(rawParams, rawParam)
	}

	log.Debugf("bitcoin RPC call: %s", method)

	resp, err := c.conn.RawRequest(method, rawParams)
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w", method, err)
	}

	log.Tracef("bitcoin RPC response for %s: %v", method,
		newLogClosure(func() string {
			return string(resp)
		}))

	return resp, nil
}

// AddressForKey imports the WIF key under its derived label and returns
// one of the addresses the node associates with it. All addresses under
// the label share the same public key, so for the purpose of feeding
// CreateMultisig any of them is equivalent; the lexicographically first is
// chosen for determinism.
func (c *BitcoindClient) AddressForKey(wif string) (string, error) {
	// The node has no "addresses for this private key" call, only
	// "addresses for this label", so the key is imported under a label
	// hashed from the key itself. This keeps repeated imports
	// idempotent without leaking correlation between keys.
	label := keychain.Label(wif)

	// Rescan is disabled: the air-gapped node has no chain history to
	// scan for this key.
	if _, err := c.call("importprivkey", wif, label, false); err != nil {
		return "", err
	}

	resp, err := c.call("getaddressesbylabel", label)
	if err != nil {
		return "", err
	}

	var byLabel map[string]json.RawMessage
	if err := json.Unmarshal(resp, &byLabel); err != nil {
		return "", fmt.Errorf("unable to parse getaddressesbylabel "+
			"response: %w", err)
	}
	if len(byLabel) == 0 {
		return "", fmt.Errorf("no address returned for imported key")
	}

	addresses := make([]string, 0, len(byLabel))
	for address := range byLabel {
		addresses = append(addresses, address)
	}
	sort.Strings(addresses)

	return addresses[0], nil
}

// CreateMultisig asks the node to assemble an m-of-n address from the
// given addresses or public keys. Quorum sanity (1 <= m <= n) is enforced
// by the caller before the node is ever contacted.
func (c *BitcoindClient) CreateMultisig(m int, addresses []string,
	addrType string) (*MultisigResult, error) {

	resp, err := c.call("addmultisigaddress", m, addresses, "", addrType)
	if err != nil {
		return nil, err
	}

	var result MultisigResult
	if err := json.Unmarshal(resp, &result); err != nil {
		return nil, fmt.Errorf("unable to parse addmultisigaddress "+
			"response: %w", err)
	}

	return &result, nil
}

// DecodeRawTransaction passes the operator-supplied hex to the node for
// decoding. The content is opaque to this client.
func (c *BitcoindClient) DecodeRawTransaction(txHex string) (
	*btcjson.TxRawResult, error) {

	resp, err := c.call("decoderawtransaction", txHex)
	if err != nil {
		return nil, err
	}

	var tx btcjson.TxRawResult
	if err := json.Unmarshal(resp, &tx); err != nil {
		return nil, fmt.Errorf("unable to parse decoderawtransaction "+
			"response: %w", err)
	}

	return &tx, nil
}

// CreateRawTransaction serializes inputs and ordered outputs into an
// unsigned raw transaction. Outputs are sent as an array of single-entry
// objects so the node preserves their order; amounts are exact decimal
// strings.
func (c *BitcoindClient) CreateRawTransaction(inputs []TxInput,
	outputs []TxOutput) (string, error) {

	rpcOutputs := make([]map[string]string, 0, len(outputs))
	for _, out := range outputs {
		rpcOutputs = append(rpcOutputs, map[string]string{
			out.Address: FormatCoins(out.Amount),
		})
	}

	resp, err := c.call("createrawtransaction", inputs, rpcOutputs)
	if err != nil {
		return "", err
	}

	var txHex string
	if err := json.Unmarshal(resp, &txHex); err != nil {
		return "", fmt.Errorf("unable to parse createrawtransaction "+
			"response: %w", err)
	}

	return txHex, nil
}

// rawSigningInput is the wire form of a SigningInput for the
// signrawtransactionwithkey call.
type rawSigningInput struct {
	TxID         string `json:"txid"`
	Vout         uint32 `json:"vout"`
	ScriptPubKey string `json:"scriptPubKey"`
	RedeemScript string `json:"redeemScript"`
	Amount       string `json:"amount"`
}

// SignRawTransactionWithKey signs txHex with the given keys. The
// completeness flag of the result is passed through verbatim; an
// incomplete signature set is not an error at this layer.
func (c *BitcoindClient) SignRawTransactionWithKey(txHex string,
	wifs []string, inputs []SigningInput) (*SignedTx, error) {

	prevTxs := make([]rawSigningInput, 0, len(inputs))
	for _, in := range inputs {
		prevTxs = append(prevTxs, rawSigningInput{
			TxID:         in.TxID,
			Vout:         in.Vout,
			ScriptPubKey: in.PkScript,
			RedeemScript: in.RedeemScript,
			Amount:       FormatCoins(in.Amount),
		})
	}

	resp, err := c.call("signrawtransactionwithkey", txHex, wifs, prevTxs)
	if err != nil {
		return nil, err
	}

	var signed SignedTx
	if err := json.Unmarshal(resp, &signed); err != nil {
		return nil, fmt.Errorf("unable to parse "+
			"signrawtransactionwithkey response: %w", err)
	}

	return &signed, nil
}
