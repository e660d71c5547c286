// Package chainclient defines the narrow contract the cold storage
// pipeline requires from its external signing collaborator, a local
// Bitcoin Core node, along with the production JSON-RPC implementation.
// The core never performs ECDSA signing or script assembly itself; it
// assembles the data for these calls and validates what comes back. Any
// failed call is propagated to the caller as a fatal error, never retried
// silently.
package chainclient

import (
	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
)

// Address types accepted by the node when assembling a multisig address.
const (
	// AddrTypeP2SHSegwit wraps the witness script in P2SH for maximum
	// compatibility. This is the default deposit address type.
	AddrTypeP2SHSegwit = "p2sh-segwit"

	// AddrTypeBech32 is a native segwit (p2wsh) address.
	AddrTypeBech32 = "bech32"
)

// TxInput references a single unspent output by its transaction id and
// output index. This is all the node needs to build an unsigned
// transaction; the remaining UTXO fields are only required at signing
// time.
type TxInput struct {
	TxID string `json:"txid"`
	Vout uint32 `json:"vout"`
}

// TxOutput is a destination address together with the amount sent to it.
// Outputs are always carried in ordered slices, never maps: the order
// determines change placement in the final transaction.
type TxOutput struct {
	Address string
	Amount  btcutil.Amount
}

// SigningInput is the per-input metadata the node requires to produce a
// signature: the outpoint, its value, the locking script, and the redeem
// script of the multisig address being spent.
type SigningInput struct {
	TxID         string
	Vout         uint32
	Amount       btcutil.Amount
	PkScript     string
	RedeemScript string
}

// MultisigResult is the m-of-n address and redeem script assembled by the
// node. Both values are produced externally but are treated as
// authoritative once returned.
type MultisigResult struct {
	Address      string `json:"address"`
	RedeemScript string `json:"redeemScript"`
}

// SignedTx is the node's signing result. Complete reports whether enough
// signatures were collected to make the transaction valid; it must be
// surfaced to the operator verbatim, never assumed true.
type SignedTx struct {
	Hex      string `json:"hex"`
	Complete bool   `json:"complete"`
}

// Signer is the capability set the pipeline consumes from the external
// signing node. Production implementations speak JSON-RPC to a local
// bitcoind; test implementations are in-memory fakes returning scripted
// responses.
type Signer interface {
	// AddressForKey imports the given WIF key under a label derived
	// from the key itself, and returns an address associated with it.
	// Repeated calls with the same key are idempotent.
	AddressForKey(wif string) (string, error)

	// CreateMultisig assembles an m-of-n multisig address from the
	// given addresses or hex public keys.
	CreateMultisig(m int, addresses []string,
		addrType string) (*MultisigResult, error)

	// DecodeRawTransaction decodes an operator-supplied raw
	// transaction into structured form. The hex content is passed to
	// the node opaquely.
	DecodeRawTransaction(txHex string) (*btcjson.TxRawResult, error)

	// CreateRawTransaction serializes the given inputs and ordered
	// outputs into an unsigned raw transaction.
	CreateRawTransaction(inputs []TxInput,
		outputs []TxOutput) (string, error)

	// SignRawTransactionWithKey signs the given raw transaction with
	// the supplied keys, using the per-input metadata to construct
	// each signature.
	SignRawTransactionWithKey(txHex string, wifs []string,
		inputs []SigningInput) (*SignedTx, error)
}
