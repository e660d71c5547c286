// Package withdraw implements the construction arithmetic of a cold
// storage withdrawal: selecting spendable outputs from operator-supplied
// transactions, negotiating a fee from a measured transaction size, and
// computing the amount/change split under strict conservation of value.
// All amounts are integer satoshis; any discrepancy in the value equation
// is an error, never a rounding acceptance.
package withdraw

import (
	"fmt"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"

	"github.com/glacierprotocol/glacier/chainclient"
)

// UTXO is a single unspent output at the cold storage address, extracted
// from a decoded transaction. It is read-only once extracted.
type UTXO struct {
	// TxID is the id of the transaction carrying the output.
	TxID string

	// Vout is the output's index within that transaction.
	Vout uint32

	// Amount is the output's value.
	Amount btcutil.Amount

	// PkScript is the hex encoded locking script of the output.
	PkScript string
}

// SelectUTXOs extracts the outputs of a decoded transaction that pay to
// the given address. Matching is exact string equality on the canonical
// address encoding. Outputs whose script lacks a resolved address field
// (transactions decoded by nodes older than v22) are skipped silently, a
// documented compatibility gap inherited from the original protocol. No
// aggregation across transactions happens here; callers accumulate over
// their transaction list.
func SelectUTXOs(tx *btcjson.TxRawResult, address string) ([]UTXO, error) {
	var utxos []UTXO

	for _, out := range tx.Vout {
		if out.ScriptPubKey.Address == "" {
			continue
		}
		if out.ScriptPubKey.Address != address {
			continue
		}

		amount, err := btcutil.NewAmount(out.Value)
		if err != nil {
			return nil, fmt.Errorf("invalid output value %v in "+
				"%s:%d: %w", out.Value, tx.Txid, out.N, err)
		}

		utxos = append(utxos, UTXO{
			TxID:     tx.Txid,
			Vout:     out.N,
			Amount:   amount,
			PkScript: out.ScriptPubKey.Hex,
		})
	}

	return utxos, nil
}

// SumUTXOs returns the total value of the given outputs.
func SumUTXOs(utxos []UTXO) btcutil.Amount {
	var total btcutil.Amount
	for _, utxo := range utxos {
		total += utxo.Amount
	}

	return total
}

// Inputs maps every spendable output at the source address across the
// given transactions to the (txid, vout) reference needed to build an
// unsigned transaction.
func Inputs(txs []*btcjson.TxRawResult, source string) ([]chainclient.TxInput,
	error) {

	var inputs []chainclient.TxInput
	for _, tx := range txs {
		utxos, err := SelectUTXOs(tx, source)
		if err != nil {
			return nil, err
		}

		for _, utxo := range utxos {
			inputs = append(inputs, chainclient.TxInput{
				TxID: utxo.TxID,
				Vout: utxo.Vout,
			})
		}
	}

	return inputs, nil
}

// SigningInputs assembles the per-input metadata the signing node needs:
// outpoint, value, locking script, and the redeem script of the multisig
// address being spent.
func SigningInputs(txs []*btcjson.TxRawResult, source,
	redeemScript string) ([]chainclient.SigningInput, error) {

	var inputs []chainclient.SigningInput
	for _, tx := range txs {
		utxos, err := SelectUTXOs(tx, source)
		if err != nil {
			return nil, err
		}

		for _, utxo := range utxos {
			inputs = append(inputs, chainclient.SigningInput{
				TxID:         utxo.TxID,
				Vout:         utxo.Vout,
				Amount:       utxo.Amount,
				PkScript:     utxo.PkScript,
				RedeemScript: redeemScript,
			})
		}
	}

	return inputs, nil
}
