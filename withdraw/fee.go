package withdraw

import (
	"fmt"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/davecgh/go-spew/spew"

	"github.com/glacierprotocol/glacier/chainclient"
)

// EstimateFee computes the fee a withdrawal will pay at the given rate.
// Transaction size cannot be known precisely without assembling real
// inputs and outputs with real signatures, so this deliberately expensive
// path builds and signs a placeholder transaction shaped exactly like the
// eventual real one (same inputs and output slots, zero amounts) and
// measures its serialized virtual size. The zero-amount outputs are
// intentionally not pruned here; they exist purely so the measured size
// is representative.
func EstimateFee(signer chainclient.Signer, source, dest,
	redeemScript string, txs []*btcjson.TxRawResult, wifs []string,
	satPerVByte int64) (btcutil.Amount, error) {

	inputs, err := Inputs(txs, source)
	if err != nil {
		return 0, err
	}

	placeholder := []chainclient.TxOutput{
		{Address: source, Amount: 0},
		{Address: dest, Amount: 0},
	}

	unsignedHex, err := signer.CreateRawTransaction(inputs, placeholder)
	if err != nil {
		return 0, fmt.Errorf("unable to build sizing transaction: %w",
			err)
	}

	signingInputs, err := SigningInputs(txs, source, redeemScript)
	if err != nil {
		return 0, err
	}

	signed, err := signer.SignRawTransactionWithKey(
		unsignedHex, wifs, signingInputs,
	)
	if err != nil {
		return 0, fmt.Errorf("unable to sign sizing transaction: %w",
			err)
	}

	decoded, err := signer.DecodeRawTransaction(signed.Hex)
	if err != nil {
		return 0, fmt.Errorf("unable to decode sizing transaction: "+
			"%w", err)
	}

	log.Debugf("sizing transaction is %d vbytes", decoded.Vsize)
	log.Tracef("sizing transaction: %v", newLogClosure(func() string {
		return spew.Sdump(decoded)
	}))

	return FeeForSize(decoded.Vsize, satPerVByte)
}
