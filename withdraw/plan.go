package withdraw

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"

	"github.com/glacierprotocol/glacier/chainclient"
)

// MaxFee is the hard ceiling on any computed fee. It guards against a
// unit-entry mistake (sat/vbyte vs coin-denominated rates) inflating fees
// by orders of magnitude. A fee above the ceiling rejects the rate; it is
// never paid.
const MaxFee = btcutil.Amount(0.005 * btcutil.SatoshiPerBitcoin)

var (
	// ErrFeeExceedsMax is returned when the computed fee crosses the
	// MaxFee safety ceiling. The operator must supply a new rate.
	ErrFeeExceedsMax = errors.New("fee exceeds the hardcoded maximum")

	// ErrFeeExceedsInput is returned when the negotiated fee alone is
	// larger than the total value of the supplied unspent outputs.
	ErrFeeExceedsInput = errors.New("fee is greater than the sum of " +
		"the unspent transactions")

	// ErrOutputsExceedInput is returned when withdrawal amount plus
	// fee exceed the total input value.
	ErrOutputsExceedInput = errors.New("output values greater than " +
		"input value")

	// ErrNothingWithdrawn is returned when the computed withdrawal
	// amount is zero, which would produce a transaction without a
	// destination output.
	ErrNothingWithdrawn = errors.New("withdrawal amount is zero")

	// ErrSameAddress is returned when destination and source address
	// are identical; the change and withdrawal outputs would collide.
	ErrSameAddress = errors.New("destination address equals the " +
		"source address")

	// ErrValueNotConserved is returned when a finished plan fails the
	// conservation check. It indicates a bug, and it aborts the plan
	// rather than clamping any value.
	ErrValueNotConserved = errors.New("input value does not equal " +
		"outputs plus fee")

	// ErrBadFeeRate is returned for non-positive fee rates.
	ErrBadFeeRate = errors.New("fee rate must be a positive number of " +
		"satoshis per vbyte")
)

// FeeForSize computes the fee for a transaction of the given virtual size
// at satPerVByte satoshis per vbyte, enforcing the MaxFee ceiling.
func FeeForSize(vsize int32, satPerVByte int64) (btcutil.Amount, error) {
	if satPerVByte <= 0 {
		return 0, ErrBadFeeRate
	}
	if vsize <= 0 {
		return 0, fmt.Errorf("invalid transaction size %d", vsize)
	}

	fee := btcutil.Amount(int64(vsize) * satPerVByte)
	if fee > MaxFee {
		return 0, fmt.Errorf("%w: calculated fee %s is over %s",
			ErrFeeExceedsMax, chainclient.FormatCoins(fee),
			chainclient.FormatCoins(MaxFee))
	}

	return fee, nil
}

// Plan is a fully determined withdrawal: where the funds come from, where
// they go, and the exact fee/change split. It is built once all
// interactive phases have produced their values and is consumed exactly
// once to assemble the unsigned transaction.
type Plan struct {
	// SourceAddress is the cold storage address being swept. Change,
	// if any, returns here.
	SourceAddress string

	// DestAddress receives the withdrawal.
	DestAddress string

	// TotalInput is the summed value of all selected unspent outputs.
	TotalInput btcutil.Amount

	// Amount is the value sent to DestAddress.
	Amount btcutil.Amount

	// Fee is the negotiated mining fee.
	Fee btcutil.Amount

	// Change is the value returned to SourceAddress.
	Change btcutil.Amount
}

// NewPlan validates a withdrawal and computes its change. If withdrawAll
// is set, amount is ignored and the entire input value net of fee is
// withdrawn. A change amount below one base unit is coerced to exactly
// zero rather than emitted as dust; with integer satoshi arithmetic this
// cannot arise from rounding, but the guard is kept because it interacts
// directly with fund conservation.
func NewPlan(source, dest string, totalInput, fee,
	amount btcutil.Amount, withdrawAll bool) (*Plan, error) {

	if source == dest {
		return nil, ErrSameAddress
	}
	if fee < 0 || amount < 0 || totalInput < 0 {
		return nil, fmt.Errorf("negative value in withdrawal plan")
	}
	if fee > totalInput {
		return nil, ErrFeeExceedsInput
	}

	if withdrawAll {
		amount = totalInput - fee
	}
	if amount+fee > totalInput {
		return nil, ErrOutputsExceedInput
	}
	if amount == 0 {
		return nil, ErrNothingWithdrawn
	}

	change := totalInput - amount - fee
	if change < 1 {
		change = 0
	}

	plan := &Plan{
		SourceAddress: source,
		DestAddress:   dest,
		TotalInput:    totalInput,
		Amount:        amount,
		Fee:           fee,
		Change:        change,
	}
	if err := plan.Check(); err != nil {
		return nil, err
	}

	return plan, nil
}

// Check asserts conservation of value: the total input must equal the sum
// of all outputs plus the fee, exactly. A violation is an error to be
// raised, never logged and continued.
func (p *Plan) Check() error {
	if p.Amount+p.Change+p.Fee != p.TotalInput {
		return fmt.Errorf("%w: %s + %s + %s != %s",
			ErrValueNotConserved,
			chainclient.FormatCoins(p.Amount),
			chainclient.FormatCoins(p.Change),
			chainclient.FormatCoins(p.Fee),
			chainclient.FormatCoins(p.TotalInput))
	}

	return nil
}

// Outputs returns the plan's outputs in final transaction order: change
// back to the source address first, then the withdrawal to the
// destination. Zero valued entries are pruned; a zero-amount output must
// never be requested of the signer.
func (p *Plan) Outputs() []chainclient.TxOutput {
	outputs := make([]chainclient.TxOutput, 0, 2)
	if p.Change > 0 {
		outputs = append(outputs, chainclient.TxOutput{
			Address: p.SourceAddress,
			Amount:  p.Change,
		})
	}
	if p.Amount > 0 {
		outputs = append(outputs, chainclient.TxOutput{
			Address: p.DestAddress,
			Amount:  p.Amount,
		})
	}

	return outputs
}
