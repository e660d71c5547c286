package chainclient

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
)

// coinDecimals is the number of decimal places in the textual coin
// representation; one base unit is 1e-8 coins.
const coinDecimals = 8

// satsPerCoin mirrors btcutil.SatoshiPerBitcoin as an unsigned integer
// for the exact string-to-satoshi arithmetic below.
const satsPerCoin uint64 = btcutil.SatoshiPerBitcoin

var (
	// ErrAmountMalformed is returned when an amount string is not a
	// plain non-negative decimal number.
	ErrAmountMalformed = errors.New("malformed amount")

	// ErrAmountPrecision is returned when an amount string carries
	// more precision than one base unit can represent. Sub-satoshi
	// amounts are rejected rather than rounded: the operator must
	// state exactly what will appear in the transaction.
	ErrAmountPrecision = errors.New("amount is more precise than one " +
		"satoshi")
)

// ParseCoins converts a decimal coin string like "0.0001" into an integer
// satoshi amount without passing through floating point. All amount
// arithmetic downstream is exact integer arithmetic on the result.
func ParseCoins(s string) (btcutil.Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrAmountMalformed)
	}
	if s[0] == '+' || s[0] == '-' {
		return 0, fmt.Errorf("%w: %q", ErrAmountMalformed, s)
	}

	whole, frac := s, ""
	if dot := strings.IndexByte(s, '.'); dot != -1 {
		whole, frac = s[:dot], s[dot+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > coinDecimals {
		return 0, fmt.Errorf("%w: %q", ErrAmountPrecision, s)
	}
	frac += strings.Repeat("0", coinDecimals-len(frac))

	wholeUnits, err := strconv.ParseUint(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrAmountMalformed, s)
	}
	fracUnits, err := strconv.ParseUint(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrAmountMalformed, s)
	}

	// Two-step overflow guard: the first bound keeps the product within
	// uint64, the second rejects totals the signed amount type cannot
	// hold once the fractional part is added.
	if wholeUnits > math.MaxInt64/satsPerCoin {
		return 0, fmt.Errorf("%w: %q overflows", ErrAmountMalformed, s)
	}
	sats := wholeUnits*satsPerCoin + fracUnits
	if sats > math.MaxInt64 {
		return 0, fmt.Errorf("%w: %q overflows", ErrAmountMalformed, s)
	}

	return btcutil.Amount(sats), nil
}

// FormatCoins renders an amount as a decimal coin string with the full
// eight fractional digits, e.g. 10000 satoshis -> "0.00010000". The fixed
// width keeps printed values unambiguous for the operator and is the form
// sent in RPC amount parameters.
func FormatCoins(amt btcutil.Amount) string {
	if amt < 0 {
		return "-" + FormatCoins(-amt)
	}

	digits := fmt.Sprintf("%09d", int64(amt))
	split := len(digits) - coinDecimals

	return digits[:split] + "." + digits[split:]
}
