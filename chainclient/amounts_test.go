package chainclient

import (
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/stretchr/testify/require"
)

// TestParseCoins asserts exact decimal string parsing into satoshis.
func TestParseCoins(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		in   string
		out  btcutil.Amount
		err  error
	}{
		{name: "whole coin", in: "1", out: 100_000_000},
		{name: "full precision", in: "1.00000000", out: 100_000_000},
		{name: "typical fee", in: "0.0001", out: 10_000},
		{name: "one satoshi", in: "0.00000001", out: 1},
		{name: "bare fraction", in: ".5", out: 50_000_000},
		{name: "surrounding space", in: " 2.3 ", out: 230_000_000},
		{name: "zero", in: "0", out: 0},
		{name: "sub satoshi", in: "0.000000001", err: ErrAmountPrecision},
		{name: "negative", in: "-1", err: ErrAmountMalformed},
		{name: "empty", in: "", err: ErrAmountMalformed},
		{name: "not a number", in: "abc", err: ErrAmountMalformed},
		{name: "two dots", in: "1.2.3", err: ErrAmountMalformed},
		{
			name: "max representable",
			in:   "92233720368.54775807",
			out:  btcutil.Amount(9223372036854775807),
		},
		{
			name: "one satoshi past max",
			in:   "92233720368.54775808",
			err:  ErrAmountMalformed,
		},
		{
			name: "fraction pushes past max",
			in:   "92233720368.99999999",
			err:  ErrAmountMalformed,
		},
		{
			name: "whole part past max",
			in:   "92233720369",
			err:  ErrAmountMalformed,
		},
		{
			name: "absurdly large",
			in:   "99999999999999999999",
			err:  ErrAmountMalformed,
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			amt, err := ParseCoins(tc.in)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.out, amt)
		})
	}
}

// TestFormatCoins asserts the fixed-width decimal rendering.
func TestFormatCoins(t *testing.T) {
	t.Parallel()

	require.Equal(t, "0.00010000", FormatCoins(10_000))
	require.Equal(t, "1.00000000", FormatCoins(100_000_000))
	require.Equal(t, "0.99990000", FormatCoins(99_990_000))
	require.Equal(t, "0.00000000", FormatCoins(0))
	require.Equal(t, "21000000.00000000", FormatCoins(21_000_000*100_000_000))
}

// TestCoinsRoundTrip asserts parse(format(x)) == x for representative
// values.
func TestCoinsRoundTrip(t *testing.T) {
	t.Parallel()

	for _, amt := range []btcutil.Amount{0, 1, 546, 10_000, 99_990_000,
		100_000_000, 2_100_000_000_000_000, 9223372036854775807} {

		parsed, err := ParseCoins(FormatCoins(amt))
		require.NoError(t, err)
		require.Equal(t, amt, parsed)
	}
}
