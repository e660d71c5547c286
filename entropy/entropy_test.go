package entropy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestValidateSeed asserts the per-violation errors for random hex seeds.
func TestValidateSeed(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		seed     string
		minChars int
		err      error
	}{
		{
			name:     "valid lowercase",
			seed:     "00112233445566778899aabbccddeeff",
			minChars: 32,
		},
		{
			name:     "valid uppercase",
			seed:     "00112233445566778899AABBCCDDEEFF",
			minChars: 32,
		},
		{
			name:     "too short",
			seed:     "abcdef",
			minChars: 8,
			err:      ErrSeedTooShort,
		},
		{
			name:     "odd length",
			seed:     "abcde",
			minChars: 4,
			err:      ErrSeedOddLength,
		},
		{
			name:     "non hex character",
			seed:     "abcdefgh",
			minChars: 4,
			err:      ErrSeedNotHex,
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateSeed(tc.seed, tc.minChars)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
		})
	}
}

// TestValidateDice asserts dice roll strings are restricted to digits
// between 1 and 6.
func TestValidateDice(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateDice(strings.Repeat("123456", 11), 62))
	require.ErrorIs(t, ValidateDice("12345", 62), ErrDiceTooShort)
	require.ErrorIs(t, ValidateDice(strings.Repeat("7", 62), 62),
		ErrDiceOutOfRange)
	require.ErrorIs(t, ValidateDice(strings.Repeat("0", 62), 62),
		ErrDiceOutOfRange)
	require.ErrorIs(t, ValidateDice(strings.Repeat("a", 62), 62),
		ErrDiceOutOfRange)
}

// TestUnchunk asserts embedded whitespace is stripped before validation.
func TestUnchunk(t *testing.T) {
	t.Parallel()

	require.Equal(t, "6254316325", Unchunk("62543 16325"))
	require.Equal(t, "abcd", Unchunk("  ab\tcd\n"))
	require.Equal(t, "", Unchunk("   "))
}

// TestCombineCommutes asserts XOR combination is commutative and that
// combining a digest with itself yields the all-zero digest.
func TestCombineCommutes(t *testing.T) {
	t.Parallel()

	digestA := DigestSeed("dice rolls")
	digestB := DigestSeed("rng bytes")

	ab, err := Combine(digestA, digestB)
	require.NoError(t, err)

	ba, err := Combine(digestB, digestA)
	require.NoError(t, err)
	require.Equal(t, ab, ba)

	aa, err := Combine(digestA, digestA)
	require.NoError(t, err)
	require.Equal(t, strings.Repeat("0", 64), aa)
}

// TestCombineUnequalLength asserts combination of unequal-width digests is
// rejected before any key material is produced.
func TestCombineUnequalLength(t *testing.T) {
	t.Parallel()

	_, err := Combine("aabb", "aabbcc")
	require.Error(t, err)
}

// TestDeriveDeterministic runs the documented derivation scenario: 62
// valid dice digits and a 40-hex-character RNG string must combine to the
// same 64-character raw key on repeated runs.
func TestDeriveDeterministic(t *testing.T) {
	t.Parallel()

	dice := "62543163252134142362243653142636514325431632521341423622436531"
	rng := "3014d0cd2bae2ee78bb2004f30d9d6d6e6b9a3e4"

	require.NoError(t, ValidateDice(dice, 62))
	require.NoError(t, ValidateSeed(rng, 40))

	first, err := Combine(DigestSeed(dice), DigestSeed(rng))
	require.NoError(t, err)
	require.Len(t, first, 64)

	second, err := Combine(DigestSeed(dice), DigestSeed(rng))
	require.NoError(t, err)
	require.Equal(t, first, second)
}
