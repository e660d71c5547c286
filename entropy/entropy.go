// Package entropy implements the derivation of raw private key material
// from two independent operator-supplied entropy sources: a string of
// physical dice rolls and a string of machine-generated random hex. Each
// source is validated, hashed to a fixed-width SHA-256 digest, and the two
// digests are combined with bitwise XOR. The XOR of two independent
// sources is at least as unpredictable as the stronger of the two, so a
// weak or compromised single source does not by itself compromise the
// resulting key. The combination step must remain XOR; concatenation or
// hashing the concatenation would change that security property.
package entropy

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSeedTooShort is returned when the random seed has fewer hex
	// characters than the configured minimum.
	ErrSeedTooShort = errors.New("seed is below the minimum length")

	// ErrSeedOddLength is returned when the random seed has an odd
	// number of characters and therefore does not describe whole bytes.
	ErrSeedOddLength = errors.New("seed must contain an even number of " +
		"characters")

	// ErrSeedNotHex is returned when the random seed contains a
	// character outside 0-9/a-f.
	ErrSeedNotHex = errors.New("seed must be composed of hexadecimal " +
		"characters only (0-9, a-f)")

	// ErrDiceTooShort is returned when fewer dice rolls than the
	// configured minimum were provided.
	ErrDiceTooShort = errors.New("not enough dice rolls")

	// ErrDiceOutOfRange is returned when a dice roll is not a digit
	// between 1 and 6.
	ErrDiceOutOfRange = errors.New("dice rolls must be numbers between " +
		"1 and 6")
)

// Unchunk removes the whitespace an operator may have typed between groups
// of characters for readability.
func Unchunk(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// ChunkString splits s into length sized groups for easy human
// readability of long hex strings.
func ChunkString(s string, length int) []string {
	var chunks []string
	for len(s) > length {
		chunks = append(chunks, s[:length])
		s = s[length:]
	}
	if len(s) > 0 {
		chunks = append(chunks, s)
	}

	return chunks
}

// ValidateSeed checks that seed is a usable random hex seed of at least
// minChars characters. Each violation maps to a distinct error so the
// caller can prompt for a fresh read rather than aborting.
func ValidateSeed(seed string, minChars int) error {
	if len(seed) < minChars {
		return fmt.Errorf("%w: got %d characters, need at least %d",
			ErrSeedTooShort, len(seed), minChars)
	}

	if len(seed)%2 != 0 {
		return ErrSeedOddLength
	}

	if _, err := hex.DecodeString(strings.ToLower(seed)); err != nil {
		return ErrSeedNotHex
	}

	return nil
}

// ValidateDice checks that rolls is a string of at least minRolls
// six-sided dice outcomes, each a digit between 1 and 6.
func ValidateDice(rolls string, minRolls int) error {
	if len(rolls) < minRolls {
		return fmt.Errorf("%w: got %d rolls, need at least %d",
			ErrDiceTooShort, len(rolls), minRolls)
	}

	for _, r := range rolls {
		if r < '1' || r > '6' {
			return ErrDiceOutOfRange
		}
	}

	return nil
}

// DigestSeed hashes the ASCII representation of a validated seed to a
// fixed-width lowercase hex digest. Both sources pass through this before
// combination so that unequal-length operator input never reaches the
// bitwise step.
func DigestSeed(seed string) string {
	digest := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(digest[:])
}

// Combine XORs two equal-length hex digests and returns the result as a
// hex string of the same width. Both inputs are expected to be fixed-width
// SHA-256 digests produced by DigestSeed; an unequal length should not
// occur, but is asserted here because silently truncating key material
// would be catastrophic.
func Combine(digestA, digestB string) (string, error) {
	if len(digestA) != len(digestB) {
		return "", fmt.Errorf("tried to xor strings of unequal "+
			"length: %d vs %d", len(digestA), len(digestB))
	}

	rawA, err := hex.DecodeString(digestA)
	if err != nil {
		return "", fmt.Errorf("invalid hex digest: %w", err)
	}
	rawB, err := hex.DecodeString(digestB)
	if err != nil {
		return "", fmt.Errorf("invalid hex digest: %w", err)
	}

	combined := make([]byte, len(rawA))
	for i := range rawA {
		combined[i] = rawA[i] ^ rawB[i]
	}

	return hex.EncodeToString(combined), nil
}
