// Package keychain converts raw 256-bit private key material into the
// wallet import format (WIF) understood by the signing node, and provides
// the derived identifiers (import labels, content fingerprints) the rest
// of the pipeline needs when handling keys.
package keychain

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/chaincfg"
)

// PrivateKeyBytes is the fixed width of a raw private key.
const PrivateKeyBytes = 32

// compressedFlag marks the key as corresponding to a compressed public
// key when appended to the raw key bytes inside a WIF string.
const compressedFlag = 0x01

// PrivateKey is a raw 256-bit private key. It is produced once per signer
// by the entropy pipeline and is immutable after creation.
type PrivateKey [PrivateKeyBytes]byte

// PrivateKeyFromHex parses a 64-character hex string, as produced by the
// entropy combiner, into a PrivateKey.
func PrivateKeyFromHex(keyHex string) (PrivateKey, error) {
	var key PrivateKey

	raw, err := hex.DecodeString(keyHex)
	if err != nil {
		return key, fmt.Errorf("invalid private key hex: %w", err)
	}
	if len(raw) != PrivateKeyBytes {
		return key, fmt.Errorf("invalid private key length: got %d "+
			"bytes, want %d", len(raw), PrivateKeyBytes)
	}

	copy(key[:], raw)
	return key, nil
}

// EncodeWIF encodes a raw private key into the base58check wire format:
// the network's private key prefix byte, the 32 key bytes, the compressed
// flag byte, and a 4-byte double-SHA256 checksum. The prefix byte differs
// between mainnet (0x80) and testnet (0xEF) and is taken from the active
// chain parameters.
func EncodeWIF(net *chaincfg.Params, key PrivateKey) string {
	payload := make([]byte, 0, PrivateKeyBytes+1)
	payload = append(payload, key[:]...)
	payload = append(payload, compressedFlag)

	return base58.CheckEncode(payload, net.PrivateKeyID)
}

// DecodeWIF recovers the raw key bytes and network prefix byte from a WIF
// string, verifying its checksum. It is the inverse of EncodeWIF and is
// used to sanity check operator-pasted keys before they are handed to the
// signer.
func DecodeWIF(wif string) (PrivateKey, byte, error) {
	var key PrivateKey

	payload, version, err := base58.CheckDecode(wif)
	if err != nil {
		return key, 0, fmt.Errorf("invalid WIF string: %w", err)
	}
	if len(payload) != PrivateKeyBytes+1 {
		return key, 0, fmt.Errorf("invalid WIF payload length: got "+
			"%d bytes, want %d", len(payload), PrivateKeyBytes+1)
	}
	if payload[PrivateKeyBytes] != compressedFlag {
		return key, 0, fmt.Errorf("unexpected compression flag byte "+
			"%#x", payload[PrivateKeyBytes])
	}

	copy(key[:], payload[:PrivateKeyBytes])
	return key, version, nil
}

// Label derives the node-side import label for a WIF key. The node only
// exposes "addresses for a label", so every key is imported under a label
// derived by hashing the key itself: repeated imports are idempotent and
// labels do not correlate across keys.
func Label(wif string) string {
	digest := sha256.Sum256([]byte(wif))
	return hex.EncodeToString(digest[:])
}

// Fingerprint returns the MD5 digest of s as lowercase hex. It is a fast
// content fingerprint printed for operator cross-referencing of exported
// artifacts and carries no security weight.
func Fingerprint(s string) string {
	digest := md5.Sum([]byte(s))
	return hex.EncodeToString(digest[:])
}
