package vault

import (
	"fmt"
	"testing"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/glacierprotocol/glacier/chainclient"
	"github.com/stretchr/testify/require"
)

const (
	testDice = "62543163252134142362243653142636514325431632521341423" +
		"622436531"
	testRng = "3014d0cd2bae2ee78bb2004f30d9d6d6e6b9a3e4"
)

// fakeSigner hands out sequential addresses for imported keys and records
// the multisig request it receives.
type fakeSigner struct {
	imported  []string
	multisigM int
	multisig  []string
	addrType  string
}

func (s *fakeSigner) AddressForKey(wif string) (string, error) {
	s.imported = append(s.imported, wif)
	return fmt.Sprintf("addr-%d", len(s.imported)), nil
}

func (s *fakeSigner) CreateMultisig(m int, addresses []string,
	addrType string) (*chainclient.MultisigResult, error) {

	s.multisigM = m
	s.multisig = addresses
	s.addrType = addrType

	return &chainclient.MultisigResult{
		Address:      "2NvaultAddress",
		RedeemScript: "5221aa21bb52ae",
	}, nil
}

func (s *fakeSigner) DecodeRawTransaction(
	string) (*btcjson.TxRawResult, error) {

	return nil, fmt.Errorf("not implemented")
}

func (s *fakeSigner) CreateRawTransaction([]chainclient.TxInput,
	[]chainclient.TxOutput) (string, error) {

	return "", fmt.Errorf("not implemented")
}

func (s *fakeSigner) SignRawTransactionWithKey(string, []string,
	[]chainclient.SigningInput) (*chainclient.SignedTx, error) {

	return nil, fmt.Errorf("not implemented")
}

// TestValidateQuorum asserts that only satisfiable m-of-n schemes pass.
func TestValidateQuorum(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateQuorum(1, 2))
	require.NoError(t, ValidateQuorum(4, 4))

	require.ErrorIs(t, ValidateQuorum(0, 2), ErrBadQuorum)
	require.ErrorIs(t, ValidateQuorum(3, 2), ErrBadQuorum)
	require.ErrorIs(t, ValidateQuorum(1, 0), ErrBadQuorum)
	require.ErrorIs(t, ValidateQuorum(-1, -1), ErrBadQuorum)
}

// TestNewKeyRingRejectsBadQuorum asserts that an impossible scheme is
// rejected before any key is derived or any node call is made.
func TestNewKeyRingRejectsBadQuorum(t *testing.T) {
	t.Parallel()

	_, err := NewKeyRing(&chaincfg.TestNet3Params, 3, 2)
	require.ErrorIs(t, err, ErrBadQuorum)
}

// TestAddKeyDeterministic asserts that the same seed pair always derives
// the same key, and that different seeds derive different keys.
func TestAddKeyDeterministic(t *testing.T) {
	t.Parallel()

	ringA, err := NewKeyRing(&chaincfg.TestNet3Params, 1, 2)
	require.NoError(t, err)
	ringB, err := NewKeyRing(&chaincfg.TestNet3Params, 1, 2)
	require.NoError(t, err)

	wifA, err := ringA.AddKey(testDice, testRng)
	require.NoError(t, err)
	wifB, err := ringB.AddKey(testDice, testRng)
	require.NoError(t, err)
	require.Equal(t, wifA, wifB)

	// A different RNG seed must change the key.
	wifC, err := ringA.AddKey(testDice, "00ff")
	require.NoError(t, err)
	require.NotEqual(t, wifA, wifC)

	// The ring is full now.
	_, err = ringA.AddKey(testDice, testRng)
	require.Error(t, err)
}

// TestResolve walks a 1-of-2 vault through key import and multisig
// assembly against a fake node.
func TestResolve(t *testing.T) {
	t.Parallel()

	ring, err := NewKeyRing(&chaincfg.TestNet3Params, 1, 2)
	require.NoError(t, err)

	signer := &fakeSigner{}

	// Resolving before all keys exist is rejected.
	_, err = ring.Resolve(signer, chainclient.AddrTypeP2SHSegwit)
	require.ErrorIs(t, err, ErrMissingKeys)

	wif1, err := ring.AddKey(testDice, testRng)
	require.NoError(t, err)
	wif2, err := ring.AddKey(testDice, "00ff")
	require.NoError(t, err)

	desc, err := ring.Resolve(signer, chainclient.AddrTypeBech32)
	require.NoError(t, err)

	// Both keys were imported in order, and the multisig request used
	// the addresses the node returned for them.
	require.Equal(t, []string{wif1, wif2}, signer.imported)
	require.Equal(t, 1, signer.multisigM)
	require.Equal(t, []string{"addr-1", "addr-2"}, signer.multisig)
	require.Equal(t, chainclient.AddrTypeBech32, signer.addrType)

	require.Equal(t, 1, desc.RequiredSigners)
	require.Equal(t, 2, desc.TotalSigners)
	require.Equal(t, []string{wif1, wif2}, desc.WIFs)
	require.Equal(t, "2NvaultAddress", desc.Address)
	require.Equal(t, "5221aa21bb52ae", desc.RedeemScript)
}
