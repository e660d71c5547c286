// Package vault derives multisig cold storage vaults from operator
// supplied entropy. A vault is an M-of-N multisig address together with
// the redemption script and the private keys that can satisfy it. Keys
// are derived deterministically from paired dice and RNG seeds so the
// same ceremony inputs always reproduce the same vault.
package vault

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/glacierprotocol/glacier/chainclient"
	"github.com/glacierprotocol/glacier/entropy"
	"github.com/glacierprotocol/glacier/keychain"
)

var (
	// ErrBadQuorum is returned when the required signer count does not
	// fit the total number of keys.
	ErrBadQuorum = errors.New("required signers must be between 1 and " +
		"the total number of keys")

	// ErrMissingKeys is returned when fewer keys than the declared
	// total have been added to the ring.
	ErrMissingKeys = errors.New("not all keys have been added")
)

// ValidateQuorum checks that an M-of-N scheme is satisfiable: at least
// one signer required, and no more signers required than keys exist.
func ValidateQuorum(required, total int) error {
	if required < 1 || total < 1 || required > total {
		return fmt.Errorf("%w: got %d of %d", ErrBadQuorum, required,
			total)
	}

	return nil
}

// MultisigDescriptor is everything an operator needs to record about a
// freshly created vault: the deposit address, the redemption script
// required to ever spend from it, and the private keys in wallet import
// format.
type MultisigDescriptor struct {
	// RequiredSigners is the number of keys that must sign a
	// withdrawal.
	RequiredSigners int

	// TotalSigners is the total number of keys in the scheme.
	TotalSigners int

	// WIFs are the derived private keys, one per signer, in the order
	// they were added.
	WIFs []string

	// Address is the multisig deposit address.
	Address string

	// RedeemScript is the hex encoded redemption script. Without it
	// the keys alone cannot spend, so it must be backed up alongside
	// the address.
	RedeemScript string
}

// KeyRing accumulates deterministically derived keys for one vault and
// resolves them into a multisig descriptor through a signing backend.
type KeyRing struct {
	netParams *chaincfg.Params
	required  int
	total     int
	wifs      []string
}

// NewKeyRing starts an empty ring for an M-of-N vault on the given
// network. The quorum is validated up front so an impossible scheme is
// rejected before any key ceremony work happens.
func NewKeyRing(netParams *chaincfg.Params, required, total int) (*KeyRing,
	error) {

	if err := ValidateQuorum(required, total); err != nil {
		return nil, err
	}

	return &KeyRing{
		netParams: netParams,
		required:  required,
		total:     total,
	}, nil
}

// AddKey derives the next private key from a dice seed and an RNG seed
// and returns its WIF encoding. The two independent entropy sources are
// hashed separately and combined by XOR, so the result is unpredictable
// as long as at least one source is honest.
func (r *KeyRing) AddKey(diceSeed, rngSeed string) (string, error) {
	if len(r.wifs) >= r.total {
		return "", fmt.Errorf("ring already holds all %d keys",
			r.total)
	}

	combined, err := entropy.Combine(
		entropy.DigestSeed(diceSeed), entropy.DigestSeed(rngSeed),
	)
	if err != nil {
		return "", fmt.Errorf("unable to combine entropy: %w", err)
	}

	key, err := keychain.PrivateKeyFromHex(combined)
	if err != nil {
		return "", fmt.Errorf("unable to derive key: %w", err)
	}

	wif := keychain.EncodeWIF(r.netParams, key)
	r.wifs = append(r.wifs, wif)

	log.Debugf("derived key %d of %d", len(r.wifs), r.total)

	return wif, nil
}

// Resolve imports every key into the signing backend, collects the
// corresponding addresses and builds the multisig descriptor of the
// requested address type. All keys must have been added first.
func (r *KeyRing) Resolve(signer chainclient.Signer,
	addrType string) (*MultisigDescriptor, error) {

	if len(r.wifs) != r.total {
		return nil, fmt.Errorf("%w: have %d of %d", ErrMissingKeys,
			len(r.wifs), r.total)
	}

	addresses := make([]string, 0, r.total)
	for _, wif := range r.wifs {
		addr, err := signer.AddressForKey(wif)
		if err != nil {
			return nil, fmt.Errorf("unable to resolve key "+
				"address: %w", err)
		}
		addresses = append(addresses, addr)
	}

	multisig, err := signer.CreateMultisig(
		r.required, addresses, addrType,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to create multisig: %w", err)
	}

	log.Infof("created %d-of-%d vault %s", r.required, r.total,
		multisig.Address)

	return &MultisigDescriptor{
		RequiredSigners: r.required,
		TotalSigners:    r.total,
		WIFs:            r.wifs,
		Address:         multisig.Address,
		RedeemScript:    multisig.RedeemScript,
	}, nil
}
