package kms

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ruteri/xpub-export-device/interfaces"
	"github.com/tyler-smith/go-bip39"
)

var (
	ErrInvalidMnemonic   = errors.New("invalid mnemonic")
	ErrSerializedTooLong = errors.New("serialized extended key exceeds maximum length")
)

// HDKMS derives BIP-32 extended keys from a device seed.
// It never exposes private key material; only neutered keys leave it.
type HDKMS struct {
	master *hdkeychain.ExtendedKey
	params *chaincfg.Params
}

// NewHDKMS creates a new instance from a raw BIP-32 seed (16 to 64 bytes).
func NewHDKMS(seed []byte, params *chaincfg.Params) (*HDKMS, error) {
	master, err := hdkeychain.NewMaster(seed, params)
	if err != nil {
		return nil, fmt.Errorf("could not create master key: %w", err)
	}
	return &HDKMS{master: master, params: params}, nil
}

// NewHDKMSFromMnemonic creates a new instance from a BIP-39 mnemonic and optional passphrase.
func NewHDKMSFromMnemonic(mnemonic, passphrase string, params *chaincfg.Params) (*HDKMS, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}
	return NewHDKMS(bip39.NewSeed(mnemonic, passphrase), params)
}

// Params returns the network the keys are serialized for.
func (k *HDKMS) Params() *chaincfg.Params {
	return k.params
}

// SerializedXpub derives the key at path and returns its base58 serialized public form.
func (k *HDKMS) SerializedXpub(path interfaces.DerivationPath) (string, error) {
	if err := path.Validate(); err != nil {
		return "", err
	}

	key := k.master
	for i, step := range path {
		child, err := key.Derive(step.Uint32())
		if err != nil {
			return "", fmt.Errorf("could not derive step %d (%s): %w", i, step, err)
		}
		key = child
	}

	pub, err := key.Neuter()
	if err != nil {
		return "", fmt.Errorf("could not neuter key: %w", err)
	}

	serialized := pub.String()
	if len(serialized) > interfaces.MaxSerializedPubkeyLength {
		return "", fmt.Errorf("%w: %d", ErrSerializedTooLong, len(serialized))
	}
	return serialized, nil
}

// MasterFingerprint returns the first 4 bytes of hash160 of the compressed master public key.
func (k *HDKMS) MasterFingerprint() ([4]byte, error) {
	var fpr [4]byte
	pubkey, err := k.master.ECPubKey()
	if err != nil {
		return fpr, fmt.Errorf("could not compute master public key: %w", err)
	}
	copy(fpr[:], btcutil.Hash160(pubkey.SerializeCompressed()))
	return fpr, nil
}
