// Package pathpolicy decides whether a derivation path is safe to export
// without asking the user.
//
// A path is safe when it follows one of the standard layouts
// (BIP-44, BIP-45, BIP-48, BIP-49, BIP-84, BIP-86) for one of the accepted coin
// types with a reasonably small account number, or when it is one of a handful
// of historical paths used by deployed third-party wallets.
//
// Everything else is unsafe: the device only exports it after the user has
// seen the path and the key on screen and approved them.
package pathpolicy

import (
	"github.com/ruteri/xpub-export-device/interfaces"
)

// MaxRecommendedAccount is the largest account index exported without confirmation.
const MaxRecommendedAccount = 100

// Purposes of the standard layouts.
const (
	PurposeBIP44 uint32 = 44
	PurposeBIP45 uint32 = 45
	PurposeBIP48 uint32 = 48
	PurposeBIP49 uint32 = 49
	PurposeBIP84 uint32 = 84
	PurposeBIP86 uint32 = 86
)

// legacyPaths are exported without confirmation regardless of the coin types.
// This list is closed; do not add entries derived from a rule.
var legacyPaths = []interfaces.DerivationPath{
	// Qtum Electrum encryption keys
	{interfaces.Hard(44), interfaces.Hard(88), interfaces.Hard(4541509), interfaces.Hard(1112098098)},
	{interfaces.Hard(0), interfaces.Hard(45342)},
	{interfaces.Hard(20698), interfaces.Hard(3053), interfaces.Hard(12648430)},
}

// hardenedPrefixLen returns how many leading steps a standard path of the given
// purpose derives with hardening, or false if the purpose is not recognized.
func hardenedPrefixLen(purpose uint32) (int, bool) {
	switch purpose {
	case PurposeBIP44, PurposeBIP49, PurposeBIP84, PurposeBIP86:
		return 3, true
	case PurposeBIP45:
		// BIP-45 only prescribes m/45', deployed wallets use m/45'/coin_type'/account'
		return 3, true
	case PurposeBIP48:
		return 4, true
	default:
		return 0, false
	}
}

// IsLegacyPath reports whether path is one of the historical allow-listed paths.
func IsLegacyPath(path interfaces.DerivationPath) bool {
	for _, legacy := range legacyPaths {
		if path.Equal(legacy) {
			return true
		}
	}
	return false
}

// IsSafe reports whether the extended public key at path can be exported
// without user confirmation.
func IsSafe(path interfaces.DerivationPath, coinTypes interfaces.CoinTypes) bool {
	if IsLegacyPath(path) {
		return true
	}

	if len(path) < 3 {
		return false
	}

	purpose := path[0].Index
	prefixLen, ok := hardenedPrefixLen(purpose)
	if !ok {
		return false
	}

	// the path may have more unhardened steps, never fewer hardened ones
	if len(path) < prefixLen {
		return false
	}

	for i, step := range path {
		if step.Hardened != (i < prefixLen) {
			return false
		}
	}

	if !coinTypes.Contains(path[1].Index) {
		return false
	}

	if path[2].Index > MaxRecommendedAccount {
		return false
	}

	// BIP-48 script types: 1' is P2SH-P2WSH, 2' is P2WSH
	if purpose == PurposeBIP48 {
		scriptType := path[3].Index
		if scriptType != 1 && scriptType != 2 {
			return false
		}
	}

	return true
}

// Policy binds IsSafe to a fixed pair of accepted coin types.
type Policy struct {
	CoinTypes interfaces.CoinTypes
}

// NewPolicy creates a policy accepting the given coin types.
func NewPolicy(coinTypes interfaces.CoinTypes) *Policy {
	return &Policy{CoinTypes: coinTypes}
}

// IsSafe applies IsSafe with the policy's coin types.
func (p *Policy) IsSafe(path interfaces.DerivationPath) bool {
	return IsSafe(path, p.CoinTypes)
}
