package pathpolicy

import (
	"testing"

	"github.com/ruteri/xpub-export-device/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	mainnetCoins = interfaces.CoinTypes{0, 0}
	testnetCoins = interfaces.CoinTypes{1, 1}
)

func mustPath(t *testing.T, s string) interfaces.DerivationPath {
	t.Helper()
	path, err := interfaces.ParseDerivationPath(s)
	require.NoError(t, err)
	return path
}

func TestIsSafe(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		coins interfaces.CoinTypes
		safe  bool
	}{
		{"bip44 account", "m/44'/0'/0'", mainnetCoins, true},
		{"bip44 receive address", "m/44'/0'/0'/0/5", mainnetCoins, true},
		{"bip49", "m/49'/0'/1'", mainnetCoins, true},
		{"bip84", "m/84'/0'/2'/1", mainnetCoins, true},
		{"bip86", "m/86'/0'/0'", mainnetCoins, true},
		{"bip45 deployed layout", "m/45'/0'/0'", mainnetCoins, true},
		{"bip48 p2sh-p2wsh", "m/48'/0'/0'/1'", mainnetCoins, true},
		{"bip48 p2wsh", "m/48'/0'/0'/2'/0/0", mainnetCoins, true},
		{"testnet coin", "m/84'/1'/0'", testnetCoins, true},
		{"account at max", "m/44'/0'/100'", mainnetCoins, true},

		{"master", "m", mainnetCoins, false},
		{"one step", "m/44'", mainnetCoins, false},
		{"two steps", "m/44'/0'", mainnetCoins, false},
		{"unknown purpose", "m/1'/0'/0'", mainnetCoins, false},
		{"purpose 47", "m/47'/0'/0'", mainnetCoins, false},
		{"unhardened purpose", "m/44/0'/0'", mainnetCoins, false},
		{"unhardened coin type", "m/44'/0/0'", mainnetCoins, false},
		{"unhardened account", "m/44'/0'/0", mainnetCoins, false},
		{"hardened change", "m/44'/0'/0'/0'", mainnetCoins, false},
		{"hardened address index", "m/84'/0'/0'/0/1'", mainnetCoins, false},
		{"wrong coin type", "m/44'/60'/0'", mainnetCoins, false},
		{"mainnet coin on testnet", "m/44'/0'/0'", testnetCoins, false},
		{"account over max", "m/44'/0'/101'", mainnetCoins, false},
		{"huge account", "m/44'/0'/50000000'", mainnetCoins, false},
		{"bip48 too short", "m/48'/0'/0'", mainnetCoins, false},
		{"bip48 unhardened script type", "m/48'/0'/0'/2", mainnetCoins, false},
		{"bip48 script type 0", "m/48'/0'/0'/0'", mainnetCoins, false},
		{"bip48 script type 3", "m/48'/0'/0'/3'", mainnetCoins, false},
		{"bip48 hardened fifth step", "m/48'/0'/0'/2'/0'", mainnetCoins, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.safe, IsSafe(mustPath(t, tt.path), tt.coins))
		})
	}
}

func TestIsSafe_LegacyPaths(t *testing.T) {
	legacy := []string{
		"m/44'/88'/4541509'/1112098098'",
		"m/0'/45342'",
		"m/20698'/3053'/12648430'",
	}

	// legacy paths ignore the coin types and the account bound
	for _, coins := range []interfaces.CoinTypes{mainnetCoins, testnetCoins, {2, 3}} {
		for _, p := range legacy {
			path := mustPath(t, p)
			assert.True(t, IsLegacyPath(path), p)
			assert.True(t, IsSafe(path, coins), p)
		}
	}
}

func TestIsSafe_LegacyPathsAreExact(t *testing.T) {
	nearMisses := []string{
		// extra step
		"m/44'/88'/4541509'/1112098098'/0",
		// unhardened step
		"m/0'/45342",
		"m/20698'/3053'/12648430",
		// prefix only
		"m/20698'/3053'",
		"m/0'",
	}
	for _, p := range nearMisses {
		path := mustPath(t, p)
		assert.False(t, IsLegacyPath(path), p)
		assert.False(t, IsSafe(path, mainnetCoins), p)
	}
}

func TestIsSafe_ShortPathsAreUnsafe(t *testing.T) {
	steps := []interfaces.PathStep{interfaces.Hard(44), interfaces.Hard(0), interfaces.Soft(0)}
	for n := 0; n < 3; n++ {
		path := interfaces.DerivationPath(steps[:n])
		assert.False(t, IsSafe(path, mainnetCoins), path.String())
	}
	assert.False(t, IsSafe(nil, mainnetCoins))
}

func TestIsSafe_HardenedPrefixShape(t *testing.T) {
	for _, purpose := range []uint32{PurposeBIP44, PurposeBIP45, PurposeBIP49, PurposeBIP84, PurposeBIP86, PurposeBIP48} {
		prefixLen, ok := hardenedPrefixLen(purpose)
		require.True(t, ok)

		// build the longest standard path for the purpose
		path := make(interfaces.DerivationPath, interfaces.MaxPathSteps)
		path[0] = interfaces.Hard(purpose)
		path[1] = interfaces.Hard(0)
		path[2] = interfaces.Hard(0)
		for i := 3; i < len(path); i++ {
			if i < prefixLen {
				path[i] = interfaces.Hard(2)
			} else {
				path[i] = interfaces.Soft(uint32(i))
			}
		}
		require.True(t, IsSafe(path, mainnetCoins), path.String())

		// flipping the hardening of any step makes it unsafe
		for i := range path {
			flipped := make(interfaces.DerivationPath, len(path))
			copy(flipped, path)
			flipped[i].Hardened = !flipped[i].Hardened
			assert.False(t, IsSafe(flipped, mainnetCoins), flipped.String())
		}
	}
}

func TestPolicy(t *testing.T) {
	policy := NewPolicy(testnetCoins)
	assert.True(t, policy.IsSafe(mustPath(t, "m/86'/1'/0'")))
	assert.False(t, policy.IsSafe(mustPath(t, "m/86'/0'/0'")))
}
