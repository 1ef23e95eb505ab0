// Package config loads the device profile: network, seed and PIN.
//
// Values come from a YAML file and can be overridden by the environment:
//
//	network: mainnet        # mainnet, testnet or regtest
//	mnemonic: "abandon ..."
//	passphrase: ""
//	pin: "1234"
//
// XPUB_DEVICE_NETWORK, XPUB_DEVICE_MNEMONIC, XPUB_DEVICE_PASSPHRASE and
// XPUB_DEVICE_PIN take precedence over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
	"gopkg.in/yaml.v3"

	"github.com/ruteri/xpub-export-device/interfaces"
)

const (
	EnvNetwork    = "XPUB_DEVICE_NETWORK"
	EnvMnemonic   = "XPUB_DEVICE_MNEMONIC"
	EnvPassphrase = "XPUB_DEVICE_PASSPHRASE"
	EnvPIN        = "XPUB_DEVICE_PIN"
)

var (
	ErrUnknownNetwork  = errors.New("unknown network")
	ErrMissingMnemonic = errors.New("mnemonic is required")
)

// Network describes the chain the device serves.
type Network struct {
	Name      string
	Params    *chaincfg.Params
	CoinTypes interfaces.CoinTypes
}

var networks = map[string]Network{
	"mainnet": {Name: "mainnet", Params: &chaincfg.MainNetParams, CoinTypes: interfaces.CoinTypes{0, 0}},
	"testnet": {Name: "testnet", Params: &chaincfg.TestNet3Params, CoinTypes: interfaces.CoinTypes{1, 1}},
	"regtest": {Name: "regtest", Params: &chaincfg.RegressionNetParams, CoinTypes: interfaces.CoinTypes{1, 1}},
}

// LookupNetwork returns the network called name.
func LookupNetwork(name string) (Network, error) {
	n, ok := networks[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Network{}, fmt.Errorf("%w: %q", ErrUnknownNetwork, name)
	}
	return n, nil
}

// DeviceConfig is the device profile.
type DeviceConfig struct {
	Network    string `yaml:"network"`
	Mnemonic   string `yaml:"mnemonic"`
	Passphrase string `yaml:"passphrase"`
	PIN        string `yaml:"pin"`
}

// Default returns a mainnet profile with no seed.
func Default() *DeviceConfig {
	return &DeviceConfig{Network: "mainnet"}
}

// Load reads the profile at path, or starts from Default when path is empty,
// then applies environment overrides.
func Load(path string) (*DeviceConfig, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("could not read config: %w", err)
		}

		var parsed DeviceConfig
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return nil, fmt.Errorf("could not parse config %s: %w", path, err)
		}
		Merge(cfg, &parsed)
	}

	ApplyEnvOverrides(cfg)
	return cfg, nil
}

// Merge copies the non-empty fields of src into dst.
func Merge(dst, src *DeviceConfig) {
	if src.Network != "" {
		dst.Network = src.Network
	}
	if src.Mnemonic != "" {
		dst.Mnemonic = src.Mnemonic
	}
	if src.Passphrase != "" {
		dst.Passphrase = src.Passphrase
	}
	if src.PIN != "" {
		dst.PIN = src.PIN
	}
}

func ApplyEnvOverrides(cfg *DeviceConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvNetwork)); v != "" {
		cfg.Network = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvMnemonic)); v != "" {
		cfg.Mnemonic = v
	}
	// passphrases may carry meaningful whitespace
	if v := os.Getenv(EnvPassphrase); v != "" {
		cfg.Passphrase = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvPIN)); v != "" {
		cfg.PIN = v
	}
}

// Validate checks the network and the presence of a mnemonic.
// The PIN may be empty; it is then prompted for at startup.
func (c *DeviceConfig) Validate() (Network, error) {
	n, err := LookupNetwork(c.Network)
	if err != nil {
		return Network{}, err
	}
	if strings.TrimSpace(c.Mnemonic) == "" {
		return Network{}, ErrMissingMnemonic
	}
	return n, nil
}
