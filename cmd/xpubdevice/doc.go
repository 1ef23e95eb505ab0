// Command xpub-device simulates a hardware wallet that exports extended
// public keys over HTTP.
//
// The seed, network and PIN come from a YAML profile (--config) and the
// XPUB_DEVICE_* environment variables. When no PIN is configured it is
// prompted for on the terminal. Confirmation prompts are shown on the
// terminal unless --auto-approve or --auto-deny is given.
//
// Example usage:
//
//	XPUB_DEVICE_MNEMONIC="abandon ... about" xpub-device --listen-addr 127.0.0.1:8080 --unlocked
package main
