// Package interfaces defines the core types and collaborator contracts of the
// xpub export device, separating definitions from implementations.
//
// # Types
//
// PathStep and DerivationPath model BIP-32 paths with hardening carried as a
// flag instead of the top bit of the index. The wire form (top bit set for
// hardened steps) is available through Raw and NewDerivationPath, and the text
// form ("m/84'/0'/0'") through String and ParseDerivationPath. A request path
// holds at most MaxPathSteps steps.
//
// CoinTypes is the pair of coin types a device accepts for exports that need
// no confirmation.
//
// # Collaborators
//
//   - LockState: whether the PIN has been validated
//   - PINLock: LockState plus the operations of the admin endpoints
//   - XpubDeriver: key derivation and serialization from the device seed
//   - PathFormatter: path rendering for the confirmation screen
//   - Confirmer: the blocking approve/deny prompt
//
// Testify based mocks for each collaborator live in mock.go.
package interfaces
