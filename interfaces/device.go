package interfaces

import "context"

// LockState reports whether the device PIN has been validated.
type LockState interface {
	IsUnlocked() bool
}

// XpubDeriver derives key material from the device seed.
type XpubDeriver interface {
	// SerializedXpub returns the base58 serialized extended public key at path,
	// using the version bytes of the configured network.
	SerializedXpub(path DerivationPath) (string, error)

	// MasterFingerprint returns the first 4 bytes of hash160 of the compressed master public key.
	MasterFingerprint() ([4]byte, error)
}

// PathFormatter renders a derivation path for display.
type PathFormatter interface {
	FormatPath(path DerivationPath) string
}

// Confirmer asks the user to approve a public key export.
//
// ConfirmPubkey blocks until the user answers. A cancelled context, or any
// failure to obtain an answer, is reported as a denial.
type Confirmer interface {
	ConfirmPubkey(ctx context.Context, pathText string, unsafe bool, xpub string) bool
}

// PINLock is the device lock as driven by the administrative endpoints.
type PINLock interface {
	LockState
	Unlock(pin string) error
	Lock()
	RemainingAttempts() int
}
