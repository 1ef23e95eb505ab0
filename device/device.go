// Package device models the PIN lock of the device.
//
// The device starts locked. Unlock validates the PIN against an argon2id hash
// kept in memory; the PIN itself is never stored. After MaxPINAttempts
// consecutive wrong PINs the device refuses every further attempt.
package device

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.uber.org/atomic"
	"golang.org/x/crypto/argon2"
)

// MaxPINAttempts is the number of consecutive wrong PINs before the device blocks.
const MaxPINAttempts = 3

const (
	minPINLength = 4
	maxPINLength = 8

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 2
	argonKeyLen  = 32
	saltLen      = 16
)

var (
	ErrInvalidPIN = errors.New("PIN must be 4 to 8 digits")
	ErrWrongPIN   = errors.New("wrong PIN")
	ErrPINBlocked = errors.New("PIN blocked after too many attempts")
)

// Device tracks whether the PIN has been validated.
type Device struct {
	unlocked atomic.Bool

	mu       sync.Mutex
	salt     []byte
	pinHash  []byte
	failures int

	log *slog.Logger
}

// New creates a locked device protected by pin.
func New(pin string, log *slog.Logger) (*Device, error) {
	if err := validatePIN(pin); err != nil {
		return nil, err
	}

	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("could not generate salt: %w", err)
	}

	return &Device{
		salt:    salt,
		pinHash: hashPIN(pin, salt),
		log:     log,
	}, nil
}

func validatePIN(pin string) error {
	if len(pin) < minPINLength || len(pin) > maxPINLength {
		return ErrInvalidPIN
	}
	for _, c := range pin {
		if c < '0' || c > '9' {
			return ErrInvalidPIN
		}
	}
	return nil
}

func hashPIN(pin string, salt []byte) []byte {
	return argon2.IDKey([]byte(pin), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// IsUnlocked reports whether the PIN has been validated since the last Lock.
func (d *Device) IsUnlocked() bool {
	return d.unlocked.Load()
}

// Unlock validates pin and unlocks the device.
func (d *Device) Unlock(pin string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.failures >= MaxPINAttempts {
		return ErrPINBlocked
	}

	if subtle.ConstantTimeCompare(hashPIN(pin, d.salt), d.pinHash) != 1 {
		d.failures++
		d.log.Warn("Wrong PIN", "remainingAttempts", MaxPINAttempts-d.failures)
		if d.failures >= MaxPINAttempts {
			return ErrPINBlocked
		}
		return ErrWrongPIN
	}

	d.failures = 0
	d.unlocked.Store(true)
	d.log.Info("Device unlocked")
	return nil
}

// Lock locks the device.
func (d *Device) Lock() {
	if d.unlocked.Swap(false) {
		d.log.Info("Device locked")
	}
}

// RemainingAttempts returns how many wrong PINs are still tolerated.
func (d *Device) RemainingAttempts() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return MaxPINAttempts - d.failures
}
