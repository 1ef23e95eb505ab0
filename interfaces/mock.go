package interfaces

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockLockState mocks the LockState interface
type MockLockState struct {
	mock.Mock
}

// IsUnlocked mocks the IsUnlocked method
func (m *MockLockState) IsUnlocked() bool {
	args := m.Called()
	return args.Bool(0)
}

// MockXpubDeriver mocks the XpubDeriver interface
type MockXpubDeriver struct {
	mock.Mock
}

// SerializedXpub mocks the SerializedXpub method
func (m *MockXpubDeriver) SerializedXpub(path DerivationPath) (string, error) {
	args := m.Called(path)
	return args.String(0), args.Error(1)
}

// MasterFingerprint mocks the MasterFingerprint method
func (m *MockXpubDeriver) MasterFingerprint() ([4]byte, error) {
	args := m.Called()
	return args.Get(0).([4]byte), args.Error(1)
}

// MockConfirmer mocks the Confirmer interface
type MockConfirmer struct {
	mock.Mock
}

// ConfirmPubkey mocks the ConfirmPubkey method
func (m *MockConfirmer) ConfirmPubkey(ctx context.Context, pathText string, unsafe bool, xpub string) bool {
	args := m.Called(ctx, pathText, unsafe, xpub)
	return args.Bool(0)
}

// MockPINLock mocks the PINLock interface
type MockPINLock struct {
	mock.Mock
}

// IsUnlocked mocks the IsUnlocked method
func (m *MockPINLock) IsUnlocked() bool {
	args := m.Called()
	return args.Bool(0)
}

// Unlock mocks the Unlock method
func (m *MockPINLock) Unlock(pin string) error {
	args := m.Called(pin)
	return args.Error(0)
}

// Lock mocks the Lock method
func (m *MockPINLock) Lock() {
	m.Called()
}

// RemainingAttempts mocks the RemainingAttempts method
func (m *MockPINLock) RemainingAttempts() int {
	args := m.Called()
	return args.Int(0)
}
