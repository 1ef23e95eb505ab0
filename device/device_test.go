package device

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDevice(t *testing.T) *Device {
	d, err := New("1234", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return d
}

func TestDevice_StartsLocked(t *testing.T) {
	d := newTestDevice(t)
	assert.False(t, d.IsUnlocked())
}

func TestDevice_UnlockAndLock(t *testing.T) {
	d := newTestDevice(t)

	require.NoError(t, d.Unlock("1234"))
	assert.True(t, d.IsUnlocked())

	d.Lock()
	assert.False(t, d.IsUnlocked())
}

func TestDevice_WrongPIN(t *testing.T) {
	d := newTestDevice(t)

	assert.ErrorIs(t, d.Unlock("0000"), ErrWrongPIN)
	assert.False(t, d.IsUnlocked())
	assert.Equal(t, MaxPINAttempts-1, d.RemainingAttempts())

	// a correct PIN resets the counter
	require.NoError(t, d.Unlock("1234"))
	assert.Equal(t, MaxPINAttempts, d.RemainingAttempts())
}

func TestDevice_BlocksAfterMaxAttempts(t *testing.T) {
	d := newTestDevice(t)

	for i := 0; i < MaxPINAttempts-1; i++ {
		assert.ErrorIs(t, d.Unlock("9999"), ErrWrongPIN)
	}
	assert.ErrorIs(t, d.Unlock("9999"), ErrPINBlocked)

	assert.ErrorIs(t, d.Unlock("1234"), ErrPINBlocked)
	assert.False(t, d.IsUnlocked())
	assert.Equal(t, 0, d.RemainingAttempts())
}

func TestNew_InvalidPIN(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	for _, pin := range []string{"", "123", "123456789", "12a4"} {
		_, err := New(pin, log)
		assert.ErrorIs(t, err, ErrInvalidPIN, pin)
	}
}
