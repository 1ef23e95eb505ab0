package clients

import (
	"context"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ruteri/xpub-export-device/apdu"
	"github.com/ruteri/xpub-export-device/api/xpubhandler"
	"github.com/ruteri/xpub-export-device/device"
	"github.com/ruteri/xpub-export-device/interfaces"
	"github.com/ruteri/xpub-export-device/kms"
	"github.com/ruteri/xpub-export-device/ui"
)

const (
	vectorMasterXpub = "xpub661MyMwAqRbcFtXgS5sYJABqqG9YLmC4Q1Rdap9gSE8NqtwybGhePY2gZ29ESFjqJoCu1Rupje8YtGqsefD265TMg7usUDFdp6W1EGMcet8"
	vectorChild0H    = "xpub68Gmy5EdvgibQVfPdqkBBCHxA5htiqg55crXYuXoQRKfDBFA1WEjWgP6LHhwBZeNK1VTsfTFUHCdrfp1bgwQ9xv5ski8PX9rL2dZXvgGDnw"
	testPIN          = "1234"
)

func setupDevice(t *testing.T, approve bool) (*BitcoinClient, *device.Device) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	seed, err := hex.DecodeString("000102030405060708090a0b0c0d0e0f")
	require.NoError(t, err)
	keys, err := kms.NewHDKMS(seed, &chaincfg.MainNetParams)
	require.NoError(t, err)

	dev, err := device.New(testPIN, logger)
	require.NoError(t, err)
	require.NoError(t, dev.Unlock(testPIN))

	mux := apdu.NewMux(apdu.CLA, logger)
	handler := xpubhandler.NewHandler(dev, keys, ui.PathFormatter{}, ui.StaticConfirmer{Approve: approve}, interfaces.CoinTypes{0, 0}, logger)
	handler.RegisterRoutes(mux)

	return NewBitcoinClient(&MuxTransport{Mux: mux}), dev
}

func mustPath(t *testing.T, s string) interfaces.DerivationPath {
	p, err := interfaces.ParseDerivationPath(s)
	require.NoError(t, err)
	return p
}

func TestGetExtendedPubkey_MasterWithDisplay(t *testing.T) {
	client, _ := setupDevice(t, true)

	key, err := client.GetExtendedPubkey(context.Background(), interfaces.DerivationPath{}, true)
	require.NoError(t, err)
	assert.Equal(t, vectorMasterXpub, key.String())
	assert.False(t, key.IsPrivate())
}

func TestGetExtendedPubkey_UnsafeRequiresDisplay(t *testing.T) {
	client, _ := setupDevice(t, true)

	_, err := client.GetExtendedPubkey(context.Background(), mustPath(t, "m/0'"), false)
	var swErr *apdu.StatusError
	require.ErrorAs(t, err, &swErr)
	assert.Equal(t, apdu.SwNotSupported, swErr.Status)
	assert.Equal(t, xpubhandler.InsGetExtendedPubkey, swErr.Ins)

	key, err := client.GetExtendedPubkey(context.Background(), mustPath(t, "m/0'"), true)
	require.NoError(t, err)
	assert.Equal(t, vectorChild0H, key.String())
}

func TestGetExtendedPubkey_Denied(t *testing.T) {
	client, _ := setupDevice(t, false)

	_, err := client.GetExtendedPubkey(context.Background(), mustPath(t, "m/84'/0'/0'"), true)
	require.Error(t, err)
	assert.True(t, IsDenied(err))
}

func TestGetExtendedPubkey_SafePathSilent(t *testing.T) {
	client, _ := setupDevice(t, false)

	key, err := client.GetExtendedPubkey(context.Background(), mustPath(t, "m/84'/0'/0'"), false)
	require.NoError(t, err)
	assert.Equal(t, "xpub", key.String()[:4])
	assert.Equal(t, uint8(3), key.Depth())
}

func TestGetExtendedPubkey_Locked(t *testing.T) {
	client, dev := setupDevice(t, true)
	dev.Lock()

	_, err := client.GetExtendedPubkey(context.Background(), mustPath(t, "m/84'/0'/0'"), false)
	var swErr *apdu.StatusError
	require.ErrorAs(t, err, &swErr)
	assert.Equal(t, apdu.SwSecurityStatusNotSatisfied, swErr.Status)
	assert.False(t, IsDenied(err))
}

func TestGetExtendedPubkey_PathTooLong(t *testing.T) {
	client, _ := setupDevice(t, true)

	path := make(interfaces.DerivationPath, interfaces.MaxPathSteps+1)
	_, err := client.GetExtendedPubkey(context.Background(), path, true)
	assert.ErrorIs(t, err, interfaces.ErrPathTooLong)
}

func TestGetMasterFingerprint(t *testing.T) {
	client, _ := setupDevice(t, false)

	fpr, err := client.GetMasterFingerprint(context.Background())
	require.NoError(t, err)
	assert.Equal(t, [4]byte{0x34, 0x42, 0x19, 0x3e}, fpr)
}

func TestUnexpectedResults(t *testing.T) {
	transport := new(MockTransport)
	client := NewBitcoinClient(transport)

	transport.On("Exchange", mock.Anything, mock.MatchedBy(func(cmd *apdu.Command) bool {
		return cmd.INS == xpubhandler.InsGetExtendedPubkey
	})).Return(apdu.Response{Data: []byte("not an xpub"), Status: apdu.SwOK}, nil)
	transport.On("Exchange", mock.Anything, mock.MatchedBy(func(cmd *apdu.Command) bool {
		return cmd.INS == xpubhandler.InsGetMasterFingerprint
	})).Return(apdu.Response{Data: []byte{1, 2, 3}, Status: apdu.SwOK}, nil)

	_, err := client.GetExtendedPubkey(context.Background(), mustPath(t, "m/84'/0'/0'"), false)
	var unexpected *UnexpectedResultError
	require.ErrorAs(t, err, &unexpected)
	assert.Equal(t, xpubhandler.InsGetExtendedPubkey, unexpected.Ins)
	assert.Equal(t, []byte("not an xpub"), unexpected.Data)

	_, err = client.GetMasterFingerprint(context.Background())
	require.ErrorAs(t, err, &unexpected)
	assert.Equal(t, xpubhandler.InsGetMasterFingerprint, unexpected.Ins)

	transport.AssertExpectations(t)
}

func TestTransportFailure(t *testing.T) {
	transport := new(MockTransport)
	client := NewBitcoinClient(transport)
	failure := errors.New("device unplugged")

	transport.On("Exchange", mock.Anything, mock.Anything).Return(apdu.Response{}, failure)

	_, err := client.GetMasterFingerprint(context.Background())
	assert.ErrorIs(t, err, failure)
}

func TestCommandFraming(t *testing.T) {
	transport := new(MockTransport)
	client := NewBitcoinClient(transport)

	var sent *apdu.Command
	transport.On("Exchange", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).(*apdu.Command) }).
		Return(apdu.Response{Status: apdu.SwDeny}, nil)

	_, err := client.GetExtendedPubkey(context.Background(), mustPath(t, "m/44'/0'/0'/0/1"), true)
	require.True(t, IsDenied(err))

	require.NotNil(t, sent)
	assert.Equal(t, apdu.CLA, sent.CLA)
	assert.Equal(t, byte(0), sent.P1)
	assert.Equal(t, apdu.ProtocolVersion, sent.P2)
	assert.Equal(t, []byte{
		0x01, 0x05,
		0x80, 0x00, 0x00, 0x2c,
		0x80, 0x00, 0x00, 0x00,
		0x80, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x01,
	}, sent.Data)
}
