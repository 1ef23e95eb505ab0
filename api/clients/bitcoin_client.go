package clients

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"

	"github.com/ruteri/xpub-export-device/apdu"
	"github.com/ruteri/xpub-export-device/api/xpubhandler"
	"github.com/ruteri/xpub-export-device/interfaces"
)

// UnexpectedResultError is returned when the device answers SwOK with data
// that cannot be interpreted as the reply of the instruction.
type UnexpectedResultError struct {
	Ins  byte
	Data []byte
}

func (e *UnexpectedResultError) Error() string {
	return fmt.Sprintf("unexpected result for instruction 0x%02x: %s", e.Ins, hex.EncodeToString(e.Data))
}

// Transport delivers one command to the device and returns its reply.
type Transport interface {
	Exchange(ctx context.Context, cmd *apdu.Command) (apdu.Response, error)
}

// MuxTransport serves commands with an in-process dispatcher.
type MuxTransport struct {
	Mux *apdu.Mux
}

func (t *MuxTransport) Exchange(ctx context.Context, cmd *apdu.Command) (apdu.Response, error) {
	raw, err := cmd.Bytes()
	if err != nil {
		return apdu.Response{}, err
	}
	return apdu.ParseResponse(t.Mux.Exchange(ctx, raw))
}

// BitcoinClient issues the public key export commands.
type BitcoinClient struct {
	transport Transport
}

// NewBitcoinClient creates a client sending commands through transport.
func NewBitcoinClient(transport Transport) *BitcoinClient {
	return &BitcoinClient{transport: transport}
}

func (c *BitcoinClient) makeRequest(ctx context.Context, ins byte, data []byte) ([]byte, error) {
	cmd := &apdu.Command{
		CLA:  apdu.CLA,
		INS:  ins,
		P1:   0,
		P2:   apdu.ProtocolVersion,
		Data: data,
	}

	resp, err := c.transport.Exchange(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("could not exchange command 0x%02x: %w", ins, err)
	}
	if resp.Status != apdu.SwOK {
		return nil, &apdu.StatusError{Ins: ins, Status: resp.Status}
	}
	return resp.Data, nil
}

// GetExtendedPubkey requests the extended public key at path.
// With display set the device shows the key and waits for the user's approval.
//
// Returns:
//   - The parsed extended public key
//   - *apdu.StatusError if the device refused the request
//   - *UnexpectedResultError if the reply is not a valid extended key
func (c *BitcoinClient) GetExtendedPubkey(ctx context.Context, path interfaces.DerivationPath, display bool) (*hdkeychain.ExtendedKey, error) {
	if err := path.Validate(); err != nil {
		return nil, err
	}

	req := &xpubhandler.ExportRequest{Display: display, Path: path}
	data, err := c.makeRequest(ctx, xpubhandler.InsGetExtendedPubkey, req.Bytes())
	if err != nil {
		return nil, err
	}

	key, err := hdkeychain.NewKeyFromString(string(data))
	if err != nil || key.IsPrivate() {
		return nil, &UnexpectedResultError{Ins: xpubhandler.InsGetExtendedPubkey, Data: data}
	}
	return key, nil
}

// GetMasterFingerprint requests the fingerprint of the master public key.
func (c *BitcoinClient) GetMasterFingerprint(ctx context.Context) ([4]byte, error) {
	var fpr [4]byte
	data, err := c.makeRequest(ctx, xpubhandler.InsGetMasterFingerprint, nil)
	if err != nil {
		return fpr, err
	}
	if len(data) != len(fpr) {
		return fpr, &UnexpectedResultError{Ins: xpubhandler.InsGetMasterFingerprint, Data: data}
	}
	copy(fpr[:], data)
	return fpr, nil
}

// IsDenied reports whether err is the device reporting that the user
// rejected the request.
func IsDenied(err error) bool {
	var swErr *apdu.StatusError
	return errors.As(err, &swErr) && swErr.Status == apdu.SwDeny
}
