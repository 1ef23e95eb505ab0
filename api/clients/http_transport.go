package clients

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/stretchr/testify/mock"

	"github.com/ruteri/xpub-export-device/apdu"
	"github.com/ruteri/xpub-export-device/api"
)

// HTTPTransport implements Transport against the device HTTP server.
type HTTPTransport struct {
	// ServerAddr is the base URL of the device server
	ServerAddr string

	// Client is used for requests, http.DefaultClient when nil
	Client *http.Client
}

func (t *HTTPTransport) client() *http.Client {
	if t.Client != nil {
		return t.Client
	}
	return http.DefaultClient
}

func (t *HTTPTransport) postJSON(ctx context.Context, endpoint string, body any, out any) error {
	reqBytes, err := json.Marshal(body)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s%s", t.ServerAddr, endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBytes))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client().Do(req)
	if err != nil {
		return fmt.Errorf("could not request %s endpoint: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("%s endpoint returned non-200 response: %d", endpoint, resp.StatusCode)
		}
		return fmt.Errorf("%s endpoint returned error %d: %s", endpoint, resp.StatusCode, string(bytes.TrimSpace(bodyBytes)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("could not parse %s response: %w", endpoint, err)
	}
	return nil
}

// Exchange posts the encoded command to /apdu and decodes the response frame.
func (t *HTTPTransport) Exchange(ctx context.Context, cmd *apdu.Command) (apdu.Response, error) {
	raw, err := cmd.Bytes()
	if err != nil {
		return apdu.Response{}, err
	}

	var parsed api.APDUResponse
	if err := t.postJSON(ctx, "/apdu", &api.APDURequest{Data: hex.EncodeToString(raw)}, &parsed); err != nil {
		return apdu.Response{}, err
	}

	frame, err := hex.DecodeString(parsed.Data)
	if err != nil {
		return apdu.Response{}, fmt.Errorf("could not decode response frame: %w", err)
	}
	return apdu.ParseResponse(frame)
}

// Lock locks the device.
func (t *HTTPTransport) Lock(ctx context.Context) (*api.DeviceStatus, error) {
	var status api.DeviceStatus
	if err := t.postJSON(ctx, "/admin/lock", struct{}{}, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Unlock submits the PIN to the device.
// A wrong PIN is reported by the server as an error response.
func (t *HTTPTransport) Unlock(ctx context.Context, pin string) (*api.DeviceStatus, error) {
	var status api.DeviceStatus
	if err := t.postJSON(ctx, "/admin/unlock", &api.UnlockRequest{PIN: pin}, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// MockTransport implements a mock Transport for testing.
type MockTransport struct {
	mock.Mock
}

// Exchange implements the Transport interface for testing.
func (m *MockTransport) Exchange(ctx context.Context, cmd *apdu.Command) (apdu.Response, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(apdu.Response), args.Error(1)
}
