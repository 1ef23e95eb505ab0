package httpserver

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ruteri/xpub-export-device/apdu"
	"github.com/ruteri/xpub-export-device/api"
	"github.com/ruteri/xpub-export-device/device"
	"github.com/ruteri/xpub-export-device/interfaces"
)

// maxBodySize bounds request bodies. A hex encoded short APDU is at most 520 characters.
const maxBodySize = 16 * 1024

// RequestError provides structured error information for HTTP responses.
// It includes both an HTTP status code and the underlying error.
type RequestError struct {
	// StatusCode is the HTTP status code to return.
	StatusCode int

	// Err is the underlying error.
	Err error
}

// Error returns the error message from the underlying error.
func (e *RequestError) Error() string {
	return e.Err.Error()
}

// Handler exposes the device over HTTP.
// Device level refusals travel inside the APDU status word; HTTP errors are
// reserved for requests that never reached the device.
type Handler struct {
	mux  *apdu.Mux
	lock interfaces.PINLock
	log  *slog.Logger
}

// NewHandler creates a new HTTP request handler.
//
// Parameters:
//   - mux: dispatcher serving the device commands
//   - lock: the device PIN lock, driven by the admin endpoints
//   - log: structured logger
func NewHandler(mux *apdu.Mux, lock interfaces.PINLock, log *slog.Logger) *Handler {
	return &Handler{
		mux:  mux,
		lock: lock,
		log:  log,
	}
}

// HandleAPDU forwards one command to the device.
//
// URL format: POST /apdu
// Request body: {"data": "<hex encoded command>"}
// Response: {"data": "<hex encoded response data and status word>"}
func (h *Handler) HandleAPDU(w http.ResponseWriter, r *http.Request) {
	var req api.APDURequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	raw, err := hex.DecodeString(req.Data)
	if err != nil {
		h.writeError(w, &RequestError{StatusCode: http.StatusBadRequest, Err: fmt.Errorf("invalid command encoding: %w", err)})
		return
	}

	frame := h.mux.Exchange(r.Context(), raw)
	h.writeJSON(w, &api.APDUResponse{Data: hex.EncodeToString(frame)})
}

// HandleLock locks the device.
//
// URL format: POST /admin/lock
// Response: the device status
func (h *Handler) HandleLock(w http.ResponseWriter, r *http.Request) {
	h.lock.Lock()
	h.writeJSON(w, h.status())
}

// HandleUnlock validates a PIN.
//
// URL format: POST /admin/unlock
// Request body: {"pin": "1234"}
// Response: the device status, 401 for a wrong PIN, 403 once the PIN is blocked
func (h *Handler) HandleUnlock(w http.ResponseWriter, r *http.Request) {
	var req api.UnlockRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	err := h.lock.Unlock(req.PIN)
	switch {
	case err == nil:
		h.writeJSON(w, h.status())
	case errors.Is(err, device.ErrPINBlocked):
		h.writeError(w, &RequestError{StatusCode: http.StatusForbidden, Err: err})
	case errors.Is(err, device.ErrWrongPIN):
		h.writeError(w, &RequestError{StatusCode: http.StatusUnauthorized, Err: fmt.Errorf("%w, %d attempts remaining", err, h.lock.RemainingAttempts())})
	default:
		h.writeError(w, err)
	}
}

func (h *Handler) status() *api.DeviceStatus {
	return &api.DeviceStatus{
		Unlocked:          h.lock.IsUnlocked(),
		RemainingAttempts: h.lock.RemainingAttempts(),
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, out any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		return &RequestError{StatusCode: http.StatusBadRequest, Err: fmt.Errorf("invalid request body: %w", err)}
	}
	return nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("Failed to encode response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		h.log.Debug("Rejected request", "err", err, "status", reqErr.StatusCode)
		http.Error(w, reqErr.Error(), reqErr.StatusCode)
		return
	}

	h.log.Error("Request failed", "err", err)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}
