package xpubhandler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ruteri/xpub-export-device/apdu"
	"github.com/ruteri/xpub-export-device/interfaces"
	"github.com/ruteri/xpub-export-device/metrics"
	"github.com/ruteri/xpub-export-device/pathpolicy"
)

// Instructions served by the handler.
const (
	InsGetExtendedPubkey    byte = 0x00
	InsGetMasterFingerprint byte = 0x05
)

var (
	errShortHeader   = errors.New("request shorter than header")
	errDisplayFlag   = errors.New("display flag must be 0 or 1")
	errPathTooLong   = errors.New("path length exceeds maximum")
	errShortPath     = errors.New("request shorter than path length")
	errTrailingBytes = errors.New("unexpected bytes after path")
)

// RequestError carries the status word a malformed request is answered with.
type RequestError struct {
	// Status is the status word to reply with.
	Status apdu.StatusWord

	// Err is the underlying error.
	Err error
}

// Error returns the error message from the underlying error.
func (e *RequestError) Error() string {
	return e.Err.Error()
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// ExportRequest is a decoded GET_EXTENDED_PUBKEY request.
type ExportRequest struct {
	Display bool
	Path    interfaces.DerivationPath
}

// ParseExportRequest decodes `display:u8 | pathLength:u8 | pathLength * u32be`.
// The returned error is always a *RequestError.
func ParseExportRequest(data []byte) (*ExportRequest, error) {
	buf := apdu.NewBuffer(data)

	display, ok := buf.ReadU8()
	if !ok {
		return nil, &RequestError{Status: apdu.SwWrongDataLength, Err: errShortHeader}
	}
	pathLen, ok := buf.ReadU8()
	if !ok {
		return nil, &RequestError{Status: apdu.SwWrongDataLength, Err: errShortHeader}
	}

	if display > 1 {
		return nil, &RequestError{Status: apdu.SwIncorrectData, Err: fmt.Errorf("%w: got %d", errDisplayFlag, display)}
	}
	if int(pathLen) > interfaces.MaxPathSteps {
		return nil, &RequestError{Status: apdu.SwIncorrectData, Err: fmt.Errorf("%w: %d > %d", errPathTooLong, pathLen, interfaces.MaxPathSteps)}
	}

	path, ok := buf.ReadDerivationPath(int(pathLen))
	if !ok {
		return nil, &RequestError{Status: apdu.SwWrongDataLength, Err: fmt.Errorf("%w: %d steps, %d bytes", errShortPath, pathLen, buf.Remaining())}
	}
	if buf.Remaining() != 0 {
		return nil, &RequestError{Status: apdu.SwWrongDataLength, Err: fmt.Errorf("%w: %d", errTrailingBytes, buf.Remaining())}
	}

	return &ExportRequest{Display: display == 1, Path: path}, nil
}

// Bytes encodes the request.
func (r *ExportRequest) Bytes() []byte {
	data := make([]byte, 0, 2+4*len(r.Path))
	var display byte
	if r.Display {
		display = 1
	}
	data = append(data, display, byte(len(r.Path)))
	return apdu.AppendDerivationPath(data, r.Path)
}

// Handler serves the public key export commands of the device.
//
// Key material for a path that the path policy considers unsafe is only ever
// sent after the user has approved that exact path and key on the device.
type Handler struct {
	lock      interfaces.LockState
	kms       interfaces.XpubDeriver
	formatter interfaces.PathFormatter
	confirmer interfaces.Confirmer
	policy    *pathpolicy.Policy
	log       *slog.Logger
}

// NewHandler creates a new handler with the specified collaborators.
//
// Parameters:
//   - lock: reports whether the device PIN has been validated
//   - kms: derives the serialized extended public keys
//   - formatter: renders paths for the confirmation screen
//   - confirmer: asks the user for approval
//   - coinTypes: the coin types accepted for unconfirmed export
//   - log: structured logger
func NewHandler(lock interfaces.LockState, kms interfaces.XpubDeriver, formatter interfaces.PathFormatter, confirmer interfaces.Confirmer, coinTypes interfaces.CoinTypes, log *slog.Logger) *Handler {
	return &Handler{
		lock:      lock,
		kms:       kms,
		formatter: formatter,
		confirmer: confirmer,
		policy:    pathpolicy.NewPolicy(coinTypes),
		log:       log,
	}
}

// RegisterRoutes registers both instructions on mux.
func (h *Handler) RegisterRoutes(mux *apdu.Mux) {
	mux.Handle(InsGetExtendedPubkey, h.HandleGetExtendedPubkey)
	mux.Handle(InsGetMasterFingerprint, h.HandleGetMasterFingerprint)
}

// HandleGetExtendedPubkey processes GET_EXTENDED_PUBKEY.
//
// Request data: display flag (u8, 0 or 1), path length (u8, at most 10), then
// the path steps as big-endian u32 with the top bit marking hardened steps.
//
// Response: the base58 serialized extended public key with SwOK, or one of
//   - SwSecurityStatusNotSatisfied: device locked, nothing decoded
//   - SwWrongDataLength: truncated request or trailing bytes
//   - SwIncorrectData: display flag not 0/1 or path too long
//   - SwNotSupported: unsafe path requested without display
//   - SwBadState: derivation failed
//   - SwDeny: the user rejected the export
func (h *Handler) HandleGetExtendedPubkey(ctx context.Context, w apdu.ResponseWriter, cmd *apdu.Command) {
	if !h.lock.IsUnlocked() {
		w.SendStatus(apdu.SwSecurityStatusNotSatisfied)
		return
	}

	req, err := ParseExportRequest(cmd.Data)
	if err != nil {
		reqErr := err.(*RequestError)
		h.log.Debug("Invalid export request", "err", err, "status", reqErr.Status.String())
		w.SendStatus(reqErr.Status)
		return
	}

	isSafe := h.policy.IsSafe(req.Path)
	pathText := h.formatter.FormatPath(req.Path)
	log := h.log.With("path", pathText, "safe", isSafe, "display", req.Display)

	if !isSafe && !req.Display {
		log.Info("Refusing unconfirmed export of unsafe path")
		w.SendStatus(apdu.SwNotSupported)
		return
	}

	xpub, err := h.kms.SerializedXpub(req.Path)
	if err != nil {
		log.Error("Failed to derive extended public key", "err", err)
		w.SendStatus(apdu.SwBadState)
		return
	}

	if req.Display {
		approved := h.confirmer.ConfirmPubkey(ctx, pathText, !isSafe, xpub)
		metrics.RecordConfirmation(approved)
		if !approved {
			log.Info("User denied public key export")
			w.SendStatus(apdu.SwDeny)
			return
		}
	}

	log.Debug("Exporting extended public key")
	w.SendResponse([]byte(xpub), apdu.SwOK)
}

// HandleGetMasterFingerprint processes GET_MASTER_FINGERPRINT.
// The request carries no data; the response is the 4-byte master key fingerprint.
func (h *Handler) HandleGetMasterFingerprint(ctx context.Context, w apdu.ResponseWriter, cmd *apdu.Command) {
	if !h.lock.IsUnlocked() {
		w.SendStatus(apdu.SwSecurityStatusNotSatisfied)
		return
	}

	if len(cmd.Data) != 0 {
		w.SendStatus(apdu.SwWrongDataLength)
		return
	}

	fpr, err := h.kms.MasterFingerprint()
	if err != nil {
		h.log.Error("Failed to compute master fingerprint", "err", err)
		w.SendStatus(apdu.SwBadState)
		return
	}

	w.SendResponse(fpr[:], apdu.SwOK)
}
