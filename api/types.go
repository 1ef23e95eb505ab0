package api

// APDURequest is the body of POST /apdu: a hex encoded short APDU.
type APDURequest struct {
	Data string `json:"data"`
}

// APDUResponse is the reply of POST /apdu: the hex encoded response data
// followed by the two status word bytes.
type APDUResponse struct {
	Data string `json:"data"`
}

// UnlockRequest is the body of POST /admin/unlock.
type UnlockRequest struct {
	PIN string `json:"pin"`
}

// DeviceStatus is the reply of the admin endpoints.
type DeviceStatus struct {
	Unlocked          bool `json:"unlocked"`
	RemainingAttempts int  `json:"remaining_attempts"`
}
