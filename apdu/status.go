package apdu

import "fmt"

// StatusWord is the two byte status appended to every response.
type StatusWord uint16

const (
	SwOK                         StatusWord = 0x9000
	SwDeny                       StatusWord = 0x6985
	SwSecurityStatusNotSatisfied StatusWord = 0x6982
	SwIncorrectData              StatusWord = 0x6A80
	SwNotSupported               StatusWord = 0x6A82
	SwWrongP1P2                  StatusWord = 0x6A86
	SwWrongDataLength            StatusWord = 0x6A87
	SwInsNotSupported            StatusWord = 0x6D00
	SwClaNotSupported            StatusWord = 0x6E00
	SwBadState                   StatusWord = 0xB007
)

var statusNames = map[StatusWord]string{
	SwOK:                         "ok",
	SwDeny:                       "denied",
	SwSecurityStatusNotSatisfied: "security_status_not_satisfied",
	SwIncorrectData:              "incorrect_data",
	SwNotSupported:               "not_supported",
	SwWrongP1P2:                  "wrong_p1p2",
	SwWrongDataLength:            "wrong_data_length",
	SwInsNotSupported:            "ins_not_supported",
	SwClaNotSupported:            "cla_not_supported",
	SwBadState:                   "bad_state",
}

// String returns a short name for known status words and the hex value otherwise.
func (sw StatusWord) String() string {
	if name, ok := statusNames[sw]; ok {
		return name
	}
	return fmt.Sprintf("0x%04X", uint16(sw))
}

// Bytes returns the big-endian encoding of the status word.
func (sw StatusWord) Bytes() []byte {
	return []byte{byte(sw >> 8), byte(sw)}
}

// StatusError is returned to host callers when the device answers with a non-OK status.
type StatusError struct {
	Ins    byte
	Status StatusWord
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("device returned %s (0x%04X) for instruction 0x%02X", e.Status, uint16(e.Status), e.Ins)
}
