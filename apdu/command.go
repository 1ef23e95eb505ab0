package apdu

import (
	"errors"
	"fmt"
)

const (
	// CLA is the class byte of the application's commands.
	CLA byte = 0xE1

	// ProtocolVersion is the highest protocol version (P2) understood by the device.
	ProtocolVersion byte = 1

	headerLen = 5
)

var (
	ErrShortBuffer    = errors.New("apdu: buffer too short")
	ErrLengthMismatch = errors.New("apdu: data length does not match Lc")
	ErrDataTooLong    = errors.New("apdu: data longer than 255 bytes")
)

// Command is a short APDU: CLA INS P1 P2 Lc followed by Lc bytes of data.
type Command struct {
	CLA  byte
	INS  byte
	P1   byte
	P2   byte
	Data []byte
}

// ParseCommand decodes a raw short APDU.
func ParseCommand(raw []byte) (*Command, error) {
	if len(raw) < headerLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrShortBuffer, len(raw))
	}
	lc := int(raw[4])
	if len(raw)-headerLen != lc {
		return nil, fmt.Errorf("%w: Lc=%d, got %d bytes", ErrLengthMismatch, lc, len(raw)-headerLen)
	}
	data := make([]byte, lc)
	copy(data, raw[headerLen:])
	return &Command{
		CLA:  raw[0],
		INS:  raw[1],
		P1:   raw[2],
		P2:   raw[3],
		Data: data,
	}, nil
}

// Bytes encodes the command.
func (c *Command) Bytes() ([]byte, error) {
	if len(c.Data) > 255 {
		return nil, ErrDataTooLong
	}
	raw := make([]byte, 0, headerLen+len(c.Data))
	raw = append(raw, c.CLA, c.INS, c.P1, c.P2, byte(len(c.Data)))
	return append(raw, c.Data...), nil
}

// Response is the device reply: optional data followed by the status word.
type Response struct {
	Data   []byte
	Status StatusWord
}

// Bytes encodes the response frame.
func (r Response) Bytes() []byte {
	frame := make([]byte, 0, len(r.Data)+2)
	frame = append(frame, r.Data...)
	return append(frame, r.Status.Bytes()...)
}

// ParseResponse splits a response frame into data and status word.
func ParseResponse(frame []byte) (Response, error) {
	if len(frame) < 2 {
		return Response{}, fmt.Errorf("%w: response of %d bytes", ErrShortBuffer, len(frame))
	}
	n := len(frame) - 2
	data := make([]byte, n)
	copy(data, frame[:n])
	return Response{
		Data:   data,
		Status: StatusWord(uint16(frame[n])<<8 | uint16(frame[n+1])),
	}, nil
}
