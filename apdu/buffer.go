package apdu

import (
	"encoding/binary"

	"github.com/ruteri/xpub-export-device/interfaces"
)

// Buffer is a forward-only reader over command data.
// Failed reads leave the offset untouched.
type Buffer struct {
	data   []byte
	offset int
}

// NewBuffer wraps data for reading.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{data: data}
}

// Remaining returns the number of unread bytes.
func (b *Buffer) Remaining() int {
	return len(b.data) - b.offset
}

// ReadU8 reads a single byte.
func (b *Buffer) ReadU8() (uint8, bool) {
	if b.Remaining() < 1 {
		return 0, false
	}
	v := b.data[b.offset]
	b.offset++
	return v, true
}

// ReadU32BE reads a big-endian uint32.
func (b *Buffer) ReadU32BE() (uint32, bool) {
	if b.Remaining() < 4 {
		return 0, false
	}
	v := binary.BigEndian.Uint32(b.data[b.offset:])
	b.offset += 4
	return v, true
}

// ReadDerivationPath reads n big-endian steps.
func (b *Buffer) ReadDerivationPath(n int) (interfaces.DerivationPath, bool) {
	if n < 0 || b.Remaining() < 4*n {
		return nil, false
	}
	path := make(interfaces.DerivationPath, n)
	for i := range path {
		raw, _ := b.ReadU32BE()
		path[i] = interfaces.StepFromUint32(raw)
	}
	return path, true
}

// AppendDerivationPath appends the wire encoding of path (without a length prefix).
func AppendDerivationPath(dst []byte, path interfaces.DerivationPath) []byte {
	for _, raw := range path.Raw() {
		dst = binary.BigEndian.AppendUint32(dst, raw)
	}
	return dst
}
