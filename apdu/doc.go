// Package apdu implements the command framing spoken between a host and the device.
//
// A command is a short APDU:
//
//	CLA | INS | P1 | P2 | Lc | data (Lc bytes)
//
// and every reply is the (possibly empty) response data followed by a two byte
// big-endian status word. Status 0x9000 means success; every other value is a
// failure and carries no data.
//
// Mux routes commands of the application class (0xE1) to registered handlers by
// instruction byte. It rejects unknown classes and instructions, requires P1 to be
// zero and treats P2 as the protocol version. Commands are processed strictly one
// at a time, so handlers never run concurrently.
package apdu
