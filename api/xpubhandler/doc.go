// Package xpubhandler implements the public key export commands of the device.
//
// # GET_EXTENDED_PUBKEY (INS 0x00)
//
// Request data:
//
//	display    u8      0 = silent export, 1 = show on device and ask for approval
//	pathLength u8      at most 10
//	path       u32be * pathLength, top bit set for hardened steps
//
// The handler processes a request in a fixed order and replies exactly once:
//
//  1. locked device: SwSecurityStatusNotSatisfied, nothing is decoded
//  2. short header: SwWrongDataLength
//  3. display > 1 or pathLength > 10: SwIncorrectData
//  4. truncated path or trailing bytes: SwWrongDataLength
//  5. unsafe path (see package pathpolicy) without display: SwNotSupported
//  6. derivation failure: SwBadState
//  7. display requested and the user denies: SwDeny
//  8. otherwise the serialized extended public key with SwOK
//
// The confirmation screen shows the path ("(Master key)" for the empty path),
// the key, and a warning when the path is unsafe.
//
// # GET_MASTER_FINGERPRINT (INS 0x05)
//
// No request data. Replies with the 4-byte fingerprint of the master public key.
package xpubhandler
