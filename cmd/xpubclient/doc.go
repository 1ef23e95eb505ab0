// Command xpub-client talks to an xpub-device server.
//
// Example usage:
//
//	xpub-client unlock
//	xpub-client xpub --path "m/84'/0'/0'"
//	xpub-client xpub --path "m/0'/1'" --display
//	xpub-client fingerprint
//	xpub-client lock
package main
