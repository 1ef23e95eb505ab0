/*
Package clients provides the host side of the device protocol.

BitcoinClient frames GET_EXTENDED_PUBKEY and GET_MASTER_FINGERPRINT commands
and interprets the replies. It talks to the device through a Transport:

  - HTTPTransport posts commands to the /apdu endpoint of the device server
    and also drives the /admin/lock and /admin/unlock endpoints
  - MuxTransport serves commands in-process, useful for tests and simulators

# Errors

A reply with a status word other than SwOK is returned as *apdu.StatusError.
IsDenied tells a user rejection apart from other refusals. A SwOK reply whose
data cannot be interpreted is returned as *UnexpectedResultError.

# Example Usage

	transport := &clients.HTTPTransport{ServerAddr: "http://127.0.0.1:8080"}
	client := clients.NewBitcoinClient(transport)

	path, _ := interfaces.ParseDerivationPath("m/84'/0'/0'")
	xpub, err := client.GetExtendedPubkey(ctx, path, false)
*/
package clients
