/*
Package api holds the types shared by the device HTTP server and its clients.

Subpackages:

 1. xpubhandler - the device side GET_EXTENDED_PUBKEY and GET_MASTER_FINGERPRINT commands
 2. clients - the host side of the same commands and the HTTP transport

# Wire Types

  - APDURequest / APDUResponse - hex encoded command and response frames for POST /apdu
  - UnlockRequest - PIN submitted to POST /admin/unlock
  - DeviceStatus - lock state returned by the admin endpoints

HTTPServerConfig configures the server in package httpserver.
*/
package api
