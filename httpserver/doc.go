/*
Package httpserver exposes the simulated device over HTTP.

The host sends short APDUs hex encoded in JSON and receives the response frame
the same way. Device level refusals (locked device, unsafe path, user denial)
are carried in the status word of a 200 response; HTTP errors mean the command
never reached the device.

# Endpoints

  - POST /apdu - Exchange one command: {"data":"e10000010d..."} -> {"data":"...9000"}
  - POST /admin/lock - Lock the device (only with EnableAdmin)
  - POST /admin/unlock - Validate the PIN: {"pin":"1234"} (only with EnableAdmin)
  - GET /livez - Liveness check
  - GET /readyz - Readiness check
  - GET /drain - Mark server as not ready, /apdu answers 503 until undrained
  - GET /undrain - Mark server as ready
  - /debug/pprof/* - Profiling (only with EnablePprof)

Device commands run with a deadline of ConfirmTimeout. A confirmation prompt
still open when it expires is answered as a denial (SwDeny), which releases
the dispatcher for the next command.

Metrics are served by a separate listener on MetricsAddr.

# Example Usage

	mux := apdu.NewMux(apdu.CLA, logger)
	xpubhandler.NewHandler(dev, keys, ui.PathFormatter{}, confirmer, coinTypes, logger).RegisterRoutes(mux)

	server := httpserver.New(&api.HTTPServerConfig{
		ListenAddr:               "127.0.0.1:8080",
		MetricsAddr:              "127.0.0.1:8090",
		EnableAdmin:              true,
		Log:                      logger,
		GracefulShutdownDuration: 30 * time.Second,
		ReadTimeout:              60 * time.Second,
		WriteTimeout:             6 * time.Minute,
		ConfirmTimeout:           5 * time.Minute,
	}, httpserver.NewHandler(mux, dev, logger))

	server.RunInBackground()
	defer server.Shutdown()
*/
package httpserver
