package main

import (
	"encoding/hex"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/ruteri/xpub-export-device/apdu"
	"github.com/ruteri/xpub-export-device/api/xpubhandler"
	"github.com/ruteri/xpub-export-device/cmd/flags"
	"github.com/ruteri/xpub-export-device/config"
	"github.com/ruteri/xpub-export-device/device"
	"github.com/ruteri/xpub-export-device/httpserver"
	"github.com/ruteri/xpub-export-device/interfaces"
	"github.com/ruteri/xpub-export-device/kms"
	"github.com/ruteri/xpub-export-device/ui"
)

var DeviceServiceLogFlag = flags.LogServiceFlagFn("xpub-device")

var AutoApproveFlag = &cli.BoolFlag{
	Name:  "auto-approve",
	Usage: "approve every confirmation prompt without asking",
}
var AutoDenyFlag = &cli.BoolFlag{
	Name:  "auto-deny",
	Usage: "deny every confirmation prompt without asking",
}
var UnlockedFlag = &cli.BoolFlag{
	Name:  "unlocked",
	Usage: "start with the PIN already validated",
}

func main() {
	app := &cli.App{
		Name:  "xpub-device",
		Usage: "Simulate a hardware wallet exporting extended public keys",
		Flags: append([]cli.Flag{
			flags.ConfigFlag,
			flags.ListenAddrFlag,
			flags.AdminFlag,
			flags.ConfirmTimeoutFlag,
			AutoApproveFlag,
			AutoDenyFlag,
			UnlockedFlag,
			DeviceServiceLogFlag,
		}, flags.CommonFlags...),
		Action: func(cCtx *cli.Context) error {
			logger := flags.SetupLogger(cCtx)

			if cCtx.Bool(AutoApproveFlag.Name) && cCtx.Bool(AutoDenyFlag.Name) {
				return errors.New("--auto-approve and --auto-deny are mutually exclusive")
			}

			cfg, err := config.Load(cCtx.String(flags.ConfigFlag.Name))
			if err != nil {
				logger.Error("Failed to load config", "err", err)
				return err
			}
			network, err := cfg.Validate()
			if err != nil {
				logger.Error("Invalid config", "err", err)
				return err
			}

			keys, err := kms.NewHDKMSFromMnemonic(cfg.Mnemonic, cfg.Passphrase, network.Params)
			if err != nil {
				logger.Error("Failed to load seed", "err", err)
				return err
			}
			fpr, err := keys.MasterFingerprint()
			if err != nil {
				return err
			}
			logger.Info("Seed loaded", "network", keys.Params().Name, "fingerprint", hex.EncodeToString(fpr[:]))

			pin := cfg.PIN
			if pin == "" {
				pin, err = flags.PromptPIN("Choose device PIN: ")
				if err != nil {
					return err
				}
			}
			dev, err := device.New(pin, logger)
			if err != nil {
				logger.Error("Failed to set up device lock", "err", err)
				return err
			}
			if cCtx.Bool(UnlockedFlag.Name) {
				if err := dev.Unlock(pin); err != nil {
					return err
				}
			}

			var confirmer interfaces.Confirmer
			switch {
			case cCtx.Bool(AutoApproveFlag.Name):
				logger.Warn("Every export will be approved without asking")
				confirmer = ui.StaticConfirmer{Approve: true}
			case cCtx.Bool(AutoDenyFlag.Name):
				confirmer = ui.StaticConfirmer{Approve: false}
			default:
				confirmer = ui.NewTerminalConfirmer(os.Stdin, os.Stderr)
			}

			mux := apdu.NewMux(apdu.CLA, logger)
			xpubhandler.NewHandler(dev, keys, ui.PathFormatter{}, confirmer, network.CoinTypes, logger).RegisterRoutes(mux)

			serverCfg := flags.ConfigureServer(cCtx, logger, cCtx.String(flags.ListenAddrFlag.Name))
			server := httpserver.New(serverCfg, httpserver.NewHandler(mux, dev, logger))

			logger.Info("Starting device server")
			server.RunInBackground()

			exit := make(chan os.Signal, 1)
			signal.Notify(exit, os.Interrupt, syscall.SIGTERM)
			<-exit
			logger.Info("Shutdown signal received")

			server.Shutdown()
			logger.Info("Server shutdown complete")
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
