package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ruteri/xpub-export-device/api/clients"
	"github.com/ruteri/xpub-export-device/cmd/flags"
	"github.com/ruteri/xpub-export-device/interfaces"
)

var PathFlag = &cli.StringFlag{
	Name:     "path",
	Required: true,
	Usage:    "derivation path, e.g. m/84'/0'/0'",
}
var DisplayFlag = &cli.BoolFlag{
	Name:  "display",
	Usage: "show the key on the device and wait for approval",
}
var PINFlag = &cli.StringFlag{
	Name:    "pin",
	Usage:   "device PIN, prompted for when empty",
	EnvVars: []string{"XPUB_DEVICE_PIN"},
}
var TimeoutFlag = &cli.DurationFlag{
	Name:  "timeout",
	Value: 5 * time.Minute,
	Usage: "request timeout, covers the time spent waiting for confirmation",
}

func transportFrom(cCtx *cli.Context) *clients.HTTPTransport {
	return &clients.HTTPTransport{ServerAddr: cCtx.String(flags.ServerAddrFlag.Name)}
}

func main() {
	app := &cli.App{
		Name:  "xpub-client",
		Usage: "Request extended public keys from an xpub-device server",
		Flags: append([]cli.Flag{flags.ServerAddrFlag, TimeoutFlag}, flags.LogFlags...),
		Commands: []*cli.Command{
			{
				Name:  "xpub",
				Usage: "export the extended public key at a path",
				Flags: []cli.Flag{PathFlag, DisplayFlag},
				Action: func(cCtx *cli.Context) error {
					logger := flags.SetupLogger(cCtx)

					path, err := interfaces.ParseDerivationPath(cCtx.String(PathFlag.Name))
					if err != nil {
						return err
					}

					ctx, cancel := context.WithTimeout(cCtx.Context, cCtx.Duration(TimeoutFlag.Name))
					defer cancel()

					client := clients.NewBitcoinClient(transportFrom(cCtx))
					key, err := client.GetExtendedPubkey(ctx, path, cCtx.Bool(DisplayFlag.Name))
					if clients.IsDenied(err) {
						logger.Warn("Export denied on device", "path", path.String())
						return err
					} else if err != nil {
						logger.Error("Export failed", "path", path.String(), "err", err)
						return err
					}

					fmt.Println(key.String())
					return nil
				},
			},
			{
				Name:  "fingerprint",
				Usage: "print the master key fingerprint",
				Action: func(cCtx *cli.Context) error {
					ctx, cancel := context.WithTimeout(cCtx.Context, cCtx.Duration(TimeoutFlag.Name))
					defer cancel()

					fpr, err := clients.NewBitcoinClient(transportFrom(cCtx)).GetMasterFingerprint(ctx)
					if err != nil {
						return err
					}
					fmt.Println(hex.EncodeToString(fpr[:]))
					return nil
				},
			},
			{
				Name:  "unlock",
				Usage: "validate the device PIN",
				Flags: []cli.Flag{PINFlag},
				Action: func(cCtx *cli.Context) error {
					pin := cCtx.String(PINFlag.Name)
					if pin == "" {
						var err error
						if pin, err = flags.PromptPIN("Device PIN: "); err != nil {
							return err
						}
					}

					status, err := transportFrom(cCtx).Unlock(cCtx.Context, pin)
					if err != nil {
						return err
					}
					fmt.Printf("unlocked=%t\n", status.Unlocked)
					return nil
				},
			},
			{
				Name:  "lock",
				Usage: "lock the device",
				Action: func(cCtx *cli.Context) error {
					status, err := transportFrom(cCtx).Lock(cCtx.Context)
					if err != nil {
						return err
					}
					fmt.Printf("unlocked=%t\n", status.Unlocked)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
