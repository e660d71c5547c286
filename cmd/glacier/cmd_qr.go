package main

import (
	"github.com/urfave/cli"
)

var testQRCommand = cli.Command{
	Name:      "test-qr-code",
	Usage:     "Write a test QR code artifact and verify it.",
	ArgsUsage: "[data]",
	Description: `
	Writes the given data (or a fixed test string) as a QR code
	artifact and decodes it back, exercising the full write-and-verify
	path used during the real ceremonies. Run this during environment
	setup to confirm the QR tooling works.`,
	Action: cmdTestQR,
}

func cmdTestQR(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	data := ctx.Args().First()
	if data == "" {
		data = "Test data for QR code verification."
	}

	emitQR(cfg, "qrtest.png", data)

	return nil
}
