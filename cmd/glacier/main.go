package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	glacier "github.com/glacierprotocol/glacier"
	"github.com/glacierprotocol/glacier/build"
	"github.com/glacierprotocol/glacier/chainclient"
	"github.com/glacierprotocol/glacier/qr"
	"github.com/urfave/cli"
)

// startupTimeout bounds how long we wait for the local node to come up
// before giving up entirely.
const startupTimeout = 2 * time.Minute

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[glacier] %v\n", err)
	os.Exit(1)
}

// loadConfig builds the final configuration from the configuration file
// and the global command line flags, flags winning.
func loadConfig(ctx *cli.Context) (*glacier.Config, error) {
	cfg, err := glacier.LoadConfig(ctx.GlobalString("configfile"))
	if err != nil {
		return nil, err
	}

	if ctx.GlobalBool("testnet") {
		cfg.TestNet = true
	}
	if ctx.GlobalBool("p2wsh") {
		cfg.P2WSH = true
	}
	if ctx.GlobalIsSet("debuglevel") {
		cfg.DebugLevel = ctx.GlobalString("debuglevel")
	}
	if ctx.GlobalIsSet("qrdir") {
		cfg.QRDir = ctx.GlobalString("qrdir")
	}
	if ctx.GlobalIsSet("bitcoind.datadir") {
		cfg.Bitcoind.DataDir = ctx.GlobalString("bitcoind.datadir")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// startNode spawns the local node if needed, waits until it answers RPC
// requests and rejects versions too old to be usable.
func startNode(cfg *glacier.Config) (*chainclient.BitcoindClient, error) {
	client, err := chainclient.New(cfg.ChainClientConfig())
	if err != nil {
		return nil, err
	}

	client.StartDaemon()

	ctx, cancel := context.WithTimeout(
		context.Background(), startupTimeout,
	)
	defer cancel()

	if err := client.WaitForStartup(ctx); err != nil {
		client.Close()
		return nil, err
	}
	if err := client.RequireVersion(chainclient.MinNodeVersion); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}

// emitQR writes data as one or more verified QR artifacts under the
// configured artifact directory. A verification mismatch is reported to
// the operator loudly but is not fatal; the artifact may still be usable
// and the operator decides.
func emitQR(cfg *glacier.Config, name, data string) {
	codec := qr.NewCodec(qr.ZbarDecoder{})

	target := filepath.Join(cfg.QRDir, name)
	files, err := codec.EmitVerified(target, data)
	switch {
	case errors.Is(err, qr.ErrVerifyMismatch):
		fmt.Println()
		fmt.Println("**** WARNING ****")
		fmt.Println(err)
		fmt.Println()

	case err != nil:
		fatal(err)
	}

	for _, file := range files {
		fmt.Printf("QR code written to %s\n", file)
	}
}

func main() {
	app := cli.NewApp()
	app.Name = "glacier"
	app.Version = build.Version()
	app.Usage = "air-gapped bitcoin multisig cold storage"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:      "configfile",
			Value:     glacier.DefaultConfigFile,
			Usage:     "The path to the configuration file.",
			TakesFile: true,
		},
		cli.BoolFlag{
			Name:  "testnet",
			Usage: "Use the test network.",
		},
		cli.BoolFlag{
			Name: "p2wsh",
			Usage: "Create native segwit (bech32) deposit " +
				"addresses instead of p2sh-segwit.",
		},
		cli.StringFlag{
			Name: "debuglevel",
			Usage: "Logging level for all subsystems {trace, " +
				"debug, info, warn, error, critical}.",
		},
		cli.StringFlag{
			Name:  "qrdir",
			Usage: "Directory QR code artifacts are written to.",
		},
		cli.StringFlag{
			Name:      "bitcoind.datadir",
			Usage:     "The data directory bitcoind is started with.",
			TakesFile: true,
		},
	}
	app.Commands = []cli.Command{
		entropyCommand,
		depositCommand,
		withdrawCommand,
		startBitcoindCommand,
		testQRCommand,
	}

	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}
