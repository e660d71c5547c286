package main

import (
	"fmt"

	"github.com/urfave/cli"
)

var startBitcoindCommand = cli.Command{
	Name:  "start-bitcoind",
	Usage: "Start the local bitcoind and wait until it is usable.",
	Description: `
	Spawns the local node in daemon mode, waits until it answers RPC
	requests, makes sure its default wallet is loaded and verifies the
	node version. Useful to warm the node up before a ceremony.`,
	Action: cmdStartBitcoind,
}

func cmdStartBitcoind(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	client, err := startNode(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	fmt.Println("bitcoind is running and ready.")

	return nil
}
