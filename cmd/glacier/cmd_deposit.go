package main

import (
	"fmt"

	"github.com/glacierprotocol/glacier/vault"
	"github.com/urfave/cli"
)

var depositCommand = cli.Command{
	Name:  "create-deposit-data",
	Usage: "Create a multisig cold storage address.",
	Description: `
	Derives the private keys of an m-of-n multisig vault from operator
	supplied entropy and assembles the deposit address through the
	local node. The address, the redemption script and every private
	key must be recorded; losing the redemption script makes the funds
	unspendable even with all keys in hand.`,
	Flags: []cli.Flag{
		cli.IntFlag{
			Name:  "m",
			Usage: "Number of signatures required to withdraw.",
		},
		cli.IntFlag{
			Name:  "n",
			Usage: "Total number of keys in the vault.",
		},
		cli.IntFlag{
			Name:  "dice",
			Usage: "Minimum number of dice rolls per key.",
		},
		cli.IntFlag{
			Name:  "rng",
			Usage: "Minimum RNG seed length in bytes per key.",
		},
	},
	Action: cmdDeposit,
}

func cmdDeposit(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	if ctx.IsSet("dice") {
		cfg.DiceSeedLength = ctx.Int("dice")
	}
	if ctx.IsSet("rng") {
		cfg.RngSeedLength = ctx.Int("rng")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	prompt := newPrompter()
	if err := prompt.safetyChecklist(); err != nil {
		return err
	}

	required, total := ctx.Int("m"), ctx.Int("n")
	if required == 0 {
		required, err = prompt.readInt(
			"How many keys are required to withdraw (m)? ",
		)
		if err != nil {
			return err
		}
	}
	if total == 0 {
		total, err = prompt.readInt(
			"How many keys does the vault have in total (n)? ",
		)
		if err != nil {
			return err
		}
	}

	// An impossible quorum is rejected before the node is even started.
	ring, err := vault.NewKeyRing(
		cfg.ChainParams().Params, required, total,
	)
	if err != nil {
		return err
	}

	client, err := startNode(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	for i := 1; i <= total; i++ {
		fmt.Printf("\nKey #%d of %d\n", i, total)

		dice, err := prompt.readDiceSeed(cfg.DiceSeedLength)
		if err != nil {
			return err
		}
		rng, err := prompt.readRngSeed(cfg.RngSeedLength)
		if err != nil {
			return err
		}

		if _, err := ring.AddKey(dice, rng); err != nil {
			return err
		}
	}

	desc, err := ring.Resolve(client, cfg.AddressType())
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Deposit data")
	fmt.Println("============")
	fmt.Printf("Required signatures: %d of %d\n",
		desc.RequiredSigners, desc.TotalSigners)
	fmt.Printf("Deposit address:     %s\n", desc.Address)
	fmt.Printf("Redemption script:   %s\n", desc.RedeemScript)
	fmt.Println()
	fmt.Println("Private keys:")
	for idx, wif := range desc.WIFs {
		fmt.Printf("    Key #%d: %s\n", idx+1, wif)
	}
	fmt.Println()

	emitQR(cfg, "address.png", desc.Address)
	emitQR(cfg, "redemption.png", desc.RedeemScript)

	return nil
}
