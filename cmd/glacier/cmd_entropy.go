package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/glacierprotocol/glacier/entropy"
	"github.com/urfave/cli"
)

var entropyCommand = cli.Command{
	Name:  "entropy",
	Usage: "Generate computer entropy for the key ceremony.",
	Description: `
	Generates random seeds from the operating system's entropy source.
	Each key requires one such seed in addition to a dice seed; the two
	are combined so the result stays unpredictable even if one source
	is compromised.`,
	Flags: []cli.Flag{
		cli.IntFlag{
			Name:  "num-keys",
			Value: 1,
			Usage: "Number of seeds to generate.",
		},
		cli.IntFlag{
			Name:  "rng",
			Usage: "Seed length in bytes.",
		},
	},
	Action: cmdEntropy,
}

func cmdEntropy(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	prompt := newPrompter()
	if err := prompt.safetyChecklist(); err != nil {
		return err
	}

	numKeys := ctx.Int("num-keys")
	if numKeys < 1 {
		return fmt.Errorf("num-keys must be positive, got %d", numKeys)
	}

	seedLen := cfg.RngSeedLength
	if ctx.IsSet("rng") {
		seedLen = ctx.Int("rng")
	}
	if seedLen < 1 {
		return fmt.Errorf("rng must be positive, got %d", seedLen)
	}

	fmt.Printf("Creating %d random seeds. Each must be used for one "+
		"key only, never reused.\n\n", numKeys)

	for i := 0; i < numKeys; i++ {
		seed := make([]byte, seedLen)
		if _, err := rand.Read(seed); err != nil {
			return fmt.Errorf("unable to read system entropy: %w",
				err)
		}

		chunks := entropy.ChunkString(hex.EncodeToString(seed), 4)
		fmt.Println(strings.Join(chunks, " "))
	}

	fmt.Println("\nRemember: each key also needs its own dice seed.")

	return nil
}
