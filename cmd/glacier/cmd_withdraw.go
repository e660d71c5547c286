package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/glacierprotocol/glacier/chainclient"
	"github.com/glacierprotocol/glacier/keychain"
	"github.com/glacierprotocol/glacier/withdraw"
	"github.com/urfave/cli"
)

var withdrawCommand = cli.Command{
	Name:  "create-withdrawal-data",
	Usage: "Build and sign a withdrawal from cold storage.",
	Description: `
	Builds a transaction spending from a multisig cold storage address
	and signs it with the supplied private keys. The signed transaction
	is printed as hex and written as QR code artifacts; it is never
	broadcast from this machine.`,
	Action: cmdWithdraw,
}

func cmdWithdraw(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	prompt := newPrompter()
	if err := prompt.safetyChecklist(); err != nil {
		return err
	}

	client, err := startNode(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	source, err := prompt.line("Source cold storage address: ")
	if err != nil {
		return err
	}
	redeemScript, err := prompt.line("Redemption script: ")
	if err != nil {
		return err
	}
	dest, err := prompt.line("Destination address: ")
	if err != nil {
		return err
	}
	if dest == source {
		return fmt.Errorf("destination address must differ from the " +
			"source address")
	}

	numKeys, err := prompt.readInt(
		"How many private keys will you sign with? ",
	)
	if err != nil {
		return err
	}
	wifs := make([]string, 0, numKeys)
	for i := 1; i <= numKeys; i++ {
		wif, err := prompt.readWIF(fmt.Sprintf("Key #%d: ", i))
		if err != nil {
			return err
		}
		wifs = append(wifs, wif)
	}

	// Collect the transactions funding the cold storage address. Each
	// one is pasted (or loaded from a file) and decoded through the
	// node; outputs paying other addresses are ignored.
	numTxs, err := prompt.readInt(
		"How many unspent transactions will you be using? ",
	)
	if err != nil {
		return err
	}

	var (
		txs        []*btcjson.TxRawResult
		totalInput btcutil.Amount
	)
	for i := 1; i <= numTxs; i++ {
		rawHex, err := prompt.readRawTx(fmt.Sprintf(
			"Paste transaction #%d (hex) or a file path: ", i,
		))
		if err != nil {
			return err
		}

		decoded, err := client.DecodeRawTransaction(rawHex)
		if err != nil {
			return err
		}

		utxos, err := withdraw.SelectUTXOs(decoded, source)
		if err != nil {
			return err
		}

		totalInput += withdraw.SumUTXOs(utxos)
		txs = append(txs, decoded)
	}
	if totalInput == 0 {
		return fmt.Errorf("no transaction data found for source "+
			"address %s", source)
	}

	fmt.Printf("\nTotal input amount: %s BTC\n",
		chainclient.FormatCoins(totalInput))

	// Negotiate the fee. Each candidate rate is priced by signing a
	// placeholder transaction of representative size; rates whose fee
	// exceeds the hard ceiling are rejected and asked again.
	var fee btcutil.Amount
	for {
		rate, err := prompt.readInt(
			"Fee rate in satoshis per vbyte: ",
		)
		if err != nil {
			return err
		}

		fee, err = withdraw.EstimateFee(
			client, source, dest, redeemScript, txs, wifs,
			int64(rate),
		)
		if errors.Is(err, withdraw.ErrFeeExceedsMax) {
			fmt.Printf("%v. Choose a lower rate.\n", err)
			continue
		}
		if err != nil {
			return err
		}

		ok, err := prompt.yesNo(fmt.Sprintf(
			"The fee at this rate is %s BTC. Use it",
			chainclient.FormatCoins(fee),
		))
		if err != nil {
			return err
		}
		if ok {
			break
		}
	}
	if fee >= totalInput {
		return fmt.Errorf("fee of %s BTC exceeds the total input of "+
			"%s BTC", chainclient.FormatCoins(fee),
			chainclient.FormatCoins(totalInput))
	}

	// Withdrawal amount, re-asked until it yields a viable plan the
	// operator confirms. A blank answer withdraws everything after the
	// fee; declining the summary restarts the amount entry.
	var plan *withdraw.Plan
	for plan == nil {
		amount, withdrawAll, err := prompt.readAmount(
			"Amount to withdraw in BTC (blank to withdraw " +
				"everything): ",
		)
		if err != nil {
			return err
		}

		plan, err = withdraw.NewPlan(
			source, dest, totalInput, fee, amount, withdrawAll,
		)
		if err != nil {
			fmt.Printf("Cannot build this withdrawal: %v\n", err)
			continue
		}

		fmt.Println()
		fmt.Println("Withdrawal summary")
		fmt.Println("==================")
		fmt.Printf("Source:      %s\n", plan.SourceAddress)
		fmt.Printf("Destination: %s\n", plan.DestAddress)
		fmt.Printf("Amount:      %s BTC\n",
			chainclient.FormatCoins(plan.Amount))
		fmt.Printf("Fee:         %s BTC\n",
			chainclient.FormatCoins(plan.Fee))
		fmt.Printf("Change:      %s BTC\n",
			chainclient.FormatCoins(plan.Change))
		fmt.Println()

		ok, err := prompt.yesNo("Is this correct")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Starting over with the amount.")
			plan = nil
		}
	}

	inputs, err := withdraw.Inputs(txs, source)
	if err != nil {
		return err
	}
	rawTx, err := client.CreateRawTransaction(inputs, plan.Outputs())
	if err != nil {
		return err
	}
	signingInputs, err := withdraw.SigningInputs(txs, source, redeemScript)
	if err != nil {
		return err
	}
	signed, err := client.SignRawTransactionWithKey(
		rawTx, wifs, signingInputs,
	)
	if err != nil {
		return err
	}

	fmt.Printf("\nSigning complete: %v\n", signed.Complete)
	if !signed.Complete {
		fmt.Println("The transaction still needs signatures from " +
			"additional keys before it can be broadcast.")
	}
	fmt.Println("\nRaw signed transaction (hex):")
	fmt.Println(signed.Hex)
	fmt.Printf("\nTransaction fingerprint (md5): %s\n",
		keychain.Fingerprint(signed.Hex))
	fmt.Println()

	// Upper case hex lets the encoder use its dense alphanumeric mode,
	// fitting more of the transaction into each artifact.
	emitQR(cfg, "transaction.png", strings.ToUpper(signed.Hex))

	return nil
}
