package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/glacierprotocol/glacier/chainclient"
	"github.com/glacierprotocol/glacier/entropy"
	"github.com/glacierprotocol/glacier/keychain"
)

// safetyQuestions is the checklist every ceremony starts with. Any answer
// other than yes aborts before a single key byte exists.
var safetyQuestions = []string{
	"Are you running this on a computer WITHOUT a network connection " +
		"of any kind?",
	"Have the wireless cards in this computer been physically removed?",
	"Are you running on battery power?",
	"Are you running on an operating system booted from a USB drive?",
	"Is your screen hidden from view of windows, cameras, and other " +
		"people?",
	"Are smartphones and all other nearby devices turned off and in a " +
		"Faraday bag?",
}

// prompter drives the interactive ceremony dialogue. Reads and writes go
// through injected streams so the flows are testable without a terminal.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter() *prompter {
	return &prompter{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stdout,
	}
}

// line prints the prompt and reads one trimmed line of input.
func (p *prompter) line(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)

	input, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || input == "") {
		return "", fmt.Errorf("unable to read input: %w", err)
	}

	return strings.TrimSpace(input), nil
}

// yesNo asks a yes/no question, re-prompting until the answer is
// recognizable.
func (p *prompter) yesNo(prompt string) (bool, error) {
	for {
		answer, err := p.line(prompt + " (y/n)? ")
		if err != nil {
			return false, err
		}

		switch strings.ToLower(answer) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}

		fmt.Fprintln(p.out, "Please answer y or n.")
	}
}

// safetyChecklist walks the operator through the environment checklist.
// A single no fails the run.
func (p *prompter) safetyChecklist() error {
	for _, question := range safetyQuestions {
		ok, err := p.yesNo(question)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("safety check failed, exiting")
		}
	}

	return nil
}

// readDiceSeed reads a string of dice rolls, re-prompting until it is
// long enough and contains only rolls of a six sided die. Whitespace is
// allowed and ignored, so rolls can be entered in groups.
func (p *prompter) readDiceSeed(minRolls int) (string, error) {
	for {
		input, err := p.line(fmt.Sprintf(
			"Enter at least %d dice rolls: ", minRolls,
		))
		if err != nil {
			return "", err
		}

		rolls := entropy.Unchunk(input)
		if err := entropy.ValidateDice(rolls, minRolls); err != nil {
			fmt.Fprintf(p.out, "Invalid dice rolls: %v\n", err)
			continue
		}

		return rolls, nil
	}
}

// readRngSeed reads a hex RNG seed of at least minBytes bytes,
// re-prompting on bad input. Whitespace is allowed and ignored, matching
// the chunked output of the entropy command.
func (p *prompter) readRngSeed(minBytes int) (string, error) {
	for {
		input, err := p.line(fmt.Sprintf(
			"Enter a random seed of at least %d hex characters: ",
			minBytes*2,
		))
		if err != nil {
			return "", err
		}

		seed := entropy.Unchunk(input)
		if err := entropy.ValidateSeed(seed, minBytes*2); err != nil {
			fmt.Fprintf(p.out, "Invalid seed: %v\n", err)
			continue
		}

		return seed, nil
	}
}

// readInt reads a positive integer, re-prompting on anything else.
func (p *prompter) readInt(prompt string) (int, error) {
	for {
		input, err := p.line(prompt)
		if err != nil {
			return 0, err
		}

		value, convErr := strconv.Atoi(input)
		if convErr != nil || value < 1 {
			fmt.Fprintln(p.out, "Please enter a positive number.")
			continue
		}

		return value, nil
	}
}

// readWIF reads a private key in wallet import format and rejects
// anything that does not decode, so a typo is caught before the key
// reaches the node.
func (p *prompter) readWIF(prompt string) (string, error) {
	for {
		input, err := p.line(prompt)
		if err != nil {
			return "", err
		}

		if _, _, err := keychain.DecodeWIF(input); err != nil {
			fmt.Fprintf(p.out, "Invalid key: %v\n", err)
			continue
		}

		return input, nil
	}
}

// readAmount reads a bitcoin amount. A blank answer means "everything",
// reported through the second return value.
func (p *prompter) readAmount(prompt string) (btcutil.Amount, bool, error) {
	for {
		input, err := p.line(prompt)
		if err != nil {
			return 0, false, err
		}

		if input == "" {
			return 0, true, nil
		}

		amount, parseErr := chainclient.ParseCoins(input)
		if parseErr != nil {
			fmt.Fprintf(p.out, "Invalid amount: %v\n", parseErr)
			continue
		}

		return amount, false, nil
	}
}

// readRawTx reads a raw transaction as hex, either pasted directly or as
// a path to a file holding it. Whitespace within pasted hex is ignored.
func (p *prompter) readRawTx(prompt string) (string, error) {
	input, err := p.line(prompt)
	if err != nil {
		return "", err
	}

	// A path to an existing file wins over literal hex; raw
	// transactions are far too long to collide with real paths.
	if info, err := os.Stat(input); err == nil && !info.IsDir() {
		content, err := os.ReadFile(input)
		if err != nil {
			return "", fmt.Errorf("unable to read transaction "+
				"file: %w", err)
		}
		return entropy.Unchunk(string(content)), nil
	}

	return entropy.Unchunk(input), nil
}
