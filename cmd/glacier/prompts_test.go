package main

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/stretchr/testify/require"
)

// validWIF is a syntactically valid mainnet key for prompt tests.
const validWIF = "KwntMbt59tTsj8xqpqYqRRWufyjGunvhSyeMo3NTYpFYzZbXJ5Hp"

// testPrompter returns a prompter reading scripted answers, one per
// line.
func testPrompter(answers ...string) (*prompter, *bytes.Buffer) {
	out := &bytes.Buffer{}
	in := strings.NewReader(strings.Join(answers, "\n") + "\n")

	return &prompter{in: bufio.NewReader(in), out: out}, out
}

// TestYesNoReprompts asserts that unrecognizable answers are asked again
// until a clear yes or no arrives.
func TestYesNoReprompts(t *testing.T) {
	t.Parallel()

	prompt, out := testPrompter("maybe", "", "YES")

	ok, err := prompt.yesNo("Proceed")
	require.NoError(t, err)
	require.True(t, ok)
	require.Contains(t, out.String(), "Please answer y or n.")
}

// TestSafetyChecklistFails asserts that a single no fails the whole
// checklist.
func TestSafetyChecklistFails(t *testing.T) {
	t.Parallel()

	prompt, _ := testPrompter("y", "n")

	err := prompt.safetyChecklist()
	require.Error(t, err)
	require.Contains(t, err.Error(), "safety check failed")
}

// TestSafetyChecklistPasses asserts that answering yes to every question
// succeeds.
func TestSafetyChecklistPasses(t *testing.T) {
	t.Parallel()

	answers := make([]string, len(safetyQuestions))
	for i := range answers {
		answers[i] = "y"
	}
	prompt, _ := testPrompter(answers...)

	require.NoError(t, prompt.safetyChecklist())
}

// TestReadDiceSeed asserts that invalid rolls are asked again and that
// rolls may be entered in whitespace separated groups.
func TestReadDiceSeed(t *testing.T) {
	t.Parallel()

	prompt, out := testPrompter(
		// Too short, then a stray 7, then valid chunked input.
		"123456",
		"777777 777777",
		"62543 16325",
	)

	rolls, err := prompt.readDiceSeed(10)
	require.NoError(t, err)
	require.Equal(t, "6254316325", rolls)
	require.Contains(t, out.String(), "Invalid dice rolls")
}

// TestReadRngSeed asserts hex validation and whitespace tolerance.
func TestReadRngSeed(t *testing.T) {
	t.Parallel()

	prompt, _ := testPrompter(
		"zzzz",
		"dead beef",
	)

	seed, err := prompt.readRngSeed(2)
	require.NoError(t, err)
	require.Equal(t, "deadbeef", seed)
}

// TestReadWIF asserts that undecodable keys are rejected.
func TestReadWIF(t *testing.T) {
	t.Parallel()

	prompt, out := testPrompter("notakey", validWIF)

	wif, err := prompt.readWIF("Key: ")
	require.NoError(t, err)
	require.Equal(t, validWIF, wif)
	require.Contains(t, out.String(), "Invalid key")
}

// TestReadAmount asserts the blank-means-everything convention and the
// exact decimal parse.
func TestReadAmount(t *testing.T) {
	t.Parallel()

	prompt, _ := testPrompter("")
	_, all, err := prompt.readAmount("Amount: ")
	require.NoError(t, err)
	require.True(t, all)

	prompt, _ = testPrompter("0.31337")
	amount, all, err := prompt.readAmount("Amount: ")
	require.NoError(t, err)
	require.False(t, all)
	require.Equal(t, btcutil.Amount(31337000), amount)
}

// TestReadRawTxFromFile asserts that a path answer loads the transaction
// from the file instead of treating the path as hex.
func TestReadRawTxFromFile(t *testing.T) {
	t.Parallel()

	txFile := filepath.Join(t.TempDir(), "tx.hex")
	require.NoError(t, os.WriteFile(txFile, []byte("0200be ef\n"), 0644))

	prompt, _ := testPrompter(txFile)

	rawHex, err := prompt.readRawTx("Tx: ")
	require.NoError(t, err)
	require.Equal(t, "0200beef", rawHex)
}

// TestReadRawTxInline asserts that pasted hex passes through with
// whitespace stripped.
func TestReadRawTxInline(t *testing.T) {
	t.Parallel()

	prompt, _ := testPrompter("0200 beef")

	rawHex, err := prompt.readRawTx("Tx: ")
	require.NoError(t, err)
	require.Equal(t, "0200beef", rawHex)
}
