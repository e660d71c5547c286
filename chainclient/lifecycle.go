package chainclient

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"
)

const (
	// startupAttempts bounds the readiness poll after the daemon is
	// spawned. Exceeding it is a fatal startup error, not a retryable
	// condition.
	startupAttempts = 20

	// startupBackoff is the fixed delay between readiness polls.
	startupBackoff = 500 * time.Millisecond

	// MinNodeVersion is the oldest node version the tool accepts. The
	// decoderawtransaction output this tool depends on (the resolved
	// address field on outputs) changed in v22.0.
	MinNodeVersion = 220000
)

// StartDaemon spawns bitcoind in daemon mode. If another instance is
// already running the spawn fails benignly on the daemon side, so the
// exit code is deliberately ignored; readiness is established separately
// by WaitForStartup.
func (c *BitcoindClient) StartDaemon() {
	// -connect=0.0.0.0 since this tool only performs local operations
	// (and the machine has no network connection anyway).
	args := []string{"-daemon", "-connect=0.0.0.0"}
	if c.cfg.DataDir != "" {
		args = append(args, "-datadir="+c.cfg.DataDir)
	}
	args = append(args, c.cfg.ExtraArgs...)

	log.Debugf("starting bitcoind %v", args)

	if err := exec.Command("bitcoind", args...).Run(); err != nil {
		log.Debugf("bitcoind start returned: %v (ignored, the "+
			"daemon may already be running)", err)
	}

	// Give the freshly spawned daemon a moment before the first poll.
	time.Sleep(time.Second)
}

// WaitForStartup blocks until the node answers RPC requests and the
// default wallet is loaded, polling at a fixed backoff for a bounded
// number of attempts.
func (c *BitcoindClient) WaitForStartup(ctx context.Context) error {
	for attempt := 0; attempt <= startupAttempts; attempt++ {
		if _, err := c.conn.GetNetworkInfo(); err == nil {
			return c.ensureDefaultWallet()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.backoff):
		}
	}

	return fmt.Errorf("timeout while starting bitcoin server")
}

// RequireVersion fails if the node is older than the given version, in
// getnetworkinfo format (e.g. 220000 for v22.0).
func (c *BitcoindClient) RequireVersion(min int32) error {
	info, err := c.conn.GetNetworkInfo()
	if err != nil {
		return fmt.Errorf("getnetworkinfo failed: %w", err)
	}

	if info.Version < min {
		return fmt.Errorf("bitcoind version %d is too old, need %d "+
			"or newer", info.Version, min)
	}

	return nil
}

// walletDirEntry mirrors one entry of the listwalletdir response.
type walletDirEntry struct {
	Name string `json:"name"`
}

// loadWalletResult mirrors the response of createwallet/loadwallet.
type loadWalletResult struct {
	Name    string `json:"name"`
	Warning string `json:"warning"`
}

// ensureDefaultWallet makes sure the node's default ("") wallet exists
// and is loaded. Since v0.21 the node no longer creates it on first
// start.
func (c *BitcoindClient) ensureDefaultWallet() error {
	resp, err := c.call("listwallets")
	if err != nil {
		return err
	}

	var loaded []string
	if err := json.Unmarshal(resp, &loaded); err != nil {
		return fmt.Errorf("unable to parse listwallets response: %w",
			err)
	}
	for _, name := range loaded {
		if name == "" {
			return nil
		}
	}

	resp, err = c.call("listwalletdir")
	if err != nil {
		return err
	}

	var walletDir struct {
		Wallets []walletDirEntry `json:"wallets"`
	}
	if err := json.Unmarshal(resp, &walletDir); err != nil {
		return fmt.Errorf("unable to parse listwalletdir response: "+
			"%w", err)
	}

	cmd := "createwallet"
	for _, wallet := range walletDir.Wallets {
		if wallet.Name == "" {
			cmd = "loadwallet"
			break
		}
	}

	resp, err = c.call(cmd, "")
	if err != nil {
		return err
	}

	var result loadWalletResult
	if err := json.Unmarshal(resp, &result); err != nil {
		return fmt.Errorf("unable to parse %s response: %w", cmd, err)
	}
	if result.Warning != "" {
		return fmt.Errorf("problem running %s on default wallet: %s",
			cmd, result.Warning)
	}

	return nil
}
