package main

import (
	"math/big"
	"testing"

	"charm-donate-tui/chain"
	"charm-donate-tui/wallet"

	tea "github.com/charmbracelet/bubbletea"
)

// runBatch executes every command in a batch and returns the produced
// messages. Safe here: no command in these flows blocks without a client.
func runBatch(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}

	batch, ok := cmd().(tea.BatchMsg)
	if !ok {
		t.Fatal("expected a command batch")
	}

	msgs := make([]tea.Msg, 0, len(batch))
	for _, c := range batch {
		msgs = append(msgs, c())
	}
	return msgs
}

func TestWalletEventMidSwitchKeepsListenerAlive(t *testing.T) {
	m := model{
		provider:         wallet.NewKeystoreProvider(t.TempDir()),
		walletWatchArmed: true,
	}
	defer m.provider.Close()

	// A provider event lands while the session is torn down for a network
	// switch. The listener must be re-issued; otherwise every later event,
	// including the forced disconnect on an empty account set, is lost.
	updated, cmd := m.Update(walletEventMsg{
		event: wallet.Event{Type: wallet.EventAccountsChanged},
		ok:    true,
	})

	if cmd == nil {
		t.Fatal("expected the wallet event listener to be re-issued")
	}
	if !updated.(model).walletWatchArmed {
		t.Error("expected the listener to stay armed")
	}
}

func TestContractProbeWaitsForConnectedSigner(t *testing.T) {
	m := model{
		provider:         wallet.NewKeystoreProvider(t.TempDir()),
		walletWatchArmed: true,
	}
	defer m.provider.Close()

	binding := &chain.Binding{ChainID: big.NewInt(84532)}

	// RPC connect alone schedules no contract reads
	updated, cmd := m.Update(chainConnectedMsg{binding: binding})
	mm := updated.(model)
	for _, msg := range runBatch(t, cmd) {
		if _, ok := msg.(contractProbedMsg); ok {
			t.Error("contract probed before a signer connected")
		}
		if _, ok := msg.(campaignsLoadedMsg); ok {
			t.Error("campaigns fetched before a signer connected")
		}
	}

	// A restored session triggers both the probe and the listing fetch
	_, cmd = mm.Update(sessionProbedMsg{connected: true})
	probed, loaded := false, false
	for _, msg := range runBatch(t, cmd) {
		switch msg.(type) {
		case contractProbedMsg:
			probed = true
		case campaignsLoadedMsg:
			loaded = true
		}
	}
	if !probed {
		t.Error("expected the contract probe after the signer connected")
	}
	if !loaded {
		t.Error("expected the campaign fetch after the signer connected")
	}
}
