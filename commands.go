package main

import (
	"context"
	"time"

	"charm-donate-tui/campaign"
	"charm-donate-tui/chain"
	"charm-donate-tui/wallet"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ethereum/go-ethereum/common"
)

// -------------------- COMMAND FUNCTIONS --------------------
// Functions that return tea.Cmd for async operations

const readTimeout = 12 * time.Second

// connectChain establishes the RPC connection and binds the contract
func connectChain(url string, contract common.Address) tea.Cmd {
	return func() tea.Msg {
		result := chain.Connect(url, contract)
		return chainConnectedMsg{binding: result.Binding, err: result.Error}
	}
}

// switchNetwork reconnects to a different RPC endpoint after the old
// binding has been torn down
func switchNetwork(url string, contract common.Address) tea.Cmd {
	return func() tea.Msg {
		result := chain.Connect(url, contract)
		return networkSwitchedMsg{binding: result.Binding, err: result.Error}
	}
}

// probeContract checks the contract is actually deployed on the connected
// network by reading its campaign counter
func probeContract(binding *chain.Binding) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), readTimeout)
		defer cancel()

		count, err := binding.NumberOfCampaigns(ctx)
		return contractProbedMsg{count: count, err: err}
	}
}

// probeSession looks for a pre-authorized account without prompting
func probeSession(session *wallet.Session) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), readTimeout)
		defer cancel()

		addr, connected, err := session.Probe(ctx)
		return sessionProbedMsg{addr: addr, connected: connected, err: err}
	}
}

// connectWallet explicitly requests wallet authorization
func connectWallet(session *wallet.Session) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), readTimeout)
		defer cancel()

		addr, err := session.Connect(ctx)
		return connectResultMsg{addr: addr, err: err}
	}
}

// waitWalletEvent blocks on the provider notification channel. The handler
// in Update re-issues it to keep listening.
func waitWalletEvent(events <-chan wallet.Event) tea.Cmd {
	return func() tea.Msg {
		if events == nil {
			return walletEventMsg{ok: false}
		}
		ev, ok := <-events
		return walletEventMsg{event: ev, ok: ok}
	}
}

// loadCampaigns fetches the full campaign list
func loadCampaigns(repo *campaign.Repository) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), readTimeout)
		defer cancel()

		campaigns, err := repo.ListAll(ctx)
		return campaignsLoadedMsg{campaigns: campaigns, err: err}
	}
}

// loadCampaignDetail fetches one campaign and its donor ledger
func loadCampaignDetail(repo *campaign.Repository, id uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), readTimeout)
		defer cancel()

		c, err := repo.Detail(ctx, id)
		if err != nil {
			return campaignDetailMsg{id: id, err: err}
		}
		ledger, err := repo.DonorLedger(ctx, id)
		if err != nil {
			return campaignDetailMsg{id: id, c: c, err: err}
		}
		return campaignDetailMsg{id: id, c: c, ledger: ledger}
	}
}

// submitCreate runs the create-campaign write path. No timeout: waiting for
// confirmation is bounded only by the network.
func submitCreate(svc *campaign.Submission, form campaign.CreateForm) tea.Cmd {
	return func() tea.Msg {
		err := svc.CreateCampaign(context.Background(), form)
		return createResultMsg{err: err}
	}
}

// submitDonate runs the donation write path and returns the refreshed record
func submitDonate(svc *campaign.Submission, id uint64, amountText string) tea.Cmd {
	return func() tea.Msg {
		c, ledger, err := svc.Donate(context.Background(), id, amountText)
		return donateResultMsg{id: id, c: c, ledger: ledger, err: err}
	}
}

// watchCampaignCreated waits for one CampaignCreated log, then returns so
// Update can refresh the listing and re-arm the watch. Best-effort.
func watchCampaignCreated(binding *chain.Binding) tea.Cmd {
	return func() tea.Msg {
		logs, sub, err := binding.WatchCampaignCreated(context.Background())
		if err != nil {
			return watchFailedMsg{err: err}
		}
		defer sub.Unsubscribe()

		select {
		case <-logs:
			return campaignCreatedLogMsg{}
		case err := <-sub.Err():
			return watchFailedMsg{err: err}
		}
	}
}

// returnToListingAfter waits the post-success delay so the confirmation
// message is perceivable, then navigates back
func returnToListingAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return returnToListingMsg{}
	})
}

// clearStatusAfter clears transient feedback after a short delay
func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// copyToClipboard copies text to clipboard
func copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err == nil {
			return clipboardCopiedMsg{}
		}
		return nil
	}
}

// initLogViewport initializes the log viewport
func initLogViewport() tea.Cmd {
	return func() tea.Msg {
		return logInitMsg{}
	}
}
