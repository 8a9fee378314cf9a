package main

import (
	"math/big"

	"charm-donate-tui/campaign"
	"charm-donate-tui/chain"
	"charm-donate-tui/wallet"

	"github.com/ethereum/go-ethereum/common"
)

// -------------------- TEA MESSAGES --------------------
// All custom message types for The Elm Architecture

// chainConnectedMsg contains result of the RPC connection attempt
type chainConnectedMsg struct {
	binding *chain.Binding
	err     error
}

// networkSwitchedMsg contains the reconnect result after an RPC change
type networkSwitchedMsg struct {
	binding *chain.Binding
	err     error
}

// contractProbedMsg contains the post-connect contract reachability check
type contractProbedMsg struct {
	count *big.Int
	err   error
}

// sessionProbedMsg contains the silent pre-authorization probe result
type sessionProbedMsg struct {
	addr      common.Address
	connected bool
	err       error
}

// connectResultMsg contains result of an explicit wallet connect
type connectResultMsg struct {
	addr common.Address
	err  error
}

// walletEventMsg delivers one provider notification; ok is false when the
// event channel closed
type walletEventMsg struct {
	event wallet.Event
	ok    bool
}

// campaignsLoadedMsg contains the full campaign list
type campaignsLoadedMsg struct {
	campaigns []campaign.Campaign
	err       error
}

// campaignDetailMsg contains one campaign with its donor ledger
type campaignDetailMsg struct {
	id     uint64
	c      campaign.Campaign
	ledger []campaign.Donation
	err    error
}

// createResultMsg contains the outcome of a campaign submission
type createResultMsg struct {
	err error
}

// donateResultMsg contains the outcome of a donation plus the refreshed
// record it confirmed against
type donateResultMsg struct {
	id     uint64
	c      campaign.Campaign
	ledger []campaign.Donation
	err    error
}

// campaignCreatedLogMsg signals one CampaignCreated event was observed
type campaignCreatedLogMsg struct{}

// watchFailedMsg signals the event subscription is unavailable (e.g. HTTP
// endpoint); listing refresh stays manual
type watchFailedMsg struct {
	err error
}

// returnToListingMsg triggers the post-create navigation back to the listing
type returnToListingMsg struct{}

// clearStatusMsg clears transient status/copied feedback
type clearStatusMsg struct{}

// clipboardCopiedMsg indicates clipboard copy completed
type clipboardCopiedMsg struct{}

// logInitMsg signals that log viewport should be initialized
type logInitMsg struct{}
