package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"charm-donate-tui/campaign"
	"charm-donate-tui/chain"
	"charm-donate-tui/config"
	"charm-donate-tui/helpers"
	"charm-donate-tui/styles"
	"charm-donate-tui/wallet"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// -------------------- TEMP FORM STORAGE --------------------
// Temporary form field storage (package-level to avoid pointer-to-copy issues)
var (
	tempTitle       string
	tempDescription string
	tempImage       string
	tempPassphrase  string
)

// createCampaignForm builds the campaign creation form. With reset the field
// values are cleared; without it a failed submission keeps what was typed.
func (m *model) createCampaignForm(reset bool) {
	if reset {
		tempTitle = ""
		tempDescription = ""
		tempImage = ""
	}

	m.createForm = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Campaign Title").
				Description("What are you raising funds for?").
				Value(&tempTitle).
				Placeholder("Write a title"),

			huh.NewText().
				Title("Story").
				Description("Tell donors about your cause").
				Value(&tempDescription).
				Placeholder("Write your story").
				Lines(4),

			huh.NewInput().
				Title("Campaign Image").
				Description("URL of a campaign image (checked before submitting)").
				Value(&tempImage).
				Placeholder("https://..."),
		),
	).WithTheme(huh.ThemeCatppuccin())

	// Initialize the form
	m.createForm.Init()
}

// createConnectForm builds the passphrase prompt shown before connecting
func (m *model) createConnectForm() {
	tempPassphrase = ""

	m.connectForm = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Keystore Passphrase").
				Description("Unlocks the first account in "+m.cfg.KeystoreDir).
				Value(&tempPassphrase).
				EchoMode(huh.EchoModePassword),
		),
	).WithTheme(huh.ThemeCatppuccin())

	m.connectForm.Init()
}

// rebuildServices wires the domain services over the current binding. Called
// on every successful (re)connect; the old services are dropped wholesale.
func (m *model) rebuildServices() {
	m.session = wallet.NewSession(m.provider, m.binding.ChainID)
	m.repo = campaign.NewRepository(m.binding, m.serviceLogger())
	m.submit = campaign.NewSubmission(m.session, m.binding, m.repo, campaign.NewHTTPImageProber(), m.serviceLogger())
}

// serviceLogger returns the panel logger, or a silent one while the panel is
// off. Stderr would bleed through the alt screen.
func (m *model) serviceLogger() *log.Logger {
	if m.logger != nil {
		return m.logger
	}
	return log.New(io.Discard)
}

// describeErr maps domain errors to a displayable message
func describeErr(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, campaign.ErrInvalidAmount):
		return "Enter a valid positive ETH amount"
	case errors.Is(err, campaign.ErrInvalidImage):
		return "Image URL could not be loaded. Provide a valid image URL"
	case errors.Is(err, campaign.ErrNotFound):
		return "Campaign not found"
	case errors.Is(err, campaign.ErrDataIntegrity):
		return "Campaign data looks corrupted. Try refreshing"
	case errors.Is(err, wallet.ErrNotConnected), errors.Is(err, wallet.ErrNoProvider):
		return "Connect your wallet first"
	case errors.Is(err, wallet.ErrConnectRejected):
		return "Wallet unlock failed. Check the passphrase"
	case errors.Is(err, wallet.ErrNoAccounts):
		return "No accounts found in the keystore"
	default:
		return chain.Describe(err)
	}
}

// -------------------- UPDATE --------------------

// passesThroughForms reports whether msg must reach the main switch even
// while a form is open. Swallowing an async result or a spinner tick would
// break its re-issued command chain.
func passesThroughForms(msg tea.Msg) bool {
	switch msg.(type) {
	case chainConnectedMsg, networkSwitchedMsg, contractProbedMsg, sessionProbedMsg, connectResultMsg,
		walletEventMsg, campaignsLoadedMsg, campaignDetailMsg, createResultMsg,
		donateResultMsg, campaignCreatedLogMsg, watchFailedMsg, returnToListingMsg,
		clearStatusMsg, clipboardCopiedMsg, logInitMsg,
		spinner.TickMsg, tea.WindowSizeMsg:
		return true
	}
	return false
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Handle form updates first (before message switching)
	if m.showConnect && m.connectForm != nil && !passesThroughForms(msg) {
		// Intercept ESC key to cancel form
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
			m.showConnect = false
			m.connectForm = nil
			return m, nil
		}

		form, cmd := m.connectForm.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.connectForm = f

			if m.connectForm.State == huh.StateCompleted {
				m.showConnect = false
				m.connectForm = nil
				if m.session == nil {
					m.walletError = "Still connecting to the network. Try again in a moment"
					return m, nil
				}
				m.provider.SetPassphrase(tempPassphrase)
				tempPassphrase = ""
				m.connecting = true
				m.walletError = ""
				m.addLog("info", "Requesting wallet authorization")
				return m, connectWallet(m.session)
			}

			if m.connectForm.State == huh.StateAborted {
				m.showConnect = false
				m.connectForm = nil
				return m, nil
			}
		}
		return m, cmd
	}

	if m.activePage == config.PageCreate && m.createForm != nil && !m.creating && !m.createSuccess && !passesThroughForms(msg) {
		// Intercept ESC key to cancel form
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
			m.createForm = nil
			m.createError = ""
			m.activePage = config.PageListing
			return m, nil
		}

		form, cmd := m.createForm.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.createForm = f

			if m.createForm.State == huh.StateCompleted {
				if m.submit == nil {
					m.createError = "Not connected to the network"
					m.createCampaignForm(false)
					return m, nil
				}
				m.creating = true
				m.createError = ""
				m.addLog("info", fmt.Sprintf("Submitting campaign `%s`", tempTitle))
				return m, submitCreate(m.submit, campaign.CreateForm{
					Title:       tempTitle,
					Description: tempDescription,
					Image:       tempImage,
				})
			}

			if m.createForm.State == huh.StateAborted {
				m.createForm = nil
				m.createError = ""
				m.activePage = config.PageListing
				return m, nil
			}
		}
		return m, cmd
	}

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.w, m.h = msg.Width, msg.Height

		if m.logEnabled {
			m.logViewport.Width = helpers.Max(0, msg.Width-6)
			if m.logReady {
				m.updateLogViewport()
			}
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)
		if m.logEnabled && !m.logReady {
			m.logSpinner, cmd = m.logSpinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case logInitMsg:
		if !m.logEnabled {
			return m, nil
		}
		// Create logger that writes to our buffer
		m.logger = log.NewWithOptions(m.logBuffer, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05",
		})
		m.logger.SetLevel(log.DebugLevel)
		m.logger.SetStyles(&log.Styles{
			Timestamp: lipgloss.NewStyle().Foreground(styles.CMuted),
			Caller:    lipgloss.NewStyle().Faint(true),
			Prefix:    lipgloss.NewStyle().Bold(true).Foreground(styles.CAccent2),
			Message:   lipgloss.NewStyle().Foreground(styles.CText),
			Key:       lipgloss.NewStyle().Foreground(styles.CAccent),
			Value:     lipgloss.NewStyle().Foreground(styles.CText),
			Separator: lipgloss.NewStyle().Faint(true),
			Levels: map[log.Level]lipgloss.Style{
				log.DebugLevel: lipgloss.NewStyle().Foreground(styles.CMuted).SetString("DEBUG"),
				log.InfoLevel:  lipgloss.NewStyle().Foreground(styles.CAccent2).SetString("INFO"),
				log.WarnLevel:  lipgloss.NewStyle().Foreground(styles.CWarn).SetString("WARN"),
				log.ErrorLevel: lipgloss.NewStyle().Foreground(styles.CError).SetString("ERROR"),
			},
		})
		m.logReady = true
		// Re-point the domain services at the live logger
		if m.binding != nil && m.session != nil {
			m.repo = campaign.NewRepository(m.binding, m.logger)
			m.submit = campaign.NewSubmission(m.session, m.binding, m.repo, campaign.NewHTTPImageProber(), m.logger)
		}
		m.addLog("info", "Logger enabled")
		return m, nil

	case chainConnectedMsg, networkSwitchedMsg:
		var binding *chain.Binding
		var err error
		if c, ok := msg.(chainConnectedMsg); ok {
			binding, err = c.binding, c.err
		} else {
			n := msg.(networkSwitchedMsg)
			binding, err = n.binding, n.err
		}

		m.rpcConnecting = false
		if err != nil {
			m.rpcConnected = false
			m.listError = chain.Describe(err)
			m.addLog("error", fmt.Sprintf("RPC connection failed: %s", err.Error()))
			return m, nil
		}

		m.binding = binding
		m.rpcConnected = true
		m.listError = ""
		m.rebuildServices()
		m.addLog("success", fmt.Sprintf("RPC connected, chain id %s", binding.ChainID.String()))

		cmds = append(cmds, probeSession(m.session), watchCampaignCreated(m.binding))
		// The provider event channel outlives reconnects; one listener is enough
		if !m.walletWatchArmed {
			m.walletWatchArmed = true
			cmds = append(cmds, waitWalletEvent(m.session.Events()))
		}
		return m, tea.Batch(cmds...)

	case contractProbedMsg:
		if msg.err != nil {
			m.listError = "Contract unreachable on this network. Check the active RPC endpoint"
			m.addLog("error", fmt.Sprintf("Contract probe failed: %v", msg.err))
			return m, nil
		}
		m.addLog("info", fmt.Sprintf("Contract reachable, %s campaigns on chain", msg.count.String()))
		return m, nil

	case sessionProbedMsg:
		if msg.err != nil {
			m.addLog("debug", fmt.Sprintf("Session probe: %v", msg.err))
			return m, nil
		}
		if !msg.connected {
			return m, nil
		}
		m.addLog("success", fmt.Sprintf("Session restored for %s", helpers.ShortenAddr(msg.addr.Hex())))
		m.listLoading = true
		return m, tea.Batch(probeContract(m.binding), loadCampaigns(m.repo))

	case connectResultMsg:
		m.connecting = false
		if msg.err != nil {
			m.walletError = describeErr(msg.err)
			m.addLog("error", fmt.Sprintf("Wallet connect failed: %v", msg.err))
			return m, nil
		}
		m.walletError = ""
		m.addLog("success", fmt.Sprintf("Wallet connected: %s", helpers.ShortenAddr(msg.addr.Hex())))
		m.listLoading = true
		return m, tea.Batch(probeContract(m.binding), loadCampaigns(m.repo))

	case walletEventMsg:
		if !msg.ok {
			m.walletWatchArmed = false
			return m, nil
		}
		switch msg.event.Type {
		case wallet.EventAccountsChanged:
			if m.session != nil {
				m.session.HandleAccountsChanged(msg.event.Accounts)
			}
			if len(msg.event.Accounts) == 0 {
				m.addLog("warning", "Wallet disconnected, no accounts available")
			} else {
				m.addLog("info", fmt.Sprintf("Active account changed to %s", helpers.ShortenAddr(msg.event.Accounts[0].Hex())))
			}
		case wallet.EventChainChanged:
			m.addLog("warning", "Provider reported a chain change")
		}
		// Re-arm on the provider channel: it outlives session rebuilds, so
		// an event landing mid network-switch must not end the listener
		if m.provider != nil {
			return m, waitWalletEvent(m.provider.Events())
		}
		m.walletWatchArmed = false
		return m, nil

	case campaignsLoadedMsg:
		m.listLoading = false
		if msg.err != nil {
			m.listError = chain.Describe(msg.err)
			m.addLog("error", fmt.Sprintf("Campaign fetch failed: %v", msg.err))
			return m, nil
		}
		m.listError = ""
		m.campaigns = msg.campaigns
		if m.selectedCampaign >= len(m.campaigns) {
			m.selectedCampaign = helpers.Max(0, len(m.campaigns)-1)
		}
		m.addLog("info", fmt.Sprintf("Loaded %d campaigns", len(m.campaigns)))
		return m, nil

	case campaignDetailMsg:
		if msg.id != m.detailID {
			return m, nil
		}
		m.detailLoading = false
		if msg.err != nil {
			m.detailError = describeErr(msg.err)
			m.addLog("error", fmt.Sprintf("Campaign %d fetch failed: %v", msg.id, msg.err))
			return m, nil
		}
		m.detailError = ""
		m.detail = msg.c
		m.ledger = msg.ledger
		return m, nil

	case createResultMsg:
		m.creating = false
		if msg.err != nil {
			m.createError = describeErr(msg.err)
			m.addLog("error", fmt.Sprintf("Campaign creation failed: %v", msg.err))
			// Keep what the user typed
			m.createCampaignForm(false)
			return m, nil
		}
		m.createSuccess = true
		m.createForm = nil
		m.addLog("success", fmt.Sprintf("Campaign `%s` created", tempTitle))
		return m, returnToListingAfter(1500 * time.Millisecond)

	case donateResultMsg:
		if msg.id != m.detailID {
			return m, nil
		}
		m.donating = false
		if msg.err != nil {
			m.detailError = describeErr(msg.err)
			m.addLog("error", fmt.Sprintf("Donation failed: %v", msg.err))
			return m, nil
		}
		m.detailError = ""
		m.detail = msg.c
		m.ledger = msg.ledger
		m.typing = false
		m.donateInput.SetValue("")
		m.donateInput.Blur()
		m.donateStatus = "Donation confirmed. Thank you!"
		if msg.id < uint64(len(m.campaigns)) {
			m.campaigns[msg.id] = msg.c
		}
		m.addLog("success", fmt.Sprintf("Donation to campaign %d confirmed", msg.id))
		return m, clearStatusAfter(4 * time.Second)

	case campaignCreatedLogMsg:
		m.addLog("info", "New campaign observed on chain")
		cmds = append(cmds, watchCampaignCreated(m.binding))
		if m.activePage == config.PageListing && m.sessionConnected() && !m.listLoading {
			m.listLoading = true
			cmds = append(cmds, loadCampaigns(m.repo))
		}
		return m, tea.Batch(cmds...)

	case watchFailedMsg:
		// HTTP endpoints cannot subscribe; refresh stays manual
		m.addLog("debug", fmt.Sprintf("Event watch unavailable: %v", msg.err))
		return m, nil

	case returnToListingMsg:
		m.activePage = config.PageListing
		m.createSuccess = false
		m.createForm = nil
		m.listLoading = true
		return m, loadCampaigns(m.repo)

	case clearStatusMsg:
		m.donateStatus = ""
		m.copiedMsg = ""
		return m, nil

	case clipboardCopiedMsg:
		m.copiedMsg = "copied!"
		return m, clearStatusAfter(2 * time.Second)

	case tea.KeyMsg:
		// Donation amount entry swallows everything except control keys
		if m.activePage == config.PageDetail && m.typing {
			switch msg.String() {
			case "esc":
				m.typing = false
				m.donateInput.Blur()
				return m, nil
			case "enter":
				if m.donating {
					return m, nil
				}
				if m.submit == nil {
					m.detailError = "Not connected to the network"
					return m, nil
				}
				m.donating = true
				m.detailError = ""
				m.donateStatus = ""
				m.addLog("info", fmt.Sprintf("Donating %s ETH to campaign %d", m.donateInput.Value(), m.detailID))
				return m, submitDonate(m.submit, m.detailID, m.donateInput.Value())
			default:
				var cmd tea.Cmd
				m.donateInput, cmd = m.donateInput.Update(msg)
				return m, cmd
			}
		}

		allowMenuHotkeys := !m.textInputActive()
		// global keys
		if allowMenuHotkeys {
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit

			case "l", "L":
				// Toggle logger
				m.logEnabled = !m.logEnabled
				m.cfg.Logger = m.logEnabled
				config.Save(m.configPath, m.cfg)
				if m.logEnabled {
					if m.w > 0 {
						m.logViewport.Width = m.w - 6
					}
					m.logReady = false
					return m, tea.Batch(initLogViewport(), m.logSpinner.Tick)
				}
				// Clear logs and de-initialize when disabling
				if m.logBuffer != nil {
					m.logBuffer.Reset()
				}
				m.logger = nil
				m.logReady = false
				return m, nil

			case "pageup", "pagedown":
				if m.logEnabled && m.logReady {
					var cmd tea.Cmd
					m.logViewport, cmd = m.logViewport.Update(msg)
					return m, cmd
				}
			}
		}

		// page-specific behavior
		switch m.activePage {

		case config.PageListing:
			if !m.sessionConnected() {
				switch msg.String() {
				case "c":
					if m.connecting || m.rpcConnecting {
						return m, nil
					}
					if !m.rpcConnected {
						m.walletError = "No RPC connection. Check settings"
						return m, nil
					}
					m.createConnectForm()
					m.showConnect = true
					return m, nil
				case "s":
					m.activePage = config.PageSettings
					m.selectedRPCIdx = m.activeRPCIndex()
					return m, nil
				case "esc", "q":
					return m, tea.Quit
				}
				return m, nil
			}

			switch msg.String() {
			case "up", "k":
				if m.selectedCampaign > 0 {
					m.selectedCampaign--
				}
				return m, nil
			case "down", "j":
				if m.selectedCampaign < len(m.campaigns)-1 {
					m.selectedCampaign++
				}
				return m, nil
			case "enter":
				if m.selectedCampaign < 0 || m.selectedCampaign >= len(m.campaigns) {
					return m, nil
				}
				return m.openDetail(m.campaigns[m.selectedCampaign].ID)
			case "n":
				m.activePage = config.PageCreate
				m.createError = ""
				m.createSuccess = false
				m.createCampaignForm(true)
				return m, nil
			case "r":
				m.listLoading = true
				m.listError = ""
				return m, loadCampaigns(m.repo)
			case "s":
				m.activePage = config.PageSettings
				m.selectedRPCIdx = m.activeRPCIndex()
				return m, nil
			case "esc", "q":
				return m, tea.Quit
			}
			return m, nil

		case config.PageDetail:
			switch msg.String() {
			case "d", "enter":
				if m.donating || m.detailLoading {
					return m, nil
				}
				m.typing = true
				m.donateStatus = ""
				m.donateInput.Focus()
				return m, nil
			case "q":
				m.showQR = !m.showQR
				return m, nil
			case "c":
				if m.detail.Title != "" {
					return m, copyToClipboard(m.detail.Owner.Hex())
				}
				return m, nil
			case "r":
				if m.detailLoading {
					return m, nil
				}
				m.detailLoading = true
				m.detailError = ""
				return m, loadCampaignDetail(m.repo, m.detailID)
			case "esc":
				m.activePage = config.PageListing
				m.showQR = false
				m.typing = false
				m.donateStatus = ""
				m.detailError = ""
				m.donateInput.Blur()
				return m, nil
			}
			return m, nil

		case config.PageCreate:
			// Form handles its own keys; only the gated states land here
			switch msg.String() {
			case "esc":
				if !m.creating {
					m.activePage = config.PageListing
					m.createSuccess = false
					m.createForm = nil
				}
				return m, nil
			}
			return m, nil

		case config.PageSettings:
			switch msg.String() {
			case "up", "k":
				if m.selectedRPCIdx > 0 {
					m.selectedRPCIdx--
				}
				return m, nil
			case "down", "j":
				if m.selectedRPCIdx < len(m.cfg.RPCURLs)-1 {
					m.selectedRPCIdx++
				}
				return m, nil
			case "enter":
				return m.activateRPC(m.selectedRPCIdx)
			case "esc":
				m.activePage = config.PageListing
				return m, nil
			}
			return m, nil
		}
	}

	return m, tea.Batch(cmds...)
}

// openDetail navigates to a campaign and starts the fetch
func (m model) openDetail(id uint64) (tea.Model, tea.Cmd) {
	m.activePage = config.PageDetail
	m.detailID = id
	m.detailLoading = true
	m.detailError = ""
	m.donateStatus = ""
	m.copiedMsg = ""
	m.showQR = false
	m.typing = false

	// Render the stale record while the refresh runs
	if id < uint64(len(m.campaigns)) {
		m.detail = m.campaigns[id]
	}
	m.ledger = nil

	return m, loadCampaignDetail(m.repo, id)
}

// activateRPC switches the active endpoint. A network change invalidates
// everything: session, binding, campaign data.
func (m model) activateRPC(idx int) (tea.Model, tea.Cmd) {
	if idx < 0 || idx >= len(m.cfg.RPCURLs) {
		return m, nil
	}

	for i := range m.cfg.RPCURLs {
		m.cfg.RPCURLs[i].Active = i == idx
	}
	config.Save(m.configPath, m.cfg)

	m.rpcURL = m.cfg.RPCURLs[idx].URL
	m.addLog("info", fmt.Sprintf("Switching network to `%s`", m.cfg.RPCURLs[idx].Name))

	// Tear down the old world before connecting to the new one
	if m.session != nil {
		m.session.Reset()
	}
	if m.binding != nil {
		m.binding.Close()
	}
	m.session = nil
	m.binding = nil
	m.repo = nil
	m.submit = nil
	m.campaigns = nil
	m.selectedCampaign = 0
	m.ledger = nil
	m.listError = ""
	m.walletError = ""

	m.rpcConnected = false
	m.rpcConnecting = true
	m.activePage = config.PageListing

	return m, switchNetwork(m.rpcURL, m.contractAddress())
}

// activeRPCIndex returns the index of the active endpoint, or 0
func (m model) activeRPCIndex() int {
	for i, r := range m.cfg.RPCURLs {
		if r.Active {
			return i
		}
	}
	return 0
}
