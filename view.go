package main

import (
	"strings"

	"charm-donate-tui/config"
	"charm-donate-tui/helpers"
	"charm-donate-tui/styles"
	"charm-donate-tui/views/create"
	"charm-donate-tui/views/detail"
	"charm-donate-tui/views/listing"
	logview "charm-donate-tui/views/log"
	"charm-donate-tui/views/settings"

	"github.com/charmbracelet/lipgloss"
)

// -------------------- VIEW --------------------

func (m model) globalHeader() string {
	availableWidth := helpers.Max(0, m.w-8) // Account for panel padding

	// Connected wallet address
	var addrDisplay string
	if addr := m.activeAddress(); addr != "" {
		addrDisplay = lipgloss.NewStyle().
			Foreground(styles.CAccent2).
			Bold(true).
			Render("Wallet: " + helpers.FadeString(helpers.ShortenAddr(addr), "#F25D94", "#EDFF82"))
	} else {
		addrDisplay = styles.MutedStyle.Render("Wallet: Not connected")
	}

	// RPC status with green dot
	var statusIcon string
	var statusColor lipgloss.Color
	var statusText string

	if m.rpcURL == "" {
		statusIcon = "○"
		statusColor = lipgloss.Color("#c01c28")
		statusText = "No RPC"
	} else if m.rpcConnecting {
		statusIcon = "○"
		statusColor = lipgloss.Color("#c01c28")
		statusText = "Connecting..."
	} else if !m.rpcConnected {
		statusIcon = "○"
		statusColor = lipgloss.Color("#c01c28")
		statusText = "Connection Failed"
	} else {
		statusIcon = "●"
		statusColor = styles.CAccent
		for _, r := range m.cfg.RPCURLs {
			if r.Active && r.URL == m.rpcURL {
				statusText = r.Name
				break
			}
		}
		if statusText == "" {
			statusText = "Connected"
		}
	}

	rpcDisplay := lipgloss.NewStyle().
		Foreground(statusColor).
		Bold(true).
		Render(statusIcon + " " + statusText)

	titleText := lipgloss.NewStyle().
		Foreground(styles.CAccent).
		Bold(true).
		Render(helpers.FadeString("charm donate", "#7EE787", "#82CFFD"))

	addrWidth := lipgloss.Width(addrDisplay)
	rpcWidth := lipgloss.Width(rpcDisplay)
	titleWidth := lipgloss.Width(titleText)
	totalOtherWidth := addrWidth + rpcWidth + titleWidth

	var headerLine string
	if totalOtherWidth+4 > availableWidth {
		// Not enough space, stack vertically
		headerLine = addrDisplay + "\n" + titleText + "\n" + rpcDisplay
	} else {
		// Three-column layout: Wallet | Title (centered) | RPC
		remainingSpace := availableWidth - totalOtherWidth
		leftPadding := remainingSpace / 2
		rightPadding := remainingSpace - leftPadding

		leftSpacer := strings.Repeat(" ", helpers.Max(1, leftPadding))
		rightSpacer := strings.Repeat(" ", helpers.Max(1, rightPadding))

		headerLine = addrDisplay + leftSpacer + titleText + rightSpacer + rpcDisplay
	}

	separator := lipgloss.NewStyle().
		Foreground(styles.CBorder).
		Render(strings.Repeat("─", availableWidth))

	return headerLine + "\n" + separator
}

func (m model) View() string {
	headerPanel := styles.PanelStyle.Width(helpers.Max(0, m.w-2)).Render(m.globalHeader())

	var pageContent string
	var nav string

	switch m.activePage {

	case config.PageListing:
		var listingContent string
		if m.showConnect && m.connectForm != nil {
			listingContent = styles.TitleStyle.Render("Connect Wallet") + "\n\n" + m.connectForm.View()
		} else if !m.sessionConnected() {
			listingContent = listing.RenderWelcome(m.connecting || m.rpcConnecting, m.welcomeError(), m.spin.View())
		} else {
			listingContent = listing.Render(m.campaigns, m.selectedCampaign, m.listLoading, m.listError, m.spin.View())
		}
		pageContent = styles.PanelStyle.Width(helpers.Max(0, m.w-2)).Render(listingContent)
		nav = listing.Nav(m.w-2, m.sessionConnected())

	case config.PageDetail:
		state := detail.State{
			Campaign:  m.detail,
			Ledger:    m.ledger,
			Loading:   m.detailLoading,
			Donating:  m.donating,
			Status:    m.donateStatus,
			ErrMsg:    m.detailError,
			CopiedMsg: m.copiedMsg,
			ShowQR:    m.showQR,
		}
		if m.typing {
			state.InputView = m.donateInput.View()
		}
		if m.showQR && m.binding != nil {
			state.QR = helpers.QRCode(m.binding.DonationURI(m.detailID))
		}
		pageContent = styles.PanelStyle.Width(helpers.Max(0, m.w-2)).Render(detail.Render(state, m.spin.View()))
		nav = detail.Nav(m.w-2, m.typing)

	case config.PageCreate:
		createContent := create.Render(m.createForm, m.sessionConnected(), m.creating, m.createSuccess, m.createError, m.spin.View())
		pageContent = styles.PanelStyle.Width(helpers.Max(0, m.w-2)).Render(createContent)
		nav = create.Nav(m.w - 2)

	case config.PageSettings:
		settingsContent := settings.Render(m.cfg.RPCURLs, m.selectedRPCIdx)
		pageContent = styles.PanelStyle.Width(helpers.Max(0, m.w-2)).Render(settingsContent)
		nav = settings.Nav(m.w - 2)
	}

	// Render log panel only if enabled
	if m.logEnabled {
		logPanel := logview.Render(m.w, m.h, m.logReady, m.logSpinner.View(), m.logViewport)
		content := lipgloss.JoinVertical(lipgloss.Left, headerPanel, pageContent, nav, logPanel)
		return styles.AppStyle.Render(content)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, headerPanel, pageContent, nav)
	return styles.AppStyle.Render(content)
}

// welcomeError picks the most relevant error for the disconnected screen
func (m model) welcomeError() string {
	if m.walletError != "" {
		return m.walletError
	}
	return m.listError
}
