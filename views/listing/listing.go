package listing

import (
	"fmt"
	"strings"

	"charm-donate-tui/campaign"
	"charm-donate-tui/helpers"
	"charm-donate-tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// Nav returns the navigation bar for the campaign listing
func Nav(width int, connected bool) string {
	var left string
	if connected {
		left = strings.Join([]string{
			styles.Key("↑/↓") + " select",
			styles.Key("Enter") + " open",
			styles.Key("n") + " new campaign",
			styles.Key("r") + " refresh",
			styles.Key("s") + " settings",
			styles.Key("l") + " logger",
			styles.Key("Esc") + " quit",
		}, "   ")
	} else {
		left = strings.Join([]string{
			styles.Key("c") + " connect wallet",
			styles.Key("s") + " settings",
			styles.Key("l") + " logger",
			styles.Key("Esc") + " quit",
		}, "   ")
	}

	return styles.NavStyle.Width(width).Render(left)
}

// RenderWelcome renders the disconnected welcome state. No campaign data is
// fetched until the wallet connects.
func RenderWelcome(connecting bool, errMsg string, spinnerView string) string {
	banner := helpers.FadeString("Welcome to the Donation dApp", "#F25D94", "#EDFF82")

	lines := []string{
		styles.TitleStyle.Render(banner),
		"",
		styles.MutedStyle.Render("Connect your wallet to explore and support amazing causes."),
		"",
	}

	if connecting {
		lines = append(lines, spinnerView+" Connecting…")
	} else {
		lines = append(lines, styles.MutedStyle.Render("Press ")+styles.Key("c")+styles.MutedStyle.Render(" to connect your wallet."))
	}

	if errMsg != "" {
		lines = append(lines, "", styles.ErrorStyle.Render("⚠ "+errMsg))
	}

	return strings.Join(lines, "\n")
}

// Render renders the campaign listing for a connected wallet
func Render(campaigns []campaign.Campaign, selectedIdx int, loading bool, errMsg string, spinnerView string) string {
	h := styles.TitleStyle.Render("All Campaigns")

	if loading {
		return h + "\n\n" + spinnerView + " fetching campaigns…"
	}

	if errMsg != "" {
		return h + "\n\n" + styles.ErrorStyle.Render("⚠ "+errMsg) + "\n\n" +
			styles.MutedStyle.Render("Press ")+styles.Key("r")+styles.MutedStyle.Render(" to retry.")
	}

	if len(campaigns) == 0 {
		return h + "\n\n" +
			styles.MutedStyle.Render("No campaigns found. Be the first to create one!") + "\n\n" +
			styles.MutedStyle.Render("Press ")+styles.Key("n")+styles.MutedStyle.Render(" to start a campaign.")
	}

	lines := []string{h, ""}
	for i, c := range campaigns {
		lines = append(lines, renderCard(c, i == selectedIdx)...)
	}

	return strings.Join(lines, "\n")
}

func renderCard(c campaign.Campaign, selected bool) []string {
	marker := styles.MutedStyle.Render("  ")
	titleStyle := lipgloss.NewStyle().Foreground(styles.CText)
	if selected {
		marker = lipgloss.NewStyle().Foreground(styles.CAccent2).Render("▶ ")
		titleStyle = titleStyle.Foreground(styles.CAccent2).Bold(true)
	}

	collected := lipgloss.NewStyle().Foreground(styles.CAccent).
		Render(helpers.FormatETH(c.AmountCollected))
	count := styles.MutedStyle.Render(fmt.Sprintf("%d donations", c.DonationCount))

	title := marker + titleStyle.Render(c.Title) + "  " + collected + "  " + count
	sub := "  " + styles.MutedStyle.Render(helpers.ShortenAddr(c.Owner.Hex())+"  "+truncate(c.Description, 64))

	return []string{title, sub, ""}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
