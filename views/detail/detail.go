package detail

import (
	"fmt"
	"strings"

	"charm-donate-tui/campaign"
	"charm-donate-tui/helpers"
	"charm-donate-tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// State carries everything the detail page renders.
type State struct {
	Campaign  campaign.Campaign
	Ledger    []campaign.Donation
	Loading   bool
	Donating  bool
	InputView string
	Status    string
	ErrMsg    string
	CopiedMsg string
	QR        string
	ShowQR    bool
}

// Nav returns the navigation bar for the campaign detail view
func Nav(width int, typing bool) string {
	var left string
	if typing {
		left = strings.Join([]string{
			styles.Key("Enter") + " donate",
			styles.Key("Esc") + " cancel",
		}, "   ")
	} else {
		left = strings.Join([]string{
			styles.Key("d") + " donate",
			styles.Key("q") + " QR code",
			styles.Key("c") + " copy owner",
			styles.Key("r") + " refresh",
			styles.Key("l") + " logger",
			styles.Key("Esc") + " back",
		}, "   ")
	}

	return styles.NavStyle.Width(width).Render(left)
}

// Render renders the campaign detail view
func Render(s State, spinnerView string) string {
	c := s.Campaign
	h := styles.TitleStyle.Render(c.Title)

	if s.Loading {
		return styles.TitleStyle.Render("Campaign") + "\n\n" + spinnerView + " fetching campaign…"
	}

	// Owner line links to the block explorer, same OSC 8 trick as the
	// address line on the old details page.
	explorerURL := fmt.Sprintf("https://sepolia.basescan.org/address/%s", c.Owner.Hex())
	ownerStyle := lipgloss.NewStyle().Foreground(styles.CMuted).Underline(true)
	owner := styles.MutedStyle.Render("by ") +
		fmt.Sprintf("\x1b]8;;%s\x1b\\%s\x1b]8;;\x1b\\", explorerURL, ownerStyle.Render(c.Owner.Hex()))
	if s.CopiedMsg != "" {
		owner += "  " + lipgloss.NewStyle().Foreground(styles.CAccent).Render(s.CopiedMsg)
	}

	collected := lipgloss.NewStyle().Foreground(styles.CAccent).Bold(true).
		Render(campaign.FormatAmount(c.AmountCollected)+" ETH") +
		styles.MutedStyle.Render(" collected")

	lines := []string{h, owner, "", styles.MutedStyle.Render(c.Description), "", collected}

	if c.Image != "" {
		lines = append(lines, styles.MutedStyle.Render("image: ")+styles.MutedStyle.Render(c.Image))
	}

	if s.ShowQR && s.QR != "" {
		lines = append(lines, "", styles.MutedStyle.Render("Scan to donate from a mobile wallet:"), s.QR)
	}

	lines = append(lines, "", renderDonateBox(s, spinnerView), "", renderLedger(s.Ledger))

	return strings.Join(lines, "\n")
}

func renderDonateBox(s State, spinnerView string) string {
	title := styles.TitleStyle.Render("Donate")

	var body string
	switch {
	case s.Donating:
		body = spinnerView + " awaiting confirmation… (this can take a while)"
	case s.InputView != "":
		body = s.InputView
	default:
		body = styles.MutedStyle.Render("Press ") + styles.Key("d") + styles.MutedStyle.Render(" to enter an amount.")
	}

	out := title + "\n" + body
	if s.Status != "" {
		out += "\n" + styles.SuccessStyle.Render(s.Status)
	}
	if s.ErrMsg != "" {
		out += "\n" + styles.ErrorStyle.Render("⚠ "+s.ErrMsg)
	}
	return out
}

func renderLedger(ledger []campaign.Donation) string {
	title := styles.TitleStyle.Render("Donations")

	if len(ledger) == 0 {
		return title + "\n" + styles.MutedStyle.Render("No donations yet. Be the first!")
	}

	lines := []string{title}
	for i, d := range ledger {
		row := fmt.Sprintf("%2d. %s  %s",
			i+1,
			styles.MutedStyle.Render(helpers.ShortenAddr(d.Donor.Hex())),
			lipgloss.NewStyle().Foreground(styles.CAccent).Render(campaign.FormatAmount(d.Amount)+" ETH"),
		)
		lines = append(lines, row)
	}
	return strings.Join(lines, "\n")
}
