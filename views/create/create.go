package create

import (
	"strings"

	"charm-donate-tui/styles"

	"github.com/charmbracelet/huh"
)

// Nav returns the navigation bar for the campaign creation form
func Nav(width int) string {
	left := strings.Join([]string{
		styles.Key("Tab") + " next field",
		styles.Key("Enter") + " next/submit",
		styles.Key("l") + " logger",
		styles.Key("Esc") + " back",
	}, "   ")

	return styles.NavStyle.Width(width).Render(left)
}

// Render renders the campaign creation view
func Render(form *huh.Form, connected, creating, success bool, errMsg, spinnerView string) string {
	h := styles.TitleStyle.Render("Start a Campaign")

	if !connected {
		return h + "\n\n" +
			styles.MutedStyle.Render("Please connect your wallet to create a campaign.") + "\n" +
			styles.MutedStyle.Render("Press ")+styles.Key("Esc")+styles.MutedStyle.Render(" to go back and connect.")
	}

	if success {
		return h + "\n\n" + styles.SuccessStyle.Render("Campaign created successfully! Returning to listing…")
	}

	if creating {
		return h + "\n\n" + spinnerView + " Creating campaign… (waiting for confirmation)"
	}

	out := h + "\n\n"
	if form != nil {
		out += form.View()
	}
	if errMsg != "" {
		out += "\n" + styles.ErrorStyle.Render("⚠ "+errMsg)
	}
	return out
}
