package settings

import (
	"strings"

	"charm-donate-tui/config"
	"charm-donate-tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// Nav returns the navigation bar for settings view
func Nav(width int) string {
	left := strings.Join([]string{
		styles.Key("↑/↓") + " select",
		styles.Key("Enter") + " activate (reconnects)",
		styles.Key("l") + " logger",
		styles.Key("Esc") + " back",
	}, "   ")

	return styles.NavStyle.Width(width).Render(left)
}

// Render renders the RPC endpoint settings view. Activating a different
// endpoint is a network change: the whole session is rebuilt.
func Render(rpcURLs []config.RPCUrl, selectedIdx int) string {
	h := styles.TitleStyle.Render("RPC Settings")

	lines := []string{h, ""}

	if len(rpcURLs) == 0 {
		lines = append(lines, styles.MutedStyle.Render("No RPC endpoints configured."))
		lines = append(lines, styles.MutedStyle.Render("Set ETH_RPC_URL or edit the config file."))
		return strings.Join(lines, "\n")
	}

	lines = append(lines, styles.MutedStyle.Render("Configured RPC Endpoints:"))
	lines = append(lines, "")

	for i, rpc := range rpcURLs {
		var marker string
		if rpc.Active {
			marker = lipgloss.NewStyle().Foreground(styles.CAccent).Render("● ")
		} else {
			marker = styles.MutedStyle.Render("○ ")
		}

		nameStyle := lipgloss.NewStyle().Foreground(styles.CText)
		urlStyle := styles.MutedStyle

		if i == selectedIdx {
			nameStyle = nameStyle.Background(styles.CPanel).Foreground(styles.CAccent2).Bold(true)
			urlStyle = urlStyle.Background(styles.CPanel)
			marker = lipgloss.NewStyle().Foreground(styles.CAccent2).Render("▶ ")
		}

		lines = append(lines, marker+nameStyle.Render(rpc.Name))
		lines = append(lines, "  "+urlStyle.Render(rpc.URL))
		lines = append(lines, "")
	}

	lines = append(lines, styles.MutedStyle.Render("Switching networks discards the wallet session and all bindings."))

	return strings.Join(lines, "\n")
}
