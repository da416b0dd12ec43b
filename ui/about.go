package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func renderAboutModal(width, height int, version string) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(accentColor).
		Render("PRISM")

	body := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"",
		"A terminal playground for conversational agents",
		"",
		DimStyle.Render(fmt.Sprintf("Version %s", version)),
		"",
		DimStyle.Render("Press Esc to close"),
	)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(1, 4)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box.Render(body))
}
