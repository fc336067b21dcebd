package main

import "github.com/charmbracelet/lipgloss"

// Shared output styling. Colors are from the default ANSI palette so
// the output degrades cleanly on dumb terminals.
var (
	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("6"))

	stylePlanPanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("6")).
			Padding(0, 2).
			Width(76)

	stylePlanTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("2"))

	styleSummaryTitle = lipgloss.NewStyle().
				Bold(true).
				Underline(true)

	styleSummaryLabel = lipgloss.NewStyle().
				Bold(true).
				Width(18).
				Foreground(lipgloss.Color("4"))
)
