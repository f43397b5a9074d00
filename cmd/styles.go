package cmd

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D9CF6"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#A8B3CF"))

	fieldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E4E8F1"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7591"))

	highConfStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4AC27C"))

	midConfStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E0A03C"))

	lowConfStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8A93A8"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E06C75"))

	okStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#4AC27C"))
)

func confStyle(confidence float64) lipgloss.Style {
	switch {
	case confidence >= 0.8:
		return highConfStyle
	case confidence >= 0.6:
		return midConfStyle
	default:
		return lowConfStyle
	}
}
