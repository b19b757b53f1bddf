package tui

import "github.com/charmbracelet/lipgloss"

var (
	appStyle       = lipgloss.NewStyle().Padding(1, 2)
	titleStyle     = lipgloss.NewStyle().Bold(true)
	helpStyle      = lipgloss.NewStyle().Faint(true)
	errorStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	toastStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	promptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)

	statusStyles = map[string]lipgloss.Style{
		"unsaved": lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		"saving":  lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		"saved":   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
)
