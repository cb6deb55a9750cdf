package tui

import "github.com/charmbracelet/lipgloss"

const (
	colorMauve    lipgloss.Color = "#cba6f7"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorPeach    lipgloss.Color = "#fab387"
	colorText     lipgloss.Color = "#cdd6f4"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorSurface1 lipgloss.Color = "#45475a"
	colorBase     lipgloss.Color = "#1e1e2e"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBase).
			Background(colorMauve).
			Padding(0, 1)

	bodyStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Foreground(colorText).
			Padding(0, 1)

	activeStyle = lipgloss.NewStyle().Foreground(colorGreen)
	doneStyle   = lipgloss.NewStyle().Foreground(colorPeach).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(colorOverlay1)
)
