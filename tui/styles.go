package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#7D56F4")
	colorNotify  = lipgloss.Color("#8A2BE2") // blueviolet, the handset LED colour
	colorText    = lipgloss.Color("#FAFAFA")
	colorSubtext = lipgloss.Color("#777777")

	styleTitle = lipgloss.NewStyle().
			Background(colorPrimary).
			Foreground(colorText).
			Padding(0, 1).
			Bold(true)

	stylePanel = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(colorSubtext).
			Foreground(colorText)

	stylePanelFlash = stylePanel.
			BorderForeground(colorNotify)

	styleBoxedRow = lipgloss.NewStyle().
			Foreground(colorText).
			Background(lipgloss.Color("236"))
)
