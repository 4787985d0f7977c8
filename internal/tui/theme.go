package tui

import (
	"github.com/automize/automize/internal/style"
	"github.com/charmbracelet/lipgloss"
)

var (
	styleTitle       lipgloss.Style
	styleSelected    lipgloss.Style
	styleDim         lipgloss.Style
	styleSuccess     lipgloss.Style
	styleError       lipgloss.Style
	styleCode        lipgloss.Style
	stylePane        lipgloss.Style
	stylePaneFocused lipgloss.Style
	styleBar         lipgloss.Style
)

func init() { loadTheme() }

// loadTheme derives the editor styles from the shared CLI styles so the
// color mode chosen on the command line applies inside the editor.
func loadTheme() {
	styleTitle = style.Bold
	styleDim = style.Dim
	styleSuccess = style.Success
	styleError = style.Error
	styleCode = style.Code
	styleSelected = style.Bold.Reverse(true)

	border := style.Dim.GetForeground()
	stylePane = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
	stylePaneFocused = stylePane.BorderForeground(style.Info.GetForeground())
	styleBar = style.Dim.Padding(0, 1)
}

func checkbox(on bool) string { return style.Checkbox(on) }
