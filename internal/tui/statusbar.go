package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// statusBar renders the bottom bar: signed-in user and key hints on one
// line, or the latest action result when there is one.
type statusBar struct {
	user  string
	width int
}

func newStatusBar(user string) statusBar {
	if user == "" {
		user = "not signed in"
	}
	return statusBar{user: user}
}

func (s statusBar) render(hints, result string) string {
	left := styleDim.Render(s.user)
	right := styleDim.Render(hints)
	if result != "" {
		right = result
	}

	gap := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return styleBar.Width(s.width).Render(
		fmt.Sprintf("%s%*s%s", left, gap, "", right),
	)
}
