// Package style holds the terminal styles shared by the CLI and the editor.
package style

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Palette, light and dark variants.
var (
	colorOK     = lipgloss.AdaptiveColor{Light: "#86b300", Dark: "#c2d94c"}
	colorWarn   = lipgloss.AdaptiveColor{Light: "#f2ae49", Dark: "#ffb454"}
	colorFail   = lipgloss.AdaptiveColor{Light: "#f07171", Dark: "#f07178"}
	colorMuted  = lipgloss.AdaptiveColor{Light: "#828c99", Dark: "#6c7680"}
	colorAccent = lipgloss.AdaptiveColor{Light: "#399ee6", Dark: "#59c2ff"}
	colorCode   = lipgloss.AdaptiveColor{Light: "#a37acc", Dark: "#d2a6ff"}
)

const (
	IconOK      = "✓"
	IconWarn    = "⚠"
	IconFail    = "✖"
	IconChecked = "[x]"
	IconEmpty   = "[ ]"
)

var (
	Success Style
	Warning Style
	Error   Style
	Info    Style
	Dim     Style
	Bold    Style
	// Code renders rendered-document text in previews.
	Code Style
)

// Style is an alias so callers need not import lipgloss for a type name.
type Style = lipgloss.Style

func init() { colored() }

func colored() {
	Success = lipgloss.NewStyle().Foreground(colorOK).Bold(true)
	Warning = lipgloss.NewStyle().Foreground(colorWarn).Bold(true)
	Error = lipgloss.NewStyle().Foreground(colorFail).Bold(true)
	Info = lipgloss.NewStyle().Foreground(colorAccent)
	Dim = lipgloss.NewStyle().Foreground(colorMuted)
	Bold = lipgloss.NewStyle().Bold(true)
	Code = lipgloss.NewStyle().Foreground(colorCode)
}

func plain() {
	for _, s := range []*Style{&Success, &Warning, &Error, &Info, &Dim, &Bold, &Code} {
		*s = lipgloss.NewStyle()
	}
}

// SetColorMode applies the --color flag: "never", "always" or "auto".
// Auto leaves lipgloss to detect the terminal and honour NO_COLOR.
func SetColorMode(mode string) {
	switch mode {
	case "never":
		_ = os.Setenv("NO_COLOR", "1")
		plain()
	case "always":
		_ = os.Unsetenv("NO_COLOR")
		_ = os.Setenv("CLICOLOR_FORCE", "1")
		colored()
	}
}

// Checkbox renders a selection marker.
func Checkbox(on bool) string {
	if on {
		return Success.Render(IconChecked)
	}
	return Dim.Render(IconEmpty)
}
