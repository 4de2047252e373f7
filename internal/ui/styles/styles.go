// Package styles defines the visual appearance for the fluckybackup TUI.
// Using Catppuccin Mocha color palette.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Catppuccin Mocha color palette
var (
	Mauve    = lipgloss.Color("#CBA6F7")
	Red      = lipgloss.Color("#F38BA8")
	Peach    = lipgloss.Color("#FAB387")
	Green    = lipgloss.Color("#A6E3A1")
	Sapphire = lipgloss.Color("#74C7EC")
	Blue     = lipgloss.Color("#89B4FA")

	Text     = lipgloss.Color("#CDD6F4")
	Subtext0 = lipgloss.Color("#A6ADC8")
	Overlay0 = lipgloss.Color("#6C7086")
	Surface1 = lipgloss.Color("#45475A")
	Surface0 = lipgloss.Color("#313244")
	Base     = lipgloss.Color("#1E1E2E")
	Mantle   = lipgloss.Color("#181825")
)

// Semantic colors (using the palette)
var (
	Primary     = Mauve
	Accent      = Sapphire
	Danger      = Red
	Warning     = Peach
	Success     = Green
	Info        = Blue
	SurfaceCol  = Surface0
	TextCol     = Text
	TextMuted   = Subtext0
	Border      = Surface1
	BorderFocus = Mauve
)

// Panel styles
var (
	// PanelBox frames the main screen sections.
	PanelBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 1)

	// PanelTitle for panel headers
	PanelTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			Padding(0, 1)

	// Label for key/value rows
	Label = lipgloss.NewStyle().
		Foreground(TextMuted).
		Width(18)

	// Value for key/value rows
	Value = lipgloss.NewStyle().
		Foreground(TextCol)

	// Dim for placeholder text
	Dim = lipgloss.NewStyle().
		Foreground(Overlay0).
		Italic(true)
)

// Delivery outcome styles
var (
	OutcomeSent = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	OutcomeFailed = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true)
)

// Logo and branding styles
var (
	LogoStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	VersionStyle = lipgloss.NewStyle().
			Foreground(Overlay0)
)

// TruncateWithEllipsis truncates s to maxLen terminal cells, ending in an
// ellipsis when anything was cut.
func TruncateWithEllipsis(s string, maxLen int) string {
	if ansi.StringWidth(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return ansi.Truncate(s, maxLen, "")
	}
	return ansi.Truncate(s, maxLen, "...")
}

// IconSlack prefixes Slack panel titles.
const IconSlack = "💬"
