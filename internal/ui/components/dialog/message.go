// Package dialog provides modal dialog components for fluckybackup.
package dialog

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Kind selects the icon and accent of a message box.
type Kind int

const (
	// KindInformation is a neutral notice.
	KindInformation Kind = iota
	// KindWarning reports a problem the user must fix.
	KindWarning
)

// MessageBox is a modal message the user dismisses with Enter or Esc.
type MessageBox struct {
	kind      Kind
	text      string
	width     int
	height    int
	dismissed bool
	styles    MessageStyles
}

// MessageStyles defines the visual appearance of the message box.
type MessageStyles struct {
	Box          lipgloss.Style
	WarningBox   lipgloss.Style
	Title        lipgloss.Style
	WarningTitle lipgloss.Style
	Text         lipgloss.Style
	ButtonActive lipgloss.Style
	Help         lipgloss.Style
}

// DefaultMessageStyles returns the message box styles.
func DefaultMessageStyles() MessageStyles {
	purple := lipgloss.Color("#7C3AED")
	cyan := lipgloss.Color("#06B6D4")
	peach := lipgloss.Color("#FAB387")
	surface := lipgloss.Color("#1E1E2E")
	text := lipgloss.Color("#CDD6F4")
	textMuted := lipgloss.Color("#6C7086")

	return MessageStyles{
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(cyan).
			Background(surface).
			Padding(1, 2),

		WarningBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(peach).
			Background(surface).
			Padding(1, 2),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(cyan).
			MarginBottom(1),

		WarningTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(peach).
			MarginBottom(1),

		Text: lipgloss.NewStyle().
			Foreground(text).
			Width(48),

		ButtonActive: lipgloss.NewStyle().
			Foreground(text).
			Background(purple).
			Bold(true).
			Padding(0, 2).
			MarginTop(1),

		Help: lipgloss.NewStyle().
			Foreground(textMuted).
			MarginTop(1),
	}
}

// NewMessageBox creates a message box.
func NewMessageBox(kind Kind, text string) MessageBox {
	return MessageBox{
		kind:   kind,
		text:   text,
		styles: DefaultMessageStyles(),
	}
}

// Warning creates a warning message box.
func Warning(text string) MessageBox {
	return NewMessageBox(KindWarning, text)
}

// Information creates an information message box.
func Information(text string) MessageBox {
	return NewMessageBox(KindInformation, text)
}

// SetSize updates the dialog dimensions.
func (d *MessageBox) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// Update handles message box keys. Every other message is ignored.
func (d MessageBox) Update(msg tea.Msg) (MessageBox, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter", "esc", " ":
			d.dismissed = true
		}
	}
	return d, nil
}

// View renders the message box.
func (d MessageBox) View() string {
	var b strings.Builder

	box := d.styles.Box
	title := d.styles.Title.Render("ℹ️  Information")
	if d.kind == KindWarning {
		box = d.styles.WarningBox
		title = d.styles.WarningTitle.Render("⚠️  Warning")
	}

	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(d.styles.Text.Render(d.text))
	b.WriteString("\n")
	b.WriteString(d.styles.ButtonActive.Render("OK"))
	b.WriteString("\n")
	b.WriteString(d.styles.Help.Render("Enter/Esc: Close"))

	content := box.Render(b.String())
	if d.width > 0 && d.height > 0 {
		content = lipgloss.Place(d.width, d.height, lipgloss.Center, lipgloss.Center, content)
	}
	return content
}

// Kind returns the message box kind.
func (d MessageBox) Kind() Kind {
	return d.kind
}

// Text returns the message text.
func (d MessageBox) Text() string {
	return d.text
}

// IsDismissed returns true once the user closed the box.
func (d MessageBox) IsDismissed() bool {
	return d.dismissed
}
