// Package statusbar provides the status bar UI component.
package statusbar

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kurotych/fluckybackup/internal/ui/keys"
	"github.com/kurotych/fluckybackup/internal/ui/styles"
)

// Model is the status bar component.
type Model struct {
	width      int
	message    string
	isError    bool
	keyMap     keys.KeyMap
	slackReady bool
}

// New creates a new status bar component.
func New() Model {
	return Model{
		keyMap: keys.DefaultKeyMap(),
	}
}

// SetWidth updates the status bar width.
func (m *Model) SetWidth(width int) {
	m.width = width
}

// SetMessage sets a temporary message.
func (m *Model) SetMessage(msg string, isError bool) {
	m.message = msg
	m.isError = isError
}

// ClearMessage clears the temporary message.
func (m *Model) ClearMessage() {
	m.message = ""
	m.isError = false
}

// Message returns the current message and whether it is an error.
func (m Model) Message() (string, bool) {
	return m.message, m.isError
}

// SetSlackReady marks whether a webhook URL is configured.
func (m *Model) SetSlackReady(ready bool) {
	m.slackReady = ready
}

// View renders the status bar.
func (m Model) View() string {
	// Brand
	brand := lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		Render(" fluckybackup ")

	badgeLabel, badgeColor := "SLACK OFF", styles.TextMuted
	if m.slackReady {
		badgeLabel, badgeColor = "SLACK ON", styles.Success
	}
	badge := lipgloss.NewStyle().
		Foreground(styles.Base).
		Background(badgeColor).
		Bold(true).
		Padding(0, 1).
		Render(badgeLabel)

	helpItems := make([]string, 0, len(m.keyMap.ShortHelp()))
	for _, b := range m.keyMap.ShortHelp() {
		h := b.Help()
		helpItems = append(helpItems, m.renderKey(h.Key, h.Desc))
	}
	help := strings.Join(helpItems, " ")

	// Message area
	var msgArea string
	if m.message != "" {
		msgStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
		if m.isError {
			msgStyle = lipgloss.NewStyle().Foreground(styles.Danger).Bold(true)
		}
		msgArea = msgStyle.Render(" " + m.message + " ")
	}

	leftContent := brand + badge
	leftWidth := lipgloss.Width(leftContent)
	rightWidth := lipgloss.Width(help)
	middleWidth := lipgloss.Width(msgArea)

	padding := m.width - leftWidth - rightWidth - middleWidth
	if padding < 0 {
		padding = 0
	}
	leftPad := padding / 2
	rightPad := padding - leftPad

	content := leftContent +
		strings.Repeat(" ", leftPad) +
		msgArea +
		strings.Repeat(" ", rightPad) +
		help

	return lipgloss.NewStyle().
		Background(styles.Mantle).
		Foreground(styles.TextMuted).
		Width(m.width).
		Render(content)
}

// renderKey renders a key binding hint.
func (m Model) renderKey(key, desc string) string {
	keyStyle := lipgloss.NewStyle().
		Foreground(styles.Accent).
		Bold(true)
	descStyle := lipgloss.NewStyle().
		Foreground(styles.Overlay0)
	return keyStyle.Render(key) + descStyle.Render(":"+desc)
}
