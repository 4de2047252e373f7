// Package slackdialog provides the Slack webhook settings dialog.
package slackdialog

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kurotych/fluckybackup/internal/model"
	"github.com/kurotych/fluckybackup/internal/slack"
	"github.com/kurotych/fluckybackup/internal/ui/components/dialog"
	"github.com/kurotych/fluckybackup/internal/ui/keys"
	"github.com/kurotych/fluckybackup/internal/ui/styles"
)

// ExitStatus is read by the host after the dialog closes.
type ExitStatus int

const (
	// ExitPending means the dialog is still open.
	ExitPending ExitStatus = iota
	// ExitAccepted means the user confirmed a valid URL.
	ExitAccepted
	// ExitRejected means the user cancelled.
	ExitRejected
)

func (s ExitStatus) String() string {
	switch s {
	case ExitAccepted:
		return "accepted"
	case ExitRejected:
		return "rejected"
	default:
		return "pending"
	}
}

// MsgDeliveryFailedPrefix starts the optional follow-up warning shown when
// a test message could not be delivered.
const MsgDeliveryFailedPrefix = "Slack webhook delivery failed: "

// Sender submits a notification without blocking.
type Sender interface {
	Dispatch(ctx context.Context, url, text string) *slack.Pending
}

// DeliveryMsg carries the outcome of a test message back to Update.
type DeliveryMsg struct {
	Outcome slack.Outcome
}

// focus targets, in tab order.
const (
	focusURL = iota
	focusTest
	focusOK
	focusCancel
	focusCount
)

var buttonLabels = [...]string{focusTest: "Test", focusOK: "OK", focusCancel: "Cancel"}

// Options configures the dialog.
type Options struct {
	// ReportDeliveryFailures shows a follow-up warning when a test
	// message fails. Off by default: the confirmation is optimistic.
	ReportDeliveryFailures bool
}

// Model is the Slack webhook settings dialog.
type Model struct {
	input      textinput.Model
	config     model.WebhookConfig
	sender     Sender
	opts       Options
	keyMap     keys.KeyMap
	focusIndex int
	status     ExitStatus

	// messages are modal boxes shown one at a time, oldest first.
	messages []dialog.MessageBox
	inFlight map[string]struct{}
	last     *slack.Outcome

	width  int
	height int
	styles Styles
}

// Styles defines the visual appearance.
type Styles struct {
	Box          lipgloss.Style
	Header       lipgloss.Style
	Subtitle     lipgloss.Style
	Label        lipgloss.Style
	Input        lipgloss.Style
	InputFocused lipgloss.Style
	Button       lipgloss.Style
	ButtonActive lipgloss.Style
	Help         lipgloss.Style
}

// DefaultStyles returns the dialog styles.
func DefaultStyles() Styles {
	purple := lipgloss.Color("#7C3AED")
	cyan := lipgloss.Color("#06B6D4")
	surface := lipgloss.Color("#1E1E2E")
	surfaceLight := lipgloss.Color("#313244")
	text := lipgloss.Color("#CDD6F4")
	textMuted := lipgloss.Color("#6C7086")

	return Styles{
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(purple).
			Background(surface).
			Padding(1, 2),

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(cyan).
			Background(surface).
			Padding(0, 1),

		Subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(text).
			MarginBottom(1),

		Label: lipgloss.NewStyle().
			Foreground(textMuted),

		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(surfaceLight).
			Padding(0, 1),

		InputFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(purple).
			Padding(0, 1),

		Button: lipgloss.NewStyle().
			Foreground(textMuted).
			Background(surfaceLight).
			Padding(0, 2).
			MarginRight(1),

		ButtonActive: lipgloss.NewStyle().
			Foreground(text).
			Background(purple).
			Bold(true).
			Padding(0, 2).
			MarginRight(1),

		Help: lipgloss.NewStyle().
			Foreground(textMuted).
			MarginTop(1),
	}
}

// New creates the dialog with cfg as the initial field value.
func New(cfg model.WebhookConfig, sender Sender, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "https://hooks.slack.com/services/..."
	ti.CharLimit = 512
	ti.Width = 48
	ti.SetValue(cfg.URL)
	ti.Focus()

	return Model{
		input:    ti,
		config:   cfg,
		sender:   sender,
		opts:     opts,
		keyMap:   keys.DefaultKeyMap(),
		inFlight: make(map[string]struct{}),
		styles:   DefaultStyles(),
	}
}

// Init returns the cursor blink command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// SetSize updates the dialog dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	for i := range m.messages {
		m.messages[i].SetSize(width, height)
	}
}

// Update handles dialog messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if dm, ok := msg.(DeliveryMsg); ok {
		return m.handleDelivery(dm), nil
	}
	if m.status != ExitPending {
		return m, nil
	}

	if len(m.messages) > 0 {
		var cmd tea.Cmd
		m.messages[0], cmd = m.messages[0].Update(msg)
		if m.messages[0].IsDismissed() {
			m.messages = m.messages[1:]
		}
		return m, cmd
	}

	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, m.keyMap.Next):
			m.focusIndex = (m.focusIndex + 1) % focusCount
			return m, m.updateFocus()

		case key.Matches(km, m.keyMap.Prev):
			m.focusIndex = (m.focusIndex + focusCount - 1) % focusCount
			return m, m.updateFocus()

		case key.Matches(km, m.keyMap.Confirm):
			return m.confirm()

		case key.Matches(km, m.keyMap.Test):
			return m.test()

		case key.Matches(km, m.keyMap.Cancel):
			return m.cancel()

		case key.Matches(km, m.keyMap.Enter):
			switch m.focusIndex {
			case focusTest:
				return m.test()
			case focusCancel:
				return m.cancel()
			default:
				return m.confirm()
			}
		}
	}

	if m.focusIndex != focusURL {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// confirm validates the field and closes the dialog on success.
func (m Model) confirm() (Model, tea.Cmd) {
	result := slack.Validate(m.input.Value())
	if !result.Valid() {
		m.showMessage(dialog.Warning(result.Reason))
		return m, nil
	}
	m.config.URL = result.URL
	m.status = ExitAccepted
	m.input.Blur()
	return m, nil
}

// cancel closes the dialog without validating.
func (m Model) cancel() (Model, tea.Cmd) {
	m.status = ExitRejected
	m.input.Blur()
	return m, nil
}

// test validates the field and submits the fixed test message. The
// confirmation is shown at once, before the outcome is known.
func (m Model) test() (Model, tea.Cmd) {
	result := slack.Validate(m.input.Value())
	if !result.Valid() {
		m.showMessage(dialog.Warning(result.Reason))
		return m, nil
	}

	var cmd tea.Cmd
	if m.sender != nil {
		pending := m.sender.Dispatch(context.Background(), result.URL, slack.TestMessage)
		m.inFlight[pending.Request.ID] = struct{}{}
		cmd = WaitForDelivery(pending)
	}
	m.showMessage(dialog.Information(slack.MsgTestSent))
	return m, cmd
}

func (m Model) handleDelivery(dm DeliveryMsg) Model {
	id := dm.Outcome.Request.ID
	if _, ok := m.inFlight[id]; !ok {
		return m
	}
	delete(m.inFlight, id)
	o := dm.Outcome
	m.last = &o

	if m.status == ExitPending && m.opts.ReportDeliveryFailures && !o.Sent() {
		desc := "unknown error"
		if o.Err != nil {
			desc = o.Err.Error()
		}
		m.showMessage(dialog.Warning(MsgDeliveryFailedPrefix + desc))
	}
	return m
}

func (m *Model) showMessage(box dialog.MessageBox) {
	box.SetSize(m.width, m.height)
	m.messages = append(m.messages, box)
}

func (m *Model) updateFocus() tea.Cmd {
	if m.focusIndex == focusURL {
		return m.input.Focus()
	}
	m.input.Blur()
	return nil
}

// WaitForDelivery returns a command that delivers the pending outcome as a
// DeliveryMsg.
func WaitForDelivery(p *slack.Pending) tea.Cmd {
	return func() tea.Msg {
		return DeliveryMsg{Outcome: <-p.Done()}
	}
}

// View renders the dialog, or the active message box on top of it.
func (m Model) View() string {
	if len(m.messages) > 0 {
		return m.messages[0].View()
	}

	var b strings.Builder
	b.WriteString(m.styles.Header.Render(styles.IconSlack + " fluckybackup - Slack"))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Subtitle.Render("Configure Slack webhook notifications"))
	b.WriteString("\n")
	b.WriteString(m.styles.Label.Render("Webhook URL:"))
	b.WriteString("\n")

	inputStyle := m.styles.Input
	if m.focusIndex == focusURL {
		inputStyle = m.styles.InputFocused
	}
	b.WriteString(inputStyle.Render(m.input.View()))
	b.WriteString("\n\n")

	test := m.renderButton(focusTest)
	right := lipgloss.JoinHorizontal(lipgloss.Top, m.renderButton(focusOK), m.renderButton(focusCancel))
	gap := lipgloss.Width(inputStyle.Render(m.input.View())) - lipgloss.Width(test) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	b.WriteString(test + strings.Repeat(" ", gap) + right)
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render(m.helpLine()))

	box := m.styles.Box.Render(b.String())
	if m.width > 0 && m.height > 0 {
		box = lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}

// helpLine lists the dialog bindings, e.g. "tab: next • esc: cancel".
func (m Model) helpLine() string {
	bindings := m.keyMap.DialogHelp()
	items := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		items = append(items, h.Key+": "+h.Desc)
	}
	return strings.Join(items, " • ")
}

func (m Model) renderButton(idx int) string {
	style := m.styles.Button
	if m.focusIndex == idx {
		style = m.styles.ButtonActive
	}
	return style.Render(buttonLabels[idx])
}

// Status returns the exit status.
func (m Model) Status() ExitStatus { return m.status }

// IsClosed reports whether the dialog has been accepted or rejected.
func (m Model) IsClosed() bool { return m.status != ExitPending }

// Config returns the stored webhook setting. It only changes on accept.
func (m Model) Config() model.WebhookConfig { return m.config }

// Value returns the current field text.
func (m Model) Value() string { return m.input.Value() }

// Message returns the active message box, if any.
func (m Model) Message() (dialog.MessageBox, bool) {
	if len(m.messages) == 0 {
		return dialog.MessageBox{}, false
	}
	return m.messages[0], true
}

// Owns reports whether requestID was dispatched by this dialog and is
// still awaiting its outcome.
func (m Model) Owns(requestID string) bool {
	_, ok := m.inFlight[requestID]
	return ok
}

// InFlight returns the number of test messages awaiting an outcome.
func (m Model) InFlight() int { return len(m.inFlight) }

// LastOutcome returns the most recent test outcome.
func (m Model) LastOutcome() (slack.Outcome, bool) {
	if m.last == nil {
		return slack.Outcome{}, false
	}
	return *m.last, true
}
