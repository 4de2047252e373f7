package dialog

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestMessageBox_DismissKeys(t *testing.T) {
	for _, k := range []tea.KeyMsg{
		{Type: tea.KeyEnter},
		{Type: tea.KeyEsc},
		{Type: tea.KeySpace, Runes: []rune{' '}},
	} {
		box := Warning("bad")
		box, _ = box.Update(k)
		assert.True(t, box.IsDismissed(), k.String())
	}
}

func TestMessageBox_IgnoresOtherInput(t *testing.T) {
	box := Information("hello")
	box, _ = box.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	box, _ = box.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.False(t, box.IsDismissed())
}

func TestMessageBox_View(t *testing.T) {
	box := Warning("Please enter a Slack webhook URL.")
	box.SetSize(100, 30)
	view := box.View()
	assert.Contains(t, view, "Warning")
	assert.Contains(t, view, "Please enter a Slack webhook URL.")
	assert.Equal(t, KindWarning, box.Kind())

	info := Information("Test message sent to Slack webhook!")
	assert.Contains(t, info.View(), "Information")
	assert.Equal(t, "Test message sent to Slack webhook!", info.Text())
}
