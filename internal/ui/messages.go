// Package ui provides the terminal user interface for fluckybackup.
package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kurotych/fluckybackup/internal/app"
	"github.com/kurotych/fluckybackup/internal/model"
)

// ---------- History Messages ----------

// DeliveriesLoadedMsg is sent when delivery history is loaded from store.
type DeliveriesLoadedMsg struct {
	Deliveries []model.Delivery
	Err        error
}

// DeliveriesClearedMsg is sent when delivery history has been cleared.
type DeliveriesClearedMsg struct{}

// ---------- Settings Messages ----------

// ConfigSavedMsg is sent when the host configuration has been persisted.
type ConfigSavedMsg struct {
	WebhookURL string
}

// ConfigFileChangedMsg is sent when config.json changed on disk.
type ConfigFileChangedMsg struct{}

// ConfigReloadedMsg is sent when config.json has been read again.
type ConfigReloadedMsg struct {
	Config *app.Config
	Err    error
}

// ---------- UI Messages ----------

// ErrorMsg is sent when an error occurs.
type ErrorMsg struct {
	Err error
}

// ---------- Command Functions ----------

// LoadDeliveries returns a command to load delivery history from store.
func LoadDeliveries(loader func() ([]model.Delivery, error)) tea.Cmd {
	return func() tea.Msg {
		deliveries, err := loader()
		return DeliveriesLoadedMsg{Deliveries: deliveries, Err: err}
	}
}

// WaitForConfigChange returns a command that blocks until changes fires.
// It returns nil once changes is closed.
func WaitForConfigChange(changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return ConfigFileChangedMsg{}
	}
}
