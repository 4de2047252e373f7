package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/kurotych/fluckybackup/internal/app"
	"github.com/kurotych/fluckybackup/internal/model"
	"github.com/kurotych/fluckybackup/internal/slack"
	"github.com/kurotych/fluckybackup/internal/store"
	"github.com/kurotych/fluckybackup/internal/ui/components/slackdialog"
	"github.com/kurotych/fluckybackup/internal/ui/components/statusbar"
	"github.com/kurotych/fluckybackup/internal/ui/keys"
)

// DialogMode represents the current dialog being shown.
type DialogMode int

const (
	DialogNone DialogMode = iota
	DialogSlack
)

// historyShown is the number of deliveries listed on the main screen.
const historyShown = 10

// App is the host shell: it shows the current settings and recent
// deliveries, opens the Slack dialog and persists what it accepts.
type App struct {
	ctx       context.Context
	store     store.Store
	sender    slackdialog.Sender
	config    *app.Config
	configDir string
	logger    *zap.Logger

	keyMap      keys.KeyMap
	statusBar   statusbar.Model
	slackDialog slackdialog.Model
	dialogMode  DialogMode

	deliveries []model.Delivery
	width      int
	height     int
	// openOnStart runs the Slack dialog as the whole program: closing it
	// quits.
	openOnStart bool
	// configChanges fires when config.json is written by another process.
	configChanges <-chan struct{}
}

// New creates the application model.
func New(s store.Store, sender slackdialog.Sender, cfg *app.Config, configDir string, logger *zap.Logger) App {
	if logger == nil {
		logger = zap.NewNop()
	}
	sb := statusbar.New()
	sb.SetSlackReady(cfg.SlackWebhookURL != "")

	return App{
		ctx:       context.Background(),
		store:     s,
		sender:    sender,
		config:    cfg,
		configDir: configDir,
		logger:    logger.Named("ui"),
		keyMap:    keys.DefaultKeyMap(),
		statusBar: sb,
	}
}

// OpenSlackOnStart makes the app open the Slack dialog immediately.
func (a App) OpenSlackOnStart() App {
	a.openOnStart = true
	a.showSlackDialog()
	return a
}

// WatchConfig makes the app reload settings whenever changes fires.
func (a App) WatchConfig(changes <-chan struct{}) App {
	a.configChanges = changes
	return a
}

// Init loads delivery history.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.loadDeliveries()}
	if a.dialogMode == DialogSlack {
		cmds = append(cmds, a.slackDialog.Init())
	}
	if a.configChanges != nil {
		cmds = append(cmds, WaitForConfigChange(a.configChanges))
	}
	return tea.Batch(cmds...)
}

// loadDeliveries returns a command to load delivery history.
func (a App) loadDeliveries() tea.Cmd {
	return LoadDeliveries(func() ([]model.Delivery, error) {
		return a.store.List(a.ctx, historyShown)
	})
}

func (a App) clearDeliveries() tea.Cmd {
	return func() tea.Msg {
		if err := a.store.Clear(a.ctx); err != nil {
			return ErrorMsg{Err: err}
		}
		return DeliveriesClearedMsg{}
	}
}

// saveConfig persists the configuration after the dialog accepted a URL.
func (a App) saveConfig() tea.Cmd {
	cfg := *a.config
	dir := a.configDir
	return func() tea.Msg {
		if err := app.SaveConfig(dir, &cfg); err != nil {
			return ErrorMsg{Err: err}
		}
		return ConfigSavedMsg{WebhookURL: cfg.SlackWebhookURL}
	}
}

func (a App) reloadConfig() tea.Cmd {
	dir := a.configDir
	return func() tea.Msg {
		cfg, err := app.LoadConfig(dir)
		return ConfigReloadedMsg{Config: cfg, Err: err}
	}
}

// SetSize updates the layout dimensions.
func (a *App) SetSize(width, height int) {
	a.width = width
	a.height = height
	a.statusBar.SetWidth(width)
	a.slackDialog.SetSize(width, height)
}

func (a *App) showSlackDialog() {
	a.slackDialog = slackdialog.New(
		model.WebhookConfig{URL: a.config.SlackWebhookURL},
		a.sender,
		slackdialog.Options{ReportDeliveryFailures: a.config.ReportDeliveryFailures},
	)
	a.slackDialog.SetSize(a.width, a.height)
	a.dialogMode = DialogSlack
}

func (a *App) hideDialog() {
	a.dialogMode = DialogNone
}

// Update handles application messages.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetSize(msg.Width, msg.Height)
		return a, nil

	case DeliveriesLoadedMsg:
		if msg.Err != nil {
			a.statusBar.SetMessage("Failed to load history: "+msg.Err.Error(), true)
			return a, nil
		}
		a.deliveries = msg.Deliveries
		return a, nil

	case DeliveriesClearedMsg:
		a.deliveries = nil
		a.statusBar.SetMessage("Delivery history cleared", false)
		return a, nil

	case ConfigSavedMsg:
		a.statusBar.SetMessage("Slack webhook saved", false)
		a.logger.Info("Slack webhook saved", zap.String("url", slack.RedactURL(msg.WebhookURL)))
		return a, nil

	case ConfigFileChangedMsg:
		return a, tea.Batch(a.reloadConfig(), WaitForConfigChange(a.configChanges))

	case ConfigReloadedMsg:
		if msg.Err != nil {
			a.statusBar.SetMessage("Failed to reload settings: "+msg.Err.Error(), true)
			a.logger.Warn("Config reload failed", zap.Error(msg.Err))
			return a, nil
		}
		changed := msg.Config.SlackWebhookURL != a.config.SlackWebhookURL
		*a.config = *msg.Config
		a.statusBar.SetSlackReady(a.config.SlackWebhookURL != "")
		if changed {
			a.statusBar.SetMessage("Settings reloaded from config.json", false)
			a.logger.Info("Config reloaded", zap.String("url", slack.RedactURL(a.config.SlackWebhookURL)))
		}
		return a, nil

	case ErrorMsg:
		a.statusBar.SetMessage(msg.Err.Error(), true)
		a.logger.Error("UI error", zap.Error(msg.Err))
		return a, nil

	case slackdialog.DeliveryMsg:
		// An outcome for a dialog that has since closed is dropped here;
		// the history observer has already recorded it.
		if a.dialogMode == DialogSlack && a.slackDialog.Owns(msg.Outcome.Request.ID) {
			a.slackDialog, _ = a.slackDialog.Update(msg)
		}
		return a, a.loadDeliveries()
	}

	if a.dialogMode == DialogSlack {
		return a.updateSlackDialog(msg)
	}

	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, a.keyMap.Quit):
			return a, tea.Quit
		case key.Matches(km, a.keyMap.Slack):
			a.statusBar.ClearMessage()
			a.showSlackDialog()
			return a, a.slackDialog.Init()
		case key.Matches(km, a.keyMap.Refresh):
			return a, a.loadDeliveries()
		case key.Matches(km, a.keyMap.Clear):
			return a, a.clearDeliveries()
		}
	}
	return a, nil
}

func (a App) updateSlackDialog(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	a.slackDialog, cmd = a.slackDialog.Update(msg)

	switch a.slackDialog.Status() {
	case slackdialog.ExitAccepted:
		a.hideDialog()
		a.config.SetSlackWebhookURL(a.slackDialog.Config().URL)
		a.statusBar.SetSlackReady(true)
		if a.openOnStart {
			// The caller reads the exit status and persists after Run.
			return a, tea.Batch(cmd, tea.Quit)
		}
		return a, tea.Batch(cmd, a.saveConfig())

	case slackdialog.ExitRejected:
		a.hideDialog()
		a.statusBar.SetMessage("Slack settings unchanged", false)
		if a.openOnStart {
			return a, tea.Batch(cmd, tea.Quit)
		}
	}
	return a, cmd
}

// DialogMode returns the dialog currently shown.
func (a App) DialogMode() DialogMode { return a.dialogMode }

// SlackDialog returns the Slack dialog model.
func (a App) SlackDialog() slackdialog.Model { return a.slackDialog }

// Config returns the host configuration.
func (a App) Config() *app.Config { return a.config }

// Deliveries returns the loaded delivery history.
func (a App) Deliveries() []model.Delivery { return a.deliveries }

// StatusMessage returns the status bar message.
func (a App) StatusMessage() (string, bool) { return a.statusBar.Message() }
