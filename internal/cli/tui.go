package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kurotych/fluckybackup/internal/app"
	"github.com/kurotych/fluckybackup/internal/slack"
	"github.com/kurotych/fluckybackup/internal/ui"
	"github.com/kurotych/fluckybackup/internal/ui/components/slackdialog"
)

var tuiSlackOnly bool

func init() {
	tuiCmd.Flags().BoolVar(&tuiSlackOnly, "slack", false, "open only the Slack settings dialog")
	rootCmd.AddCommand(tuiCmd)
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the settings TUI",
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	s, err := openSession(true)
	if err != nil {
		return err
	}
	defer s.Close()

	a := ui.New(s.store, s.dispatcher(), s.config, s.configDir, s.logger)
	if tuiSlackOnly {
		a = a.OpenSlackOnStart()
	} else {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		w, err := app.NewConfigWatcher(s.configDir, s.logger)
		if err != nil {
			// Run without reloading.
			s.logger.Warn("Config watcher unavailable", zap.Error(err))
		} else {
			go func() { _ = w.Run(ctx) }()
			a = a.WatchConfig(w.Changes())
		}
	}

	s.logger.Info("Starting TUI", zap.String("config_dir", s.configDir))
	final, err := tea.NewProgram(a, tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	if !tuiSlackOnly {
		return nil
	}
	fa, ok := final.(ui.App)
	if !ok || fa.SlackDialog().Status() != slackdialog.ExitAccepted {
		return nil
	}
	if err := app.SaveConfig(s.configDir, fa.Config()); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	s.logger.Info("Slack webhook saved", zap.String("url", slack.RedactURL(fa.Config().SlackWebhookURL)))
	return nil
}
