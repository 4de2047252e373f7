package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kurotych/fluckybackup/internal/model"
	"github.com/kurotych/fluckybackup/internal/notify"
)

var (
	notifyProfile   string
	notifyStatus    string
	notifyTitle     string
	notifyMessage   string
	notifyTasks     int
	notifyFailed    int
	notifyNoDesktop bool
	notifyWait      time.Duration
)

func init() {
	f := notifyCmd.Flags()
	f.StringVar(&notifyProfile, "profile", "", "backup profile name")
	f.StringVar(&notifyStatus, "status", string(model.BackupStatusSuccess), "run status: success, warning, failed")
	f.StringVar(&notifyTitle, "title", "", "notification title")
	f.StringVar(&notifyMessage, "message", "", "notification text (default: derived from status)")
	f.IntVar(&notifyTasks, "tasks", 0, "number of tasks in the run")
	f.IntVar(&notifyFailed, "failed", 0, "number of failed tasks")
	f.BoolVar(&notifyNoDesktop, "no-desktop", false, "skip the desktop notification")
	f.DurationVar(&notifyWait, "wait", 30*time.Second, "how long to wait for Slack delivery")
	rootCmd.AddCommand(notifyCmd)
}

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Send a backup run notification to the configured channels",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := parseStatus(notifyStatus)
		if err != nil {
			return err
		}

		s, err := openSession(false)
		if err != nil {
			return err
		}
		defer s.Close()

		cfg := s.config.Notification()
		if notifyNoDesktop {
			cfg.Desktop = false
		}

		d := notify.NewDispatcher(s.dispatcher(), s.logger)
		pending := d.Dispatch(cmd.Context(), cfg, notify.Event{
			ProfileName: notifyProfile,
			Status:      status,
			Title:       notifyTitle,
			Message:     notifyMessage,
			TasksTotal:  notifyTasks,
			TasksFailed: notifyFailed,
			Timestamp:   time.Now(),
		})
		if pending == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), notifyWait)
		defer cancel()
		o, err := pending.Wait(ctx)
		if err != nil {
			return fmt.Errorf("waiting for slack delivery: %w", err)
		}
		if !o.Sent() {
			return o.Err
		}
		return nil
	},
}

func parseStatus(s string) (model.BackupStatus, error) {
	switch status := model.BackupStatus(s); status {
	case model.BackupStatusSuccess, model.BackupStatusWarning, model.BackupStatusFailed:
		return status, nil
	default:
		return "", fmt.Errorf("unknown status %q", s)
	}
}
