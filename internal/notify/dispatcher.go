// Package notify sends backup run notifications to the desktop and Slack.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gen2brain/beeep"
	"go.uber.org/zap"

	"github.com/kurotych/fluckybackup/internal/model"
	"github.com/kurotych/fluckybackup/internal/slack"
	"github.com/kurotych/fluckybackup/pkg/utils"
)

const maxMessageLen = 800

// Event describes a finished backup run.
type Event struct {
	ProfileName string
	Status      model.BackupStatus
	Title       string
	Message     string
	TasksTotal  int
	TasksFailed int
	Timestamp   time.Time
}

// DesktopFunc shows a desktop notification.
type DesktopFunc func(title, message string) error

// Dispatcher sends notifications to configured channels.
type Dispatcher struct {
	slack   *slack.Dispatcher
	desktop DesktopFunc
	logger  *zap.Logger
}

// NewDispatcher creates a Dispatcher posting webhooks through sd.
func NewDispatcher(sd *slack.Dispatcher, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		slack: sd,
		desktop: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
		logger: logger.Named("notify"),
	}
}

// SetDesktop replaces the desktop notifier.
func (d *Dispatcher) SetDesktop(fn DesktopFunc) {
	d.desktop = fn
}

// Dispatch sends event using cfg. It returns the pending Slack delivery, or
// nil when no webhook is configured. It never blocks on the network.
func (d *Dispatcher) Dispatch(ctx context.Context, cfg model.NotificationConfig, event Event) *slack.Pending {
	title := Title(event)
	message := Summary(event)

	if cfg.Desktop && d.desktop != nil {
		if err := d.desktop(title, message); err != nil {
			d.logger.Debug("Desktop notification failed", zap.Error(err))
		}
	}

	if !cfg.Slack.IsSet() || d.slack == nil {
		return nil
	}
	return d.slack.Dispatch(ctx, cfg.Slack.URL, SlackText(title, message))
}

// Title returns the notification title for event.
func Title(event Event) string {
	title := strings.TrimSpace(event.Title)
	if title != "" {
		return title
	}
	if event.ProfileName != "" {
		return "fluckybackup: " + event.ProfileName
	}
	return "fluckybackup"
}

// Summary returns the notification body for event.
func Summary(event Event) string {
	message := strings.TrimSpace(event.Message)
	if message == "" {
		switch event.Status {
		case model.BackupStatusSuccess:
			message = fmt.Sprintf("Backup completed: %d task(s) succeeded", event.TasksTotal)
		case model.BackupStatusWarning:
			message = fmt.Sprintf("Backup completed with warnings: %d of %d task(s) failed",
				event.TasksFailed, event.TasksTotal)
		case model.BackupStatusFailed:
			message = "Backup failed"
		default:
			message = string(event.Status)
		}
	}
	if !event.Timestamp.IsZero() {
		message += " (" + event.Timestamp.Format(time.RFC3339) + ")"
	}
	if cut, ok := utils.TruncateBytes(message, maxMessageLen); ok {
		message = cut + "..."
	}
	return message
}

// SlackText formats title and message for an incoming webhook.
func SlackText(title, message string) string {
	return "*" + title + "*\n" + message
}
