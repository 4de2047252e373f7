// Package model defines core data structures for fluckybackup.
package model

// OutcomeKind classifies how a webhook delivery ended.
type OutcomeKind string

const (
	// OutcomeSent means the transport completed and the endpoint answered 2xx.
	OutcomeSent OutcomeKind = "sent"
	// OutcomeTransportError means the request failed or was rejected.
	OutcomeTransportError OutcomeKind = "transport_error"
)

// BackupStatus represents how a backup run finished.
type BackupStatus string

const (
	// BackupStatusSuccess indicates every task completed.
	BackupStatusSuccess BackupStatus = "success"
	// BackupStatusWarning indicates the run completed with skipped or failed files.
	BackupStatusWarning BackupStatus = "warning"
	// BackupStatusFailed indicates the run aborted.
	BackupStatusFailed BackupStatus = "failed"
)

// WebhookConfig is the Slack webhook setting edited by the settings dialog.
type WebhookConfig struct {
	// URL is the Slack incoming-webhook URL.
	URL string `json:"url"`
}

// IsSet reports whether a URL has been configured.
func (c WebhookConfig) IsSet() bool {
	return c.URL != ""
}

// NotificationConfig holds notification settings for backup events.
type NotificationConfig struct {
	// Desktop enables desktop notifications via system APIs.
	Desktop bool `json:"desktop"`
	// Slack is the webhook used for chat notifications.
	Slack WebhookConfig `json:"slack"`
}
