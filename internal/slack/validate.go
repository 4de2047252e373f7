// Package slack validates Slack incoming-webhook URLs and posts
// notifications to them.
package slack

import (
	"errors"
	"strings"
)

// WebhookPrefix is the only accepted start of a Slack incoming-webhook URL.
const WebhookPrefix = "https://hooks.slack.com/"

// User-facing validation messages.
const (
	MsgEmptyURL  = "Please enter a Slack webhook URL."
	MsgBadPrefix = "Please enter a valid Slack webhook URL starting with '" + WebhookPrefix + "'."
)

var (
	// ErrEmptyURL is returned for empty or whitespace-only input.
	ErrEmptyURL = errors.New("slack webhook URL is empty")
	// ErrBadPrefix is returned when the input does not start with WebhookPrefix.
	ErrBadPrefix = errors.New("slack webhook URL has an unexpected prefix")
)

// ValidationResult is either Valid (URL set) or Invalid (Reason and Err set).
type ValidationResult struct {
	// URL is the accepted input, unchanged. Empty when invalid.
	URL string
	// Reason is the message to show the user when invalid.
	Reason string
	// Err is ErrEmptyURL or ErrBadPrefix when invalid.
	Err error
}

// Valid reports whether the URL was accepted.
func (r ValidationResult) Valid() bool {
	return r.Err == nil
}

// Validate checks urlText against the presence and prefix rules.
// Beyond the prefix it is deliberately lenient: no parsing, no trimming of
// a non-blank value, no length or query checks.
func Validate(urlText string) ValidationResult {
	if strings.TrimSpace(urlText) == "" {
		return ValidationResult{Reason: MsgEmptyURL, Err: ErrEmptyURL}
	}
	if !strings.HasPrefix(urlText, WebhookPrefix) {
		return ValidationResult{Reason: MsgBadPrefix, Err: ErrBadPrefix}
	}
	return ValidationResult{URL: urlText}
}
