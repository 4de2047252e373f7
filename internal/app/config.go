// Package app provides application-level configuration and initialization.
package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/kurotych/fluckybackup/internal/model"
	"github.com/kurotych/fluckybackup/pkg/utils"
)

// Environment variables that override config.json.
const (
	EnvConfigDir       = "FLUCKYBACKUP_CONFIG_DIR"
	EnvSlackWebhookURL = "FLUCKYBACKUP_SLACK_WEBHOOK_URL"
	EnvLogLevel        = "FLUCKYBACKUP_LOG_LEVEL"
)

const (
	appDirName          = "fluckybackup"
	defaultHistoryLimit = 50
)

// Config holds the application configuration.
type Config struct {
	// SlackWebhookURL is the accepted Slack incoming-webhook URL.
	SlackWebhookURL string `json:"slack_webhook_url,omitempty"`
	// DesktopNotify enables desktop notifications for backup events.
	DesktopNotify bool `json:"desktop_notify"`
	// ReportDeliveryFailures shows a follow-up warning when a test
	// message fails after the optimistic confirmation.
	ReportDeliveryFailures bool `json:"report_delivery_failures"`
	// HTTPTimeoutSeconds bounds webhook requests. Zero means no timeout.
	HTTPTimeoutSeconds int `json:"http_timeout_seconds,omitempty"`
	// RateLimitPerMinute paces webhook POSTs. Zero disables pacing.
	RateLimitPerMinute int `json:"rate_limit_per_minute,omitempty"`
	// HistoryLimit is the number of delivery records kept.
	HistoryLimit int `json:"history_limit,omitempty"`
	// HistoryBackend selects where deliveries are kept: "json" or "sqlite".
	HistoryBackend string `json:"history_backend,omitempty"`
	// LogLevel is the zap level for CLI and TUI logs. Empty means info.
	LogLevel string `json:"log_level,omitempty"`
	// Theme is the color theme (future use).
	Theme string `json:"theme"`

	// envWebhook is true when SlackWebhookURL came from the environment.
	envWebhook bool
	// logLevelOverride comes from the environment or --log-level and is
	// never saved.
	logLevelOverride string
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DesktopNotify:  true,
		HistoryLimit:   defaultHistoryLimit,
		HistoryBackend: "json",
		Theme:          "catppuccin-mocha",
	}
}

// ConfigPath returns the path to the config file.
func ConfigPath(configDir string) string {
	return filepath.Join(configDir, "config.json")
}

// ResolveConfigDir returns the configuration directory. An explicit value
// wins, then FLUCKYBACKUP_CONFIG_DIR, then XDG_CONFIG_HOME or ~/.config.
// A leading ~ and $VARS are expanded.
func ResolveConfigDir(explicit string) (string, error) {
	if dir := utils.ExpandPath(explicit); dir != "" {
		return dir, nil
	}
	if dir := utils.ExpandPath(os.Getenv(EnvConfigDir)); dir != "" {
		return dir, nil
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, appDirName), nil
}

// LoadEnv loads .env files into the process environment. Missing files are
// ignored; existing variables are never overwritten.
func LoadEnv(files ...string) error {
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// LoadConfig loads the configuration from disk and applies environment
// overrides.
func LoadConfig(configDir string) (*Config, error) {
	path := ConfigPath(configDir)
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	config.applyEnv()
	config.normalize()
	return config, nil
}

// SaveConfig saves the configuration to disk.
func SaveConfig(configDir string, config *Config) error {
	// Ensure directory exists
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	// The webhook URL is a credential.
	return os.WriteFile(ConfigPath(configDir), data, 0600)
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvSlackWebhookURL); v != "" && c.SlackWebhookURL == "" {
		c.SlackWebhookURL = v
		c.envWebhook = true
	}
	c.OverrideLogLevel(os.Getenv(EnvLogLevel))
}

func (c *Config) normalize() {
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = defaultHistoryLimit
	}
	if c.HTTPTimeoutSeconds < 0 {
		c.HTTPTimeoutSeconds = 0
	}
	if c.RateLimitPerMinute < 0 {
		c.RateLimitPerMinute = 0
	}
	c.HistoryBackend = strings.ToLower(strings.TrimSpace(c.HistoryBackend))
	if c.HistoryBackend == "" {
		c.HistoryBackend = "json"
	}
}

// WebhookFromEnv reports whether the configured URL was supplied by the
// environment rather than config.json.
func (c *Config) WebhookFromEnv() bool {
	return c.envWebhook
}

// SetSlackWebhookURL stores an accepted URL.
func (c *Config) SetSlackWebhookURL(url string) {
	c.SlackWebhookURL = url
	c.envWebhook = false
}

// HTTPTimeout returns the webhook request timeout.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// Notification returns the notification settings for backup events.
func (c *Config) Notification() model.NotificationConfig {
	return model.NotificationConfig{
		Desktop: c.DesktopNotify,
		Slack:   model.WebhookConfig{URL: c.SlackWebhookURL},
	}
}

// OverrideLogLevel sets a level for this run only. Blank values are ignored.
func (c *Config) OverrideLogLevel(level string) {
	if level = strings.TrimSpace(level); level != "" {
		c.logLevelOverride = level
	}
}

// EffectiveLogLevel returns the override, then LogLevel, then "info".
func (c *Config) EffectiveLogLevel() string {
	switch {
	case c.logLevelOverride != "":
		return c.logLevelOverride
	case c.LogLevel != "":
		return c.LogLevel
	}
	return "info"
}
