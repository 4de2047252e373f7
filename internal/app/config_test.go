package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv(EnvSlackWebhookURL, "")
	t.Setenv(EnvLogLevel, "")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().HistoryLimit, cfg.HistoryLimit)
	assert.True(t, cfg.DesktopNotify)
	assert.False(t, cfg.ReportDeliveryFailures)
	assert.Empty(t, cfg.SlackWebhookURL)
	assert.Zero(t, cfg.HTTPTimeout())
}

func TestSaveAndLoadConfig_RoundTripsWebhook(t *testing.T) {
	t.Setenv(EnvSlackWebhookURL, "")
	dir := filepath.Join(t.TempDir(), "nested")

	cfg := DefaultConfig()
	cfg.SetSlackWebhookURL("https://hooks.slack.com/services/T0/B0/XYZ")
	cfg.HTTPTimeoutSeconds = 7
	require.NoError(t, SaveConfig(dir, cfg))

	info, err := os.Stat(ConfigPath(dir))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "https://hooks.slack.com/services/T0/B0/XYZ", loaded.SlackWebhookURL)
	assert.Equal(t, 7*time.Second, loaded.HTTPTimeout())
	assert.False(t, loaded.WebhookFromEnv())
}

func TestLoadConfig_EnvSuppliesInitialWebhook(t *testing.T) {
	t.Setenv(EnvSlackWebhookURL, "https://hooks.slack.com/services/env")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "https://hooks.slack.com/services/env", cfg.SlackWebhookURL)
	assert.True(t, cfg.WebhookFromEnv())
	assert.Equal(t, "debug", cfg.EffectiveLogLevel())
	assert.Empty(t, cfg.LogLevel)
}

func TestSaveConfig_DoesNotPersistLogLevelOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	cfg.OverrideLogLevel("error")
	assert.Equal(t, "error", cfg.EffectiveLogLevel())
	require.NoError(t, SaveConfig(dir, cfg))

	data, err := os.ReadFile(ConfigPath(dir))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "log_level")

	require.NoError(t, os.WriteFile(ConfigPath(dir), []byte(`{"log_level": "warn"}`), 0600))
	t.Setenv(EnvLogLevel, "")
	cfg, err = LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.EffectiveLogLevel())
	cfg.OverrideLogLevel("  ")
	assert.Equal(t, "warn", cfg.EffectiveLogLevel())
}

func TestLoadConfig_FileWinsOverEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvSlackWebhookURL, "")
	cfg := DefaultConfig()
	cfg.SetSlackWebhookURL("https://hooks.slack.com/services/file")
	require.NoError(t, SaveConfig(dir, cfg))

	t.Setenv(EnvSlackWebhookURL, "https://hooks.slack.com/services/env")
	loaded, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "https://hooks.slack.com/services/file", loaded.SlackWebhookURL)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(ConfigPath(dir), []byte("{"), 0600))

	_, err := LoadConfig(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}

func TestLoadConfig_NormalizesLimits(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvSlackWebhookURL, "")
	t.Setenv(EnvLogLevel, "")
	require.NoError(t, os.WriteFile(ConfigPath(dir),
		[]byte(`{"history_limit": -1, "http_timeout_seconds": -5, "history_backend": " SQLite "}`), 0600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, defaultHistoryLimit, cfg.HistoryLimit)
	assert.Zero(t, cfg.HTTPTimeoutSeconds)
	assert.Equal(t, "info", cfg.EffectiveLogLevel())
	assert.Equal(t, "sqlite", cfg.HistoryBackend)
}

func TestResolveConfigDir(t *testing.T) {
	dir, err := ResolveConfigDir("/explicit")
	require.NoError(t, err)
	assert.Equal(t, "/explicit", dir)

	t.Setenv(EnvConfigDir, "/from-env")
	dir, err = ResolveConfigDir("")
	require.NoError(t, err)
	assert.Equal(t, "/from-env", dir)

	t.Setenv(EnvConfigDir, "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	dir, err = ResolveConfigDir("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg", "fluckybackup"), dir)

	home := t.TempDir()
	t.Setenv("HOME", home)
	dir, err = ResolveConfigDir("~/backups/conf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "backups", "conf"), dir)
}

func TestLoadEnv_ReadsDotEnvWithoutOverriding(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile,
		[]byte("FLUCKYBACKUP_TEST_ONLY=from-file\nFLUCKYBACKUP_TEST_KEEP=from-file\n"), 0600))

	t.Setenv("FLUCKYBACKUP_TEST_KEEP", "from-env")
	t.Cleanup(func() { _ = os.Unsetenv("FLUCKYBACKUP_TEST_ONLY") })

	require.NoError(t, LoadEnv(envFile, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "from-file", os.Getenv("FLUCKYBACKUP_TEST_ONLY"))
	assert.Equal(t, "from-env", os.Getenv("FLUCKYBACKUP_TEST_KEEP"))
}

func TestNotification(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SetSlackWebhookURL("https://hooks.slack.com/services/x")
	n := cfg.Notification()
	assert.True(t, n.Desktop)
	assert.True(t, n.Slack.IsSet())
}
