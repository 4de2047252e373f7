package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/kurotych/fluckybackup/internal/app"
	"github.com/kurotych/fluckybackup/internal/model"
	"github.com/kurotych/fluckybackup/internal/slack"
	"github.com/kurotych/fluckybackup/internal/store"
)

const validURL = "https://hooks.slack.com/services/T0/B0/XYZ"

type stubTransport struct {
	mu     sync.Mutex
	bodies []string
	resp   *slack.Response
}

func (s *stubTransport) Post(_ context.Context, _ string, body []byte, _ http.Header) (*slack.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bodies = append(s.bodies, string(body))
	return s.resp, nil
}

func (s *stubTransport) Bodies() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.bodies...)
}

// useTransport swaps the webhook transport for the duration of the test.
func useTransport(t *testing.T, status int, body string) *stubTransport {
	t.Helper()
	st := &stubTransport{resp: &slack.Response{StatusCode: status, Body: []byte(body)}}
	orig := newTransport
	newTransport = func(time.Duration) slack.Transport { return st }
	t.Cleanup(func() { newTransport = orig })
	return st
}

// run executes the command tree with args against a fresh config dir.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Setenv(app.EnvSlackWebhookURL, "")
	t.Setenv(app.EnvLogLevel, "")

	flagConfigDir, flagLogLevel = "", ""
	slackTestURL, slackTestText, slackTestTimeout = "", slack.TestMessage, 5*time.Second
	slackHistoryLimit, slackHistoryFormat = 20, "text"
	notifyProfile, notifyStatus, notifyTitle, notifyMessage = "", "success", "", ""
	notifyTasks, notifyFailed, notifyNoDesktop, notifyWait = 0, 0, false, 5*time.Second

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config-dir", dir, "--log-level", "error"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSlackValidate(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "slack", "validate", validURL)
	require.NoError(t, err)
	assert.Equal(t, "valid\n", out)

	out, err = run(t, dir, "slack", "validate", "https://example.com/hook")
	assert.ErrorIs(t, err, slack.ErrBadPrefix)
	assert.Contains(t, out, slack.MsgBadPrefix)

	out, err = run(t, dir, "slack", "validate", "   ")
	assert.ErrorIs(t, err, slack.ErrEmptyURL)
	assert.Contains(t, out, slack.MsgEmptyURL)
}

func TestSlackSetAndShow(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "slack", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "not configured")

	out, err = run(t, dir, "slack", "set", validURL)
	require.NoError(t, err)
	assert.Contains(t, out, "Saved https://hooks.slack.com/")
	assert.NotContains(t, out, "XYZ")

	cfg, err := app.LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, validURL, cfg.SlackWebhookURL)

	out, err = run(t, dir, "slack", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "hooks.slack.com")
	assert.Contains(t, out, "(from config)")
	assert.NotContains(t, out, "XYZ")
}

func TestSlackSet_LogLevelFlagNotSaved(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, "slack", "set", validURL)
	require.NoError(t, err)

	data, err := os.ReadFile(app.ConfigPath(dir))
	require.NoError(t, err)
	assert.Contains(t, string(data), validURL)
	assert.NotContains(t, string(data), "log_level")
}

func TestSlackSet_InvalidDoesNotSave(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, "slack", "set", "http://hooks.slack.com/services/x")
	assert.ErrorIs(t, err, slack.ErrBadPrefix)

	_, statErr := os.Stat(filepath.Join(dir, "config.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestSlackTest_RecordsDelivery(t *testing.T) {
	dir := t.TempDir()
	tr := useTransport(t, http.StatusOK, "ok")

	out, err := run(t, dir, "slack", "test", "--url", validURL)
	require.NoError(t, err)
	assert.Contains(t, out, slack.MsgTestSent)
	assert.Equal(t, []string{`{"text":"Hello from Qt!"}`}, tr.Bodies())

	st, err := store.NewJSONStore(dir, 10)
	require.NoError(t, err)
	deliveries, err := st.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, deliveries, 1)
	assert.True(t, deliveries[0].Succeeded())

	out, err = run(t, dir, "slack", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "sent")
	assert.Contains(t, out, "HTTP 200")
}

func TestSlackTest_Non2xxFails(t *testing.T) {
	dir := t.TempDir()
	useTransport(t, http.StatusNotFound, "no_service")

	out, err := run(t, dir, "slack", "test", "--url", validURL)
	require.Error(t, err)
	var te *slack.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusNotFound, te.StatusCode)
	assert.Contains(t, out, "Delivery failed")
	assert.Contains(t, out, "no_service")
}

func TestSlackTest_NoWebhookConfigured(t *testing.T) {
	dir := t.TempDir()
	tr := useTransport(t, http.StatusOK, "ok")

	_, err := run(t, dir, "slack", "test")
	assert.ErrorIs(t, err, slack.ErrEmptyURL)
	assert.Empty(t, tr.Bodies())
}

func TestSlackHistory_YAML(t *testing.T) {
	dir := t.TempDir()
	useTransport(t, http.StatusBadRequest, "invalid_payload")

	_, err := run(t, dir, "slack", "test", "--url", validURL)
	require.Error(t, err)

	out, err := run(t, dir, "slack", "history", "-o", "yaml")
	require.NoError(t, err)

	var got []model.Delivery
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, model.OutcomeTransportError, got[0].Kind)
	assert.Equal(t, http.StatusBadRequest, got[0].StatusCode)
	assert.Equal(t, "invalid_payload", got[0].Body)
	assert.Equal(t, "https://hooks.slack.com/<redacted>", got[0].Target)
}

func TestSlackHistory_UnknownFormat(t *testing.T) {
	_, err := run(t, t.TempDir(), "slack", "history", "-o", "xml")
	assert.Error(t, err)
}

func TestSlackHistory_SQLiteBackend(t *testing.T) {
	dir := t.TempDir()
	cfg := app.DefaultConfig()
	cfg.HistoryBackend = store.BackendSQLite
	require.NoError(t, app.SaveConfig(dir, cfg))
	useTransport(t, http.StatusOK, "ok")

	_, err := run(t, dir, "slack", "test", "--url", validURL)
	require.NoError(t, err)

	out, err := run(t, dir, "slack", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "HTTP 200")

	_, statErr := os.Stat(filepath.Join(dir, store.DBFileName))
	assert.NoError(t, statErr)
}

func TestSlackHistory_Empty(t *testing.T) {
	out, err := run(t, t.TempDir(), "slack", "history")
	require.NoError(t, err)
	assert.Equal(t, "No deliveries recorded.\n", out)
}

func TestNotify_PostsToConfiguredWebhook(t *testing.T) {
	dir := t.TempDir()
	tr := useTransport(t, http.StatusOK, "ok")
	cfg := app.DefaultConfig()
	cfg.SlackWebhookURL = validURL
	require.NoError(t, app.SaveConfig(dir, cfg))

	_, err := run(t, dir, "notify", "--no-desktop", "--profile", "home", "--status", "failed")
	require.NoError(t, err)

	bodies := tr.Bodies()
	require.Len(t, bodies, 1)
	assert.True(t, strings.HasPrefix(bodies[0], `{"text":"*fluckybackup: home*\nBackup failed (`), bodies[0])
}

func TestNotify_WithoutWebhookSendsNothing(t *testing.T) {
	tr := useTransport(t, http.StatusOK, "ok")

	_, err := run(t, t.TempDir(), "notify", "--no-desktop")
	require.NoError(t, err)
	assert.Empty(t, tr.Bodies())
}

func TestNotify_UnknownStatus(t *testing.T) {
	_, err := run(t, t.TempDir(), "notify", "--status", "exploded")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown status")
}

func TestVersion(t *testing.T) {
	out, err := run(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "fluckybackup"`)
	assert.Contains(t, out, version)
}
