package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurotych/fluckybackup/internal/model"
	"github.com/kurotych/fluckybackup/internal/slack"
)

type desktopCall struct {
	title   string
	message string
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *[]desktopCall) {
	t.Helper()
	var calls []desktopCall
	d := NewDispatcher(slack.NewDispatcher(slack.NewHTTPTransport(5*time.Second)), nil)
	d.SetDesktop(func(title, message string) error {
		calls = append(calls, desktopCall{title, message})
		return nil
	})
	return d, &calls
}

func TestDispatch_PostsToSlackAndDesktop(t *testing.T) {
	var mu sync.Mutex
	var payload slack.Payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		_ = json.Unmarshal(body, &payload)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d, desktop := newTestDispatcher(t)
	cfg := model.NotificationConfig{Desktop: true, Slack: model.WebhookConfig{URL: srv.URL}}

	p := d.Dispatch(context.Background(), cfg, Event{
		ProfileName: "home",
		Status:      model.BackupStatusSuccess,
		TasksTotal:  3,
	})
	require.NotNil(t, p)
	o, err := p.Wait(context.Background())
	require.NoError(t, err)
	assert.True(t, o.Sent())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "*fluckybackup: home*\nBackup completed: 3 task(s) succeeded", payload.Text)

	require.Len(t, *desktop, 1)
	assert.Equal(t, "fluckybackup: home", (*desktop)[0].title)
}

func TestDispatch_SkipsSlackWithoutWebhook(t *testing.T) {
	d, desktop := newTestDispatcher(t)

	p := d.Dispatch(context.Background(), model.NotificationConfig{Desktop: true}, Event{Status: model.BackupStatusFailed})
	assert.Nil(t, p)
	assert.Len(t, *desktop, 1)
}

func TestDispatch_DesktopDisabled(t *testing.T) {
	d, desktop := newTestDispatcher(t)

	p := d.Dispatch(context.Background(), model.NotificationConfig{}, Event{Status: model.BackupStatusFailed})
	assert.Nil(t, p)
	assert.Empty(t, *desktop)
}

func TestSummary(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		want  string
	}{
		{"explicit message", Event{Message: "  custom  ", Status: model.BackupStatusFailed}, "custom"},
		{"success", Event{Status: model.BackupStatusSuccess, TasksTotal: 2}, "Backup completed: 2 task(s) succeeded"},
		{"warning", Event{Status: model.BackupStatusWarning, TasksTotal: 4, TasksFailed: 1}, "Backup completed with warnings: 1 of 4 task(s) failed"},
		{"failed", Event{Status: model.BackupStatusFailed}, "Backup failed"},
		{
			"timestamp",
			Event{Status: model.BackupStatusFailed, Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
			"Backup failed (2026-01-02T03:04:05Z)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summary(tt.event))
		})
	}
}

func TestSummary_Truncates(t *testing.T) {
	got := Summary(Event{Message: strings.Repeat("x", 1000)})
	assert.Len(t, got, maxMessageLen+3)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestSummary_TruncatesOnRuneBoundary(t *testing.T) {
	got := Summary(Event{Message: "x" + strings.Repeat("é", 500)})
	assert.True(t, utf8.ValidString(got))
	assert.NotContains(t, got, "\uFFFD")
	assert.LessOrEqual(t, len(got), maxMessageLen+3)
	assert.True(t, strings.HasSuffix(got, "é..."))
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Nightly", Title(Event{Title: "Nightly", ProfileName: "home"}))
	assert.Equal(t, "fluckybackup: home", Title(Event{ProfileName: "home"}))
	assert.Equal(t, "fluckybackup", Title(Event{}))
}
