package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/kurotych/fluckybackup/internal/slack"
	"github.com/kurotych/fluckybackup/internal/ui/styles"
)

// View renders the application.
func (a App) View() string {
	if a.dialogMode == DialogSlack {
		return a.slackDialog.View()
	}

	header := styles.LogoStyle.Render("fluckybackup") + " " + styles.VersionStyle.Render("notification settings")
	body := lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		a.renderSettings(),
		"",
		a.renderHistory(),
	)

	if a.height > 0 {
		// Keep the status bar on the last line.
		bodyHeight := a.height - 1
		if h := lipgloss.Height(body); h < bodyHeight {
			body += strings.Repeat("\n", bodyHeight-h)
		}
	}
	return body + "\n" + a.statusBar.View()
}

func (a App) renderSettings() string {
	webhook := styles.Dim.Render("not configured")
	if a.config.SlackWebhookURL != "" {
		webhook = styles.Value.Render(slack.RedactURL(a.config.SlackWebhookURL))
		if a.config.WebhookFromEnv() {
			webhook += styles.Dim.Render(" (from environment)")
		}
	}

	rows := []string{
		styles.PanelTitle.Render(styles.IconSlack + " Slack"),
		styles.Label.Render("Webhook") + webhook,
		styles.Label.Render("Desktop notify") + styles.Value.Render(onOff(a.config.DesktopNotify)),
		styles.Label.Render("Report failures") + styles.Value.Render(onOff(a.config.ReportDeliveryFailures)),
	}
	return styles.PanelBox.Render(strings.Join(rows, "\n"))
}

func (a App) renderHistory() string {
	rows := []string{styles.PanelTitle.Render("Recent deliveries")}
	if len(a.deliveries) == 0 {
		rows = append(rows, styles.Dim.Render("No deliveries yet. Press s, then Ctrl+T to send a test message."))
	}
	for _, d := range a.deliveries {
		when := time.Unix(d.CompletedAt, 0).Format("2006-01-02 15:04:05")
		result := styles.OutcomeSent.Render("sent")
		if !d.Succeeded() {
			result = styles.OutcomeFailed.Render("failed")
		}
		detail := ""
		if d.StatusCode != 0 {
			detail = fmt.Sprintf("HTTP %d", d.StatusCode)
		}
		if d.Error != "" {
			detail = strings.TrimSpace(detail + " " + d.Error)
		}
		rows = append(rows, fmt.Sprintf("%s  %-6s  %s", when, result,
			styles.TruncateWithEllipsis(detail, 60)))
	}
	return styles.PanelBox.Render(strings.Join(rows, "\n"))
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
