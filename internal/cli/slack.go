package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kurotych/fluckybackup/internal/app"
	"github.com/kurotych/fluckybackup/internal/model"
	"github.com/kurotych/fluckybackup/internal/slack"
)

var (
	slackTestURL       string
	slackTestText      string
	slackTestTimeout   time.Duration
	slackHistoryLimit  int
	slackHistoryFormat string
)

func init() {
	slackTestCmd.Flags().StringVar(&slackTestURL, "url", "", "webhook URL (default: the configured one)")
	slackTestCmd.Flags().StringVar(&slackTestText, "text", slack.TestMessage, "message text")
	slackTestCmd.Flags().DurationVar(&slackTestTimeout, "wait", 30*time.Second, "how long to wait for the outcome")
	slackHistoryCmd.Flags().IntVar(&slackHistoryLimit, "limit", 20, "number of deliveries to show (0 for all)")
	slackHistoryCmd.Flags().StringVarP(&slackHistoryFormat, "output", "o", "text", "output format: text, json, yaml")

	slackCmd.AddCommand(slackValidateCmd, slackTestCmd, slackSetCmd, slackShowCmd, slackHistoryCmd)
	rootCmd.AddCommand(slackCmd)
}

var slackCmd = &cobra.Command{
	Use:   "slack",
	Short: "Manage the Slack webhook",
}

var slackValidateCmd = &cobra.Command{
	Use:   "validate <url>",
	Short: "Check that a URL is a Slack incoming-webhook URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result := slack.Validate(args[0])
		if !result.Valid() {
			fmt.Fprintln(cmd.OutOrStdout(), result.Reason)
			return result.Err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "valid")
		return nil
	},
}

var slackSetCmd = &cobra.Command{
	Use:   "set <url>",
	Short: "Validate and save the webhook URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result := slack.Validate(args[0])
		if !result.Valid() {
			fmt.Fprintln(cmd.OutOrStdout(), result.Reason)
			return result.Err
		}

		s, err := openSession(false)
		if err != nil {
			return err
		}
		defer s.Close()

		s.config.SetSlackWebhookURL(result.URL)
		if err := app.SaveConfig(s.configDir, s.config); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s to %s\n", slack.RedactURL(result.URL), app.ConfigPath(s.configDir))
		return nil
	},
}

var slackShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the configured webhook",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(false)
		if err != nil {
			return err
		}
		defer s.Close()

		out := cmd.OutOrStdout()
		if s.config.SlackWebhookURL == "" {
			fmt.Fprintln(out, "Slack webhook: not configured")
			return nil
		}
		source := "config"
		if s.config.WebhookFromEnv() {
			source = app.EnvSlackWebhookURL
		}
		fmt.Fprintf(out, "Slack webhook: %s (from %s)\n", slack.RedactURL(s.config.SlackWebhookURL), source)
		return nil
	},
}

var slackTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Send a test message and wait for the outcome",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(false)
		if err != nil {
			return err
		}
		defer s.Close()

		url := slackTestURL
		if url == "" {
			url = s.config.SlackWebhookURL
		}
		result := slack.Validate(url)
		if !result.Valid() {
			fmt.Fprintln(cmd.OutOrStdout(), result.Reason)
			return result.Err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), slackTestTimeout)
		defer cancel()

		o, err := s.dispatcher().DispatchAndWait(ctx, result.URL, slackTestText)
		if err != nil {
			return fmt.Errorf("waiting for delivery: %w", err)
		}

		out := cmd.OutOrStdout()
		if o.Sent() {
			fmt.Fprintf(out, "%s (HTTP %d)\n", slack.MsgTestSent, o.StatusCode)
			return nil
		}
		fmt.Fprintf(out, "Delivery failed: %v\n", o.Err)
		var te *slack.TransportError
		if errors.As(o.Err, &te) && len(te.Body) > 0 {
			fmt.Fprintf(out, "Response: %s\n", te.Body)
		}
		return o.Err
	},
}

var slackHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent webhook deliveries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(false)
		if err != nil {
			return err
		}
		defer s.Close()

		deliveries, err := s.store.List(cmd.Context(), slackHistoryLimit)
		if err != nil {
			return err
		}
		return writeDeliveries(cmd.OutOrStdout(), slackHistoryFormat, deliveries)
	},
}

func writeDeliveries(out io.Writer, format string, deliveries []model.Delivery) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(deliveries)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(deliveries); err != nil {
			return err
		}
		return enc.Close()
	case "text":
	default:
		return fmt.Errorf("unknown output format %q", format)
	}

	if len(deliveries) == 0 {
		fmt.Fprintln(out, "No deliveries recorded.")
		return nil
	}
	for _, d := range deliveries {
		when := time.Unix(d.CompletedAt, 0).Format(time.RFC3339)
		line := fmt.Sprintf("%s  %-15s  %s", when, d.Kind, d.Target)
		if d.StatusCode != 0 {
			line += fmt.Sprintf("  HTTP %d", d.StatusCode)
		}
		if d.Error != "" {
			line += "  " + d.Error
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
