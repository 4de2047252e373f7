// Package cli implements the fluckybackup command tree.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	flagConfigDir string
	flagLogLevel  string
)

var rootCmd = &cobra.Command{
	Use:   "fluckybackup",
	Short: "Backup notification settings and Slack webhook delivery",
	Long: "Configures where fluckybackup sends backup notifications. " +
		"Run without a subcommand to open the settings TUI.",
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default $FLUCKYBACKUP_CONFIG_DIR or ~/.config/fluckybackup)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
