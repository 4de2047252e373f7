// fluckybackup - backup notification settings.
// Configures and tests the Slack webhook used for backup run notifications.
package main

import "github.com/kurotych/fluckybackup/internal/cli"

func main() {
	cli.Execute()
}
