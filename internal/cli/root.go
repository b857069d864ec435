package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "riskcli",
	Short: "Riskcli - offline risk analysis for fleet telemetry exports",
	Long: `Riskcli runs the same risk engine as the streaming analyzer over a
local JSON export of telemetry events.

It is meant for investigating incidents and tuning fleet safety thresholds
without standing up Kafka: point it at an export file and it prints operator
and vehicle risk profiles plus the active security alert.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var ee exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(alertCmd)
	rootCmd.AddCommand(versionCmd)
}
