package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fleetsight/telemetry-risk/internal/risk"
)

var alertRaw bool

var alertCmd = &cobra.Command{
	Use:   "alert <events.json>",
	Short: "Print only the security alert for a telemetry export",
	Long: `Runs the alert cascade over a JSON export and prints the single
highest-priority security alert, or OK when nothing fires.

Exits with status 2 when the alert severity is CRITICAL or HIGH, so the
command can gate scheduled fleet checks.`,
	Args: cobra.ExactArgs(1),
	RunE: runAlert,
}

func init() {
	alertCmd.Flags().BoolVar(&alertRaw, "raw", false, "input contains raw export records instead of parsed events")
}

func runAlert(cmd *cobra.Command, args []string) error {
	events, err := loadEvents(args[0], alertRaw)
	if err != nil {
		return err
	}

	alert := risk.Detect(events)
	printAlert(alert)

	if alert.Severity == risk.SeverityCritical || alert.Severity == risk.SeverityHigh {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return exitError{code: 2}
	}
	return nil
}

// exitError carries a non-zero exit code without printing an error message.
type exitError struct {
	code int
}

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func printAlert(alert risk.SecurityAlert) {
	fmt.Printf("Alert: [%s] %s\n", alert.Severity, alert.Code)
	if alert.Message != "" {
		fmt.Printf("  %s\n", alert.Message)
	}
	if alert.RelatedOperator != "" {
		fmt.Printf("  Operator: %s\n", alert.RelatedOperator)
	}
	if alert.RelatedVehicle != "" {
		fmt.Printf("  Vehicle: %s\n", alert.RelatedVehicle)
	}
	if alert.RelatedDate != "" {
		fmt.Printf("  Date: %s\n", alert.RelatedDate)
	}
}
