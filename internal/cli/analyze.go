package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fleetsight/telemetry-risk/internal/risk"
)

var (
	analyzeRaw      bool
	analyzeAsJSON   bool
	analyzeVehicles bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <events.json>",
	Short: "Analyze a telemetry export and print risk profiles",
	Long: `Runs the full risk engine over a JSON export: event distribution,
operator and vehicle risk profiles, the security alert, and the worst event.

By default the file is expected to contain parsed telemetry events (the
analyzer's sink format). Pass --raw for spreadsheet export records, which are
parsed first using the same rules as the streaming pipeline.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeRaw, "raw", false, "input contains raw export records instead of parsed events")
	analyzeCmd.Flags().BoolVar(&analyzeAsJSON, "json", false, "print the full report as JSON")
	analyzeCmd.Flags().BoolVar(&analyzeVehicles, "vehicles", false, "include vehicle profiles in table output")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	events, err := loadEvents(args[0], analyzeRaw)
	if err != nil {
		return err
	}

	report := risk.BuildReport(events)

	if analyzeAsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	printReport(report, analyzeVehicles)
	return nil
}

func printReport(report *risk.Report, withVehicles bool) {
	fmt.Printf("Events: %d total, %d recognized\n", report.TotalEvents, report.RecognizedEvents)
	if report.Distribution.Total > 0 {
		fmt.Printf("Distribution: fatigue %d (%.1f%%), distraction %d (%.1f%%)\n",
			report.Distribution.FatigueCount, report.Distribution.FatiguePct,
			report.Distribution.DistractionCount, report.Distribution.DistractionPct)
	}

	fmt.Println()
	printAlert(report.Alert)

	fmt.Println("\nOperator risk profiles:")
	printProfileTable(report.OperatorProfiles)

	if withVehicles {
		fmt.Println("\nVehicle risk profiles:")
		printProfileTable(report.VehicleProfiles)
	}

	if report.Narrative != "" {
		fmt.Printf("\n%s\n", report.Narrative)
	}
}

func printProfileTable(profiles []risk.EntityRiskProfile) {
	if len(profiles) == 0 {
		fmt.Println("  (none)")
		return
	}
	fmt.Printf("  %-14s %6s %8s %8s %7s %7s  %s\n",
		"ENTITY", "EVENTS", "FATIGUE", "DISTRACT", "RAW", "SCORE", "LEVEL")
	for _, p := range profiles {
		fmt.Printf("  %-14s %6d %8d %8d %7.2f %7.1f  %s\n",
			p.EntityID, p.TotalEvents,
			p.Distribution.FatigueCount, p.Distribution.DistractionCount,
			p.Score.RawScore, p.Score.NormalizedScore, p.Score.Level)
	}
}
