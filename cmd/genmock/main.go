// Command genmock reads a YAML fleet scenario and generates mock data
// fixtures for the analyzer test suites. It runs the actual domain parsing
// so the generated events match real pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -scenario data/scenarios/mixed_fleet_week.yaml \
//	  -raw-out data/mock/mixed_fleet_week_raw.json \
//	  -events-out data/mock/mixed_fleet_week_events.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"
	"gopkg.in/yaml.v3"

	"github.com/fleetsight/telemetry-risk/internal/domain"
	"github.com/fleetsight/telemetry-risk/internal/risk"
)

// scenario is the YAML shape describing a synthetic fleet export.
type scenario struct {
	Name   string          `yaml:"name"`
	Events []scenarioEvent `yaml:"events"`
}

type scenarioEvent struct {
	Time        string `yaml:"time"` // "2024-05-06 06:15:00"
	Operator    string `yaml:"operator"`
	Vehicle     string `yaml:"vehicle"`
	Code        string `yaml:"code"`
	Speed       string `yaml:"speed"`
	Description string `yaml:"description"`
	Address     string `yaml:"address"`
	Lat         string `yaml:"lat"`
	Lon         string `yaml:"lon"`
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	scenarioPath := flag.String("scenario", "", "path to YAML fleet scenario")
	rawOut := flag.String("raw-out", "", "output path for raw export JSON fixture")
	eventsOut := flag.String("events-out", "", "output path for parsed events JSON fixture")
	flag.Parse()

	if *scenarioPath == "" || *rawOut == "" || *eventsOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -scenario, -raw-out, -events-out")
	}

	data, err := os.ReadFile(*scenarioPath)
	if err != nil {
		return fmt.Errorf("read scenario: %w", err)
	}

	var sc scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return fmt.Errorf("parse scenario: %w", err)
	}
	if len(sc.Events) == 0 {
		return fmt.Errorf("scenario %q has no events", sc.Name)
	}

	// Set a fixed clock for reproducible ProcessedAt timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2024, time.May, 13, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	records := make([]domain.RawExportRecord, 0, len(sc.Events))
	events := make([]domain.TelemetryEvent, 0, len(sc.Events))

	for i, e := range sc.Events {
		rec := domain.RawExportRecord{
			Time:        e.Time,
			Operator:    e.Operator,
			Vehicle:     e.Vehicle,
			Code:        e.Code,
			Speed:       e.Speed,
			Description: e.Description,
			Address:     e.Address,
			Lat:         e.Lat,
			Lon:         e.Lon,
		}
		records = append(records, rec)

		// Run the actual parsing path.
		rawJSON, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal record %d: %w", i, err)
		}

		parsed, err := domain.ParseRawEvent(domain.RawEvent{Value: rawJSON})
		if err != nil {
			return fmt.Errorf("parse record %d: %w", i, err)
		}
		events = append(events, domain.StampProcessed(parsed))
	}

	log.Printf("scenario %q: %d events", sc.Name, len(records))

	if err := writeJSON(*rawOut, records); err != nil {
		return fmt.Errorf("writing raw fixture: %w", err)
	}
	log.Printf("wrote raw fixture: %s", *rawOut)

	if err := writeJSON(*eventsOut, events); err != nil {
		return fmt.Errorf("writing events fixture: %w", err)
	}
	log.Printf("wrote events fixture: %s", *eventsOut)

	printStats(events)
	return nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(events []domain.TelemetryEvent) {
	report := risk.BuildReport(events)

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d\n", report.TotalEvents)
	fmt.Printf("Recognized: %d\n", report.RecognizedEvents)
	fmt.Printf("Distribution: fatigue=%d (%.1f%%), distraction=%d (%.1f%%)\n",
		report.Distribution.FatigueCount, report.Distribution.FatiguePct,
		report.Distribution.DistractionCount, report.Distribution.DistractionPct)

	fmt.Printf("\nAlert: %s %s\n", report.Alert.Severity, report.Alert.Code)
	if report.Alert.Message != "" {
		fmt.Printf("  %s\n", report.Alert.Message)
	}

	fmt.Println("\nOperator profiles (highest risk first):")
	printProfiles(report.OperatorProfiles)
	fmt.Println("\nVehicle profiles (highest risk first):")
	printProfiles(report.VehicleProfiles)

	if report.WorstEvent != nil {
		fmt.Printf("\nWorst event: %s operator=%s vehicle=%s speed=%g at %s\n",
			report.WorstEvent.KindCode, report.WorstEvent.OperatorID,
			report.WorstEvent.VehicleID, report.WorstEvent.Speed,
			report.WorstEvent.Timestamp.Format(time.RFC3339))
	}
}

func printProfiles(profiles []risk.EntityRiskProfile) {
	for _, p := range profiles {
		fmt.Printf("  %-12s events=%-3d raw=%-7.2f score=%-5.1f level=%s\n",
			p.EntityID, p.TotalEvents, p.Score.RawScore, p.Score.NormalizedScore, p.Score.Level)
	}
}
