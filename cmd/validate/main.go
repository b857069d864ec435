// Command validate performs integrity checks across the mock data fixtures
// produced by genmock: the YAML scenario, the raw export JSON, and the parsed
// events JSON. It verifies record counts, field parity, parse correctness,
// and invariants of the risk analysis over the fixture.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -scenario data/scenarios/mixed_fleet_week.yaml \
//	  -raw-json data/mock/mixed_fleet_week_raw.json \
//	  -events-json data/mock/mixed_fleet_week_events.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	"gopkg.in/yaml.v3"

	"github.com/fleetsight/telemetry-risk/internal/domain"
	"github.com/fleetsight/telemetry-risk/internal/risk"
)

// scenario mirrors the genmock YAML shape.
type scenario struct {
	Name   string          `yaml:"name"`
	Events []scenarioEvent `yaml:"events"`
}

type scenarioEvent struct {
	Time        string `yaml:"time"`
	Operator    string `yaml:"operator"`
	Vehicle     string `yaml:"vehicle"`
	Code        string `yaml:"code"`
	Speed       string `yaml:"speed"`
	Description string `yaml:"description"`
	Address     string `yaml:"address"`
	Lat         string `yaml:"lat"`
	Lon         string `yaml:"lon"`
}

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	scenarioPath := flag.String("scenario", "", "path to YAML fleet scenario")
	rawJSON := flag.String("raw-json", "", "path to raw export JSON fixture")
	eventsJSON := flag.String("events-json", "", "path to parsed events JSON fixture")
	flag.Parse()

	if *scenarioPath == "" || *rawJSON == "" || *eventsJSON == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*scenarioPath, *rawJSON, *eventsJSON); code != 0 {
		os.Exit(code)
	}
}

func run(scenarioPath, rawJSONPath, eventsJSONPath string) int {
	// Set a fixed clock matching genmock for ProcessedAt reproducibility.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2024, time.May, 13, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	fmt.Println("=== Telemetry Fixture Integrity Validation ===")
	fmt.Println()

	sc, err := loadScenario(scenarioPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load scenario: %v\n", err)
		return 1
	}

	rawRecords, err := loadJSON[domain.RawExportRecord](rawJSONPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load raw JSON: %v\n", err)
		return 1
	}

	events, err := loadJSON[domain.TelemetryEvent](eventsJSONPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load events JSON: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateScenarioParity(sc, rawRecords),
		validateParseIntegrity(rawRecords, events),
		validateAnalysisInvariants(events),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-44s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d scenario, %d raw JSON, %d events JSON\n",
		len(sc.Events), len(rawRecords), len(events))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Data loading ──

func loadScenario(path string) (*scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if len(sc.Events) == 0 {
		return nil, fmt.Errorf("scenario %q has no events", sc.Name)
	}
	return &sc, nil
}

func loadJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ── Phase 1: Scenario Parity ──
// Validates that the raw JSON fixture matches the scenario row for row.

func validateScenarioParity(sc *scenario, raw []domain.RawExportRecord) *phase {
	p := &phase{name: "Phase 1: Scenario Parity (YAML vs raw JSON)"}

	if len(sc.Events) != len(raw) {
		p.errorf("scenario has %d events, raw JSON has %d", len(sc.Events), len(raw))
		return p
	}

	for i, e := range sc.Events {
		r := raw[i]
		if e.Time != r.Time {
			p.errorf("record %d: Time: scenario=%q, raw=%q", i, e.Time, r.Time)
		}
		if e.Operator != r.Operator {
			p.errorf("record %d: Operator: scenario=%q, raw=%q", i, e.Operator, r.Operator)
		}
		if e.Vehicle != r.Vehicle {
			p.errorf("record %d: Vehicle: scenario=%q, raw=%q", i, e.Vehicle, r.Vehicle)
		}
		if e.Code != r.Code {
			p.errorf("record %d: Code: scenario=%q, raw=%q", i, e.Code, r.Code)
		}
		if e.Speed != r.Speed {
			p.errorf("record %d: Speed: scenario=%q, raw=%q", i, e.Speed, r.Speed)
		}
	}
	return p
}

// ── Phase 2: Parse Integrity ──
// Re-runs the parsing path on raw records and compares with the events fixture.

func validateParseIntegrity(raw []domain.RawExportRecord, events []domain.TelemetryEvent) *phase {
	p := &phase{name: "Phase 2: Parse Integrity (raw vs events)"}

	if len(raw) != len(events) {
		p.errorf("raw JSON has %d records, events JSON has %d", len(raw), len(events))
		return p
	}

	for i, rec := range raw {
		rawJSON, err := json.Marshal(rec)
		if err != nil {
			p.errorf("record %d: marshal error: %v", i, err)
			continue
		}
		parsed, err := domain.ParseRawEvent(domain.RawEvent{Value: rawJSON})
		if err != nil {
			p.errorf("record %d: parse error: %v", i, err)
			continue
		}
		compareEvents(p, i, parsed, events[i])
	}
	return p
}

func compareEvents(p *phase, i int, expected, actual domain.TelemetryEvent) {
	if actual.ID == "" {
		p.errorf("record %d: missing ID", i)
	} else if actual.ID != expected.ID {
		p.errorf("record %d: ID: expected %q, got %q", i, expected.ID, actual.ID)
	}
	if !actual.Timestamp.Equal(expected.Timestamp) {
		p.errorf("record %d: timestamp: expected %s, got %s", i,
			expected.Timestamp.Format(time.RFC3339), actual.Timestamp.Format(time.RFC3339))
	}
	if actual.OperatorID != expected.OperatorID {
		p.errorf("record %d: operator: expected %q, got %q", i, expected.OperatorID, actual.OperatorID)
	}
	if actual.VehicleID != expected.VehicleID {
		p.errorf("record %d: vehicle: expected %q, got %q", i, expected.VehicleID, actual.VehicleID)
	}
	if actual.KindCode != expected.KindCode {
		p.errorf("record %d: kind code: expected %q, got %q", i, expected.KindCode, actual.KindCode)
	}
	if !floatEq(actual.Speed, expected.Speed) {
		p.errorf("record %d: speed: expected %g, got %g", i, expected.Speed, actual.Speed)
	}
	if actual.ProcessedAt.IsZero() {
		p.errorf("record %d: processed_at is zero", i)
	}
}

// ── Phase 3: Analysis Invariants ──
// Runs the risk engine over the fixture and checks structural invariants.

func validateAnalysisInvariants(events []domain.TelemetryEvent) *phase {
	p := &phase{name: "Phase 3: Analysis Invariants (risk engine)"}

	report := risk.BuildReport(events)

	if report.TotalEvents != len(events) {
		p.errorf("total events: expected %d, got %d", len(events), report.TotalEvents)
	}
	if report.RecognizedEvents > report.TotalEvents {
		p.errorf("recognized (%d) exceeds total (%d)", report.RecognizedEvents, report.TotalEvents)
	}
	if report.Distribution.Total > 0 {
		sum := report.Distribution.FatiguePct + report.Distribution.DistractionPct
		if math.Abs(sum-100) > 0.2 {
			p.errorf("distribution percentages sum to %.1f, expected ~100", sum)
		}
	}

	checkProfiles(p, "operator", report.OperatorProfiles, report.TotalEvents)
	checkProfiles(p, "vehicle", report.VehicleProfiles, report.TotalEvents)

	checkAlert(p, report.Alert)

	if report.WorstEvent == nil && report.RecognizedEvents > 0 {
		// A recognized event may still lack operator or vehicle attribution,
		// so nil is only suspicious when attributed events exist.
		for _, ev := range events {
			if ev.OperatorID != "" && ev.VehicleID != "" && risk.ClassifyKind(ev) != risk.KindOther {
				p.errorf("worst event is nil despite attributed recognized events")
				break
			}
		}
	}

	return p
}

func checkProfiles(p *phase, label string, profiles []risk.EntityRiskProfile, total int) {
	grouped := 0
	for i, prof := range profiles {
		grouped += prof.TotalEvents
		if prof.EntityID == "" {
			p.errorf("%s profile %d: empty entity ID", label, i)
		}
		if prof.Score.NormalizedScore < 0 || prof.Score.NormalizedScore > 100 {
			p.errorf("%s %s: normalized score %.1f out of [0,100]", label, prof.EntityID, prof.Score.NormalizedScore)
		}
		if i > 0 && profiles[i].Score.NormalizedScore > profiles[i-1].Score.NormalizedScore {
			p.errorf("%s profiles not sorted: %s (%.1f) after %s (%.1f)", label,
				profiles[i].EntityID, profiles[i].Score.NormalizedScore,
				profiles[i-1].EntityID, profiles[i-1].Score.NormalizedScore)
		}
	}
	if grouped != total {
		p.errorf("%s profiles cover %d events, expected %d", label, grouped, total)
	}
}

func checkAlert(p *phase, alert risk.SecurityAlert) {
	validCodes := map[risk.AlertSeverity]string{
		risk.SeverityCritical: risk.CodeFatigueCluster,
		risk.SeverityHigh:     risk.CodeHighSpeedEvent,
		risk.SeverityMedium:   risk.CodeVehicleRecurrence,
		risk.SeverityOK:       risk.CodeNone,
	}
	expected, ok := validCodes[alert.Severity]
	if !ok {
		p.errorf("alert: unknown severity %q", alert.Severity)
		return
	}
	if alert.Code != expected {
		p.errorf("alert: severity %s carries code %q, expected %q", alert.Severity, alert.Code, expected)
	}
	if alert.Severity != risk.SeverityOK && alert.Message == "" {
		p.errorf("alert: severity %s has empty message", alert.Severity)
	}
}

// ── Helpers ──

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
