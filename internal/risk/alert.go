package risk

import (
	"fmt"
	"strings"

	"github.com/fleetsight/telemetry-risk/internal/domain"
)

// Alert rule thresholds.
const (
	fatigueClusterMin    = 3  // same-day fatigue events per operator for CRITICAL
	vehicleRecurrenceMin = 10 // total events per vehicle for MEDIUM
)

// AlertSeverity orders security alerts. The cascade is absolute: a HIGH
// condition is never reported while a CRITICAL one exists, related or not.
type AlertSeverity string

const (
	SeverityCritical AlertSeverity = "CRITICAL"
	SeverityHigh     AlertSeverity = "HIGH"
	SeverityMedium   AlertSeverity = "MEDIUM"
	SeverityOK       AlertSeverity = "OK"
)

// Alert rule codes.
const (
	CodeFatigueCluster    = "FATIGUE_CLUSTER"
	CodeHighSpeedEvent    = "HIGH_SPEED_EVENT"
	CodeVehicleRecurrence = "VEHICLE_RECURRENCE"
	CodeNone              = "NONE"
)

// SecurityAlert is the single highest-priority safety alert for the observed
// period. A value object: recomputed in full on every detection, never stored.
type SecurityAlert struct {
	Severity        AlertSeverity `json:"severity"`
	Code            string        `json:"code"`
	Message         string        `json:"message"`
	RelatedOperator string        `json:"related_operator,omitempty"`
	RelatedVehicle  string        `json:"related_vehicle,omitempty"`
	RelatedCount    int           `json:"related_count,omitempty"`
	RelatedDate     string        `json:"related_date,omitempty"`
}

// Detect evaluates the severity-ordered rule cascade over the full event
// stream and returns the first match:
//
//  1. CRITICAL: an operator with three or more fatigue events on one calendar
//     day. The message spans that operator's fatigue and distraction events
//     across the whole period, not just the qualifying day.
//  2. HIGH: the first recognized event (input order) at or above the
//     high-speed threshold with a non-blank vehicle.
//  3. MEDIUM: the first vehicle (first-seen order) accumulating ten or more
//     events of any kind.
//  4. OK: nothing qualified.
//
// Multiple qualifying groups resolve to the first one encountered under the
// grouping's insertion order, not the worst one.
func Detect(events []domain.TelemetryEvent) SecurityAlert {
	if alert, ok := detectFatigueCluster(events); ok {
		return alert
	}
	if alert, ok := detectHighSpeed(events); ok {
		return alert
	}
	if alert, ok := detectVehicleRecurrence(events); ok {
		return alert
	}
	return SecurityAlert{
		Severity: SeverityOK,
		Code:     CodeNone,
		Message:  "No security conditions detected for the period.",
	}
}

// operatorDay keys same-day fatigue grouping.
type operatorDay struct {
	operator string
	day      domain.Day
}

func detectFatigueCluster(events []domain.TelemetryEvent) (SecurityAlert, bool) {
	var keys []operatorDay
	counts := make(map[operatorDay]int)

	for _, ev := range events {
		operator := strings.TrimSpace(ev.OperatorID)
		if operator == "" || ClassifyKind(ev) != KindFatigue {
			continue
		}
		key := operatorDay{operator: operator, day: domain.DayOf(ev.Timestamp)}
		if _, seen := counts[key]; !seen {
			keys = append(keys, key)
		}
		counts[key]++
	}

	for _, key := range keys {
		if counts[key] < fatigueClusterMin {
			continue
		}

		// Describe the critical operator's recognized activity across the
		// whole period, not just the qualifying day.
		var total int
		var first, last domain.Day
		for _, ev := range events {
			if strings.TrimSpace(ev.OperatorID) != key.operator || !recognized(ev) {
				continue
			}
			day := domain.DayOf(ev.Timestamp)
			if total == 0 {
				first, last = day, day
			} else {
				if day.Before(first) {
					first = day
				}
				if day.After(last) {
					last = day
				}
			}
			total++
		}

		dateText := first.String()
		if first != last {
			dateText = first.String() + " to " + last.String()
		}

		return SecurityAlert{
			Severity:        SeverityCritical,
			Code:            CodeFatigueCluster,
			Message:         fmt.Sprintf("Operator %s accumulated %d fatigue/distraction events (%s); at least %d fatigue detections occurred on a single day.", key.operator, total, dateText, counts[key]),
			RelatedOperator: key.operator,
			RelatedCount:    total,
			RelatedDate:     dateText,
		}, true
	}
	return SecurityAlert{}, false
}

func detectHighSpeed(events []domain.TelemetryEvent) (SecurityAlert, bool) {
	for _, ev := range events {
		vehicle := strings.TrimSpace(ev.VehicleID)
		if vehicle == "" || !recognized(ev) || ev.Speed < HighSpeedThreshold {
			continue
		}
		return SecurityAlert{
			Severity:       SeverityHigh,
			Code:           CodeHighSpeedEvent,
			Message:        fmt.Sprintf("Vehicle %s recorded a %s event at %.0f km/h.", vehicle, ClassifyKind(ev), ev.Speed),
			RelatedVehicle: vehicle,
			RelatedCount:   1,
			RelatedDate:    domain.DayOf(ev.Timestamp).String(),
		}, true
	}
	return SecurityAlert{}, false
}

func detectVehicleRecurrence(events []domain.TelemetryEvent) (SecurityAlert, bool) {
	var keys []string
	counts := make(map[string]int)

	for _, ev := range events {
		vehicle := strings.TrimSpace(ev.VehicleID)
		if vehicle == "" {
			continue
		}
		if _, seen := counts[vehicle]; !seen {
			keys = append(keys, vehicle)
		}
		counts[vehicle]++
	}

	for _, vehicle := range keys {
		if counts[vehicle] < vehicleRecurrenceMin {
			continue
		}
		return SecurityAlert{
			Severity:       SeverityMedium,
			Code:           CodeVehicleRecurrence,
			Message:        fmt.Sprintf("Vehicle %s accumulated %d events in the period; schedule an inspection.", vehicle, counts[vehicle]),
			RelatedVehicle: vehicle,
			RelatedCount:   counts[vehicle],
		}, true
	}
	return SecurityAlert{}, false
}
