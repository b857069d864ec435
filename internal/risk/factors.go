package risk

import (
	"github.com/fleetsight/telemetry-risk/internal/domain"
)

// criticalRecurrenceMin is the event count at which a calendar day becomes a
// critical recurrence day for the subset.
const criticalRecurrenceMin = 3

// RiskFactors holds the severity-amplifying signals derived from an event
// subset. DominantSegment is empty when the subset holds no recognized events.
type RiskFactors struct {
	HighSpeedCount       int        `json:"high_speed_count"`
	RecurrenceDays       int        `json:"recurrence_days"`
	DominantSegment      DaySegment `json:"dominant_segment,omitempty"`
	DominantSegmentCount int        `json:"dominant_segment_count"`
}

// ComputeFactors derives risk factors from an event subset:
//
//   - HighSpeedCount: events at or above HighSpeedThreshold, regardless of kind.
//   - RecurrenceDays: distinct calendar days carrying at least three events of
//     any kind. Day grouping uses the full subset as passed in; restricting to
//     recognized kinds is the caller's choice, made upstream.
//   - DominantSegment: the six-hour bucket holding the most fatigue/distraction
//     events. Ties resolve to the earliest segment under forward iteration.
func ComputeFactors(events []domain.TelemetryEvent) RiskFactors {
	var factors RiskFactors

	perDay := make(map[domain.Day]int)
	perSegment := make(map[DaySegment]int, len(daySegments))

	for _, ev := range events {
		if ev.Speed >= HighSpeedThreshold {
			factors.HighSpeedCount++
		}
		perDay[domain.DayOf(ev.Timestamp)]++
		if recognized(ev) {
			perSegment[ClassifySegment(ev.Timestamp)]++
		}
	}

	for _, count := range perDay {
		if count >= criticalRecurrenceMin {
			factors.RecurrenceDays++
		}
	}

	for _, segment := range daySegments {
		if perSegment[segment] > factors.DominantSegmentCount {
			factors.DominantSegment = segment
			factors.DominantSegmentCount = perSegment[segment]
		}
	}

	return factors
}

// distinctDayCount counts the unique calendar days present in the subset.
func distinctDayCount(events []domain.TelemetryEvent) int {
	days := make(map[domain.Day]struct{})
	for _, ev := range events {
		days[domain.DayOf(ev.Timestamp)] = struct{}{}
	}
	return len(days)
}
