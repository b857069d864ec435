package risk_test

import (
	"time"

	"github.com/fleetsight/telemetry-risk/internal/domain"
)

// at builds a timestamp on the given January 2024 day at the given hour,
// in the reporting timezone (UTC for tests).
func at(day, hour int) time.Time {
	return time.Date(2024, time.January, day, hour, 0, 0, 0, time.UTC)
}

func fatigue(ts time.Time, operator, vehicle string, speed float64) domain.TelemetryEvent {
	return domain.TelemetryEvent{Timestamp: ts, OperatorID: operator, VehicleID: vehicle, KindCode: "D1", Speed: speed}
}

func distraction(ts time.Time, operator, vehicle string, speed float64) domain.TelemetryEvent {
	return domain.TelemetryEvent{Timestamp: ts, OperatorID: operator, VehicleID: vehicle, KindCode: "D3", Speed: speed}
}

func auxiliary(ts time.Time, operator, vehicle string) domain.TelemetryEvent {
	return domain.TelemetryEvent{Timestamp: ts, OperatorID: operator, VehicleID: vehicle, KindCode: "GPS"}
}

// shuffled returns a deterministic reordering of events: reversed, then the
// two halves swapped. Enough to exercise order-invariance without pulling in
// a random source.
func shuffled(events []domain.TelemetryEvent) []domain.TelemetryEvent {
	out := make([]domain.TelemetryEvent, 0, len(events))
	for i := len(events) - 1; i >= 0; i-- {
		out = append(out, events[i])
	}
	mid := len(out) / 2
	return append(append([]domain.TelemetryEvent{}, out[mid:]...), out[:mid]...)
}
