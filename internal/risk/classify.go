package risk

import (
	"strings"
	"time"

	"github.com/fleetsight/telemetry-risk/internal/domain"
)

// Vendor code literals for the two recognized safety-event kinds.
const (
	codeFatigue     = "D1"
	codeDistraction = "D3"
)

// HighSpeedThreshold is the km/h policy cutoff above which an event counts as
// high-speed for risk factors and alerting.
const HighSpeedThreshold = 80.0

// EventKind classifies an event's vendor code.
type EventKind string

const (
	KindFatigue     EventKind = "fatigue"
	KindDistraction EventKind = "distraction"
	KindOther       EventKind = "other"
)

// ClassifyKind maps a vendor event code to a recognized kind. Codes are
// trimmed before comparison; anything but the two recognized literals
// (including a blank code) is KindOther and is excluded from distributions,
// factors, and scores.
func ClassifyKind(event domain.TelemetryEvent) EventKind {
	switch strings.TrimSpace(event.KindCode) {
	case codeFatigue:
		return KindFatigue
	case codeDistraction:
		return KindDistraction
	default:
		return KindOther
	}
}

// DaySegment is one of four fixed six-hour buckets of the day, used for
// factor extraction and visualization, not as a scoring category.
type DaySegment string

const (
	SegmentNight     DaySegment = "00-06"
	SegmentMorning   DaySegment = "06-12"
	SegmentAfternoon DaySegment = "12-18"
	SegmentEvening   DaySegment = "18-24"
)

// daySegments lists the segments in fixed iteration order. Tie-breaks in
// dominant-segment selection depend on this order staying stable.
var daySegments = [4]DaySegment{SegmentNight, SegmentMorning, SegmentAfternoon, SegmentEvening}

// ClassifySegment buckets a timestamp's hour into the half-open ranges
// [0,6), [6,12), [12,18), [18,24). No timezone normalization is performed;
// timestamps are assumed to already be in the reporting timezone.
func ClassifySegment(t time.Time) DaySegment {
	return daySegments[t.Hour()/6]
}

// recognized reports whether the event counts toward distributions and scores.
func recognized(event domain.TelemetryEvent) bool {
	return ClassifyKind(event) != KindOther
}
