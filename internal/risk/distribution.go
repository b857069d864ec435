package risk

import (
	"math"

	"github.com/fleetsight/telemetry-risk/internal/domain"
)

// EventDistribution holds counts of recognized safety events and their
// derived percentages. Percentages carry one decimal place and sum to 100
// (within rounding tolerance) whenever Total is positive; both are 0 when
// the subset holds no recognized events.
type EventDistribution struct {
	FatigueCount     int     `json:"fatigue_count"`
	DistractionCount int     `json:"distraction_count"`
	Total            int     `json:"total"`
	FatiguePct       float64 `json:"fatigue_pct"`
	DistractionPct   float64 `json:"distraction_pct"`
}

// CountDistribution tallies fatigue and distraction events in the subset.
// Unrecognized kinds are invisible here. Pure and order-independent: the
// result depends only on counts.
func CountDistribution(events []domain.TelemetryEvent) EventDistribution {
	var dist EventDistribution
	for _, ev := range events {
		switch ClassifyKind(ev) {
		case KindFatigue:
			dist.FatigueCount++
		case KindDistraction:
			dist.DistractionCount++
		}
	}
	dist.Total = dist.FatigueCount + dist.DistractionCount
	if dist.Total > 0 {
		dist.FatiguePct = percentage(dist.FatigueCount, dist.Total)
		dist.DistractionPct = percentage(dist.DistractionCount, dist.Total)
	}
	return dist
}

// percentage computes count/total as a percentage rounded to one decimal.
func percentage(count, total int) float64 {
	return math.Round(float64(count)/float64(total)*1000) / 10
}
