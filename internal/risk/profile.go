package risk

import (
	"sort"
	"strings"

	"github.com/fleetsight/telemetry-risk/internal/domain"
)

// UnknownEntityID is the bucket for events whose operator or vehicle
// identifier is blank. Such events still contribute a profile instead of
// being dropped.
const UnknownEntityID = "unknown"

// EntityRiskProfile is the per-operator or per-vehicle risk summary consumed
// by dashboards and report builders. TotalEvents counts every event in the
// group, including unrecognized kinds; Distribution and Score see only
// recognized ones.
type EntityRiskProfile struct {
	EntityID     string            `json:"entity_id"`
	TotalEvents  int               `json:"total_events"`
	Distribution EventDistribution `json:"distribution"`
	Factors      RiskFactors       `json:"factors"`
	Score        RiskScore         `json:"score"`
}

// OperatorProfiles groups events by operator and scores each group against
// the operator population. Results are ordered by descending normalized
// score; ties keep first-seen group order, so repeated calls on identical
// input return identical order.
func OperatorProfiles(events []domain.TelemetryEvent) []EntityRiskProfile {
	return entityProfiles(events, func(ev domain.TelemetryEvent) string { return ev.OperatorID })
}

// VehicleProfiles groups events by vehicle and scores each group against the
// vehicle population, with the same ordering guarantees as OperatorProfiles.
func VehicleProfiles(events []domain.TelemetryEvent) []EntityRiskProfile {
	return entityProfiles(events, func(ev domain.TelemetryEvent) string { return ev.VehicleID })
}

// entityProfiles runs the full per-entity computation: insertion-ordered
// grouping, per-group distribution/factors/raw score, then the single
// population-normalization pass across every group.
func entityProfiles(events []domain.TelemetryEvent, keyOf func(domain.TelemetryEvent) string) []EntityRiskProfile {
	keys, groups := groupByEntity(events, keyOf)
	if len(keys) == 0 {
		return []EntityRiskProfile{}
	}

	profiles := make([]EntityRiskProfile, len(keys))
	scores := make([]*RiskScore, len(keys))
	for i, key := range keys {
		group := groups[key]
		dist := CountDistribution(group)
		factors := ComputeFactors(group)
		profiles[i] = EntityRiskProfile{
			EntityID:     key,
			TotalEvents:  len(group),
			Distribution: dist,
			Factors:      factors,
			Score:        ComputeScore(dist, factors, group),
		}
		scores[i] = &profiles[i].Score
	}

	NormalizeScores(scores)

	sort.SliceStable(profiles, func(i, j int) bool {
		return profiles[i].Score.NormalizedScore > profiles[j].Score.NormalizedScore
	})
	return profiles
}

// groupByEntity buckets events by trimmed key, mapping blanks to
// UnknownEntityID. The returned key slice preserves first-seen order, which
// is what makes tie-breaks deterministic without a secondary sort key.
func groupByEntity(events []domain.TelemetryEvent, keyOf func(domain.TelemetryEvent) string) ([]string, map[string][]domain.TelemetryEvent) {
	var keys []string
	groups := make(map[string][]domain.TelemetryEvent)
	for _, ev := range events {
		key := strings.TrimSpace(keyOf(ev))
		if key == "" {
			key = UnknownEntityID
		}
		if _, seen := groups[key]; !seen {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], ev)
	}
	return keys, groups
}
