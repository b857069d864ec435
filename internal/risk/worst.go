package risk

import (
	"sort"
	"strings"

	"github.com/fleetsight/telemetry-risk/internal/domain"
)

// PickWorstEvent selects one representative event for narrative alert text.
// Candidates are fatigue/distraction events carrying both an operator and a
// vehicle; they are ordered by speed descending, then fatigue before
// distraction, then timestamp descending. Returns nil when nothing qualifies.
// Narrative only — scoring never consults this selection.
func PickWorstEvent(events []domain.TelemetryEvent) *domain.TelemetryEvent {
	candidates := make([]domain.TelemetryEvent, 0, len(events))
	for _, ev := range events {
		if !recognized(ev) {
			continue
		}
		if strings.TrimSpace(ev.OperatorID) == "" || strings.TrimSpace(ev.VehicleID) == "" {
			continue
		}
		candidates = append(candidates, ev)
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Speed != b.Speed {
			return a.Speed > b.Speed
		}
		aKind, bKind := ClassifyKind(a), ClassifyKind(b)
		if aKind != bKind {
			return aKind == KindFatigue
		}
		return a.Timestamp.After(b.Timestamp)
	})

	worst := candidates[0]
	return &worst
}
