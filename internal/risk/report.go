package risk

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fleetsight/telemetry-risk/internal/domain"
)

// Report bundles everything downstream consumers (dashboard panels, report
// builders) read for one analysis window. The analytic fields are a pure
// function of the input events; only ID and GeneratedAt vary between calls.
type Report struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`

	TotalEvents      int                 `json:"total_events"`
	RecognizedEvents int                 `json:"recognized_events"`
	Distribution     EventDistribution   `json:"distribution"`
	OperatorProfiles []EntityRiskProfile `json:"operator_profiles"`
	VehicleProfiles  []EntityRiskProfile `json:"vehicle_profiles"`
	Alert            SecurityAlert       `json:"alert"`

	WorstEvent *domain.TelemetryEvent `json:"worst_event,omitempty"`
	Narrative  string                 `json:"narrative,omitempty"`
}

// BuildReport runs the full engine over one event window: fleet-wide
// distribution, operator and vehicle profiles, the alert cascade, and the
// worst-event narrative. The input is never mutated and no state survives
// the call.
func BuildReport(events []domain.TelemetryEvent) *Report {
	dist := CountDistribution(events)
	worst := PickWorstEvent(events)

	return &Report{
		ID:          uuid.NewString(),
		GeneratedAt: domain.Clock().Now(),

		TotalEvents:      len(events),
		RecognizedEvents: dist.Total,
		Distribution:     dist,
		OperatorProfiles: OperatorProfiles(events),
		VehicleProfiles:  VehicleProfiles(events),
		Alert:            Detect(events),

		WorstEvent: worst,
		Narrative:  narrative(worst),
	}
}

// narrative renders a single human-readable line about the worst event.
func narrative(worst *domain.TelemetryEvent) string {
	if worst == nil {
		return ""
	}
	text := fmt.Sprintf("Most severe event: %s by operator %s in vehicle %s on %s",
		ClassifyKind(*worst), worst.OperatorID, worst.VehicleID,
		worst.Timestamp.Format("2006-01-02 15:04"))
	if worst.Speed > 0 {
		text += fmt.Sprintf(" at %.0f km/h", worst.Speed)
	}
	if worst.Address != "" {
		text += " near " + worst.Address
	}
	return text + "."
}
