package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fleetsight/telemetry-risk/internal/domain"
)

// loadEvents reads a JSON export file. With raw set, the file holds
// spreadsheet export records and each row is parsed through the same path the
// streaming pipeline uses; rows that fail to parse abort the load so a broken
// export is noticed instead of silently shrinking the analysis.
func loadEvents(path string, raw bool) ([]domain.TelemetryEvent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}

	if !raw {
		var events []domain.TelemetryEvent
		if err := json.Unmarshal(data, &events); err != nil {
			return nil, fmt.Errorf("parse events JSON: %w", err)
		}
		return events, nil
	}

	var records []domain.RawExportRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse raw export JSON: %w", err)
	}

	events := make([]domain.TelemetryEvent, 0, len(records))
	for i, rec := range records {
		payload, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		ev, err := domain.ParseRawEvent(domain.RawEvent{Value: payload})
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		events = append(events, ev)
	}
	return events, nil
}
