package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// timestampLayouts are tried in order when parsing the Time column. Vendor
// exports mostly use the space-separated form; re-ingested fixtures use RFC3339.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
}

// ParseRawEvent deserializes a RawEvent's value into a TelemetryEvent.
// It expects the flat JSON row produced by the spreadsheet ingestion service.
// Only a JSON-level failure is an error; malformed individual columns degrade
// to zero values so that dirty rows still flow through the analytics layer.
func ParseRawEvent(raw RawEvent) (TelemetryEvent, error) {
	var rec RawExportRecord
	if err := json.Unmarshal(raw.Value, &rec); err != nil {
		return TelemetryEvent{}, fmt.Errorf("parse raw event: %w", err)
	}

	timestamp := parseTimestamp(rec.Time, raw.Timestamp)
	speed := parseSpeed(rec.Speed)
	lat := parseFloatOrZero(rec.Lat)
	lon := parseFloatOrZero(rec.Lon)

	return TelemetryEvent{
		ID:          generateID(rec.Operator, rec.Vehicle, rec.Code, rec.Time, speed),
		Timestamp:   timestamp,
		OperatorID:  strings.TrimSpace(rec.Operator),
		VehicleID:   strings.TrimSpace(rec.Vehicle),
		KindCode:    strings.TrimSpace(rec.Code),
		Speed:       speed,
		Description: strings.TrimSpace(rec.Description),
		Address:     strings.TrimSpace(rec.Address),
		Geo:         Geo{Lat: lat, Lon: lon},

		RawPayload: raw.Value,
	}, nil
}

// StampProcessed records when the event passed through the pipeline. Split
// from ParseRawEvent so fixture generation can parse without touching the clock.
func StampProcessed(event TelemetryEvent) TelemetryEvent {
	event.ProcessedAt = clock.Now()
	return event
}

// parseTimestamp tries the known vendor layouts; if none match, the message
// timestamp (set by the ingestion service from the export's sheet date) is used.
func parseTimestamp(value string, fallback time.Time) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return fallback
}

// parseSpeed parses the speed column, clamping negatives to 0 ("not recorded").
func parseSpeed(s string) float64 {
	v := parseFloatOrZero(s)
	if v < 0 {
		return 0
	}
	return v
}

// parseFloatOrZero parses a string as float64, returning 0 on failure.
func parseFloatOrZero(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// generateID produces a deterministic ID from the event's key fields.
// Deterministic IDs make report keys reproducible across replays — reprocessing
// the same raw row yields the same ID.
func generateID(operator, vehicle, code, timeStr string, speed float64) string {
	input := fmt.Sprintf("%s|%s|%s|%s|%g", operator, vehicle, code, timeStr, speed)
	hash := sha256.Sum256([]byte(input))
	short := hex.EncodeToString(hash[:8])
	code = strings.TrimSpace(strings.ToLower(code))
	if code == "" {
		return short
	}
	return code + "-" + short
}
