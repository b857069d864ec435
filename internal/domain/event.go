package domain

import (
	"context"
	"time"
)

// RawExportRecord represents the flat JSON row produced by the spreadsheet
// ingestion service. Every column arrives as a string; numeric and timestamp
// columns are parsed leniently downstream because the source sheets are
// hand-edited exports from telematics vendors.
type RawExportRecord struct {
	Time        string `json:"Time"`
	Operator    string `json:"Operator"`
	Vehicle     string `json:"Vehicle"`
	Code        string `json:"Code"` // vendor event code, e.g. "D1" (fatigue), "D3" (distraction)
	Speed       string `json:"Speed"`
	Description string `json:"Description"`
	Address     string `json:"Address"`
	Lat         string `json:"Lat"`
	Lon         string `json:"Lon"`
}

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat,omitempty"`
	Lon float64 `json:"lon,omitempty"`
}

// TelemetryEvent is the domain-rich representation of one safety event after
// parsing. OperatorID, VehicleID, and KindCode may be blank or unrecognized;
// the analytics layer excludes or buckets such events instead of rejecting
// them. Speed 0 means "not recorded".
type TelemetryEvent struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	OperatorID  string    `json:"operator_id,omitempty"`
	VehicleID   string    `json:"vehicle_id,omitempty"`
	KindCode    string    `json:"kind_code,omitempty"`
	Speed       float64   `json:"speed,omitempty"`
	Description string    `json:"description,omitempty"`
	Address     string    `json:"address,omitempty"`
	Geo         Geo       `json:"geo,omitempty"`

	// Geocoding enrichment fields.
	GeoSource string `json:"geo_source,omitempty"` // "reverse", "original", "failed"

	RawPayload  []byte    `json:"-"`
	ProcessedAt time.Time `json:"processed_at"`
}
