// Package domain models fleet telemetry safety events.
//
// # Data Source
//
// Safety events originate as ad-hoc spreadsheet exports from in-cab telematics
// vendors (driver-monitoring cameras). The upstream ingestion service maps
// sheet columns to a fixed schema and publishes each row as flat JSON to the
// Kafka source topic. Columns are hand-edited by fleet back offices, so every
// field must be parsed defensively.
//
// # Vendor Conventions
//
// Event codes:
//
//	"D1"  driver fatigue detected (drowsiness)
//	"D3"  driver distraction detected (attention off road)
//
//	Any other code is an auxiliary record (ignition, GPS heartbeat, vendor
//	diagnostics). Auxiliary events still count toward per-vehicle activity
//	totals but are invisible to risk distributions and scores.
//
// Time format:
//
//	"2006-01-02 15:04:05" in the reporting timezone, occasionally RFC3339 in
//	re-ingested fixtures. No timezone normalization is performed; exports are
//	assumed to already carry local reporting time. When the column cannot be
//	parsed the Kafka message timestamp (set by the ingestion service from the
//	sheet date) is used instead.
//
// Speed:
//
//	km/h as a decimal. 0 or a missing/negative value means "not recorded".
//	Speeds at or above 80 km/h mark an event as high-speed for risk factors.
//
// Operator and vehicle identifiers:
//
//	Free-text vendor identifiers, frequently blank on auxiliary rows. Blank
//	identifiers are bucketed as "unknown" by operator/vehicle profiling and
//	excluded from identifier-keyed alert rules.
//
// # ID Generation
//
// Event IDs are deterministic SHA-256 hashes of operator|vehicle|code|time.
// Reprocessing the same raw row produces the same ID, which keeps report
// contents reproducible across replays. See [generateID].
package domain
