// Package risk scores fleet telemetry safety events and raises the single
// highest-priority security alert for an observed period.
//
// # Scoring Model
//
// Each operator (or vehicle) group gets a weighted base score — fatigue
// events count 3, distraction events count 2 — amplified by two bounded
// multipliers:
//
//	speedFactor      = 1 + min(0.5, highSpeedEvents / recognizedEvents)
//	recurrenceFactor = 1 + min(0.5, criticalDays / distinctDays)
//
// where a critical day carries at least three events and distinctDays counts
// the calendar days actually present in the group's subset. The product is
// the raw score.
//
// Raw scores are then normalized against the population: the 95th-percentile
// raw score becomes the 100-point reference and every score is rescaled to
// 0–100 against it. This is a strict two-pass computation — every group
// member's raw score must exist before any member's final score does. The
// normalized score maps to a tier: ≤20 LOW, ≤50 MEDIUM, above that HIGH.
//
// # Alert Cascade
//
// Detect evaluates fixed rules in severity order and reports only the first
// match: a same-day fatigue cluster (CRITICAL), a high-speed recognized
// event (HIGH), a vehicle with heavy recurrence (MEDIUM), otherwise OK.
//
// # Purity
//
// Every function here is synchronous, side-effect-free computation over
// immutable input. Calls allocate fresh intermediates, never mutate their
// arguments, and hold no state between invocations, so identical input
// always yields identical analytic output and concurrent callers need no
// synchronization. Memoization across re-renders is the caller's concern.
package risk
