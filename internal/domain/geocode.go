package domain

import (
	"context"
	"log/slog"
)

// EnrichWithGeocoding attempts to fill a blank event address from its
// coordinates. If geocoder is nil, the address is already present, or the
// lookup fails, the event is returned with GeoSource set accordingly
// (graceful degradation; the analytics layer never depends on the address).
func EnrichWithGeocoding(ctx context.Context, event TelemetryEvent, geocoder Geocoder, logger *slog.Logger) TelemetryEvent {
	if geocoder == nil {
		return event
	}

	hasCoords := event.Geo.Lat != 0 || event.Geo.Lon != 0
	if event.Address != "" || !hasCoords {
		event.GeoSource = "original"
		return event
	}

	result, err := geocoder.ReverseGeocode(ctx, event.Geo.Lat, event.Geo.Lon)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"event_id", event.ID,
			"lat", event.Geo.Lat,
			"lon", event.Geo.Lon,
			"error", err,
		)
		event.GeoSource = "failed"
		return event
	}
	if result.FormattedAddress == "" {
		event.GeoSource = "original"
		return event
	}

	event.Address = result.FormattedAddress
	event.GeoSource = "reverse"
	return event
}
