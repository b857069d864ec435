package pipeline

import (
	"context"
	"log/slog"

	"github.com/fleetsight/telemetry-risk/internal/domain"
)

// TelemetryTransformer implements Transformer using domain parse functions
// with optional reverse-geocoding enrichment.
type TelemetryTransformer struct {
	geocoder domain.Geocoder
	logger   *slog.Logger
}

// NewTransformer creates a TelemetryTransformer. Pass a nil geocoder to
// disable address backfill.
func NewTransformer(geocoder domain.Geocoder, logger *slog.Logger) *TelemetryTransformer {
	return &TelemetryTransformer{
		geocoder: geocoder,
		logger:   logger,
	}
}

func (t *TelemetryTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.TelemetryEvent, error) {
	event, err := domain.ParseRawEvent(raw)
	if err != nil {
		return domain.TelemetryEvent{}, err
	}

	event = domain.EnrichWithGeocoding(ctx, event, t.geocoder, t.logger)
	event = domain.StampProcessed(event)

	return event, nil
}
