package domain

import (
	"context"
	"log/slog"
)

// ElevationProvider looks up terrain elevation (meters) at a geographic point.
type ElevationProvider interface {
	Elevation(ctx context.Context, lat, lon float64) (float64, error)
}

// EnrichWithElevation attempts to attach terrain elevation at the record's
// centroid. Enrichment is best-effort: a nil provider or a lookup failure
// leaves the record unchanged (graceful degradation).
func EnrichWithElevation(ctx context.Context, rec CatalogRecord, provider ElevationProvider, logger *slog.Logger) CatalogRecord {
	if provider == nil {
		return rec
	}

	c := rec.Footprint.Centroid
	elevation, err := provider.Elevation(ctx, c.Lat, c.Lon)
	if err != nil {
		logger.Warn("elevation enrichment failed",
			"sample_id", rec.ID,
			"lat", c.Lat,
			"lon", c.Lon,
			"error", err,
		)
		return rec
	}

	rec.ElevationM = &elevation
	return rec
}
