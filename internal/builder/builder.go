// Package builder constructs one CatalogRecord per SampleContext: raster
// header extraction, centroid derivation, timestamp resolution, split
// assignment, and provenance lookup. Geometry problems produce a skip
// outcome; everything else that goes wrong is a hard failure for the
// configured failure policy to judge.
package builder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aeriscope/cloudcatalog/internal/domain"
	"github.com/aeriscope/cloudcatalog/internal/grid"
	"github.com/aeriscope/cloudcatalog/internal/raster"
)

// Builder turns sample contexts into catalog records. Safe for concurrent
// use: all fields are set at construction and never mutated.
type Builder struct {
	headers  raster.HeaderReader
	coder    *grid.Coder
	splitLoc *time.Location
	logger   *slog.Logger
}

// New creates a Builder. splitLoc selects the timezone whose calendar day
// drives split assignment; nil means UTC.
func New(headers raster.HeaderReader, coder *grid.Coder, splitLoc *time.Location, logger *slog.Logger) *Builder {
	if splitLoc == nil {
		splitLoc = time.UTC
	}
	return &Builder{
		headers:  headers,
		coder:    coder,
		splitLoc: splitLoc,
		logger:   logger,
	}
}

// Build constructs the record for one sample.
func (b *Builder) Build(ctx context.Context, sc domain.SampleContext) domain.BuildOutcome {
	prof, err := domain.ProfileFor(sc.Sensor)
	if err != nil {
		return domain.FatalOutcome(fmt.Errorf("%s: %w", sc.ID, err))
	}

	header, err := b.headers.ReadHeader(ctx, sc.PrimaryPath)
	if err != nil {
		return domain.FatalOutcome(fmt.Errorf("%s: read satellite patch: %w", sc.ID, err))
	}

	if sc.SecondaryPath != "" {
		if err := checkNonEmptyFile(sc.SecondaryPath); err != nil {
			return domain.FatalOutcome(fmt.Errorf("%s: radar profile: %w", sc.ID, err))
		}
	}

	// Unpaired pretraining samples carry no side-channel record; a zero-value
	// sidecar lets the timestamp chain fall through to the tag and identifier
	// sources.
	var sidecar domain.Sidecar
	if !sc.Unpaired {
		sidecar, err = domain.LoadSidecar(sc.Dir)
		if err != nil {
			return domain.FatalOutcome(fmt.Errorf("%s: %w", sc.ID, err))
		}
	}

	timeMicro, err := b.resolveTimestamp(prof, sc, header, sidecar)
	if err != nil {
		return domain.FatalOutcome(fmt.Errorf("%s: %w", sc.ID, err))
	}

	centroid := b.resolveCentroid(sc, header, sidecar)
	if err := domain.ValidatePoint(centroid); err != nil {
		b.logger.Warn("dropping sample with invalid centroid",
			"sample", sc.ID, "reason", err.Error())
		return domain.SkipOutcome(sc.ID, err.Error())
	}

	satelliteID, radarID := sc.ID, ""
	if !sc.Unpaired {
		satelliteID, radarID, err = sidecar.GranuleIDs(sc.Sensor, sc.ID)
		if err != nil {
			return domain.FatalOutcome(fmt.Errorf("%s: %w", sc.ID, err))
		}
	}

	crs := header.CRS
	if crs == "" {
		crs = prof.FallbackCRS
	}

	rec := domain.CatalogRecord{
		ID: sc.ID,
		Footprint: domain.GeoFootprint{
			CRS:       crs,
			Shape:     [3]int{header.Bands, header.Height, header.Width},
			Transform: header.Transform,
			TimeStart: timeMicro,
			TimeEnd:   timeMicro,
			Centroid:  centroid,
		},
		Sensor:             sc.Sensor,
		IsStorm:            sc.IsStorm,
		Split:              domain.AssignSplit(timeMicro, b.splitLoc),
		SatelliteGranuleID: satelliteID,
		RadarGranuleID:     radarID,
		HasFluxData:        domain.HasFluxData(sc.ID),
		Valid:              true,
		BuiltAt:            domain.Now(),
	}
	if b.coder != nil {
		rec.GridCode = b.coder.Code(centroid)
	}
	if sc.IsStorm {
		if center, ok := sidecar.StormCenter(); ok {
			rec.Storm = &domain.StormMetadata{
				StormID:       sidecar.Attributes.StormID,
				Center:        center,
				DistKM:        sidecar.DistKM(),
				DeltaTSeconds: sidecar.DeltaTSeconds(),
			}
		}
	}
	return domain.SuccessOutcome(rec)
}

// resolveTimestamp tries the profile's sources in order; the first that
// yields a value wins. Only when every source comes up empty is the sample
// a hard failure.
func (b *Builder) resolveTimestamp(prof domain.Profile, sc domain.SampleContext, header raster.Header, sidecar domain.Sidecar) (int64, error) {
	var lastErr error
	for _, src := range prof.TimestampSources {
		switch src {
		case domain.TimestampFromTag:
			tag, ok := header.Tags[domain.AcquisitionTimeTag]
			if !ok || tag == "" {
				continue
			}
			ts, err := domain.ParseTimestamp(tag)
			if err != nil {
				lastErr = err
				continue
			}
			return ts, nil

		case domain.TimestampFromID:
			ts, err := prof.TimestampFromIdentifier(sc.ID)
			if err != nil {
				lastErr = err
				continue
			}
			return ts, nil

		case domain.TimestampFromSidecar:
			start := sidecar.Attributes.Start
			if start == "" {
				continue
			}
			ts, err := domain.ParseTimestamp(start)
			if err != nil {
				lastErr = err
				continue
			}
			return ts, nil
		}
	}
	if lastErr != nil {
		return 0, fmt.Errorf("no usable acquisition timestamp: %w", lastErr)
	}
	return 0, fmt.Errorf("no usable acquisition timestamp")
}

// resolveCentroid picks the storm center when the sample is storm-associated
// and the side-channel record carries one; otherwise the midpoint of the
// reprojected raster bounds. Either way the longitude is normalized.
func (b *Builder) resolveCentroid(sc domain.SampleContext, header raster.Header, sidecar domain.Sidecar) domain.Point {
	if sc.IsStorm {
		if center, ok := sidecar.StormCenter(); ok {
			return center
		}
	}
	return header.GeoBounds.Midpoint().Normalized()
}

func checkNonEmptyFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("%s is empty", path)
	}
	return nil
}
