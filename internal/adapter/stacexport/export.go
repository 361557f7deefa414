// Package stacexport writes a finished run to disk as a STAC ItemCollection
// plus a machine-readable run report alongside it.
package stacexport

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/planetlabs/go-stac"

	"github.com/aeriscope/cloudcatalog/internal/domain"
)

const stacVersion = "1.0.0"

// ItemCollection is a GeoJSON FeatureCollection of STAC items, the standard
// static-catalog container for item lists.
type ItemCollection struct {
	Type           string       `json:"type"` // "FeatureCollection"
	Features       []*stac.Item `json:"features"`
	NumberReturned int          `json:"numberReturned"`
}

// Report summarizes one run for operators: totals plus the identifiers that
// did not make it into the catalog and why.
type Report struct {
	Total       int                    `json:"total"`
	Built       int                    `json:"built"`
	Dropped     []domain.SampleFailure `json:"dropped"`
	Failed      []domain.SampleFailure `json:"failed"`
	GeneratedAt time.Time              `json:"generated_at"`
}

// Exporter writes run results as a STAC catalog file.
type Exporter struct {
	collectionID string
	outputPath   string
	logger       *slog.Logger
}

// NewExporter creates an Exporter. The report lands at outputPath with a
// ".report.json" suffix appended.
func NewExporter(collectionID, outputPath string, logger *slog.Logger) *Exporter {
	return &Exporter{
		collectionID: collectionID,
		outputPath:   outputPath,
		logger:       logger,
	}
}

// Export writes the catalog and its report. Records are sorted by ID so the
// output is byte-stable across runs over unchanged input.
func (e *Exporter) Export(result domain.RunResult) error {
	records := make([]domain.CatalogRecord, len(result.Records))
	copy(records, result.Records)
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })

	items := make([]*stac.Item, 0, len(records))
	for _, rec := range records {
		items = append(items, ItemFromRecord(rec, e.collectionID))
	}

	collection := ItemCollection{
		Type:           "FeatureCollection",
		Features:       items,
		NumberReturned: len(items),
	}
	if err := writeJSONFile(e.outputPath, collection); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}

	report := Report{
		Total:       result.Total,
		Built:       len(records),
		Dropped:     result.Dropped,
		Failed:      result.Failed,
		GeneratedAt: domain.Now().UTC(),
	}
	reportPath := e.outputPath + ".report.json"
	if err := writeJSONFile(reportPath, report); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	e.logger.Info("catalog exported",
		"path", e.outputPath,
		"report", reportPath,
		"items", len(items),
	)
	return nil
}

// ItemFromRecord converts one catalog record into a STAC item. The footprint
// centroid becomes the item geometry; raster and provenance fields land in
// namespaced properties.
func ItemFromRecord(rec domain.CatalogRecord, collectionID string) *stac.Item {
	c := rec.Footprint.Centroid

	item := &stac.Item{
		Version:    stacVersion,
		Id:         rec.ID,
		Collection: collectionID,
		Geometry: map[string]any{
			"type":        "Point",
			"coordinates": []float64{c.Lon, c.Lat},
		},
		Bbox:       []float64{c.Lon, c.Lat, c.Lon, c.Lat},
		Properties: make(map[string]any),
		Assets:     make(map[string]*stac.Asset),
		Links:      make([]*stac.Link, 0),
	}

	item.Properties["datetime"] = time.UnixMicro(rec.Footprint.TimeStart).UTC().Format(time.RFC3339Nano)
	item.Properties["platform"] = string(rec.Sensor)
	item.Properties["proj:wkt2"] = rec.Footprint.CRS

	item.Properties["catalog:split"] = string(rec.Split)
	item.Properties["catalog:is_storm"] = rec.IsStorm
	item.Properties["catalog:grid_code"] = rec.GridCode
	item.Properties["catalog:satellite_granule_id"] = rec.SatelliteGranuleID
	// Unpaired pretraining samples have no radar granule; the property is
	// omitted rather than written empty.
	if rec.RadarGranuleID != "" {
		item.Properties["catalog:radar_granule_id"] = rec.RadarGranuleID
	}
	item.Properties["catalog:has_flux_data"] = rec.HasFluxData
	item.Properties["catalog:shape"] = rec.Footprint.Shape
	item.Properties["catalog:transform"] = rec.Footprint.Transform
	item.Properties["catalog:time_start_us"] = rec.Footprint.TimeStart
	item.Properties["catalog:time_end_us"] = rec.Footprint.TimeEnd

	if rec.Storm != nil {
		item.Properties["storm:id"] = rec.Storm.StormID
		item.Properties["storm:center_lon"] = rec.Storm.Center.Lon
		item.Properties["storm:center_lat"] = rec.Storm.Center.Lat
		item.Properties["storm:dist_km"] = rec.Storm.DistKM
		item.Properties["storm:delta_t_seconds"] = rec.Storm.DeltaTSeconds
	}
	if rec.ElevationM != nil {
		item.Properties["catalog:elevation_m"] = *rec.ElevationM
	}
	return item
}

func writeJSONFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
