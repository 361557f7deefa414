package domain

import (
	"time"
)

// Sensor identifies the geostationary platform a sample was acquired by.
type Sensor string

const (
	SensorGOES     Sensor = "GOES"
	SensorHimawari Sensor = "Himawari"
	SensorMSG      Sensor = "MSG"
)

// Split is the train/validation/test partition label assigned by acquisition date.
type Split string

const (
	SplitTrain      Split = "train"
	SplitValidation Split = "validation"
	SplitTest       Split = "test"
)

// FailurePolicy selects how the pipeline reacts to a per-sample hard failure
// (missing raster, missing side-channel record, unparseable timestamp).
type FailurePolicy string

const (
	// PolicyAbort stops the run on the first hard failure.
	PolicyAbort FailurePolicy = "abort"
	// PolicySkip records the failed identifier and continues.
	PolicySkip FailurePolicy = "skip"
)

// SampleContext is the input descriptor for one sample: a colocated
// satellite-patch / radar-profile pair discovered during enumeration, or a
// bare satellite patch for unpaired pretraining layouts.
// Constructed once per enumeration entry, immutable, consumed exactly once.
type SampleContext struct {
	ID            string
	Dir           string
	PrimaryPath   string // satellite imagery patch
	SecondaryPath string // radar profile, empty for unpaired layouts
	Sensor        Sensor
	IsStorm       bool

	// Unpaired marks single-file pretraining samples: no radar profile and
	// no side-channel record accompany the patch.
	Unpaired bool
}

// Point is a geographic (longitude/latitude, WGS-84) coordinate pair.
type Point struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// GeoFootprint is the spatial/temporal description of a raster, derived from
// its header only (no pixel data).
type GeoFootprint struct {
	CRS       string     `json:"crs"`
	Shape     [3]int     `json:"shape"` // bands, height, width
	Transform [6]float64 `json:"transform"`
	TimeStart int64      `json:"time_start"` // microseconds since the Unix epoch
	TimeEnd   int64      `json:"time_end"`
	Centroid  Point      `json:"centroid"`
}

// StormMetadata carries best-track fields for storm-associated samples,
// read from the sample's side-channel record.
type StormMetadata struct {
	StormID       string  `json:"storm_id"`
	Center        Point   `json:"center"`
	DistKM        float64 `json:"dist_km"`
	DeltaTSeconds float64 `json:"delta_t_seconds"`
}

// CatalogRecord is the output unit: one metadata row per sample, destined
// for the dataset's tabular index. Immutable after construction.
type CatalogRecord struct {
	ID        string       `json:"id"`
	Footprint GeoFootprint `json:"footprint"`

	Sensor  Sensor `json:"sensor"`
	IsStorm bool   `json:"is_storm"`
	Split   Split  `json:"split"`

	// GridCode is the S2 cell token of the centroid, used for spatial grouping.
	GridCode string `json:"grid_code,omitempty"`

	// Provenance identifiers resolved from the side-channel record.
	SatelliteGranuleID string `json:"satellite_granule_id"`
	RadarGranuleID     string `json:"radar_granule_id"`

	// HasFluxData reports whether radiative flux/heating rate data accompanies
	// the radar profile (false when the directory name carries "no_flxhr").
	HasFluxData bool `json:"has_flux_data"`

	Storm      *StormMetadata `json:"storm,omitempty"`
	ElevationM *float64       `json:"elevation_m,omitempty"`

	Valid   bool      `json:"valid"`
	BuiltAt time.Time `json:"built_at"`
}

// SampleFailure pairs an excluded sample identifier with the reason it was
// excluded, for end-of-run reporting.
type SampleFailure struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// RunResult aggregates one batch run: the valid records plus the identifiers
// excluded along the way. Record order is not significant.
type RunResult struct {
	Records []CatalogRecord `json:"records"`
	Dropped []SampleFailure `json:"dropped"` // geometry validation failures (always soft)
	Failed  []SampleFailure `json:"failed"`  // hard failures under PolicySkip
	Total   int             `json:"total"`   // contexts enumerated
}
