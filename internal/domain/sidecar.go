package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrSidecarMissing marks a sample directory without a side-channel record.
// The auxiliary identifiers are mandatory provenance, so this is a hard
// failure, never a soft skip.
var ErrSidecarMissing = errors.New("no *_global.json side-channel record")

// SidecarAttributes is the "attributes" mapping of a per-sample side-channel
// JSON record. Field presence varies by sensor and dataset variant.
type SidecarAttributes struct {
	SatelliteFilename string `json:"satellite_filename"`
	CloudsatFilename  string `json:"cloudsat_filename"`
	GOESID            string `json:"goes_id"`
	HimawariID        string `json:"himawari_id"`
	CloudsatID        string `json:"cloudsat_id"`
	Start             string `json:"start"`

	// Best-track storm fields (IBTrACS naming).
	StormID      string   `json:"SID"`
	CenterLat    *float64 `json:"LAT"`
	CenterLon    *float64 `json:"LON"`
	DistKM       *float64 `json:"dist_km"`
	AbsDeltaTSec *float64 `json:"abs_delta_t_s"`
	DeltaTSec    *float64 `json:"delta_t"`
}

// Sidecar is one side-channel record.
type Sidecar struct {
	Attributes SidecarAttributes `json:"attributes"`
}

// LoadSidecar reads the *_global.json record co-located with a sample's
// raster files. Exactly one is expected; when several match, the
// lexicographically first is used for determinism.
func LoadSidecar(dir string) (Sidecar, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*_global.json"))
	if err != nil {
		return Sidecar{}, fmt.Errorf("glob side-channel record in %s: %w", dir, err)
	}
	if len(matches) == 0 {
		return Sidecar{}, fmt.Errorf("%s: %w", dir, ErrSidecarMissing)
	}
	sort.Strings(matches)

	data, err := os.ReadFile(matches[0])
	if err != nil {
		return Sidecar{}, fmt.Errorf("read side-channel record: %w", err)
	}
	var sc Sidecar
	if err := json.Unmarshal(data, &sc); err != nil {
		return Sidecar{}, fmt.Errorf("parse side-channel record %s: %w", matches[0], err)
	}
	return sc, nil
}

// GranuleIDs resolves the originating satellite and radar granule identifiers.
// Filename stems take precedence; sensor-specific ID fields are the fallback,
// and the sample identifier is the last resort for the satellite side.
// A radar granule that cannot be resolved is an error: provenance is mandatory.
func (s Sidecar) GranuleIDs(sensor Sensor, sampleID string) (satellite, radar string, err error) {
	a := s.Attributes

	satellite = stem(a.SatelliteFilename)
	if satellite == "" {
		switch sensor {
		case SensorGOES:
			satellite = a.GOESID
		case SensorHimawari:
			satellite = a.HimawariID
		}
	}
	if satellite == "" {
		satellite = sampleID
	}

	radar = stem(a.CloudsatFilename)
	if radar == "" {
		radar = a.CloudsatID
	}
	if radar == "" {
		return "", "", fmt.Errorf("side-channel record has no radar granule identifier")
	}
	return satellite, radar, nil
}

// StormCenter returns the best-track storm center, normalized to [-180, 180]
// longitude, and whether the record carries one.
func (s Sidecar) StormCenter() (Point, bool) {
	a := s.Attributes
	if a.CenterLat == nil || a.CenterLon == nil {
		return Point{}, false
	}
	return Point{Lon: *a.CenterLon, Lat: *a.CenterLat}.Normalized(), true
}

// DeltaTSeconds returns the absolute temporal offset between the satellite
// and radar acquisitions. Older records carry a signed delta_t instead of
// abs_delta_t_s.
func (s Sidecar) DeltaTSeconds() float64 {
	a := s.Attributes
	if a.AbsDeltaTSec != nil {
		return math.Abs(*a.AbsDeltaTSec)
	}
	if a.DeltaTSec != nil {
		return math.Abs(*a.DeltaTSec)
	}
	return 0
}

// DistKM returns the distance from patch center to storm center, or 0.
func (s Sidecar) DistKM() float64 {
	if s.Attributes.DistKM == nil {
		return 0
	}
	return *s.Attributes.DistKM
}

// stem strips the directory and extension from a filename, mirroring the
// granule IDs recorded upstream.
func stem(path string) string {
	if path == "" {
		return ""
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
