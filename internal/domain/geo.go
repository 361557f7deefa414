package domain

import (
	"fmt"
	"math"
)

// NormalizeLongitude maps longitudes expressed in the [0, 360) convention
// (used by some best-track archives) into [-180, 180]. Values already in
// range are returned unchanged, so normalization is idempotent.
func NormalizeLongitude(lon float64) float64 {
	if lon > 180 {
		return lon - 360
	}
	return lon
}

// Normalized returns the point with its longitude normalized to [-180, 180].
func (p Point) Normalized() Point {
	return Point{Lon: NormalizeLongitude(p.Lon), Lat: p.Lat}
}

// ValidatePoint checks that a centroid is a well-formed, non-degenerate
// geographic point: both coordinates finite and inside the WGS-84 envelope.
// Reprojection of geostationary full-disk edges can produce ±Inf, which must
// drop the sample rather than poison the catalog.
func ValidatePoint(p Point) error {
	if math.IsNaN(p.Lon) || math.IsNaN(p.Lat) {
		return fmt.Errorf("centroid has NaN coordinate (lon=%v lat=%v)", p.Lon, p.Lat)
	}
	if math.IsInf(p.Lon, 0) || math.IsInf(p.Lat, 0) {
		return fmt.Errorf("centroid has infinite coordinate (lon=%v lat=%v)", p.Lon, p.Lat)
	}
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("centroid latitude %v outside [-90, 90]", p.Lat)
	}
	if p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("centroid longitude %v outside [-180, 180]", p.Lon)
	}
	return nil
}

// Bounds is an axis-aligned box in geographic coordinates.
type Bounds struct {
	MinLon float64
	MinLat float64
	MaxLon float64
	MaxLat float64
}

// Midpoint returns the center of the bounds. No longitude normalization is
// applied here; callers normalize the resulting point.
func (b Bounds) Midpoint() Point {
	return Point{
		Lon: (b.MinLon + b.MaxLon) / 2,
		Lat: (b.MinLat + b.MaxLat) / 2,
	}
}
