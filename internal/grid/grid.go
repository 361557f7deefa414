// Package grid assigns spherical grid codes to catalog records so downstream
// archives can group spatially neighboring samples. Codes are S2 cell tokens
// of the record centroid at a fixed level.
package grid

import (
	"fmt"

	"github.com/golang/geo/s2"

	"github.com/aeriscope/cloudcatalog/internal/domain"
)

// DefaultLevel is S2 level 3: cells roughly 1000 km across, matching the
// grouping granularity used by the upstream dataset tooling.
const DefaultLevel = 3

// MinLevel and MaxLevel bound the configurable cell level.
const (
	MinLevel = 0
	MaxLevel = 30
)

// Coder assigns grid codes at a fixed S2 level.
type Coder struct {
	level int
}

// NewCoder creates a Coder. The level must be within [MinLevel, MaxLevel].
func NewCoder(level int) (*Coder, error) {
	if level < MinLevel || level > MaxLevel {
		return nil, fmt.Errorf("s2 level %d outside [%d, %d]", level, MinLevel, MaxLevel)
	}
	return &Coder{level: level}, nil
}

// Code returns the S2 cell token containing the point. Deterministic: equal
// points always produce equal tokens.
func (c *Coder) Code(p domain.Point) string {
	ll := s2.LatLngFromDegrees(p.Lat, p.Lon)
	return s2.CellIDFromLatLng(ll).Parent(c.level).ToToken()
}
