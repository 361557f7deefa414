package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// TimestampSource names one place a sample's acquisition timestamp may come
// from. A profile lists its sources in trial order; the first that yields a
// value wins.
type TimestampSource int

const (
	// TimestampFromTag reads the raster's embedded acquisition_time tag.
	TimestampFromTag TimestampSource = iota
	// TimestampFromID parses fixed-width date fields out of the sample identifier.
	TimestampFromID
	// TimestampFromSidecar reads the "start" attribute of the side-channel record.
	TimestampFromSidecar
)

// Profile parameterizes the Record Builder for one satellite platform:
// file layout, timestamp extraction strategy, and projection default.
// One table entry per sensor replaces per-sensor builder copies.
type Profile struct {
	Sensor        Sensor
	PrimaryFile   string // satellite imagery patch filename inside a sample dir
	SecondaryFile string // radar profile filename, empty for unpaired layouts

	// TimestampSources in trial order. Must be non-empty: a sensor with no
	// timestamp source is a configuration error, not a per-sample failure.
	TimestampSources []TimestampSource

	// FallbackCRS is recorded in the footprint when the raster header carries
	// no projection of its own (fixed geostationary PROJ strings).
	FallbackCRS string

	// idTimePattern captures the date fields embedded in sample identifiers.
	idTimePattern *regexp.Regexp
}

const (
	goesCRS     = "+proj=geos +h=35786023 +a=6378137 +b=6356752.31414 +f=0.00335281066474748 +lat_0=0 +lon_0=-75 +sweep=x +no_defs"
	himawariCRS = "+proj=geos +h=35786023 +a=6378137 +b=6356752.31414 +f=0.00335281066474748 +lat_0=0 +lon_0=140.7 +sweep=y +no_defs"
)

var profiles = map[Sensor]Profile{
	SensorGOES: {
		Sensor:           SensorGOES,
		PrimaryFile:      "geo_patch.tif",
		SecondaryFile:    "cloudsat_aligned.tif",
		TimestampSources: []TimestampSource{TimestampFromSidecar, TimestampFromTag},
		FallbackCRS:      goesCRS,
	},
	SensorHimawari: {
		Sensor:           SensorHimawari,
		PrimaryFile:      "geo_patch.tif",
		SecondaryFile:    "cloudsat_aligned.tif",
		TimestampSources: []TimestampSource{TimestampFromTag, TimestampFromID, TimestampFromSidecar},
		FallbackCRS:      himawariCRS,
		// "H08_20150707_0200_CS_..." or bare "20150707_..." for cyclone scans.
		idTimePattern: regexp.MustCompile(`^(?:H\d{2}_)?(\d{8})(?:_(\d{4}))?(?:_|$)`),
	},
	SensorMSG: {
		Sensor:           SensorMSG,
		PrimaryFile:      "geo_patch.tif",
		SecondaryFile:    "cloudsat_aligned.tif",
		TimestampSources: []TimestampSource{TimestampFromID, TimestampFromTag},
		// "MSG1_20060613001240_CS_..."
		idTimePattern: regexp.MustCompile(`^MSG\d+_(\d{14})(?:_|$)`),
	},
}

// ProfileFor returns the builder profile for a sensor.
func ProfileFor(s Sensor) (Profile, error) {
	p, ok := profiles[s]
	if !ok {
		return Profile{}, fmt.Errorf("no profile for sensor %q", s)
	}
	return p, nil
}

// ValidateProfiles checks the static profile table at startup. A profile with
// no timestamp source, or an ID source without a pattern, is a fatal
// configuration error.
func ValidateProfiles() error {
	for sensor, p := range profiles {
		if len(p.TimestampSources) == 0 {
			return fmt.Errorf("sensor %s: no timestamp source configured", sensor)
		}
		for _, src := range p.TimestampSources {
			if src == TimestampFromID && p.idTimePattern == nil {
				return fmt.Errorf("sensor %s: identifier timestamp source without pattern", sensor)
			}
		}
		if p.PrimaryFile == "" {
			return fmt.Errorf("sensor %s: no primary file configured", sensor)
		}
	}
	return nil
}

// TimestampFromIdentifier extracts the acquisition timestamp embedded in a
// sample identifier, per the sensor's naming convention.
func (p Profile) TimestampFromIdentifier(id string) (int64, error) {
	if p.idTimePattern == nil {
		return 0, fmt.Errorf("sensor %s does not encode timestamps in identifiers", p.Sensor)
	}
	m := p.idTimePattern.FindStringSubmatch(id)
	if m == nil {
		return 0, fmt.Errorf("cannot parse timestamp from identifier %q", id)
	}
	return parseCompactTimestamp(strings.Join(m[1:], ""))
}

// Directory-name conventions for sensor detection during enumeration.
var (
	goesDirPattern     = regexp.MustCompile(`^G16_`)
	msgDirPattern      = regexp.MustCompile(`^MSG\d+_`)
	himawariDirPattern = regexp.MustCompile(`^(?:H\d{2}_|\d{8}_)`)
)

// DetectSensor infers the satellite platform from a sample directory name.
// A name matching no known convention is a hard enumeration error.
func DetectSensor(name string) (Sensor, error) {
	switch {
	case goesDirPattern.MatchString(name):
		return SensorGOES, nil
	case msgDirPattern.MatchString(name):
		return SensorMSG, nil
	case himawariDirPattern.MatchString(name):
		return SensorHimawari, nil
	default:
		return "", fmt.Errorf("unknown sample directory pattern: %q", name)
	}
}

// HasFluxData reports whether the sample carries radiative flux/heating rate
// data, encoded in the directory naming convention.
func HasFluxData(name string) bool {
	return !strings.Contains(name, "no_flxhr")
}
