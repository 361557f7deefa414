package domain

import (
	"fmt"
	"strings"
	"time"
)

// AcquisitionTimeTag is the raster metadata key carrying the embedded
// acquisition timestamp, when the producing pipeline wrote one.
const AcquisitionTimeTag = "acquisition_time"

// Accepted layouts for free-text timestamps, in trial order. Embedded tags
// use ISO-8601 variants; side-channel "start" attributes use the space-
// separated form with optional fractional seconds. Unzoned values are UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
}

// ParseTimestamp parses a free-text acquisition timestamp into microseconds
// since the Unix epoch.
func ParseTimestamp(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t.UnixMicro(), nil
		}
	}
	return 0, fmt.Errorf("unparseable timestamp %q", value)
}

// compactTimestampLayout matches the fixed-width digit fields embedded in
// sample identifiers, e.g. "20060613001240" in
// "MSG1_20060613001240_CS_2006163223419_00664_merged_patch_00".
const compactTimestampLayout = "20060102150405"

// parseCompactTimestamp parses a concatenation of fixed-width date fields
// (YYYYMMDD[HHMM[SS]]) into microseconds since the Unix epoch. Shorter forms
// are zero-padded: a bare date means midnight UTC.
func parseCompactTimestamp(digits string) (int64, error) {
	switch len(digits) {
	case 8, 12, 14:
	default:
		return 0, fmt.Errorf("timestamp field %q has unexpected width %d", digits, len(digits))
	}
	digits += strings.Repeat("0", len(compactTimestampLayout)-len(digits))
	t, err := time.ParseInLocation(compactTimestampLayout, digits, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("parse timestamp field %q: %w", digits, err)
	}
	return t.UnixMicro(), nil
}
