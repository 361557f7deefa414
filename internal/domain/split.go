package domain

import "time"

// Day-of-month boundaries for the split partition. Every day 1-31 maps to
// exactly one label: 1-23 train, 24-27 validation, 28-31 test.
const (
	lastTrainDay      = 23
	lastValidationDay = 27
)

// AssignSplit classifies an acquisition timestamp (microseconds since the
// Unix epoch) into a split label by its day of month, read in loc. The
// timestamps themselves are UTC; whether the day is taken in UTC or local
// time is a deployment choice (SPLIT_TIMEZONE).
func AssignSplit(timeMicro int64, loc *time.Location) Split {
	if loc == nil {
		loc = time.UTC
	}
	day := time.UnixMicro(timeMicro).In(loc).Day()
	switch {
	case day <= lastTrainDay:
		return SplitTrain
	case day <= lastValidationDay:
		return SplitValidation
	default:
		return SplitTest
	}
}
