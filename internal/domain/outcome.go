package domain

// BuildOutcome is the explicit result of one Record Builder invocation:
// exactly one of success (a record), skip (soft geometry drop), or a hard
// failure. An explicit tri-state keeps callers from conflating "dropped"
// with "errored", which the failure policy treats differently.
type BuildOutcome struct {
	record *CatalogRecord
	skip   *SampleFailure
	err    error
}

// SuccessOutcome wraps a fully populated, valid record.
func SuccessOutcome(rec CatalogRecord) BuildOutcome {
	return BuildOutcome{record: &rec}
}

// SkipOutcome marks a sample silently excluded for the given reason.
func SkipOutcome(id, reason string) BuildOutcome {
	return BuildOutcome{skip: &SampleFailure{ID: id, Reason: reason}}
}

// FatalOutcome marks a per-sample hard failure; the failure policy decides
// whether it aborts the run or is reported and skipped.
func FatalOutcome(err error) BuildOutcome {
	return BuildOutcome{err: err}
}

// Record returns the built record, or nil for skip/failure outcomes.
func (o BuildOutcome) Record() *CatalogRecord { return o.record }

// Skipped returns the soft-drop descriptor, or nil.
func (o BuildOutcome) Skipped() *SampleFailure { return o.skip }

// Err returns the hard failure, or nil.
func (o BuildOutcome) Err() error { return o.err }
