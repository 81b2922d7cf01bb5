package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure modes of the activity core. Handlers
// map these onto HTTP statuses; everything else is treated as an
// internal failure.
var (
	// ErrScopeViolation means a record owned by another user reached the
	// aggregator. The whole request is aborted; the record must never
	// leak into the caller's view.
	ErrScopeViolation = errors.New("activity record outside owner scope")

	// ErrInvalidFilter means a filter value failed to parse or validate.
	ErrInvalidFilter = errors.New("invalid activity filter")

	// ErrUpstream means the storage collaborator failed. The core does
	// not retry and never returns a partially merged view.
	ErrUpstream = errors.New("activity source unavailable")
)

// MalformedRecordError describes a source row that failed normalization.
// It is recovered locally: the row is excluded with a diagnostic and the
// request continues.
type MalformedRecordError struct {
	Source   SourceType
	SourceID string
	Reason   string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed %s record %q: %s", e.Source, e.SourceID, e.Reason)
}
