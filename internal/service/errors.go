package service

import (
	"errors"
	"fmt"

	"github.com/tubepulse/tubepulse-go/internal/model"
)

// InvalidRangeError reports a custom date range that failed validation.
// It is surfaced to the caller before any fetch is dispatched — ranges are
// never silently clamped.
type InvalidRangeError struct {
	Start  string
	End    string
	Reason string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid date range %s..%s: %s", e.Start, e.End, e.Reason)
}

// MissingScopeDataError reports a scope request without enough backing
// channels (e.g. compare with fewer than two). The aggregator itself degrades
// to a zeroed result; this error exists for the call boundary's precondition
// check.
type MissingScopeDataError struct {
	Scope  model.Scope
	Needed int
	Got    int
}

func (e *MissingScopeDataError) Error() string {
	return fmt.Sprintf("scope %s requires %d channel(s), got %d", e.Scope, e.Needed, e.Got)
}

// IsInvalidRange reports whether err is an InvalidRangeError.
func IsInvalidRange(err error) bool {
	var ire *InvalidRangeError
	return errors.As(err, &ire)
}

// IsMissingScopeData reports whether err is a MissingScopeDataError.
func IsMissingScopeData(err error) bool {
	var msd *MissingScopeDataError
	return errors.As(err, &msd)
}
