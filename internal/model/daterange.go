package model

import "time"

// DateLayout is the wire format for all calendar dates (no time component).
const DateLayout = "2006-01-02"

// Range preset identifiers accepted from the UI.
const (
	Preset7Days  = "7days"
	Preset30Days = "30days"
	Preset90Days = "90days"
	PresetCustom = "custom"
)

// RangeSelector is the logical range selection made in the UI: either a
// preset or an explicit custom start/end pair.
type RangeSelector struct {
	Preset string `json:"preset"`
	Start  string `json:"startDate,omitempty"`
	End    string `json:"endDate,omitempty"`
}

// DateRange is a resolved, inclusive calendar-date range. It is echoed back
// on every bundle so the UI can display what was actually queried, decoupled
// from the most recent selection.
type DateRange struct {
	Start string `json:"startDate"`
	End   string `json:"endDate"`
}

// Days returns the number of calendar days the range spans, inclusive.
// Returns 0 when either bound is unparseable.
func (r DateRange) Days() int {
	start, err := time.Parse(DateLayout, r.Start)
	if err != nil {
		return 0
	}
	end, err := time.Parse(DateLayout, r.End)
	if err != nil {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// Key returns the canonical string form used in cache keys.
func (r DateRange) Key() string {
	return r.Start + ":" + r.End
}
