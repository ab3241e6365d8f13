package service

import (
	"time"

	"github.com/tubepulse/tubepulse-go/internal/model"
)

// Preset day spans.
const (
	days7  = 7
	days30 = 30
	days90 = 90
)

// RangeService resolves logical range selectors (presets or custom bounds)
// into concrete calendar-date ranges.
type RangeService struct{}

func NewRangeService() *RangeService {
	return &RangeService{}
}

// Resolve converts a selector into a concrete date range using the current day.
func (s *RangeService) Resolve(sel model.RangeSelector) (model.DateRange, error) {
	return s.ResolveAt(sel, time.Now().UTC())
}

// ResolveAt is Resolve with an injected "today", for deterministic callers
// and tests. Presets count back from today; custom bounds must satisfy
// start <= end <= today. Both bounds are truncated to calendar-day
// granularity — no time-of-day component survives resolution.
func (s *RangeService) ResolveAt(sel model.RangeSelector, now time.Time) (model.DateRange, error) {
	today := truncateDay(now)

	switch sel.Preset {
	case model.Preset7Days:
		return presetRange(today, days7), nil
	case model.Preset30Days:
		return presetRange(today, days30), nil
	case model.Preset90Days:
		return presetRange(today, days90), nil
	case model.PresetCustom:
		return resolveCustom(sel, today)
	default:
		return model.DateRange{}, &InvalidRangeError{
			Start:  sel.Start,
			End:    sel.End,
			Reason: "unknown preset " + sel.Preset,
		}
	}
}

func presetRange(today time.Time, days int) model.DateRange {
	return model.DateRange{
		Start: today.AddDate(0, 0, -days).Format(model.DateLayout),
		End:   today.Format(model.DateLayout),
	}
}

func resolveCustom(sel model.RangeSelector, today time.Time) (model.DateRange, error) {
	start, err := time.Parse(model.DateLayout, sel.Start)
	if err != nil {
		return model.DateRange{}, &InvalidRangeError{Start: sel.Start, End: sel.End, Reason: "startDate is not a valid YYYY-MM-DD date"}
	}
	end, err := time.Parse(model.DateLayout, sel.End)
	if err != nil {
		return model.DateRange{}, &InvalidRangeError{Start: sel.Start, End: sel.End, Reason: "endDate is not a valid YYYY-MM-DD date"}
	}
	if start.After(end) {
		return model.DateRange{}, &InvalidRangeError{Start: sel.Start, End: sel.End, Reason: "startDate is after endDate"}
	}
	if end.After(today) {
		return model.DateRange{}, &InvalidRangeError{Start: sel.Start, End: sel.End, Reason: "endDate is in the future"}
	}

	return model.DateRange{
		Start: start.Format(model.DateLayout),
		End:   end.Format(model.DateLayout),
	}, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
