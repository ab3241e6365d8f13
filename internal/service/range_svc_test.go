package service

import (
	"testing"
	"time"

	"github.com/tubepulse/tubepulse-go/internal/model"
)

// Fixed "today" for deterministic resolution: 2025-06-15 14:32 UTC.
var rangeNow = time.Date(2025, 6, 15, 14, 32, 7, 0, time.UTC)

func TestResolveAt_Presets(t *testing.T) {
	svc := NewRangeService()

	tests := []struct {
		name      string
		preset    string
		wantStart string
		wantEnd   string
	}{
		{"7 days", model.Preset7Days, "2025-06-08", "2025-06-15"},
		{"30 days", model.Preset30Days, "2025-05-16", "2025-06-15"},
		{"90 days", model.Preset90Days, "2025-03-17", "2025-06-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ResolveAt(model.RangeSelector{Preset: tt.preset}, rangeNow)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Start != tt.wantStart || got.End != tt.wantEnd {
				t.Errorf("got %s..%s, want %s..%s", got.Start, got.End, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestResolveAt_DeterministicWithinDay(t *testing.T) {
	svc := NewRangeService()
	sel := model.RangeSelector{Preset: model.Preset30Days}

	// Two calls on the same logical day yield identical bounds regardless
	// of time-of-day.
	morning := time.Date(2025, 6, 15, 0, 0, 1, 0, time.UTC)
	evening := time.Date(2025, 6, 15, 23, 59, 59, 0, time.UTC)

	a, _ := svc.ResolveAt(sel, morning)
	b, _ := svc.ResolveAt(sel, evening)

	if a != b {
		t.Errorf("same-day resolution differs: %+v vs %+v", a, b)
	}
}

func TestResolveAt_CustomValid(t *testing.T) {
	svc := NewRangeService()

	got, err := svc.ResolveAt(model.RangeSelector{
		Preset: model.PresetCustom,
		Start:  "2025-01-01",
		End:    "2025-01-31",
	}, rangeNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Start != "2025-01-01" || got.End != "2025-01-31" {
		t.Errorf("got %s..%s", got.Start, got.End)
	}
	if days := got.Days(); days != 31 {
		t.Errorf("Days() = %d, want 31", days)
	}
}

func TestResolveAt_CustomSingleDay(t *testing.T) {
	svc := NewRangeService()

	got, err := svc.ResolveAt(model.RangeSelector{
		Preset: model.PresetCustom,
		Start:  "2025-06-15",
		End:    "2025-06-15",
	}, rangeNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days := got.Days(); days != 1 {
		t.Errorf("Days() = %d, want 1", days)
	}
}

func TestResolveAt_CustomInvalid(t *testing.T) {
	svc := NewRangeService()

	tests := []struct {
		name  string
		start string
		end   string
	}{
		{"start after end", "2025-02-01", "2025-01-01"},
		{"end in future", "2025-06-01", "2025-06-16"},
		{"garbage start", "01/01/2025", "2025-01-31"},
		{"garbage end", "2025-01-01", "Jan 31"},
		{"empty bounds", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ResolveAt(model.RangeSelector{
				Preset: model.PresetCustom,
				Start:  tt.start,
				End:    tt.end,
			}, rangeNow)
			if err == nil {
				t.Fatal("expected error, got none")
			}
			if !IsInvalidRange(err) {
				t.Errorf("error type = %T, want *InvalidRangeError", err)
			}
		})
	}
}

func TestResolveAt_CustomEndToday(t *testing.T) {
	svc := NewRangeService()

	// end == today is the boundary and must be accepted
	_, err := svc.ResolveAt(model.RangeSelector{
		Preset: model.PresetCustom,
		Start:  "2025-06-01",
		End:    "2025-06-15",
	}, rangeNow)
	if err != nil {
		t.Errorf("end == today should be valid, got %v", err)
	}
}

func TestResolveAt_UnknownPreset(t *testing.T) {
	svc := NewRangeService()

	_, err := svc.ResolveAt(model.RangeSelector{Preset: "365days"}, rangeNow)
	if err == nil {
		t.Fatal("expected error for unknown preset")
	}
	if !IsInvalidRange(err) {
		t.Errorf("error type = %T, want *InvalidRangeError", err)
	}
}
