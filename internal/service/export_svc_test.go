package service

import (
	"strings"
	"testing"

	"github.com/tubepulse/tubepulse-go/internal/model"
)

func TestCSV_HeaderAndValueFormat(t *testing.T) {
	cols := []Column[model.AnalyticsBundle]{
		{"id", func(b model.AnalyticsBundle) any { return b.ChannelID }},
		{"name", func(b model.AnalyticsBundle) any { return b.ChannelName }},
		{"totalViews", func(b model.AnalyticsBundle) any { return b.Basic.Totals.TotalViews }},
	}
	items := []model.AnalyticsBundle{
		{
			ChannelID:   "UC1",
			ChannelName: "Tech Talks",
			Basic:       model.BasicStats{Totals: model.BasicTotals{TotalViews: 2500}},
		},
	}

	got, err := CSV(items, cols)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Headers raw; strings JSON-quoted; numbers bare.
	want := "id,name,totalViews\n\"UC1\",\"Tech Talks\",2500"
	if got != want {
		t.Errorf("csv = %q, want %q", got, want)
	}
}

func TestCSV_EmbeddedCommaAndQuoteEscaping(t *testing.T) {
	cols := []Column[string]{
		{"value", func(s string) any { return s }},
	}

	got, err := CSV([]string{`Gaming, "Let's Play" & more`}, cols)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// JSON string quoting, not RFC4180: embedded quotes become \" and the
	// ampersand stays literal (no & HTML escaping).
	want := "value\n\"Gaming, \\\"Let's Play\\\" & more\""
	if got != want {
		t.Errorf("csv = %q, want %q", got, want)
	}
}

func TestCSV_NilProjectsToEmptyString(t *testing.T) {
	cols := []Column[int]{
		{"n", func(int) any { return nil }},
	}

	got, err := CSV([]int{1}, cols)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "n\n\"\"" {
		t.Errorf("csv = %q, want %q", got, "n\n\"\"")
	}
}

func TestCSV_NoRows(t *testing.T) {
	got, err := CSV(nil, ChannelColumns())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(got, "\n") {
		t.Errorf("empty export should be a lone header row, got %q", got)
	}
}

func TestChannelColumns_StableOrder(t *testing.T) {
	cols := ChannelColumns()

	wantPrefix := []string{"id", "name", "startDate", "endDate", "totalViews"}
	for i, name := range wantPrefix {
		if cols[i].Name != name {
			t.Errorf("column %d = %s, want %s", i, cols[i].Name, name)
		}
	}
}

func TestChannelColumns_MissingSectionsZeroFilled(t *testing.T) {
	// No engagement, no revenue: numeric columns 0, text columns "".
	b := model.AnalyticsBundle{ChannelID: "UC1"}

	rows := Rows([]model.AnalyticsBundle{b}, ChannelColumns())
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}

	byName := map[string]any{}
	for i, c := range ChannelColumns() {
		byName[c.Name] = rows[0][i]
	}

	if byName["totalLikes"] != int64(0) {
		t.Errorf("totalLikes = %v, want 0", byName["totalLikes"])
	}
	if byName["estimatedRevenue"] != float64(0) {
		t.Errorf("estimatedRevenue = %v, want 0", byName["estimatedRevenue"])
	}
	if byName["currency"] != "" {
		t.Errorf("currency = %v, want empty string", byName["currency"])
	}
}

func TestResultCSV_AggregateSingleRow(t *testing.T) {
	svc := NewExportService()

	agg := NewAggregateService().Aggregate([]model.AnalyticsBundle{
		channelBundle("UC1", 1000),
		channelBundle("UC2", 1000),
		channelBundle("UC3", 500),
	}, model.ScopeAggregate, aggRange)

	out, err := svc.ResultCSV(agg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("line count = %d, want header + one totals row", len(lines))
	}
	if !strings.Contains(lines[1], "2500") {
		t.Errorf("totals row %q missing summed views 2500", lines[1])
	}
}

func TestResultCSV_CompareOneRowPerChannel(t *testing.T) {
	svc := NewExportService()

	res := NewAggregateService().Aggregate([]model.AnalyticsBundle{
		channelBundle("UC1", 1000),
		channelBundle("UC2", 500),
	}, model.ScopeCompare, aggRange)

	out, err := svc.ResultCSV(res)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("line count = %d, want header + 2 rows", len(lines))
	}
	if !strings.HasPrefix(lines[1], "\"UC1\"") || !strings.HasPrefix(lines[2], "\"UC2\"") {
		t.Errorf("rows out of selection order: %q, %q", lines[1], lines[2])
	}
}

func TestDailyCSV(t *testing.T) {
	svc := NewExportService()

	b := channelBundle("UC1", 1000)
	out, err := svc.DailyCSV(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(out, "\n")
	if len(lines) != 4 {
		t.Fatalf("line count = %d, want header + 3 days", len(lines))
	}
	if lines[0] != "date,views,watchTimeMinutes,subscribersGained,subscribersLost" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "\"2025-01-01\"") {
		t.Errorf("first day row = %q", lines[1])
	}
}
