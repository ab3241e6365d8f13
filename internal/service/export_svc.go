package service

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/tubepulse/tubepulse-go/internal/model"
)

// Column is one (name, accessor) pair of an export column spec. Column specs
// are always explicit ordered lists — never inferred from key enumeration —
// so exported files keep a stable column order regardless of which optional
// sections a bundle happens to carry.
type Column[T any] struct {
	Name  string
	Value func(T) any
}

// Rows projects items into flat value rows in column-spec order. Missing
// values surface as each accessor's zero (0 for numerics, "" for text),
// never as a hole.
func Rows[T any](items []T, cols []Column[T]) [][]any {
	rows := make([][]any, 0, len(items))
	for _, item := range items {
		row := make([]any, 0, len(cols))
		for _, c := range cols {
			row = append(row, c.Value(item))
		}
		rows = append(rows, row)
	}
	return rows
}

// CSV serializes items under the column spec in the format the dashboard's
// historical exports use: a raw header row, then every value JSON-encoded
// (so embedded commas and quotes are escaped by JSON string quoting, not
// RFC4180 quoting), comma-joined, rows joined by \n. Existing downstream
// tooling consumes this exact byte format.
func CSV[T any](items []T, cols []Column[T]) (string, error) {
	headers := make([]string, 0, len(cols))
	for _, c := range cols {
		headers = append(headers, c.Name)
	}

	lines := make([]string, 0, len(items)+1)
	lines = append(lines, strings.Join(headers, ","))

	for _, row := range Rows(items, cols) {
		cells := make([]string, 0, len(row))
		for _, v := range row {
			cell, err := encodeCell(v)
			if err != nil {
				return "", err
			}
			cells = append(cells, cell)
		}
		lines = append(lines, strings.Join(cells, ","))
	}

	return strings.Join(lines, "\n"), nil
}

// encodeCell mirrors JS JSON.stringify(v ?? ""): nil becomes the empty
// string, and HTML characters are left unescaped (Go's default encoder
// would emit < where the legacy exporter wrote <).
func encodeCell(v any) (string, error) {
	if v == nil {
		v = ""
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// ExportService projects normalized bundles into CSV using the default
// column specs.
type ExportService struct{}

func NewExportService() *ExportService {
	return &ExportService{}
}

// ChannelColumns is the default per-channel export spec. Order is part of
// the export contract.
func ChannelColumns() []Column[model.AnalyticsBundle] {
	return []Column[model.AnalyticsBundle]{
		{"id", func(b model.AnalyticsBundle) any { return b.ChannelID }},
		{"name", func(b model.AnalyticsBundle) any { return b.ChannelName }},
		{"startDate", func(b model.AnalyticsBundle) any { return b.Range.Start }},
		{"endDate", func(b model.AnalyticsBundle) any { return b.Range.End }},
		{"totalViews", func(b model.AnalyticsBundle) any { return b.Basic.Totals.TotalViews }},
		{"totalWatchTimeMinutes", func(b model.AnalyticsBundle) any { return b.Basic.Totals.TotalWatchTime }},
		{"subscribersGained", func(b model.AnalyticsBundle) any { return b.Basic.Totals.TotalSubscribersGained }},
		{"subscribersLost", func(b model.AnalyticsBundle) any { return b.Basic.Totals.TotalSubscribersLost }},
		{"subscribersNet", func(b model.AnalyticsBundle) any { return b.Basic.Totals.TotalSubscribersNet }},
		{"totalLikes", func(b model.AnalyticsBundle) any {
			if b.Engagement == nil {
				return int64(0)
			}
			return b.Engagement.Totals.TotalLikes
		}},
		{"totalComments", func(b model.AnalyticsBundle) any {
			if b.Engagement == nil {
				return int64(0)
			}
			return b.Engagement.Totals.TotalComments
		}},
		{"engagementRate", func(b model.AnalyticsBundle) any {
			if b.Engagement == nil {
				return float64(0)
			}
			return b.Engagement.Totals.EngagementRate
		}},
		{"estimatedRevenue", func(b model.AnalyticsBundle) any {
			if b.Revenue == nil {
				return float64(0)
			}
			return b.Revenue.Totals.EstimatedRevenue
		}},
		{"currency", func(b model.AnalyticsBundle) any {
			if b.Revenue == nil {
				return ""
			}
			return b.Revenue.Currency
		}},
	}
}

// DailyColumns is the default per-day export spec.
func DailyColumns() []Column[model.DailyStat] {
	return []Column[model.DailyStat]{
		{"date", func(d model.DailyStat) any { return d.Date }},
		{"views", func(d model.DailyStat) any { return d.Views }},
		{"watchTimeMinutes", func(d model.DailyStat) any { return d.WatchTimeMinutes }},
		{"subscribersGained", func(d model.DailyStat) any { return d.SubscribersGained }},
		{"subscribersLost", func(d model.DailyStat) any { return d.SubscribersLost }},
	}
}

// ResultCSV exports an aggregate result: the summed totals row for summed
// scopes, or one row per channel for the compare scope.
func (s *ExportService) ResultCSV(res model.AggregateResult) (string, error) {
	if res.Scope == model.ScopeCompare {
		return CSV([]model.AnalyticsBundle(res.Channels), ChannelColumns())
	}
	return CSV([]model.AnalyticsBundle{res.Totals}, ChannelColumns())
}

// DailyCSV exports a bundle's day-by-day series.
func (s *ExportService) DailyCSV(b model.AnalyticsBundle) (string, error) {
	return CSV(b.Basic.DailyData, DailyColumns())
}
