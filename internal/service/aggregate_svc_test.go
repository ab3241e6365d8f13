package service

import (
	"testing"

	"github.com/tubepulse/tubepulse-go/internal/model"
)

var aggRange = model.DateRange{Start: "2025-01-01", End: "2025-01-03"}

func channelBundle(id string, views int64) model.AnalyticsBundle {
	b := model.AnalyticsBundle{
		ChannelID: id,
		Range:     aggRange,
		Basic: model.BasicStats{
			Totals: model.BasicTotals{
				TotalViews:             views,
				TotalWatchTime:         float64(views) * 3,
				TotalSubscribersGained: views / 100,
				TotalSubscribersLost:   views / 500,
			},
			DailyData: []model.DailyStat{
				{Date: "2025-01-01", Views: views / 2, WatchTimeMinutes: float64(views)},
				{Date: "2025-01-02", Views: views / 4, WatchTimeMinutes: float64(views)},
				{Date: "2025-01-03", Views: views / 4, WatchTimeMinutes: float64(views)},
			},
		},
	}
	NewSynthService().Synthesize(&b)
	return b
}

func TestAggregate_Additivity(t *testing.T) {
	svc := NewAggregateService()

	bundles := []model.AnalyticsBundle{
		channelBundle("UC1", 1000),
		channelBundle("UC2", 1000),
		channelBundle("UC3", 500),
	}

	res := svc.Aggregate(bundles, model.ScopeAggregate, aggRange)

	if res.TotalChannels != 3 {
		t.Errorf("totalChannels = %d, want 3", res.TotalChannels)
	}
	if got := res.Totals.Basic.Totals.TotalViews; got != 2500 {
		t.Errorf("summed views = %d, want 2500", got)
	}

	var wantGained int64
	for _, b := range bundles {
		wantGained += b.Basic.Totals.TotalSubscribersGained
	}
	if got := res.Totals.Basic.Totals.TotalSubscribersGained; got != wantGained {
		t.Errorf("summed gained = %d, want %d", got, wantGained)
	}
}

func TestAggregate_NetSubscribersInvariant(t *testing.T) {
	svc := NewAggregateService()

	res := svc.Aggregate([]model.AnalyticsBundle{
		channelBundle("UC1", 10000),
		channelBundle("UC2", 7000),
	}, model.ScopeAggregate, aggRange)

	tot := res.Totals.Basic.Totals
	if tot.TotalSubscribersNet != tot.TotalSubscribersGained-tot.TotalSubscribersLost {
		t.Errorf("net = %d, want gained-lost = %d",
			tot.TotalSubscribersNet, tot.TotalSubscribersGained-tot.TotalSubscribersLost)
	}
}

func TestAggregate_DailyDataSummedPerDay(t *testing.T) {
	svc := NewAggregateService()

	res := svc.Aggregate([]model.AnalyticsBundle{
		channelBundle("UC1", 1000),
		channelBundle("UC2", 2000),
	}, model.ScopeAggregate, aggRange)

	daily := res.Totals.Basic.DailyData
	if len(daily) != 3 {
		t.Fatalf("dailyData length = %d, want 3", len(daily))
	}
	if daily[0].Date != "2025-01-01" || daily[2].Date != "2025-01-03" {
		t.Errorf("dailyData not ascending: %s..%s", daily[0].Date, daily[2].Date)
	}
	// day 1: 500 + 1000
	if daily[0].Views != 1500 {
		t.Errorf("day-1 views = %d, want 1500", daily[0].Views)
	}
}

func TestAggregate_EmptySelection(t *testing.T) {
	svc := NewAggregateService()

	res := svc.Aggregate(nil, model.ScopeAggregate, aggRange)

	if res.TotalChannels != 0 {
		t.Errorf("totalChannels = %d, want 0", res.TotalChannels)
	}
	if res.Totals.Basic.Totals.TotalViews != 0 {
		t.Errorf("views = %d, want 0", res.Totals.Basic.Totals.TotalViews)
	}
	if len(res.Totals.Basic.DailyData) != 3 {
		t.Errorf("dailyData length = %d, want full zeroed range", len(res.Totals.Basic.DailyData))
	}
	if res.Totals.Engagement != nil {
		t.Error("section absent everywhere must stay absent")
	}
}

func TestAggregate_SingleIdentity(t *testing.T) {
	svc := NewAggregateService()

	in := channelBundle("UC1", 4200)
	res := svc.Aggregate([]model.AnalyticsBundle{in}, model.ScopeSingle, aggRange)

	if res.Totals.ChannelID != "UC1" {
		t.Errorf("channelId = %s, want UC1", res.Totals.ChannelID)
	}
	if res.Totals.Basic.Totals.TotalViews != 4200 {
		t.Errorf("views = %d, want 4200", res.Totals.Basic.Totals.TotalViews)
	}
	// Identity still owns a copy, never an alias of the input.
	res.Totals.Basic.DailyData[0].Views = -1
	if in.Basic.DailyData[0].Views == -1 {
		t.Error("single-scope result aliases the input bundle")
	}
}

func TestAggregate_SectionPresentInOneInput(t *testing.T) {
	svc := NewAggregateService()

	withRevenue := channelBundle("UC1", 1000)
	withRevenue.Revenue = &model.RevenueStats{
		Totals: model.RevenueTotals{
			EstimatedRevenue:   120.50,
			GrossRevenue:       150,
			AdImpressions:      30000,
			MonetizedPlaybacks: 800,
		},
		MonetizationStatus: model.MonetizationEnabled,
		Currency:           "USD",
	}
	without := channelBundle("UC2", 1000)

	res := svc.Aggregate([]model.AnalyticsBundle{withRevenue, without}, model.ScopeAggregate, aggRange)

	if res.Totals.Revenue == nil {
		t.Fatal("revenue present in one input must appear in the aggregate")
	}
	if res.Totals.Revenue.Totals.EstimatedRevenue != 120.50 {
		t.Errorf("estimatedRevenue = %.2f, want 120.50", res.Totals.Revenue.Totals.EstimatedRevenue)
	}
	if res.Totals.Revenue.MonetizationStatus != model.MonetizationEnabled {
		t.Error("any monetized constituent marks the aggregate enabled")
	}
	// CPM recomputed from summed bases: 150/30000*1000 = 5.0
	if !almostEqual(res.Totals.Revenue.Totals.CPM, 5.0, 0.001) {
		t.Errorf("cpm = %.2f, want 5.0", res.Totals.Revenue.Totals.CPM)
	}
}

func TestAggregate_TrafficPercentagesSumTo100(t *testing.T) {
	svc := NewAggregateService()

	res := svc.Aggregate([]model.AnalyticsBundle{
		channelBundle("UC1", 12000),
		channelBundle("UC2", 3300),
		channelBundle("UC3", 777),
	}, model.ScopeAggregate, aggRange)

	if res.Totals.Traffic == nil {
		t.Fatal("traffic missing from aggregate")
	}
	var sum float64
	for _, s := range res.Totals.Traffic.Sources {
		sum += s.Percentage
	}
	if !almostEqual(sum, 100.0, 0.1) {
		t.Errorf("aggregated traffic percentages sum to %.2f, want 100", sum)
	}
}

func TestAggregate_CompareItemizedPlusTotals(t *testing.T) {
	svc := NewAggregateService()

	bundles := []model.AnalyticsBundle{
		channelBundle("UC1", 1000),
		channelBundle("UC2", 500),
	}
	res := svc.Aggregate(bundles, model.ScopeCompare, aggRange)

	if len(res.Channels) != 2 {
		t.Fatalf("channels length = %d, want 2", len(res.Channels))
	}
	// Selection order preserved
	if res.Channels[0].ChannelID != "UC1" || res.Channels[1].ChannelID != "UC2" {
		t.Errorf("comparison order = %s, %s", res.Channels[0].ChannelID, res.Channels[1].ChannelID)
	}
	if res.Totals.Basic.Totals.TotalViews != 1500 {
		t.Errorf("aggregatedTotals views = %d, want 1500", res.Totals.Basic.Totals.TotalViews)
	}
	// Itemized entries are copies, not aliases.
	res.Channels[0].Basic.DailyData[0].Views = -1
	if bundles[0].Basic.DailyData[0].Views == -1 {
		t.Error("comparison set aliases input bundles")
	}
}

func TestAggregate_MetaAvailabilityAndQuota(t *testing.T) {
	svc := NewAggregateService()

	a := channelBundle("UC1", 1000)
	a.Meta.QuotaUsed = 7
	b := channelBundle("UC2", 1000)
	b.Meta.QuotaUsed = 5

	res := svc.Aggregate([]model.AnalyticsBundle{a, b}, model.ScopeAggregate, aggRange)

	if res.Totals.Meta.QuotaUsed != 12 {
		t.Errorf("quotaUsed = %d, want 12", res.Totals.Meta.QuotaUsed)
	}
	// Both constituents were fully synthesized, so no section is "available".
	if len(res.Totals.Meta.DataAvailable) != 0 {
		t.Errorf("dataAvailable = %v, want empty for all-synthesized inputs", res.Totals.Meta.DataAvailable)
	}
	if len(res.Totals.Meta.DataUnavailable) != len(model.OptionalSections) {
		t.Errorf("dataUnavailable covers %d sections, want %d",
			len(res.Totals.Meta.DataUnavailable), len(model.OptionalSections))
	}
}

func TestAggregate_ZeroViewConstituent(t *testing.T) {
	svc := NewAggregateService()

	live := channelBundle("UC1", 1000)
	empty := model.AnalyticsBundle{ChannelID: "UC2", Range: aggRange}
	NewSynthService().Synthesize(&empty)

	res := svc.Aggregate([]model.AnalyticsBundle{live, empty}, model.ScopeAggregate, aggRange)

	if res.Totals.Basic.Totals.TotalViews != 1000 {
		t.Errorf("views = %d, want 1000", res.Totals.Basic.Totals.TotalViews)
	}
	if res.Totals.Engagement == nil {
		t.Error("engagement from the live constituent should survive aggregation")
	}
}
