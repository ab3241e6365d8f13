package service

import (
	"time"

	"github.com/tubepulse/tubepulse-go/internal/model"
)

// AggregateService combines per-channel bundles into the per-scope shape the
// dashboard renders. Summation never fails: an empty selection produces a
// zeroed, displayable result rather than an error.
type AggregateService struct {
	synth *SynthService
}

func NewAggregateService() *AggregateService {
	return &AggregateService{synth: NewSynthService()}
}

// Aggregate builds the result for the given scope. Input bundles must share
// the resolved range. The result owns deep copies of its constituents; input
// bundles are never aliased or mutated.
//
// Summation rule: an optional section appears in the result iff it is
// present in at least one input. Additive fields are summed; ratio fields
// (rates, percentages, CPM/RPM, averages) are recomputed from the summed
// bases so the percentage-sum invariants survive aggregation.
func (s *AggregateService) Aggregate(bundles []model.AnalyticsBundle, scope model.Scope, rng model.DateRange) model.AggregateResult {
	result := model.AggregateResult{
		Scope:         scope,
		Range:         rng,
		TotalChannels: len(bundles),
	}

	if scope == model.ScopeSingle && len(bundles) == 1 {
		result.Totals = *bundles[0].Clone()
		return result
	}

	result.Totals = s.sum(bundles, rng)

	if scope == model.ScopeCompare {
		set := make(model.ComparisonSet, 0, len(bundles))
		for i := range bundles {
			set = append(set, *bundles[i].Clone())
		}
		result.Channels = set
	}

	return result
}

func (s *AggregateService) sum(bundles []model.AnalyticsBundle, rng model.DateRange) model.AnalyticsBundle {
	out := model.AnalyticsBundle{
		ChannelID: "aggregate",
		Range:     rng,
		Basic: model.BasicStats{
			DailyData: zeroDailySeries(rng),
		},
	}

	daily := make(map[string]*model.DailyStat, len(out.Basic.DailyData))
	for i := range out.Basic.DailyData {
		daily[out.Basic.DailyData[i].Date] = &out.Basic.DailyData[i]
	}

	for i := range bundles {
		b := &bundles[i]
		t := b.Basic.Totals
		out.Basic.Totals.TotalViews += t.TotalViews
		out.Basic.Totals.TotalWatchTime += t.TotalWatchTime
		out.Basic.Totals.TotalSubscribersGained += t.TotalSubscribersGained
		out.Basic.Totals.TotalSubscribersLost += t.TotalSubscribersLost

		for _, d := range b.Basic.DailyData {
			if agg, ok := daily[d.Date]; ok {
				agg.Views += d.Views
				agg.WatchTimeMinutes += d.WatchTimeMinutes
				agg.SubscribersGained += d.SubscribersGained
				agg.SubscribersLost += d.SubscribersLost
			}
		}
	}

	s.synth.normalizeBasic(&out.Basic)

	out.Engagement = sumEngagement(bundles, out.Basic.Totals.TotalViews)
	out.Revenue = sumRevenue(bundles, out.Basic.Totals.TotalViews)
	out.Traffic = sumTraffic(bundles)
	out.Devices = sumDevices(bundles)
	out.Demographics = sumDemographics(bundles)
	out.Retention = sumRetention(bundles)
	out.Videos = sumVideos(bundles)

	out.Meta = sumMeta(bundles, &out)

	return out
}

func sumEngagement(bundles []model.AnalyticsBundle, totalViews int64) *model.EngagementStats {
	var found bool
	var likes, dislikes, comments, shares int64
	for i := range bundles {
		e := bundles[i].Engagement
		if e == nil {
			continue
		}
		found = true
		likes += e.Totals.TotalLikes
		dislikes += e.Totals.TotalDislikes
		comments += e.Totals.TotalComments
		shares += e.Totals.TotalShares
	}
	if !found {
		return nil
	}
	return &model.EngagementStats{
		Totals: model.EngagementTotals{
			TotalLikes:       likes,
			TotalDislikes:    dislikes,
			TotalComments:    comments,
			TotalShares:      shares,
			EngagementRate:   EngagementRate(likes, comments, shares, totalViews),
			LikeDislikeRatio: LikeDislikeRatio(likes, dislikes),
		},
	}
}

func sumRevenue(bundles []model.AnalyticsBundle, totalViews int64) *model.RevenueStats {
	var found, anyEnabled bool
	var currency string
	var totals model.RevenueTotals
	for i := range bundles {
		r := bundles[i].Revenue
		if r == nil {
			continue
		}
		found = true
		totals.EstimatedRevenue += r.Totals.EstimatedRevenue
		totals.EstimatedAdRevenue += r.Totals.EstimatedAdRevenue
		totals.GrossRevenue += r.Totals.GrossRevenue
		totals.MonetizedPlaybacks += r.Totals.MonetizedPlaybacks
		totals.AdImpressions += r.Totals.AdImpressions
		if r.MonetizationStatus == model.MonetizationEnabled {
			anyEnabled = true
		}
		if currency == "" {
			currency = r.Currency
		}
	}
	if !found {
		return nil
	}

	// CPM/RPM are recomputed from the summed bases, not averaged.
	if totals.AdImpressions > 0 {
		totals.CPM = round2(totals.GrossRevenue / float64(totals.AdImpressions) * 1000)
	}
	if totalViews > 0 {
		totals.RPM = round2(totals.EstimatedRevenue / float64(totalViews) * 1000)
	}

	status := model.MonetizationDisabled
	if anyEnabled {
		status = model.MonetizationEnabled
	}
	return &model.RevenueStats{Totals: totals, MonetizationStatus: status, Currency: currency}
}

func sumTraffic(bundles []model.AnalyticsBundle) *model.TrafficStats {
	var found bool
	order := []string{}
	byLabel := map[string]*model.TrafficSource{}
	var totalViews int64

	for i := range bundles {
		tr := bundles[i].Traffic
		if tr == nil {
			continue
		}
		found = true
		for _, src := range tr.Sources {
			agg, ok := byLabel[src.Source]
			if !ok {
				agg = &model.TrafficSource{Source: src.Source}
				byLabel[src.Source] = agg
				order = append(order, src.Source)
			}
			agg.Views += src.Views
			agg.WatchTimeMinutes += src.WatchTimeMinutes
			totalViews += src.Views
		}
	}
	if !found {
		return nil
	}

	sources := make([]model.TrafficSource, 0, len(order))
	for _, label := range order {
		src := *byLabel[label]
		src.WatchTimeMinutes = round2(src.WatchTimeMinutes)
		if totalViews > 0 {
			src.Percentage = round2(float64(src.Views) / float64(totalViews) * 100)
		}
		sources = append(sources, src)
	}
	return &model.TrafficStats{Sources: sources}
}

func sumDevices(bundles []model.AnalyticsBundle) *model.DeviceStats {
	var found bool
	order := []string{}
	byLabel := map[string]*model.DeviceUsage{}
	var totalViews int64

	for i := range bundles {
		dv := bundles[i].Devices
		if dv == nil {
			continue
		}
		found = true
		for _, d := range dv.Types {
			agg, ok := byLabel[d.Device]
			if !ok {
				agg = &model.DeviceUsage{Device: d.Device}
				byLabel[d.Device] = agg
				order = append(order, d.Device)
			}
			agg.Views += d.Views
			agg.WatchTimeMinutes += d.WatchTimeMinutes
			totalViews += d.Views
		}
	}
	if !found {
		return nil
	}

	types := make([]model.DeviceUsage, 0, len(order))
	for _, label := range order {
		d := *byLabel[label]
		d.WatchTimeMinutes = round2(d.WatchTimeMinutes)
		if totalViews > 0 {
			d.Percentage = round2(float64(d.Views) / float64(totalViews) * 100)
		}
		types = append(types, d)
	}
	return &model.DeviceStats{Types: types}
}

func sumDemographics(bundles []model.AnalyticsBundle) *model.DemographicStats {
	var found bool
	var weight int64 // total views across contributing bundles

	ageOrder, genderOrder, countryOrder := []string{}, []string{}, []string{}
	ages := map[string]float64{}    // label → Σ pct*views
	genders := map[string]float64{} // label → Σ pct*views
	countries := map[string]*model.CountryShare{}
	var countryViews int64

	for i := range bundles {
		dg := bundles[i].Demographics
		if dg == nil {
			continue
		}
		found = true
		w := bundles[i].Basic.Totals.TotalViews
		weight += w

		for _, a := range dg.AgeGroups {
			if _, ok := ages[a.AgeGroup]; !ok {
				ageOrder = append(ageOrder, a.AgeGroup)
			}
			ages[a.AgeGroup] += a.Percentage * float64(w)
		}
		for _, g := range dg.Genders {
			if _, ok := genders[g.Gender]; !ok {
				genderOrder = append(genderOrder, g.Gender)
			}
			genders[g.Gender] += g.Percentage * float64(w)
		}
		for _, c := range dg.Countries {
			agg, ok := countries[c.Country]
			if !ok {
				agg = &model.CountryShare{Country: c.Country}
				countries[c.Country] = agg
				countryOrder = append(countryOrder, c.Country)
			}
			agg.Views += c.Views
			countryViews += c.Views
		}
	}
	if !found {
		return nil
	}

	out := &model.DemographicStats{}
	for _, label := range ageOrder {
		pct := 0.0
		if weight > 0 {
			pct = round2(ages[label] / float64(weight))
		}
		out.AgeGroups = append(out.AgeGroups, model.AgeShare{AgeGroup: label, Percentage: pct})
	}
	for _, label := range genderOrder {
		pct := 0.0
		if weight > 0 {
			pct = round2(genders[label] / float64(weight))
		}
		out.Genders = append(out.Genders, model.GenderShare{Gender: label, Percentage: pct})
	}
	for _, label := range countryOrder {
		c := *countries[label]
		if countryViews > 0 {
			c.Percentage = round2(float64(c.Views) / float64(countryViews) * 100)
		}
		out.Countries = append(out.Countries, c)
	}
	return out
}

func sumRetention(bundles []model.AnalyticsBundle) *model.RetentionStats {
	var found bool
	var weight int64
	var impressions int64
	var avgPct, avgDur, ctr float64

	for i := range bundles {
		rt := bundles[i].Retention
		if rt == nil {
			continue
		}
		found = true
		w := bundles[i].Basic.Totals.TotalViews
		weight += w
		impressions += rt.Impressions
		avgPct += rt.AverageViewPercentage * float64(w)
		avgDur += rt.AverageViewDuration * float64(w)
		ctr += rt.ImpressionsCTR * float64(w)
	}
	if !found {
		return nil
	}

	out := &model.RetentionStats{Impressions: impressions}
	if weight > 0 {
		out.AverageViewPercentage = round2(avgPct / float64(weight))
		out.AverageViewDuration = round2(avgDur / float64(weight))
		out.ImpressionsCTR = round2(ctr / float64(weight))
	}
	return out
}

func sumVideos(bundles []model.AnalyticsBundle) *model.VideoLists {
	var found bool
	var all []model.VideoStat
	for i := range bundles {
		v := bundles[i].Videos
		if v == nil {
			continue
		}
		found = true
		all = append(all, v.TopByViews...)
	}
	if !found {
		return nil
	}

	return &model.VideoLists{
		TopByViews: topVideos(all, func(v model.VideoStat) float64 {
			return float64(v.Views)
		}),
		TopByWatchTime: topVideos(all, func(v model.VideoStat) float64 {
			return v.WatchTimeMinutes
		}),
		TopByEngagement: topVideos(all, func(v model.VideoStat) float64 {
			return float64(v.Engagements)
		}),
	}
}

// sumMeta classifies a section as available when at least one constituent
// had real backend data for it, and sums quota usage across constituents.
func sumMeta(bundles []model.AnalyticsBundle, out *model.AnalyticsBundle) model.Meta {
	present := map[string]bool{
		model.SectionEngagement:   out.Engagement != nil,
		model.SectionRevenue:      out.Revenue != nil,
		model.SectionTraffic:      out.Traffic != nil,
		model.SectionDevices:      out.Devices != nil,
		model.SectionDemographics: out.Demographics != nil,
		model.SectionRetention:    out.Retention != nil,
		model.SectionVideos:       out.Videos != nil,
	}

	anyReal := map[string]bool{}
	var quota int
	var queriedAt time.Time
	for i := range bundles {
		for _, s := range bundles[i].Meta.DataAvailable {
			anyReal[s] = true
		}
		quota += bundles[i].Meta.QuotaUsed
		if bundles[i].Meta.QueriedAt.After(queriedAt) {
			queriedAt = bundles[i].Meta.QueriedAt
		}
	}

	meta := model.Meta{QuotaUsed: quota, QueriedAt: queriedAt}
	for _, s := range model.OptionalSections {
		if present[s] && anyReal[s] {
			meta.DataAvailable = append(meta.DataAvailable, s)
		} else {
			meta.DataUnavailable = append(meta.DataUnavailable, s)
		}
	}
	return meta
}

// zeroDailySeries builds a zero-filled entry for every day of the range,
// ascending, so aggregate bundles keep the one-entry-per-day invariant even
// for an empty selection.
func zeroDailySeries(rng model.DateRange) []model.DailyStat {
	start, err := time.Parse(model.DateLayout, rng.Start)
	if err != nil {
		return []model.DailyStat{}
	}
	end, err := time.Parse(model.DateLayout, rng.End)
	if err != nil || end.Before(start) {
		return []model.DailyStat{}
	}

	days := make([]model.DailyStat, 0, int(end.Sub(start).Hours()/24)+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, model.DailyStat{Date: d.Format(model.DateLayout)})
	}
	return days
}
