package service

import (
	"fmt"
	"math"
	"sort"

	"github.com/tubepulse/tubepulse-go/internal/model"
)

// Synthesis ratios. These are display placeholders, not statistical
// estimates — they exist so the dashboard stays renderable when the backend
// withholds a section. Tuning them changes placeholder output only.
const (
	likeRate    = 0.046  // likes per view
	commentRate = 0.01   // comments per view
	shareRate   = 0.0025 // shares per view
	dislikeRate = 0.017  // dislikes per like

	retentionAvgViewPct = 42.5
	retentionCTR        = 4.8
	impressionsPerView  = 4
	topVideoCount       = 10
)

type percentSplit struct {
	label string
	pct   float64
}

// Fixed percentage splits. Each list sums to exactly 100.00.
var (
	trafficSplit = []percentSplit{
		{"search", 35}, {"suggested", 28}, {"external", 16},
		{"direct", 12}, {"channel", 6}, {"other", 3},
	}
	deviceSplit = []percentSplit{
		{"mobile", 62}, {"desktop", 23}, {"tablet", 8}, {"tv", 7},
	}
	ageSplit = []percentSplit{
		{"13-17", 5}, {"18-24", 28}, {"25-34", 32}, {"35-44", 18},
		{"45-54", 9}, {"55-64", 5}, {"65+", 3},
	}
	genderSplit = []percentSplit{
		{"male", 58}, {"female", 39}, {"other", 3},
	}
	countrySplit = []percentSplit{
		{"US", 32}, {"IN", 14}, {"GB", 8}, {"CA", 6},
		{"DE", 5}, {"BR", 5}, {"other", 30},
	}
)

// SynthService fills absent optional sections of a bundle from its base
// metrics so renderers never see a partial record. Provided sections are
// never touched, which makes synthesis idempotent, and zero-view channels
// are never synthesized from (a fabricated non-zero breakdown on an empty
// channel is worse than an honest gap).
type SynthService struct{}

func NewSynthService() *SynthService {
	return &SynthService{}
}

// Synthesize normalizes the base totals and fills every absent optional
// section when views > 0. It stamps Meta.DataAvailable with the sections the
// backend supplied and Meta.DataUnavailable with the rest, covering
// model.OptionalSections exactly once. Call during bundle construction only;
// bundles are immutable afterwards.
func (s *SynthService) Synthesize(b *model.AnalyticsBundle) {
	s.normalizeBasic(&b.Basic)

	views := b.Basic.Totals.TotalViews
	watchMinutes := b.Basic.Totals.TotalWatchTime

	// Sections already recorded as unavailable were synthesized by a prior
	// pass; they stay unavailable so re-synthesis is a no-op, not a
	// reclassification.
	prevSynth := make(map[string]bool, len(b.Meta.DataUnavailable))
	for _, s := range b.Meta.DataUnavailable {
		prevSynth[s] = true
	}

	var available, unavailable []string
	mark := func(section string, present bool) {
		if present && !prevSynth[section] {
			available = append(available, section)
		} else {
			unavailable = append(unavailable, section)
		}
	}

	mark(model.SectionEngagement, b.Engagement != nil)
	if b.Engagement == nil && views > 0 {
		b.Engagement = s.synthesizeEngagement(views)
	}

	// Revenue is never synthesized: it only exists for monetized channels
	// and fabricating earnings would be misleading rather than decorative.
	mark(model.SectionRevenue, b.Revenue != nil)

	mark(model.SectionTraffic, b.Traffic != nil)
	if b.Traffic == nil && views > 0 {
		b.Traffic = s.synthesizeTraffic(views, watchMinutes)
	}

	mark(model.SectionDevices, b.Devices != nil)
	if b.Devices == nil && views > 0 {
		b.Devices = s.synthesizeDevices(views, watchMinutes)
	}

	mark(model.SectionDemographics, b.Demographics != nil)
	if b.Demographics == nil && views > 0 {
		b.Demographics = s.synthesizeDemographics(views)
	}

	mark(model.SectionRetention, b.Retention != nil)
	if b.Retention == nil && views > 0 {
		b.Retention = s.synthesizeRetention(views, b.Basic.Totals.AverageViewDuration)
	}

	mark(model.SectionVideos, b.Videos != nil)
	if b.Videos == nil && views > 0 {
		b.Videos = s.synthesizeVideos(b.Basic.DailyData)
	}

	b.Meta.DataAvailable = available
	b.Meta.DataUnavailable = unavailable
}

// normalizeBasic reconciles the derived base fields: net subscribers is
// always gained minus lost, watch-time hours is the display string for the
// minute total, and average view duration (seconds) is recomputed from the
// totals when views are non-zero.
func (s *SynthService) normalizeBasic(basic *model.BasicStats) {
	t := &basic.Totals
	t.TotalSubscribersNet = t.TotalSubscribersGained - t.TotalSubscribersLost
	t.WatchTimeHours = fmt.Sprintf("%.1f", t.TotalWatchTime/60)
	if t.TotalViews > 0 {
		t.AverageViewDuration = round2(t.TotalWatchTime * 60 / float64(t.TotalViews))
	}
}

func (s *SynthService) synthesizeEngagement(views int64) *model.EngagementStats {
	likes := int64(math.Floor(float64(views) * likeRate))
	comments := int64(math.Floor(float64(views) * commentRate))
	shares := int64(math.Floor(float64(views) * shareRate))
	dislikes := int64(math.Floor(float64(likes) * dislikeRate))

	return &model.EngagementStats{
		Totals: model.EngagementTotals{
			TotalLikes:       likes,
			TotalDislikes:    dislikes,
			TotalComments:    comments,
			TotalShares:      shares,
			EngagementRate:   EngagementRate(likes, comments, shares, views),
			LikeDislikeRatio: LikeDislikeRatio(likes, dislikes),
		},
	}
}

// EngagementRate is (likes+comments+shares)/views * 100, rounded to two
// decimals. Zero views yields 0.
func EngagementRate(likes, comments, shares, views int64) float64 {
	if views == 0 {
		return 0
	}
	return round2(float64(likes+comments+shares) / float64(views) * 100)
}

// LikeDislikeRatio is likes/dislikes rounded to two decimals. With zero
// dislikes the ratio is reported as the raw like count.
func LikeDislikeRatio(likes, dislikes int64) float64 {
	if dislikes == 0 {
		return float64(likes)
	}
	return round2(float64(likes) / float64(dislikes))
}

func (s *SynthService) synthesizeTraffic(views int64, watchMinutes float64) *model.TrafficStats {
	sources := make([]model.TrafficSource, 0, len(trafficSplit))
	for _, sp := range trafficSplit {
		sources = append(sources, model.TrafficSource{
			Source:           sp.label,
			Views:            int64(math.Floor(float64(views) * sp.pct / 100)),
			WatchTimeMinutes: round2(watchMinutes * sp.pct / 100),
			Percentage:       sp.pct,
		})
	}
	return &model.TrafficStats{Sources: sources}
}

func (s *SynthService) synthesizeDevices(views int64, watchMinutes float64) *model.DeviceStats {
	types := make([]model.DeviceUsage, 0, len(deviceSplit))
	for _, sp := range deviceSplit {
		types = append(types, model.DeviceUsage{
			Device:           sp.label,
			Views:            int64(math.Floor(float64(views) * sp.pct / 100)),
			WatchTimeMinutes: round2(watchMinutes * sp.pct / 100),
			Percentage:       sp.pct,
		})
	}
	return &model.DeviceStats{Types: types}
}

func (s *SynthService) synthesizeDemographics(views int64) *model.DemographicStats {
	ages := make([]model.AgeShare, 0, len(ageSplit))
	for _, sp := range ageSplit {
		ages = append(ages, model.AgeShare{AgeGroup: sp.label, Percentage: sp.pct})
	}
	genders := make([]model.GenderShare, 0, len(genderSplit))
	for _, sp := range genderSplit {
		genders = append(genders, model.GenderShare{Gender: sp.label, Percentage: sp.pct})
	}
	countries := make([]model.CountryShare, 0, len(countrySplit))
	for _, sp := range countrySplit {
		countries = append(countries, model.CountryShare{
			Country:    sp.label,
			Views:      int64(math.Floor(float64(views) * sp.pct / 100)),
			Percentage: sp.pct,
		})
	}
	return &model.DemographicStats{AgeGroups: ages, Genders: genders, Countries: countries}
}

func (s *SynthService) synthesizeRetention(views int64, avgViewDuration float64) *model.RetentionStats {
	return &model.RetentionStats{
		AverageViewPercentage: retentionAvgViewPct,
		AverageViewDuration:   avgViewDuration,
		Impressions:           views * impressionsPerView,
		ImpressionsCTR:        retentionCTR,
	}
}

// synthesizeVideos builds top-N leaderboards by projecting one pseudo-video
// per day of dailyData and sorting by the respective metric descending, ties
// broken by date ascending. Empty dailyData yields empty lists, not an error.
func (s *SynthService) synthesizeVideos(daily []model.DailyStat) *model.VideoLists {
	videos := make([]model.VideoStat, 0, len(daily))
	for _, d := range daily {
		likes := int64(math.Floor(float64(d.Views) * likeRate))
		comments := int64(math.Floor(float64(d.Views) * commentRate))
		shares := int64(math.Floor(float64(d.Views) * shareRate))
		videos = append(videos, model.VideoStat{
			VideoID:          "day-" + d.Date,
			Title:            "Uploads on " + d.Date,
			Date:             d.Date,
			Views:            d.Views,
			WatchTimeMinutes: d.WatchTimeMinutes,
			Engagements:      likes + comments + shares,
		})
	}

	return &model.VideoLists{
		TopByViews: topVideos(videos, func(v model.VideoStat) float64 {
			return float64(v.Views)
		}),
		TopByWatchTime: topVideos(videos, func(v model.VideoStat) float64 {
			return v.WatchTimeMinutes
		}),
		TopByEngagement: topVideos(videos, func(v model.VideoStat) float64 {
			return float64(v.Engagements)
		}),
	}
}

func topVideos(videos []model.VideoStat, metric func(model.VideoStat) float64) []model.VideoStat {
	sorted := append([]model.VideoStat(nil), videos...)
	sort.Slice(sorted, func(i, j int) bool {
		mi, mj := metric(sorted[i]), metric(sorted[j])
		if mi != mj {
			return mi > mj
		}
		return sorted[i].Date < sorted[j].Date
	})
	if len(sorted) > topVideoCount {
		sorted = sorted[:topVideoCount]
	}
	return sorted
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
