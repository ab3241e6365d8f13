package model

import "time"

// Optional top-level bundle sections. Every bundle's meta lists each of these
// exactly once, in either DataAvailable or DataUnavailable.
const (
	SectionEngagement   = "engagement"
	SectionRevenue      = "revenue"
	SectionTraffic      = "traffic"
	SectionDevices      = "devices"
	SectionDemographics = "demographics"
	SectionRetention    = "retention"
	SectionVideos       = "videos"
)

// OptionalSections is the canonical ordering of optional bundle sections.
var OptionalSections = []string{
	SectionEngagement,
	SectionRevenue,
	SectionTraffic,
	SectionDevices,
	SectionDemographics,
	SectionRetention,
	SectionVideos,
}

// AnalyticsBundle is the normalized metrics record for one channel over one
// date range. Optional sections are nil when the backend withheld them and
// synthesis was not applicable; a non-nil section is always fully populated.
// Bundles are immutable after construction — a range or scope change builds
// a new bundle rather than patching an existing one.
type AnalyticsBundle struct {
	ChannelID    string            `json:"channelId"`
	ChannelName  string            `json:"channelName,omitempty"`
	Range        DateRange         `json:"range"`
	Basic        BasicStats        `json:"basic"`
	Engagement   *EngagementStats  `json:"engagement,omitempty"`
	Revenue      *RevenueStats     `json:"revenue,omitempty"`
	Traffic      *TrafficStats     `json:"traffic,omitempty"`
	Devices      *DeviceStats      `json:"devices,omitempty"`
	Demographics *DemographicStats `json:"demographics,omitempty"`
	Retention    *RetentionStats   `json:"retention,omitempty"`
	Videos       *VideoLists       `json:"videos,omitempty"`
	Meta         Meta              `json:"meta"`
}

// BasicStats holds the always-present base metrics.
type BasicStats struct {
	Totals    BasicTotals `json:"totals"`
	DailyData []DailyStat `json:"dailyData"`
}

// BasicTotals are base totals over the queried range.
// TotalSubscribersNet always equals gained minus lost.
type BasicTotals struct {
	TotalViews             int64   `json:"totalViews"`
	TotalWatchTime         float64 `json:"totalWatchTimeMinutes"`
	WatchTimeHours         string  `json:"watchTimeHours"`
	TotalSubscribersGained int64   `json:"totalSubscribersGained"`
	TotalSubscribersLost   int64   `json:"totalSubscribersLost"`
	TotalSubscribersNet    int64   `json:"totalSubscribersNet"`
	AverageViewDuration    float64 `json:"averageViewDuration"`
}

// DailyStat is one calendar day of base metrics. A bundle's DailyData covers
// every day of its range in ascending order, with no gaps or duplicates.
type DailyStat struct {
	Date              string  `json:"date"` // YYYY-MM-DD
	Views             int64   `json:"views"`
	WatchTimeMinutes  float64 `json:"watchTimeMinutes"`
	SubscribersGained int64   `json:"subscribersGained"`
	SubscribersLost   int64   `json:"subscribersLost"`
}

// EngagementStats holds like/comment/share totals and derived rates.
type EngagementStats struct {
	Totals EngagementTotals `json:"totals"`
}

type EngagementTotals struct {
	TotalLikes       int64   `json:"totalLikes"`
	TotalDislikes    int64   `json:"totalDislikes"`
	TotalComments    int64   `json:"totalComments"`
	TotalShares      int64   `json:"totalShares"`
	EngagementRate   float64 `json:"engagementRate"`
	LikeDislikeRatio float64 `json:"likeDislikeRatio"`
}

// Monetization statuses carried on revenue sections.
const (
	MonetizationEnabled  = "enabled"
	MonetizationDisabled = "disabled"
)

// RevenueStats holds monetization totals. Never synthesized — present only
// when the backend supplies it for a monetized channel.
type RevenueStats struct {
	Totals             RevenueTotals `json:"totals"`
	MonetizationStatus string        `json:"monetizationStatus"`
	Currency           string        `json:"currency"`
}

type RevenueTotals struct {
	EstimatedRevenue   float64 `json:"estimatedRevenue"`
	EstimatedAdRevenue float64 `json:"estimatedAdRevenue"`
	CPM                float64 `json:"cpm"`
	RPM                float64 `json:"rpm"`
	MonetizedPlaybacks int64   `json:"monetizedPlaybacks"`
	AdImpressions      int64   `json:"adImpressions"`
	GrossRevenue       float64 `json:"grossRevenue"`
}

// TrafficStats breaks views down by traffic source.
// Source percentages sum to 100 (within rounding tolerance).
type TrafficStats struct {
	Sources []TrafficSource `json:"sources"`
}

type TrafficSource struct {
	Source           string  `json:"source"`
	Views            int64   `json:"views"`
	WatchTimeMinutes float64 `json:"watchTimeMinutes"`
	Percentage       float64 `json:"percentage"`
}

// DeviceStats breaks views down by device type.
type DeviceStats struct {
	Types []DeviceUsage `json:"types"`
}

type DeviceUsage struct {
	Device           string  `json:"device"`
	Views            int64   `json:"views"`
	WatchTimeMinutes float64 `json:"watchTimeMinutes"`
	Percentage       float64 `json:"percentage"`
}

// DemographicStats holds audience composition splits. Each list's
// percentages sum to 100 independently.
type DemographicStats struct {
	AgeGroups []AgeShare     `json:"ageGroups"`
	Genders   []GenderShare  `json:"genders"`
	Countries []CountryShare `json:"countries"`
}

type AgeShare struct {
	AgeGroup   string  `json:"ageGroup"`
	Percentage float64 `json:"percentage"`
}

type GenderShare struct {
	Gender     string  `json:"gender"`
	Percentage float64 `json:"percentage"`
}

type CountryShare struct {
	Country    string  `json:"country"`
	Views      int64   `json:"views"`
	Percentage float64 `json:"percentage"`
}

// RetentionStats holds audience-retention figures.
type RetentionStats struct {
	AverageViewPercentage float64 `json:"averageViewPercentage"`
	AverageViewDuration   float64 `json:"averageViewDuration"`
	Impressions           int64   `json:"impressions"`
	ImpressionsCTR        float64 `json:"impressionsCtr"`
}

// VideoLists holds top-N leaderboards of the channel's videos.
type VideoLists struct {
	TopByViews      []VideoStat `json:"topByViews"`
	TopByWatchTime  []VideoStat `json:"topByWatchTime"`
	TopByEngagement []VideoStat `json:"topByEngagement"`
}

type VideoStat struct {
	VideoID          string  `json:"videoId"`
	Title            string  `json:"title"`
	Date             string  `json:"date"`
	Views            int64   `json:"views"`
	WatchTimeMinutes float64 `json:"watchTimeMinutes"`
	Engagements      int64   `json:"engagements"`
}

// Meta describes how and when a bundle was produced. DataAvailable holds the
// optional sections the backend supplied; DataUnavailable holds the sections
// that were absent (and therefore synthesized or left nil). Together they
// cover OptionalSections exactly once.
type Meta struct {
	QueriedAt        time.Time `json:"queriedAt"`
	CacheExpiry      time.Time `json:"cacheExpiry"`
	QuotaUsed        int       `json:"quotaUsed"`
	DataAvailable    []string  `json:"dataAvailable"`
	DataUnavailable  []string  `json:"dataUnavailable"`
	ProcessingTimeMs int64     `json:"processingTimeMs"`
}

// Available reports whether the named section was backend-provided.
func (m Meta) Available(section string) bool {
	for _, s := range m.DataAvailable {
		if s == section {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the bundle. Aggregate and comparison results
// own copies of their constituents so cached bundles are never aliased.
func (b *AnalyticsBundle) Clone() *AnalyticsBundle {
	out := *b

	out.Basic.DailyData = append([]DailyStat(nil), b.Basic.DailyData...)

	if b.Engagement != nil {
		e := *b.Engagement
		out.Engagement = &e
	}
	if b.Revenue != nil {
		r := *b.Revenue
		out.Revenue = &r
	}
	if b.Traffic != nil {
		t := TrafficStats{Sources: append([]TrafficSource(nil), b.Traffic.Sources...)}
		out.Traffic = &t
	}
	if b.Devices != nil {
		d := DeviceStats{Types: append([]DeviceUsage(nil), b.Devices.Types...)}
		out.Devices = &d
	}
	if b.Demographics != nil {
		dg := DemographicStats{
			AgeGroups: append([]AgeShare(nil), b.Demographics.AgeGroups...),
			Genders:   append([]GenderShare(nil), b.Demographics.Genders...),
			Countries: append([]CountryShare(nil), b.Demographics.Countries...),
		}
		out.Demographics = &dg
	}
	if b.Retention != nil {
		rt := *b.Retention
		out.Retention = &rt
	}
	if b.Videos != nil {
		v := VideoLists{
			TopByViews:      append([]VideoStat(nil), b.Videos.TopByViews...),
			TopByWatchTime:  append([]VideoStat(nil), b.Videos.TopByWatchTime...),
			TopByEngagement: append([]VideoStat(nil), b.Videos.TopByEngagement...),
		}
		out.Videos = &v
	}

	out.Meta.DataAvailable = append([]string(nil), b.Meta.DataAvailable...)
	out.Meta.DataUnavailable = append([]string(nil), b.Meta.DataUnavailable...)

	return &out
}
