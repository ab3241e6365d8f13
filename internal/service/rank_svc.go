package service

import (
	"sort"

	"github.com/tubepulse/tubepulse-go/internal/model"
)

// Sort directions accepted by Rank.
const (
	OrderDesc = "desc"
	OrderAsc  = "asc"
)

// metricAccessors maps ranking keys to bundle field accessors. Unknown keys
// extract 0 for every entry instead of failing, so leaderboard displays stay
// up through schema drift.
var metricAccessors = map[string]func(*model.AnalyticsBundle) float64{
	"totalViews": func(b *model.AnalyticsBundle) float64 {
		return float64(b.Basic.Totals.TotalViews)
	},
	"totalWatchTime": func(b *model.AnalyticsBundle) float64 {
		return b.Basic.Totals.TotalWatchTime
	},
	"subscribersGained": func(b *model.AnalyticsBundle) float64 {
		return float64(b.Basic.Totals.TotalSubscribersGained)
	},
	"subscribersNet": func(b *model.AnalyticsBundle) float64 {
		return float64(b.Basic.Totals.TotalSubscribersNet)
	},
	"averageViewDuration": func(b *model.AnalyticsBundle) float64 {
		return b.Basic.Totals.AverageViewDuration
	},
	"totalLikes": func(b *model.AnalyticsBundle) float64 {
		if b.Engagement == nil {
			return 0
		}
		return float64(b.Engagement.Totals.TotalLikes)
	},
	"engagementRate": func(b *model.AnalyticsBundle) float64 {
		if b.Engagement == nil {
			return 0
		}
		return b.Engagement.Totals.EngagementRate
	},
	"estimatedRevenue": func(b *model.AnalyticsBundle) float64 {
		if b.Revenue == nil {
			return 0
		}
		return b.Revenue.Totals.EstimatedRevenue
	},
}

// RankMetrics lists the supported ranking keys (for request validation).
func RankMetrics() []string {
	keys := make([]string, 0, len(metricAccessors))
	for k := range metricAccessors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// RankService orders a channel set by a chosen metric for leaderboard views.
type RankService struct{}

func NewRankService() *RankService {
	return &RankService{}
}

// RankEntry is one leaderboard row.
type RankEntry struct {
	Rank        int     `json:"rank"`
	ChannelID   string  `json:"channelId"`
	ChannelName string  `json:"channelName,omitempty"`
	Metric      string  `json:"metric"`
	Value       float64 `json:"value"`
}

// Rank orders the set by metricKey and returns the top n entries. The sort
// is stable: tied channels keep their selection order, which makes
// leaderboards reproducible. n < 0 is treated as 0; n beyond the set size
// returns the whole set.
func (s *RankService) Rank(set model.ComparisonSet, metricKey, order string, n int) []RankEntry {
	accessor, ok := metricAccessors[metricKey]
	if !ok {
		accessor = func(*model.AnalyticsBundle) float64 { return 0 }
	}

	type scored struct {
		idx   int
		value float64
	}
	entries := make([]scored, len(set))
	for i := range set {
		entries[i] = scored{idx: i, value: accessor(&set[i])}
	}

	asc := order == OrderAsc
	sort.SliceStable(entries, func(i, j int) bool {
		if asc {
			return entries[i].value < entries[j].value
		}
		return entries[i].value > entries[j].value
	})

	if n < 0 {
		n = 0
	}
	if n > len(entries) {
		n = len(entries)
	}

	out := make([]RankEntry, 0, n)
	for i := 0; i < n; i++ {
		b := &set[entries[i].idx]
		out = append(out, RankEntry{
			Rank:        i + 1,
			ChannelID:   b.ChannelID,
			ChannelName: b.ChannelName,
			Metric:      metricKey,
			Value:       entries[i].value,
		})
	}
	return out
}
