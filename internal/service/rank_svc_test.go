package service

import (
	"testing"

	"github.com/tubepulse/tubepulse-go/internal/model"
)

func rankSet(views ...int64) model.ComparisonSet {
	set := make(model.ComparisonSet, 0, len(views))
	for i, v := range views {
		set = append(set, model.AnalyticsBundle{
			ChannelID: "UC" + string(rune('1'+i)),
			Basic: model.BasicStats{
				Totals: model.BasicTotals{TotalViews: v},
			},
		})
	}
	return set
}

func TestRank_Descending(t *testing.T) {
	svc := NewRankService()

	got := svc.Rank(rankSet(500, 2000, 1000), "totalViews", OrderDesc, 3)

	want := []string{"UC2", "UC3", "UC1"}
	for i, id := range want {
		if got[i].ChannelID != id {
			t.Errorf("rank %d = %s, want %s", i+1, got[i].ChannelID, id)
		}
	}
	if got[0].Rank != 1 || got[2].Rank != 3 {
		t.Errorf("rank numbering wrong: %d..%d", got[0].Rank, got[2].Rank)
	}
}

func TestRank_Ascending(t *testing.T) {
	svc := NewRankService()

	got := svc.Rank(rankSet(500, 2000, 1000), "totalViews", OrderAsc, 3)

	if got[0].ChannelID != "UC1" || got[2].ChannelID != "UC2" {
		t.Errorf("ascending order = %s..%s", got[0].ChannelID, got[2].ChannelID)
	}
}

func TestRank_TiesPreserveSelectionOrder(t *testing.T) {
	svc := NewRankService()

	// UC1 and UC2 tie; UC1 was selected first and must stay first.
	got := svc.Rank(rankSet(1000, 1000, 500), "totalViews", OrderDesc, 3)

	if got[0].ChannelID != "UC1" || got[1].ChannelID != "UC2" || got[2].ChannelID != "UC3" {
		t.Errorf("tie order = %s, %s, %s; want UC1, UC2, UC3",
			got[0].ChannelID, got[1].ChannelID, got[2].ChannelID)
	}
}

func TestRank_UnknownMetricExtractsZero(t *testing.T) {
	svc := NewRankService()

	got := svc.Rank(rankSet(300, 100, 200), "doesNotExist", OrderDesc, 3)

	// All values 0 → selection order preserved throughout.
	if got[0].ChannelID != "UC1" || got[1].ChannelID != "UC2" || got[2].ChannelID != "UC3" {
		t.Errorf("unknown-metric order = %s, %s, %s", got[0].ChannelID, got[1].ChannelID, got[2].ChannelID)
	}
	for _, e := range got {
		if e.Value != 0 {
			t.Errorf("unknown metric value = %.2f, want 0", e.Value)
		}
	}
}

func TestRank_TopN(t *testing.T) {
	svc := NewRankService()

	tests := []struct {
		name string
		n    int
		want int
	}{
		{"top 2", 2, 2},
		{"n exceeds set", 10, 3},
		{"zero", 0, 0},
		{"negative treated as zero", -5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.Rank(rankSet(1, 2, 3), "totalViews", OrderDesc, tt.n)
			if len(got) != tt.want {
				t.Errorf("len = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestRank_MissingSectionExtractsZero(t *testing.T) {
	svc := NewRankService()

	set := rankSet(100, 200)
	set[1].Engagement = &model.EngagementStats{
		Totals: model.EngagementTotals{TotalLikes: 50},
	}

	got := svc.Rank(set, "totalLikes", OrderDesc, 2)

	if got[0].ChannelID != "UC2" {
		t.Errorf("top = %s, want UC2 (only one with engagement)", got[0].ChannelID)
	}
	if got[1].Value != 0 {
		t.Errorf("engagement-less channel value = %.2f, want 0", got[1].Value)
	}
}

func TestRank_EmptySet(t *testing.T) {
	svc := NewRankService()

	got := svc.Rank(nil, "totalViews", OrderDesc, 5)
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}
