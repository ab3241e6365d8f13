package service

import (
	"context"
	"log"
	"time"

	"github.com/tubepulse/tubepulse-go/internal/model"
	"github.com/tubepulse/tubepulse-go/internal/repository"
	"github.com/tubepulse/tubepulse-go/pkg/hash"
)

// Fetcher retrieves the raw, partially populated bundle for one channel and
// range. The default implementation reads the Postgres stats warehouse;
// tests substitute an in-memory one.
type Fetcher interface {
	FetchChannelAnalytics(ctx context.Context, channelID string, rng model.DateRange) (*model.AnalyticsBundle, error)
}

// AnalyticsService orchestrates the full pipeline for a dashboard view:
// resolve the range, check the cache, fetch raw bundles, synthesize missing
// sections, aggregate per scope, then cache under the scope key. Overlapping
// fetches of the same key follow latest-wins: a superseded fetch still
// answers its own caller but never writes the cache.
type AnalyticsService struct {
	fetcher  Fetcher
	channels *repository.ChannelRepo
	org      *repository.OrgRepo
	cache    *CacheService
	ranges   *RangeService
	synth    *SynthService
	agg      *AggregateService
	rank     *RankService
	quota    *QuotaService
	gate     *RequestGate
}

func NewAnalyticsService(
	fetcher Fetcher,
	channels *repository.ChannelRepo,
	org *repository.OrgRepo,
	cache *CacheService,
) *AnalyticsService {
	return &AnalyticsService{
		fetcher:  fetcher,
		channels: channels,
		org:      org,
		cache:    cache,
		ranges:   NewRangeService(),
		synth:    NewSynthService(),
		agg:      NewAggregateService(),
		rank:     NewRankService(),
		quota:    NewQuotaService(),
		gate:     NewRequestGate(),
	}
}

// ChannelAnalytics returns the normalized view for a single channel.
func (s *AnalyticsService) ChannelAnalytics(ctx context.Context, channelID string, sel model.RangeSelector) (*model.AggregateResult, error) {
	rng, err := s.ranges.Resolve(sel)
	if err != nil {
		return nil, err
	}
	if _, err := s.channels.FindByChannelID(ctx, channelID); err != nil {
		return nil, err
	}
	return s.compute(ctx, model.ScopeSingle, []string{channelID}, rng, 0)
}

// GroupAnalytics returns a channel group's view, either summed into one
// bundle (aggregate) or itemized side by side (compare). Compare requires at
// least two channels and is capped at MaxCompareChannels in selection order.
func (s *AnalyticsService) GroupAnalytics(ctx context.Context, groupID string, sel model.RangeSelector, scope model.Scope) (*model.AggregateResult, error) {
	rng, err := s.ranges.Resolve(sel)
	if err != nil {
		return nil, err
	}
	if _, err := s.channels.FindGroup(ctx, groupID); err != nil {
		return nil, err
	}
	ids, err := s.channels.ListGroupChannelIDs(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if scope == model.ScopeCompare {
		if len(ids) < 2 {
			return nil, &MissingScopeDataError{Scope: scope, Needed: 2, Got: len(ids)}
		}
		if len(ids) > model.MaxCompareChannels {
			ids = ids[:model.MaxCompareChannels]
		}
	}
	return s.compute(ctx, scope, ids, rng, 0)
}

// TeamAnalytics returns the summed rollup for one team.
func (s *AnalyticsService) TeamAnalytics(ctx context.Context, teamID string, sel model.RangeSelector) (*model.AggregateResult, error) {
	rng, err := s.ranges.Resolve(sel)
	if err != nil {
		return nil, err
	}
	if _, err := s.org.FindTeam(ctx, teamID); err != nil {
		return nil, err
	}
	ids, err := s.org.ListTeamChannelIDs(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return s.compute(ctx, model.ScopeTeam, ids, rng, 0)
}

// BranchAnalytics returns the summed rollup across every team in a branch.
func (s *AnalyticsService) BranchAnalytics(ctx context.Context, branchID string, sel model.RangeSelector) (*model.AggregateResult, error) {
	rng, err := s.ranges.Resolve(sel)
	if err != nil {
		return nil, err
	}
	if _, err := s.org.FindBranch(ctx, branchID); err != nil {
		return nil, err
	}
	ids, err := s.org.ListBranchChannelIDs(ctx, branchID)
	if err != nil {
		return nil, err
	}
	teams, err := s.org.CountTeams(ctx, branchID)
	if err != nil {
		return nil, err
	}
	return s.compute(ctx, model.ScopeBranch, ids, rng, teams)
}

// Leaderboard ranks every channel in a group by the given metric. Unlike
// compare, the leaderboard covers the whole group.
func (s *AnalyticsService) Leaderboard(ctx context.Context, groupID string, sel model.RangeSelector, metricKey string, limit int) ([]RankEntry, error) {
	rng, err := s.ranges.Resolve(sel)
	if err != nil {
		return nil, err
	}
	if _, err := s.channels.FindGroup(ctx, groupID); err != nil {
		return nil, err
	}
	ids, err := s.channels.ListGroupChannelIDs(ctx, groupID)
	if err != nil {
		return nil, err
	}
	bundles, err := s.fetchBundles(ctx, ids, rng)
	if err != nil {
		return nil, err
	}
	return s.rank.Rank(bundles, metricKey, OrderDesc, limit), nil
}

// compute runs the cache-aside pipeline for one scope key.
func (s *AnalyticsService) compute(ctx context.Context, scope model.Scope, ids []string, rng model.DateRange, totalTeams int) (*model.AggregateResult, error) {
	key := hash.ScopeKey(string(scope), ids, rng.Key())

	cached, err := s.cache.GetResult(ctx, key)
	if err != nil {
		log.Printf("cache: result get error: %v", err)
	} else if cached != nil {
		return cached, nil
	}

	token := s.gate.Begin(key)
	started := time.Now()

	bundles, err := s.fetchBundles(ctx, ids, rng)
	if err != nil {
		return nil, err
	}

	result := s.agg.Aggregate(bundles, scope, rng)
	result.TotalTeams = totalTeams
	result.Totals.Meta.CacheExpiry = s.quota.CacheExpiry(scope, result.Totals.Meta.QueriedAt)
	result.Totals.Meta.ProcessingTimeMs = time.Since(started).Milliseconds()

	if s.gate.Commit(key, token) {
		ttl := s.quota.TTLFor(scope)
		if err := s.cache.SetResult(ctx, key, &result, ttl); err != nil {
			log.Printf("cache: result set error: %v", err)
		}
		for _, id := range ids {
			if err := s.cache.TrackChannelKey(ctx, id, key, ttl); err != nil {
				log.Printf("cache: key tracking error: %v", err)
			}
		}
	}
	return &result, nil
}

// fetchBundles retrieves, synthesizes, and meta-stamps one bundle per
// channel, in selection order.
func (s *AnalyticsService) fetchBundles(ctx context.Context, ids []string, rng model.DateRange) (model.ComparisonSet, error) {
	queriedAt := time.Now().UTC()
	bundles := make(model.ComparisonSet, 0, len(ids))
	for _, id := range ids {
		raw, err := s.fetcher.FetchChannelAnalytics(ctx, id, rng)
		if err != nil {
			return nil, err
		}
		s.synth.Synthesize(raw)
		raw.Meta.QueriedAt = queriedAt
		raw.Meta.QuotaUsed = s.quota.FetchCost(raw.Meta.DataAvailable)
		raw.Meta.CacheExpiry = s.quota.CacheExpiry(model.ScopeSingle, queriedAt)

		if s.channels != nil {
			if err := s.channels.TouchLastFetched(ctx, id); err != nil {
				log.Printf("channels: last_fetched update error: %v", err)
			}
		}
		bundles = append(bundles, *raw)
	}
	return bundles, nil
}

// InvalidateChannel drops every cached view derived from the channel. The
// refresh worker calls this when the warehouse reports new rows.
func (s *AnalyticsService) InvalidateChannel(ctx context.Context, channelID string) error {
	return s.cache.InvalidateChannel(ctx, channelID)
}
