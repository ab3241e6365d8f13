package service

import (
	"time"

	"github.com/tubepulse/tubepulse-go/internal/model"
)

// Per-section fetch costs in backend quota units, matching the upstream
// analytics API's billing of report dimensions.
const (
	quotaBase         = 1 // the basic report is always fetched
	quotaEngagement   = 2
	quotaRevenue      = 4
	quotaTraffic      = 2
	quotaDevices      = 2
	quotaDemographics = 3
	quotaRetention    = 2
	quotaVideos       = 3
)

// Cache TTLs per scope. Rollups cover more channels and are refreshed by the
// background worker, so they can live longer than a single-channel view.
const (
	ChannelBundleTTL = 5 * time.Minute
	GroupResultTTL   = 10 * time.Minute
	OrgRollupTTL     = 15 * time.Minute
)

var sectionQuota = map[string]int{
	model.SectionEngagement:   quotaEngagement,
	model.SectionRevenue:      quotaRevenue,
	model.SectionTraffic:      quotaTraffic,
	model.SectionDevices:      quotaDevices,
	model.SectionDemographics: quotaDemographics,
	model.SectionRetention:    quotaRetention,
	model.SectionVideos:       quotaVideos,
}

// QuotaService accounts the backend quota cost of a fetch and derives cache
// lifetimes. Costs are deterministic so identical fetches report identical
// usage.
type QuotaService struct{}

func NewQuotaService() *QuotaService {
	return &QuotaService{}
}

// FetchCost returns the quota units consumed for a bundle: the base report
// plus every section the backend actually supplied. Synthesized sections
// cost nothing — nothing was fetched for them.
func (s *QuotaService) FetchCost(supplied []string) int {
	cost := quotaBase
	for _, section := range supplied {
		cost += sectionQuota[section]
	}
	return cost
}

// TTLFor returns the cache lifetime for a scope's result.
func (s *QuotaService) TTLFor(scope model.Scope) time.Duration {
	switch scope {
	case model.ScopeBranch, model.ScopeTeam:
		return OrgRollupTTL
	case model.ScopeAggregate, model.ScopeCompare:
		return GroupResultTTL
	default:
		return ChannelBundleTTL
	}
}

// CacheExpiry returns the expiry instant for a result produced at queriedAt.
func (s *QuotaService) CacheExpiry(scope model.Scope, queriedAt time.Time) time.Time {
	return queriedAt.Add(s.TTLFor(scope))
}
