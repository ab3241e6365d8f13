package service

import (
	"testing"

	"github.com/tubepulse/tubepulse-go/internal/model"
)

func TestFetchCost_BaseOnly(t *testing.T) {
	svc := NewQuotaService()

	if got := svc.FetchCost(nil); got != quotaBase {
		t.Errorf("cost = %d, want %d for a basic-only fetch", got, quotaBase)
	}
}

func TestFetchCost_Deterministic(t *testing.T) {
	svc := NewQuotaService()

	supplied := []string{model.SectionEngagement, model.SectionRevenue}
	a := svc.FetchCost(supplied)
	b := svc.FetchCost(supplied)
	if a != b {
		t.Errorf("identical fetches cost %d and %d", a, b)
	}
	if a != quotaBase+quotaEngagement+quotaRevenue {
		t.Errorf("cost = %d, want %d", a, quotaBase+quotaEngagement+quotaRevenue)
	}
}

func TestFetchCost_AllSections(t *testing.T) {
	svc := NewQuotaService()

	want := quotaBase
	for _, q := range sectionQuota {
		want += q
	}
	if got := svc.FetchCost(model.OptionalSections); got != want {
		t.Errorf("cost = %d, want %d", got, want)
	}
}

func TestTTLFor_ScopeTiers(t *testing.T) {
	svc := NewQuotaService()

	if svc.TTLFor(model.ScopeSingle) != ChannelBundleTTL {
		t.Error("single scope should use the channel TTL")
	}
	if svc.TTLFor(model.ScopeCompare) != GroupResultTTL {
		t.Error("compare scope should use the group TTL")
	}
	if svc.TTLFor(model.ScopeBranch) != OrgRollupTTL {
		t.Error("branch scope should use the rollup TTL")
	}
}
