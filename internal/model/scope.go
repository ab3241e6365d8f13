package model

// Scope is the aggregation level a dashboard view requests.
type Scope string

const (
	ScopeSingle    Scope = "single"    // one channel, identity
	ScopeAggregate Scope = "aggregate" // channel group, summed
	ScopeCompare   Scope = "compare"   // channel group, itemized side by side
	ScopeBranch    Scope = "branch"    // organizational branch rollup
	ScopeTeam      Scope = "team"      // organizational team rollup
)

// MaxCompareChannels bounds an explicit comparison set.
const MaxCompareChannels = 5

// ComparisonSet is an ordered sequence of per-channel bundles sharing one
// resolved date range. Order is the channel selection order and is preserved
// through ranking tie-breaks.
type ComparisonSet []AnalyticsBundle

// AggregateResult is the per-scope output shape handed to renderers.
// Totals is always populated (zeroed for an empty selection); Channels is
// only populated for the compare scope.
type AggregateResult struct {
	Scope         Scope           `json:"scope"`
	Range         DateRange       `json:"range"`
	TotalChannels int             `json:"totalChannels"`
	TotalTeams    int             `json:"totalTeams,omitempty"`
	Totals        AnalyticsBundle `json:"totals"`
	Channels      ComparisonSet   `json:"channels,omitempty"`
}
