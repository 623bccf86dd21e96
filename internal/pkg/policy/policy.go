package policy

// Policy is an immutable snapshot of every tunable parameter governing the
// cost optimizer. Instances are derived purely from the compiled-in defaults
// plus the active overrides; callers read one snapshot at request entry and
// never see mid-request changes.
type Policy struct {
	YearlyDivisor              int64 `json:"yearly_divisor"`
	SameServiceSwitchCost      int64 `json:"same_service_switch_cost"`
	CrossServiceBaseSwitchCost int64 `json:"cross_service_base_switch_cost"`
	YearlyBillingPenalty       int64 `json:"yearly_billing_penalty"`
	CrossCategoryPenalty       int64 `json:"cross_category_penalty"`
	MaxChangesPerRun           int   `json:"max_changes_per_run"`
	TopKPlansPerService        int   `json:"top_k_plans_per_service"`
	CandidateSearchTimeoutMs   int   `json:"candidate_search_timeout_ms"`
	PortfolioOptimizeTimeoutMs int   `json:"portfolio_optimize_timeout_ms"`
	RuntimeCacheTtlMs          int   `json:"runtime_cache_ttl_ms"`
	TrackingEnabled            bool  `json:"tracking_enabled"`
}

// DefaultPolicy returns the compiled-in defaults, independent of overrides.
func DefaultPolicy() Policy {
	return Policy{
		YearlyDivisor:              12,
		SameServiceSwitchCost:      0,
		CrossServiceBaseSwitchCost: 1000,
		YearlyBillingPenalty:       2000,
		CrossCategoryPenalty:       1500,
		MaxChangesPerRun:           3,
		TopKPlansPerService:        5,
		CandidateSearchTimeoutMs:   2000,
		PortfolioOptimizeTimeoutMs: 1000,
		RuntimeCacheTtlMs:          60000,
		TrackingEnabled:            true,
	}
}

// Merge applies override values on top of a base policy. The merge is pure,
// deterministic and idempotent: keys outside the allow-list and values that
// fail their key's validation are skipped, leaving the base value in place.
func Merge(base Policy, overrides map[string]string) Policy {
	p := base
	for _, key := range sortedKeys(overrides) {
		spec, ok := keySpecs[key]
		if !ok {
			continue
		}
		// legacy rows with bad values degrade to the default for that key
		_ = spec.apply(&p, key, overrides[key])
	}
	return p
}
