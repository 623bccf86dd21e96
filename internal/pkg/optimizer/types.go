package optimizer

import "github.com/subpilot/subpilot/app/models"

// Reason codes attached to candidates, ordered most significant first.
const (
	ReasonSameServiceDowngrade = "SAME_SERVICE_DOWNGRADE"
	ReasonCrossServiceSwitch   = "CROSS_SERVICE_SWITCH"
	ReasonCrossCategorySwitch  = "CROSS_CATEGORY_SWITCH"
	ReasonYearlyLockInPenalty  = "YEARLY_LOCK_IN_PENALTY"
)

// Candidate is a proposed single-subscription change (downgrade or switch)
// with its computed economics. Candidates live for one request only and
// reference the subscription snapshot taken at request entry.
type Candidate struct {
	SubscriptionID uint   `json:"subscription_id"`
	ServiceID      uint   `json:"service_id"`
	ServiceName    string `json:"service_name"`
	Category       string `json:"category"`
	BillingCycle   string `json:"billing_cycle"`

	AltServiceID   uint   `json:"alt_service_id"`
	AltServiceName string `json:"alt_service_name"`
	AltCategory    string `json:"alt_category"`
	AltPlanID      uint   `json:"alt_plan_id"`
	AltPlanName    string `json:"alt_plan_name"`

	CurrentPrice     int64 `json:"current_price"`     // normalized monthly
	AlternativePrice int64 `json:"alternative_price"` // monthly
	Savings          int64 `json:"savings"`
	SwitchCost       int64 `json:"switch_cost"`
	NetSavings       int64 `json:"net_savings"` // may be negative, surfaced as-is

	Confidence  int      `json:"confidence"` // 0-100
	ReasonCodes []string `json:"reason_codes"`
	SameService bool     `json:"same_service"`
}

// DuplicateGroup is a set of at least two active subscriptions sharing a
// category, with the sum of their normalized monthly prices.
type DuplicateGroup struct {
	Category          string                `json:"category"`
	Subscriptions     []models.Subscription `json:"subscriptions"`
	TotalMonthlyPrice int64                 `json:"total_monthly_price"`
}

// Portfolio is the bounded set of candidates selected for one optimization
// run, plus the headline savings total over all generated candidates.
type Portfolio struct {
	RunID                 string      `json:"run_id"`
	UserID                uint        `json:"user_id"`
	Selected              []Candidate `json:"selected"`
	CandidateCount        int         `json:"candidate_count"`
	TotalPotentialSavings int64       `json:"total_potential_savings"`
	DurationMs            int64       `json:"duration_ms"`

	// TrackingEnabled mirrors the policy snapshot the run was computed
	// under, so callers can decide whether to record the run.
	TrackingEnabled bool `json:"-"`
}
