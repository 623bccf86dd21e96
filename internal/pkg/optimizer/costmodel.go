package optimizer

import (
	"github.com/subpilot/subpilot/app/models"
	"github.com/subpilot/subpilot/internal/pkg/policy"
)

// CostModel computes the economics of a candidate against one policy
// snapshot. All prices are minor currency units per month after
// normalization.
type CostModel struct {
	policy policy.Policy
}

// NewCostModel creates a cost model bound to a policy snapshot.
func NewCostModel(p policy.Policy) CostModel {
	return CostModel{policy: p}
}

// NormalizeToMonthly converts a billing-cycle price into a monthly price.
// Yearly prices are divided by the policy's yearly divisor.
func (m CostModel) NormalizeToMonthly(price int64, billingCycle string) int64 {
	if billingCycle == models.BillingCycleYearly {
		divisor := m.policy.YearlyDivisor
		if divisor < 1 {
			divisor = 1
		}
		return price / divisor
	}
	return price
}

// SwitchCost models the friction of moving to the alternative. Same-service
// downgrades carry the flat same-service cost. Cross-service switches pay the
// base cost, a penalty when the categories differ, and a penalty for leaving
// a yearly-billed subscription early (lost prepayment value).
func (m CostModel) SwitchCost(c Candidate) int64 {
	if c.SameService {
		return m.policy.SameServiceSwitchCost
	}
	cost := m.policy.CrossServiceBaseSwitchCost
	if c.AltCategory != c.Category {
		cost += m.policy.CrossCategoryPenalty
	}
	if c.BillingCycle == models.BillingCycleYearly {
		cost += m.policy.YearlyBillingPenalty
	}
	return cost
}

// NetSavings is savings minus switch cost. Negative values are surfaced
// as-is; suppressing them is the caller's call.
func (m CostModel) NetSavings(c Candidate) int64 {
	return c.Savings - c.SwitchCost
}

// ConfidenceScore maps a candidate to a bounded 0-100 score, deterministic
// and monotonic: more savings raise it, more switch cost lowers it.
func (m CostModel) ConfidenceScore(c Candidate) int {
	score := int64(50)
	if c.SameService {
		score += 20
	}
	bonus := c.Savings / 500
	if bonus > 30 {
		bonus = 30
	}
	score += bonus
	malus := c.SwitchCost / 500
	if malus > 40 {
		malus = 40
	}
	score -= malus
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return int(score)
}

// ReasonCodes returns the ordered qualitative tags explaining a candidate.
func (m CostModel) ReasonCodes(c Candidate) []string {
	if c.SameService {
		return []string{ReasonSameServiceDowngrade}
	}
	codes := []string{ReasonCrossServiceSwitch}
	if c.AltCategory != c.Category {
		codes = append(codes, ReasonCrossCategorySwitch)
	}
	if c.BillingCycle == models.BillingCycleYearly {
		codes = append(codes, ReasonYearlyLockInPenalty)
	}
	return codes
}

// score fills in the derived fields of a raw candidate.
func (m CostModel) score(c *Candidate) {
	c.Savings = c.CurrentPrice - c.AlternativePrice
	c.SwitchCost = m.SwitchCost(*c)
	c.NetSavings = m.NetSavings(*c)
	c.Confidence = m.ConfidenceScore(*c)
	c.ReasonCodes = m.ReasonCodes(*c)
}
