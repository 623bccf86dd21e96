package optimizer

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/subpilot/subpilot/app/models"
	"github.com/subpilot/subpilot/app/repository"
	"github.com/subpilot/subpilot/internal/pkg/policy"
)

// PolicyProvider hands out the policy snapshot a run is computed under.
// Satisfied by *policy.Store.
type PolicyProvider interface {
	GetEffectivePolicy() policy.Policy
}

// Engine is the subscription cost-optimization engine: it detects redundant
// subscriptions, generates and scores cheaper-alternative candidates, and
// selects a bounded non-conflicting subset per run. It reads one policy
// snapshot at request entry and performs read-only data access; upstream
// repository errors propagate unchanged.
type Engine struct {
	subs   repository.SubscriptionRepository
	plans  repository.PlanRepository
	policy PolicyProvider
}

// NewEngine creates an optimization engine over the injected collaborators.
func NewEngine(subs repository.SubscriptionRepository, plans repository.PlanRepository, policyProvider PolicyProvider) *Engine {
	return &Engine{subs: subs, plans: plans, policy: policyProvider}
}

// DetectDuplicateServices groups a user's active subscriptions by category
// and reports every category with two or more members, carrying the sum of
// normalized monthly prices. A single subscription never forms a group.
func (e *Engine) DetectDuplicateServices(userID uint) ([]DuplicateGroup, error) {
	p := e.policy.GetEffectivePolicy()
	model := NewCostModel(p)

	subs, err := e.subs.GetActiveByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("load active subscriptions: %w", err)
	}

	byCategory := make(map[string][]models.Subscription)
	for _, sub := range subs {
		byCategory[sub.Service.Category] = append(byCategory[sub.Service.Category], sub)
	}

	categories := make([]string, 0, len(byCategory))
	for category, members := range byCategory {
		if len(members) >= 2 {
			categories = append(categories, category)
		}
	}
	sort.Strings(categories)

	groups := make([]DuplicateGroup, 0, len(categories))
	for _, category := range categories {
		members := byCategory[category]
		var total int64
		for _, sub := range members {
			total += model.NormalizeToMonthly(sub.Price, sub.BillingCycle)
		}
		groups = append(groups, DuplicateGroup{
			Category:          category,
			Subscriptions:     members,
			TotalMonthlyPrice: total,
		})
	}
	return groups, nil
}

// FindCheaperAlternatives generates the fully ranked candidate list for a
// user: same-service downgrades first, then cross-service switches within
// the same category, each partition ordered by net savings descending.
func (e *Engine) FindCheaperAlternatives(userID uint) ([]Candidate, error) {
	p := e.policy.GetEffectivePolicy()
	return e.findCheaperAlternatives(userID, p)
}

// OptimizePortfolio runs the full pipeline: generate, rank, select, summarize.
func (e *Engine) OptimizePortfolio(userID uint) (*Portfolio, error) {
	start := time.Now()
	p := e.policy.GetEffectivePolicy()

	candidates, err := e.findCheaperAlternatives(userID, p)
	if err != nil {
		return nil, err
	}

	selected := SelectPortfolio(candidates, p.MaxChangesPerRun,
		time.Duration(p.PortfolioOptimizeTimeoutMs)*time.Millisecond)

	return &Portfolio{
		RunID:                 uuid.NewString(),
		UserID:                userID,
		Selected:              selected,
		CandidateCount:        len(candidates),
		TotalPotentialSavings: TotalPotentialSavings(candidates),
		DurationMs:            time.Since(start).Milliseconds(),
		TrackingEnabled:       p.TrackingEnabled,
	}, nil
}

// planGroup is one service's cheapest plans, capped at topKPlansPerService.
type planGroup struct {
	serviceID   uint
	serviceName string
	category    string
	plans       []models.Plan
}

func (e *Engine) findCheaperAlternatives(userID uint, p policy.Policy) ([]Candidate, error) {
	model := NewCostModel(p)
	deadline := time.Now().Add(time.Duration(p.CandidateSearchTimeoutMs) * time.Millisecond)

	subs, err := e.subs.GetActiveByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("load active subscriptions: %w", err)
	}
	if len(subs) == 0 {
		return []Candidate{}, nil
	}

	seen := make(map[string]struct{})
	categories := make([]string, 0, len(subs))
	for _, sub := range subs {
		if _, ok := seen[sub.Service.Category]; ok {
			continue
		}
		seen[sub.Service.Category] = struct{}{}
		categories = append(categories, sub.Service.Category)
	}
	sort.Strings(categories)

	// one bulk lookup covers every subscription in the run
	plans, err := e.plans.GetActiveByCategories(categories)
	if err != nil {
		return nil, fmt.Errorf("load plans for categories: %w", err)
	}
	groups := groupPlans(plans, p.TopKPlansPerService)

	var candidates []Candidate
	for _, sub := range subs {
		// advisory search budget: return the best partial result
		if time.Now().After(deadline) {
			break
		}
		current := model.NormalizeToMonthly(sub.Price, sub.BillingCycle)
		for _, group := range groups {
			sameService := group.serviceID == sub.ServiceID
			if !sameService && group.category != sub.Service.Category {
				continue
			}
			for _, plan := range group.plans {
				if plan.MonthlyPrice >= current {
					break // plans are sorted cheapest-first
				}
				c := Candidate{
					SubscriptionID:   sub.ID,
					ServiceID:        sub.ServiceID,
					ServiceName:      sub.Service.Name,
					Category:         sub.Service.Category,
					BillingCycle:     sub.BillingCycle,
					AltServiceID:     group.serviceID,
					AltServiceName:   group.serviceName,
					AltCategory:      group.category,
					AltPlanID:        plan.ID,
					AltPlanName:      plan.Name,
					CurrentPrice:     current,
					AlternativePrice: plan.MonthlyPrice,
					SameService:      sameService,
				}
				model.score(&c)
				candidates = append(candidates, c)
			}
		}
	}

	rankCandidates(candidates)
	return candidates, nil
}

// groupPlans indexes plans per service, keeps the topK cheapest of each, and
// returns the groups in stable service-ID order.
func groupPlans(plans []models.Plan, topK int) []planGroup {
	if topK < 1 {
		topK = 1
	}
	byService := make(map[uint]*planGroup)
	order := make([]uint, 0)
	for _, plan := range plans {
		group, ok := byService[plan.ServiceID]
		if !ok {
			group = &planGroup{
				serviceID:   plan.ServiceID,
				serviceName: plan.Service.Name,
				category:    plan.Service.Category,
			}
			byService[plan.ServiceID] = group
			order = append(order, plan.ServiceID)
		}
		group.plans = append(group.plans, plan)
	}

	groups := make([]planGroup, 0, len(order))
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	for _, serviceID := range order {
		group := byService[serviceID]
		sort.SliceStable(group.plans, func(i, j int) bool {
			return group.plans[i].MonthlyPrice < group.plans[j].MonthlyPrice
		})
		if len(group.plans) > topK {
			group.plans = group.plans[:topK]
		}
		groups = append(groups, *group)
	}
	return groups
}

// rankCandidates orders the list for selection: every same-service candidate
// precedes every cross-service one regardless of savings magnitude, then net
// savings descending within each partition, with deterministic tie-breaks.
func rankCandidates(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.SameService != b.SameService {
			return a.SameService
		}
		if a.NetSavings != b.NetSavings {
			return a.NetSavings > b.NetSavings
		}
		if a.Savings != b.Savings {
			return a.Savings > b.Savings
		}
		if a.AlternativePrice != b.AlternativePrice {
			return a.AlternativePrice < b.AlternativePrice
		}
		return a.AltPlanID < b.AltPlanID
	})
}
