package optimizer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subpilot/subpilot/app/models"
	"github.com/subpilot/subpilot/internal/pkg/policy"
)

type stubPolicy struct {
	p policy.Policy
}

func (s stubPolicy) GetEffectivePolicy() policy.Policy { return s.p }

type fakeSubRepo struct {
	subs []models.Subscription
	err  error
}

func (f *fakeSubRepo) Create(sub *models.Subscription) error         { return nil }
func (f *fakeSubRepo) GetByID(id uint) (*models.Subscription, error) { return nil, nil }
func (f *fakeSubRepo) Update(sub *models.Subscription) error         { return nil }
func (f *fakeSubRepo) Deactivate(id uint) error                      { return nil }

func (f *fakeSubRepo) GetByUserID(userID uint) ([]models.Subscription, error) {
	var out []models.Subscription
	for _, s := range f.subs {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubRepo) GetActiveByUserID(userID uint) ([]models.Subscription, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Subscription
	for _, s := range f.subs {
		if s.UserID == userID && s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubRepo) CountActiveByUserID(userID uint) (int64, error) {
	active, err := f.GetActiveByUserID(userID)
	return int64(len(active)), err
}

type fakePlanRepo struct {
	plans []models.Plan
	err   error
}

func (f *fakePlanRepo) Create(plan *models.Plan) error { return nil }

func (f *fakePlanRepo) GetByServiceID(serviceID uint) ([]models.Plan, error) {
	var out []models.Plan
	for _, p := range f.plans {
		if p.ServiceID == serviceID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePlanRepo) GetActiveByCategories(categories []string) ([]models.Plan, error) {
	if f.err != nil {
		return nil, f.err
	}
	wanted := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		wanted[c] = struct{}{}
	}
	var out []models.Plan
	for _, p := range f.plans {
		if !p.IsActive {
			continue
		}
		if _, ok := wanted[p.Service.Category]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func subscription(id, userID, serviceID uint, name, category string, price int64, cycle string) models.Subscription {
	return models.Subscription{
		ID:           id,
		UserID:       userID,
		ServiceID:    serviceID,
		Service:      models.Service{ID: serviceID, Name: name, Category: category, IsActive: true},
		Price:        price,
		BillingCycle: cycle,
		IsActive:     true,
	}
}

func plan(id, serviceID uint, serviceName, category, name string, price int64) models.Plan {
	return models.Plan{
		ID:           id,
		ServiceID:    serviceID,
		Service:      models.Service{ID: serviceID, Name: serviceName, Category: category, IsActive: true},
		Name:         name,
		MonthlyPrice: price,
		IsActive:     true,
	}
}

func newTestEngine(subs []models.Subscription, plans []models.Plan, p policy.Policy) *Engine {
	return NewEngine(&fakeSubRepo{subs: subs}, &fakePlanRepo{plans: plans}, stubPolicy{p: p})
}

func TestDetectDuplicateServices(t *testing.T) {
	subs := []models.Subscription{
		subscription(1, 7, 1, "StreamFlix", "VIDEO", 1500, models.BillingCycleMonthly),
		subscription(2, 7, 2, "VidPrime", "VIDEO", 24000, models.BillingCycleYearly),
		subscription(3, 7, 3, "TuneBox", "MUSIC", 999, models.BillingCycleMonthly),
	}
	engine := newTestEngine(subs, nil, policy.DefaultPolicy())

	groups, err := engine.DetectDuplicateServices(7)
	require.NoError(t, err)

	require.Len(t, groups, 1)
	assert.Equal(t, "VIDEO", groups[0].Category)
	assert.Len(t, groups[0].Subscriptions, 2)
	// 1500 + 24000/12
	assert.Equal(t, int64(3500), groups[0].TotalMonthlyPrice)
}

func TestDetectDuplicateServicesSingleNeverTriggers(t *testing.T) {
	subs := []models.Subscription{
		subscription(1, 7, 1, "StreamFlix", "VIDEO", 1500, models.BillingCycleMonthly),
		subscription(2, 7, 3, "TuneBox", "MUSIC", 999, models.BillingCycleMonthly),
	}
	engine := newTestEngine(subs, nil, policy.DefaultPolicy())

	groups, err := engine.DetectDuplicateServices(7)
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestDetectDuplicateServicesExcludesInactive(t *testing.T) {
	inactive := subscription(2, 7, 2, "VidPrime", "VIDEO", 2000, models.BillingCycleMonthly)
	inactive.IsActive = false
	subs := []models.Subscription{
		subscription(1, 7, 1, "StreamFlix", "VIDEO", 1500, models.BillingCycleMonthly),
		inactive,
	}
	engine := newTestEngine(subs, nil, policy.DefaultPolicy())

	groups, err := engine.DetectDuplicateServices(7)
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestDetectDuplicateServicesSortsCategories(t *testing.T) {
	subs := []models.Subscription{
		subscription(1, 7, 1, "StreamFlix", "VIDEO", 1500, models.BillingCycleMonthly),
		subscription(2, 7, 2, "VidPrime", "VIDEO", 2000, models.BillingCycleMonthly),
		subscription(3, 7, 3, "TuneBox", "MUSIC", 999, models.BillingCycleMonthly),
		subscription(4, 7, 4, "SoundWave", "MUSIC", 1099, models.BillingCycleMonthly),
	}
	engine := newTestEngine(subs, nil, policy.DefaultPolicy())

	groups, err := engine.DetectDuplicateServices(7)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "MUSIC", groups[0].Category)
	assert.Equal(t, "VIDEO", groups[1].Category)
}

func TestFindCheaperAlternativesSameServiceDowngrades(t *testing.T) {
	subs := []models.Subscription{
		subscription(1, 7, 1, "StreamFlix", "VIDEO", 17000, models.BillingCycleMonthly),
	}
	plans := []models.Plan{
		plan(10, 1, "StreamFlix", "VIDEO", "Standard", 13500),
		plan(11, 1, "StreamFlix", "VIDEO", "Basic", 5500),
		plan(12, 1, "StreamFlix", "VIDEO", "Premium", 17000),
	}
	engine := newTestEngine(subs, plans, policy.DefaultPolicy())

	candidates, err := engine.FindCheaperAlternatives(7)
	require.NoError(t, err)

	require.Len(t, candidates, 2)
	for _, c := range candidates {
		assert.True(t, c.SameService)
		assert.Equal(t, []string{ReasonSameServiceDowngrade}, c.ReasonCodes)
		assert.Equal(t, int64(0), c.SwitchCost)
	}
	// best net savings first within the partition
	assert.Equal(t, int64(11500), candidates[0].NetSavings)
	assert.Equal(t, int64(3500), candidates[1].NetSavings)

	assert.Equal(t, int64(11500), TotalPotentialSavings(candidates))
}

func TestFindCheaperAlternativesSameServiceRanksFirst(t *testing.T) {
	subs := []models.Subscription{
		subscription(1, 7, 1, "StreamFlix", "VIDEO", 10000, models.BillingCycleMonthly),
	}
	plans := []models.Plan{
		plan(10, 1, "StreamFlix", "VIDEO", "Basic", 9500),
		plan(20, 2, "VidPrime", "VIDEO", "Starter", 2000),
	}
	engine := newTestEngine(subs, plans, policy.DefaultPolicy())

	candidates, err := engine.FindCheaperAlternatives(7)
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	// cross-service nets 10000-2000-1000 = 7000, far above the same-service
	// 500, yet the downgrade still ranks first
	assert.True(t, candidates[0].SameService)
	assert.Equal(t, int64(500), candidates[0].NetSavings)
	assert.False(t, candidates[1].SameService)
	assert.Equal(t, int64(7000), candidates[1].NetSavings)
}

func TestFindCheaperAlternativesYearlyNormalization(t *testing.T) {
	subs := []models.Subscription{
		subscription(1, 7, 1, "StreamFlix", "VIDEO", 120000, models.BillingCycleYearly),
	}
	plans := []models.Plan{
		plan(10, 1, "StreamFlix", "VIDEO", "Basic", 9000),
	}
	engine := newTestEngine(subs, plans, policy.DefaultPolicy())

	candidates, err := engine.FindCheaperAlternatives(7)
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	c := candidates[0]
	assert.Equal(t, int64(10000), c.CurrentPrice)
	assert.Equal(t, int64(1000), c.Savings)
	assert.Equal(t, int64(0), c.SwitchCost)
	assert.Equal(t, int64(1000), c.NetSavings)
}

func TestFindCheaperAlternativesRequiresStrictlyCheaper(t *testing.T) {
	subs := []models.Subscription{
		subscription(1, 7, 1, "StreamFlix", "VIDEO", 1500, models.BillingCycleMonthly),
	}
	plans := []models.Plan{
		plan(10, 1, "StreamFlix", "VIDEO", "Same", 1500),
		plan(11, 1, "StreamFlix", "VIDEO", "Bigger", 2000),
	}
	engine := newTestEngine(subs, plans, policy.DefaultPolicy())

	candidates, err := engine.FindCheaperAlternatives(7)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestFindCheaperAlternativesIgnoresOtherCategories(t *testing.T) {
	subs := []models.Subscription{
		subscription(1, 7, 1, "StreamFlix", "VIDEO", 1500, models.BillingCycleMonthly),
	}
	plans := []models.Plan{
		plan(30, 3, "TuneBox", "MUSIC", "Cheap", 500),
	}
	engine := newTestEngine(subs, plans, policy.DefaultPolicy())

	candidates, err := engine.FindCheaperAlternatives(7)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestFindCheaperAlternativesHonorsTopK(t *testing.T) {
	p := policy.DefaultPolicy()
	p.TopKPlansPerService = 1

	subs := []models.Subscription{
		subscription(1, 7, 1, "StreamFlix", "VIDEO", 17000, models.BillingCycleMonthly),
	}
	plans := []models.Plan{
		plan(10, 1, "StreamFlix", "VIDEO", "Standard", 13500),
		plan(11, 1, "StreamFlix", "VIDEO", "Basic", 5500),
	}
	engine := newTestEngine(subs, plans, p)

	candidates, err := engine.FindCheaperAlternatives(7)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, uint(11), candidates[0].AltPlanID)
}

func TestFindCheaperAlternativesSurfacesNegativeNetSavings(t *testing.T) {
	subs := []models.Subscription{
		subscription(1, 7, 1, "StreamFlix", "VIDEO", 1500, models.BillingCycleMonthly),
	}
	plans := []models.Plan{
		plan(20, 2, "VidPrime", "VIDEO", "Starter", 1300),
	}
	engine := newTestEngine(subs, plans, policy.DefaultPolicy())

	candidates, err := engine.FindCheaperAlternatives(7)
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	c := candidates[0]
	assert.Equal(t, int64(200), c.Savings)
	assert.Equal(t, int64(1000), c.SwitchCost)
	assert.Equal(t, int64(-800), c.NetSavings)
}

func TestFindCheaperAlternativesNoSubscriptions(t *testing.T) {
	engine := newTestEngine(nil, nil, policy.DefaultPolicy())

	candidates, err := engine.FindCheaperAlternatives(7)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestFindCheaperAlternativesPropagatesErrors(t *testing.T) {
	wantErr := errors.New("db gone")
	engine := NewEngine(&fakeSubRepo{err: wantErr}, &fakePlanRepo{}, stubPolicy{p: policy.DefaultPolicy()})

	_, err := engine.FindCheaperAlternatives(7)
	require.Error(t, err)
	assert.ErrorIs(t, err, wantErr)
}

func TestOptimizePortfolio(t *testing.T) {
	p := policy.DefaultPolicy()
	p.MaxChangesPerRun = 2

	subs := []models.Subscription{
		subscription(1, 7, 1, "StreamFlix", "VIDEO", 17000, models.BillingCycleMonthly),
		subscription(2, 7, 3, "TuneBox", "MUSIC", 2000, models.BillingCycleMonthly),
		subscription(3, 7, 5, "PageTurner", "BOOKS", 3000, models.BillingCycleMonthly),
	}
	plans := []models.Plan{
		plan(10, 1, "StreamFlix", "VIDEO", "Standard", 13500),
		plan(11, 1, "StreamFlix", "VIDEO", "Basic", 5500),
		plan(30, 3, "TuneBox", "MUSIC", "Solo", 1000),
		plan(50, 5, "PageTurner", "BOOKS", "Lite", 1500),
	}
	engine := newTestEngine(subs, plans, p)

	portfolio, err := engine.OptimizePortfolio(7)
	require.NoError(t, err)

	assert.NotEmpty(t, portfolio.RunID)
	assert.Equal(t, uint(7), portfolio.UserID)
	assert.Equal(t, 4, portfolio.CandidateCount)
	assert.True(t, portfolio.TrackingEnabled)

	require.Len(t, portfolio.Selected, 2)
	targets := make(map[uint]struct{})
	for _, c := range portfolio.Selected {
		_, dup := targets[c.SubscriptionID]
		assert.False(t, dup, "portfolio targets subscription %d twice", c.SubscriptionID)
		targets[c.SubscriptionID] = struct{}{}
	}

	// 11500 for the video sub (max of 11500/3500), 1000 music, 1500 books
	assert.Equal(t, int64(14000), portfolio.TotalPotentialSavings)
}

func TestOptimizePortfolioNeverExceedsCap(t *testing.T) {
	p := policy.DefaultPolicy()
	p.MaxChangesPerRun = 1

	subs := []models.Subscription{
		subscription(1, 7, 1, "StreamFlix", "VIDEO", 17000, models.BillingCycleMonthly),
		subscription(2, 7, 3, "TuneBox", "MUSIC", 2000, models.BillingCycleMonthly),
	}
	plans := []models.Plan{
		plan(10, 1, "StreamFlix", "VIDEO", "Basic", 5500),
		plan(30, 3, "TuneBox", "MUSIC", "Solo", 1000),
	}
	engine := newTestEngine(subs, plans, p)

	portfolio, err := engine.OptimizePortfolio(7)
	require.NoError(t, err)
	assert.Len(t, portfolio.Selected, 1)
	assert.Equal(t, 2, portfolio.CandidateCount)
}

func TestOptimizePortfolioEmptyUser(t *testing.T) {
	engine := newTestEngine(nil, nil, policy.DefaultPolicy())

	portfolio, err := engine.OptimizePortfolio(7)
	require.NoError(t, err)
	assert.Empty(t, portfolio.Selected)
	assert.Zero(t, portfolio.CandidateCount)
	assert.Zero(t, portfolio.TotalPotentialSavings)
}
