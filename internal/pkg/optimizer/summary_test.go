package optimizer

import "testing"

func TestTotalPotentialSavingsTakesMaxPerSubscription(t *testing.T) {
	candidates := []Candidate{
		{SubscriptionID: 1, NetSavings: 3500},
		{SubscriptionID: 1, NetSavings: 11500},
		{SubscriptionID: 2, NetSavings: 200},
	}

	if got := TotalPotentialSavings(candidates); got != 11700 {
		t.Fatalf("TotalPotentialSavings = %d, want 11700", got)
	}
}

func TestTotalPotentialSavingsNeverSumsWithinSubscription(t *testing.T) {
	// subscription at 17000 with plans [13500, 5500]: 11500, not 15000
	candidates := []Candidate{
		{SubscriptionID: 1, NetSavings: 3500},
		{SubscriptionID: 1, NetSavings: 11500},
	}

	if got := TotalPotentialSavings(candidates); got != 11500 {
		t.Fatalf("TotalPotentialSavings = %d, want 11500", got)
	}
}

func TestTotalPotentialSavingsKeepsNegativeValues(t *testing.T) {
	candidates := []Candidate{
		{SubscriptionID: 1, NetSavings: -800},
		{SubscriptionID: 1, NetSavings: -2000},
	}

	if got := TotalPotentialSavings(candidates); got != -800 {
		t.Fatalf("TotalPotentialSavings = %d, want -800", got)
	}
}

func TestTotalPotentialSavingsEmpty(t *testing.T) {
	if got := TotalPotentialSavings(nil); got != 0 {
		t.Fatalf("TotalPotentialSavings(nil) = %d, want 0", got)
	}
}
