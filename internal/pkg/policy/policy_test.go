package policy

import (
	"reflect"
	"testing"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()

	if p.YearlyDivisor != 12 {
		t.Fatalf("YearlyDivisor = %d, want 12", p.YearlyDivisor)
	}
	if p.SameServiceSwitchCost != 0 {
		t.Fatalf("SameServiceSwitchCost = %d, want 0", p.SameServiceSwitchCost)
	}
	if p.CrossServiceBaseSwitchCost != 1000 {
		t.Fatalf("CrossServiceBaseSwitchCost = %d, want 1000", p.CrossServiceBaseSwitchCost)
	}
	if p.YearlyBillingPenalty != 2000 {
		t.Fatalf("YearlyBillingPenalty = %d, want 2000", p.YearlyBillingPenalty)
	}
	if p.CrossCategoryPenalty != 1500 {
		t.Fatalf("CrossCategoryPenalty = %d, want 1500", p.CrossCategoryPenalty)
	}
	if p.MaxChangesPerRun != 3 {
		t.Fatalf("MaxChangesPerRun = %d, want 3", p.MaxChangesPerRun)
	}
	if p.TopKPlansPerService != 5 {
		t.Fatalf("TopKPlansPerService = %d, want 5", p.TopKPlansPerService)
	}
	if p.CandidateSearchTimeoutMs != 2000 {
		t.Fatalf("CandidateSearchTimeoutMs = %d, want 2000", p.CandidateSearchTimeoutMs)
	}
	if p.PortfolioOptimizeTimeoutMs != 1000 {
		t.Fatalf("PortfolioOptimizeTimeoutMs = %d, want 1000", p.PortfolioOptimizeTimeoutMs)
	}
	if p.RuntimeCacheTtlMs != 60000 {
		t.Fatalf("RuntimeCacheTtlMs = %d, want 60000", p.RuntimeCacheTtlMs)
	}
	if !p.TrackingEnabled {
		t.Fatalf("TrackingEnabled = false, want true")
	}
}

func TestMergeAppliesOverrides(t *testing.T) {
	got := Merge(DefaultPolicy(), map[string]string{
		KeyYearlyDivisor:    "6",
		KeyMaxChangesPerRun: "10",
		KeyTrackingEnabled:  "false",
	})

	if got.YearlyDivisor != 6 {
		t.Fatalf("YearlyDivisor = %d, want 6", got.YearlyDivisor)
	}
	if got.MaxChangesPerRun != 10 {
		t.Fatalf("MaxChangesPerRun = %d, want 10", got.MaxChangesPerRun)
	}
	if got.TrackingEnabled {
		t.Fatalf("TrackingEnabled = true, want false")
	}
	if got.TopKPlansPerService != 5 {
		t.Fatalf("untouched TopKPlansPerService = %d, want default 5", got.TopKPlansPerService)
	}
}

func TestMergeIsDeterministicAndIdempotent(t *testing.T) {
	overrides := map[string]string{
		KeyYearlyDivisor:        "6",
		KeyCrossCategoryPenalty: "500",
		KeyTopKPlansPerService:  "3",
	}

	first := Merge(DefaultPolicy(), overrides)
	for i := 0; i < 10; i++ {
		if got := Merge(DefaultPolicy(), overrides); !reflect.DeepEqual(got, first) {
			t.Fatalf("merge %d differs: %+v != %+v", i, got, first)
		}
	}
	if again := Merge(first, overrides); !reflect.DeepEqual(again, first) {
		t.Fatalf("re-merging same overrides changed the policy: %+v != %+v", again, first)
	}
}

func TestMergeSkipsUnknownAndInvalidEntries(t *testing.T) {
	got := Merge(DefaultPolicy(), map[string]string{
		"pricing.noSuchKey":     "99",
		KeyYearlyDivisor:        "not-a-number",
		KeyMaxChangesPerRun:     "0",
		KeyCrossCategoryPenalty: "500",
	})

	if got.YearlyDivisor != 12 {
		t.Fatalf("invalid value leaked into YearlyDivisor: %d", got.YearlyDivisor)
	}
	if got.MaxChangesPerRun != 3 {
		t.Fatalf("out-of-range value leaked into MaxChangesPerRun: %d", got.MaxChangesPerRun)
	}
	if got.CrossCategoryPenalty != 500 {
		t.Fatalf("valid entry in mixed batch not applied: %d", got.CrossCategoryPenalty)
	}
}

func TestMergeWithNoOverridesReturnsBase(t *testing.T) {
	base := DefaultPolicy()
	if got := Merge(base, nil); !reflect.DeepEqual(got, base) {
		t.Fatalf("Merge(base, nil) = %+v, want %+v", got, base)
	}
	if got := Merge(base, map[string]string{}); !reflect.DeepEqual(got, base) {
		t.Fatalf("Merge(base, empty) = %+v, want %+v", got, base)
	}
}
