package policy

import (
	"errors"
	"sort"
	"testing"
)

func TestAllowedKeysIsCompleteAndSorted(t *testing.T) {
	keys := AllowedKeys()
	if len(keys) != len(keySpecs) {
		t.Fatalf("AllowedKeys returned %d keys, want %d", len(keys), len(keySpecs))
	}
	if !sort.StringsAreSorted(keys) {
		t.Fatalf("AllowedKeys not sorted: %v", keys)
	}
	for _, k := range keys {
		if _, ok := keySpecs[k]; !ok {
			t.Fatalf("AllowedKeys contains unknown key %q", k)
		}
	}
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "pricing.yearlyDivisor", want: "pricing.yearlyDivisor"},
		{in: "  pricing.yearlyDivisor  ", want: "pricing.yearlyDivisor"},
		{in: "tracking.enabled", want: "tracking.enabled"},
		{in: "PRICING.YEARLYDIVISOR", wantErr: true},
		{in: "pricing.yearlydivisor", wantErr: true},
		{in: "pricing.unknown", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := normalizeKey(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownKey) {
				t.Fatalf("normalizeKey(%q) err = %v, want ErrUnknownKey", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("normalizeKey(%q) unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("normalizeKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestKeySpecBounds(t *testing.T) {
	tests := []struct {
		key   string
		value string
		valid bool
	}{
		{key: KeyYearlyDivisor, value: "1", valid: true},
		{key: KeyYearlyDivisor, value: "0", valid: false},
		{key: KeyYearlyDivisor, value: "-1", valid: false},
		{key: KeySameServiceSwitchCost, value: "0", valid: true},
		{key: KeySameServiceSwitchCost, value: "-1", valid: false},
		{key: KeyCrossServiceBaseSwitchCost, value: "250000", valid: true},
		{key: KeyCrossServiceBaseSwitchCost, value: "-5", valid: false},
		{key: KeyYearlyBillingPenalty, value: "2000", valid: true},
		{key: KeyCrossCategoryPenalty, value: "0", valid: true},
		{key: KeyMaxChangesPerRun, value: "1", valid: true},
		{key: KeyMaxChangesPerRun, value: "100", valid: true},
		{key: KeyMaxChangesPerRun, value: "0", valid: false},
		{key: KeyMaxChangesPerRun, value: "101", valid: false},
		{key: KeyTopKPlansPerService, value: "1000", valid: true},
		{key: KeyTopKPlansPerService, value: "1001", valid: false},
		{key: KeyCandidateSearchTimeoutMs, value: "10000", valid: true},
		{key: KeyCandidateSearchTimeoutMs, value: "10001", valid: false},
		{key: KeyPortfolioOptimizeTimeoutMs, value: "1", valid: true},
		{key: KeyPortfolioOptimizeTimeoutMs, value: "0", valid: false},
		{key: KeyRuntimeCacheTtlMs, value: "1000", valid: true},
		{key: KeyRuntimeCacheTtlMs, value: "999", valid: false},
		{key: KeyRuntimeCacheTtlMs, value: "3600000", valid: true},
		{key: KeyRuntimeCacheTtlMs, value: "3600001", valid: false},
		{key: KeyYearlyDivisor, value: "12.5", valid: false},
		{key: KeyYearlyDivisor, value: "abc", valid: false},
		{key: KeyYearlyDivisor, value: " 6 ", valid: true},
		{key: KeyTrackingEnabled, value: "true", valid: true},
		{key: KeyTrackingEnabled, value: "false", valid: true},
		{key: KeyTrackingEnabled, value: "TRUE", valid: true},
		{key: KeyTrackingEnabled, value: "False", valid: true},
		{key: KeyTrackingEnabled, value: "1", valid: false},
		{key: KeyTrackingEnabled, value: "yes", valid: false},
	}

	for _, tt := range tests {
		p := DefaultPolicy()
		err := keySpecs[tt.key].apply(&p, tt.key, tt.value)
		if tt.valid && err != nil {
			t.Fatalf("apply(%s, %q) unexpected error: %v", tt.key, tt.value, err)
		}
		if !tt.valid {
			if !errors.Is(err, ErrInvalidValue) {
				t.Fatalf("apply(%s, %q) err = %v, want ErrInvalidValue", tt.key, tt.value, err)
			}
			var keyErr *KeyError
			if !errors.As(err, &keyErr) || keyErr.Key != tt.key {
				t.Fatalf("apply(%s, %q) error does not carry the key: %v", tt.key, tt.value, err)
			}
		}
	}
}
