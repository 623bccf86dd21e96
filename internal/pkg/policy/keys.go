package policy

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Allowed override keys. Dot-namespaced, case-sensitive, fixed.
const (
	KeyYearlyDivisor              = "pricing.yearlyDivisor"
	KeySameServiceSwitchCost      = "pricing.sameServiceSwitchCost"
	KeyCrossServiceBaseSwitchCost = "pricing.crossServiceBaseSwitchCost"
	KeyYearlyBillingPenalty       = "pricing.yearlyBillingPenalty"
	KeyCrossCategoryPenalty       = "pricing.crossCategoryPenalty"
	KeyMaxChangesPerRun           = "portfolio.maxChangesPerRun"
	KeyTopKPlansPerService        = "performance.topKPlansPerService"
	KeyCandidateSearchTimeoutMs   = "performance.candidateSearchTimeoutMs"
	KeyPortfolioOptimizeTimeoutMs = "performance.portfolioOptimizeTimeoutMs"
	KeyRuntimeCacheTtlMs          = "performance.runtimeCacheTtlMs"
	KeyTrackingEnabled            = "tracking.enabled"
)

type keyKind int

const (
	kindInt keyKind = iota
	kindBool
)

// keySpec closes the free-form string key space into a typed set: an int key
// carries its inclusive bounds, a bool key accepts "true"/"false" only.
type keySpec struct {
	kind keyKind
	min  int64
	max  int64
	setI func(p *Policy, n int64)
	setB func(p *Policy, b bool)
}

const maxInt = int64(^uint64(0) >> 1)

var keySpecs = map[string]keySpec{
	KeyYearlyDivisor: {
		kind: kindInt, min: 1, max: maxInt,
		setI: func(p *Policy, n int64) { p.YearlyDivisor = n },
	},
	KeySameServiceSwitchCost: {
		kind: kindInt, min: 0, max: maxInt,
		setI: func(p *Policy, n int64) { p.SameServiceSwitchCost = n },
	},
	KeyCrossServiceBaseSwitchCost: {
		kind: kindInt, min: 0, max: maxInt,
		setI: func(p *Policy, n int64) { p.CrossServiceBaseSwitchCost = n },
	},
	KeyYearlyBillingPenalty: {
		kind: kindInt, min: 0, max: maxInt,
		setI: func(p *Policy, n int64) { p.YearlyBillingPenalty = n },
	},
	KeyCrossCategoryPenalty: {
		kind: kindInt, min: 0, max: maxInt,
		setI: func(p *Policy, n int64) { p.CrossCategoryPenalty = n },
	},
	KeyMaxChangesPerRun: {
		kind: kindInt, min: 1, max: 100,
		setI: func(p *Policy, n int64) { p.MaxChangesPerRun = int(n) },
	},
	KeyTopKPlansPerService: {
		kind: kindInt, min: 1, max: 1000,
		setI: func(p *Policy, n int64) { p.TopKPlansPerService = int(n) },
	},
	KeyCandidateSearchTimeoutMs: {
		kind: kindInt, min: 1, max: 10000,
		setI: func(p *Policy, n int64) { p.CandidateSearchTimeoutMs = int(n) },
	},
	KeyPortfolioOptimizeTimeoutMs: {
		kind: kindInt, min: 1, max: 10000,
		setI: func(p *Policy, n int64) { p.PortfolioOptimizeTimeoutMs = int(n) },
	},
	KeyRuntimeCacheTtlMs: {
		kind: kindInt, min: 1000, max: 3600000,
		setI: func(p *Policy, n int64) { p.RuntimeCacheTtlMs = int(n) },
	},
	KeyTrackingEnabled: {
		kind: kindBool,
		setB: func(p *Policy, b bool) { p.TrackingEnabled = b },
	},
}

// AllowedKeys returns the allow-list in stable order.
func AllowedKeys() []string {
	keys := make([]string, 0, len(keySpecs))
	for k := range keySpecs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// normalizeKey trims the raw key and matches it exactly (case-sensitive)
// against the allow-list.
func normalizeKey(raw string) (string, error) {
	key := strings.TrimSpace(raw)
	if _, ok := keySpecs[key]; !ok {
		return "", unknownKeyError(key)
	}
	return key, nil
}

// apply validates value against the key's declared type and bounds and sets
// it on p. p doubles as the dry-run probe during batch validation.
func (s keySpec) apply(p *Policy, key, value string) error {
	v := strings.TrimSpace(value)
	switch s.kind {
	case kindBool:
		switch strings.ToLower(v) {
		case "true":
			s.setB(p, true)
		case "false":
			s.setB(p, false)
		default:
			return invalidValueError(key, fmt.Sprintf("%q is not a boolean", value))
		}
	default:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return invalidValueError(key, fmt.Sprintf("%q is not an integer", value))
		}
		if n < s.min || n > s.max {
			if s.max == maxInt {
				return invalidValueError(key, fmt.Sprintf("%d is below minimum %d", n, s.min))
			}
			return invalidValueError(key, fmt.Sprintf("%d is outside range [%d, %d]", n, s.min, s.max))
		}
		s.setI(p, n)
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
