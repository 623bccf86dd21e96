package optimizer

import "time"

// SelectPortfolio trims the ranked candidate list to at most maxChanges
// non-conflicting entries: a single greedy pass that accepts a candidate
// unless the cap is reached or an accepted candidate already targets the
// same subscription. This is a deliberate set-packing approximation, not an
// exact knapsack solve; it bounds both UX surface area and compute. The
// budget is advisory: on overrun the best partial selection is returned.
func SelectPortfolio(ranked []Candidate, maxChanges int, budget time.Duration) []Candidate {
	if maxChanges < 1 {
		maxChanges = 1
	}
	deadline := time.Now().Add(budget)

	taken := make(map[uint]struct{}, maxChanges)
	selected := make([]Candidate, 0, maxChanges)
	for _, c := range ranked {
		if len(selected) >= maxChanges {
			break
		}
		if budget > 0 && time.Now().After(deadline) {
			break
		}
		if _, ok := taken[c.SubscriptionID]; ok {
			continue
		}
		taken[c.SubscriptionID] = struct{}{}
		selected = append(selected, c)
	}
	return selected
}
