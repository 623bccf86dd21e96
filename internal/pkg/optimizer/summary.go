package optimizer

// TotalPotentialSavings collapses the generated candidates to the single
// best net saving per target subscription and sums across subscriptions.
// A subscription's cost can only be saved once, so alternatives for the
// same subscription are never added together.
func TotalPotentialSavings(candidates []Candidate) int64 {
	best := make(map[uint]int64, len(candidates))
	for _, c := range candidates {
		if v, ok := best[c.SubscriptionID]; !ok || c.NetSavings > v {
			best[c.SubscriptionID] = c.NetSavings
		}
	}
	var total int64
	for _, v := range best {
		total += v
	}
	return total
}
