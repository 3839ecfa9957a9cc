package scoring

import "math"

// Reviewer weight bounds. The floor keeps brand-new reviewers from being
// zero-weighted (a cold start where nobody qualifies to review would
// deadlock the whole platform); the ceiling bounds any single reviewer's
// influence no matter how much KE they hold.
const (
	minReviewerWeight = 0.5
	maxReviewerWeight = 8.0
	weightLogScale    = 1.05
)

// ReviewerWeight converts a reviewer's KE balance in the contribution's
// domain into an influence weight in [0.5, 8.0]. Growth is logarithmic so
// high-reputation reviewers lead the average without dominating it.
func ReviewerWeight(domainKE int64) float64 {
	if domainKE <= 0 {
		return minReviewerWeight
	}
	w := minReviewerWeight + math.Log10(1+float64(domainKE))*weightLogScale
	return clamp(w, minReviewerWeight, maxReviewerWeight)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
