package scoring

import "math"

const (
	// Effort bonus: up to +10% on the base, earned at 1%/hour of effort.
	effortBonusCapMinutes = 600
	effortBonusCap        = 0.10

	// Reviewer reward: a share of the contribution's new total, damped by the
	// reviewer's own confidence, with a floor of 1 so every legitimate review
	// earns something even on tiny contributions.
	reviewerRewardShare = 0.15
)

// EffortBonus returns the base-KE boost for self-reported effort minutes,
// capped at +10%. Zero or negative effort earns no bonus.
func EffortBonus(effortMinutes int) float64 {
	if effortMinutes <= 0 {
		return 0
	}
	bonus := float64(effortMinutes) / effortBonusCapMinutes
	if bonus > effortBonusCap {
		return effortBonusCap
	}
	return bonus
}

// EffectiveBaseKE is the post-bonus base used for every per-review KE
// computation of a contribution.
func EffectiveBaseKE(kind Kind, effortMinutes int) float64 {
	return float64(kind.BaseKE()) * (1 + EffortBonus(effortMinutes))
}

// ReviewKE computes a single review's KE contribution against a post-bonus
// base: round(base × weight × confidence factor × rating multiplier).
// A not_credible rating zeroes the contribution regardless of weight or
// confidence; the review is still recorded and still counts.
func ReviewKE(baseKE float64, review ReviewScore) int64 {
	ke := baseKE *
		ReviewerWeight(review.ReviewerDomainKE) *
		ConfidenceFactor(review.Confidence) *
		review.Rating.Multiplier()
	return int64(math.Round(ke))
}

// TotalKE recomputes a contribution's aggregate KE from its full review set.
//
// Zero reviews means zero KE: work is never credited until reviewed. With
// reviews present, per-review KE values are combined by weight-weighted
// average rather than summation - summation would let authors farm trivial
// reviewers to inflate score without bound, while an average keeps the total
// proportional to the quality of validation and still lets high-weight
// reviewers dominate. The result is independent of review ordering.
func TotalKE(kind Kind, effortMinutes int, reviews []ReviewScore) int64 {
	if len(reviews) == 0 {
		return 0
	}
	base := EffectiveBaseKE(kind, effortMinutes)

	var weightedSum, weightSum float64
	for _, r := range reviews {
		w := ReviewerWeight(r.ReviewerDomainKE)
		weightedSum += float64(ReviewKE(base, r)) * w
		weightSum += w
	}
	// weightSum is always >= minReviewerWeight per review, never zero here.
	return int64(math.Round(weightedSum / weightSum))
}

// ReviewerReward computes the KE a reviewer earns for having reviewed:
// a confidence-damped share of the contribution's new total, never below 1.
func ReviewerReward(contributionTotalKE int64, confidence int) int64 {
	reward := float64(contributionTotalKE) * reviewerRewardShare * ConfidenceFactor(confidence)
	return int64(math.Round(math.Max(1, reward)))
}
