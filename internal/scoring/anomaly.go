package scoring

// Anomaly warning messages. These are advisory annotations for moderation
// tooling: they never block a submission and never become errors.
const (
	WarnIdenticalConfidence = "identical confidence value across 3 or more reviews"
	WarnMaximallyPositive   = "maximally positive: every review rated novel_insight or confirmed_correct"
	WarnLowKEHighRatings    = "low-KE reviewers giving high ratings"
)

// Thresholds for anomaly detection.
const (
	anomalyMinReviews = 3
	lowKEThreshold    = 50
)

// DetectAnomalies scans a contribution's full review set for collusion and
// gaming signals. It returns zero or more textual warnings and never fails;
// a clean set yields an empty slice.
func DetectAnomalies(reviews []ReviewScore) []string {
	warnings := []string{}
	if len(reviews) < anomalyMinReviews {
		return warnings
	}

	confidenceCounts := make(map[int]int, len(reviews))
	allTopRated := true
	lowKETopRaters := 0
	for _, r := range reviews {
		confidenceCounts[r.Confidence]++
		top := r.Rating == RatingNovelInsight || r.Rating == RatingConfirmedCorrect
		if !top {
			allTopRated = false
		}
		if top && r.ReviewerDomainKE < lowKEThreshold {
			lowKETopRaters++
		}
	}

	for _, count := range confidenceCounts {
		if count >= anomalyMinReviews {
			warnings = append(warnings, WarnIdenticalConfidence)
			break
		}
	}
	if allTopRated {
		warnings = append(warnings, WarnMaximallyPositive)
	}
	if lowKETopRaters >= anomalyMinReviews {
		warnings = append(warnings, WarnLowKEHighRatings)
	}
	return warnings
}
