package scoring

// ReviewScore is the per-review input to aggregation: the outcome, the
// reviewer's self-reported confidence (0-100), and the reviewer's current KE
// balance in the contribution's domain at snapshot time.
type ReviewScore struct {
	Rating           Rating
	Confidence       int
	ReviewerDomainKE int64
}
