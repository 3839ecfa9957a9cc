// Package review holds the review domain model and the submission protocol
// types shared between the coordinator service and its transports.
package review

import (
	"time"

	"kequity/internal/scoring"
	id "kequity/pkg/domain"
)

// Review is immutable once created. At most one review may ever exist per
// (contribution, reviewer) pair; the storage layer enforces this with a
// uniqueness constraint as the backstop against races.
type Review struct {
	ID                  id.ReviewID
	ContributionID      id.ContributionID
	ReviewerID          id.UserID
	Rating              scoring.Rating
	Confidence          int
	Comment             string
	KEAwardedToReviewer int64
	CreatedAt           time.Time
}

// SubmitRequest is a review submission as it enters the coordinator.
type SubmitRequest struct {
	ContributionID id.ContributionID
	ReviewerID     id.UserID
	Rating         string
	Confidence     int
	Comment        string
}

// SubmitResult is returned once the transaction has committed.
type SubmitResult struct {
	ReviewID               id.ReviewID
	ReviewerEarnedKE       int64
	ContributionNewTotalKE int64
	CreatedAt              time.Time

	// Warnings are advisory anomaly annotations. They never block a
	// submission and are surfaced for moderation tooling.
	Warnings []string
}

// State tracks a submission's progress through the protocol. States are used
// for logging and metrics; rejections carry their reason as a domain error.
type State string

const (
	StateValidating  State = "validating"
	StateAggregating State = "aggregating"
	StatePersisting  State = "persisting"
	StateCommitted   State = "committed"
	StateRejected    State = "rejected"
)
