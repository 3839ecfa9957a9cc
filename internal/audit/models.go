// Package audit captures an append-only trail of KE-affecting events. The
// trail is informational: submission correctness never depends on it.
package audit

import (
	"context"
	"time"

	id "kequity/pkg/domain"
)

// EventType classifies audit events.
type EventType string

const (
	EventContributionPublished EventType = "contribution_published"
	EventReviewCommitted       EventType = "review_committed"
)

// Event records one KE-affecting action.
type Event struct {
	Type           EventType
	ContributionID id.ContributionID
	UserID         id.UserID
	Domain         string
	KEDelta        int64
	NewTotalKE     int64
	Warnings       []string
	Timestamp      time.Time
}

// Store is the persistence seam for audit events so tests can swap sinks.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByUser(ctx context.Context, userID id.UserID) ([]Event, error)
}
