// Package contribution holds the published-work domain: a long-form piece of
// work in a knowledge domain, carrying derived reputation totals that only
// the review submission path may mutate.
package contribution

import (
	"time"

	"kequity/internal/scoring"
	id "kequity/pkg/domain"
)

// Contribution is a published piece of work. TotalKE and ReviewCount are
// derived values owned exclusively by the review submission coordinator;
// nothing else writes them.
type Contribution struct {
	ID            id.ContributionID
	Kind          scoring.Kind
	Domain        string
	AuthorID      id.UserID
	EffortMinutes int
	TotalKE       int64
	ReviewCount   int
	CreatedAt     time.Time
}

// PublishRequest is the validated input to publishing.
type PublishRequest struct {
	Kind          string
	Domain        string
	EffortMinutes int
}
