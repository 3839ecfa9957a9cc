// Package domain holds the typed identifiers shared across modules. Each ID
// is a distinct uuid-backed type so the compiler rejects cross-type
// assignment (a ReviewID can never be passed where a UserID is expected).
package domain

import (
	"github.com/google/uuid"

	dErrors "kequity/pkg/domain-errors"
)

// UserID identifies an account (author or reviewer).
type UserID uuid.UUID

// ContributionID identifies a published contribution.
type ContributionID uuid.UUID

// ReviewID identifies a single immutable review.
type ReviewID uuid.UUID

func (id UserID) String() string         { return uuid.UUID(id).String() }
func (id ContributionID) String() string { return uuid.UUID(id).String() }
func (id ReviewID) String() string       { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }
func (id ContributionID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id ReviewID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }

// NewUserID generates a fresh user ID.
func NewUserID() UserID { return UserID(uuid.New()) }

// NewContributionID generates a fresh contribution ID.
func NewContributionID() ContributionID { return ContributionID(uuid.New()) }

// NewReviewID generates a fresh review ID.
func NewReviewID() ReviewID { return ReviewID(uuid.New()) }

// ParseUserID parses and validates a user ID at a trust boundary.
// IDs must be valid, non-empty, non-nil UUIDs.
func ParseUserID(raw string) (UserID, error) {
	u, err := parseUUID(raw, "user id")
	return UserID(u), err
}

// ParseContributionID parses and validates a contribution ID.
func ParseContributionID(raw string) (ContributionID, error) {
	u, err := parseUUID(raw, "contribution id")
	return ContributionID(u), err
}

// ParseReviewID parses and validates a review ID.
func ParseReviewID(raw string) (ReviewID, error) {
	u, err := parseUUID(raw, "review id")
	return ReviewID(u), err
}

func parseUUID(raw, what string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" must not be empty")
	}
	u, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, what+" is not a valid uuid")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" must not be the nil uuid")
	}
	return u, nil
}
