package storage

import (
	"errors"

	"github.com/lib/pq"

	"kequity/pkg/platform/sentinel"
)

// uniqueViolation is the PostgreSQL error code for unique constraint failures.
const uniqueViolation = "23505"

// translateInsertError maps a unique-violation into sentinel.ErrConflict so
// services stay free of driver details. The (contribution_id, reviewer_id)
// constraint is the backstop against duplicate-review races.
func translateInsertError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return sentinel.ErrConflict
	}
	return err
}
