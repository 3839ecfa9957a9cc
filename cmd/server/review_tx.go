package main

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"kequity/internal/platform/config"
	"kequity/internal/storage"
	id "kequity/pkg/domain"
	dErrors "kequity/pkg/domain-errors"
	"kequity/pkg/platform/sentinel"
)

// reviewPostgresTx runs a review submission inside a PostgreSQL transaction.
// The contribution row is locked FOR UPDATE first, which serializes
// concurrent submissions for the same contribution while leaving other
// contributions untouched.
type reviewPostgresTx struct {
	db      *sql.DB
	timeout time.Duration
}

func newReviewPostgresTx(db *sql.DB) *reviewPostgresTx {
	return &reviewPostgresTx{db: db}
}

func (t *reviewPostgresTx) RunInTx(ctx context.Context, contributionID id.ContributionID, fn func(store storage.Store) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = config.SubmitTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	store := storage.NewPostgresTx(tx)
	if err := store.LockContribution(ctx, contributionID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "contribution not found")
		}
		return err
	}

	if err := fn(store); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	return nil
}
