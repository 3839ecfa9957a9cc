// Package ledger holds per-(user, domain) Knowledge Equity balances. Rows are
// owned by the scoring engine: only the review submission path and the
// publish path mutate them, always inside the owning transaction.
package ledger

import (
	id "kequity/pkg/domain"
)

// DomainKE is a user's running KE balance in one knowledge domain, plus
// activity counters.
type DomainKE struct {
	UserID             id.UserID
	Domain             string
	Balance            int64
	ContributionsCount int
	ReviewsGivenCount  int
}
